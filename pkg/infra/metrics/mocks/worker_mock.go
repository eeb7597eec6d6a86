package mocks

import (
	"github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	"github.com/stretchr/testify/mock"
)

type MockWorker struct {
	mock.Mock
}

func (m *MockWorker) StartWorkers(n int) {
	m.Called(n)
}

func (m *MockWorker) Process(evt *telemetry.RecommendationEvent) {
	m.Called(evt)
}

func (m *MockWorker) Shutdown() {
	m.Called()
}
