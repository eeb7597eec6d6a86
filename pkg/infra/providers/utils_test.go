package providers_test

import (
	"testing"

	"github.com/NeuralTrust/BarButler/pkg/infra/providers"
	"github.com/stretchr/testify/assert"
)

func TestFormatInstructions(t *testing.T) {
	assert.Equal(t, "[Instructions]\n", providers.FormatInstructions(nil))
	assert.Equal(t,
		"[Instructions]\n- answer briefly\n- one line\n",
		providers.FormatInstructions([]string{"answer briefly", " ", "one line"}),
	)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Top Gun", providers.FirstLine("\n  Top Gun \nuser: something else"))
	assert.Equal(t, "", providers.FirstLine("\n \n"))
}

func TestCompletionResponse_Text(t *testing.T) {
	cases := map[string]string{
		"  Inception \n": "Inception",
		"\"The Matrix\"": "The Matrix",
		"`smoky, sweet`": "smoky, sweet",
		"":               "",
	}
	for in, want := range cases {
		resp := &providers.CompletionResponse{Response: in}
		assert.Equal(t, want, resp.Text(), "input %q", in)
	}
}
