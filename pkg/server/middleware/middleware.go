package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport is the ordered middleware chain applied to the API group.
type Transport struct {
	chain []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	return &Transport{chain: middlewares}
}

// Handlers returns the chain in the form fiber's Use expects.
func (t *Transport) Handlers() []any {
	handlers := make([]any, 0, len(t.chain))
	for _, m := range t.chain {
		handlers = append(handlers, m.Middleware())
	}
	return handlers
}

func (t *Transport) Len() int {
	return len(t.chain)
}
