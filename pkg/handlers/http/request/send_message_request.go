package request

import (
	"fmt"
	"strings"
)

type SendMessageRequest struct {
	Text string `json:"text"`
}

func (r *SendMessageRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}
