package email

import (
	"context"
	"fmt"

	"github.com/suteetoe/restb/pkg/config"
)

// NewTransport picks the transport named by EMAIL_TRANSPORT
func NewTransport(ctx context.Context, cfg config.EmailConfig) (Transport, error) {
	switch cfg.Transport {
	case "smtp", "":
		return NewSMTPTransport(cfg), nil
	case "ses":
		return NewSESTransport(ctx, cfg.AWSRegion)
	}
	return nil, fmt.Errorf("unsupported email transport %q", cfg.Transport)
}
