package translator

import (
	"context"
)

// Service translates text between languages. Implementations must treat
// empty input as empty output without a remote call.
type Service interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Noop returns input unchanged. Used when translation is disabled.
type Noop struct{}

var _ Service = Noop{}

func (Noop) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return text, nil
}
