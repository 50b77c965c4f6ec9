package translator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// AmazonTranslate translates text through the Amazon Translate API using the
// default AWS credential chain.
type AmazonTranslate struct {
	client *translate.Client
}

var _ Service = (*AmazonTranslate)(nil)

func NewAmazonTranslate(ctx context.Context) (*AmazonTranslate, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &AmazonTranslate{
		client: translate.NewFromConfig(awsCfg),
	}, nil
}

func (t *AmazonTranslate) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	out, err := t.client.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               &text,
		SourceLanguageCode: &sourceLang,
		TargetLanguageCode: &targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	translated := ""
	if out.TranslatedText != nil {
		translated = *out.TranslatedText
	}

	slog.Debug("Translated text", "source_chars", len(text), "target_chars", len(translated), "target_lang", targetLang)

	return translated, nil
}
