package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hoopwire/hoopwire/app/database"
	"github.com/hoopwire/hoopwire/app/translator"
)

const translateBatchSize = 20

// TranslateTask fills in title_ja/description_ja for stored items still
// pending translation. One item failing marks that row failed and moves on.
type TranslateTask struct {
	Task
	repo       database.NewsRepository
	service    translator.Service
	targetLang string
}

func NewTranslateTask(repo database.NewsRepository, service translator.Service, targetLang string) *TranslateTask {
	return &TranslateTask{
		Task:       NewTask(TaskTypeTranslate),
		repo:       repo,
		service:    service,
		targetLang: targetLang,
	}
}

func (t *TranslateTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	pending, err := t.repo.GetPendingTranslation(translateBatchSize)
	if err != nil {
		return fmt.Errorf("failed to load pending translations: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	completed := 0
	failed := 0

	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		titleJA, err := t.service.Translate(ctx, item.Title, "en", t.targetLang)
		if err != nil {
			slog.Warn("Title translation failed", "id", item.ExternalID, "error", err)
			t.markFailed(item.ExternalID)
			failed++
			continue
		}

		descriptionJA, err := t.service.Translate(ctx, item.Description, "en", t.targetLang)
		if err != nil {
			slog.Warn("Description translation failed", "id", item.ExternalID, "error", err)
			t.markFailed(item.ExternalID)
			failed++
			continue
		}

		if err := t.repo.UpdateTranslation(item.ExternalID, titleJA, descriptionJA, "completed"); err != nil {
			slog.Warn("Failed to store translation", "id", item.ExternalID, "error", err)
			failed++
			continue
		}
		completed++
	}

	slog.Info("Task completed",
		"type", "Translate",
		"id", t.ID,
		"duration", t.GetDuration(),
		"pending", len(pending),
		"completed", completed,
		"failed", failed)

	return nil
}

func (t *TranslateTask) markFailed(externalID string) {
	if err := t.repo.UpdateTranslation(externalID, "", "", "failed"); err != nil {
		slog.Warn("Failed to mark translation failed", "id", externalID, "error", err)
	}
}
