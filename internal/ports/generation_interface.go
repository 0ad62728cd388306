package ports

import (
	"context"

	"token-generation/internal/model"
)

// GenerationRepository : хранилище поколений субъектов.
// Обе операции атомарны на стороне хранилища, значения между вызовами не кэшируются.
type GenerationRepository interface {
	// GetGeneration возвращает текущее поколение, создавая запись с 0 при первом обращении
	GetGeneration(ctx context.Context, subjectID string) (uint64, error)
	// IncrementGeneration увеличивает поколение на 1 и возвращает новое значение
	IncrementGeneration(ctx context.Context, subjectID string) (uint64, error)
}

// GenerationStore : хранилище поколений, владеющее соединением
type GenerationStore interface {
	GenerationRepository
	// FindRecord читает запись без её создания, model.ErrNotFound если записи нет
	FindRecord(ctx context.Context, subjectID string) (*model.GenerationRecord, error)
	Close() error
}
