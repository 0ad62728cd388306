package repository

import (
	"context"
	"sync"
	"time"

	"token-generation/internal/model"
	"token-generation/internal/util"
)

type memoryRecord struct {
	generation uint64
	updatedAt  time.Time
}

// MemoryGenerationRepository : хранилище поколений в памяти процесса.
// Не переживает рестарт, используется в тестах и при store.backend: memory.
type MemoryGenerationRepository struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
}

func NewMemoryGenerationRepository() *MemoryGenerationRepository {
	return &MemoryGenerationRepository{records: make(map[string]*memoryRecord)}
}

func (r *MemoryGenerationRepository) GetGeneration(ctx context.Context, subjectID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storageContextError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.record(subjectID).generation, nil
}

func (r *MemoryGenerationRepository) IncrementGeneration(ctx context.Context, subjectID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storageContextError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record := r.record(subjectID)
	record.generation++
	record.updatedAt = time.Now().UTC()
	return record.generation, nil
}

// FindRecord читает запись без её создания
func (r *MemoryGenerationRepository) FindRecord(ctx context.Context, subjectID string) (*model.GenerationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageContextError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[subjectID]
	if !ok {
		return nil, model.ErrNotFound
	}
	updatedAt := record.updatedAt
	return &model.GenerationRecord{
		SubjectID:  subjectID,
		Generation: record.generation,
		UpdatedAt:  &updatedAt,
	}, nil
}

func (r *MemoryGenerationRepository) Close() error {
	return nil
}

// record возвращает запись субъекта, создавая её с поколением 0. Вызывается под mu.
func (r *MemoryGenerationRepository) record(subjectID string) *memoryRecord {
	record, ok := r.records[subjectID]
	if !ok {
		record = &memoryRecord{updatedAt: time.Now().UTC()}
		r.records[subjectID] = record
	}
	return record
}

func storageContextError(err error) error {
	return util.StorageError("[MemoryGenerationRepo] обращение к хранилищу прервано", err)
}
