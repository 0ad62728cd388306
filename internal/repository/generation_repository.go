package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"token-generation/config"
	"token-generation/internal/model"
	"token-generation/internal/util"
)

const (
	// ON CONFLICT DO UPDATE, а не DO NOTHING: RETURNING должен вернуть строку
	// и в случае, когда её только что вставил конкурентный запрос.
	// Цена: каждое чтение пишет новую версию строки и берёт блокировку строки.
	getGenerationQuery = `
		INSERT INTO generation (subject_id, generation)
		VALUES ($1, 0)
		ON CONFLICT (subject_id) DO UPDATE SET generation = generation.generation
		RETURNING generation
	`
	incrementGenerationQuery = `
		INSERT INTO generation (subject_id, generation, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (subject_id) DO UPDATE SET generation = generation.generation + 1, updated_at = NOW()
		RETURNING generation
	`
	findRecordQuery = `SELECT subject_id, generation, updated_at FROM generation WHERE subject_id = $1`

	migrateQuery = `
		CREATE TABLE IF NOT EXISTS generation (
			subject_id TEXT PRIMARY KEY,
			generation BIGINT NOT NULL DEFAULT 0 CHECK (generation >= 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
)

// GenerationRepository : хранилище поколений в Postgres
type GenerationRepository struct {
	*config.Database
	timeout time.Duration
}

func NewGenerationRepository(database *config.Database, timeout time.Duration) *GenerationRepository {
	return &GenerationRepository{database, timeout}
}

// GetGeneration возвращает поколение субъекта.
// Если записи нет, атомарно создает её со значением 0.
func (r *GenerationRepository) GetGeneration(ctx context.Context, subjectID string) (uint64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.upsert(ctx, getGenerationQuery, subjectID, "[GenerationRepo] не удалось получить поколение")
}

// IncrementGeneration увеличивает поколение на 1 одним запросом.
// Отсутствующая запись создается сразу со значением 1.
func (r *GenerationRepository) IncrementGeneration(ctx context.Context, subjectID string) (uint64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.upsert(ctx, incrementGenerationQuery, subjectID, "[GenerationRepo] не удалось увеличить поколение")
}

func (r *GenerationRepository) upsert(ctx context.Context, query, subjectID, message string) (uint64, error) {
	var generation int64
	err := r.DB.QueryRowxContext(ctx, query, subjectID).Scan(&generation)
	if err != nil {
		return 0, util.StorageError(message, err)
	}
	if generation < 0 {
		return 0, util.StorageError(message, fmt.Errorf("отрицательное поколение %d у %s", generation, subjectID))
	}

	return uint64(generation), nil
}

// FindRecord читает запись без её создания
func (r *GenerationRepository) FindRecord(ctx context.Context, subjectID string) (*model.GenerationRecord, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var row struct {
		SubjectID  string    `db:"subject_id"`
		Generation int64     `db:"generation"`
		UpdatedAt  time.Time `db:"updated_at"`
	}
	err := sqlx.GetContext(ctx, r.DB, &row, findRecordQuery, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, util.StorageError("[GenerationRepo] не удалось найти запись", err)
	}
	if row.Generation < 0 {
		return nil, util.StorageError("[GenerationRepo] не удалось найти запись", fmt.Errorf("отрицательное поколение %d", row.Generation))
	}

	return &model.GenerationRecord{
		SubjectID:  row.SubjectID,
		Generation: uint64(row.Generation),
		UpdatedAt:  &row.UpdatedAt,
	}, nil
}

// Migrate создает таблицу generation, если её ещё нет
func (r *GenerationRepository) Migrate(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.DB.ExecContext(ctx, migrateQuery); err != nil {
		return util.StorageError("[GenerationRepo] не удалось создать таблицу generation", err)
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
