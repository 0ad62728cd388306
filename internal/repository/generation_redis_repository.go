package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"token-generation/config"
	"token-generation/internal/model"
	"token-generation/internal/util"
)

// SET NX и GET выполняются одним скриптом, поэтому первое обращение
// конкурентных клиентов не может потерять инициализацию
var getOrInitScript = redis.NewScript(`
redis.call('SET', KEYS[1], '0', 'NX')
return redis.call('GET', KEYS[1])
`)

// RedisGenerationRepository : хранилище поколений в Redis
type RedisGenerationRepository struct {
	client  *config.RedisClient
	prefix  string
	timeout time.Duration
}

func NewRedisGenerationRepository(rdb *config.RedisClient, prefix string, timeout time.Duration) *RedisGenerationRepository {
	return &RedisGenerationRepository{rdb, prefix, timeout}
}

func (r *RedisGenerationRepository) GetGeneration(ctx context.Context, subjectID string) (uint64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	val, err := getOrInitScript.Run(ctx, r.client.Client, []string{r.key(subjectID)}).Text()
	if err != nil {
		return 0, util.StorageError("[RedisGenerationRepo] ошибка получения поколения из Redis", err)
	}

	generation, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, util.StorageError("[RedisGenerationRepo] некорректное значение поколения в Redis", err)
	}
	return generation, nil
}

// IncrementGeneration : INCR атомарен и для отсутствующего ключа дает 1
func (r *RedisGenerationRepository) IncrementGeneration(ctx context.Context, subjectID string) (uint64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	generation, err := r.client.Client.Incr(ctx, r.key(subjectID)).Result()
	if err != nil {
		return 0, util.StorageError("[RedisGenerationRepo] ошибка увеличения поколения в Redis", err)
	}
	if generation < 0 {
		return 0, util.StorageError("[RedisGenerationRepo] ошибка увеличения поколения в Redis",
			fmt.Errorf("отрицательное поколение %d у %s", generation, subjectID))
	}
	return uint64(generation), nil
}

// FindRecord читает поколение без создания ключа.
// Время изменения в Redis не хранится, UpdatedAt остаётся nil.
func (r *RedisGenerationRepository) FindRecord(ctx context.Context, subjectID string) (*model.GenerationRecord, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	val, err := r.client.Client.Get(ctx, r.key(subjectID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, util.StorageError("[RedisGenerationRepo] ошибка чтения поколения из Redis", err)
	}

	generation, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return nil, util.StorageError("[RedisGenerationRepo] некорректное значение поколения в Redis", err)
	}
	return &model.GenerationRecord{SubjectID: subjectID, Generation: generation}, nil
}

func (r *RedisGenerationRepository) Close() error {
	return r.client.Close()
}

func (r *RedisGenerationRepository) key(subjectID string) string {
	return fmt.Sprintf("%sgeneration:%s", r.prefix, subjectID)
}
