package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-generation/config"
	"token-generation/internal/model"
	"token-generation/internal/ports"
	"token-generation/internal/repository"
)

func TestShowGeneration_DoesNotCreateRecord(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	stores := map[string]ports.GenerationStore{
		"memory": repository.NewMemoryGenerationRepository(),
		"redis":  repository.NewRedisGenerationRepository(&config.RedisClient{Client: client}, "cli:", time.Second),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var out bytes.Buffer

			require.NoError(t, showGeneration(ctx, store, "u1", &out))

			var missing map[string]any
			require.NoError(t, json.Unmarshal(out.Bytes(), &missing))
			assert.Equal(t, map[string]any{"subject_id": "u1", "found": false}, missing)

			_, err := store.FindRecord(ctx, "u1")
			assert.ErrorIs(t, err, model.ErrNotFound, "просмотр не создает запись")

			_, err = store.IncrementGeneration(ctx, "u1")
			require.NoError(t, err)
			out.Reset()

			require.NoError(t, showGeneration(ctx, store, "u1", &out))

			var record model.GenerationRecord
			require.NoError(t, json.Unmarshal(out.Bytes(), &record))
			assert.Equal(t, "u1", record.SubjectID)
			assert.Equal(t, uint64(1), record.Generation)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(model.ErrTokenRevoked))
	assert.Equal(t, 3, exitCode(model.ErrStorage))
	assert.Equal(t, 2, exitCode(model.ErrInvalidArgument))
}
