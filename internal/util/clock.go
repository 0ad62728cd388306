package util

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"token-generation/internal/model"
)

// MaxTTL : предельный срок жизни токена, 100 лет
const MaxTTL = 100 * 365 * 24 * time.Hour

// Days переводит сутки в срок жизни токена.
// Значения вне (0, MaxTTL] дают model.ErrInvalidArgument.
func Days(days int) (time.Duration, error) {
	return ttlOf(days, 24*time.Hour)
}

// Minutes переводит минуты в срок жизни токена
func Minutes(minutes int) (time.Duration, error) {
	return ttlOf(minutes, time.Minute)
}

// ttlOf сравнивает n с пределом до умножения, иначе time.Duration переполнится
func ttlOf(n int, unit time.Duration) (time.Duration, error) {
	limit := int64(MaxTTL / unit)
	if n <= 0 || int64(n) > limit {
		return 0, fmt.Errorf("%w: срок жизни должен быть от 1 до %d", model.ErrInvalidArgument, limit)
	}
	return time.Duration(n) * unit, nil
}

// CheckTTL : 0 < ttl <= MaxTTL
func CheckTTL(ttl time.Duration) error {
	if ttl <= 0 || ttl > MaxTTL {
		return fmt.Errorf("%w: срок жизни должен быть в пределах (0, %s]", model.ErrInvalidArgument, MaxTTL)
	}
	return nil
}

// ExpiresIn возвращает момент истечения через ttl от текущего времени clock.
// Время округляется до миллисекунд, с такой точностью оно хранится в токене.
func ExpiresIn(clock clockwork.Clock, ttl time.Duration) time.Time {
	return FromUnixMilli(clock.Now().Add(ttl).UnixMilli())
}

// IsExpired : момент expiresAt строго раньше текущего времени
func IsExpired(clock clockwork.Clock, expiresAt time.Time) bool {
	return expiresAt.Before(clock.Now())
}

func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
