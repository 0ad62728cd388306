package security

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"

	"token-generation/config"
)

// MinKeyLength : минимальная длина HMAC-ключа в байтах
const MinKeyLength = 32

// LoadHMACKey читает ключ подписи: hex-строка из конфигурации или hex-файл.
// Вызывается один раз при старте, дальше ключ не меняется.
func LoadHMACKey(cfg *config.JWTConfig) ([]byte, error) {
	encoded := cfg.SecretKeyHex
	if encoded == "" {
		if cfg.SecretKeyFile == "" {
			return nil, errors.New("ключ подписи не задан")
		}
		file, err := os.ReadFile(cfg.SecretKeyFile)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения файла ключа: %w", err)
		}
		encoded = string(file)
	}

	key, err := hex.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("ключ подписи должен быть в hex: %w", err)
	}
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("ключ подписи короче %d байт", MinKeyLength)
	}

	return key, nil
}

// KeyFingerprint : первые 16 hex-символов blake2b-256 от ключа.
// Идентифицирует ключ в заголовке kid и в логах, не раскрывая его.
func KeyFingerprint(key []byte) string {
	sum := blake2b.Sum256(key)
	return hex.EncodeToString(sum[:])[:16]
}
