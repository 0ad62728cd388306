package security_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-generation/config"
	"token-generation/internal/security"
)

func TestLoadHMACKey(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	encoded := hex.EncodeToString(key)

	keyFile := filepath.Join(t.TempDir(), "hmacKey")
	require.NoError(t, os.WriteFile(keyFile, []byte(encoded+"\n"), 0o600))

	tests := []struct {
		name        string
		cfg         config.JWTConfig
		expectError string
	}{
		{name: "hex из конфигурации", cfg: config.JWTConfig{SecretKeyHex: encoded}},
		{name: "hex-файл с переводом строки", cfg: config.JWTConfig{SecretKeyFile: keyFile}},
		{name: "hex имеет приоритет над файлом", cfg: config.JWTConfig{SecretKeyHex: encoded, SecretKeyFile: "/nonexistent"}},
		{name: "ключ не задан", cfg: config.JWTConfig{}, expectError: "ключ подписи не задан"},
		{name: "нет файла", cfg: config.JWTConfig{SecretKeyFile: filepath.Join(t.TempDir(), "missing")}, expectError: "ошибка чтения файла ключа"},
		{name: "не hex", cfg: config.JWTConfig{SecretKeyHex: "not-hex"}, expectError: "должен быть в hex"},
		{name: "короткий ключ", cfg: config.JWTConfig{SecretKeyHex: "abcd"}, expectError: "короче 32 байт"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := security.LoadHMACKey(&tt.cfg)

			if tt.expectError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, key, got)
		})
	}
}

func TestKeyFingerprint(t *testing.T) {
	first := security.KeyFingerprint([]byte("0123456789abcdef0123456789abcdef"))
	second := security.KeyFingerprint([]byte("fedcba9876543210fedcba9876543210"))

	assert.Len(t, first, 16)
	assert.Equal(t, first, security.KeyFingerprint([]byte("0123456789abcdef0123456789abcdef")))
	assert.NotEqual(t, first, second)
}
