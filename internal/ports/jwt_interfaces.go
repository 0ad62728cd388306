package ports

import "token-generation/internal/model"

// TokenCodec : подпись и проверка токенов общим симметричным ключом
type TokenCodec interface {
	Encode(token model.Token) (string, error)
	Decode(tokenStr string) (model.Token, error)
}
