package model

import "time"

// Kind : дискриминатор вида токена, записывается в подписанный payload
type Kind string

const (
	KindRefresh Kind = "refresh"
	KindAccess  Kind = "access"
)

// Token : refresh или access токен.
// Реализуется только типами этого пакета, поэтому type switch по Token
// всегда исчерпывается *RefreshToken и *AccessToken.
type Token interface {
	Kind() Kind
	Subject() string
	Expiry() time.Time
	isToken()
}

// RefreshToken : долгоживущий токен, действителен пока Generation
// не меньше текущего поколения субъекта в хранилище
type RefreshToken struct {
	TokenID    string    `json:"jti"`
	SubjectID  string    `json:"id"`
	Generation uint64    `json:"generation"`
	ExpiresAt  time.Time `json:"expires"`
}

func (t *RefreshToken) Kind() Kind { return KindRefresh }
func (t *RefreshToken) Subject() string { return t.SubjectID }
func (t *RefreshToken) Expiry() time.Time { return t.ExpiresAt }
func (t *RefreshToken) isToken() {}

// AccessToken : короткоживущий токен без поколения.
// После выпуска действителен до своего ExpiresAt независимо от отзыва.
type AccessToken struct {
	TokenID   string    `json:"jti"`
	SubjectID string    `json:"id"`
	ExpiresAt time.Time `json:"expires"`
}

func (t *AccessToken) Kind() Kind { return KindAccess }
func (t *AccessToken) Subject() string { return t.SubjectID }
func (t *AccessToken) Expiry() time.Time { return t.ExpiresAt }
func (t *AccessToken) isToken() {}
