package ports

import (
	"context"
	"time"

	"token-generation/internal/model"
)

type TokenService interface {
	IssueRefresh(ctx context.Context, subjectID string, ttl time.Duration) (*model.RefreshToken, error)
	RefreshIsValid(ctx context.Context, token *model.RefreshToken) bool
	RenewRefresh(ctx context.Context, token *model.RefreshToken, ttl time.Duration) (*model.RefreshToken, error)
	IssueAccess(ctx context.Context, token *model.RefreshToken, ttl time.Duration) (*model.AccessToken, error)
	RevokeAll(ctx context.Context, subjectID string) error
	Serialize(token model.Token) (string, error)
	VerifyRefresh(tokenStr string) *model.RefreshToken
	VerifyAccess(tokenStr string) *model.AccessToken
}

type AuthenticationService interface {
	IssueRefreshToken(ctx context.Context, subjectID string, days int) (string, error)
	RenewRefreshToken(ctx context.Context, refreshToken string, days int) (string, error)
	IssueAccessToken(ctx context.Context, refreshToken string, minutes int) (string, error)
	VerifyAccessToken(accessToken string) (string, bool)
	VerifyRefreshToken(refreshToken string) (*model.RefreshToken, bool)
	RevokeAll(ctx context.Context, subjectID string) error
}

// AccessTokenVerifier : то, что нужно middleware для проверки access токена
type AccessTokenVerifier interface {
	VerifyAccessToken(accessToken string) (string, bool)
}
