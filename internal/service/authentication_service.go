package service

import (
	"context"
	"fmt"

	"token-generation/config"
	"token-generation/internal/model"
	"token-generation/internal/ports"
	"token-generation/internal/util"
)

// AuthenticationService : строковый интерфейс ядра для внешнего слоя обработки запросов
type AuthenticationService struct {
	tokenService ports.TokenService
	*config.JWTConfig
}

func NewAuthenticationService(tokenService ports.TokenService, cfg *config.JWTConfig) *AuthenticationService {
	return &AuthenticationService{
		tokenService,
		cfg,
	}
}

// IssueRefreshToken выпускает подписанный refresh токен.
// days == 0 означает срок жизни из конфигурации.
func (s *AuthenticationService) IssueRefreshToken(ctx context.Context, subjectID string, days int) (string, error) {
	ttl, err := util.Days(s.refreshDays(days))
	if err != nil {
		return "", err
	}

	token, err := s.tokenService.IssueRefresh(ctx, subjectID, ttl)
	if err != nil {
		return "", err
	}

	return s.serialize(token)
}

// RenewRefreshToken продлевает refresh токен.
//
// Параметры:
//   - ctx: контекст выполнения (для отмены и таймаутов)
//   - refreshToken: подписанный refresh токен
//   - days: новый срок жизни в сутках, 0 означает значение из конфигурации,
//     значения вне (0, util.MaxTTL] дают model.ErrInvalidArgument
//
// Пример:
//
//	renewed, err := authService.RenewRefreshToken(ctx, "your refresh token", 7)
//
// Возвращает:
//   - новую подписанную строку с тем же поколением
//   - model.ErrRejected, если токен невалиден, просрочен или отозван
//   - model.ErrStorage, если поколение не удалось проверить
func (s *AuthenticationService) RenewRefreshToken(ctx context.Context, refreshToken string, days int) (string, error) {
	ttl, err := util.Days(s.refreshDays(days))
	if err != nil {
		return "", err
	}

	token := s.tokenService.VerifyRefresh(refreshToken)
	if token == nil {
		return "", model.ErrRejected
	}

	renewed, err := s.tokenService.RenewRefresh(ctx, token, ttl)
	if err != nil {
		return "", err
	}

	return s.serialize(renewed)
}

// IssueAccessToken выпускает access токен по подписанному refresh токену.
// minutes == 0 означает срок жизни из конфигурации.
func (s *AuthenticationService) IssueAccessToken(ctx context.Context, refreshToken string, minutes int) (string, error) {
	ttl, err := util.Minutes(s.accessMinutes(minutes))
	if err != nil {
		return "", err
	}

	token := s.tokenService.VerifyRefresh(refreshToken)
	if token == nil {
		return "", model.ErrRejected
	}

	accessToken, err := s.tokenService.IssueAccess(ctx, token, ttl)
	if err != nil {
		return "", err
	}

	return s.serialize(accessToken)
}

// VerifyAccessToken возвращает subject access токена
func (s *AuthenticationService) VerifyAccessToken(accessToken string) (string, bool) {
	token := s.tokenService.VerifyAccess(accessToken)
	if token == nil {
		return "", false
	}
	return token.SubjectID, true
}

// VerifyRefreshToken проверяет подпись, вид и срок жизни refresh токена.
// Поколение здесь не сверяется, это делают RenewRefreshToken и IssueAccessToken.
func (s *AuthenticationService) VerifyRefreshToken(refreshToken string) (*model.RefreshToken, bool) {
	token := s.tokenService.VerifyRefresh(refreshToken)
	if token == nil {
		return nil, false
	}
	return token, true
}

func (s *AuthenticationService) RevokeAll(ctx context.Context, subjectID string) error {
	return s.tokenService.RevokeAll(ctx, subjectID)
}

func (s *AuthenticationService) serialize(token model.Token) (string, error) {
	signed, err := s.tokenService.Serialize(token)
	if err != nil {
		return "", fmt.Errorf("[AuthenticationService] ошибка подписи токена: %w", err)
	}
	return signed, nil
}

func (s *AuthenticationService) refreshDays(days int) int {
	if days == 0 {
		return s.RefreshTokenTTLDays
	}
	return days
}

func (s *AuthenticationService) accessMinutes(minutes int) int {
	if minutes == 0 {
		return s.AccessTokenTTLMinutes
	}
	return minutes
}
