package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"token-generation/internal/model"
	"token-generation/internal/ports"
	"token-generation/internal/util"
)

type TokenService struct {
	generationRepository ports.GenerationRepository
	codec                ports.TokenCodec
	clock                clockwork.Clock
}

func NewTokenService(
	repo ports.GenerationRepository,
	codec ports.TokenCodec,
	clock clockwork.Clock,
) *TokenService {
	return &TokenService{
		repo,
		codec,
		clock,
	}
}

// IssueRefresh выпускает refresh токен с текущим поколением субъекта.
//
// Параметры:
//   - ctx: контекст выполнения (для отмены и таймаутов)
//   - subjectID: идентификатор субъекта
//   - ttl: срок жизни токена от текущего момента
//
// Возвращает:
//   - model.RefreshToken
//   - model.ErrInvalidArgument при пустом subjectID или ttl вне (0, util.MaxTTL]
//   - model.ErrStorage, если поколение не удалось прочитать
func (s *TokenService) IssueRefresh(ctx context.Context, subjectID string, ttl time.Duration) (*model.RefreshToken, error) {
	if err := validateIssue(subjectID, ttl); err != nil {
		return nil, err
	}

	generation, err := s.generationRepository.GetGeneration(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("[TokenService] не удалось выпустить refresh токен: %w", err)
	}

	return &model.RefreshToken{
		TokenID:    uuid.NewString(),
		SubjectID:  subjectID,
		Generation: generation,
		ExpiresAt:  util.ExpiresIn(s.clock, ttl),
	}, nil
}

// RefreshIsValid : поколение токена не меньше текущего поколения субъекта.
// Если поколение не удалось прочитать, токен считается невалидным.
func (s *TokenService) RefreshIsValid(ctx context.Context, token *model.RefreshToken) bool {
	return s.checkRefresh(ctx, token) == nil
}

// RenewRefresh возвращает копию токена с новым сроком жизни now+ttl.
// Поколение не меняется, исходный токен не изменяется.
func (s *TokenService) RenewRefresh(ctx context.Context, token *model.RefreshToken, ttl time.Duration) (*model.RefreshToken, error) {
	if err := util.CheckTTL(ttl); err != nil {
		return nil, err
	}
	if err := s.rejection(s.checkRefresh(ctx, token)); err != nil {
		return nil, err
	}

	return &model.RefreshToken{
		TokenID:    uuid.NewString(),
		SubjectID:  token.SubjectID,
		Generation: token.Generation,
		ExpiresAt:  util.ExpiresIn(s.clock, ttl),
	}, nil
}

// IssueAccess выпускает access токен по действующему refresh токену
func (s *TokenService) IssueAccess(ctx context.Context, token *model.RefreshToken, ttl time.Duration) (*model.AccessToken, error) {
	if err := util.CheckTTL(ttl); err != nil {
		return nil, err
	}
	if err := s.rejection(s.checkRefresh(ctx, token)); err != nil {
		return nil, err
	}

	return &model.AccessToken{
		TokenID:   uuid.NewString(),
		SubjectID: token.SubjectID,
		ExpiresAt: util.ExpiresIn(s.clock, ttl),
	}, nil
}

// RevokeAll : "выход на всех устройствах".
// Увеличивает поколение субъекта, после чего все ранее выпущенные refresh токены
// отклоняются. Запись дожидается подтверждения хранилища.
func (s *TokenService) RevokeAll(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return fmt.Errorf("%w: пустой subjectID", model.ErrInvalidArgument)
	}

	generation, err := s.generationRepository.IncrementGeneration(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("[TokenService] не удалось отозвать токены: %w", err)
	}

	zap.L().Info("refresh токены отозваны",
		zap.String("subject_id", subjectID),
		zap.Uint64("generation", generation),
	)
	return nil
}

func (s *TokenService) Serialize(token model.Token) (string, error) {
	return s.codec.Encode(token)
}

func (s *TokenService) VerifyRefresh(tokenStr string) *model.RefreshToken {
	token, err := s.codec.Decode(tokenStr)
	if err != nil {
		zap.L().Debug("refresh токен не прошёл проверку", zap.Error(err))
		return nil
	}

	refreshToken, ok := token.(*model.RefreshToken)
	if !ok {
		zap.L().Info("ожидался refresh токен", zap.String("kind", string(token.Kind())))
		return nil
	}
	return refreshToken
}

func (s *TokenService) VerifyAccess(tokenStr string) *model.AccessToken {
	token, err := s.codec.Decode(tokenStr)
	if err != nil {
		zap.L().Debug("access токен не прошёл проверку", zap.Error(err))
		return nil
	}

	accessToken, ok := token.(*model.AccessToken)
	if !ok {
		zap.L().Info("ожидался access токен", zap.String("kind", string(token.Kind())))
		return nil
	}
	return accessToken
}

// checkRefresh различает причины отказа: ErrTokenInvalid, ErrTokenRevoked, ErrStorage
func (s *TokenService) checkRefresh(ctx context.Context, token *model.RefreshToken) error {
	if token == nil || token.SubjectID == "" {
		return fmt.Errorf("%w: пустой refresh токен", model.ErrTokenInvalid)
	}
	if util.IsExpired(s.clock, token.ExpiresAt) {
		return fmt.Errorf("%w: срок действия истёк", model.ErrTokenInvalid)
	}

	current, err := s.generationRepository.GetGeneration(ctx, token.SubjectID)
	if err != nil {
		return err
	}
	if token.Generation < current {
		return fmt.Errorf("%w: поколение %d, текущее %d", model.ErrTokenRevoked, token.Generation, current)
	}

	return nil
}

// rejection логирует внутреннюю причину и скрывает её от вызывающего:
// наружу уходит либо model.ErrRejected, либо ошибка хранилища
func (s *TokenService) rejection(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrStorage):
		return fmt.Errorf("[TokenService] не удалось проверить поколение: %w", err)
	default:
		reason := "TOKEN_INVALID"
		if errors.Is(err, model.ErrTokenRevoked) {
			reason = "TOKEN_REVOKED"
		}
		zap.L().Info("refresh токен отклонён", zap.String("reason", reason), zap.Error(err))
		return model.ErrRejected
	}
}

func validateIssue(subjectID string, ttl time.Duration) error {
	if subjectID == "" {
		return fmt.Errorf("%w: пустой subjectID", model.ErrInvalidArgument)
	}
	return util.CheckTTL(ttl)
}
