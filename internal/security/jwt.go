package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"token-generation/internal/model"
	"token-generation/internal/util"
)

var (
	errKeyIDMismatch = errors.New("kid токена не совпадает с активным ключом")
	errUnknownKind   = errors.New("неизвестный вид токена")
)

// Claims : payload токена. Стандартные exp/iat не заполняются,
// срок жизни определяется только полем Expires (unix ms).
type Claims struct {
	Type       model.Kind `json:"type"`
	SubjectID  string     `json:"id"`
	Generation *uint64    `json:"generation,omitempty"`
	Expires    int64      `json:"expires"`
	jwt.RegisteredClaims
}

// JWTService подписывает и проверяет токены алгоритмом HS256
type JWTService struct {
	secretKey []byte
	keyID     string
	clock     clockwork.Clock
}

func NewJWTService(secretKey []byte, clock clockwork.Clock) *JWTService {
	return &JWTService{
		secretKey: secretKey,
		keyID:     KeyFingerprint(secretKey),
		clock:     clock,
	}
}

// KeyID : отпечаток активного ключа, он же заголовок kid
func (service *JWTService) KeyID() string {
	return service.keyID
}

func (service *JWTService) Encode(token model.Token) (string, error) {
	claims, err := claimsFromToken(token)
	if err != nil {
		return "", err
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtToken.Header["kid"] = service.keyID

	signed, err := jwtToken.SignedString(service.secretKey)
	if err != nil {
		return "", util.LogError("[JWTService] ошибка подписи токена", err)
	}

	return signed, nil
}

// Decode проверяет подпись, алгоритм, kid и срок жизни.
// Любая ошибка возвращается как model.ErrTokenInvalid.
func (service *JWTService) Decode(tokenStr string) (model.Token, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: пустая строка", model.ErrTokenInvalid)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, service.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}

	if claims.SubjectID == "" {
		return nil, fmt.Errorf("%w: пустой id", model.ErrTokenInvalid)
	}

	expiresAt := util.FromUnixMilli(claims.Expires)
	if claims.Expires <= 0 || util.IsExpired(service.clock, expiresAt) {
		return nil, fmt.Errorf("%w: срок действия истёк", model.ErrTokenInvalid)
	}

	switch claims.Type {
	case model.KindRefresh:
		if claims.Generation == nil {
			return nil, fmt.Errorf("%w: refresh токен без поколения", model.ErrTokenInvalid)
		}
		return &model.RefreshToken{
			TokenID:    claims.ID,
			SubjectID:  claims.SubjectID,
			Generation: *claims.Generation,
			ExpiresAt:  expiresAt,
		}, nil
	case model.KindAccess:
		if claims.Generation != nil {
			return nil, fmt.Errorf("%w: access токен с поколением", model.ErrTokenInvalid)
		}
		return &model.AccessToken{
			TokenID:   claims.ID,
			SubjectID: claims.SubjectID,
			ExpiresAt: expiresAt,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %w %q", model.ErrTokenInvalid, errUnknownKind, claims.Type)
	}
}

func (service *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if kid, _ := token.Header["kid"].(string); kid != service.keyID {
		return nil, errKeyIDMismatch
	}
	return service.secretKey, nil
}

func claimsFromToken(token model.Token) (*Claims, error) {
	switch t := token.(type) {
	case *model.RefreshToken:
		if t == nil {
			break
		}
		generation := t.Generation
		return &Claims{
			Type:             model.KindRefresh,
			SubjectID:        t.SubjectID,
			Generation:       &generation,
			Expires:          t.ExpiresAt.UnixMilli(),
			RegisteredClaims: jwt.RegisteredClaims{ID: t.TokenID},
		}, nil
	case *model.AccessToken:
		if t == nil {
			break
		}
		return &Claims{
			Type:             model.KindAccess,
			SubjectID:        t.SubjectID,
			Expires:          t.ExpiresAt.UnixMilli(),
			RegisteredClaims: jwt.RegisteredClaims{ID: t.TokenID},
		}, nil
	}
	return nil, fmt.Errorf("%w: пустой токен", model.ErrInvalidArgument)
}
