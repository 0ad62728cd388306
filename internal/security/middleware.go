package security

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"token-generation/internal/ports"
	"token-generation/internal/util"
)

type contextKey string

const (
	SubjectContextKey contextKey = "subject"
)

// AccessTokenMiddleware пропускает запрос дальше только с валидным
// заголовком "Authorization: Bearer <access токен>" и кладёт subject в контекст
func AccessTokenMiddleware(verifier ports.AccessTokenVerifier) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(verifier, next))
	}
}

func handleAuthentication(verifier ports.AccessTokenVerifier, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		subjectID, ok := verifier.VerifyAccessToken(token)
		if !ok {
			zap.L().Debug("access токен отклонён", zap.String("path", request.URL.Path))
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), SubjectContextKey, subjectID))
		next.ServeHTTP(writer, req)
	}
}

func SubjectFromContext(ctx context.Context) (string, error) {
	subjectID, ok := ctx.Value(SubjectContextKey).(string)
	if !ok || subjectID == "" {
		return "", errors.New("пользователь не авторизован")
	}
	return subjectID, nil
}
