package middleware

import (
	"context"
	"errors"
	"net/http"
	"taskly/infras/jwt"
	"taskly/infras/otel"
	"taskly/shared/constant"
	"taskly/shared/failure"
	"taskly/transport/http/response"

	"github.com/rs/zerolog/log"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
}

type authImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
}

// NewAuthMiddleware creates a new middleware instance
func NewAuthMiddleware(jwtService jwt.JWT, otel otel.Otel) Auth {
	return &authImpl{
		jwtService: jwtService,
		otel:       otel,
	}
}

// Auth verifies the bearer token and binds its username to the request
// context under constant.ContextKeyUsername.
func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
		})

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			fail := failure.InvalidOrExpiredToken
			if errors.Is(err, jwt.ErrMissingToken) {
				fail = failure.AuthenticationRequired
			}

			response.WithError(writer, fail)

			scope.TraceError(err)
			scope.End()

			return
		}

		username, err := m.jwtService.Verify(tokenString)
		if err != nil {
			log.Debug().Err(err).Str("path", request.URL.Path).Msg("rejected bearer token")

			response.WithError(writer, failure.InvalidOrExpiredToken)

			scope.TraceError(err)
			scope.End()

			return
		}

		scope.SetAttribute("auth.username", username)
		scope.End()

		ctx = context.WithValue(ctx, constant.ContextKeyUsername, username)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
