package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"strings"
	"taskly/config"
	"taskly/shared/timezone"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingToken  = errors.New("authorization token is required")
	ErrMissingSecret = errors.New("jwt secret is not configured")
)

const bearerPrefix = "Bearer"

// Claims binds a token to a username and nothing else.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWT issues and verifies bearer tokens scoped to a username
type JWT interface {
	Issue(username string) (string, error)
	Verify(tokenString string) (username string, err error)
}

// Service handles JWT operations
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New creates a new JWT service
func New(cfg *config.Config) JWT {
	if cfg.JWT.Secret == "" {
		log.Error().Msg("JWT_SECRET is not set, token issuing and verification are disabled")
	}

	return &Service{
		secret: []byte(cfg.JWT.Secret),
		ttl:    time.Duration(cfg.JWT.ExpireMin) * time.Minute,
	}
}

// Issue signs an HS256 token for username that expires after the configured lifetime
func (s *Service) Issue(username string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := timezone.Now()

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks signature and expiry and returns the bound username
func (s *Service) Verify(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return s.secret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}

		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", ErrInvalidToken
	}

	return claims.Username, nil
}

// ExtractTokenFromHeader extracts the token from an "Authorization: Bearer <token>" header.
// A header without a token part counts as missing; any scheme other than Bearer is invalid.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(authHeader), " ")

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	if !strings.EqualFold(scheme, bearerPrefix) {
		return "", ErrInvalidToken
	}

	return token, nil
}
