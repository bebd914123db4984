package jwt_test

import (
	"testing"
	"time"

	"taskly/config"
	"taskly/infras/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string, expireMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpireMin = expireMin

	return jwt.New(cfg)
}

func TestService_IssueAndVerify(t *testing.T) {
	svc := newService("test-secret", 1440)

	token, err := svc.Issue("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	username, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestService_TokenLifetime(t *testing.T) {
	svc := newService("test-secret", 1440)

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	claims := &jwt.Claims{}
	_, _, err = gojwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 24*time.Hour, lifetime)
	assert.Equal(t, "alice", claims.Username)
	assert.Empty(t, claims.Subject)
}

func TestService_VerifyRejects(t *testing.T) {
	svc := newService("test-secret", 60)

	expired := func() string {
		claims := jwt.Claims{
			Username: "alice",
			RegisteredClaims: gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
				IssuedAt:  gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))

		return token
	}

	signed := func(method gojwt.SigningMethod, key any, claims gojwt.Claims) string {
		token, _ := gojwt.NewWithClaims(method, claims).SignedString(key)

		return token
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "garbage token",
			token:   "not-a-jwt",
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "wrong secret",
			token: func() string {
				token, _ := newService("other-secret", 60).Issue("alice")

				return token
			}(),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "expired token",
			token:   expired(),
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name:    "none algorithm",
			token:   signed(gojwt.SigningMethodNone, gojwt.UnsafeAllowNoneSignatureType, jwt.Claims{Username: "alice"}),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "missing username",
			token: signed(gojwt.SigningMethodHS256, []byte("test-secret"), jwt.Claims{
				RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
			}),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "missing expiry",
			token:   signed(gojwt.SigningMethodHS256, []byte("test-secret"), jwt.Claims{Username: "alice"}),
			wantErr: jwt.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, err := svc.Verify(tt.token)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, username)
		})
	}
}

func TestService_EmptySecret(t *testing.T) {
	svc := newService("", 60)

	token, err := svc.Issue("alice")
	require.ErrorIs(t, err, jwt.ErrMissingSecret)
	assert.Empty(t, token)

	forged, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
		Username: "alice",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
		},
	}).SignedString([]byte(""))
	require.NoError(t, err)

	username, err := newService("", 60).Verify(forged)
	require.ErrorIs(t, err, jwt.ErrInvalidToken)
	assert.Empty(t, username)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{
			name:      "bearer token",
			header:    "Bearer abc.def.ghi",
			wantToken: "abc.def.ghi",
		},
		{
			name:      "lowercase scheme",
			header:    "bearer abc",
			wantToken: "abc",
		},
		{
			name:    "empty header",
			header:  "",
			wantErr: jwt.ErrMissingToken,
		},
		{
			name:    "scheme only",
			header:  "Bearer",
			wantErr: jwt.ErrMissingToken,
		},
		{
			name:    "scheme with blank token",
			header:  "Bearer   ",
			wantErr: jwt.ErrMissingToken,
		},
		{
			name:    "other scheme",
			header:  "Basic dXNlcjpwYXNz",
			wantErr: jwt.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
