package service

import (
	"context"
	"errors"
	"fmt"
	"taskly/config"
	"taskly/infras/jwt"
	"taskly/infras/otel"
	"taskly/internal/domains/auth/model/dto"
	userRepo "taskly/internal/domains/user/repository"
	"taskly/shared/constant"
	"taskly/shared/failure"
	"taskly/shared/password"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.RegisterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()

	_, err = s.userRepo.Get(ctx, req.Username)
	if err == nil {
		log.Info().Str("username", req.Username).Msg("registration attempt with taken username")

		return res, failure.BadRequestFromString(constant.ResponseErrorUserExists)
	}

	if !errors.Is(err, userRepo.ErrNotFound) {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to look up user")

		return res, fmt.Errorf("failed to look up user: %w", err)
	}

	// Insert still guards the race between this lookup and the write.
	hashedPassword, err := password.HashWithCost(req.Password, s.cfg.Password.Cost)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashedPassword)

	err = s.userRepo.Insert(ctx, user)
	if errors.Is(err, userRepo.ErrAlreadyExists) {
		log.Info().Str("username", req.Username).Msg("registration attempt with taken username")

		return res, failure.BadRequestFromString(constant.ResponseErrorUserExists)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	res.FromModel(user)

	return res, nil
}

// Login answers a missing user and a wrong password identically so callers
// cannot probe which usernames exist.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()

	user, err := s.userRepo.Get(ctx, req.Username)
	if errors.Is(err, userRepo.ErrNotFound) {
		log.Warn().Str("username", req.Username).Msg("login attempt with non-existent username")

		return res, failure.InvalidCredentials
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		if !errors.Is(err, password.ErrInvalidPassword) {
			log.Error().Err(err).Str("username", req.Username).Msg("failed to verify password")
		} else {
			log.Warn().Str("username", req.Username).Msg("login attempt with wrong password")
		}

		return res, failure.InvalidCredentials
	}

	token, err := s.jwtService.Issue(user.Username)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to generate token")

		return res, fmt.Errorf("failed to generate token: %w", err)
	}

	res.Token = token

	return res, nil
}
