package user

import (
	"context"
	"errors"
	"strings"

	"paulapastas-be/internal/auth"
	"paulapastas-be/internal/logger"
	"paulapastas-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Me(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo   Repository
	tokens *auth.Manager
}

func NewService(repo Repository, tokens *auth.Manager) Service {
	return &service{repo: repo, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	input.Email = normalizeEmail(input.Email)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u := &User{Email: input.Email, Name: strings.TrimSpace(input.Name), Password: hashed, Role: RoleUser}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			log.Info("register rejected, email exists")
		}
		return nil, err
	}

	sess, err := s.session(u)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	log.Info("user registered", zap.Uint("user_id", u.ID))
	return sess, nil
}

// Login answers ErrInvalidCredentials for both unknown emails and wrong
// passwords.
func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	input.Email = normalizeEmail(input.Email)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, input.Email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info("login failed, email not found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !CheckPasswordHash(input.Password, u.Password) {
		log.Info("login failed, password mismatch", zap.Uint("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	return s.session(u)
}

func (s *service) Me(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) session(u *User) (*Session, error) {
	token, err := s.tokens.Generate(u.ID, string(u.Role), u.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: *u}, nil
}
