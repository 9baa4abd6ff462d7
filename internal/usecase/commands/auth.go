package commands

import (
	"context"

	"sensea-booking/internal/pkg/config"
	"sensea-booking/internal/pkg/errs"
	"sensea-booking/internal/pkg/jwt"
	"sensea-booking/internal/pkg/password"
)

var ErrAuthenticationFailed = errs.New("authentication failed")

const RoleAdmin = "admin"

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthCommands interface {
	Login(ctx context.Context, login, pass string) (*LoginResult, error)
}

// The admin surface is single-operator: credentials come from the environment,
// not a user table.
type authUseCaseImpl struct {
	admin      config.AdminConfig
	jwtService *jwt.Service
}

func NewAuthUseCase(admin config.AdminConfig, jwtService *jwt.Service) AuthCommands {
	return &authUseCaseImpl{admin: admin, jwtService: jwtService}
}

func (u *authUseCaseImpl) Login(_ context.Context, login, pass string) (*LoginResult, error) {
	if login != u.admin.Login {
		return nil, ErrAuthenticationFailed
	}
	if err := password.ComparePassword(u.admin.PasswordHash, pass); err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	token, err := u.jwtService.GenerateToken(login, RoleAdmin)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	return &LoginResult{AccessToken: token, TokenType: "Bearer"}, nil
}
