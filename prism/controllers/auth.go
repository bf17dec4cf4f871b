package controllers

import (
	"context"
	"strings"
	"time"

	"prism/prism/config"
	"prism/prism/sources/psql/dao"
	"prism/prism/utils/types"

	"github.com/golang-jwt/jwt/v5"
)

// AuthController is a development stand-in for the external identity
// provider: it mints the same shape of verified token the middleware expects.
type AuthController struct {
	userDAO *dao.UserDAO
	cfg     config.Config
}

func NewAuthController(userDAO *dao.UserDAO, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO: userDAO,
		cfg:     cfg,
	}
}

func (c *AuthController) Login(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", types.NewValidationError("username is required")
	}
	user, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		// Auto-create with dummy email
		email := username + "@example.com"
		user, err = c.userDAO.CreateUser(ctx, username, email, nil)
		if err != nil {
			return "", err
		}
	}
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
