package controllers

import (
	"context"

	"prism/prism/sources/psql/dao"
	"prism/prism/sources/psql/models"
)

type UserController struct {
	dao *dao.UserDAO
}

func NewUserController(dao *dao.UserDAO) *UserController {
	return &UserController{dao: dao}
}

func (c *UserController) GetUser(ctx context.Context, id string) (*models.User, error) {
	return c.dao.GetUserByID(ctx, id)
}

func (c *UserController) CreateUser(ctx context.Context, username, email string, fullName *string) (*models.User, error) {
	return c.dao.CreateUser(ctx, username, email, fullName)
}
