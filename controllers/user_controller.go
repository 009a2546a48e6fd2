package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gin-sessiongate/constants"
	"gin-sessiongate/dto"
	"gin-sessiongate/services"
)

type IUserController interface {
	FindAll(ctx *gin.Context)
}

type UserController struct {
	service services.IUserService
	logger  logrus.FieldLogger
}

func NewUserController(service services.IUserService, logger logrus.FieldLogger) IUserController {
	return &UserController{service: service, logger: logger}
}

func (c *UserController) FindAll(ctx *gin.Context) {
	users, err := c.service.FindAll(ctx.Request.Context())
	if err != nil {
		c.logger.WithError(err).Error("list users failed")
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, dto.Response{Code: constants.CodeInternal, Result: constants.ErrUnexpected})
		return
	}

	ctx.JSON(http.StatusOK, dto.Response{Code: constants.CodeOK, Result: users})
}
