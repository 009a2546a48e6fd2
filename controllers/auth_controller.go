package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gin-sessiongate/constants"
	"gin-sessiongate/dto"
	"gin-sessiongate/middlewares"
	"gin-sessiongate/services"
)

type IAuthController interface {
	Register(ctx *gin.Context)
	Login(ctx *gin.Context)
	Logout(ctx *gin.Context)
}

type AuthController struct {
	service           services.IAuthService
	tokenService      services.ITokenService
	revocationService services.IRevocationService
	cookieName        string
	logger            logrus.FieldLogger
}

func NewAuthController(
	service services.IAuthService,
	tokenService services.ITokenService,
	revocationService services.IRevocationService,
	cookieName string,
	logger logrus.FieldLogger,
) IAuthController {
	return &AuthController{
		service:           service,
		tokenService:      tokenService,
		revocationService: revocationService,
		cookieName:        cookieName,
		logger:            logger,
	}
}

func (c *AuthController) Register(ctx *gin.Context) {
	var input dto.RegisterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Response{Code: constants.CodeFailed, Result: constants.ErrInvalidInput})
		return
	}

	err := c.service.Signup(ctx.Request.Context(), input.Account, input.Name, input.Password)
	if err != nil {
		var reason string
		switch {
		case errors.Is(err, services.ErrAlreadyExists):
			reason = fmt.Sprintf(constants.ErrUserExists, input.Account)
		case errors.Is(err, services.ErrPasswordTooLong):
			reason = constants.ErrPasswordTooLong
		default:
			c.fail(ctx, "register", err)
			return
		}
		ctx.JSON(http.StatusOK, dto.Response{Code: constants.CodeFailed, Result: reason})
		return
	}
	ctx.JSON(http.StatusOK, dto.Response{Code: constants.CodeOK, Result: true})
}

func (c *AuthController) Login(ctx *gin.Context) {
	var input dto.LoginInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Response{Code: constants.CodeFailed, Result: constants.ErrInvalidInput})
		return
	}

	principal, err := c.service.Login(ctx.Request.Context(), input.Account, input.Password)
	if err != nil {
		var reason string
		switch {
		case errors.Is(err, services.ErrNotFound):
			reason = fmt.Sprintf(constants.ErrUserNotExists, input.Account)
		case errors.Is(err, services.ErrCredentialMissing):
			reason = fmt.Sprintf(constants.ErrPasswordMissing, input.Account)
		case errors.Is(err, services.ErrInvalidCredentials):
			reason = constants.ErrWrongPassword
		default:
			c.fail(ctx, "login", err)
			return
		}
		ctx.JSON(http.StatusOK, dto.Response{Code: constants.CodeFailed, Result: reason})
		return
	}

	token, err := c.tokenService.Issue(*principal)
	if err != nil {
		c.fail(ctx, "issue token", err)
		return
	}

	ctx.SetCookie(c.cookieName, token, int(constants.TokenLifetime.Seconds()), "/", "", false, true)
	ctx.JSON(http.StatusOK, dto.Response{Code: constants.CodeOK, Result: token})
}

// Logout revokes the token that authenticated the request. It reports
// success for tokens that are already expired or revoked.
func (c *AuthController) Logout(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)
	token, hasToken := middlewares.TokenFromContext(ctx)
	if ok && hasToken {
		if err := c.revocationService.Revoke(ctx.Request.Context(), token, claims); err != nil {
			c.fail(ctx, "logout", err)
			return
		}
	}
	ctx.JSON(http.StatusOK, dto.Response{Code: constants.CodeOK, Result: true})
}

func (c *AuthController) fail(ctx *gin.Context, op string, err error) {
	c.logger.WithError(err).Errorf("%s failed", op)
	_ = ctx.Error(err)
	ctx.JSON(http.StatusInternalServerError, dto.Response{Code: constants.CodeInternal, Result: constants.ErrUnexpected})
}
