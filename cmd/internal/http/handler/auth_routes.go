package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/service"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(ctx context.Context, req *contract.RegisterRequest, avatar *multipart.FileHeader) (*contract.ProfileResponse, apierror.ErrorResponse)
	ConfirmSignup(ctx context.Context, req *contract.ConfirmSignupRequest) apierror.ErrorResponse
	ResendConfirmation(ctx context.Context, req *contract.ResendConfirmRequest) apierror.ErrorResponse
	Login(ctx context.Context, req *contract.LoginRequest) (*service.LoginResult, apierror.ErrorResponse)
	Refresh(ctx context.Context, refreshToken string) (*access.Tokens, apierror.ErrorResponse)
	Logout(ctx context.Context, sess *access.Session, accessToken string)
	Session(sess *access.Session) *contract.SessionResponse
}

type DefaultAuthRoute struct {
	AuthService AuthService
	Cookies     access.CookieOptions
}

func NewAuthDefault(authService AuthService, cookies access.CookieOptions) *DefaultAuthRoute {
	return &DefaultAuthRoute{AuthService: authService, Cookies: cookies}
}

// Register accepts either a JSON body, or a multipart form with a
// 'json_payload' field and an optional 'avatar' file.
func (a *DefaultAuthRoute) Register(c echo.Context) error {
	var req contract.RegisterRequest
	if apierr := bindPayload(c, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var avatar *multipart.FileHeader
	if c.Request().MultipartForm != nil {
		fileHeader, err := c.FormFile("avatar")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
		}
		avatar = fileHeader
	}

	profile, apierr := a.AuthService.Register(c.Request().Context(), &req, avatar)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, profile)
}

func (a *DefaultAuthRoute) ConfirmSignup(c echo.Context) error {
	var req contract.ConfirmSignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	apierr := a.AuthService.ConfirmSignup(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (a *DefaultAuthRoute) ResendConfirmation(c echo.Context) error {
	var req contract.ResendConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	apierr := a.AuthService.ResendConfirmation(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (a *DefaultAuthRoute) Login(c echo.Context) error {
	var req contract.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	res, apierr := a.AuthService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	access.SetCookies(c.Response(), res.Tokens, a.Cookies)
	return c.JSON(http.StatusOK, res.Response)
}

func (a *DefaultAuthRoute) Refresh(c echo.Context) error {
	refreshToken := access.CookieValue(c.Request(), access.RefreshTokenCookie)

	tokens, apierr := a.AuthService.Refresh(c.Request().Context(), refreshToken)
	if apierr != nil {
		if apierr.Code() == http.StatusUnauthorized {
			access.ClearCookies(c.Response(), a.Cookies)
		}
		return c.JSON(apierr.Code(), apierr)
	}

	access.SetCookies(c.Response(), *tokens, a.Cookies)
	return c.JSON(http.StatusOK, &contract.RefreshResponse{
		ExpiresIn: int64(time.Until(tokens.ExpiresAt).Round(time.Second) / time.Second),
	})
}

// Logout always succeeds, so a client can call it blindly.
func (a *DefaultAuthRoute) Logout(c echo.Context) error {
	accessToken := access.CookieValue(c.Request(), access.AccessTokenCookie)

	a.AuthService.Logout(c.Request().Context(), access.FromContext(c), accessToken)
	access.ClearCookies(c.Response(), a.Cookies)
	return c.NoContent(http.StatusNoContent)
}

func (a *DefaultAuthRoute) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, a.AuthService.Session(access.FromContext(c)))
}
