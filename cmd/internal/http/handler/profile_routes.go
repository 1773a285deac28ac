package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ProfileService interface {
	GetOwnProfile(ctx context.Context, actor *access.Session) (*contract.ProfileResponse, apierror.ErrorResponse)
	UpdateProfile(ctx context.Context, actor *access.Session, req *contract.UpdateProfileRequest) (*contract.ProfileResponse, apierror.ErrorResponse)
	UploadAvatar(ctx context.Context, actor *access.Session, fileHeader *multipart.FileHeader) (*contract.ProfileResponse, apierror.ErrorResponse)
	GetCard(ctx context.Context, actor *access.Session) (*contract.IDCardResponse, apierror.ErrorResponse)
	QRCode(ctx context.Context, profileID string) ([]byte, apierror.ErrorResponse)
	Verify(ctx context.Context, profileID string) (*contract.VerificationResponse, apierror.ErrorResponse)
}

type DefaultProfileRoute struct {
	ProfileService ProfileService
}

func NewProfileDefault(profileService ProfileService) *DefaultProfileRoute {
	return &DefaultProfileRoute{ProfileService: profileService}
}

func (p *DefaultProfileRoute) GetOwnProfile(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	profile, apierr := p.ProfileService.GetOwnProfile(c.Request().Context(), sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}

func (p *DefaultProfileRoute) UpdateProfile(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateProfileRequest
	if err := c.Bind(&req); err != nil || req.IsEmpty() {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	profile, apierr := p.ProfileService.UpdateProfile(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}

func (p *DefaultProfileRoute) UploadAvatar(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return c.JSON(http.StatusUnsupportedMediaType, apierror.InvalidMediaTypeError)
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MissingAvatarFileError)
	}

	profile, apierr := p.ProfileService.UploadAvatar(c.Request().Context(), sess, fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}

func (p *DefaultProfileRoute) GetCard(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	card, apierr := p.ProfileService.GetCard(c.Request().Context(), sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, card)
}

func (p *DefaultProfileRoute) GetCardQR(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return p.writeQR(c, sess.IdentityID)
}

// Verify backs the public page a scanned ID card opens.
func (p *DefaultProfileRoute) Verify(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	resp, apierr := p.ProfileService.Verify(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (p *DefaultProfileRoute) writeQR(c echo.Context, profileID string) error {
	png, apierr := p.ProfileService.QRCode(c.Request().Context(), profileID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	c.Response().Header().Set("Cache-Control", "private, max-age=3600")
	return c.Blob(http.StatusOK, "image/png", png)
}
