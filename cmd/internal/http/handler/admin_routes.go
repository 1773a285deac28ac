package handler

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/service"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AdminService interface {
	Dashboard(ctx context.Context, query string) (*contract.DashboardResponse, apierror.ErrorResponse)
	SetVerification(ctx context.Context, actor *access.Session, profileID string, req *contract.SetVerificationRequest) (*contract.ProfileResponse, apierror.ErrorResponse)
	DeleteProfile(ctx context.Context, actor *access.Session, profileID string) apierror.ErrorResponse
	Review(ctx context.Context, actor *access.Session, kind service.ContentKind, id int64, action contract.ReviewAction) (any, apierror.ErrorResponse)
	Cards(ctx context.Context, ids []string) ([]*contract.IDCardResponse, apierror.ErrorResponse)
	ExportProfiles(ctx context.Context) (*service.CSVExport, apierror.ErrorResponse)
	ExportAttendees(ctx context.Context, eventID int64) (*service.CSVExport, apierror.ErrorResponse)
}

// CardRenderer renders the QR code printed on ID cards.
type CardRenderer interface {
	QRCode(ctx context.Context, profileID string) ([]byte, apierror.ErrorResponse)
}

type DefaultAdminRoute struct {
	AdminService AdminService
	Cards        CardRenderer
}

func NewAdminDefault(adminService AdminService, cards CardRenderer) *DefaultAdminRoute {
	return &DefaultAdminRoute{AdminService: adminService, Cards: cards}
}

func (a *DefaultAdminRoute) Dashboard(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))

	resp, apierr := a.AdminService.Dashboard(c.Request().Context(), query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAdminRoute) SetVerification(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.SetVerificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	profile, apierr := a.AdminService.SetVerification(c.Request().Context(), sess, strings.TrimSpace(c.Param("id")), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}

func (a *DefaultAdminRoute) DeleteProfile(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = a.AdminService.DeleteProfile(c.Request().Context(), sess, strings.TrimSpace(c.Param("id"))); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

// Review returns the handler approving or rejecting submissions of kind.
func (a *DefaultAdminRoute) Review(kind service.ContentKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, apierr := access.RequireSession(c)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}

		id, apierr := parseID(c, "id")
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}

		action := contract.ReviewAction(c.Param("action"))
		resp, apierr := a.AdminService.Review(c.Request().Context(), sess, kind, id, action)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// GetCards serves the print sheet, ids are comma separated.
func (a *DefaultAdminRoute) GetCards(c echo.Context) error {
	var ids []string
	for _, id := range strings.Split(c.QueryParam("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	cards, apierr := a.AdminService.Cards(c.Request().Context(), ids)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"cards": cards}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAdminRoute) GetCardQR(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	png, apierr := a.Cards.QRCode(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (a *DefaultAdminRoute) ExportProfiles(c echo.Context) error {
	export, apierr := a.AdminService.ExportProfiles(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return writeCSV(c, export)
}

func (a *DefaultAdminRoute) ExportAttendees(c echo.Context) error {
	id, apierr := parseID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	export, apierr := a.AdminService.ExportAttendees(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return writeCSV(c, export)
}

func writeCSV(c echo.Context, export *service.CSVExport) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename})
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", export.Data)
}
