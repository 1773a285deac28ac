package handler

import (
	"context"
	"net/http"
	"strings"

	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type DirectoryService interface {
	Search(ctx context.Context, query string) (*contract.DirectoryResponse, apierror.ErrorResponse)
	Get(ctx context.Context, id string) (*contract.ProfileResponse, apierror.ErrorResponse)
}

type DefaultDirectoryRoute struct {
	DirectoryService DirectoryService
}

func NewDirectoryDefault(directoryService DirectoryService) *DefaultDirectoryRoute {
	return &DefaultDirectoryRoute{DirectoryService: directoryService}
}

func (d *DefaultDirectoryRoute) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))

	resp, apierr := d.DirectoryService.Search(c.Request().Context(), query)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (d *DefaultDirectoryRoute) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	profile, apierr := d.DirectoryService.Get(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, profile)
}
