package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// parseID reads a snowflake path parameter.
func parseID(c echo.Context, name string) (int64, apierror.ErrorResponse) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "int64")
	}
	return id, nil
}

// bindPayload binds JSON bodies directly, and multipart bodies through
// their 'json_payload' field.
func bindPayload(c echo.Context, dst any) apierror.ErrorResponse {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		if err := c.Bind(dst); err != nil {
			return apierror.MalformedBodyError
		}
		return nil
	}

	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		jsonPayload := strings.TrimSpace(c.FormValue("json_payload"))
		if jsonPayload == "" {
			return apierror.FormJSONRequiredError
		}

		if err := json.Unmarshal([]byte(jsonPayload), dst); err != nil {
			return apierror.MalformedBodyError
		}
		return nil
	}
	return apierror.InvalidMediaTypeError
}
