package handler

import (
	"context"
	"net/http"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type JobService interface {
	ListApproved(ctx context.Context) ([]*contract.JobResponse, apierror.ErrorResponse)
	CreateJob(ctx context.Context, actor *access.Session, req *contract.CreateJobRequest) (*contract.JobResponse, apierror.ErrorResponse)
	DeleteJob(ctx context.Context, actor *access.Session, id int64) apierror.ErrorResponse
}

type DefaultJobRoute struct {
	JobService JobService
}

func NewJobDefault(jobService JobService) *DefaultJobRoute {
	return &DefaultJobRoute{JobService: jobService}
}

func (j *DefaultJobRoute) GetJobs(c echo.Context) error {
	jobs, apierr := j.JobService.ListApproved(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"jobs": jobs}
	return c.JSON(http.StatusOK, &resp)
}

func (j *DefaultJobRoute) CreateJob(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	job, apierr := j.JobService.CreateJob(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, job)
}

func (j *DefaultJobRoute) DeleteJob(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	id, apierr := parseID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = j.JobService.DeleteJob(c.Request().Context(), sess, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
