package handler

import (
	"context"
	"net/http"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type StoryService interface {
	ListApproved(ctx context.Context) ([]*contract.StoryResponse, apierror.ErrorResponse)
	ShareStory(ctx context.Context, actor *access.Session, req *contract.CreateStoryRequest) (*contract.StoryResponse, apierror.ErrorResponse)
}

type DefaultStoryRoute struct {
	StoryService StoryService
}

func NewStoryDefault(storyService StoryService) *DefaultStoryRoute {
	return &DefaultStoryRoute{StoryService: storyService}
}

func (s *DefaultStoryRoute) GetStories(c echo.Context) error {
	stories, apierr := s.StoryService.ListApproved(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"stories": stories}
	return c.JSON(http.StatusOK, &resp)
}

func (s *DefaultStoryRoute) ShareStory(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	story, apierr := s.StoryService.ShareStory(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, story)
}
