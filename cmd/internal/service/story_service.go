package service

import (
	"context"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/policy"
	"alumninet/cmd/internal/infrastructure/aws/storage"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"
	"alumninet/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type StoryRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.SuccessStory, error)
	FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.SuccessStory, error)
	Save(ctx context.Context, story *entity.SuccessStory) error
}

type StoryService struct {
	StoryRepo     StoryRepository
	ProfileRepo   ProfileRepository
	Validate      *validator.Validate
	S3            storage.S3Client
	ContentPolicy *policy.ContentPolicy
}

func NewStoryService(
	storyRepo StoryRepository,
	profileRepo ProfileRepository,
	validate *validator.Validate,
	s3 storage.S3Client,
	contentPolicy *policy.ContentPolicy,
) *StoryService {
	return &StoryService{
		StoryRepo:     storyRepo,
		ProfileRepo:   profileRepo,
		Validate:      validate,
		S3:            s3,
		ContentPolicy: contentPolicy,
	}
}

// ListApproved returns the success stories wall, newest first.
func (s *StoryService) ListApproved(ctx context.Context) ([]*contract.StoryResponse, apierror.ErrorResponse) {
	return s.listByStatus(ctx, entity.StatusApproved)
}

func (s *StoryService) ListPending(ctx context.Context) ([]*contract.StoryResponse, apierror.ErrorResponse) {
	return s.listByStatus(ctx, entity.StatusPending)
}

// ShareStory submits a story for review. The author name is taken from
// the caller's profile, never from the request.
func (s *StoryService) ShareStory(ctx context.Context, actor *access.Session, req *contract.CreateStoryRequest) (*contract.StoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	author, err := s.ProfileRepo.FindByID(ctx, actor.IdentityID)
	if err != nil {
		log.Errorf("failed to fetch author %s: %v", actor.IdentityID, err)
		return nil, apierror.InternalServerError
	}

	if author == nil {
		return nil, apierror.NotFoundError
	}

	now := utils.NowUTC()
	story := &entity.SuccessStory{
		ID:        uid.Generate(),
		UserID:    author.ID,
		FullName:  author.FullName,
		Title:     req.Title,
		Category:  req.Category,
		Content:   req.Content,
		Status:    entity.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.StoryRepo.Save(ctx, story); err != nil {
		log.Errorf("failed to save story: %v", err)
		return nil, apierror.InternalServerError
	}

	story.Author = *author
	return toStoryResponse(story, s.S3.PublicURL(author.AvatarKey)), nil
}

// Review approves or rejects a pending story.
func (s *StoryService) Review(ctx context.Context, actor *access.Session, id int64, status entity.ApprovalStatus) (*contract.StoryResponse, apierror.ErrorResponse) {
	story, err := s.StoryRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch story %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if story == nil {
		return nil, apierror.NotFoundError
	}

	if apierr := s.ContentPolicy.CanReview(actor, story.Status); apierr != nil {
		return nil, apierr
	}

	story.Status = status
	story.UpdatedAt = utils.NowUTC()
	if err = s.StoryRepo.Save(ctx, story); err != nil {
		log.Errorf("failed to review story %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toStoryResponse(story, ""), nil
}

func (s *StoryService) listByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*contract.StoryResponse, apierror.ErrorResponse) {
	stories, err := s.StoryRepo.FindByStatus(ctx, status)
	if err != nil {
		log.Errorf("failed to fetch %s stories: %v", status, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.StoryResponse, len(stories))
	for i, story := range stories {
		resp[i] = toStoryResponse(story, s.S3.PublicURL(story.Author.AvatarKey))
	}
	return resp, nil
}
