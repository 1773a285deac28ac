package service

import (
	"context"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/policy"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"
	"alumninet/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type JobRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Job, error)
	FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Job, error)
	Save(ctx context.Context, job *entity.Job) error
	Delete(ctx context.Context, id int64) error
}

type JobService struct {
	JobRepo       JobRepository
	Validate      *validator.Validate
	ContentPolicy *policy.ContentPolicy
}

func NewJobService(jobRepo JobRepository, validate *validator.Validate, contentPolicy *policy.ContentPolicy) *JobService {
	return &JobService{
		JobRepo:       jobRepo,
		Validate:      validate,
		ContentPolicy: contentPolicy,
	}
}

// ListApproved returns the public job board, newest first.
func (j *JobService) ListApproved(ctx context.Context) ([]*contract.JobResponse, apierror.ErrorResponse) {
	return j.listByStatus(ctx, entity.StatusApproved)
}

func (j *JobService) ListPending(ctx context.Context) ([]*contract.JobResponse, apierror.ErrorResponse) {
	return j.listByStatus(ctx, entity.StatusPending)
}

// CreateJob posts a job for review.
func (j *JobService) CreateJob(ctx context.Context, actor *access.Session, req *contract.CreateJobRequest) (*contract.JobResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := j.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	job := &entity.Job{
		ID:          uid.Generate(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
		ApplyURL:    req.ApplyURL,
		SalaryRange: req.SalaryRange,
		PostedByID:  actor.IdentityID,
		Status:      entity.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := j.JobRepo.Save(ctx, job); err != nil {
		log.Errorf("failed to save job: %v", err)
		return nil, apierror.InternalServerError
	}
	return toJobResponse(job), nil
}

func (j *JobService) DeleteJob(ctx context.Context, actor *access.Session, id int64) apierror.ErrorResponse {
	job, err := j.JobRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch job %d: %v", id, err)
		return apierror.InternalServerError
	}

	if job == nil {
		return apierror.NotFoundError
	}

	if apierr := j.ContentPolicy.CanDelete(actor, job.PostedByID); apierr != nil {
		return apierr
	}

	if err = j.JobRepo.Delete(ctx, id); err != nil {
		log.Errorf("failed to delete job %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// Review approves or rejects a pending job.
func (j *JobService) Review(ctx context.Context, actor *access.Session, id int64, status entity.ApprovalStatus) (*contract.JobResponse, apierror.ErrorResponse) {
	job, err := j.JobRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch job %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if job == nil {
		return nil, apierror.NotFoundError
	}

	if apierr := j.ContentPolicy.CanReview(actor, job.Status); apierr != nil {
		return nil, apierr
	}

	job.Status = status
	job.UpdatedAt = utils.NowUTC()
	if err = j.JobRepo.Save(ctx, job); err != nil {
		log.Errorf("failed to review job %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toJobResponse(job), nil
}

func (j *JobService) listByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*contract.JobResponse, apierror.ErrorResponse) {
	jobs, err := j.JobRepo.FindByStatus(ctx, status)
	if err != nil {
		log.Errorf("failed to fetch %s jobs: %v", status, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.JobResponse, len(jobs))
	for i, job := range jobs {
		resp[i] = toJobResponse(job)
	}
	return resp, nil
}
