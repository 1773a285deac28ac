package contract

import "alumninet/cmd/internal/domain/entity"

type SetVerificationRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

type DashboardResponse struct {
	Profiles       []*ProfileResponse   `json:"profiles"`
	PendingJobs    []*JobResponse       `json:"pending_jobs"`
	PendingEvents  []*EventResponse     `json:"pending_events"`
	PendingStories []*StoryResponse     `json:"pending_stories"`
	DegreeStats    []entity.DegreeCount `json:"degree_stats"`
}
