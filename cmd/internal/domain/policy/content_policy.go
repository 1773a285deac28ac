package policy

import (
	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/utils/apierror"
)

// ContentPolicy covers member-submitted content that goes through review:
// jobs, events and success stories.
type ContentPolicy struct{}

func NewContentPolicy() *ContentPolicy {
	return &ContentPolicy{}
}

// CanSee hides unreviewed content from everyone but its owner and administrators.
func (p *ContentPolicy) CanSee(actor *access.Session, ownerID string, status entity.ApprovalStatus) apierror.ErrorResponse {
	if status.IsPublic() || isOwnerOrAdmin(actor, ownerID) {
		return nil
	}
	return apierror.NotFoundError
}

func (p *ContentPolicy) CanDelete(actor *access.Session, ownerID string) apierror.ErrorResponse {
	if !isOwnerOrAdmin(actor, ownerID) {
		return apierror.NotOwnerError
	}
	return nil
}

// CanReview checks if 'actor' can approve or reject content currently in 'status'.
// Content is reviewed exactly once.
func (p *ContentPolicy) CanReview(actor *access.Session, status entity.ApprovalStatus) apierror.ErrorResponse {
	if !actor.IsAdmin() {
		return apierror.AdminOnlyError
	}

	if status != entity.StatusPending {
		return apierror.AlreadyReviewedError
	}
	return nil
}

func isOwnerOrAdmin(actor *access.Session, ownerID string) bool {
	if actor == nil || !actor.State.Authenticated() {
		return false
	}
	return actor.IsAdmin() || actor.IdentityID == ownerID
}
