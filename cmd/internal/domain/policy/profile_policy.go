package policy

import (
	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/utils/apierror"
)

// ProfilePolicy encapsulates all business rules for profile manipulation.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type ProfilePolicy struct{}

func NewProfilePolicy() *ProfilePolicy {
	return &ProfilePolicy{}
}

// CanUpdate checks if 'actor' can edit the self-service fields of 'target'.
// Nobody edits someone else's profile, administrators included.
func (p *ProfilePolicy) CanUpdate(actor *access.Session, target *entity.Profile) apierror.ErrorResponse {
	if target == nil {
		return apierror.NotFoundError
	}

	if actor.IdentityID != target.ID {
		return apierror.NotOwnerError
	}
	return nil
}

// CanSetVerification checks if 'actor' can verify or unverify 'target'.
func (p *ProfilePolicy) CanSetVerification(actor *access.Session, target *entity.Profile) apierror.ErrorResponse {
	if !actor.IsAdmin() {
		return apierror.AdminOnlyError
	}

	if target == nil {
		return apierror.NotFoundError
	}
	return nil
}

// CanDelete checks if 'actor' can remove 'target' from the network.
func (p *ProfilePolicy) CanDelete(actor *access.Session, target *entity.Profile) apierror.ErrorResponse {
	if !actor.IsAdmin() {
		return apierror.AdminOnlyError
	}

	if target == nil {
		return apierror.NotFoundError
	}

	if actor.IdentityID == target.ID {
		return apierror.SelfDeleteError
	}

	// Admin immunity
	if target.Role.IsAdmin() {
		return apierror.ProfileImmuneError
	}
	return nil
}
