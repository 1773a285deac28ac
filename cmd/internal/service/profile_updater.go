package service

import (
	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/policy"
	"alumninet/cmd/internal/utils/apierror"
)

// profileUpdater acts as a "Change Set" context.
// It accumulates errors and tracks if a save is actually needed.
type profileUpdater struct {
	actor  *access.Session
	target *entity.Profile
	policy *policy.ProfilePolicy

	// State
	err   apierror.ErrorResponse
	dirty bool
}

// setString handles the self-service string fields (name, job title, etc.)
func (u *profileUpdater) setString(newVal *string, targetField *string) {
	if u.err != nil || newVal == nil {
		return
	}

	if *newVal == *targetField {
		return
	}

	if err := u.policy.CanUpdate(u.actor, u.target); err != nil {
		u.err = err
		return
	}

	*targetField = *newVal
	u.dirty = true
}
