package policy

import (
	"testing"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/utils/apierror"
)

var (
	adminActor  = &access.Session{State: access.Admin, IdentityID: "admin-1"}
	memberActor = &access.Session{State: access.Member, IdentityID: "member-1"}
	anonActor   = access.AnonymousSession()
)

func TestProfilePolicy_CanDelete(t *testing.T) {
	p := NewProfilePolicy()

	tests := []struct {
		name   string
		actor  *access.Session
		target *entity.Profile
		want   apierror.ErrorResponse
	}{
		{"admin deletes member", adminActor, &entity.Profile{ID: "member-1", Role: entity.RoleMember}, nil},
		{"member cannot delete", memberActor, &entity.Profile{ID: "member-2", Role: entity.RoleMember}, apierror.AdminOnlyError},
		{"anonymous cannot delete", anonActor, &entity.Profile{ID: "member-2"}, apierror.AdminOnlyError},
		{"no self delete", adminActor, &entity.Profile{ID: "admin-1", Role: entity.RoleAdmin}, apierror.SelfDeleteError},
		{"admins are immune", adminActor, &entity.Profile{ID: "admin-2", Role: entity.RoleAdmin}, apierror.ProfileImmuneError},
		{"missing target", adminActor, nil, apierror.NotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CanDelete(tt.actor, tt.target); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProfilePolicy_CanUpdate(t *testing.T) {
	p := NewProfilePolicy()

	if err := p.CanUpdate(memberActor, &entity.Profile{ID: "member-1"}); err != nil {
		t.Errorf("expected owner to update, got %v", err)
	}
	if err := p.CanUpdate(adminActor, &entity.Profile{ID: "member-1"}); err != apierror.NotOwnerError {
		t.Errorf("expected admins to be refused, got %v", err)
	}
	if err := p.CanUpdate(memberActor, nil); err != apierror.NotFoundError {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestProfilePolicy_CanSetVerification(t *testing.T) {
	p := NewProfilePolicy()

	if err := p.CanSetVerification(adminActor, &entity.Profile{ID: "member-1"}); err != nil {
		t.Errorf("expected admin to verify, got %v", err)
	}
	if err := p.CanSetVerification(memberActor, &entity.Profile{ID: "member-1"}); err != apierror.AdminOnlyError {
		t.Errorf("expected member to be refused, got %v", err)
	}
}

func TestContentPolicy(t *testing.T) {
	p := NewContentPolicy()

	tests := []struct {
		name   string
		check  func() apierror.ErrorResponse
		expect apierror.ErrorResponse
	}{
		{"anyone sees approved", func() apierror.ErrorResponse { return p.CanSee(anonActor, "x", entity.StatusApproved) }, nil},
		{"owner sees pending", func() apierror.ErrorResponse { return p.CanSee(memberActor, "member-1", entity.StatusPending) }, nil},
		{"admin sees pending", func() apierror.ErrorResponse { return p.CanSee(adminActor, "member-1", entity.StatusPending) }, nil},
		{"stranger misses pending", func() apierror.ErrorResponse { return p.CanSee(memberActor, "other", entity.StatusPending) }, apierror.NotFoundError},
		{"anonymous misses rejected", func() apierror.ErrorResponse { return p.CanSee(anonActor, "", entity.StatusRejected) }, apierror.NotFoundError},
		{"owner deletes", func() apierror.ErrorResponse { return p.CanDelete(memberActor, "member-1") }, nil},
		{"admin deletes", func() apierror.ErrorResponse { return p.CanDelete(adminActor, "member-1") }, nil},
		{"stranger cannot delete", func() apierror.ErrorResponse { return p.CanDelete(memberActor, "other") }, apierror.NotOwnerError},
		{"anonymous cannot delete ownerless", func() apierror.ErrorResponse { return p.CanDelete(anonActor, "") }, apierror.NotOwnerError},
		{"admin reviews pending", func() apierror.ErrorResponse { return p.CanReview(adminActor, entity.StatusPending) }, nil},
		{"review happens once", func() apierror.ErrorResponse { return p.CanReview(adminActor, entity.StatusApproved) }, apierror.AlreadyReviewedError},
		{"member cannot review", func() apierror.ErrorResponse { return p.CanReview(memberActor, entity.StatusPending) }, apierror.AdminOnlyError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(); got != tt.expect {
				t.Errorf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}
