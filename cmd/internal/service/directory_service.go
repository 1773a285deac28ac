package service

import (
	"context"
	"net/http"

	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/infrastructure/aws/storage"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// MaxSearchLength bounds directory search terms.
const MaxSearchLength = 100

// DirectoryService lists verified alumni. Unverified profiles never show up.
type DirectoryService struct {
	ProfileRepo ProfileRepository
	S3          storage.S3Client
}

func NewDirectoryService(profileRepo ProfileRepository, s3 storage.S3Client) *DirectoryService {
	return &DirectoryService{
		ProfileRepo: profileRepo,
		S3:          s3,
	}
}

func (d *DirectoryService) Search(ctx context.Context, query string) (*contract.DirectoryResponse, apierror.ErrorResponse) {
	if len(query) > MaxSearchLength {
		return nil, apierror.NewSimple(http.StatusBadRequest, "Search term is too long, max: %d", MaxSearchLength)
	}

	profiles, err := d.ProfileRepo.FindVerified(ctx, query)
	if err != nil {
		log.Errorf("failed to search directory for %q: %v", query, err)
		return nil, apierror.InternalServerError
	}

	resp := &contract.DirectoryResponse{
		Query:    query,
		Profiles: make([]*contract.ProfileResponse, len(profiles)),
	}
	for i, profile := range profiles {
		resp.Profiles[i] = toProfileResponse(profile, d.S3.PublicURL(profile.AvatarKey), viewMember)
	}
	return resp, nil
}

func (d *DirectoryService) Get(ctx context.Context, id string) (*contract.ProfileResponse, apierror.ErrorResponse) {
	profile, err := d.ProfileRepo.FindVerifiedByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch directory entry %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if profile == nil {
		return nil, apierror.NotFoundError
	}
	return toProfileResponse(profile, d.S3.PublicURL(profile.AvatarKey), viewMember), nil
}
