package service

import (
	"context"
	"mime/multipart"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/policy"
	"alumninet/cmd/internal/infrastructure/aws/storage"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"github.com/skip2/go-qrcode"
)

// QRCodeSize is the side, in pixels, of the ID card QR code.
const QRCodeSize = 256

type ProfileService struct {
	ProfileRepo   ProfileRepository
	Validate      *validator.Validate
	S3            storage.S3Client
	ProfilePolicy *policy.ProfilePolicy

	// PublicBaseURL prefixes the verification links printed on ID cards.
	PublicBaseURL string
}

func NewProfileService(
	profileRepo ProfileRepository,
	validate *validator.Validate,
	s3 storage.S3Client,
	profilePolicy *policy.ProfilePolicy,
	publicBaseURL string,
) *ProfileService {
	return &ProfileService{
		ProfileRepo:   profileRepo,
		Validate:      validate,
		S3:            s3,
		ProfilePolicy: profilePolicy,
		PublicBaseURL: publicBaseURL,
	}
}

func (p *ProfileService) GetOwnProfile(ctx context.Context, actor *access.Session) (*contract.ProfileResponse, apierror.ErrorResponse) {
	profile, apierr := p.fetchProfile(ctx, actor.IdentityID)
	if apierr != nil {
		return nil, apierr
	}
	return toProfileResponse(profile, p.S3.PublicURL(profile.AvatarKey), viewPrivate), nil
}

func (p *ProfileService) UpdateProfile(ctx context.Context, actor *access.Session, req *contract.UpdateProfileRequest) (*contract.ProfileResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	target, apierr := p.fetchProfile(ctx, actor.IdentityID)
	if apierr != nil {
		return nil, apierr
	}

	updater := &profileUpdater{
		actor:  actor,
		target: target,
		policy: p.ProfilePolicy,
	}

	updater.setString(req.FullName, &target.FullName)
	updater.setString(req.JobTitle, &target.JobTitle)
	updater.setString(req.Company, &target.Company)
	updater.setString(req.ContactNumber, &target.ContactNumber)

	if updater.err != nil {
		return nil, updater.err
	}

	if updater.dirty {
		target.UpdatedAt = utils.NowUTC()
		if err := p.ProfileRepo.Save(ctx, target); err != nil {
			log.Errorf("failed to update profile %s: %v", target.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toProfileResponse(target, p.S3.PublicURL(target.AvatarKey), viewPrivate), nil
}

// UploadAvatar replaces the caller's profile picture.
func (p *ProfileService) UploadAvatar(ctx context.Context, actor *access.Session, fileHeader *multipart.FileHeader) (*contract.ProfileResponse, apierror.ErrorResponse) {
	target, apierr := p.fetchProfile(ctx, actor.IdentityID)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = p.ProfilePolicy.CanUpdate(actor, target); apierr != nil {
		return nil, apierr
	}

	key, apierr := uploadAvatar(ctx, p.S3, target.ID, fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	previous := target.AvatarKey
	target.AvatarKey = key
	target.UpdatedAt = utils.NowUTC()
	if err := p.ProfileRepo.Save(ctx, target); err != nil {
		_ = deleteBucketObject(ctx, p.S3, key)
		log.Errorf("failed to save avatar of %s: %v", target.ID, err)
		return nil, apierror.InternalServerError
	}

	if err := deleteBucketObject(ctx, p.S3, previous); err != nil {
		log.Warnf("failed to delete previous avatar %s: %v", previous, err)
	}
	return toProfileResponse(target, p.S3.PublicURL(key), viewPrivate), nil
}

// GetCard builds the caller's digital ID card.
func (p *ProfileService) GetCard(ctx context.Context, actor *access.Session) (*contract.IDCardResponse, apierror.ErrorResponse) {
	profile, apierr := p.fetchProfile(ctx, actor.IdentityID)
	if apierr != nil {
		return nil, apierr
	}

	card := p.toCard(profile)
	card.QRCodeURL = "/profile/card/qr.png"
	return card, nil
}

// GetCards builds the cards of several alumni, in the order of ids.
// Unknown ids are skipped.
func (p *ProfileService) GetCards(ctx context.Context, ids []string) ([]*contract.IDCardResponse, apierror.ErrorResponse) {
	profiles, err := p.ProfileRepo.FindAllInIDs(ctx, ids)
	if err != nil {
		log.Errorf("failed to fetch profiles for cards: %v", err)
		return nil, apierror.InternalServerError
	}

	byID := make(map[string]*entity.Profile, len(profiles))
	for _, profile := range profiles {
		byID[profile.ID] = profile
	}

	cards := make([]*contract.IDCardResponse, 0, len(ids))
	for _, id := range ids {
		if profile, ok := byID[id]; ok {
			card := p.toCard(profile)
			card.QRCodeURL = "/admin/cards/" + profile.ID + "/qr.png"
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// QRCode renders the PNG QR code of a profile's verification link.
func (p *ProfileService) QRCode(ctx context.Context, profileID string) ([]byte, apierror.ErrorResponse) {
	if _, apierr := p.fetchProfile(ctx, profileID); apierr != nil {
		return nil, apierr
	}

	png, err := qrcode.Encode(p.VerificationURL(profileID), qrcode.Medium, QRCodeSize)
	if err != nil {
		log.Errorf("failed to render QR code of %s: %v", profileID, err)
		return nil, apierror.InternalServerError
	}
	return png, nil
}

// Verify answers a scanned ID card. Unverified profiles are reported as such.
func (p *ProfileService) Verify(ctx context.Context, profileID string) (*contract.VerificationResponse, apierror.ErrorResponse) {
	profile, apierr := p.fetchProfile(ctx, profileID)
	if apierr != nil {
		return nil, apierr
	}

	return &contract.VerificationResponse{
		ID:             profile.ID,
		FullName:       profile.FullName,
		Degree:         profile.Degree,
		GraduationYear: profile.GraduationYear,
		IsVerified:     profile.IsVerified,
	}, nil
}

func (p *ProfileService) VerificationURL(profileID string) string {
	return p.PublicBaseURL + "/verify/" + profileID
}

func (p *ProfileService) toCard(profile *entity.Profile) *contract.IDCardResponse {
	return &contract.IDCardResponse{
		ID:              profile.ID,
		FullName:        profile.FullName,
		Degree:          profile.Degree,
		Batch:           profile.GraduationYear,
		IsVerified:      profile.IsVerified,
		AvatarURL:       p.S3.PublicURL(profile.AvatarKey),
		VerificationURL: p.VerificationURL(profile.ID),
	}
}

func (p *ProfileService) fetchProfile(ctx context.Context, id string) (*entity.Profile, apierror.ErrorResponse) {
	if id == "" {
		return nil, apierror.NotFoundError
	}

	profile, err := p.ProfileRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to find profile %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if profile == nil {
		return nil, apierror.NotFoundError
	}
	return profile, nil
}
