package service

import (
	"context"
	"mime/multipart"
	"time"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/events"
	cognitoclient "alumninet/cmd/internal/infrastructure/aws/cognito"
	"alumninet/cmd/internal/infrastructure/aws/storage"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const (
	// LandingAdmin is where administrators land after signing in.
	LandingAdmin = "/admin"
	// LandingMember is where everyone else lands.
	LandingMember = "/directory"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Profile, error)
	FindVerifiedByID(ctx context.Context, id string) (*entity.Profile, error)
	FindVerified(ctx context.Context, query string) ([]*entity.Profile, error)
	FindAll(ctx context.Context, query string) ([]*entity.Profile, error)
	FindAllInIDs(ctx context.Context, ids []string) ([]*entity.Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	DegreeStats(ctx context.Context, limit int) ([]entity.DegreeCount, error)
	Save(ctx context.Context, profile *entity.Profile) error
	Delete(ctx context.Context, id string) error
}

// RevocationList ends sign-ins before their tokens expire.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// LoginResult carries the tokens to be set as cookies along with the response body.
type LoginResult struct {
	Tokens   access.Tokens
	Response *contract.LoginResponse
}

type AuthService struct {
	ProfileRepo ProfileRepository
	Validate    *validator.Validate
	Cognito     cognitoclient.CognitoInterface
	Verifier    access.TokenVerifier
	Revocations RevocationList
	S3          storage.S3Client
	WSService   *WebSocketService
}

func NewAuthService(
	profileRepo ProfileRepository,
	validate *validator.Validate,
	cogClient cognitoclient.CognitoInterface,
	verifier access.TokenVerifier,
	revocations RevocationList,
	s3 storage.S3Client,
	wsService *WebSocketService,
) *AuthService {
	return &AuthService{
		ProfileRepo: profileRepo,
		Validate:    validate,
		Cognito:     cogClient,
		Verifier:    verifier,
		Revocations: revocations,
		S3:          s3,
		WSService:   wsService,
	}
}

// Register creates a new identity on Cognito (as well as its profile in our
// database), and sends a verification code to the user's email address.
// avatar is optional.
func (a *AuthService) Register(ctx context.Context, req *contract.RegisterRequest, avatar *multipart.FileHeader) (*contract.ProfileResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if avatar != nil {
		if _, apierr := checkAvatarFile(avatar); apierr != nil {
			return nil, apierr
		}
	}

	found, err := a.ProfileRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check if profile already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	cogUser := &cognitoclient.User{Email: req.Email, Password: req.Password, FullName: req.FullName}
	sub, apierr, revert := handleUserSignup(ctx, a.Cognito, cogUser)
	if apierr != nil {
		return nil, apierr
	}

	var avatarKey string
	if avatar != nil {
		avatarKey, apierr = uploadAvatar(ctx, a.S3, sub, avatar)
		if apierr != nil {
			revert()
			return nil, apierr
		}
	}

	now := utils.NowUTC()
	profile := &entity.Profile{
		ID:             sub,
		Email:          req.Email,
		FullName:       req.FullName,
		Degree:         req.Degree,
		GraduationYear: req.GraduationYear,
		Role:           entity.RoleMember,
		IsVerified:     false,
		ContactNumber:  req.ContactNumber,
		AvatarKey:      avatarKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err = a.ProfileRepo.Save(ctx, profile); err != nil {
		revert()
		_ = deleteBucketObject(ctx, a.S3, avatarKey)
		log.Errorf("failed to create profile: %v", err)
		return nil, apierror.InternalServerError
	}
	return toProfileResponse(profile, a.S3.PublicURL(avatarKey), viewPrivate), nil
}

func (a *AuthService) ConfirmSignup(ctx context.Context, req *contract.ConfirmSignupRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	confirms := &cognitoclient.UserConfirmation{
		Email: req.Email,
		Code:  req.Code,
	}

	if err := a.Cognito.ConfirmAccount(ctx, confirms); err != nil {
		return utils.MapCognitoError(err)
	}
	return nil
}

func (a *AuthService) ResendConfirmation(ctx context.Context, req *contract.ResendConfirmRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	if err := a.Cognito.ResendConfirmation(ctx, req.Email); err != nil {
		return utils.MapCognitoError(err)
	}
	return nil
}

// Login signs the user in and decides where they land.
func (a *AuthService) Login(ctx context.Context, req *contract.LoginRequest) (*LoginResult, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	auth, err := a.Cognito.SignIn(ctx, &cognitoclient.UserLogin{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}

	claims, err := a.Verifier.Verify(ctx, auth.IDToken)
	if err != nil {
		log.Errorf("cognito issued an ID token we cannot verify: %v", err)
		return nil, apierror.InternalServerError
	}

	profile, err := a.ProfileRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		log.Errorf("failed to fetch profile of %s: %v", claims.Subject, err)
		return nil, apierror.InternalServerError
	}

	if profile == nil {
		// Identity without a profile, the registration never completed
		log.Warnf("identity %s signed in without a profile", claims.Subject)
		return nil, apierror.IDPUserNotFoundError
	}

	landing := LandingMember
	if profile.Role.IsAdmin() {
		landing = LandingAdmin
	}

	return &LoginResult{
		Tokens: tokensFrom(auth),
		Response: &contract.LoginResponse{
			Redirect:  landing,
			ExpiresIn: auth.ExpiresIn,
			Profile:   toProfileResponse(profile, a.S3.PublicURL(profile.AvatarKey), viewPrivate),
		},
	}, nil
}

// Refresh trades the refresh token for fresh ID and access tokens.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*access.Tokens, apierror.ErrorResponse) {
	if refreshToken == "" {
		return nil, apierror.InvalidAuthTokenError
	}

	auth, err := a.Cognito.Refresh(ctx, refreshToken)
	if err != nil {
		mapped := utils.MapCognitoError(err)
		if mapped == apierror.IDPCredentialsMismatchError {
			return nil, apierror.InvalidAuthTokenError
		}
		return nil, mapped
	}

	tokens := tokensFrom(auth)
	return &tokens, nil
}

// Logout ends the caller's session everywhere. It never fails: signing out
// of an already ended session is a no-op.
func (a *AuthService) Logout(ctx context.Context, sess *access.Session, accessToken string) {
	if accessToken != "" {
		if err := a.Cognito.GlobalSignOut(ctx, accessToken); err != nil {
			log.Warnf("global sign out failed: %v", err)
		}
	}

	if !sess.State.Authenticated() {
		return
	}

	if sess.TokenID != "" {
		if err := a.Revocations.Revoke(ctx, sess.TokenID, time.Unix(sess.ExpiresAt, 0)); err != nil {
			log.Errorf("failed to revoke session of %s: %v", sess.IdentityID, err)
		}
	}

	go a.WSService.TerminateUserConnections(context.Background(), sess.IdentityID, &events.ConnectionKill{
		Code: contract.KillCodeSignedOut,
	})
}

// Session describes the caller's resolved session.
func (a *AuthService) Session(sess *access.Session) *contract.SessionResponse {
	resp := &contract.SessionResponse{
		State:      sess.State.String(),
		IdentityID: sess.IdentityID,
		Email:      sess.Email,
		Verified:   sess.Verified,
	}

	if sess.ExpiresAt > 0 {
		resp.ExpiresAt = utils.FormatEpoch(sess.ExpiresAt * 1000)
	}
	return resp
}

func handleUserSignup(ctx context.Context, cogClient cognitoclient.CognitoInterface, req *cognitoclient.User) (string, apierror.ErrorResponse, func()) {
	sub, err := cogClient.SignUp(ctx, req)
	if err != nil {
		return "", utils.MapCognitoError(err), func() {}
	}

	revert := func() {
		// Detached, the request may already be cancelled
		if err := cogClient.AdminDeleteUser(context.Background(), sub); err != nil {
			log.Errorf("failed to revert sign up of %s. INCONSISTENCY RISK: %v", sub, err)
		}
	}
	return sub, nil, revert
}

func tokensFrom(auth *cognitoclient.AuthResult) access.Tokens {
	return access.Tokens{
		IDToken:      auth.IDToken,
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(auth.ExpiresIn) * time.Second),
	}
}
