package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/events"
	"alumninet/cmd/internal/domain/policy"
	cognitoclient "alumninet/cmd/internal/infrastructure/aws/cognito"
	"alumninet/cmd/internal/infrastructure/aws/storage"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

const (
	// MaxPrintedCards matches the slots of one ID card print sheet.
	MaxPrintedCards = 4
	// DegreeStatsLimit is how many degrees the dashboard ranks.
	DegreeStatsLimit = 5

	VerifiedMessage = "Your alumni profile has been verified! You are now visible in the directory."
	VerifiedLink    = "/directory"
)

// ContentKind names the reviewable collections.
type ContentKind string

const (
	KindJobs    ContentKind = "jobs"
	KindEvents  ContentKind = "events"
	KindStories ContentKind = "stories"
)

// CSVExport is a rendered CSV document and the name it is downloaded as.
type CSVExport struct {
	Filename string
	Data     []byte
}

type AdminService struct {
	ProfileRepo   ProfileRepository
	Validate      *validator.Validate
	Cognito       cognitoclient.CognitoInterface
	S3            storage.S3Client
	ProfilePolicy *policy.ProfilePolicy

	Jobs          *JobService
	Events        *EventService
	Stories       *StoryService
	Profiles      *ProfileService
	Notifications *NotificationService
	WSService     *WebSocketService
}

func NewAdminService(
	profileRepo ProfileRepository,
	validate *validator.Validate,
	cogClient cognitoclient.CognitoInterface,
	s3 storage.S3Client,
	profilePolicy *policy.ProfilePolicy,
	jobService *JobService,
	eventService *EventService,
	storyService *StoryService,
	profiles *ProfileService,
	notifications *NotificationService,
	wsService *WebSocketService,
) *AdminService {
	return &AdminService{
		ProfileRepo:   profileRepo,
		Validate:      validate,
		Cognito:       cogClient,
		S3:            s3,
		ProfilePolicy: profilePolicy,
		Jobs:          jobService,
		Events:        eventService,
		Stories:       storyService,
		Profiles:      profiles,
		Notifications: notifications,
		WSService:     wsService,
	}
}

// Dashboard gathers everything the moderation page shows at once.
func (a *AdminService) Dashboard(ctx context.Context, query string) (*contract.DashboardResponse, apierror.ErrorResponse) {
	if len(query) > MaxSearchLength {
		return nil, apierror.NewSimple(http.StatusBadRequest, "Search term is too long, max: %d", MaxSearchLength)
	}

	profiles, err := a.ProfileRepo.FindAll(ctx, query)
	if err != nil {
		log.Errorf("failed to fetch profiles: %v", err)
		return nil, apierror.InternalServerError
	}

	stats, err := a.ProfileRepo.DegreeStats(ctx, DegreeStatsLimit)
	if err != nil {
		log.Errorf("failed to compute degree stats: %v", err)
		return nil, apierror.InternalServerError
	}

	jobs, apierr := a.Jobs.ListPending(ctx)
	if apierr != nil {
		return nil, apierr
	}

	evts, apierr := a.Events.ListPending(ctx)
	if apierr != nil {
		return nil, apierr
	}

	stories, apierr := a.Stories.ListPending(ctx)
	if apierr != nil {
		return nil, apierr
	}

	resp := &contract.DashboardResponse{
		Profiles:       make([]*contract.ProfileResponse, len(profiles)),
		PendingJobs:    jobs,
		PendingEvents:  evts,
		PendingStories: stories,
		DegreeStats:    stats,
	}
	for i, profile := range profiles {
		resp.Profiles[i] = toProfileResponse(profile, a.S3.PublicURL(profile.AvatarKey), viewPrivate)
	}

	if resp.DegreeStats == nil {
		resp.DegreeStats = []entity.DegreeCount{}
	}
	return resp, nil
}

// SetVerification toggles whether a profile shows up in the directory.
// Newly verified alumni are notified.
func (a *AdminService) SetVerification(ctx context.Context, actor *access.Session, profileID string, req *contract.SetVerificationRequest) (*contract.ProfileResponse, apierror.ErrorResponse) {
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	target, err := a.ProfileRepo.FindByID(ctx, profileID)
	if err != nil {
		log.Errorf("failed to fetch profile %s: %v", profileID, err)
		return nil, apierror.InternalServerError
	}

	if apierr := a.ProfilePolicy.CanSetVerification(actor, target); apierr != nil {
		return nil, apierr
	}

	verified := *req.Verified
	if target.IsVerified == verified {
		return toProfileResponse(target, a.S3.PublicURL(target.AvatarKey), viewPrivate), nil
	}

	target.IsVerified = verified
	target.UpdatedAt = utils.NowUTC()
	if err = a.ProfileRepo.Save(ctx, target); err != nil {
		log.Errorf("failed to set verification of %s: %v", profileID, err)
		return nil, apierror.InternalServerError
	}

	if verified {
		if err = a.Notifications.Notify(ctx, target.ID, VerifiedMessage, VerifiedLink); err != nil {
			log.Warnf("failed to notify %s of their verification: %v", target.ID, err)
		}
	}
	return toProfileResponse(target, a.S3.PublicURL(target.AvatarKey), viewPrivate), nil
}

// DeleteProfile removes an alumnus, their content and their identity.
func (a *AdminService) DeleteProfile(ctx context.Context, actor *access.Session, profileID string) apierror.ErrorResponse {
	target, err := a.ProfileRepo.FindByID(ctx, profileID)
	if err != nil {
		log.Errorf("failed to fetch profile %s: %v", profileID, err)
		return apierror.InternalServerError
	}

	if apierr := a.ProfilePolicy.CanDelete(actor, target); apierr != nil {
		return apierr
	}

	if err = a.ProfileRepo.Delete(ctx, target.ID); err != nil {
		log.Errorf("failed to delete profile %s: %v", target.ID, err)
		return apierror.InternalServerError
	}

	if err = deleteBucketObject(ctx, a.S3, target.AvatarKey); err != nil {
		log.Warnf("failed to delete avatar %s: %v", target.AvatarKey, err)
	}

	if err = a.Cognito.AdminDeleteUser(ctx, target.ID); err != nil {
		log.Errorf("failed to delete identity %s. INCONSISTENCY RISK: %v", target.ID, err)
	}

	go a.WSService.TerminateUserConnections(context.Background(), target.ID, &events.ConnectionKill{
		Code: contract.KillCodeProfileDeleted,
	})
	return nil
}

// Review approves or rejects a pending submission of the given kind.
func (a *AdminService) Review(ctx context.Context, actor *access.Session, kind ContentKind, id int64, action contract.ReviewAction) (any, apierror.ErrorResponse) {
	var status entity.ApprovalStatus
	switch action {
	case contract.ReviewApprove:
		status = entity.StatusApproved
	case contract.ReviewReject:
		status = entity.StatusRejected
	default:
		return nil, apierror.NewSimple(http.StatusBadRequest, "Unknown review action '%s'", action)
	}

	switch kind {
	case KindJobs:
		return a.Jobs.Review(ctx, actor, id, status)
	case KindEvents:
		return a.Events.Review(ctx, actor, id, status)
	case KindStories:
		return a.Stories.Review(ctx, actor, id, status)
	default:
		return nil, apierror.NotFoundError
	}
}

// Cards builds the ID cards of up to MaxPrintedCards alumni for printing.
func (a *AdminService) Cards(ctx context.Context, ids []string) ([]*contract.IDCardResponse, apierror.ErrorResponse) {
	if len(ids) == 0 {
		return nil, apierror.NewMissingParamError("ids")
	}

	if len(ids) > MaxPrintedCards {
		return nil, apierror.TooManyCardsError
	}
	return a.Profiles.GetCards(ctx, ids)
}

// ExportProfiles renders the whole registry as CSV.
func (a *AdminService) ExportProfiles(ctx context.Context) (*CSVExport, apierror.ErrorResponse) {
	profiles, err := a.ProfileRepo.FindAll(ctx, "")
	if err != nil {
		log.Errorf("failed to fetch profiles for export: %v", err)
		return nil, apierror.InternalServerError
	}

	rows := [][]string{{"ID", "Full Name", "Degree", "Class Of", "Role", "Company"}}
	for _, p := range profiles {
		rows = append(rows, []string{
			p.ID,
			p.FullName,
			p.Degree,
			p.GraduationYear,
			string(entity.ParseRole(string(p.Role))),
			p.Company,
		})
	}

	filename := "Alumni_Registry_" + time.Now().UTC().Format("2006-01-02") + ".csv"
	return renderCSV(filename, rows)
}

// ExportAttendees renders the attendee list of an event as CSV.
func (a *AdminService) ExportAttendees(ctx context.Context, eventID int64) (*CSVExport, apierror.ErrorResponse) {
	event, attendees, apierr := a.Events.Attendees(ctx, eventID)
	if apierr != nil {
		return nil, apierr
	}

	rows := [][]string{{"Full Name", "Degree", "Batch", "Contact Number"}}
	for _, p := range attendees {
		contact := p.ContactNumber
		if contact == "" {
			contact = "N/A"
		}
		rows = append(rows, []string{p.FullName, p.Degree, p.GraduationYear, contact})
	}

	filename := "Attendees_" + strings.Join(strings.Fields(event.Title), "_") + ".csv"
	return renderCSV(filename, rows)
}

func renderCSV(filename string, rows [][]string) (*CSVExport, apierror.ErrorResponse) {
	for _, row := range rows {
		for i, cell := range row {
			row[i] = neutralizeCell(cell)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		log.Errorf("failed to render %s: %v", filename, err)
		return nil, apierror.InternalServerError
	}
	return &CSVExport{Filename: filename, Data: buf.Bytes()}, nil
}

// neutralizeCell keeps spreadsheet applications from evaluating member
// supplied text as a formula.
func neutralizeCell(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + cell
	}
	return cell
}
