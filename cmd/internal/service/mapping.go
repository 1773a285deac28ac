package service

import (
	"strconv"

	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/utils"
)

// profileView selects how much of a profile a response exposes.
type profileView int

const (
	// viewMember is what other alumni see in the directory.
	viewMember profileView = iota
	// viewPrivate is what the owner and administrators see.
	viewPrivate
)

func toProfileResponse(p *entity.Profile, avatarURL string, view profileView) *contract.ProfileResponse {
	resp := &contract.ProfileResponse{
		ID:             p.ID,
		FullName:       p.FullName,
		Degree:         p.Degree,
		GraduationYear: p.GraduationYear,
		IsVerified:     p.IsVerified,
		ContactNumber:  p.ContactNumber,
		JobTitle:       p.JobTitle,
		Company:        p.Company,
		AvatarURL:      avatarURL,
	}

	if view == viewPrivate {
		resp.Email = p.Email
		resp.Role = string(entity.ParseRole(string(p.Role)))
		resp.CreatedAt = utils.FormatEpoch(p.CreatedAt)
		resp.UpdatedAt = utils.FormatEpoch(p.UpdatedAt)
	}
	return resp
}

func toJobResponse(j *entity.Job) *contract.JobResponse {
	return &contract.JobResponse{
		ID:          formatID(j.ID),
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Type:        j.Type,
		Description: j.Description,
		ApplyURL:    j.ApplyURL,
		SalaryRange: j.SalaryRange,
		PostedBy:    j.PostedByID,
		Status:      string(j.Status),
		CreatedAt:   utils.FormatEpoch(j.CreatedAt),
	}
}

func toEventResponse(e *entity.Event) *contract.EventResponse {
	return &contract.EventResponse{
		ID:          formatID(e.ID),
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		EventTime:   e.EventTime,
		Location:    e.Location,
		ImageURL:    e.ImageURL,
		OrganizerID: e.OrganizerID,
		Status:      string(e.Status),
		CreatedAt:   utils.FormatEpoch(e.CreatedAt),
	}
}

func toStoryResponse(s *entity.SuccessStory, avatarURL string) *contract.StoryResponse {
	author := &contract.StoryAuthor{
		ID:        s.UserID,
		FullName:  s.FullName,
		Degree:    s.Author.Degree,
		Batch:     s.Author.GraduationYear,
		AvatarURL: avatarURL,
	}

	return &contract.StoryResponse{
		ID:        formatID(s.ID),
		Title:     s.Title,
		Category:  s.Category,
		Content:   s.Content,
		Status:    string(s.Status),
		Author:    author,
		CreatedAt: utils.FormatEpoch(s.CreatedAt),
	}
}

func toNotificationResponse(n *entity.Notification) *contract.NotificationResponse {
	return &contract.NotificationResponse{
		ID:        formatID(n.ID),
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: utils.FormatEpoch(n.CreatedAt),
	}
}

// formatID renders snowflake ids as strings, since they overflow JavaScript numbers.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
