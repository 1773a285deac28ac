package contract

type CreateJobRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=120"`
	Company     string `json:"company" validate:"required,min=1,max=120"`
	Location    string `json:"location" validate:"omitempty,max=120"`
	Type        string `json:"type" validate:"required,oneof=Full-time Part-time Contract Internship Remote"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	ApplyURL    string `json:"apply_url" validate:"omitempty,http_url,max=2048"`
	SalaryRange string `json:"salary_range" validate:"omitempty,max=64"`
}

type JobResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ApplyURL    string `json:"apply_url,omitempty"`
	SalaryRange string `json:"salary_range,omitempty"`
	PostedBy    string `json:"posted_by"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	EventDate   string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime   string `json:"event_time" validate:"omitempty,datetime=15:04"`
	Location    string `json:"location" validate:"required,max=200"`
	ImageURL    string `json:"image_url" validate:"omitempty,http_url,max=2048"`
}

type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	EventTime   string `json:"event_time,omitempty"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url,omitempty"`
	OrganizerID string `json:"organizer_id"`
	Status      string `json:"status"`
	RsvpCount   *int64 `json:"rsvp_count,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	// MyRsvps holds the ids of the listed events the caller is attending.
	MyRsvps []string `json:"my_rsvps"`
}

type CreateStoryRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=160"`
	Category string `json:"category" validate:"required,oneof=Promotion Startup Award 'Higher Education'"`
	Content  string `json:"content" validate:"required,min=20,max=10000"`
}

type StoryResponse struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Category  string       `json:"category"`
	Content   string       `json:"content"`
	Status    string       `json:"status"`
	Author    *StoryAuthor `json:"author"`
	CreatedAt string       `json:"created_at"`
}

type StoryAuthor struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Degree    string `json:"degree"`
	Batch     string `json:"batch"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type NotificationResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Link      string `json:"link,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
