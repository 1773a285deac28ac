package entity

type Event struct {
	ID          int64          `gorm:"primaryKey;autoIncrement:false"`
	Title       string         `gorm:"not null"`
	Description string         `gorm:"not null;default:''"`
	EventDate   string         `gorm:"not null;index"` // YYYY-MM-DD
	EventTime   string         `gorm:"not null;default:''"`
	Location    string         `gorm:"not null;default:''"`
	ImageURL    string         `gorm:"not null;default:''"`
	OrganizerID string         `gorm:"not null;index"` // References: profiles(id)
	Status      ApprovalStatus `gorm:"not null;type:varchar(16);index"`
	CreatedAt   int64          `gorm:"not null"`
	UpdatedAt   int64          `gorm:"not null;autoUpdateTime:false"`
}

// EventRsvp marks a profile as attending an event. A profile can only
// RSVP once per event.
type EventRsvp struct {
	EventID   int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID    string `gorm:"primaryKey;index"`
	CreatedAt int64  `gorm:"not null"`

	// Relations
	Profile Profile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// EventWithCount is an approved event together with its attendee count.
type EventWithCount struct {
	Event
	RsvpCount int64
}
