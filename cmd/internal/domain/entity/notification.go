package entity

type Notification struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID    string `gorm:"not null;index"` // References: profiles(id)
	Message   string `gorm:"not null"`
	Link      string `gorm:"not null;default:''"`
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt int64  `gorm:"not null"`
}
