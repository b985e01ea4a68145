package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255;uniqueIndex" json:"email"`
	Phone      string    `gorm:"size:64" json:"phone"`
	Position   string    `gorm:"size:128" json:"position"`
	Department string    `gorm:"size:128;index" json:"department"`
	Location   string    `gorm:"size:255" json:"location"`
	Status     string    `gorm:"size:32;default:'Active';index" json:"status"`
	JoinDate   *time.Time `json:"join_date,omitempty"`

	// PhotoURL caches the storage path of the current profile_photo
	// document. It is a projection of employee_documents, recomputable at
	// any time; a missed update self-heals on the next photo upload.
	PhotoURL *string `gorm:"size:512" json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
