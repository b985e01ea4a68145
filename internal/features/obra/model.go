package obra

import (
	"time"

	"go-obra/internal/features/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPlanning   = "Planning"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOnHold     = "On Hold"
)

type Obra struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Location  string     `gorm:"size:255" json:"location"`
	Status    string     `gorm:"size:32;default:'Planning';index" json:"status"`
	Progress  int        `gorm:"default:0" json:"progress"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Budget    float64    `json:"budget"`
	Spent     float64    `json:"spent"`

	ManagerID *uuid.UUID         `gorm:"type:uuid;index" json:"manager_id,omitempty"`
	Manager   *employee.Employee `gorm:"foreignKey:ManagerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Obra) TableName() string {
	return "obras"
}

func (o *Obra) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// ObraView is the API shape of an obra. The to-one manager join is
// flattened into a single nullable name here, at the data-access boundary,
// so no ambiguous join shape ever reaches callers.
type ObraView struct {
	Obra
	ManagerName *string `json:"manager_name,omitempty"`
}
