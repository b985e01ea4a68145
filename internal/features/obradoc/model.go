package obradoc

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocType classifies an obra document. contract and quote are versioned:
// uploads retain full history with exactly one current row. other is a
// plain attachment bag with no version concept.
type DocType string

const (
	DocContract DocType = "contract"
	DocQuote    DocType = "quote"
	DocOther    DocType = "other"
)

func ValidDocType(t string) bool {
	switch DocType(t) {
	case DocContract, DocQuote, DocOther:
		return true
	}
	return false
}

// Versioned reports whether the type participates in is_current tracking.
func (t DocType) Versioned() bool {
	return t != DocOther
}

// Folder returns the object-path segment for the type.
func (t DocType) Folder() string {
	switch t {
	case DocContract:
		return "contracts"
	case DocQuote:
		return "quotes"
	default:
		return "other"
	}
}

// AIStatus is the stored processing badge. Rows are created pending; no
// pipeline advances them here.
type AIStatus string

const (
	AIPending    AIStatus = "pending"
	AIProcessing AIStatus = "processing"
	AIDone       AIStatus = "done"
	AIError      AIStatus = "error"
	AIDisabled   AIStatus = "disabled"
)

type ObraDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ObraID     uuid.UUID `gorm:"type:uuid;not null;index:idx_obradoc_owner" json:"obra_id"`
	DocType    DocType   `gorm:"size:32;not null;index:idx_obradoc_owner" json:"doc_type"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Bucket     string    `gorm:"size:128;not null" json:"bucket"`
	ObjectPath string    `gorm:"size:512;not null;uniqueIndex" json:"object_path"`
	FileName   string    `gorm:"size:255" json:"file_name"`
	MimeType   string    `gorm:"size:128" json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	Version    int       `gorm:"not null;default:1" json:"version"`
	IsCurrent  bool      `gorm:"not null;default:false;index" json:"is_current"`
	AIStatus   AIStatus  `gorm:"size:16;not null;default:'pending'" json:"ai_status"`
	UploadedBy string    `gorm:"size:64" json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ObraDocument) TableName() string {
	return "obra_documents"
}

func (d *ObraDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	return nil
}
