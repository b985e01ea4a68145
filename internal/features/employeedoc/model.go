package employeedoc

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocType classifies an employee document slot. The set is closed; every
// type except profile_photo belongs to the required compliance checklist.
type DocType string

const (
	DocTaxCertificate   DocType = "tax_certificate"
	DocBirthCertificate DocType = "birth_certificate"
	DocIMSS             DocType = "imss"
	DocCURP             DocType = "curp"
	DocINE              DocType = "ine"
	DocAddressProof     DocType = "address_proof"
	DocProfilePhoto     DocType = "profile_photo"
)

// AllDocTypes lists every valid slot, in checklist order.
var AllDocTypes = []DocType{
	DocTaxCertificate,
	DocBirthCertificate,
	DocIMSS,
	DocCURP,
	DocINE,
	DocAddressProof,
	DocProfilePhoto,
}

// RequiredDocTypes is the compliance checklist (profile_photo excluded).
var RequiredDocTypes = []DocType{
	DocTaxCertificate,
	DocBirthCertificate,
	DocIMSS,
	DocCURP,
	DocINE,
	DocAddressProof,
}

func ValidDocType(t string) bool {
	for _, d := range AllDocTypes {
		if string(d) == t {
			return true
		}
	}
	return false
}

// EmployeeDocument is one slot's stored file. Slots are single-holder: a
// re-upload replaces the row and its blob in place, keeping no history.
type EmployeeDocument struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_empdoc_owner" json:"employee_id"`
	DocType       DocType   `gorm:"size:32;not null;index:idx_empdoc_owner" json:"doc_type"`
	StorageBucket string    `gorm:"size:128;not null" json:"storage_bucket"`
	StoragePath   string    `gorm:"size:512;not null;uniqueIndex" json:"storage_path"`
	FileName      string    `gorm:"size:255" json:"file_name"`
	MimeType      string    `gorm:"size:128" json:"mime_type"`
	FileSize      int64     `json:"file_size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (EmployeeDocument) TableName() string {
	return "employee_documents"
}

func (d *EmployeeDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
