package models

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

// OwnerType distinguishes the two document-bearing entities.
type OwnerType string

const (
	OwnerEmployee OwnerType = "employee"
	OwnerObra     OwnerType = "obra"
)

// DocEvent is the frame broadcast over the websocket hub whenever a
// document is uploaded or deleted.
type DocEvent struct {
	Event     string    `json:"event"` // document.uploaded | document.deleted
	OwnerType OwnerType `json:"owner_type"`
	OwnerID   string    `json:"owner_id"`
	DocID     string    `json:"doc_id,omitempty"`
	DocType   string    `json:"doc_type,omitempty"`
	At        time.Time `json:"at"`
}

// AppLog is one row of the async zap DB sink.
type AppLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Level     string    `gorm:"size:16;index" json:"level"`
	Message   string    `gorm:"type:text" json:"message"`
	Caller    string    `gorm:"size:255" json:"caller"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
	AppID     string    `gorm:"size:64" json:"app_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (AppLog) TableName() string {
	return "app_logs"
}
