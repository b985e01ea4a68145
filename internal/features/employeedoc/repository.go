package employeedoc

import (
	"context"
	"errors"

	"go-obra/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository interface {
	// Upsert inserts the slot row or, when (employee_id, doc_type) already
	// exists, replaces its file columns in place. Returns the row as
	// persisted.
	Upsert(ctx context.Context, doc *EmployeeDocument) (*EmployeeDocument, error)

	// GetSlot returns the document holding (employeeID, docType), or nil
	// when the slot is empty.
	GetSlot(ctx context.Context, employeeID uuid.UUID, docType DocType) (*EmployeeDocument, error)

	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*EmployeeDocument, error)

	DeleteSlot(ctx context.Context, employeeID uuid.UUID, docType DocType) error
}

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentRepository(pg *database.PostgresDB) DocumentRepository {
	return &DocumentRepositoryImpl{db: pg.DB}
}

func (r *DocumentRepositoryImpl) Upsert(ctx context.Context, doc *EmployeeDocument) (*EmployeeDocument, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "doc_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"storage_bucket", "storage_path", "file_name", "mime_type", "file_size", "updated_at",
		}),
	}).Create(doc).Error
	if err != nil {
		return nil, err
	}
	// On conflict the existing row keeps its id; re-read for the canonical
	// record.
	return r.GetSlot(ctx, doc.EmployeeID, doc.DocType)
}

func (r *DocumentRepositoryImpl) GetSlot(ctx context.Context, employeeID uuid.UUID, docType DocType) (*EmployeeDocument, error) {
	var doc EmployeeDocument
	err := r.db.WithContext(ctx).
		First(&doc, "employee_id = ? AND doc_type = ?", employeeID, docType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*EmployeeDocument, error) {
	var docs []*EmployeeDocument
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("doc_type asc").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) DeleteSlot(ctx context.Context, employeeID uuid.UUID, docType DocType) error {
	return r.db.WithContext(ctx).
		Delete(&EmployeeDocument{}, "employee_id = ? AND doc_type = ?", employeeID, docType).Error
}
