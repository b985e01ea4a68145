package obradoc

import (
	"context"
	"errors"

	"go-obra/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	// CreateCurrent demotes the existing current row for (obra_id,
	// doc_type) and inserts doc as the new current one, inside a single
	// transaction so readers can never observe two current rows.
	CreateCurrent(ctx context.Context, doc *ObraDocument) error

	// CreateAttachment inserts a non-versioned row (is_current stays
	// false).
	CreateAttachment(ctx context.Context, doc *ObraDocument) error

	Get(ctx context.Context, id uuid.UUID) (*ObraDocument, error)
	FindByObra(ctx context.Context, obraID uuid.UUID) ([]*ObraDocument, error)
	GetCurrent(ctx context.Context, obraID uuid.UUID, docType DocType) (*ObraDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentRepository(pg *database.PostgresDB) DocumentRepository {
	return &DocumentRepositoryImpl{db: pg.DB}
}

func (r *DocumentRepositoryImpl) CreateCurrent(ctx context.Context, doc *ObraDocument) error {
	doc.IsCurrent = true
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&ObraDocument{}).
			Where("obra_id = ? AND doc_type = ? AND is_current = ?", doc.ObraID, doc.DocType, true).
			Update("is_current", false).Error
		if err != nil {
			return err
		}
		return tx.Create(doc).Error
	})
}

func (r *DocumentRepositoryImpl) CreateAttachment(ctx context.Context, doc *ObraDocument) error {
	doc.IsCurrent = false
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*ObraDocument, error) {
	var doc ObraDocument
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) FindByObra(ctx context.Context, obraID uuid.UUID) ([]*ObraDocument, error) {
	var docs []*ObraDocument
	err := r.db.WithContext(ctx).
		Where("obra_id = ?", obraID).
		Order("uploaded_at desc").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepositoryImpl) GetCurrent(ctx context.Context, obraID uuid.UUID, docType DocType) (*ObraDocument, error) {
	var doc ObraDocument
	err := r.db.WithContext(ctx).
		First(&doc, "obra_id = ? AND doc_type = ? AND is_current = ?", obraID, docType, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&ObraDocument{}, "id = ?", id).Error
}
