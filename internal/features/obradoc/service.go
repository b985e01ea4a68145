package obradoc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go-obra/internal/common/models"
	"go-obra/internal/config"
	"go-obra/internal/features/system"
	"go-obra/internal/middleware"
	"go-obra/internal/storage"
	"go-obra/pkg/fileutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedMime mirrors what the document dialog accepts: PDF, images,
// Excel, Word and zip. A filename ending in .pdf is accepted regardless of
// the declared type.
var allowedMime = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":   true,
	"application/vnd.ms-excel":                                            true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword":           true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

type UploadInput struct {
	ObraID     uuid.UUID
	DocType    DocType
	Title      string
	Version    int
	UploadedBy string
	FileName   string
	MimeType   string
	Size       int64
	Reader     io.Reader
}

type UploadResult struct {
	Document  *ObraDocument `json:"document"`
	SignedURL string        `json:"signed_url,omitempty"`
}

type SignedURLResult struct {
	SignedURL string `json:"signed_url"`
	ExpiresIn int    `json:"expires_in"`
}

type DocumentService interface {
	ValidateUpload(in UploadInput) error
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	List(ctx context.Context, obraID uuid.UUID) ([]*ObraDocument, error)
	Current(ctx context.Context, obraID uuid.UUID, docType DocType) (*ObraDocument, error)
	SignedURL(ctx context.Context, id uuid.UUID) (*SignedURLResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DocumentServiceImpl struct {
	Repo   DocumentRepository
	Store  storage.ObjectStore
	Hub    *system.Hub
	Config *config.Config
	Logger *zap.Logger
}

func NewDocumentService(
	repo DocumentRepository,
	store storage.ObjectStore,
	hub *system.Hub,
	cfg *config.Config,
	logger *zap.Logger,
) DocumentService {
	return &DocumentServiceImpl{
		Repo:   repo,
		Store:  store,
		Hub:    hub,
		Config: cfg,
		Logger: logger,
	}
}

// ValidateUpload rejects bad input before any side effect.
func (s *DocumentServiceImpl) ValidateUpload(in UploadInput) error {
	if !ValidDocType(string(in.DocType)) {
		return fmt.Errorf("invalid doc_type: %s", in.DocType)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if in.Version <= 0 {
		return fmt.Errorf("version must be a positive number")
	}
	if in.Size <= 0 {
		return fmt.Errorf("empty file")
	}
	if in.Size > s.Config.MaxUploadBytes {
		return fmt.Errorf("file too large (max %d bytes)", s.Config.MaxUploadBytes)
	}
	if !allowedMime[in.MimeType] && !strings.HasSuffix(strings.ToLower(in.FileName), ".pdf") {
		return fmt.Errorf("file type not allowed: %s", in.MimeType)
	}
	return nil
}

// Upload writes the blob, then records the row. For versioned types the
// demotion of the previous current row and the insert run in one
// transaction, so the single-current invariant holds even under
// concurrent uploads. A failed insert triggers a compensating delete of
// the blob.
func (s *DocumentServiceImpl) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if err := s.ValidateUpload(in); err != nil {
		return nil, err
	}

	bucket := s.Config.ObraDocsBucket
	path := fileutil.ObjectPath("obras", in.ObraID.String(), in.DocType.Folder(), in.FileName)

	if err := s.Store.Put(ctx, bucket, path, in.Reader, in.Size, in.MimeType); err != nil {
		return nil, fmt.Errorf("uploading to storage: %w", err)
	}

	doc := &ObraDocument{
		ObraID:     in.ObraID,
		DocType:    in.DocType,
		Title:      strings.TrimSpace(in.Title),
		Bucket:     bucket,
		ObjectPath: path,
		FileName:   in.FileName,
		MimeType:   in.MimeType,
		SizeBytes:  in.Size,
		Version:    in.Version,
		AIStatus:   AIPending,
		UploadedBy: in.UploadedBy,
	}

	var err error
	if in.DocType.Versioned() {
		err = s.Repo.CreateCurrent(ctx, doc)
	} else {
		err = s.Repo.CreateAttachment(ctx, doc)
	}
	if err != nil {
		// Compensate: the blob must not outlive its failed record.
		middleware.CompensationsTotal.Inc()
		if rmErr := s.Store.Remove(ctx, bucket, path); rmErr != nil {
			s.Logger.Error("compensating delete failed, blob orphaned",
				zap.String("path", path), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("saving document record: %w", err)
	}

	middleware.UploadsTotal.WithLabelValues(string(models.OwnerObra)).Inc()
	middleware.UploadBytesTotal.Add(float64(in.Size))

	s.Hub.Broadcast(models.DocEvent{
		Event:     "document.uploaded",
		OwnerType: models.OwnerObra,
		OwnerID:   in.ObraID.String(),
		DocID:     doc.ID.String(),
		DocType:   string(in.DocType),
		At:        time.Now().UTC(),
	})

	result := &UploadResult{Document: doc}

	if url, err := s.Store.SignedURL(ctx, bucket, path, s.Config.SignedURLTTL); err != nil {
		s.Logger.Warn("signed url create failed", zap.String("path", path), zap.Error(err))
	} else {
		middleware.SignedURLsTotal.Inc()
		result.SignedURL = url
	}

	return result, nil
}

func (s *DocumentServiceImpl) List(ctx context.Context, obraID uuid.UUID) ([]*ObraDocument, error) {
	return s.Repo.FindByObra(ctx, obraID)
}

// Current returns the live version for a versioned doc type, or nil when
// none has been uploaded yet.
func (s *DocumentServiceImpl) Current(ctx context.Context, obraID uuid.UUID, docType DocType) (*ObraDocument, error) {
	if !docType.Versioned() {
		return nil, fmt.Errorf("doc_type %s is not versioned", docType)
	}
	return s.Repo.GetCurrent(ctx, obraID, docType)
}

// SignedURL mints a fresh URL for the document's blob. URLs are never
// cached; a failure here says nothing about the row's validity.
func (s *DocumentServiceImpl) SignedURL(ctx context.Context, id uuid.UUID) (*SignedURLResult, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("document not found: %w", err)
	}

	url, err := s.Store.SignedURL(ctx, doc.Bucket, doc.ObjectPath, s.Config.SignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("generating signed url: %w", err)
	}
	middleware.SignedURLsTotal.Inc()

	return &SignedURLResult{
		SignedURL: url,
		ExpiresIn: int(s.Config.SignedURLTTL.Seconds()),
	}, nil
}

// Delete removes the blob first, then the row. A storage failure keeps
// the row so the document stays listed (and retryable) instead of
// silently losing its record while the blob lingers.
func (s *DocumentServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("document not found: %w", err)
	}

	if err := s.Store.Remove(ctx, doc.Bucket, doc.ObjectPath); err != nil {
		return fmt.Errorf("deleting from storage: %w", err)
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting document record: %w", err)
	}

	s.Hub.Broadcast(models.DocEvent{
		Event:     "document.deleted",
		OwnerType: models.OwnerObra,
		OwnerID:   doc.ObraID.String(),
		DocID:     doc.ID.String(),
		DocType:   string(doc.DocType),
		At:        time.Now().UTC(),
	})

	return nil
}
