package employeedoc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go-obra/internal/common/models"
	"go-obra/internal/config"
	"go-obra/internal/features/employee"
	"go-obra/internal/features/system"
	"go-obra/internal/middleware"
	"go-obra/internal/storage"
	"go-obra/pkg/fileutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedMime is the employee-document allow-list: PDFs and common images.
var allowedMime = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
}

type UploadInput struct {
	EmployeeID uuid.UUID
	DocType    DocType
	FileName   string
	MimeType   string
	Size       int64
	Reader     io.Reader
}

type UploadResult struct {
	Document  *EmployeeDocument `json:"document"`
	SignedURL string            `json:"signed_url,omitempty"`
	Bucket    string            `json:"bucket"`
	Path      string            `json:"path"`
}

// FetchResult bundles an employee's documents with fresh signed URLs per
// slot, plus the profile photo URL when that slot is filled.
type FetchResult struct {
	Documents       []*EmployeeDocument `json:"documents"`
	SignedURLs      map[DocType]string  `json:"signed_urls"`
	ProfilePhotoURL *string             `json:"profile_photo_url"`
}

// ChecklistItem reports one required slot's completeness.
type ChecklistItem struct {
	DocType  DocType `json:"doc_type"`
	Uploaded bool    `json:"uploaded"`
}

type DocumentService interface {
	ValidateUpload(docType DocType, fileName, mimeType string, size int64) error
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Fetch(ctx context.Context, employeeID uuid.UUID) (*FetchResult, error)
	Delete(ctx context.Context, employeeID uuid.UUID, docType DocType) (bool, error)
	Checklist(ctx context.Context, employeeID uuid.UUID) ([]ChecklistItem, error)
	SignPath(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type DocumentServiceImpl struct {
	Repo         DocumentRepository
	EmployeeRepo employee.EmployeeRepository
	Store        storage.ObjectStore
	Hub          *system.Hub
	Config       *config.Config
	Logger       *zap.Logger
}

func NewDocumentService(
	repo DocumentRepository,
	employeeRepo employee.EmployeeRepository,
	store storage.ObjectStore,
	hub *system.Hub,
	cfg *config.Config,
	logger *zap.Logger,
) DocumentService {
	return &DocumentServiceImpl{
		Repo:         repo,
		EmployeeRepo: employeeRepo,
		Store:        store,
		Hub:          hub,
		Config:       cfg,
		Logger:       logger,
	}
}

// ValidateUpload rejects bad input before any side effect.
func (s *DocumentServiceImpl) ValidateUpload(docType DocType, fileName, mimeType string, size int64) error {
	if !ValidDocType(string(docType)) {
		return fmt.Errorf("invalid docType: %s", docType)
	}
	if size <= 0 {
		return fmt.Errorf("empty file")
	}
	if size > s.Config.MaxUploadBytes {
		return fmt.Errorf("file too large (max %d bytes)", s.Config.MaxUploadBytes)
	}

	if docType == DocProfilePhoto {
		if !strings.HasPrefix(mimeType, "image/") {
			return fmt.Errorf("profile photo must be an image")
		}
		return nil
	}

	if allowedMime[mimeType] || strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return nil
	}
	return fmt.Errorf("file type not allowed: %s", mimeType)
}

// Upload replaces the slot's content: the prior blob is deleted
// (best-effort), the new blob is written at a fresh path, and the row is
// upserted. A failed row write triggers a compensating delete of the new
// blob so storage never outlives the record.
func (s *DocumentServiceImpl) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if err := s.ValidateUpload(in.DocType, in.FileName, in.MimeType, in.Size); err != nil {
		return nil, err
	}

	bucket := s.Config.EmployeeDocsBucket

	// Single-slot replace: drop the previous blob first. A failure here is
	// survivable — the old blob goes orphaned, which is the safe orphan
	// type — so log and continue.
	existing, err := s.Repo.GetSlot(ctx, in.EmployeeID, in.DocType)
	if err != nil {
		return nil, fmt.Errorf("checking existing document: %w", err)
	}
	if existing != nil && existing.StoragePath != "" {
		if err := s.Store.Remove(ctx, existing.StorageBucket, existing.StoragePath); err != nil {
			s.Logger.Warn("could not delete old storage file",
				zap.String("path", existing.StoragePath), zap.Error(err))
		}
	}

	path := fileutil.ObjectPath("employees", in.EmployeeID.String(), string(in.DocType), in.FileName)

	if err := s.Store.Put(ctx, bucket, path, in.Reader, in.Size, in.MimeType); err != nil {
		return nil, fmt.Errorf("uploading to storage: %w", err)
	}

	doc := &EmployeeDocument{
		EmployeeID:    in.EmployeeID,
		DocType:       in.DocType,
		StorageBucket: bucket,
		StoragePath:   path,
		FileName:      in.FileName,
		MimeType:      in.MimeType,
		FileSize:      in.Size,
	}

	saved, err := s.Repo.Upsert(ctx, doc)
	if err != nil {
		// Compensate: remove the blob we just wrote so it can't outlive
		// its failed record.
		middleware.CompensationsTotal.Inc()
		if rmErr := s.Store.Remove(ctx, bucket, path); rmErr != nil {
			s.Logger.Error("compensating delete failed, blob orphaned",
				zap.String("path", path), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("saving document record: %w", err)
	}

	// Convenience pointer for profile photos. Best-effort: the document
	// row is already correct, a miss self-heals on the next upload.
	if in.DocType == DocProfilePhoto {
		if err := s.EmployeeRepo.SetPhotoPath(ctx, in.EmployeeID, &path); err != nil {
			s.Logger.Warn("photo pointer update failed",
				zap.String("employee_id", in.EmployeeID.String()), zap.Error(err))
		}
	}

	middleware.UploadsTotal.WithLabelValues(string(models.OwnerEmployee)).Inc()
	middleware.UploadBytesTotal.Add(float64(in.Size))

	s.Hub.Broadcast(models.DocEvent{
		Event:     "document.uploaded",
		OwnerType: models.OwnerEmployee,
		OwnerID:   in.EmployeeID.String(),
		DocID:     saved.ID.String(),
		DocType:   string(in.DocType),
		At:        time.Now().UTC(),
	})

	result := &UploadResult{
		Document: saved,
		Bucket:   bucket,
		Path:     path,
	}

	// Fresh preview URL; failure is non-fatal.
	if url, err := s.Store.SignedURL(ctx, bucket, path, s.Config.SignedURLTTL); err != nil {
		s.Logger.Warn("signed url create failed", zap.String("path", path), zap.Error(err))
	} else {
		middleware.SignedURLsTotal.Inc()
		result.SignedURL = url
	}

	return result, nil
}

// Fetch returns all documents for an employee plus per-slot signed URLs.
// URL generation failures skip the slot rather than failing the fetch.
func (s *DocumentServiceImpl) Fetch(ctx context.Context, employeeID uuid.UUID) (*FetchResult, error) {
	docs, err := s.Repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("querying employee documents: %w", err)
	}

	result := &FetchResult{
		Documents:  docs,
		SignedURLs: make(map[DocType]string, len(docs)),
	}

	for _, d := range docs {
		url, err := s.Store.SignedURL(ctx, d.StorageBucket, d.StoragePath, s.Config.SignedURLTTL)
		if err != nil {
			s.Logger.Warn("signed url error",
				zap.String("doc_type", string(d.DocType)), zap.Error(err))
			continue
		}
		middleware.SignedURLsTotal.Inc()
		result.SignedURLs[d.DocType] = url
	}

	if url, ok := result.SignedURLs[DocProfilePhoto]; ok {
		result.ProfilePhotoURL = &url
	}

	return result, nil
}

// Delete removes the slot's blob then its row, in that order: a storage
// failure aborts and keeps the row, so a record never points at a blob
// that was already deleted. Returns false when the slot was already empty.
func (s *DocumentServiceImpl) Delete(ctx context.Context, employeeID uuid.UUID, docType DocType) (bool, error) {
	if !ValidDocType(string(docType)) {
		return false, fmt.Errorf("invalid docType: %s", docType)
	}

	existing, err := s.Repo.GetSlot(ctx, employeeID, docType)
	if err != nil {
		return false, fmt.Errorf("querying document: %w", err)
	}
	if existing == nil {
		return false, nil
	}

	if err := s.Store.Remove(ctx, existing.StorageBucket, existing.StoragePath); err != nil {
		return false, fmt.Errorf("deleting from storage: %w", err)
	}

	if err := s.Repo.DeleteSlot(ctx, employeeID, docType); err != nil {
		return false, fmt.Errorf("deleting document record: %w", err)
	}

	if docType == DocProfilePhoto {
		if err := s.EmployeeRepo.SetPhotoPath(ctx, employeeID, nil); err != nil {
			s.Logger.Warn("photo pointer cleanup failed",
				zap.String("employee_id", employeeID.String()), zap.Error(err))
		}
	}

	s.Hub.Broadcast(models.DocEvent{
		Event:     "document.deleted",
		OwnerType: models.OwnerEmployee,
		OwnerID:   employeeID.String(),
		DocID:     existing.ID.String(),
		DocType:   string(docType),
		At:        time.Now().UTC(),
	})

	return true, nil
}

// Checklist reports which required slots are filled.
func (s *DocumentServiceImpl) Checklist(ctx context.Context, employeeID uuid.UUID) ([]ChecklistItem, error) {
	docs, err := s.Repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("querying employee documents: %w", err)
	}

	present := make(map[DocType]bool, len(docs))
	for _, d := range docs {
		present[d.DocType] = true
	}

	items := make([]ChecklistItem, 0, len(RequiredDocTypes))
	for _, t := range RequiredDocTypes {
		items = append(items, ChecklistItem{DocType: t, Uploaded: present[t]})
	}
	return items, nil
}

// SignPath mints a signed URL for a raw employee-bucket path (the photo
// pointer flow). The requested expiry is clamped to the configured TTL.
func (s *DocumentServiceImpl) SignPath(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if expiry <= 0 || expiry > s.Config.SignedURLTTL {
		expiry = s.Config.SignedURLTTL
	}
	url, err := s.Store.SignedURL(ctx, s.Config.EmployeeDocsBucket, path, expiry)
	if err != nil {
		return "", err
	}
	middleware.SignedURLsTotal.Inc()
	return url, nil
}
