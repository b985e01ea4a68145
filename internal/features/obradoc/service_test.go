package obradoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go-obra/internal/config"
	"go-obra/internal/features/system"
	"go-obra/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeStore is an in-memory ObjectStore with switchable failure modes.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failPut    bool
	failRemove bool
	failSign   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func key(bucket, path string) string { return bucket + "/" + path }

func (f *fakeStore) Put(_ context.Context, bucket, path string, r io.Reader, _ int64, _ string) error {
	if f.failPut {
		return errors.New("storage write failed")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key(bucket, path)] = data
	return nil
}

func (f *fakeStore) Remove(_ context.Context, bucket, path string) error {
	if f.failRemove {
		return errors.New("storage remove failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key(bucket, path))
	return nil
}

func (f *fakeStore) Stat(_ context.Context, bucket, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key(bucket, path)]
	return ok, nil
}

func (f *fakeStore) SignedURL(_ context.Context, bucket, path string, expiry time.Duration) (string, error) {
	if f.failSign {
		return "", errors.New("sign failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key(bucket, path)]; !ok {
		return "", errors.New("object does not exist")
	}
	return fmt.Sprintf("https://signed.example/%s/%s?exp=%d", bucket, path, int(expiry.Seconds())), nil
}

func (f *fakeStore) List(_ context.Context, bucket, prefix string) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var infos []storage.ObjectInfo
	for k, v := range f.objects {
		if strings.HasPrefix(k, bucket+"/"+prefix) {
			infos = append(infos, storage.ObjectInfo{Path: strings.TrimPrefix(k, bucket+"/"), Size: int64(len(v))})
		}
	}
	return infos, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeRepo keeps rows in memory and mimics the transactional
// demote-then-insert of the real repository.
type fakeRepo struct {
	rows       []*ObraDocument
	failCreate bool
}

func (r *fakeRepo) CreateCurrent(_ context.Context, doc *ObraDocument) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	for _, existing := range r.rows {
		if existing.ObraID == doc.ObraID && existing.DocType == doc.DocType && existing.IsCurrent {
			existing.IsCurrent = false
		}
	}
	doc.IsCurrent = true
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	r.rows = append(r.rows, doc)
	return nil
}

func (r *fakeRepo) CreateAttachment(_ context.Context, doc *ObraDocument) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	doc.IsCurrent = false
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	r.rows = append(r.rows, doc)
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*ObraDocument, error) {
	for _, d := range r.rows {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeRepo) FindByObra(_ context.Context, obraID uuid.UUID) ([]*ObraDocument, error) {
	var out []*ObraDocument
	for _, d := range r.rows {
		if d.ObraID == obraID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetCurrent(_ context.Context, obraID uuid.UUID, docType DocType) (*ObraDocument, error) {
	for _, d := range r.rows {
		if d.ObraID == obraID && d.DocType == docType && d.IsCurrent {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, d := range r.rows {
		if d.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found")
}

func testConfig() *config.Config {
	return &config.Config{
		ObraDocsBucket: "obra-docs",
		MaxUploadBytes: 25 << 20,
		SignedURLTTL:   180 * time.Second,
	}
}

func newService(repo DocumentRepository, store storage.ObjectStore) DocumentService {
	return NewDocumentService(repo, store, system.NewHub(), testConfig(), zap.NewNop())
}

func upload(t *testing.T, svc DocumentService, obraID uuid.UUID, docType DocType, title string, version int, name string) *UploadResult {
	t.Helper()
	res, err := svc.Upload(context.Background(), UploadInput{
		ObraID:   obraID,
		DocType:  docType,
		Title:    title,
		Version:  version,
		FileName: name,
		MimeType: "application/pdf",
		Size:     64,
		Reader:   bytes.NewReader(bytes.Repeat([]byte("x"), 64)),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	return res
}

func TestVersionedReplaceKeepsSingleCurrent(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	svc := newService(repo, store)
	obraID := uuid.New()

	upload(t, svc, obraID, DocContract, "Contrato inicial", 1, "contrato_v1.pdf")
	upload(t, svc, obraID, DocContract, "Contrato firmado", 2, "contrato_v2.pdf")

	docs, _ := svc.List(context.Background(), obraID)
	if len(docs) != 2 {
		t.Fatalf("rows = %d, want 2", len(docs))
	}

	var currents int
	for _, d := range docs {
		if d.IsCurrent {
			currents++
			if d.Version != 2 || d.FileName != "contrato_v2.pdf" {
				t.Errorf("current row = v%d %s, want v2 contrato_v2.pdf", d.Version, d.FileName)
			}
		}
	}
	if currents != 1 {
		t.Errorf("current rows = %d, want exactly 1", currents)
	}

	if store.count() != 2 {
		t.Errorf("stored blobs = %d, want 2 (history retained)", store.count())
	}
}

func TestOtherAttachmentsNeverCurrent(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, newFakeStore())
	obraID := uuid.New()

	upload(t, svc, obraID, DocOther, "Anexo 1", 1, "anexo1.pdf")
	upload(t, svc, obraID, DocOther, "Anexo 2", 1, "anexo2.pdf")

	docs, _ := svc.List(context.Background(), obraID)
	if len(docs) != 2 {
		t.Fatalf("rows = %d, want 2", len(docs))
	}
	for _, d := range docs {
		if d.IsCurrent {
			t.Errorf("attachment %s marked current", d.FileName)
		}
	}
}

func TestUploadValidation(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	svc := newService(repo, store)
	obraID := uuid.New()

	base := func() UploadInput {
		return UploadInput{
			ObraID:   obraID,
			DocType:  DocContract,
			Title:    "Contrato",
			Version:  1,
			FileName: "contrato.pdf",
			MimeType: "application/pdf",
			Size:     64,
			Reader:   bytes.NewReader([]byte("data")),
		}
	}

	tests := []struct {
		name   string
		mutate func(*UploadInput)
	}{
		{"Bad Doc Type", func(in *UploadInput) { in.DocType = "blueprint" }},
		{"Empty Title", func(in *UploadInput) { in.Title = "   " }},
		{"Zero Version", func(in *UploadInput) { in.Version = 0 }},
		{"Negative Version", func(in *UploadInput) { in.Version = -3 }},
		{"Oversized", func(in *UploadInput) { in.Size = 30 << 20 }},
		{"Disallowed Type", func(in *UploadInput) { in.MimeType = "video/mp4"; in.FileName = "clip.mp4" }},
		{"Empty File", func(in *UploadInput) { in.Size = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(&in)
			if _, err := svc.Upload(context.Background(), in); err == nil {
				t.Fatal("Upload() succeeded, want validation error")
			}
		})
	}

	// No side effects from any rejected attempt.
	if store.count() != 0 {
		t.Errorf("stored blobs = %d, want 0 after rejected uploads", store.count())
	}
	if len(repo.rows) != 0 {
		t.Errorf("rows = %d, want 0 after rejected uploads", len(repo.rows))
	}
}

func TestPdfExtensionOverridesMime(t *testing.T) {
	svc := newService(&fakeRepo{}, newFakeStore())
	_, err := svc.Upload(context.Background(), UploadInput{
		ObraID:   uuid.New(),
		DocType:  DocQuote,
		Title:    "Cotización",
		Version:  1,
		FileName: "COTIZACION.PDF",
		MimeType: "application/octet-stream",
		Size:     10,
		Reader:   bytes.NewReader([]byte("0123456789")),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v, want .pdf fallback accepted", err)
	}
}

func TestCompensatingDeleteOnInsertFailure(t *testing.T) {
	repo := &fakeRepo{failCreate: true}
	store := newFakeStore()
	svc := newService(repo, store)

	_, err := svc.Upload(context.Background(), UploadInput{
		ObraID:   uuid.New(),
		DocType:  DocContract,
		Title:    "Contrato",
		Version:  1,
		FileName: "contrato.pdf",
		MimeType: "application/pdf",
		Size:     4,
		Reader:   bytes.NewReader([]byte("data")),
	})
	if err == nil {
		t.Fatal("Upload() succeeded, want insert failure")
	}

	// The blob written before the failed insert must be gone.
	if store.count() != 0 {
		t.Errorf("stored blobs = %d, want 0 after compensation", store.count())
	}
}

func TestStorageWriteFailureLeavesNoRow(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	store.failPut = true
	svc := newService(repo, store)

	_, err := svc.Upload(context.Background(), UploadInput{
		ObraID:   uuid.New(),
		DocType:  DocContract,
		Title:    "Contrato",
		Version:  1,
		FileName: "contrato.pdf",
		MimeType: "application/pdf",
		Size:     4,
		Reader:   bytes.NewReader([]byte("data")),
	})
	if err == nil {
		t.Fatal("Upload() succeeded, want storage failure")
	}
	if len(repo.rows) != 0 {
		t.Errorf("rows = %d, want 0 when the blob write fails", len(repo.rows))
	}
}

func TestDeleteStorageFailureKeepsRow(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	svc := newService(repo, store)
	obraID := uuid.New()

	res := upload(t, svc, obraID, DocContract, "Contrato", 1, "contrato.pdf")

	store.failRemove = true
	if err := svc.Delete(context.Background(), res.Document.ID); err == nil {
		t.Fatal("Delete() succeeded, want storage failure")
	}

	docs, _ := svc.List(context.Background(), obraID)
	if len(docs) != 1 {
		t.Errorf("rows = %d, want 1 (row preserved when storage delete fails)", len(docs))
	}
}

func TestDeleteRemovesBlobAndRow(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	svc := newService(repo, store)
	obraID := uuid.New()

	res := upload(t, svc, obraID, DocContract, "Contrato", 1, "contrato.pdf")

	if err := svc.Delete(context.Background(), res.Document.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if store.count() != 0 {
		t.Errorf("stored blobs = %d, want 0", store.count())
	}
	docs, _ := svc.List(context.Background(), obraID)
	if len(docs) != 0 {
		t.Errorf("rows = %d, want 0", len(docs))
	}
}

func TestSignedURLFreshPerCall(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	svc := newService(repo, store)

	res := upload(t, svc, uuid.New(), DocQuote, "Cotización", 1, "cotizacion.pdf")

	got, err := svc.SignedURL(context.Background(), res.Document.ID)
	if err != nil {
		t.Fatalf("SignedURL() error = %v", err)
	}
	if got.SignedURL == "" || got.ExpiresIn != 180 {
		t.Errorf("SignedURL() = %q expires %d, want non-empty / 180", got.SignedURL, got.ExpiresIn)
	}
}

func TestCurrentReturnsLiveVersion(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, newFakeStore())
	obraID := uuid.New()

	if doc, err := svc.Current(context.Background(), obraID, DocContract); err != nil || doc != nil {
		t.Fatalf("Current() = %v, %v before any upload; want nil, nil", doc, err)
	}

	upload(t, svc, obraID, DocContract, "Contrato", 1, "contrato_v1.pdf")
	upload(t, svc, obraID, DocContract, "Contrato", 2, "contrato_v2.pdf")

	doc, err := svc.Current(context.Background(), obraID, DocContract)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if doc == nil || doc.Version != 2 {
		t.Errorf("Current() = %+v, want version 2", doc)
	}

	if _, err := svc.Current(context.Background(), obraID, DocOther); err == nil {
		t.Error("Current() accepted non-versioned doc type")
	}
}

func TestSignedURLFailureLeavesRowValid(t *testing.T) {
	repo := &fakeRepo{}
	store := newFakeStore()
	svc := newService(repo, store)
	obraID := uuid.New()

	res := upload(t, svc, obraID, DocQuote, "Cotización", 1, "cotizacion.pdf")

	store.failSign = true
	if _, err := svc.SignedURL(context.Background(), res.Document.ID); err == nil {
		t.Fatal("SignedURL() succeeded, want failure")
	}

	docs, _ := svc.List(context.Background(), obraID)
	if len(docs) != 1 {
		t.Errorf("rows = %d, want 1 (row untouched by sign failure)", len(docs))
	}
}
