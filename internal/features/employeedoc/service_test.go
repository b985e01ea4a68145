package employeedoc

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
	"go-obra/internal/features/employee"
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
	removes    []string
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
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes = append(f.removes, key(bucket, path))
	if f.failRemove {
		return errors.New("storage remove failed")
	}
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

func (f *fakeStore) has(bucket, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key(bucket, path)]
	return ok
}

// fakeRepo mimics the upsert-on-(employee_id, doc_type) slot semantics.
type fakeRepo struct {
	slots      map[string]*EmployeeDocument
	failUpsert bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{slots: make(map[string]*EmployeeDocument)}
}

func slotKey(employeeID uuid.UUID, docType DocType) string {
	return employeeID.String() + "/" + string(docType)
}

func (r *fakeRepo) Upsert(_ context.Context, doc *EmployeeDocument) (*EmployeeDocument, error) {
	if r.failUpsert {
		return nil, errors.New("insert failed")
	}
	k := slotKey(doc.EmployeeID, doc.DocType)
	if existing, ok := r.slots[k]; ok {
		doc.ID = existing.ID
	} else {
		doc.ID = uuid.New()
	}
	r.slots[k] = doc
	return doc, nil
}

func (r *fakeRepo) GetSlot(_ context.Context, employeeID uuid.UUID, docType DocType) (*EmployeeDocument, error) {
	return r.slots[slotKey(employeeID, docType)], nil
}

func (r *fakeRepo) FindByEmployee(_ context.Context, employeeID uuid.UUID) ([]*EmployeeDocument, error) {
	var out []*EmployeeDocument
	for _, d := range r.slots {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteSlot(_ context.Context, employeeID uuid.UUID, docType DocType) error {
	delete(r.slots, slotKey(employeeID, docType))
	return nil
}

// fakeEmployeeRepo records photo pointer writes.
type fakeEmployeeRepo struct {
	photos map[uuid.UUID]*string
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{photos: make(map[uuid.UUID]*string)}
}

func (r *fakeEmployeeRepo) Save(context.Context, *employee.Employee) error   { return nil }
func (r *fakeEmployeeRepo) Update(context.Context, *employee.Employee) error { return nil }
func (r *fakeEmployeeRepo) Delete(context.Context, uuid.UUID) error          { return nil }

func (r *fakeEmployeeRepo) Get(context.Context, uuid.UUID) (*employee.Employee, error) {
	return nil, errors.New("record not found")
}

func (r *fakeEmployeeRepo) FindAll(context.Context) ([]*employee.Employee, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) SetPhotoPath(_ context.Context, id uuid.UUID, path *string) error {
	r.photos[id] = path
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		EmployeeDocsBucket: "employee-documents",
		MaxUploadBytes:     25 << 20,
		SignedURLTTL:       300 * time.Second,
	}
}

func newService(repo DocumentRepository, empRepo employee.EmployeeRepository, store storage.ObjectStore) DocumentService {
	return NewDocumentService(repo, empRepo, store, system.NewHub(), testConfig(), zap.NewNop())
}

func pdfUpload(employeeID uuid.UUID, docType DocType, name string) UploadInput {
	return UploadInput{
		EmployeeID: employeeID,
		DocType:    docType,
		FileName:   name,
		MimeType:   "application/pdf",
		Size:       32,
		Reader:     bytes.NewReader(bytes.Repeat([]byte("x"), 32)),
	}
}

func TestUploadFillsSlot(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newService(repo, newFakeEmployeeRepo(), store)
	empID := uuid.New()

	res, err := svc.Upload(context.Background(), pdfUpload(empID, DocINE, "ine.pdf"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.Document.ID == uuid.Nil {
		t.Error("document ID not assigned")
	}
	if !store.has(res.Bucket, res.Path) {
		t.Error("blob missing from storage after upload")
	}
	if res.SignedURL == "" {
		t.Error("signed URL missing from upload response")
	}
	if len(repo.slots) != 1 {
		t.Errorf("slots = %d, want 1", len(repo.slots))
	}
}

func TestReplaceInPlaceDropsOldBlob(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newService(repo, newFakeEmployeeRepo(), store)
	empID := uuid.New()

	first, err := svc.Upload(context.Background(), pdfUpload(empID, DocCURP, "curp_old.pdf"))
	if err != nil {
		t.Fatalf("first Upload() error = %v", err)
	}
	second, err := svc.Upload(context.Background(), pdfUpload(empID, DocCURP, "curp_new.pdf"))
	if err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}

	if len(repo.slots) != 1 {
		t.Fatalf("slots = %d, want 1 (replace, not append)", len(repo.slots))
	}
	if second.Document.ID != first.Document.ID {
		t.Error("replace created a new row instead of updating the slot")
	}
	if store.has(first.Bucket, first.Path) {
		t.Error("old blob still present after replace")
	}
	if !store.has(second.Bucket, second.Path) {
		t.Error("new blob missing after replace")
	}
	if store.count() != 1 {
		t.Errorf("stored blobs = %d, want 1", store.count())
	}
}

func TestUploadValidation(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newService(repo, newFakeEmployeeRepo(), store)

	tests := []struct {
		name     string
		docType  DocType
		fileName string
		mimeType string
		size     int64
	}{
		{"Bad Doc Type", "passport", "x.pdf", "application/pdf", 10},
		{"Empty File", DocINE, "ine.pdf", "application/pdf", 0},
		{"Oversized", DocINE, "ine.pdf", "application/pdf", 30 << 20},
		{"Disallowed Type", DocINE, "clip.mp4", "video/mp4", 10},
		{"Photo Not Image", DocProfilePhoto, "photo.pdf", "application/pdf", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := UploadInput{
				EmployeeID: uuid.New(),
				DocType:    tt.docType,
				FileName:   tt.fileName,
				MimeType:   tt.mimeType,
				Size:       tt.size,
				Reader:     bytes.NewReader([]byte("data")),
			}
			if _, err := svc.Upload(context.Background(), in); err == nil {
				t.Fatal("Upload() succeeded, want validation error")
			}
		})
	}

	if store.count() != 0 || len(repo.slots) != 0 {
		t.Errorf("side effects after rejected uploads: blobs=%d slots=%d", store.count(), len(repo.slots))
	}
}

func TestPdfExtensionOverridesMime(t *testing.T) {
	svc := newService(newFakeRepo(), newFakeEmployeeRepo(), newFakeStore())
	in := pdfUpload(uuid.New(), DocIMSS, "APTO.PDF")
	in.MimeType = "application/octet-stream"
	if _, err := svc.Upload(context.Background(), in); err != nil {
		t.Fatalf("Upload() error = %v, want .pdf fallback accepted", err)
	}
}

func TestCompensatingDeleteOnUpsertFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failUpsert = true
	store := newFakeStore()
	svc := newService(repo, newFakeEmployeeRepo(), store)

	if _, err := svc.Upload(context.Background(), pdfUpload(uuid.New(), DocINE, "ine.pdf")); err == nil {
		t.Fatal("Upload() succeeded, want upsert failure")
	}
	if store.count() != 0 {
		t.Errorf("stored blobs = %d, want 0 after compensation", store.count())
	}
}

func TestProfilePhotoSetsPointer(t *testing.T) {
	repo := newFakeRepo()
	empRepo := newFakeEmployeeRepo()
	store := newFakeStore()
	svc := newService(repo, empRepo, store)
	empID := uuid.New()

	in := UploadInput{
		EmployeeID: empID,
		DocType:    DocProfilePhoto,
		FileName:   "foto.jpg",
		MimeType:   "image/jpeg",
		Size:       16,
		Reader:     bytes.NewReader(bytes.Repeat([]byte("j"), 16)),
	}
	res, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	ptr, ok := empRepo.photos[empID]
	if !ok || ptr == nil || *ptr != res.Path {
		t.Fatalf("photo pointer = %v, want %q", ptr, res.Path)
	}

	ok2, err := svc.Delete(context.Background(), empID, DocProfilePhoto)
	if err != nil || !ok2 {
		t.Fatalf("Delete() = %v, %v; want true, nil", ok2, err)
	}
	if ptr := empRepo.photos[empID]; ptr != nil {
		t.Errorf("photo pointer = %q after delete, want cleared", *ptr)
	}
}

func TestDeleteMissingSlot(t *testing.T) {
	svc := newService(newFakeRepo(), newFakeEmployeeRepo(), newFakeStore())

	ok, err := svc.Delete(context.Background(), uuid.New(), DocINE)
	if err != nil {
		t.Fatalf("Delete() error = %v, want nil for empty slot", err)
	}
	if ok {
		t.Error("Delete() = true for empty slot, want false")
	}
}

func TestDeleteStorageFailureKeepsRow(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newService(repo, newFakeEmployeeRepo(), store)
	empID := uuid.New()

	if _, err := svc.Upload(context.Background(), pdfUpload(empID, DocINE, "ine.pdf")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	store.failRemove = true
	if _, err := svc.Delete(context.Background(), empID, DocINE); err == nil {
		t.Fatal("Delete() succeeded, want storage failure")
	}
	if len(store.removes) == 0 {
		t.Error("storage delete was never attempted")
	}
	if len(repo.slots) != 1 {
		t.Errorf("slots = %d, want 1 (row preserved when storage delete fails)", len(repo.slots))
	}
}

func TestFetchSignsEverySlot(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newService(repo, newFakeEmployeeRepo(), store)
	empID := uuid.New()

	for _, dt := range []DocType{DocINE, DocCURP} {
		if _, err := svc.Upload(context.Background(), pdfUpload(empID, dt, string(dt)+".pdf")); err != nil {
			t.Fatalf("Upload(%s) error = %v", dt, err)
		}
	}
	photo := UploadInput{
		EmployeeID: empID,
		DocType:    DocProfilePhoto,
		FileName:   "foto.png",
		MimeType:   "image/png",
		Size:       8,
		Reader:     bytes.NewReader([]byte("12345678")),
	}
	if _, err := svc.Upload(context.Background(), photo); err != nil {
		t.Fatalf("Upload(photo) error = %v", err)
	}

	res, err := svc.Fetch(context.Background(), empID)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(res.Documents) != 3 {
		t.Errorf("documents = %d, want 3", len(res.Documents))
	}
	if len(res.SignedURLs) != 3 {
		t.Errorf("signed urls = %d, want 3", len(res.SignedURLs))
	}
	if res.ProfilePhotoURL == nil {
		t.Error("profile photo URL missing when photo slot is filled")
	}
}

func TestFetchSignFailureSkipsSlot(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newService(repo, newFakeEmployeeRepo(), store)
	empID := uuid.New()

	if _, err := svc.Upload(context.Background(), pdfUpload(empID, DocINE, "ine.pdf")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	store.failSign = true
	res, err := svc.Fetch(context.Background(), empID)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want URL failures skipped", err)
	}
	if len(res.Documents) != 1 {
		t.Errorf("documents = %d, want 1", len(res.Documents))
	}
	if len(res.SignedURLs) != 0 {
		t.Errorf("signed urls = %d, want 0 when signing fails", len(res.SignedURLs))
	}
}

func TestChecklist(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, newFakeEmployeeRepo(), newFakeStore())
	empID := uuid.New()

	if _, err := svc.Upload(context.Background(), pdfUpload(empID, DocINE, "ine.pdf")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	items, err := svc.Checklist(context.Background(), empID)
	if err != nil {
		t.Fatalf("Checklist() error = %v", err)
	}
	if len(items) != len(RequiredDocTypes) {
		t.Fatalf("items = %d, want %d", len(items), len(RequiredDocTypes))
	}
	for _, item := range items {
		want := item.DocType == DocINE
		if item.Uploaded != want {
			t.Errorf("%s uploaded = %v, want %v", item.DocType, item.Uploaded, want)
		}
	}
}

func TestSignPathClampsExpiry(t *testing.T) {
	svc := newService(newFakeRepo(), newFakeEmployeeRepo(), newFakeStore())

	url, err := svc.SignPath(context.Background(), "employees/x/profile_photo/foto.png", time.Hour)
	if err != nil {
		t.Fatalf("SignPath() error = %v", err)
	}
	if !strings.HasSuffix(url, "exp=300") {
		t.Errorf("SignPath() = %q, want expiry clamped to 300s", url)
	}
}
