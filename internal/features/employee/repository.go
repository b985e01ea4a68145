package employee

import (
	"context"

	"go-obra/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Save(ctx context.Context, emp *Employee) error
	Get(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context) ([]*Employee, error)
	Update(ctx context.Context, emp *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetPhotoPath updates the convenience photo pointer; path == nil
	// clears it.
	SetPhotoPath(ctx context.Context, id uuid.UUID, path *string) error
}

type EmployeeRepositoryImpl struct {
	db *gorm.DB
}

func NewEmployeeRepository(pg *database.PostgresDB) EmployeeRepository {
	return &EmployeeRepositoryImpl{db: pg.DB}
}

func (r *EmployeeRepositoryImpl) Save(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *EmployeeRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var emp Employee
	if err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepositoryImpl) FindAll(ctx context.Context) ([]*Employee, error) {
	var emps []*Employee
	if err := r.db.WithContext(ctx).Order("name asc").Find(&emps).Error; err != nil {
		return nil, err
	}
	return emps, nil
}

func (r *EmployeeRepositoryImpl) Update(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *EmployeeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}

func (r *EmployeeRepositoryImpl) SetPhotoPath(ctx context.Context, id uuid.UUID, path *string) error {
	return r.db.WithContext(ctx).Model(&Employee{}).
		Where("id = ?", id).
		Update("photo_url", path).Error
}
