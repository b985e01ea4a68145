package obra

import (
	"context"

	"go-obra/internal/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ObraRepository interface {
	Save(ctx context.Context, o *Obra) error
	Get(ctx context.Context, id uuid.UUID) (*ObraView, error)
	FindAll(ctx context.Context) ([]*ObraView, error)
	Update(ctx context.Context, o *Obra) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ObraRepositoryImpl struct {
	db *gorm.DB
}

func NewObraRepository(pg *database.PostgresDB) ObraRepository {
	return &ObraRepositoryImpl{db: pg.DB}
}

func (r *ObraRepositoryImpl) Save(ctx context.Context, o *Obra) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ObraRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*ObraView, error) {
	var o Obra
	if err := r.db.WithContext(ctx).Preload("Manager").First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return toView(&o), nil
}

func (r *ObraRepositoryImpl) FindAll(ctx context.Context) ([]*ObraView, error) {
	var obras []*Obra
	if err := r.db.WithContext(ctx).Preload("Manager").Order("name asc").Find(&obras).Error; err != nil {
		return nil, err
	}
	views := make([]*ObraView, 0, len(obras))
	for _, o := range obras {
		views = append(views, toView(o))
	}
	return views, nil
}

func (r *ObraRepositoryImpl) Update(ctx context.Context, o *Obra) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *ObraRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Obra{}, "id = ?", id).Error
}

// toView flattens the preloaded manager row into a nullable name.
func toView(o *Obra) *ObraView {
	v := &ObraView{Obra: *o}
	if o.Manager != nil {
		name := o.Manager.Name
		v.ManagerName = &name
	}
	v.Manager = nil
	return v
}
