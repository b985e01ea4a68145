package obra

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type ObraService interface {
	Create(ctx context.Context, o *Obra) error
	Get(ctx context.Context, id uuid.UUID) (*ObraView, error)
	List(ctx context.Context) ([]*ObraView, error)
	Update(ctx context.Context, o *Obra) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ObraServiceImpl struct {
	Repo ObraRepository
}

func NewObraService(repo ObraRepository) ObraService {
	return &ObraServiceImpl{Repo: repo}
}

func (s *ObraServiceImpl) Create(ctx context.Context, o *Obra) error {
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if o.Progress < 0 || o.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	return s.Repo.Save(ctx, o)
}

func (s *ObraServiceImpl) Get(ctx context.Context, id uuid.UUID) (*ObraView, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ObraServiceImpl) List(ctx context.Context) ([]*ObraView, error) {
	return s.Repo.FindAll(ctx)
}

func (s *ObraServiceImpl) Update(ctx context.Context, o *Obra) error {
	if o.ID == uuid.Nil {
		return fmt.Errorf("obra id is required")
	}
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if o.Progress < 0 || o.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100")
	}
	return s.Repo.Update(ctx, o)
}

func (s *ObraServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Repo.Delete(ctx, id)
}
