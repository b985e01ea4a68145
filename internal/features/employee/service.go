package employee

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type EmployeeService interface {
	Create(ctx context.Context, emp *Employee) error
	Get(ctx context.Context, id uuid.UUID) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	Update(ctx context.Context, emp *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type EmployeeServiceImpl struct {
	Repo EmployeeRepository
}

func NewEmployeeService(repo EmployeeRepository) EmployeeService {
	return &EmployeeServiceImpl{Repo: repo}
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, emp *Employee) error {
	if strings.TrimSpace(emp.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.Repo.Save(ctx, emp)
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.Repo.Get(ctx, id)
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]*Employee, error) {
	return s.Repo.FindAll(ctx)
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, emp *Employee) error {
	if emp.ID == uuid.Nil {
		return fmt.Errorf("employee id is required")
	}
	if strings.TrimSpace(emp.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.Repo.Update(ctx, emp)
}

func (s *EmployeeServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Repo.Delete(ctx, id)
}
