package directory

import (
	"context"
	"fmt"

	"github.com/staffdir/staffdir"
	"github.com/staffdir/staffdir/entity"
)

// DepartmentService manages organizational units.
type DepartmentService struct {
	departments staffdir.Repository[entity.Department]
}

// NewDepartmentService creates the department service.
func NewDepartmentService(departments staffdir.Repository[entity.Department]) *DepartmentService {
	return &DepartmentService{departments: departments}
}

// DepartmentInput is the payload for creating or updating a department.
type DepartmentInput struct {
	Name string `validate:"required,max=100"`
	Code string `validate:"max=20"`
}

// Create validates the input, guards name uniqueness, and commits the
// new department.
func (s *DepartmentService) Create(ctx context.Context, actor string, input DepartmentInput) (*entity.Department, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := s.guardUniqueName(ctx, input.Name, 0); err != nil {
		return nil, err
	}

	department := &entity.Department{Name: input.Name, Code: input.Code}
	if err := s.departments.Add(ctx, actor, department); err != nil {
		return nil, err
	}
	if err := s.departments.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return department, nil
}

// Update validates the input, re-guards uniqueness against other rows,
// and commits the changed department.
func (s *DepartmentService) Update(ctx context.Context, actor string, id uint, input DepartmentInput) (*entity.Department, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	department, err := s.departments.GetByID(ctx, id, staffdir.ActiveOnly())
	if err != nil {
		return nil, err
	}
	if err := s.guardUniqueName(ctx, input.Name, id); err != nil {
		return nil, err
	}

	department.Name = input.Name
	department.Code = input.Code

	if err := s.departments.Update(ctx, actor, department); err != nil {
		return nil, err
	}
	if err := s.departments.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return department, nil
}

// Get returns the department.
func (s *DepartmentService) Get(ctx context.Context, id uint) (*entity.Department, error) {
	return s.departments.GetByID(ctx, id)
}

// List returns all active departments sorted by name.
func (s *DepartmentService) List(ctx context.Context) ([]*entity.Department, error) {
	return s.departments.GetAll(ctx, staffdir.OrderBy("Name", staffdir.OrderAsc))
}

// SoftDelete retires the department. Accounts and notes keep their
// reference; readers see it resolve to a deleted unit until they are
// reassigned.
func (s *DepartmentService) SoftDelete(ctx context.Context, actor string, id uint) error {
	if err := s.departments.SoftDelete(ctx, actor, id); err != nil {
		return err
	}
	return s.departments.SaveChanges(ctx)
}

// Restore brings a retired department back.
func (s *DepartmentService) Restore(ctx context.Context, actor string, id uint) error {
	if err := s.departments.Restore(ctx, actor, id); err != nil {
		return err
	}
	return s.departments.SaveChanges(ctx)
}

func (s *DepartmentService) guardUniqueName(ctx context.Context, name string, excludeID uint) error {
	unique, err := s.departments.IsFieldUnique(ctx, "Name", name, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return staffdir.NewError(staffdir.ErrorTypeDuplicate,
			fmt.Sprintf("department %q already exists", name))
	}
	return nil
}
