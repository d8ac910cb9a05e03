package directory

import (
	"context"
	"fmt"

	"github.com/staffdir/staffdir"
	"github.com/staffdir/staffdir/entity"
)

// RoleService manages authorization roles.
type RoleService struct {
	roles staffdir.Repository[entity.Role]
	users staffdir.Repository[entity.User]
}

// NewRoleService creates the role service. The user repository backs the
// in-use check that protects role deletion.
func NewRoleService(roles staffdir.Repository[entity.Role], users staffdir.Repository[entity.User]) *RoleService {
	return &RoleService{roles: roles, users: users}
}

// RoleInput is the payload for creating or updating a role.
type RoleInput struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=255"`
}

// Create validates the input, guards name uniqueness, and commits the
// new role.
func (s *RoleService) Create(ctx context.Context, actor string, input RoleInput) (*entity.Role, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := s.guardUniqueName(ctx, input.Name, 0); err != nil {
		return nil, err
	}

	role := &entity.Role{Name: input.Name, Description: input.Description}
	if err := s.roles.Add(ctx, actor, role); err != nil {
		return nil, err
	}
	if err := s.roles.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return role, nil
}

// Update validates the input, re-guards uniqueness against other rows,
// and commits the changed role.
func (s *RoleService) Update(ctx context.Context, actor string, id uint, input RoleInput) (*entity.Role, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByID(ctx, id, staffdir.ActiveOnly())
	if err != nil {
		return nil, err
	}
	if err := s.guardUniqueName(ctx, input.Name, id); err != nil {
		return nil, err
	}

	role.Name = input.Name
	role.Description = input.Description

	if err := s.roles.Update(ctx, actor, role); err != nil {
		return nil, err
	}
	if err := s.roles.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return role, nil
}

// Get returns the role.
func (s *RoleService) Get(ctx context.Context, id uint) (*entity.Role, error) {
	return s.roles.GetByID(ctx, id)
}

// List returns all active roles sorted by name.
func (s *RoleService) List(ctx context.Context) ([]*entity.Role, error) {
	return s.roles.GetAll(ctx, staffdir.OrderBy("Name", staffdir.OrderAsc))
}

// SoftDelete retires the role unless any active account still holds it.
func (s *RoleService) SoftDelete(ctx context.Context, actor string, id uint) error {
	condition, err := staffdir.NewPredicate[entity.User]().Equals("RoleID", id).Build()
	if err != nil {
		return err
	}
	inUse, err := s.users.Count(ctx, staffdir.Where(condition))
	if err != nil {
		return err
	}
	if inUse > 0 {
		return staffdir.NewError(staffdir.ErrorTypeConflict,
			fmt.Sprintf("role is still assigned to %d active users", inUse))
	}

	if err := s.roles.SoftDelete(ctx, actor, id); err != nil {
		return err
	}
	return s.roles.SaveChanges(ctx)
}

// Restore brings a retired role back.
func (s *RoleService) Restore(ctx context.Context, actor string, id uint) error {
	if err := s.roles.Restore(ctx, actor, id); err != nil {
		return err
	}
	return s.roles.SaveChanges(ctx)
}

func (s *RoleService) guardUniqueName(ctx context.Context, name string, excludeID uint) error {
	unique, err := s.roles.IsFieldUnique(ctx, "Name", name, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return staffdir.NewError(staffdir.ErrorTypeDuplicate,
			fmt.Sprintf("role %q already exists", name))
	}
	return nil
}
