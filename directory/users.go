package directory

import (
	"context"
	"fmt"

	"github.com/staffdir/staffdir"
	"github.com/staffdir/staffdir/auth"
	"github.com/staffdir/staffdir/entity"
)

// UserService manages staff accounts.
type UserService struct {
	users  staffdir.Repository[entity.User]
	hasher *auth.Hasher
}

// NewUserService creates the user service.
func NewUserService(users staffdir.Repository[entity.User], hasher *auth.Hasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// CreateUserInput is the payload for creating a staff account.
type CreateUserInput struct {
	SerialNumber string `validate:"required,max=50"`
	Name         string `validate:"required,max=150"`
	Email        string `validate:"required,email,max=255"`
	Password     string `validate:"required,min=8"`
	RoleID       uint   `validate:"required"`
	DepartmentID *uint
}

// UpdateUserInput is the payload for updating a staff account. The
// password is changed separately.
type UpdateUserInput struct {
	SerialNumber string `validate:"required,max=50"`
	Name         string `validate:"required,max=150"`
	Email        string `validate:"required,email,max=255"`
	RoleID       uint   `validate:"required"`
	DepartmentID *uint
	IsActive     bool
}

// Create validates the input, guards email and serial number
// uniqueness, hashes the password, and commits the new account.
func (s *UserService) Create(ctx context.Context, actor string, input CreateUserInput) (*entity.User, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := s.guardUnique(ctx, input.Email, input.SerialNumber, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		SerialNumber: input.SerialNumber,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		IsActive:     true,
		RoleID:       input.RoleID,
		DepartmentID: input.DepartmentID,
	}
	if err := s.users.Add(ctx, actor, user); err != nil {
		return nil, err
	}
	if err := s.users.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// Update validates the input, re-guards uniqueness against other rows,
// and commits the changed account.
func (s *UserService) Update(ctx context.Context, actor string, id uint, input UpdateUserInput) (*entity.User, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id, staffdir.ActiveOnly())
	if err != nil {
		return nil, err
	}
	if err := s.guardUnique(ctx, input.Email, input.SerialNumber, id); err != nil {
		return nil, err
	}

	user.SerialNumber = input.SerialNumber
	user.Name = input.Name
	user.Email = input.Email
	user.RoleID = input.RoleID
	user.DepartmentID = input.DepartmentID
	user.IsActive = input.IsActive

	if err := s.users.Update(ctx, actor, user); err != nil {
		return nil, err
	}
	if err := s.users.SaveChanges(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword replaces the account's password hash.
func (s *UserService) SetPassword(ctx context.Context, actor string, id uint, password string) error {
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, id, staffdir.ActiveOnly())
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.users.Update(ctx, actor, user); err != nil {
		return err
	}
	return s.users.SaveChanges(ctx)
}

// Get returns the account with its role and department loaded.
func (s *UserService) Get(ctx context.Context, id uint) (*entity.User, error) {
	return s.users.GetWithRelated(ctx, id, "Role", "Department")
}

// List returns one page of accounts sorted by name.
func (s *UserService) List(ctx context.Context, page, pageSize int) (*staffdir.Page[entity.User], error) {
	return s.users.GetPaged(ctx, page, pageSize,
		staffdir.OrderBy("Name", staffdir.OrderAsc),
		staffdir.Preload("Role", "Department"))
}

// Search matches the term against name, email, and serial number.
func (s *UserService) Search(ctx context.Context, term string) ([]*entity.User, error) {
	return s.users.Search(ctx, term, "Name", "Email", "SerialNumber")
}

// SoftDelete retires the account, keeping its row for audit history.
func (s *UserService) SoftDelete(ctx context.Context, actor string, id uint) error {
	if err := s.users.SoftDelete(ctx, actor, id); err != nil {
		return err
	}
	return s.users.SaveChanges(ctx)
}

// Restore brings a retired account back. Its email and serial number
// were reserved the whole time, so no uniqueness re-check is needed.
func (s *UserService) Restore(ctx context.Context, actor string, id uint) error {
	if err := s.users.Restore(ctx, actor, id); err != nil {
		return err
	}
	return s.users.SaveChanges(ctx)
}

func (s *UserService) guardUnique(ctx context.Context, email, serial string, excludeID uint) error {
	unique, err := s.users.IsFieldUnique(ctx, "Email", email, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return staffdir.NewError(staffdir.ErrorTypeDuplicate,
			fmt.Sprintf("email %q is already in use", email))
	}

	unique, err = s.users.IsFieldUnique(ctx, "SerialNumber", serial, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return staffdir.NewError(staffdir.ErrorTypeDuplicate,
			fmt.Sprintf("serial number %q is already in use", serial))
	}
	return nil
}
