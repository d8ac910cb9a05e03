package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdir/staffdir"
	"github.com/staffdir/staffdir/auth"
	"github.com/staffdir/staffdir/entity"
	"github.com/staffdir/staffdir/staffdirgorm"
)

type DirectoryTestSuite struct {
	suite.Suite
	provider    *staffdirgorm.Provider
	userSvc     *UserService
	roleSvc     *RoleService
	deptSvc     *DepartmentService
	noteSvc     *NoteService
	pageSvc     *PageContentService
	users       staffdir.Repository[entity.User]
	roles       staffdir.Repository[entity.Role]
	departments staffdir.Repository[entity.Department]
	ctx         context.Context
}

const editor = "editor@example.com"

func (s *DirectoryTestSuite) SetupSuite() {
	provider, err := staffdirgorm.NewProvider(staffdir.Config{
		Driver:   "sqlite",
		Database: ":memory:",
		LogLevel: "silent",
	})
	require.NoError(s.T(), err)
	s.provider = provider
	s.ctx = context.Background()

	require.NoError(s.T(), provider.Migrate(
		&entity.Role{}, &entity.Department{}, &entity.User{},
		&entity.Note{}, &entity.PageContent{}))

	s.users, err = staffdirgorm.NewRepository[entity.User](provider)
	require.NoError(s.T(), err)
	s.roles, err = staffdirgorm.NewRepository[entity.Role](provider)
	require.NoError(s.T(), err)
	s.departments, err = staffdirgorm.NewRepository[entity.Department](provider)
	require.NoError(s.T(), err)
	notes, err := staffdirgorm.NewRepository[entity.Note](provider)
	require.NoError(s.T(), err)
	pages, err := staffdirgorm.NewRepository[entity.PageContent](provider)
	require.NoError(s.T(), err)

	hasher := auth.NewHasher(bcrypt.MinCost)
	s.userSvc = NewUserService(s.users, hasher)
	s.roleSvc = NewRoleService(s.roles, s.users)
	s.deptSvc = NewDepartmentService(s.departments)
	s.noteSvc = NewNoteService(notes, s.departments)
	s.pageSvc = NewPageContentService(pages)
}

func (s *DirectoryTestSuite) TearDownSuite() {
	if s.provider != nil {
		s.provider.Close()
	}
}

func (s *DirectoryTestSuite) SetupTest() {
	for _, table := range []string{"notes", "page_contents", "users", "departments", "roles"} {
		s.provider.DB().Exec("DELETE FROM " + table)
	}
}

func (s *DirectoryTestSuite) seedRole(name string) *entity.Role {
	role, err := s.roleSvc.Create(s.ctx, editor, RoleInput{Name: name})
	require.NoError(s.T(), err)
	return role
}

func (s *DirectoryTestSuite) seedUser(serial, email string, roleID uint) *entity.User {
	user, err := s.userSvc.Create(s.ctx, editor, CreateUserInput{
		SerialNumber: serial,
		Name:         "Someone",
		Email:        email,
		Password:     "secret-password",
		RoleID:       roleID,
	})
	require.NoError(s.T(), err)
	return user
}

// =====================================
// Users
// =====================================

func (s *DirectoryTestSuite) TestCreateUser() {
	role := s.seedRole("Staff")

	user, err := s.userSvc.Create(s.ctx, editor, CreateUserInput{
		SerialNumber: "A-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		Password:     "secret-password",
		RoleID:       role.ID,
	})
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), user.ID)
	assert.True(s.T(), user.IsActive)
	assert.NotEqual(s.T(), "secret-password", user.PasswordHash)
	assert.Equal(s.T(), editor, user.CreatedBy)
}

func (s *DirectoryTestSuite) TestCreateUserValidation() {
	role := s.seedRole("Staff")

	_, err := s.userSvc.Create(s.ctx, editor, CreateUserInput{
		SerialNumber: "A-1",
		Name:         "Ada",
		Email:        "not-an-email",
		Password:     "secret-password",
		RoleID:       role.ID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsErrorType(err, staffdir.ErrorTypeValidation))

	_, err = s.userSvc.Create(s.ctx, editor, CreateUserInput{
		SerialNumber: "A-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		Password:     "short",
		RoleID:       role.ID,
	})
	assert.True(s.T(), staffdir.IsErrorType(err, staffdir.ErrorTypeValidation))
}

func (s *DirectoryTestSuite) TestCreateUserDuplicateGuards() {
	role := s.seedRole("Staff")
	s.seedUser("A-1", "ada@example.com", role.ID)

	// Email collides even in different casing.
	_, err := s.userSvc.Create(s.ctx, editor, CreateUserInput{
		SerialNumber: "B-2",
		Name:         "Imposter",
		Email:        "ADA@example.com",
		Password:     "secret-password",
		RoleID:       role.ID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsDuplicate(err))

	_, err = s.userSvc.Create(s.ctx, editor, CreateUserInput{
		SerialNumber: "a-1",
		Name:         "Imposter",
		Email:        "other@example.com",
		Password:     "secret-password",
		RoleID:       role.ID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsDuplicate(err))
}

func (s *DirectoryTestSuite) TestUpdateUserKeepsOwnUniqueValues() {
	role := s.seedRole("Staff")
	user := s.seedUser("A-1", "ada@example.com", role.ID)

	// Updating without changing email or serial must not trip the guard.
	updated, err := s.userSvc.Update(s.ctx, editor, user.ID, UpdateUserInput{
		SerialNumber: "A-1",
		Name:         "Ada L.",
		Email:        "ada@example.com",
		RoleID:       role.ID,
		IsActive:     true,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Ada L.", updated.Name)
	assert.Equal(s.T(), editor, updated.UpdatedBy)
}

func (s *DirectoryTestSuite) TestDeletedUserReservesEmail() {
	role := s.seedRole("Staff")
	user := s.seedUser("A-1", "ada@example.com", role.ID)

	require.NoError(s.T(), s.userSvc.SoftDelete(s.ctx, editor, user.ID))

	_, err := s.userSvc.Create(s.ctx, editor, CreateUserInput{
		SerialNumber: "B-2",
		Name:         "Newcomer",
		Email:        "ada@example.com",
		Password:     "secret-password",
		RoleID:       role.ID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsDuplicate(err))

	require.NoError(s.T(), s.userSvc.Restore(s.ctx, editor, user.ID))
	got, err := s.userSvc.Get(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), got.IsDeleted)
}

func (s *DirectoryTestSuite) TestListAndSearchUsers() {
	role := s.seedRole("Staff")
	s.seedUser("A-1", "ada@example.com", role.ID)
	s.seedUser("B-2", "bob@example.com", role.ID)

	page, err := s.userSvc.List(s.ctx, 1, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), page.TotalCount)
	require.NotNil(s.T(), page.Items[0].Role)
	assert.Equal(s.T(), "Staff", page.Items[0].Role.Name)

	matched, err := s.userSvc.Search(s.ctx, "ada")
	require.NoError(s.T(), err)
	assert.Len(s.T(), matched, 1)
}

// =====================================
// Roles
// =====================================

func (s *DirectoryTestSuite) TestRoleNameUnique() {
	s.seedRole("Admin")

	_, err := s.roleSvc.Create(s.ctx, editor, RoleInput{Name: "admin"})
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsDuplicate(err))
}

func (s *DirectoryTestSuite) TestRoleDeleteRejectedWhileInUse() {
	role := s.seedRole("Staff")
	user := s.seedUser("A-1", "ada@example.com", role.ID)

	err := s.roleSvc.SoftDelete(s.ctx, editor, role.ID)
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsConflict(err))

	// Once the last holder is retired, the role can go too.
	require.NoError(s.T(), s.userSvc.SoftDelete(s.ctx, editor, user.ID))
	require.NoError(s.T(), s.roleSvc.SoftDelete(s.ctx, editor, role.ID))
}

// =====================================
// Departments
// =====================================

func (s *DirectoryTestSuite) TestDepartmentNameUnique() {
	_, err := s.deptSvc.Create(s.ctx, editor, DepartmentInput{Name: "Engineering", Code: "ENG"})
	require.NoError(s.T(), err)

	_, err = s.deptSvc.Create(s.ctx, editor, DepartmentInput{Name: "ENGINEERING"})
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsDuplicate(err))
}

func (s *DirectoryTestSuite) TestDepartmentDeleteIsUnchecked() {
	dept, err := s.deptSvc.Create(s.ctx, editor, DepartmentInput{Name: "Engineering"})
	require.NoError(s.T(), err)

	role := s.seedRole("Staff")
	user, err := s.userSvc.Create(s.ctx, editor, CreateUserInput{
		SerialNumber: "A-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		Password:     "secret-password",
		RoleID:       role.ID,
		DepartmentID: &dept.ID,
	})
	require.NoError(s.T(), err)

	// Unlike roles, departments retire even while referenced.
	require.NoError(s.T(), s.deptSvc.SoftDelete(s.ctx, editor, dept.ID))

	got, err := s.userSvc.Get(s.ctx, user.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.DepartmentID)
	assert.Equal(s.T(), dept.ID, *got.DepartmentID)
}

// =====================================
// Notes
// =====================================

func (s *DirectoryTestSuite) TestNoteDepartmentGuard() {
	missing := uint(9999)
	_, err := s.noteSvc.Create(s.ctx, editor, NoteInput{
		Title:        "Orphan",
		DepartmentID: &missing,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsInvalidArgument(err))

	dept, err := s.deptSvc.Create(s.ctx, editor, DepartmentInput{Name: "Engineering"})
	require.NoError(s.T(), err)

	note, err := s.noteSvc.Create(s.ctx, editor, NoteInput{
		Title:        "Standup moved",
		Body:         "Now at 9:30",
		DepartmentID: &dept.ID,
	})
	require.NoError(s.T(), err)

	listed, err := s.noteSvc.ListByDepartment(s.ctx, dept.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), listed, 1)
	assert.Equal(s.T(), note.ID, listed[0].ID)
}

func (s *DirectoryTestSuite) TestNoteSearch() {
	_, err := s.noteSvc.Create(s.ctx, editor, NoteInput{Title: "Fire drill", Body: "Friday"})
	require.NoError(s.T(), err)
	_, err = s.noteSvc.Create(s.ctx, editor, NoteInput{Title: "Lunch menu", Body: "Pasta friday"})
	require.NoError(s.T(), err)

	matched, err := s.noteSvc.Search(s.ctx, "FRIDAY")
	require.NoError(s.T(), err)
	assert.Len(s.T(), matched, 2)
}

// =====================================
// Page Content
// =====================================

func (s *DirectoryTestSuite) TestPageContentSectionUnique() {
	_, err := s.pageSvc.Create(s.ctx, editor, PageContentInput{
		Section: "welcome", Title: "Welcome", Body: "Hello"})
	require.NoError(s.T(), err)

	_, err = s.pageSvc.Create(s.ctx, editor, PageContentInput{Section: "WELCOME"})
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsDuplicate(err))

	got, err := s.pageSvc.GetBySection(s.ctx, "Welcome")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Hello", got.Body)

	_, err = s.pageSvc.GetBySection(s.ctx, "missing")
	assert.True(s.T(), staffdir.IsNotFound(err))
}

func TestDirectoryTestSuite(t *testing.T) {
	suite.Run(t, new(DirectoryTestSuite))
}
