package staffdirbun

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/staffdir/staffdir"
	"github.com/staffdir/staffdir/entity"
)

type BunRepositoryTestSuite struct {
	suite.Suite
	provider *Provider
	users    *Repository[entity.User]
	ctx      context.Context
	clock    time.Time
}

func (s *BunRepositoryTestSuite) SetupSuite() {
	// A single shared connection keeps the in-memory database alive
	// across the pool.
	provider, err := NewProvider(staffdir.Config{
		Driver:       "sqlite",
		Database:     "file::memory:?cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(s.T(), err)
	s.provider = provider
	s.ctx = context.Background()

	require.NoError(s.T(), provider.Migrate(s.ctx,
		(*entity.Role)(nil), (*entity.Department)(nil), (*entity.User)(nil)))

	s.users, err = NewRepository[entity.User](provider)
	require.NoError(s.T(), err)

	s.clock = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	s.users.now = func() time.Time { return s.clock }
}

func (s *BunRepositoryTestSuite) TearDownSuite() {
	if s.provider != nil {
		s.provider.Close()
	}
}

func (s *BunRepositoryTestSuite) SetupTest() {
	s.users.DiscardChanges()
	s.provider.DB().NewTruncateTable().Model((*entity.User)(nil)).Exec(s.ctx)
}

func (s *BunRepositoryTestSuite) newUser(serial, name, email string) *entity.User {
	return &entity.User{
		SerialNumber: serial,
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
		RoleID:       1,
	}
}

func (s *BunRepositoryTestSuite) mustAdd(user *entity.User) *entity.User {
	require.NoError(s.T(), s.users.Add(s.ctx, "seed@example.com", user))
	require.NoError(s.T(), s.users.SaveChanges(s.ctx))
	return user
}

func (s *BunRepositoryTestSuite) TestAddCommitAndGet() {
	user := s.newUser("A-1", "Ada", "ada@example.com")
	require.NoError(s.T(), s.users.Add(s.ctx, "admin@example.com", user))

	all, err := s.users.GetAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), all)

	require.NoError(s.T(), s.users.SaveChanges(s.ctx))

	got, err := s.users.GetByID(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Ada", got.Name)
	assert.Equal(s.T(), "admin@example.com", got.CreatedBy)

	_, err = s.users.GetByID(s.ctx, 9999)
	assert.True(s.T(), staffdir.IsNotFound(err))
}

func (s *BunRepositoryTestSuite) TestSaveChangesIsAtomic() {
	s.mustAdd(s.newUser("A-1", "Ada", "ada@example.com"))

	require.NoError(s.T(), s.users.Add(s.ctx, "admin@example.com",
		s.newUser("B-2", "Bob", "bob@example.com")))
	require.NoError(s.T(), s.users.Add(s.ctx, "admin@example.com",
		s.newUser("C-3", "Carol", "ada@example.com")))

	err := s.users.SaveChanges(s.ctx)
	require.Error(s.T(), err)
	assert.True(s.T(), staffdir.IsDuplicate(err))

	count, err := s.users.Count(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), count)
	s.users.DiscardChanges()
}

func (s *BunRepositoryTestSuite) TestSoftDeleteScoping() {
	ada := s.mustAdd(s.newUser("A-1", "Ada", "ada@example.com"))
	s.mustAdd(s.newUser("B-2", "Bob", "bob@example.com"))

	require.NoError(s.T(), s.users.SoftDelete(s.ctx, "admin@example.com", ada.ID))
	require.NoError(s.T(), s.users.SaveChanges(s.ctx))

	all, err := s.users.GetAll(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)
	assert.Equal(s.T(), "Bob", all[0].Name)

	all, err = s.users.GetAll(s.ctx, staffdir.IncludeDeleted())
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 2)

	got, err := s.users.GetByID(s.ctx, ada.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.IsDeleted)

	_, err = s.users.GetByID(s.ctx, ada.ID, staffdir.ActiveOnly())
	assert.True(s.T(), staffdir.IsNotFound(err))

	// Double delete conflicts at commit.
	require.NoError(s.T(), s.users.SoftDelete(s.ctx, "admin@example.com", ada.ID))
	err = s.users.SaveChanges(s.ctx)
	assert.True(s.T(), staffdir.IsConflict(err))
	s.users.DiscardChanges()
}

func (s *BunRepositoryTestSuite) TestSearchAndUnique() {
	s.mustAdd(s.newUser("A-1", "Ada Lovelace", "ada@example.com"))
	s.mustAdd(s.newUser("B-2", "Bob", "bob@example.com"))

	matched, err := s.users.Search(s.ctx, "LOVE", "Name", "Email")
	require.NoError(s.T(), err)
	require.Len(s.T(), matched, 1)
	assert.Equal(s.T(), "Ada Lovelace", matched[0].Name)

	unique, err := s.users.IsFieldUnique(s.ctx, "Email", "ADA@example.com", 0)
	require.NoError(s.T(), err)
	assert.False(s.T(), unique)

	unique, err = s.users.IsFieldUnique(s.ctx, "Email", "free@example.com", 0)
	require.NoError(s.T(), err)
	assert.True(s.T(), unique)
}

func (s *BunRepositoryTestSuite) TestGetPaged() {
	s.mustAdd(s.newUser("A-1", "Zoe", "zoe@example.com"))
	s.mustAdd(s.newUser("B-2", "Ada", "ada@example.com"))
	s.mustAdd(s.newUser("C-3", "Bob", "bob@example.com"))

	page, err := s.users.GetPaged(s.ctx, 1, 2,
		staffdir.OrderBy("Name", staffdir.OrderAsc))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), page.TotalCount)
	assert.Equal(s.T(), 2, page.TotalPages)
	require.Len(s.T(), page.Items, 2)
	assert.Equal(s.T(), "Ada", page.Items[0].Name)

	_, err = s.users.GetPaged(s.ctx, 0, 2)
	assert.True(s.T(), staffdir.IsInvalidArgument(err))
}

func TestBunRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(BunRepositoryTestSuite))
}
