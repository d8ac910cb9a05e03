package staffdir

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metaAccount struct {
	Model

	SerialNumber string
	Name         string
	IsActive     bool
	LastLoginAt  *time.Time
	RoleID       uint

	Role    *metaRole
	Entries []metaEntry
}

type metaRole struct {
	Model
	Name string
}

type metaEntry struct {
	Model
	Body string
}

func TestMetaForFlattensEmbeddedModel(t *testing.T) {
	meta, err := MetaFor[metaAccount]()
	require.NoError(t, err)

	assert.Equal(t, "metaAccount", meta.Name)

	id, err := meta.Field("ID")
	require.NoError(t, err)
	assert.Equal(t, "id", id.Column)
	assert.Equal(t, KindInteger, id.Kind)

	created, err := meta.Field("CreatedAt")
	require.NoError(t, err)
	assert.Equal(t, "created_at", created.Column)
	assert.Equal(t, KindTime, created.Kind)

	deleted, err := meta.Field("IsDeleted")
	require.NoError(t, err)
	assert.Equal(t, KindBool, deleted.Kind)
}

func TestMetaForClassifiesFields(t *testing.T) {
	meta, err := MetaFor[metaAccount]()
	require.NoError(t, err)

	serial, err := meta.Field("SerialNumber")
	require.NoError(t, err)
	assert.Equal(t, "serial_number", serial.Column)
	assert.Equal(t, KindText, serial.Kind)
	assert.False(t, serial.Nullable)

	lastLogin, err := meta.Field("LastLoginAt")
	require.NoError(t, err)
	assert.Equal(t, KindTime, lastLogin.Kind)
	assert.True(t, lastLogin.Nullable)

	roleID, err := meta.Field("RoleID")
	require.NoError(t, err)
	assert.Equal(t, "role_id", roleID.Column)
	assert.Equal(t, KindInteger, roleID.Kind)
}

func TestMetaForDetectsRelations(t *testing.T) {
	meta, err := MetaFor[metaAccount]()
	require.NoError(t, err)

	assert.True(t, meta.HasRelation("Role"))
	assert.True(t, meta.HasRelation("Entries"))
	assert.False(t, meta.HasRelation("Name"))

	// Relation fields are not queryable fields.
	_, err = meta.Field("Role")
	assert.True(t, IsFieldNotFound(err))
}

func TestMetaForUnknownField(t *testing.T) {
	meta, err := MetaFor[metaAccount]()
	require.NoError(t, err)

	_, err = meta.Field("Nope")
	require.Error(t, err)
	assert.True(t, IsFieldNotFound(err))
}

func TestMetaForCachesPerType(t *testing.T) {
	first, err := MetaFor[metaAccount]()
	require.NoError(t, err)
	second, err := MetaFor[metaAccount]()
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestMetaOfRejectsNonStruct(t *testing.T) {
	_, err := MetaOf(reflect.TypeOf(42))
	assert.True(t, IsInvalidArgument(err))

	_, err = MetaOf(nil)
	assert.True(t, IsInvalidArgument(err))
}

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"SerialNumber": "serial_number",
		"RoleID":       "role_id",
		"ID":           "id",
		"Name":         "name",
		"LastLoginAt":  "last_login_at",
		"HTTPStatus":   "http_status",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToSnake(in), "ToSnake(%q)", in)
	}
}
