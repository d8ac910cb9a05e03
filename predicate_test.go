package staffdir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateEquals(t *testing.T) {
	cond, err := NewPredicate[metaAccount]().Equals("Name", "ada").Build()
	require.NoError(t, err)

	basic, ok := cond.(BasicCondition)
	require.True(t, ok)
	assert.Equal(t, "Name", basic.Field())
	assert.Equal(t, OpEqual, basic.Operator())
	assert.Equal(t, "ada", basic.Value())
}

func TestPredicateUnknownFieldFailsAtBuild(t *testing.T) {
	_, err := NewPredicate[metaAccount]().Equals("Nope", "x").Build()
	require.Error(t, err)
	assert.True(t, IsFieldNotFound(err))
}

func TestPredicateTypeMismatchFailsAtBuild(t *testing.T) {
	// Bool value against a text field.
	_, err := NewPredicate[metaAccount]().Equals("Name", true).Build()
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))

	// Case folding is for text fields only.
	_, err = NewPredicate[metaAccount]().EqualsFold("RoleID", "3").Build()
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))

	// Substring match is for text fields only.
	_, err = NewPredicate[metaAccount]().Contains("IsActive", "tru").Build()
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}

func TestPredicateFirstErrorWins(t *testing.T) {
	_, err := NewPredicate[metaAccount]().
		Equals("Nope", "x").
		EqualsFold("RoleID", "also bad").
		Build()
	require.Error(t, err)
	assert.True(t, IsFieldNotFound(err))
}

func TestPredicateBetweenRequiresTimeField(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	cond, err := NewPredicate[metaAccount]().Between("CreatedAt", from, to).Build()
	require.NoError(t, err)
	basic := cond.(BasicCondition)
	assert.Equal(t, OpBetween, basic.Operator())
	assert.Equal(t, []interface{}{from, to}, basic.Value())

	_, err = NewPredicate[metaAccount]().Between("Name", from, to).Build()
	assert.True(t, IsTypeMismatch(err))
}

func TestPredicateEmptyBuildRejected(t *testing.T) {
	_, err := NewPredicate[metaAccount]().Build()
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestPredicateComposition(t *testing.T) {
	cond, err := NewPredicate[metaAccount]().
		EqualsFold("Name", "Ada").
		Equals("IsActive", true).
		Build()
	require.NoError(t, err)

	composite, ok := cond.(CompositeCondition)
	require.True(t, ok)
	assert.Equal(t, LogicAnd, composite.Logic)
	assert.Len(t, composite.Conditions, 2)

	cond, err = NewPredicate[metaAccount]().
		Contains("Name", "a").
		Contains("SerialNumber", "a").
		BuildOr()
	require.NoError(t, err)
	composite = cond.(CompositeCondition)
	assert.Equal(t, LogicOr, composite.Logic)
}

func TestPredicateSingleConditionStaysBare(t *testing.T) {
	cond, err := NewPredicate[metaAccount]().Equals("IsActive", true).Build()
	require.NoError(t, err)
	_, ok := cond.(BasicCondition)
	assert.True(t, ok)
}

func TestUniqueValue(t *testing.T) {
	// Text fields fold case and exclude the given identity.
	cond, err := UniqueValue[metaAccount]("SerialNumber", "A-100", 7)
	require.NoError(t, err)
	composite, ok := cond.(CompositeCondition)
	require.True(t, ok)
	require.Len(t, composite.Conditions, 2)
	assert.Equal(t, OpEqualFold, composite.Conditions[0].Operator())
	assert.Equal(t, OpNotEqual, composite.Conditions[1].Operator())
	assert.Equal(t, "ID", composite.Conditions[1].Field())

	// excludeID 0 means no exclusion.
	cond, err = UniqueValue[metaAccount]("SerialNumber", "A-100", 0)
	require.NoError(t, err)
	_, ok = cond.(BasicCondition)
	assert.True(t, ok)

	// Non-text fields compare exactly.
	cond, err = UniqueValue[metaAccount]("RoleID", uint(3), 0)
	require.NoError(t, err)
	assert.Equal(t, OpEqual, cond.(BasicCondition).Operator())

	_, err = UniqueValue[metaAccount]("Nope", "x", 0)
	assert.True(t, IsFieldNotFound(err))

	_, err = UniqueValue[metaAccount]("Name", 42, 0)
	assert.True(t, IsTypeMismatch(err))
}

func TestSearchAny(t *testing.T) {
	cond, err := SearchAny[metaAccount]("ada", "Name", "SerialNumber")
	require.NoError(t, err)
	composite, ok := cond.(CompositeCondition)
	require.True(t, ok)
	assert.Equal(t, LogicOr, composite.Logic)
	require.Len(t, composite.Conditions, 2)
	for _, sub := range composite.Conditions {
		assert.Equal(t, OpContains, sub.Operator())
	}

	_, err = SearchAny[metaAccount]("   ", "Name")
	assert.True(t, IsInvalidArgument(err))

	_, err = SearchAny[metaAccount]("ada")
	assert.True(t, IsInvalidArgument(err))

	_, err = SearchAny[metaAccount]("ada", "RoleID")
	assert.True(t, IsTypeMismatch(err))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%ada%", ContainsPattern("Ada"))
	assert.Equal(t, "%a-100%", ContainsPattern("A-100"))
}
