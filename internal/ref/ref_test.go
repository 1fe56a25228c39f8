package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlsafe/internal/contract"
	"github.com/roach88/sqlsafe/internal/ident"
)

func TestNewTable(t *testing.T) {
	users, err := NewTable(nil, "users")
	require.NoError(t, err)
	assert.Equal(t, "users", users.Name())
	assert.Equal(t, "", users.Alias())
	assert.Equal(t, "users", users.ReferenceName())
	assert.Equal(t, "users", users.String())
}

func TestNewTable_Invalid(t *testing.T) {
	for _, name := range []string{"", "from", "1abc", "users;--"} {
		_, err := NewTable(nil, name)
		require.Error(t, err, name)
		assert.True(t, contract.IsViolation(err))
	}
}

func TestTableAs_ReturnsNewValue(t *testing.T) {
	users := MustTable("users")

	u, err := users.As("u")
	require.NoError(t, err)

	assert.Equal(t, "u", u.ReferenceName())
	assert.Equal(t, "users AS u", u.String())

	// Original unchanged
	assert.Equal(t, "", users.Alias())
	assert.Equal(t, "users", users.ReferenceName())
}

func TestTableAs_InvalidAlias(t *testing.T) {
	users := MustTable("users")
	_, err := users.As("order")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alias")
}

func TestTableEqual(t *testing.T) {
	a := MustTable("users")
	b := MustTable("users")
	assert.True(t, a.Equal(b))

	aliased, _ := a.As("u")
	assert.False(t, a.Equal(aliased))
	assert.False(t, a.Equal(MustTable("orders")))
}

func TestInjectedValidator(t *testing.T) {
	v := ident.New(ident.WithExtraKeywords("users"))

	_, err := NewTable(v, "users")
	require.Error(t, err)

	orders, err := NewTable(v, "orders")
	require.NoError(t, err)

	// The validator travels with the reference.
	_, err = orders.As("users")
	require.Error(t, err)
}

func TestColumnFullName(t *testing.T) {
	id := MustColumn("id")
	assert.Equal(t, "id", id.FullName())
	_, ok := id.Table()
	assert.False(t, ok)

	qualified := MustColumn("users.id")
	assert.Equal(t, "users.id", qualified.FullName())
	tbl, ok := qualified.Table()
	require.True(t, ok)
	assert.Equal(t, "users", tbl.Name())

	u, _ := MustTable("users").As("u")
	assert.Equal(t, "u.id", id.Of(u).FullName())
}

func TestColumnAggregate(t *testing.T) {
	id := MustColumn("users.id")

	assert.Equal(t, "COUNT(users.id)", id.WithAggregate(Count, false).Expr())
	assert.Equal(t, "COUNT(DISTINCT users.id)", id.WithAggregate(Count, true).Expr())
	assert.Equal(t, "GROUP_CONCAT(users.id)", id.WithAggregate(GroupConcat, false).Expr())
	assert.Equal(t, "SUM(users.id)", id.WithAggregate(Sum, false).Expr())

	// Original unchanged
	assert.Equal(t, AggregateNone, id.Aggregate())
	assert.Equal(t, "users.id", id.Expr())
}

func TestColumnWildcardAggregate(t *testing.T) {
	star := MustColumn("*")
	assert.Equal(t, "COUNT(*)", star.WithAggregate(Count, false).Expr())
}

func TestColumnAs(t *testing.T) {
	id := MustColumn("users.id")
	n, err := id.WithAggregate(Count, false).As("total")
	require.NoError(t, err)
	assert.Equal(t, "COUNT(users.id) AS total", n.SelectExpr())
	assert.Equal(t, "COUNT(users.id)", n.Expr())

	_, err = id.As("select")
	require.Error(t, err)
}

func TestColumnEqual(t *testing.T) {
	a := MustColumn("users.id")
	b := MustColumn("users.id")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(MustColumn("orders.id")))
	assert.False(t, a.Equal(a.WithAggregate(Max, false)))
}

func TestParseColumn_Invalid(t *testing.T) {
	for _, s := range []string{"", "users.", ".id", "users.id.x", "select.id", "users.from"} {
		_, err := ParseColumn(nil, s)
		assert.Error(t, err, s)
	}
}

func TestParseAggregate(t *testing.T) {
	tests := map[string]Aggregate{
		"count":        Count,
		"SUM":          Sum,
		"Avg":          Avg,
		"min":          Min,
		"max":          Max,
		"group_concat": GroupConcat,
	}
	for in, want := range tests {
		got, err := ParseAggregate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseAggregate("median")
	require.Error(t, err)
	assert.True(t, contract.IsViolation(err))
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() { MustTable("select") })
	assert.Panics(t, func() { MustColumn("1x") })
}
