package query

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlsafe/internal/condition"
	"github.com/roach88/sqlsafe/internal/contract"
	"github.com/roach88/sqlsafe/internal/ref"
	"github.com/roach88/sqlsafe/internal/testutil"
)

func mustArgs(t *testing.T, res Result) []any {
	t.Helper()
	args, err := res.Args()
	require.NoError(t, err)
	return args
}

func TestResult_ArgsInAllocationOrder(t *testing.T) {
	res := build(t, New().
		From(users).
		Where(usersStatus, condition.Equals, condition.String("active")).
		AndWhere(usersID, condition.In, condition.ListOf(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)))

	args, err := res.Args()
	require.NoError(t, err)
	require.Len(t, args, 12)
	assert.Equal(t, sql.Named("param_0", "active"), args[0])
	assert.Equal(t, sql.Named("param_1", int64(1)), args[1])
	assert.Equal(t, sql.Named("param_11", int64(11)), args[11])
}

func TestResult_NamedArgs(t *testing.T) {
	res := build(t, New().
		From(users).
		Where(usersID, condition.Equals, condition.Int(1)).
		AndWhere(usersStatus, condition.Equals, condition.String("active")))

	named, err := res.NamedArgs()
	require.NoError(t, err)
	assert.Equal(t, pgx.NamedArgs{"param_0": int64(1), "param_1": "active"}, named)
}

func TestResult_PgxRewritesPlaceholders(t *testing.T) {
	res := build(t, New().
		From(users).
		Where(usersID, condition.Equals, condition.Int(1)).
		AndWhere(usersStatus, condition.Equals, condition.String("active")))

	named, err := res.NamedArgs()
	require.NoError(t, err)
	rewritten, args, err := named.RewriteQuery(context.Background(), nil, res.SQL, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE users.id = $1 AND users.status = $2", rewritten)
	assert.Equal(t, []any{int64(1), "active"}, args)
}

func TestResult_HandsOffToDatabaseSQL(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	res := build(t, New().
		Select(usersID, usersName).
		From(users).
		Where(usersAge, condition.GreaterThanOrEqual, condition.Int(30)).
		Limit(2))

	mock.ExpectQuery("SELECT users.id, users.name FROM users WHERE users.age >= @param_0 LIMIT 2").
		WithArgs(sql.Named("param_0", int64(30))).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Ada").AddRow(2, "Brian"))

	rows, err := db.Query(res.SQL, mustArgs(t, res)...)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var id int
		var name string
		require.NoError(t, rows.Scan(&id, &name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"Ada", "Brian"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResult_ExecutesAgainstSQLite(t *testing.T) {
	db := testutil.OpenFixtureDB(t)

	res := build(t, New().
		Select(usersName).
		From(users).
		Where(usersStatus, condition.Equals, condition.String("active")).
		AndWhere(usersID, condition.In, condition.ListOf(1, 2, 3, 4)).
		OrderBy(usersName, Desc))

	rows := testutil.QueryRows(t, db, res.SQL, mustArgs(t, res)...)
	require.Len(t, rows, 3)
	assert.Equal(t, "Dana", rows[0]["name"])
	assert.Equal(t, "Brian", rows[1]["name"])
	assert.Equal(t, "Ada", rows[2]["name"])
}

func TestResult_SQLiteJoinGroupHaving(t *testing.T) {
	db := testutil.OpenFixtureDB(t)

	orderCount, err := ordersID.WithAggregate(ref.Count, false).As("order_count")
	require.NoError(t, err)

	res := build(t, New().
		Select(usersName, orderCount).
		From(users).
		InnerJoin(orders, condition.Where(condition.Cond(ordersUID, condition.Equals, condition.Col(usersID)))).
		GroupBy(usersName).
		Having(ordersID.WithAggregate(ref.Count, false), condition.GreaterThanOrEqual, condition.Int(2)).
		OrderBy(usersName, Asc))

	rows := testutil.QueryRows(t, db, res.SQL, mustArgs(t, res)...)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0]["name"])
	assert.Equal(t, int64(2), rows[0]["order_count"])
	assert.Equal(t, "Brian", rows[1]["name"])
	assert.Equal(t, int64(3), rows[1]["order_count"])
}

func TestResult_SQLiteCorrelatedNotExists(t *testing.T) {
	db := testutil.OpenFixtureDB(t)

	withoutOrders := New().
		Select(ordersID).
		From(orders).
		Where(ordersUID, condition.Equals, condition.Col(usersID))

	res := build(t, New().
		Select(usersName).
		From(users).
		WhereNotExists(withoutOrders).
		AndWhere(usersAge, condition.IsNull, nil))

	rows := testutil.QueryRows(t, db, res.SQL, mustArgs(t, res)...)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dana", rows[0]["name"])
}

func TestResult_SQLiteBetweenAndLike(t *testing.T) {
	db := testutil.OpenFixtureDB(t)

	res := build(t, New().
		Select(usersName).
		From(users).
		Where(usersAge, condition.Between, condition.ListOf(30, 60)).
		AndWhere(usersName, condition.NotLike, condition.String("C%")).
		OrderBy(usersName, Asc).
		Limit(1).
		Offset(1))

	rows := testutil.QueryRows(t, db, res.SQL, mustArgs(t, res)...)
	require.Len(t, rows, 1)
	assert.Equal(t, "Brian", rows[0]["name"])
}

func TestResult_SubqueryLiteralsAreNotExecutable(t *testing.T) {
	bigOrders := New().
		Select(ordersID).
		From(orders).
		Where(ordersUID, condition.Equals, condition.Col(usersID)).
		AndWhere(ordersTotal, condition.GreaterThan, condition.Int(1000))

	res := build(t, New().
		From(users).
		Where(usersAge, condition.GreaterThan, condition.Int(18)).
		WhereExists(bigOrders))

	assert.Equal(t, map[string]any{"param_0": int64(18)}, res.Params)

	err := res.Executable()
	require.Error(t, err)
	assert.True(t, contract.IsViolation(err))

	_, err = res.Args()
	assert.True(t, contract.IsViolation(err))
	_, err = res.NamedArgs()
	assert.True(t, contract.IsViolation(err))
}

func TestResult_NestedSubqueryLiteralsAreNotExecutable(t *testing.T) {
	inner := New().
		From(products).
		Where(ref.MustColumn("products.price"), condition.GreaterThan, condition.Float(50))
	middle := New().
		From(orders).
		Where(ordersUID, condition.Equals, condition.Col(usersID)).
		WhereExists(inner)

	res := build(t, New().From(users).WhereExists(middle))

	assert.Empty(t, res.Params)
	assert.Error(t, res.Executable())
}

func TestResult_CorrelatedSubqueryIsExecutable(t *testing.T) {
	withOrders := New().
		From(orders).
		Where(ordersUID, condition.Equals, condition.Col(usersID))

	res := build(t, New().
		From(users).
		Where(usersStatus, condition.Equals, condition.String("active")).
		WhereExists(withOrders))

	assert.NoError(t, res.Executable())
}

func TestResult_DetachedFlagClearsAfterReset(t *testing.T) {
	sub := New().From(orders).Where(ordersTotal, condition.GreaterThan, condition.Int(1))
	b := New().From(users).WhereExists(sub)

	res, err := b.BuildResult()
	require.NoError(t, err)
	assert.Error(t, res.Executable())

	res, err = b.Reset().From(users).BuildResult()
	require.NoError(t, err)
	assert.NoError(t, res.Executable())
}
