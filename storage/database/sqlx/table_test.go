package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/salary"
)

func TestNewTable_queries(t *testing.T) {
	tbl := NewSalaryRepository(nil)

	assert.Equal(t, []string{
		"id", "instructor_name", "base_salary", "bonus", "deductions", "net_salary", "status", "month", "paid_at", "created_at", "updated_at",
	}, tbl.columns)
	assert.Equal(t,
		"SELECT id, instructor_name, base_salary, bonus, deductions, net_salary, status, month, paid_at, created_at, updated_at FROM salaries",
		tbl.selectQuery)
	assert.Equal(t,
		"INSERT INTO salaries (id, instructor_name, base_salary, bonus, deductions, net_salary, status, month, paid_at, created_at, updated_at) "+
			"VALUES (:id, :instructor_name, :base_salary, :bonus, :deductions, :net_salary, :status, :month, :paid_at, :created_at, :updated_at)",
		tbl.insertQuery)
	assert.Equal(t,
		"UPDATE salaries SET instructor_name = :instructor_name, base_salary = :base_salary, bonus = :bonus, deductions = :deductions, "+
			"net_salary = :net_salary, status = :status, month = :month, paid_at = :paid_at, updated_at = :updated_at WHERE id = :id",
		tbl.updateQuery)
}

func TestTable_invalidIDs(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[salary.Salary](nil, "salaries", salary.Resource)

	_, err := tbl.Get(ctx, "not-a-uuid")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
	assert.EqualError(t, err, "salary not found")

	n, err := tbl.Delete(ctx, "1", "", "nope")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
