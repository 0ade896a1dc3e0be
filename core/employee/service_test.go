package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

func newService() *Service {
	return NewService(inmemdb.NewTable(Resource, func(e Employee) string { return e.ID },
		Employee{ID: "1", Name: "Ama", Email: "ama@akademi.test", Role: "Accountant", Department: "Finance", Status: StatusActive, Salary: 3000},
		Employee{ID: "2", Name: "Kofi", Email: "kofi@akademi.test", Role: "Registrar", Department: "Admissions", Status: StatusActive, Salary: 2800},
		Employee{ID: "3", Name: "Esi", Email: "esi@akademi.test", Role: "Accountant", Department: "Finance", Status: StatusOnLeave, Salary: 3200},
		Employee{ID: "4", Name: "Yaw", Email: "yaw@akademi.test", Role: "Support", Department: "IT", Status: StatusInactive, Salary: 2500},
	))
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tests := []struct {
		name    string
		c       listing.Criteria
		wantIDs []string
		wantSum Summary
	}{
		{
			name:    "all",
			wantIDs: []string{"1", "3", "2", "4"},
			wantSum: Summary{Total: 4, Active: 2, OnLeave: 1, Inactive: 1, TotalPayroll: 11500, AverageSalary: 2875, Departments: 3},
		},
		{
			name:    "role",
			c:       listing.Criteria{Filters: map[string][]string{"role": {"Accountant"}}, Orderings: core.ParseOrdering("-salary")},
			wantIDs: []string{"3", "1"},
			wantSum: Summary{Total: 2, Active: 1, OnLeave: 1, TotalPayroll: 6200, AverageSalary: 3100, Departments: 1},
		},
		{
			name:    "department and status",
			c:       listing.Criteria{Filters: map[string][]string{"department": {"Finance", "IT"}, "status": {"active", "inactive"}}},
			wantIDs: []string{"1", "4"},
			wantSum: Summary{Total: 2, Active: 1, Inactive: 1, TotalPayroll: 5500, AverageSalary: 2750, Departments: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Query(ctx, tt.c)
			require.NoError(t, err)
			ids := make([]string, 0, len(res.Results))
			for _, e := range res.Results {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantSum, res.Summary)
		})
	}
}

func TestService_Mutations(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Create(ctx, NewEmployee{Name: "Abena", Role: "Librarian"})
	assert.Error(t, err, "email is required")

	e, err := svc.Create(ctx, NewEmployee{Name: "Abena", Email: "abena@akademi.test", Role: "Librarian"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, e.Status)

	phone := " +233 20 000 0000 "
	e, err = svc.Update(ctx, e.ID, UpdateEmployee{Phone: &phone, Department: "Library"})
	require.NoError(t, err)
	assert.Equal(t, "+233 20 000 0000", e.Phone)
	assert.Equal(t, "Library", e.Department)

	updated, err := svc.SetStatus(ctx, StatusChange{IDs: []string{"2", e.ID}, Status: StatusOnLeave})
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	res, err := svc.Query(ctx, listing.Criteria{Filters: map[string][]string{"status": {StatusOnLeave}}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)

	n, err := svc.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = svc.Get(ctx, e.ID)
	assert.True(t, core.IsNotFound(err))
}
