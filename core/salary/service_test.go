package salary

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/akademi/core/listing"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

func newService(delay time.Duration, salaries ...Salary) *Service {
	return NewService(inmemdb.NewTable(Resource, func(s Salary) string { return s.ID }, salaries...), delay)
}

func assertNet(t *testing.T, svc *Service) {
	t.Helper()
	all, err := svc.All(context.Background())
	require.NoError(t, err)
	for _, s := range all {
		assert.Equal(t, s.BaseSalary+s.Bonus-s.Deductions, s.NetSalary, s.InstructorName)
	}
}

func fptr(f float64) *float64 { return &f }

func TestService_NetSalary(t *testing.T) {
	ctx := context.Background()
	svc := newService(0)

	s, err := svc.Create(ctx, NewSalary{InstructorName: "Ada", BaseSalary: 5000, Bonus: 500, Deductions: 200, Month: "2024-03"})
	require.NoError(t, err)
	assert.Equal(t, 5300.0, s.NetSalary)
	assert.Equal(t, StatusPending, s.Status)
	assert.False(t, s.PaidAt.Valid)

	s, err = svc.Update(ctx, s.ID, UpdateSalary{Bonus: fptr(0), Deductions: fptr(1000)})
	require.NoError(t, err)
	assert.Equal(t, 4000.0, s.NetSalary)

	s, err = svc.Update(ctx, s.ID, UpdateSalary{Status: StatusPaid})
	require.NoError(t, err)
	assert.True(t, s.PaidAt.Valid)

	n, err := svc.ImportCSV(ctx, strings.NewReader(
		"instructor_name,base_salary,bonus,deductions,net_salary,month\nAlan,3000,100,50,999999,2024-02\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assertNet(t, svc)
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService(0)

	tests := []struct {
		name string
		ns   NewSalary
	}{
		{name: "missing name", ns: NewSalary{Month: "2024-03"}},
		{name: "bad month", ns: NewSalary{InstructorName: "Ada", Month: "2024-13"}},
		{name: "bad status", ns: NewSalary{InstructorName: "Ada", Month: "2024-03", Status: "late"}},
		{name: "negative bonus", ns: NewSalary{InstructorName: "Ada", Month: "2024-03", Bonus: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.ns)
			assert.Error(t, err)
		})
	}
}

func TestService_ProcessPayroll(t *testing.T) {
	ctx := context.Background()
	paidAt := time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)
	delay := 20 * time.Millisecond
	svc := newService(delay,
		Salary{ID: "1", InstructorName: "Ada", BaseSalary: 1000, NetSalary: 1000, Status: StatusPending, Month: "2024-03"},
		Salary{ID: "2", InstructorName: "Alan", BaseSalary: 2000, NetSalary: 2000, Status: StatusPaid, Month: "2024-02", PaidAt: null.TimeFrom(paidAt)},
		Salary{ID: "3", InstructorName: "Grace", BaseSalary: 1500, Bonus: 100, NetSalary: 1600, Status: StatusPending, Month: "2024-03"},
	)

	start := time.Now()
	res, err := svc.ProcessPayroll(ctx, []string{"1", "2", "unknown"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), delay)

	require.Len(t, res.Paid, 1)
	assert.Equal(t, "1", res.Paid[0].ID)
	assert.Equal(t, StatusPaid, res.Paid[0].Status)
	assert.True(t, res.Paid[0].PaidAt.Valid)
	assert.Equal(t, []string{"2"}, res.Skipped)

	alan, err := svc.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, paidAt, alan.PaidAt.Time, "paid salaries are left untouched")

	grace, err := svc.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, grace.Status)

	summary, err := svc.Query(ctx, listing.Criteria{Filters: map[string][]string{"month": {"2024-03"}}})
	require.NoError(t, err)
	assert.Equal(t, Summary{TotalNet: 2600, TotalBase: 2500, TotalBonus: 100, PaidCount: 1, PendingCount: 1, AverageNet: 1300}, summary.Summary)

	assertNet(t, svc)

	start = time.Now()
	res, err = svc.ProcessPayroll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Paid)
	assert.Less(t, time.Since(start), delay, "nothing selected, nothing to wait for")
}
