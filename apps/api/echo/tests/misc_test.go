package tests

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/akademi/apps/api/echo"
	"github.com/trezcool/akademi/core/donation"
	"github.com/trezcool/akademi/core/grading"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/report"
	"github.com/trezcool/akademi/core/revenue"
	"github.com/trezcool/akademi/core/salary"
)

func Test_home(t *testing.T) {
	a := setup(t)
	rec := a.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Akademi API!", rec.Body.String())
}

func Test_gradingApi(t *testing.T) {
	a := setup(t)
	date := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	create := func(t *testing.T, nr grading.NewRecord) grading.Record {
		t.Helper()
		rec := a.do(http.MethodPost, "/v1/grades", marshalObj(t, nr))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return decode[grading.Record](t, rec)
	}
	passed := create(t, grading.NewRecord{StudentName: "Jane Doe", StudentEmail: "jane@akademi.test", Course: "Go 101", Score: 92, Date: date})
	failed := create(t, grading.NewRecord{StudentName: "John Doe", Course: "Go 101", Score: 41, Date: date})
	assert.Equal(t, "A", passed.Grade)
	assert.Equal(t, "F", failed.Grade)

	t.Run("certificate", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/v1/grades/"+passed.ID+"/certificate")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

		rec = a.do(http.MethodGet, "/v1/grades/"+passed.ID+"/certificate?format=png&size=thumb&download=true")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="certificate-jane-doe-`)

		assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/grades/"+failed.ID+"/certificate").Code)
		assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/grades/"+passed.ID+"/certificate?format=gif").Code)
		assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/v1/grades/unknown/certificate").Code)
	})

	t.Run("send certificate", func(t *testing.T) {
		assert.Equal(t, http.StatusAccepted, a.do(http.MethodPost, "/v1/grades/"+passed.ID+"/certificate/send").Code)
		sent := a.Mailer.SentMessages()
		require.Len(t, sent, 1)
		assert.True(t, sent[0].HasAttachments())

		assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/v1/grades/"+failed.ID+"/certificate/send").Code, "no email")
	})

	t.Run("preferences", func(t *testing.T) {
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"dark_mode": false}`)}, a.do(http.MethodGet, "/v1/grades/preferences"))
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"dark_mode": true}`)}, a.do(http.MethodPut, "/v1/grades/preferences", []byte(`{"dark_mode": true}`)))
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"dark_mode": true}`)}, a.do(http.MethodGet, "/v1/grades/preferences"))
	})

	t.Run("import", func(t *testing.T) {
		rec := a.upload(t, "/v1/grades/import", "grades.csv",
			"student_name,student_email,course,score,grade,date\nAda Import,ada@akademi.test,Go 101,75,F,2024-06-02\n")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, echoapi.ImportResponse{Imported: 1}, decode[echoapi.ImportResponse](t, rec))

		rec = a.do(http.MethodGet, "/v1/grades?search=import")
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[listing.Result[grading.Record, grading.Summary]](t, rec)
		require.Len(t, page.Results, 1)
		assert.Equal(t, "C", page.Results[0].Grade, "the grade column is derived from the score")
		assert.NotEmpty(t, page.Results[0].CertificateID)
	})
}

func Test_revenueApi_chart(t *testing.T) {
	a := setup(t)
	for _, ne := range []revenue.NewEntry{
		{Month: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), Source: revenue.SourceCourses, Revenue: 800, CostTotal: 600},
		{Month: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), Source: revenue.SourceDonations, Revenue: 500},
	} {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/revenue", marshalObj(t, ne)).Code)
	}

	rec := a.do(http.MethodGet, "/v1/revenue/chart?kind=area")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))

	rec = a.do(http.MethodGet, "/v1/revenue/chart?kind=pie&source=courses")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "courses (100%)")

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/revenue/chart?kind=bar").Code)

	rec = a.do(http.MethodGet, "/v1/revenue/series")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []revenue.Point{
		{Month: "2024-01", Revenue: 800, Cost: 600, Profit: 200},
		{Month: "2024-02", Revenue: 500, Cost: 0, Profit: 500},
	}, decode[[]revenue.Point](t, rec))
}

func Test_salaryApi_process(t *testing.T) {
	a := setup(t)
	rec := a.do(http.MethodPost, "/v1/salaries", marshalObj(t, salary.NewSalary{InstructorName: "Ada", BaseSalary: 1000, Bonus: 100, Deductions: 50, Month: "2024-03"}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	s := decode[salary.Salary](t, rec)
	assert.Equal(t, 1050.0, s.NetSalary)

	rec = a.do(http.MethodPut, "/v1/salaries/"+s.ID, []byte(`{"net_salary": 99999, "bonus": 0}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 950.0, decode[salary.Salary](t, rec).NetSalary, "net salary is always computed")

	rec = a.do(http.MethodPost, "/v1/salaries/process", marshalObj(t, echoapi.IDs{IDs: []string{s.ID}}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[salary.PayrollResult](t, rec)
	require.Len(t, res.Paid, 1)
	assert.Equal(t, salary.StatusPaid, res.Paid[0].Status)
	assert.True(t, res.Paid[0].PaidAt.Valid)

	rec = a.do(http.MethodPost, "/v1/salaries/process", marshalObj(t, echoapi.IDs{IDs: []string{s.ID}}))
	assert.Equal(t, []string{s.ID}, decode[salary.PayrollResult](t, rec).Skipped)
}

func Test_reportApi(t *testing.T) {
	a := setup(t)

	rec := a.do(http.MethodGet, "/v1/reports/types")
	require.Equal(t, http.StatusOK, rec.Code)
	defs := decode[[]report.Definition](t, rec)
	require.NotEmpty(t, defs)
	assert.Equal(t, report.Donations, defs[0].Type)

	tests := []httpTest{
		{
			name:     "no metric",
			body:     []byte(`{"type": "donations", "metrics": []}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"metrics": "select at least one metric"}`),
		},
		{
			name:     "unknown type",
			body:     []byte(`{"type": "weather", "metrics": ["amount"]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad date",
			body:     []byte(`{"type": "donations", "metrics": ["amount"], "from": "March"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"from": "must be a date formatted as YYYY-MM-DD"}`),
		},
		{
			name:     "nothing to report",
			body:     []byte(`{"type": "donations", "metrics": ["amount"]}`),
			wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, a.do(http.MethodPost, "/v1/reports", tt.body))
		})
	}

	t.Run("generate", func(t *testing.T) {
		_, err := a.Services.Donations.Create(context.Background(), donation.NewDonation{Donor: "Ann", Amount: 100, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Type: donation.TypeOneTime, Status: donation.StatusCompleted})
		require.NoError(t, err)

		for _, format := range []string{"csv", "xlsx", "pdf"} {
			rec := a.do(http.MethodPost, "/v1/reports", []byte(`{"type": "donations", "metrics": ["date", "amount"], "from": "2024-03-01", "to": "2024-03-01", "format": "`+format+`"}`))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Regexp(t, `^attachment; filename="donations-report-\d{8}\.`+format+`"$`, rec.Header().Get("Content-Disposition"))
			assert.NotEmpty(t, rec.Body.Bytes())
		}
	})
}

func Test_metrics(t *testing.T) {
	a := setup(t)
	a.do(http.MethodGet, "/v1/courses")
	a.do(http.MethodGet, "/v1/courses/unknown")
	a.do(http.MethodPost, "/v1/courses", []byte(`{"title": "Go 101", "instructor": "Ada"}`))

	count, err := testutil.GatherAndCount(a.registry, "akademi_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "one series per method, route and code")

	assert.NoError(t, testutil.GatherAndCompare(a.registry, strings.NewReader(`
# HELP akademi_mutations_total Records created, updated or deleted by resource and action.
# TYPE akademi_mutations_total counter
akademi_mutations_total{action="create",resource="courses"} 1
`), "akademi_mutations_total"))
}
