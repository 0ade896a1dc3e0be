package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/akademi/apps/api/echo"
	"github.com/trezcool/akademi/core/course"
	"github.com/trezcool/akademi/core/listing"
)

func createCourse(t *testing.T, a app, title string, students int, status string) course.Course {
	t.Helper()
	rec := a.do(http.MethodPost, "/v1/courses", marshalObj(t, course.NewCourse{Title: title, Instructor: "Ada", Students: students, Status: status}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[course.Course](t, rec)
}

func titles(courses []course.Course) []string {
	res := make([]string, 0, len(courses))
	for _, c := range courses {
		res = append(res, c.Title)
	}
	return res
}

func Test_courseApi_crud(t *testing.T) {
	a := setup(t)
	c := createCourse(t, a, "Go 101", 10, "")
	assert.Equal(t, course.StatusDraft, c.Status)
	path := "/v1/courses/" + c.ID

	tests := []httpTest{
		{
			name:     "create: missing title",
			method:   http.MethodPost,
			path:     "/v1/courses",
			body:     []byte(`{"instructor": "Ada"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"title": "this field is required"}`),
		},
		{
			name:     "create: invalid rating",
			method:   http.MethodPost,
			path:     "/v1/courses",
			body:     []byte(`{"title": "Rust", "instructor": "Ada", "rating": 6}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"rating": "rating must be 5 or less"}`),
		},
		{
			name:     "create: malformed body",
			method:   http.MethodPost,
			path:     "/v1/courses",
			body:     []byte(`{"title": `),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "retrieve: unknown",
			method:   http.MethodGet,
			path:     "/v1/courses/unknown",
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "course not found"}),
		},
		{
			name:     "update: invalid status",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"status": "published"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "update: unknown",
			method:   http.MethodPut,
			path:     "/v1/courses/unknown",
			body:     []byte(`{"title": "Go 102"}`),
			wantCode: http.StatusNotFound,
		},
		{name: "delete: unknown", method: http.MethodDelete, path: "/v1/courses/unknown", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("update is partial", func(t *testing.T) {
		rec := a.do(http.MethodPut, path, []byte(`{"status": "active", "students": 0}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[course.Course](t, rec)
		assert.Equal(t, "Go 101", got.Title)
		assert.Equal(t, course.StatusActive, got.Status)
		assert.Zero(t, got.Students)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path).Code)
		assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path).Code)
	})
}

func Test_courseApi_query(t *testing.T) {
	a := setup(t)
	createCourse(t, a, "Algebra", 30, course.StatusActive)
	createCourse(t, a, "Biology", 10, course.StatusDraft)
	createCourse(t, a, "Chemistry", 20, course.StatusActive)
	createCourse(t, a, "Drawing", 40, course.StatusArchived)

	query := func(t *testing.T, path string) listing.Result[course.Course, course.Summary] {
		t.Helper()
		rec := a.do(http.MethodGet, path)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[listing.Result[course.Course, course.Summary]](t, rec)
	}

	tests := []struct {
		name       string
		path       string
		wantTitles []string
		wantCount  int
		wantPages  int
	}{
		{name: "search", path: "/v1/courses?search=BIO", wantTitles: []string{"Biology"}, wantCount: 1, wantPages: 1},
		{name: "filter", path: "/v1/courses?status=active&ordering=title", wantTitles: []string{"Algebra", "Chemistry"}, wantCount: 2, wantPages: 1},
		{name: "filter any of", path: "/v1/courses?status=draft,archived&ordering=title", wantTitles: []string{"Biology", "Drawing"}, wantCount: 2, wantPages: 1},
		{name: "filter all", path: "/v1/courses?status=all&ordering=-students", wantTitles: []string{"Drawing", "Algebra", "Chemistry", "Biology"}, wantCount: 4, wantPages: 1},
		{name: "sort toggles the current ordering", path: "/v1/courses?ordering=title&sort=title", wantTitles: []string{"Drawing", "Chemistry", "Biology", "Algebra"}, wantCount: 4, wantPages: 1},
		{name: "sort another field", path: "/v1/courses?ordering=-title&sort=students", wantTitles: []string{"Biology", "Chemistry", "Algebra", "Drawing"}, wantCount: 4, wantPages: 1},
		{name: "page", path: "/v1/courses?ordering=title&page=2&page_size=3", wantTitles: []string{"Drawing"}, wantCount: 4, wantPages: 2},
		{name: "page out of range", path: "/v1/courses?ordering=title&page=9&page_size=3", wantTitles: []string{"Algebra", "Biology", "Chemistry"}, wantCount: 4, wantPages: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := query(t, tt.path)
			assert.Equal(t, tt.wantTitles, titles(res.Results))
			assert.Equal(t, tt.wantCount, res.Count)
			assert.Equal(t, tt.wantPages, res.TotalPages)
		})
	}

	t.Run("summary ignores the page", func(t *testing.T) {
		first := query(t, "/v1/courses?page=1&page_size=1")
		second := query(t, "/v1/courses?page=2&page_size=1")
		assert.Equal(t, first.Summary, second.Summary)
		assert.Equal(t, 100, first.Summary.TotalStudents)
	})

	t.Run("page size is capped", func(t *testing.T) {
		a.Conf.Listing.MaxPageSize = 2
		defer func() { a.Conf.Listing.MaxPageSize = 100 }()
		res := query(t, "/v1/courses?page_size=50")
		assert.Equal(t, 2, res.PageSize)
		assert.Len(t, res.Results, 2)
	})

	for _, path := range []string{
		"/v1/courses?color=red",
		"/v1/courses?ordering=color",
		"/v1/courses?from=yesterday",
		"/v1/courses?from=2024-03-02&to=2024-03-01",
		"/v1/courses?page=two",
	} {
		t.Run("bad request "+path, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, path).Code)
		})
	}
}

func Test_courseApi_bulk(t *testing.T) {
	a := setup(t)
	c1 := createCourse(t, a, "Algebra", 30, course.StatusDraft)
	c2 := createCourse(t, a, "Biology", 10, course.StatusDraft)
	c3 := createCourse(t, a, "Chemistry", 20, course.StatusDraft)

	rec := a.do(http.MethodPost, "/v1/courses/bulk/status", marshalObj(t, course.StatusChange{IDs: []string{c1.ID, c2.ID, "unknown"}, Status: course.StatusActive}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[echoapi.BulkResponse[course.Course]](t, rec)
	assert.Equal(t, 2, res.Count, "exactly the selected courses")

	rec = a.do(http.MethodGet, "/v1/courses?status=active")
	assert.Equal(t, 2, decode[listing.Result[course.Course, course.Summary]](t, rec).Count)

	rec = a.do(http.MethodPost, "/v1/courses/bulk/status", marshalObj(t, course.StatusChange{IDs: []string{c3.ID}, Status: "published"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/v1/courses/bulk/status", marshalObj(t, course.StatusChange{Status: course.StatusActive}))
	assert.Equal(t, http.StatusNoContent, rec.Code, "nothing selected")

	rec = a.do(http.MethodDelete, "/v1/courses?id="+c1.ID+"&id="+c3.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.do(http.MethodGet, "/v1/courses")
	left := decode[listing.Result[course.Course, course.Summary]](t, rec)
	assert.Equal(t, []string{"Biology"}, titles(left.Results))

	rec = a.do(http.MethodDelete, "/v1/courses", marshalObj(t, echoapi.IDs{IDs: []string{c2.ID}}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.do(http.MethodGet, "/v1/courses")
	assert.Zero(t, decode[listing.Result[course.Course, course.Summary]](t, rec).Count)
}

func Test_courseApi_import(t *testing.T) {
	a := setup(t)

	upload := func(t *testing.T, content string) *httptest.ResponseRecorder {
		t.Helper()
		return a.upload(t, "/v1/courses/import", "courses.csv", content)
	}

	rec := upload(t, "title,instructor,students,status\nGo 101,Ada,12,active\nRust 101,Grace,8,draft\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, echoapi.ImportResponse{Imported: 2}, decode[echoapi.ImportResponse](t, rec))

	rec = upload(t, "title,instructor,students\nZig 101,Ada,many\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/v1/courses/import")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no file")

	rec = a.do(http.MethodGet, "/v1/courses?ordering=title")
	assert.Equal(t, []string{"Go 101", "Rust 101"}, titles(decode[listing.Result[course.Course, course.Summary]](t, rec).Results))
}
