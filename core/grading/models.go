package grading

import (
	"strings"
	"time"

	"github.com/trezcool/akademi/core"
)

// PassingScore is the lowest score that earns a certificate.
const PassingScore = 60

// Band is a grade and its remark for the scores from Min upwards.
type Band struct {
	Min    float64 `json:"min"`
	Grade  string  `json:"grade"`
	Remark string  `json:"remark"`
}

// Bands are ordered from the highest minimum down.
var Bands = []Band{
	{Min: 90, Grade: "A", Remark: "Excellent"},
	{Min: 80, Grade: "B", Remark: "Very Good"},
	{Min: 70, Grade: "C", Remark: "Good"},
	{Min: 60, Grade: "D", Remark: "Pass"},
	{Min: 0, Grade: "F", Remark: "Fail"},
}

// BandFor returns the band a score falls in.
func BandFor(score float64) Band {
	for _, b := range Bands {
		if score >= b.Min {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

func Passed(score float64) bool {
	return score >= PassingScore
}

// Record is the final grade of a student in a course.
type Record struct {
	ID            string    `json:"id"`
	StudentName   string    `json:"student_name"`
	StudentEmail  string    `json:"student_email"`
	Course        string    `json:"course"`
	Instructor    string    `json:"instructor"`
	Score         float64   `json:"score"` // 0 - 100
	Grade         string    `json:"grade"`
	Remark        string    `json:"remark"`
	Date          time.Time `json:"date"`
	CertificateID string    `json:"certificate_id"` // empty unless passed
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// grade sets the grade and remark from the score, and gives passing records a certificate id.
func (r *Record) grade() {
	b := BandFor(r.Score)
	r.Grade = b.Grade
	r.Remark = b.Remark
	switch {
	case !Passed(r.Score):
		r.CertificateID = ""
	case r.CertificateID == "":
		r.CertificateID = newCertificateID(r.Date)
	}
}

func newCertificateID(date time.Time) string {
	return "CERT-" + date.Format("2006") + "-" + strings.ToUpper(core.NewID()[:8])
}

type Summary struct {
	Total        int            `json:"total"`
	AverageScore float64        `json:"average_score"`
	Passed       int            `json:"passed"`
	Failed       int            `json:"failed"`
	PassRate     float64        `json:"pass_rate"`
	ByGrade      map[string]int `json:"by_grade"`
}

// Preferences are the grading screen settings kept next to the records.
type Preferences struct {
	DarkMode bool `json:"dark_mode"`
}

type NewRecord struct {
	StudentName  string    `json:"student_name" validate:"required"`
	StudentEmail string    `json:"student_email" validate:"omitempty,email"`
	Course       string    `json:"course" validate:"required"`
	Instructor   string    `json:"instructor"`
	Score        float64   `json:"score" validate:"min=0,max=100"`
	Date         time.Time `json:"date"`
}

func (nr *NewRecord) Validate() error {
	nr.StudentName = core.CleanString(nr.StudentName)
	nr.StudentEmail = core.CleanString(nr.StudentEmail, true /* lower */)
	nr.Course = core.CleanString(nr.Course)
	nr.Instructor = core.CleanString(nr.Instructor)
	return core.Validate.Struct(nr)
}

type UpdateRecord struct {
	StudentName  string    `json:"student_name"`
	StudentEmail *string   `json:"student_email" validate:"omitempty,email"`
	Course       string    `json:"course"`
	Instructor   string    `json:"instructor"`
	Score        *float64  `json:"score" validate:"omitempty,min=0,max=100"`
	Date         time.Time `json:"date"`
}

func (ur *UpdateRecord) Validate() error {
	ur.StudentName = core.CleanString(ur.StudentName)
	if ur.StudentEmail != nil {
		email := core.CleanString(*ur.StudentEmail, true /* lower */)
		ur.StudentEmail = &email
	}
	ur.Course = core.CleanString(ur.Course)
	ur.Instructor = core.CleanString(ur.Instructor)
	return core.Validate.Struct(ur)
}

func (ur UpdateRecord) apply(r *Record) {
	if ur.StudentName != "" {
		r.StudentName = ur.StudentName
	}
	if ur.StudentEmail != nil {
		r.StudentEmail = *ur.StudentEmail
	}
	if ur.Course != "" {
		r.Course = ur.Course
	}
	if ur.Instructor != "" {
		r.Instructor = ur.Instructor
	}
	if ur.Score != nil {
		r.Score = *ur.Score
	}
	if !ur.Date.IsZero() {
		r.Date = ur.Date.UTC()
	}
	r.grade()
}

// Certificate is what a certificate shows.
type Certificate struct {
	ID          string
	Academy     string
	StudentName string
	Course      string
	Instructor  string
	Grade       string
	Remark      string
	Score       float64
	Date        time.Time
}

// CertificateRenderer draws certificates.
type CertificateRenderer interface {
	// PNG renders the certificate as an image, or as a thumbnail of it.
	PNG(cert Certificate, thumbnail bool) ([]byte, error)
	// PDF renders the certificate image on a single landscape page.
	PDF(cert Certificate) ([]byte, error)
}

// certificateEmail is rendered by the certificate email templates.
type certificateEmail struct {
	StudentName   string
	Course        string
	Grade         string
	Score         float64
	CertificateID string
}
