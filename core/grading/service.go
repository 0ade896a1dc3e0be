// Package grading grades students, issues certificates to those who pass and
// keeps the grading screen preferences.
package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const (
	Resource = "grade"

	// KV keys
	RecordsKey  = "grading:records"
	DarkModeKey = "grading:dark_mode"

	FormatPDF = "pdf"
	FormatPNG = "png"
	SizeFull  = "full"
	SizeThumb = "thumb"
)

// ErrNoCertificate is returned when a certificate is asked for a failing grade.
var ErrNoCertificate = errors.New("only passing grades have a certificate")

type Repository = core.Repository[Record]

var Schema = listing.Schema[Record]{
	Resource: "grades",
	Search: []func(Record) string{
		func(r Record) string { return r.StudentName },
		func(r Record) string { return r.Course },
		func(r Record) string { return r.Instructor },
	},
	Filters: map[string]func(Record) string{
		"grade":  func(r Record) string { return r.Grade },
		"course": func(r Record) string { return r.Course },
	},
	Date: func(r Record) time.Time { return r.Date },
	Sorters: map[string]listing.Comparator[Record]{
		"student_name": listing.Strings(func(r Record) string { return r.StudentName }),
		"course":       listing.Strings(func(r Record) string { return r.Course }),
		"instructor":   listing.Strings(func(r Record) string { return r.Instructor }),
		"score":        listing.Numbers(func(r Record) float64 { return r.Score }),
		"grade":        listing.Strings(func(r Record) string { return r.Grade }),
		"date":         listing.Times(func(r Record) time.Time { return r.Date }),
	},
	DefaultOrdering: core.ParseOrdering("-date"),
	PageSize:        10,
}

func Summarize(recs []Record) Summary {
	byGrade := make(map[string]int, len(Bands))
	for _, b := range Bands {
		byGrade[b.Grade] = 0
	}
	var passed int
	for _, r := range recs {
		byGrade[r.Grade]++
		if Passed(r.Score) {
			passed++
		}
	}
	return Summary{
		Total:        len(recs),
		AverageScore: listing.Round(listing.Average(recs, func(r Record) float64 { return r.Score })),
		Passed:       passed,
		Failed:       len(recs) - passed,
		PassRate:     listing.Round(listing.Percent(float64(passed), float64(len(recs)))),
		ByGrade:      byGrade,
	}
}

type Service struct {
	*records.Service[Record, Summary]
	kv       core.KVStore
	renderer CertificateRenderer
	mailer   core.EmailService
	academy  string

	mu    sync.RWMutex
	prefs Preferences
}

// NewService loads the preferences from kv. repo is expected to persist into kv as well.
func NewService(ctx context.Context, repo Repository, kv core.KVStore, renderer CertificateRenderer, mailer core.EmailService, academy string) (*Service, error) {
	svc := &Service{
		Service: &records.Service[Record, Summary]{
			Repo:      repo,
			Schema:    Schema,
			Summarize: Summarize,
			CSV:       csvCodec,
		},
		kv:       kv,
		renderer: renderer,
		mailer:   mailer,
		academy:  academy,
	}
	raw, err := kv.Get(ctx, DarkModeKey)
	if err != nil {
		return nil, errors.Wrap(err, "loading grading preferences")
	}
	if raw != nil {
		if err = json.Unmarshal(raw, &svc.prefs.DarkMode); err != nil {
			return nil, errors.Wrap(err, "decoding "+DarkModeKey)
		}
	}
	return svc, nil
}

func (nr NewRecord) build() Record {
	now := core.Now()
	r := Record{
		ID:           core.NewID(),
		StudentName:  nr.StudentName,
		StudentEmail: nr.StudentEmail,
		Course:       nr.Course,
		Instructor:   nr.Instructor,
		Score:        nr.Score,
		Date:         nr.Date.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if nr.Date.IsZero() {
		r.Date = now
	}
	r.grade()
	return r
}

func (svc *Service) Create(ctx context.Context, nr NewRecord) (Record, error) {
	if err := nr.Validate(); err != nil {
		return Record{}, err
	}
	return svc.Repo.Create(ctx, nr.build())
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateRecord) (Record, error) {
	if err := ur.Validate(); err != nil {
		return Record{}, err
	}
	r, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	ur.apply(&r)
	r.UpdatedAt = core.Now()
	return svc.Repo.Update(ctx, r)
}

func (svc *Service) Preferences() Preferences {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.prefs
}

func (svc *Service) SetPreferences(ctx context.Context, prefs Preferences) (Preferences, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	raw, err := json.Marshal(prefs.DarkMode)
	if err != nil {
		return Preferences{}, errors.Wrap(err, "encoding "+DarkModeKey)
	}
	if err = svc.kv.Set(ctx, DarkModeKey, raw); err != nil {
		return Preferences{}, errors.Wrap(err, "saving grading preferences")
	}
	svc.prefs = prefs
	return prefs, nil
}

// Certificate returns the certificate of a passing grade.
func (svc *Service) Certificate(ctx context.Context, id string) (Certificate, error) {
	r, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Certificate{}, err
	}
	if !Passed(r.Score) || r.CertificateID == "" {
		return Certificate{}, core.NewValidationError(ErrNoCertificate, core.FieldError{Field: "score", Error: ErrNoCertificate.Error()})
	}
	return Certificate{
		ID:          r.CertificateID,
		Academy:     svc.academy,
		StudentName: r.StudentName,
		Course:      r.Course,
		Instructor:  r.Instructor,
		Grade:       r.Grade,
		Remark:      r.Remark,
		Score:       r.Score,
		Date:        r.Date,
	}, nil
}

// CertificateFile renders the certificate of a passing grade as a PDF, or a PNG (full size or thumbnail).
func (svc *Service) CertificateFile(ctx context.Context, id, format, size string) (core.File, error) {
	format = core.CleanString(format, true /* lower */)
	size = core.CleanString(size, true /* lower */)
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatPNG {
		return core.File{}, core.NewValidationError(nil, core.FieldError{Field: "format", Error: "format must be one of [pdf png]"})
	}
	if size != "" && size != SizeFull && size != SizeThumb {
		return core.File{}, core.NewValidationError(nil, core.FieldError{Field: "size", Error: "size must be one of [full thumb]"})
	}

	cert, err := svc.Certificate(ctx, id)
	if err != nil {
		return core.File{}, err
	}

	name := certificateFilename(cert)
	if format == FormatPNG {
		img, err := svc.renderer.PNG(cert, size == SizeThumb)
		if err != nil {
			return core.File{}, errors.Wrap(err, "rendering certificate image")
		}
		return core.File{Name: name + ".png", ContentType: core.ContentTypePNG, Content: img}, nil
	}
	pdf, err := svc.renderer.PDF(cert)
	if err != nil {
		return core.File{}, errors.Wrap(err, "rendering certificate pdf")
	}
	return core.File{Name: name + ".pdf", ContentType: core.ContentTypePDF, Content: pdf}, nil
}

// SendCertificate emails the certificate PDF to the student.
func (svc *Service) SendCertificate(ctx context.Context, id string) error {
	r, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if r.StudentEmail == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "student_email", Error: "the student has no email"})
	}
	file, err := svc.CertificateFile(ctx, id, FormatPDF, SizeFull)
	if err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: r.StudentName, Address: r.StudentEmail}},
		Subject:      "Your certificate for " + r.Course,
		TemplateName: "certificate",
		TemplateData: certificateEmail{
			StudentName:   r.StudentName,
			Course:        r.Course,
			Grade:         r.Grade,
			Score:         r.Score,
			CertificateID: r.CertificateID,
		},
	}
	if err = msg.Attach(bytes.NewReader(file.Content), file.Name, file.ContentType); err != nil {
		return err
	}
	svc.mailer.SendMessages(msg)
	return nil
}

func certificateFilename(cert Certificate) string {
	name := strings.ToLower(strings.Join(strings.Fields(cert.StudentName), "-"))
	return "certificate-" + name + "-" + strings.ToLower(cert.ID)
}

var csvCodec = records.CSVCodec[Record]{
	Header: []string{"id", "student_name", "student_email", "course", "instructor", "score", "grade", "remark", "date", "certificate_id"},
	Encode: func(r Record) []string {
		return []string{
			r.ID,
			r.StudentName,
			r.StudentEmail,
			r.Course,
			r.Instructor,
			records.FormatFloat(r.Score),
			r.Grade,
			r.Remark,
			r.Date.Format(records.DateLayout),
			r.CertificateID,
		}
	},
	// grade, remark and certificate_id are derived from the score.
	Decode: func(r records.Row) (Record, error) {
		var err error
		nr := NewRecord{
			StudentName:  r.String("student_name", ""),
			StudentEmail: r.String("student_email", ""),
			Course:       r.String("course", ""),
			Instructor:   r.String("instructor", ""),
		}
		if nr.Score, err = r.Float("score", 0); err != nil {
			return Record{}, err
		}
		if nr.Date, err = r.Time("date", time.Time{}); err != nil {
			return Record{}, err
		}
		if err = nr.Validate(); err != nil {
			return Record{}, err
		}
		return nr.build(), nil
	},
}
