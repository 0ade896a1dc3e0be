// Package instructor manages the teaching staff.
package instructor

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const (
	Resource = "instructor"

	defaultDepartment = "General"
)

type Repository = core.Repository[Instructor]

var Schema = listing.Schema[Instructor]{
	Resource: "instructors",
	Search: []func(Instructor) string{
		func(in Instructor) string { return in.Name },
		func(in Instructor) string { return in.Email },
		func(in Instructor) string { return in.Department },
	},
	Filters: map[string]func(Instructor) string{
		"status":     func(in Instructor) string { return in.Status },
		"department": func(in Instructor) string { return in.Department },
	},
	Date: func(in Instructor) time.Time { return in.JoinDate },
	Sorters: map[string]listing.Comparator[Instructor]{
		"name":       listing.Strings(func(in Instructor) string { return in.Name }),
		"email":      listing.Strings(func(in Instructor) string { return in.Email }),
		"department": listing.Strings(func(in Instructor) string { return in.Department }),
		"status":     listing.Strings(func(in Instructor) string { return in.Status }),
		"join_date":  listing.Times(func(in Instructor) time.Time { return in.JoinDate }),
		"salary":     listing.Numbers(func(in Instructor) float64 { return in.Salary }),
		"rating":     listing.Numbers(func(in Instructor) float64 { return in.Rating }),
		"students":   listing.Numbers(func(in Instructor) int { return in.Students }),
		"courses":    listing.Numbers(func(in Instructor) int { return in.Courses }),
	},
	DefaultOrdering: core.ParseOrdering("name"),
	PageSize:        6,
}

func Summarize(instructors []Instructor) Summary {
	hasStatus := func(status string) func(Instructor) bool {
		return func(in Instructor) bool { return in.Status == status }
	}
	return Summary{
		Total:         len(instructors),
		Active:        listing.Count(instructors, hasStatus(StatusActive)),
		OnLeave:       listing.Count(instructors, hasStatus(StatusOnLeave)),
		Inactive:      listing.Count(instructors, hasStatus(StatusInactive)),
		TotalStudents: int(listing.Sum(instructors, func(in Instructor) float64 { return float64(in.Students) })),
		AverageRating: listing.Round(listing.Average(instructors, func(in Instructor) float64 { return in.Rating })),
		TotalSalary:   listing.Sum(instructors, func(in Instructor) float64 { return in.Salary }),
	}
}

type Service struct {
	*records.Service[Instructor, Summary]
}

func NewService(repo Repository) *Service {
	return &Service{&records.Service[Instructor, Summary]{
		Repo:      repo,
		Schema:    Schema,
		Summarize: Summarize,
		CSV:       csvCodec,
	}}
}

func (ni NewInstructor) build() Instructor {
	now := core.Now()
	joined := ni.JoinDate.UTC()
	if ni.JoinDate.IsZero() {
		joined = now
	}
	return Instructor{
		ID:         core.NewID(),
		Name:       ni.Name,
		Email:      ni.Email,
		Department: ni.Department,
		Status:     ni.Status,
		JoinDate:   joined,
		Salary:     ni.Salary,
		Rating:     ni.Rating,
		Students:   ni.Students,
		Courses:    ni.Courses,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (svc *Service) Create(ctx context.Context, ni NewInstructor) (Instructor, error) {
	if err := ni.Validate(); err != nil {
		return Instructor{}, err
	}
	return svc.Repo.Create(ctx, ni.build())
}

func (svc *Service) Update(ctx context.Context, id string, ui UpdateInstructor) (Instructor, error) {
	if err := ui.Validate(); err != nil {
		return Instructor{}, err
	}
	in, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Instructor{}, err
	}
	ui.apply(&in)
	in.UpdatedAt = core.Now()
	return svc.Repo.Update(ctx, in)
}

func (svc *Service) SetStatus(ctx context.Context, sc StatusChange) ([]Instructor, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	now := core.Now()
	updated, err := svc.UpdateMany(ctx, sc.IDs, func(in *Instructor) {
		in.Status = sc.Status
		in.UpdatedAt = now
	})
	return updated, errors.Wrap(err, "changing instructors status")
}

var csvCodec = records.CSVCodec[Instructor]{
	Header: []string{"id", "name", "email", "department", "status", "join_date", "salary", "rating", "students", "courses"},
	Encode: func(in Instructor) []string {
		return []string{
			in.ID,
			in.Name,
			in.Email,
			in.Department,
			in.Status,
			in.JoinDate.Format(records.DateLayout),
			records.FormatFloat(in.Salary),
			records.FormatFloat(in.Rating),
			strconv.Itoa(in.Students),
			strconv.Itoa(in.Courses),
		}
	},
	Decode: func(r records.Row) (Instructor, error) {
		var err error
		ni := NewInstructor{
			Name:       r.String("name", ""),
			Email:      r.String("email", ""),
			Department: r.String("department", defaultDepartment),
			Status:     r.String("status", StatusActive),
		}
		if ni.JoinDate, err = r.Time("join_date", time.Time{}); err != nil {
			return Instructor{}, err
		}
		if ni.Salary, err = r.Float("salary", 0); err != nil {
			return Instructor{}, err
		}
		if ni.Rating, err = r.Float("rating", 0); err != nil {
			return Instructor{}, err
		}
		if ni.Students, err = r.Int("students", 0); err != nil {
			return Instructor{}, err
		}
		if ni.Courses, err = r.Int("courses", 0); err != nil {
			return Instructor{}, err
		}
		if err = ni.Validate(); err != nil {
			return Instructor{}, err
		}
		return ni.build(), nil
	},
}
