// Package course manages the course catalog.
package course

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
	Resource = "course"

	defaultTitle      = "Untitled Course"
	defaultInstructor = "Unassigned"
	defaultCategory   = "General"
)

type Repository = core.Repository[Course]

var Schema = listing.Schema[Course]{
	Resource: "courses",
	Search: []func(Course) string{
		func(c Course) string { return c.Title },
		func(c Course) string { return c.Instructor },
		func(c Course) string { return c.Category },
	},
	Filters: map[string]func(Course) string{
		"status":   func(c Course) string { return c.Status },
		"category": func(c Course) string { return c.Category },
	},
	Date: func(c Course) time.Time { return c.CreatedAt },
	Sorters: map[string]listing.Comparator[Course]{
		"title":      listing.Strings(func(c Course) string { return c.Title }),
		"instructor": listing.Strings(func(c Course) string { return c.Instructor }),
		"students":   listing.Numbers(func(c Course) int { return c.Students }),
		"revenue":    listing.Numbers(func(c Course) float64 { return c.Revenue }),
		"rating":     listing.Numbers(func(c Course) float64 { return c.Rating }),
		"progress":   listing.Numbers(func(c Course) float64 { return c.Progress }),
		"price":      listing.Numbers(func(c Course) float64 { return c.Price }),
		"status":     listing.Strings(func(c Course) string { return c.Status }),
		"category":   listing.Strings(func(c Course) string { return c.Category }),
		"created_at": listing.Times(func(c Course) time.Time { return c.CreatedAt }),
	},
	DefaultOrdering: core.ParseOrdering("-created_at"),
	PageSize:        6,
}

func Summarize(courses []Course) Summary {
	return Summary{
		Total:           len(courses),
		Active:          listing.Count(courses, func(c Course) bool { return c.Status == StatusActive }),
		Draft:           listing.Count(courses, func(c Course) bool { return c.Status == StatusDraft }),
		Archived:        listing.Count(courses, func(c Course) bool { return c.Status == StatusArchived }),
		TotalStudents:   int(listing.Sum(courses, func(c Course) float64 { return float64(c.Students) })),
		TotalRevenue:    listing.Sum(courses, func(c Course) float64 { return c.Revenue }),
		AverageRating:   listing.Round(listing.Average(courses, func(c Course) float64 { return c.Rating })),
		AverageProgress: listing.Round(listing.Average(courses, func(c Course) float64 { return c.Progress })),
	}
}

type Service struct {
	*records.Service[Course, Summary]
}

func NewService(repo Repository) *Service {
	return &Service{&records.Service[Course, Summary]{
		Repo:      repo,
		Schema:    Schema,
		Summarize: Summarize,
		CSV:       csvCodec,
	}}
}

func (nc NewCourse) build() Course {
	now := core.Now()
	return Course{
		ID:         core.NewID(),
		Title:      nc.Title,
		Instructor: nc.Instructor,
		Students:   nc.Students,
		Revenue:    nc.Revenue,
		Rating:     nc.Rating,
		Progress:   nc.Progress,
		Status:     nc.Status,
		Category:   nc.Category,
		Price:      nc.Price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	return svc.Repo.Create(ctx, nc.build())
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	if err := uc.Validate(); err != nil {
		return Course{}, err
	}
	c, err := svc.Repo.Get(ctx, id)
	if err != nil {
		return Course{}, err
	}
	uc.apply(&c)
	c.UpdatedAt = core.Now()
	return svc.Repo.Update(ctx, c)
}

// SetStatus changes the status of the selected courses.
func (svc *Service) SetStatus(ctx context.Context, sc StatusChange) ([]Course, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	now := core.Now()
	updated, err := svc.UpdateMany(ctx, sc.IDs, func(c *Course) {
		c.Status = sc.Status
		c.UpdatedAt = now
	})
	return updated, errors.Wrap(err, "changing courses status")
}

var csvCodec = records.CSVCodec[Course]{
	Header: []string{"id", "title", "instructor", "students", "revenue", "rating", "progress", "status", "category", "price", "created_at"},
	Encode: func(c Course) []string {
		return []string{
			c.ID,
			c.Title,
			c.Instructor,
			strconv.Itoa(c.Students),
			records.FormatFloat(c.Revenue),
			records.FormatFloat(c.Rating),
			records.FormatFloat(c.Progress),
			c.Status,
			c.Category,
			records.FormatFloat(c.Price),
			c.CreatedAt.Format(records.DateLayout),
		}
	},
	Decode: func(r records.Row) (Course, error) {
		var err error
		nc := NewCourse{
			Title:      r.String("title", defaultTitle),
			Instructor: r.String("instructor", defaultInstructor),
			Status:     r.String("status", StatusDraft),
			Category:   r.String("category", defaultCategory),
		}
		if nc.Students, err = r.Int("students", 0); err != nil {
			return Course{}, err
		}
		if nc.Revenue, err = r.Float("revenue", 0); err != nil {
			return Course{}, err
		}
		if nc.Rating, err = r.Float("rating", 0); err != nil {
			return Course{}, err
		}
		if nc.Progress, err = r.Float("progress", 0); err != nil {
			return Course{}, err
		}
		if nc.Price, err = r.Float("price", 0); err != nil {
			return Course{}, err
		}
		if err = nc.Validate(); err != nil {
			return Course{}, err
		}
		c := nc.build()
		if c.CreatedAt, err = r.Time("created_at", c.CreatedAt); err != nil {
			return Course{}, err
		}
		return c, nil
	},
}
