// Package progress follows students' progress through their courses.
package progress

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const Resource = "progress record"

type Repository = core.Repository[Record]

var Schema = listing.Schema[Record]{
	Resource: "progress",
	Search: []func(Record) string{
		func(r Record) string { return r.StudentName },
		func(r Record) string { return r.Email },
		func(r Record) string { return r.Course },
	},
	Filters: map[string]func(Record) string{
		"course": func(r Record) string { return r.Course },
		"status": func(r Record) string { return r.Status },
	},
	Date: func(r Record) time.Time { return r.LastActive },
	Sorters: map[string]listing.Comparator[Record]{
		"student_name": listing.Strings(func(r Record) string { return r.StudentName }),
		"course":       listing.Strings(func(r Record) string { return r.Course }),
		"progress":     listing.Numbers(func(r Record) float64 { return r.Progress }),
		"score":        listing.Numbers(func(r Record) float64 { return r.Score }),
		"last_active":  listing.Times(func(r Record) time.Time { return r.LastActive }),
	},
	DefaultOrdering: core.ParseOrdering("-last_active"),
	PageSize:        10,
}

func Summarize(recs []Record) Summary {
	students := make(map[string]bool)
	for _, r := range recs {
		key := r.Email
		if key == "" {
			key = strings.ToLower(r.StudentName)
		}
		students[key] = true
	}
	return Summary{
		Students:        len(students),
		AverageProgress: listing.Round(listing.Average(recs, func(r Record) float64 { return r.Progress })),
		Completed:       listing.Count(recs, func(r Record) bool { return r.Status == StatusCompleted }),
		InProgress:      listing.Count(recs, func(r Record) bool { return r.Status == StatusInProgress }),
		NotStarted:      listing.Count(recs, func(r Record) bool { return r.Status == StatusNotStarted }),
		AverageScore:    listing.Round(listing.Average(recs, func(r Record) float64 { return r.Score })),
	}
}

type Service struct {
	*records.Service[Record, Summary]
}

func NewService(repo Repository) *Service {
	return &Service{&records.Service[Record, Summary]{
		Repo:      repo,
		Schema:    Schema,
		Summarize: Summarize,
		CSV:       csvCodec,
	}}
}

func (nr NewRecord) build() Record {
	now := core.Now()
	r := Record{
		ID:               core.NewID(),
		StudentName:      nr.StudentName,
		Email:            nr.Email,
		Course:           nr.Course,
		CompletedLessons: nr.CompletedLessons,
		TotalLessons:     nr.TotalLessons,
		Progress:         nr.Progress,
		Score:            nr.Score,
		LastActive:       nr.LastActive.UTC(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if nr.LastActive.IsZero() {
		r.LastActive = now
	}
	r.derive()
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

var csvCodec = records.CSVCodec[Record]{
	Header: []string{"id", "student_name", "email", "course", "completed_lessons", "total_lessons", "progress", "status", "score", "last_active"},
	Encode: func(r Record) []string {
		return []string{
			r.ID,
			r.StudentName,
			r.Email,
			r.Course,
			strconv.Itoa(r.CompletedLessons),
			strconv.Itoa(r.TotalLessons),
			records.FormatFloat(r.Progress),
			r.Status,
			records.FormatFloat(r.Score),
			r.LastActive.Format(records.DateLayout),
		}
	},
	Decode: func(r records.Row) (Record, error) {
		var err error
		nr := NewRecord{
			StudentName: r.String("student_name", ""),
			Email:       r.String("email", ""),
			Course:      r.String("course", ""),
		}
		if nr.CompletedLessons, err = r.Int("completed_lessons", 0); err != nil {
			return Record{}, err
		}
		if nr.TotalLessons, err = r.Int("total_lessons", 0); err != nil {
			return Record{}, err
		}
		if nr.Progress, err = r.Float("progress", 0); err != nil {
			return Record{}, err
		}
		if nr.Score, err = r.Float("score", 0); err != nil {
			return Record{}, err
		}
		if nr.LastActive, err = r.Time("last_active", time.Time{}); err != nil {
			return Record{}, err
		}
		if err = nr.Validate(); err != nil {
			return Record{}, err
		}
		return nr.build(), nil
	},
}
