package progress

import (
	"time"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
)

const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

var Statuses = []string{StatusNotStarted, StatusInProgress, StatusCompleted}

// Record is the progress of one student in one course.
type Record struct {
	ID               string    `json:"id" db:"id"`
	StudentName      string    `json:"student_name" db:"student_name"`
	Email            string    `json:"email" db:"email"`
	Course           string    `json:"course" db:"course"`
	CompletedLessons int       `json:"completed_lessons" db:"completed_lessons"`
	TotalLessons     int       `json:"total_lessons" db:"total_lessons"`
	Progress         float64   `json:"progress" db:"progress"` // 0 - 100
	Status           string    `json:"status" db:"status"`
	Score            float64   `json:"score" db:"score"`
	LastActive       time.Time `json:"last_active" db:"last_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// derive computes the progress from the lessons (when there are any) and the status from the progress.
func (r *Record) derive() {
	if r.CompletedLessons > r.TotalLessons {
		r.CompletedLessons = r.TotalLessons
	}
	if r.TotalLessons > 0 {
		r.Progress = listing.Round(listing.Percent(float64(r.CompletedLessons), float64(r.TotalLessons)))
	}
	r.Progress = min(max(r.Progress, 0), 100)
	r.Status = StatusFor(r.Progress)
}

// StatusFor maps a progress percentage to its status.
func StatusFor(progress float64) string {
	switch {
	case progress <= 0:
		return StatusNotStarted
	case progress >= 100:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

type Summary struct {
	Students        int     `json:"students"`
	AverageProgress float64 `json:"average_progress"`
	Completed       int     `json:"completed"`
	InProgress      int     `json:"in_progress"`
	NotStarted      int     `json:"not_started"`
	AverageScore    float64 `json:"average_score"`
}

type NewRecord struct {
	StudentName      string    `json:"student_name" validate:"required"`
	Email            string    `json:"email" validate:"omitempty,email"`
	Course           string    `json:"course" validate:"required"`
	CompletedLessons int       `json:"completed_lessons" validate:"min=0"`
	TotalLessons     int       `json:"total_lessons" validate:"min=0"`
	Progress         float64   `json:"progress" validate:"min=0,max=100"`
	Score            float64   `json:"score" validate:"min=0,max=100"`
	LastActive       time.Time `json:"last_active"`
}

func (nr *NewRecord) Validate() error {
	nr.StudentName = core.CleanString(nr.StudentName)
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	nr.Course = core.CleanString(nr.Course)
	return core.Validate.Struct(nr)
}

type UpdateRecord struct {
	StudentName      string    `json:"student_name"`
	Email            string    `json:"email" validate:"omitempty,email"`
	Course           string    `json:"course"`
	CompletedLessons *int      `json:"completed_lessons" validate:"omitempty,min=0"`
	TotalLessons     *int      `json:"total_lessons" validate:"omitempty,min=0"`
	Progress         *float64  `json:"progress" validate:"omitempty,min=0,max=100"`
	Score            *float64  `json:"score" validate:"omitempty,min=0,max=100"`
	LastActive       time.Time `json:"last_active"`
}

func (ur *UpdateRecord) Validate() error {
	ur.StudentName = core.CleanString(ur.StudentName)
	ur.Email = core.CleanString(ur.Email, true /* lower */)
	ur.Course = core.CleanString(ur.Course)
	return core.Validate.Struct(ur)
}

func (ur UpdateRecord) apply(r *Record) {
	if ur.StudentName != "" {
		r.StudentName = ur.StudentName
	}
	if ur.Email != "" {
		r.Email = ur.Email
	}
	if ur.Course != "" {
		r.Course = ur.Course
	}
	if ur.CompletedLessons != nil {
		r.CompletedLessons = *ur.CompletedLessons
	}
	if ur.TotalLessons != nil {
		r.TotalLessons = *ur.TotalLessons
	}
	if ur.Progress != nil {
		r.Progress = *ur.Progress
	}
	if ur.Score != nil {
		r.Score = *ur.Score
	}
	if !ur.LastActive.IsZero() {
		r.LastActive = ur.LastActive.UTC()
	}
	r.derive()
}
