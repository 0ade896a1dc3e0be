package attendance

import (
	"time"

	"github.com/trezcool/akademi/core"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// Record is the attendance of one student to one course session.
type Record struct {
	ID          string    `json:"id" db:"id"`
	StudentName string    `json:"student_name" db:"student_name"`
	Course      string    `json:"course" db:"course"`
	Date        time.Time `json:"date" db:"date"`
	Status      string    `json:"status" db:"status"`
	Note        string    `json:"note" db:"note"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Summary struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	Excused        int     `json:"excused"`
	AttendanceRate float64 `json:"attendance_rate"` // percentage of present or late
}

type NewRecord struct {
	StudentName string    `json:"student_name" validate:"required"`
	Course      string    `json:"course" validate:"required"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status" validate:"required,oneof=present absent late excused"`
	Note        string    `json:"note"`
}

func (nr *NewRecord) Validate() error {
	nr.StudentName = core.CleanString(nr.StudentName)
	nr.Course = core.CleanString(nr.Course)
	nr.Status = core.CleanString(nr.Status, true /* lower */)
	nr.Note = core.CleanString(nr.Note)
	if nr.Status == "" {
		nr.Status = StatusPresent
	}
	return core.Validate.Struct(nr)
}

type UpdateRecord struct {
	StudentName string    `json:"student_name"`
	Course      string    `json:"course"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status" validate:"omitempty,oneof=present absent late excused"`
	Note        *string   `json:"note"`
}

func (ur *UpdateRecord) Validate() error {
	ur.StudentName = core.CleanString(ur.StudentName)
	ur.Course = core.CleanString(ur.Course)
	ur.Status = core.CleanString(ur.Status, true /* lower */)
	return core.Validate.Struct(ur)
}

func (ur UpdateRecord) apply(r *Record) {
	if ur.StudentName != "" {
		r.StudentName = ur.StudentName
	}
	if ur.Course != "" {
		r.Course = ur.Course
	}
	if !ur.Date.IsZero() {
		r.Date = ur.Date.UTC()
	}
	if ur.Status != "" {
		r.Status = ur.Status
	}
	if ur.Note != nil {
		r.Note = core.CleanString(*ur.Note)
	}
}

type StatusChange struct {
	IDs    []string `json:"ids" validate:"required,min=1"`
	Status string   `json:"status" validate:"required,oneof=present absent late excused"`
}

func (sc *StatusChange) Validate() error {
	sc.Status = core.CleanString(sc.Status, true /* lower */)
	return core.Validate.Struct(sc)
}
