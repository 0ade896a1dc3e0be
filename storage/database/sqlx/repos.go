package sqlxrepos

import (
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/akademi/core/attendance"
	"github.com/trezcool/akademi/core/course"
	"github.com/trezcool/akademi/core/donation"
	"github.com/trezcool/akademi/core/employee"
	"github.com/trezcool/akademi/core/instructor"
	"github.com/trezcool/akademi/core/notification"
	"github.com/trezcool/akademi/core/progress"
	"github.com/trezcool/akademi/core/revenue"
	"github.com/trezcool/akademi/core/salary"
)

var (
	_ course.Repository       = (*Table[course.Course])(nil)
	_ notification.Repository = (*Table[notification.Notification])(nil)
)

func NewCourseRepository(db *sqlx.DB) *Table[course.Course] {
	return NewTable[course.Course](db, "courses", course.Resource)
}

func NewDonationRepository(db *sqlx.DB) *Table[donation.Donation] {
	return NewTable[donation.Donation](db, "donations", donation.Resource)
}

func NewInstructorRepository(db *sqlx.DB) *Table[instructor.Instructor] {
	return NewTable[instructor.Instructor](db, "instructors", instructor.Resource)
}

func NewEmployeeRepository(db *sqlx.DB) *Table[employee.Employee] {
	return NewTable[employee.Employee](db, "employees", employee.Resource)
}

func NewSalaryRepository(db *sqlx.DB) *Table[salary.Salary] {
	return NewTable[salary.Salary](db, "salaries", salary.Resource)
}

func NewNotificationRepository(db *sqlx.DB) *Table[notification.Notification] {
	return NewTable[notification.Notification](db, "notifications", notification.Resource)
}

func NewRevenueRepository(db *sqlx.DB) *Table[revenue.Entry] {
	return NewTable[revenue.Entry](db, "revenue_entries", revenue.Resource)
}

func NewAttendanceRepository(db *sqlx.DB) *Table[attendance.Record] {
	return NewTable[attendance.Record](db, "attendance_records", attendance.Resource)
}

func NewProgressRepository(db *sqlx.DB) *Table[progress.Record] {
	return NewTable[progress.Record](db, "progress_records", progress.Resource)
}
