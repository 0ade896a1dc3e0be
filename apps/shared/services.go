// Package shared builds the service graph used by the API server and the admin CLI.
package shared

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/attendance"
	"github.com/trezcool/akademi/core/course"
	"github.com/trezcool/akademi/core/donation"
	"github.com/trezcool/akademi/core/employee"
	"github.com/trezcool/akademi/core/grading"
	"github.com/trezcool/akademi/core/instructor"
	"github.com/trezcool/akademi/core/notification"
	"github.com/trezcool/akademi/core/progress"
	"github.com/trezcool/akademi/core/report"
	"github.com/trezcool/akademi/core/revenue"
	"github.com/trezcool/akademi/core/salary"
	exportsvc "github.com/trezcool/akademi/services/export"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
	sqlxrepos "github.com/trezcool/akademi/storage/database/sqlx"
	kvstore "github.com/trezcool/akademi/storage/kv"
	"github.com/trezcool/akademi/storage/seed"
)

type Services struct {
	Courses       *course.Service
	Donations     *donation.Service
	Instructors   *instructor.Service
	Employees     *employee.Service
	Salaries      *salary.Service
	Notifications *notification.Service
	Revenue       *revenue.Service
	Attendance    *attendance.Service
	Progress      *progress.Service
	Grades        *grading.Service
	Reports       *report.Service
}

// Backends are the storage and delivery dependencies of the services.
type Backends struct {
	DB           *sqlx.DB // nil: in-memory tables
	KV           core.KVStore
	Mailer       core.EmailService
	Certificates grading.CertificateRenderer
	Publisher    notification.Publisher
}

type repositories struct {
	courses       course.Repository
	donations     donation.Repository
	instructors   instructor.Repository
	employees     employee.Repository
	salaries      salary.Repository
	notifications notification.Repository
	revenue       revenue.Repository
	attendance    attendance.Repository
	progress      progress.Repository
}

func sqlRepositories(db *sqlx.DB) repositories {
	return repositories{
		courses:       sqlxrepos.NewCourseRepository(db),
		donations:     sqlxrepos.NewDonationRepository(db),
		instructors:   sqlxrepos.NewInstructorRepository(db),
		employees:     sqlxrepos.NewEmployeeRepository(db),
		salaries:      sqlxrepos.NewSalaryRepository(db),
		notifications: sqlxrepos.NewNotificationRepository(db),
		revenue:       sqlxrepos.NewRevenueRepository(db),
		attendance:    sqlxrepos.NewAttendanceRepository(db),
		progress:      sqlxrepos.NewProgressRepository(db),
	}
}

func memRepositories() repositories {
	return repositories{
		courses:       inmemdb.NewTable(course.Resource, func(c course.Course) string { return c.ID }),
		donations:     inmemdb.NewTable(donation.Resource, func(d donation.Donation) string { return d.ID }),
		instructors:   inmemdb.NewTable(instructor.Resource, func(i instructor.Instructor) string { return i.ID }),
		employees:     inmemdb.NewTable(employee.Resource, func(e employee.Employee) string { return e.ID }),
		salaries:      inmemdb.NewTable(salary.Resource, func(s salary.Salary) string { return s.ID }),
		notifications: inmemdb.NewTable(notification.Resource, func(n notification.Notification) string { return n.ID }),
		revenue:       inmemdb.NewTable(revenue.Resource, func(e revenue.Entry) string { return e.ID }),
		attendance:    inmemdb.NewTable(attendance.Resource, func(r attendance.Record) string { return r.ID }),
		progress:      inmemdb.NewTable(progress.Resource, func(r progress.Record) string { return r.ID }),
	}
}

// NewServices wires every service to the given backends. Grades are kept in b.KV.
func NewServices(ctx context.Context, conf *core.Config, b Backends) (*Services, error) {
	repos := memRepositories()
	if b.DB != nil {
		repos = sqlRepositories(b.DB)
	}
	if b.KV == nil {
		b.KV = kvstore.NewMemoryStore()
	}

	grades, err := kvstore.LoadCollection(ctx, b.KV, grading.RecordsKey, grading.Resource, func(r grading.Record) string { return r.ID })
	if err != nil {
		return nil, errors.Wrap(err, "loading grades")
	}
	gradingSvc, err := grading.NewService(ctx, grades, b.KV, b.Certificates, b.Mailer, conf.AppName)
	if err != nil {
		return nil, errors.Wrap(err, "setting up grading")
	}

	svcs := &Services{
		Courses:       course.NewService(repos.courses),
		Donations:     donation.NewService(repos.donations, b.Mailer),
		Instructors:   instructor.NewService(repos.instructors),
		Employees:     employee.NewService(repos.employees),
		Salaries:      salary.NewService(repos.salaries, conf.Payroll.ProcessingDelay),
		Notifications: notification.NewService(repos.notifications, b.Publisher),
		Revenue:       revenue.NewService(repos.revenue),
		Attendance:    attendance.NewService(repos.attendance),
		Progress:      progress.NewService(repos.progress),
		Grades:        gradingSvc,
	}
	svcs.Reports = report.NewService(
		svcs.Donations,
		svcs.Revenue,
		svcs.Courses,
		svcs.Salaries,
		svcs.Attendance,
		exportsvc.CSVRenderer{},
		exportsvc.XLSXRenderer{},
		exportsvc.PDFRenderer{Author: conf.AppName},
	)
	return svcs, nil
}

// Seed loads the demo datasets into the empty collections.
func (s *Services) Seed(ctx context.Context) (map[string]int, error) {
	return seed.Load(ctx, seed.Services{
		Courses:       s.Courses,
		Donations:     s.Donations,
		Instructors:   s.Instructors,
		Employees:     s.Employees,
		Salaries:      s.Salaries,
		Notifications: s.Notifications,
		Revenue:       s.Revenue,
		Attendance:    s.Attendance,
		Progress:      s.Progress,
		Grades:        s.Grades,
	}, core.Now())
}
