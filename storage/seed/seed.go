// Package seed loads the demo datasets into empty collections.
package seed

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core/attendance"
	"github.com/trezcool/akademi/core/course"
	"github.com/trezcool/akademi/core/donation"
	"github.com/trezcool/akademi/core/employee"
	"github.com/trezcool/akademi/core/grading"
	"github.com/trezcool/akademi/core/instructor"
	"github.com/trezcool/akademi/core/notification"
	"github.com/trezcool/akademi/core/progress"
	"github.com/trezcool/akademi/core/revenue"
	"github.com/trezcool/akademi/core/salary"
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
}

type creator[N, T any] interface {
	All(ctx context.Context) ([]T, error)
	Create(ctx context.Context, n N) (T, error)
}

// load creates items unless the collection already has records. It returns how many were created.
func load[N, T any](ctx context.Context, resource string, svc creator[N, T], items []N) (int, error) {
	existing, err := svc.All(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying "+resource)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, item := range items {
		if _, err = svc.Create(ctx, item); err != nil {
			return i, errors.Wrapf(err, "seeding %s #%d", resource, i+1)
		}
	}
	return len(items), nil
}

// Load seeds every empty collection, dating the records relative to now.
// It returns how many records were created per resource.
func Load(ctx context.Context, s Services, now time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	steps := []struct {
		resource string
		run      func() (int, error)
	}{
		{"courses", func() (int, error) {
			return load[course.NewCourse, course.Course](ctx, "courses", s.Courses, Courses())
		}},
		{"donations", func() (int, error) {
			return load[donation.NewDonation, donation.Donation](ctx, "donations", s.Donations, Donations(now))
		}},
		{"instructors", func() (int, error) {
			return load[instructor.NewInstructor, instructor.Instructor](ctx, "instructors", s.Instructors, Instructors(now))
		}},
		{"employees", func() (int, error) {
			return load[employee.NewEmployee, employee.Employee](ctx, "employees", s.Employees, Employees(now))
		}},
		{"salaries", func() (int, error) {
			return load[salary.NewSalary, salary.Salary](ctx, "salaries", s.Salaries, Salaries(now))
		}},
		{"notifications", func() (int, error) {
			return load[notification.NewNotification, notification.Notification](ctx, "notifications", s.Notifications, Notifications())
		}},
		{"revenue", func() (int, error) {
			return load[revenue.NewEntry, revenue.Entry](ctx, "revenue", s.Revenue, Revenue(now))
		}},
		{"attendance", func() (int, error) {
			return load[attendance.NewRecord, attendance.Record](ctx, "attendance", s.Attendance, Attendance(now))
		}},
		{"progress", func() (int, error) {
			return load[progress.NewRecord, progress.Record](ctx, "progress", s.Progress, Progress(now))
		}},
		{"grades", func() (int, error) {
			return load[grading.NewRecord, grading.Record](ctx, "grades", s.Grades, Grades(now))
		}},
	}
	for _, step := range steps {
		n, err := step.run()
		counts[step.resource] = n
		if err != nil {
			return counts, err
		}
	}
	return counts, nil
}

func daysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days).Truncate(24 * time.Hour)
}

func Courses() []course.NewCourse {
	return []course.NewCourse{
		{Title: "Web Development Fundamentals", Instructor: "Sarah Johnson", Students: 245, Revenue: 12250, Rating: 4.8, Progress: 100, Status: course.StatusActive, Category: "Development", Price: 50},
		{Title: "Data Science with Python", Instructor: "Michael Chen", Students: 189, Revenue: 15120, Rating: 4.7, Progress: 85, Status: course.StatusActive, Category: "Data Science", Price: 80},
		{Title: "UI/UX Design Principles", Instructor: "Emily Davis", Students: 156, Revenue: 9360, Rating: 4.9, Progress: 100, Status: course.StatusActive, Category: "Design", Price: 60},
		{Title: "Mobile App Development", Instructor: "David Wilson", Students: 98, Revenue: 6860, Rating: 4.5, Progress: 60, Status: course.StatusDraft, Category: "Development", Price: 70},
		{Title: "Digital Marketing Strategy", Instructor: "Lisa Anderson", Students: 210, Revenue: 8400, Rating: 4.6, Progress: 100, Status: course.StatusActive, Category: "Marketing", Price: 40},
		{Title: "Machine Learning Basics", Instructor: "Michael Chen", Students: 132, Revenue: 11880, Rating: 4.8, Progress: 45, Status: course.StatusDraft, Category: "Data Science", Price: 90},
		{Title: "Cloud Computing Essentials", Instructor: "James Brown", Students: 77, Revenue: 5390, Rating: 4.4, Progress: 100, Status: course.StatusArchived, Category: "IT & Software", Price: 70},
		{Title: "Business Communication", Instructor: "Lisa Anderson", Students: 64, Revenue: 1920, Rating: 4.2, Progress: 100, Status: course.StatusArchived, Category: "Business", Price: 30},
	}
}

func Donations(now time.Time) []donation.NewDonation {
	return []donation.NewDonation{
		{Donor: "John Smith", DonorEmail: "john.smith@example.com", Amount: 500, Date: daysAgo(now, 1), Type: donation.TypeOneTime, Campaign: "Scholarship Fund", Status: donation.StatusCompleted},
		{Donor: "Tech Corp Inc.", DonorEmail: "giving@techcorp.example.com", Amount: 5000, Date: daysAgo(now, 3), Type: donation.TypeOneTime, Campaign: "Technology Upgrade", Status: donation.StatusCompleted},
		{Donor: "Maria Garcia", DonorEmail: "maria.garcia@example.com", Amount: 100, Date: daysAgo(now, 5), Type: donation.TypeMonthly, Campaign: "General", Status: donation.StatusCompleted},
		{Donor: "Anonymous", Amount: 250, Date: daysAgo(now, 6), Type: donation.TypeOneTime, Campaign: "Scholarship Fund", Status: donation.StatusPending},
		{Donor: "Robert Lee", DonorEmail: "robert.lee@example.com", Amount: 50, Date: daysAgo(now, 9), Type: donation.TypeMonthly, Campaign: "Library Expansion", Status: donation.StatusPending},
		{Donor: "Green Foundation", DonorEmail: "grants@green.example.org", Amount: 10000, Date: daysAgo(now, 14), Type: donation.TypeOneTime, Campaign: "Library Expansion", Status: donation.StatusCompleted},
		{Donor: "Aisha Khan", DonorEmail: "aisha.khan@example.com", Amount: 75, Date: daysAgo(now, 20), Type: donation.TypeMonthly, Campaign: "General", Status: donation.StatusFailed},
		{Donor: "Paul Martin", DonorEmail: "paul.martin@example.com", Amount: 300, Date: daysAgo(now, 33), Type: donation.TypeOneTime, Campaign: "Technology Upgrade", Status: donation.StatusCompleted},
	}
}

func Instructors(now time.Time) []instructor.NewInstructor {
	return []instructor.NewInstructor{
		{Name: "Sarah Johnson", Email: "sarah.johnson@akademi.example.com", Department: "Development", Status: instructor.StatusActive, JoinDate: daysAgo(now, 900), Salary: 6500, Rating: 4.8, Students: 512, Courses: 4},
		{Name: "Michael Chen", Email: "michael.chen@akademi.example.com", Department: "Data Science", Status: instructor.StatusActive, JoinDate: daysAgo(now, 720), Salary: 7200, Rating: 4.7, Students: 321, Courses: 3},
		{Name: "Emily Davis", Email: "emily.davis@akademi.example.com", Department: "Design", Status: instructor.StatusActive, JoinDate: daysAgo(now, 540), Salary: 5800, Rating: 4.9, Students: 156, Courses: 2},
		{Name: "David Wilson", Email: "david.wilson@akademi.example.com", Department: "Development", Status: instructor.StatusOnLeave, JoinDate: daysAgo(now, 400), Salary: 6000, Rating: 4.5, Students: 98, Courses: 1},
		{Name: "Lisa Anderson", Email: "lisa.anderson@akademi.example.com", Department: "Marketing", Status: instructor.StatusActive, JoinDate: daysAgo(now, 365), Salary: 5200, Rating: 4.6, Students: 274, Courses: 2},
		{Name: "James Brown", Email: "james.brown@akademi.example.com", Department: "IT & Software", Status: instructor.StatusInactive, JoinDate: daysAgo(now, 1200), Salary: 5500, Rating: 4.4, Students: 77, Courses: 1},
	}
}

func Employees(now time.Time) []employee.NewEmployee {
	return []employee.NewEmployee{
		{Name: "Olivia Martinez", Email: "olivia.martinez@akademi.example.com", Role: "Academic Director", Department: "Administration", Status: employee.StatusActive, HireDate: daysAgo(now, 1500), Salary: 8500, Phone: "+1 555 0101"},
		{Name: "Ethan Taylor", Email: "ethan.taylor@akademi.example.com", Role: "Accountant", Department: "Finance", Status: employee.StatusActive, HireDate: daysAgo(now, 800), Salary: 5200, Phone: "+1 555 0102"},
		{Name: "Sophia Thomas", Email: "sophia.thomas@akademi.example.com", Role: "Student Advisor", Department: "Student Services", Status: employee.StatusActive, HireDate: daysAgo(now, 430), Salary: 4200, Phone: "+1 555 0103"},
		{Name: "Liam Moore", Email: "liam.moore@akademi.example.com", Role: "System Administrator", Department: "IT", Status: employee.StatusOnLeave, HireDate: daysAgo(now, 610), Salary: 5600, Phone: "+1 555 0104"},
		{Name: "Ava Jackson", Email: "ava.jackson@akademi.example.com", Role: "Marketing Specialist", Department: "Marketing", Status: employee.StatusActive, HireDate: daysAgo(now, 200), Salary: 4600, Phone: "+1 555 0105"},
		{Name: "Noah White", Email: "noah.white@akademi.example.com", Role: "Receptionist", Department: "Administration", Status: employee.StatusInactive, HireDate: daysAgo(now, 1100), Salary: 3100, Phone: "+1 555 0106"},
	}
}

func Salaries(now time.Time) []salary.NewSalary {
	month := now.Format("2006-01")
	previous := now.AddDate(0, -1, 0).Format("2006-01")
	return []salary.NewSalary{
		{InstructorName: "Sarah Johnson", BaseSalary: 6500, Bonus: 500, Deductions: 650, Status: salary.StatusPending, Month: month},
		{InstructorName: "Michael Chen", BaseSalary: 7200, Bonus: 800, Deductions: 720, Status: salary.StatusPending, Month: month},
		{InstructorName: "Emily Davis", BaseSalary: 5800, Bonus: 300, Deductions: 580, Status: salary.StatusPending, Month: month},
		{InstructorName: "Sarah Johnson", BaseSalary: 6500, Bonus: 0, Deductions: 650, Status: salary.StatusPaid, Month: previous},
		{InstructorName: "Michael Chen", BaseSalary: 7200, Bonus: 400, Deductions: 720, Status: salary.StatusPaid, Month: previous},
		{InstructorName: "Lisa Anderson", BaseSalary: 5200, Bonus: 200, Deductions: 520, Status: salary.StatusPaid, Month: previous},
	}
}

func Notifications() []notification.NewNotification {
	return []notification.NewNotification{
		{Type: notification.TypeSuccess, Title: "New enrollment", Message: "12 students enrolled in Data Science with Python today."},
		{Type: notification.TypeInfo, Title: "Course review pending", Message: "Mobile App Development is waiting for a review before publication."},
		{Type: notification.TypeWarning, Title: "Payroll due", Message: "This month's salaries have not been processed yet."},
		{Type: notification.TypeAlert, Title: "Failed donation", Message: "A monthly donation from Aisha Khan could not be charged."},
		{Type: notification.TypeInfo, Title: "Maintenance window", Message: "The platform will be read-only on Sunday from 2 to 4 AM."},
	}
}

func Revenue(now time.Time) []revenue.NewEntry {
	var entries []revenue.NewEntry
	for i := 5; i >= 0; i-- {
		month := revenue.MonthStart(now.AddDate(0, -i, 0))
		growth := float64(5 - i)
		entries = append(entries,
			revenue.NewEntry{Month: month, Source: revenue.SourceCourses, Description: "Course sales", Revenue: 18000 + 1500*growth, CostTotal: 7000 + 300*growth},
			revenue.NewEntry{Month: month, Source: revenue.SourceSubscriptions, Description: "Monthly plans", Revenue: 6000 + 800*growth, CostTotal: 1500},
			revenue.NewEntry{Month: month, Source: revenue.SourceDonations, Description: "Donations received", Revenue: 2500 + 250*growth},
		)
	}
	return entries
}

func Attendance(now time.Time) []attendance.NewRecord {
	today, yesterday := daysAgo(now, 0), daysAgo(now, 1)
	return []attendance.NewRecord{
		{StudentName: "Alex Turner", Course: "Web Development Fundamentals", Date: today, Status: attendance.StatusPresent},
		{StudentName: "Bella Scott", Course: "Web Development Fundamentals", Date: today, Status: attendance.StatusLate, Note: "Arrived 10 minutes late"},
		{StudentName: "Carlos Diaz", Course: "Web Development Fundamentals", Date: today, Status: attendance.StatusAbsent},
		{StudentName: "Diana Prince", Course: "Data Science with Python", Date: today, Status: attendance.StatusPresent},
		{StudentName: "Ethan Hunt", Course: "Data Science with Python", Date: today, Status: attendance.StatusExcused, Note: "Medical appointment"},
		{StudentName: "Alex Turner", Course: "Web Development Fundamentals", Date: yesterday, Status: attendance.StatusPresent},
		{StudentName: "Bella Scott", Course: "Web Development Fundamentals", Date: yesterday, Status: attendance.StatusPresent},
		{StudentName: "Diana Prince", Course: "Data Science with Python", Date: yesterday, Status: attendance.StatusAbsent},
	}
}

func Progress(now time.Time) []progress.NewRecord {
	return []progress.NewRecord{
		{StudentName: "Alex Turner", Email: "alex.turner@example.com", Course: "Web Development Fundamentals", CompletedLessons: 24, TotalLessons: 24, Score: 92, LastActive: daysAgo(now, 1)},
		{StudentName: "Bella Scott", Email: "bella.scott@example.com", Course: "Web Development Fundamentals", CompletedLessons: 15, TotalLessons: 24, Score: 78, LastActive: daysAgo(now, 2)},
		{StudentName: "Carlos Diaz", Email: "carlos.diaz@example.com", Course: "UI/UX Design Principles", CompletedLessons: 0, TotalLessons: 18, LastActive: daysAgo(now, 10)},
		{StudentName: "Diana Prince", Email: "diana.prince@example.com", Course: "Data Science with Python", CompletedLessons: 30, TotalLessons: 32, Score: 88, LastActive: daysAgo(now, 0)},
		{StudentName: "Ethan Hunt", Email: "ethan.hunt@example.com", Course: "Data Science with Python", CompletedLessons: 8, TotalLessons: 32, Score: 64, LastActive: daysAgo(now, 4)},
		{StudentName: "Alex Turner", Email: "alex.turner@example.com", Course: "Data Science with Python", CompletedLessons: 12, TotalLessons: 32, Score: 81, LastActive: daysAgo(now, 3)},
	}
}

func Grades(now time.Time) []grading.NewRecord {
	return []grading.NewRecord{
		{StudentName: "Alex Turner", StudentEmail: "alex.turner@example.com", Course: "Web Development Fundamentals", Instructor: "Sarah Johnson", Score: 94, Date: daysAgo(now, 7)},
		{StudentName: "Bella Scott", StudentEmail: "bella.scott@example.com", Course: "Web Development Fundamentals", Instructor: "Sarah Johnson", Score: 83, Date: daysAgo(now, 7)},
		{StudentName: "Carlos Diaz", StudentEmail: "carlos.diaz@example.com", Course: "UI/UX Design Principles", Instructor: "Emily Davis", Score: 55, Date: daysAgo(now, 12)},
		{StudentName: "Diana Prince", StudentEmail: "diana.prince@example.com", Course: "Data Science with Python", Instructor: "Michael Chen", Score: 76, Date: daysAgo(now, 15)},
		{StudentName: "Ethan Hunt", Course: "Data Science with Python", Instructor: "Michael Chen", Score: 61, Date: daysAgo(now, 15)},
		{StudentName: "Fiona Gallagher", StudentEmail: "fiona.gallagher@example.com", Course: "Digital Marketing Strategy", Instructor: "Lisa Anderson", Score: 38, Date: daysAgo(now, 20)},
	}
}
