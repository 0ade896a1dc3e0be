package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core/employee"
	"github.com/trezcool/akademi/core/instructor"
	"github.com/trezcool/akademi/core/records"
	"github.com/trezcool/akademi/core/salary"
)

func registerStaffAPI(a *api) {
	instructors := a.svcs.Instructors
	g := registerResource(a, resource[instructor.Instructor, instructor.Summary, instructor.NewInstructor, instructor.UpdateInstructor]{
		path:   "instructors",
		name:   instructor.Resource,
		svc:    instructors.Service,
		create: instructors.Create,
		update: instructors.Update,
	})
	g.POST("/bulk/status", func(ctx echo.Context) error {
		var data instructor.StatusChange
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to instructor.StatusChange")
		}
		if len(records.UniqueIDs(data.IDs)) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		updated, err := instructors.SetStatus(ctx.Request().Context(), data)
		if err != nil {
			return err
		}
		a.metrics.mutated("instructors", "status", len(updated))
		return ctx.JSON(http.StatusOK, bulk(updated))
	})

	employees := a.svcs.Employees
	g = registerResource(a, resource[employee.Employee, employee.Summary, employee.NewEmployee, employee.UpdateEmployee]{
		path:   "employees",
		name:   employee.Resource,
		svc:    employees.Service,
		create: employees.Create,
		update: employees.Update,
	})
	g.POST("/bulk/status", func(ctx echo.Context) error {
		var data employee.StatusChange
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to employee.StatusChange")
		}
		if len(records.UniqueIDs(data.IDs)) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		updated, err := employees.SetStatus(ctx.Request().Context(), data)
		if err != nil {
			return err
		}
		a.metrics.mutated("employees", "status", len(updated))
		return ctx.JSON(http.StatusOK, bulk(updated))
	})

	salaries := a.svcs.Salaries
	g = registerResource(a, resource[salary.Salary, salary.Summary, salary.NewSalary, salary.UpdateSalary]{
		path:   "salaries",
		name:   salary.Resource,
		svc:    salaries.Service,
		create: salaries.Create,
		update: salaries.Update,
	})
	// blocks for the payroll processing delay
	g.POST("/process", func(ctx echo.Context) error {
		ids, err := bindIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return ctx.NoContent(http.StatusNoContent)
		}
		res, err := salaries.ProcessPayroll(ctx.Request().Context(), ids)
		if err != nil {
			return err
		}
		a.metrics.mutated("salaries", "process", len(res.Paid))
		return ctx.JSON(http.StatusOK, res)
	})
}
