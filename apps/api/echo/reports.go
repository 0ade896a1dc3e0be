package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core/report"
)

// ReportRequest is the body of POST /v1/reports. Dates are YYYY-MM-DD or RFC 3339.
type ReportRequest struct {
	Type    string   `json:"type"`
	Metrics []string `json:"metrics"`
	From    string   `json:"from"`
	To      string   `json:"to"`
	Format  string   `json:"format"`
}

func (rr ReportRequest) request() (report.Request, error) {
	req := report.Request{
		Type:    report.Type(rr.Type),
		Metrics: rr.Metrics,
		Format:  report.Format(rr.Format),
	}
	var err error
	if req.From, err = parseDate(rr.From, false); err != nil {
		return req, invalidParam(fromParam, "must be a date formatted as YYYY-MM-DD")
	}
	if req.To, err = parseDate(rr.To, false); err != nil {
		return req, invalidParam(toParam, "must be a date formatted as YYYY-MM-DD")
	}
	return req, nil
}

func registerReportAPI(a *api) {
	svc := a.svcs.Reports
	g := a.v1.Group("/reports")

	g.GET("/types", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, svc.Definitions())
	})

	g.POST("", func(ctx echo.Context) error {
		var data ReportRequest
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to ReportRequest")
		}
		req, err := data.request()
		if err != nil {
			return err
		}
		file, err := svc.Generate(ctx.Request().Context(), req)
		if err != nil {
			return errors.Wrap(err, "generating report")
		}
		a.metrics.exported("reports", extension(file))
		return attachment(ctx, file)
	})
}
