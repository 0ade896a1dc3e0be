package echoapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/records"
)

// resource binds a record collection to the generic list, CRUD, export and import endpoints.
// T is the record, S its summary, N the create body and U the update body.
type resource[T, S, N, U any] struct {
	path     string // URL segment and metric label, e.g. "courses"
	name     string // singular, used in error messages
	svc      *records.Service[T, S]
	create   func(context.Context, N) (T, error)
	update   func(context.Context, string, U) (T, error)
	delete   func(context.Context, ...string) (int, error) // defaults to svc.Delete
}

type resourceAPI[T, S, N, U any] struct {
	*api
	resource[T, S, N, U]
}

// registerResource mounts the generic endpoints of r under /v1/<path> and returns the group,
// for the resource-specific routes.
func registerResource[T, S, N, U any](a *api, r resource[T, S, N, U]) *echo.Group {
	if r.delete == nil {
		r.delete = r.svc.Delete
	}
	h := resourceAPI[T, S, N, U]{api: a, resource: r}

	g := a.v1.Group("/" + r.path)
	g.GET("", h.query)
	g.POST("", h.createOne)
	g.DELETE("", h.destroyMultiple)
	g.GET("/export", h.export)
	g.POST("/import", h.importCSV)

	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.updateOne)
	g.DELETE("/:id", h.destroy)
	return g
}

// Handlers

func (h resourceAPI[T, S, N, U]) query(ctx echo.Context) error {
	c, err := bindCriteria(ctx, h.conf.Listing.MaxPageSize)
	if err != nil {
		return err
	}
	res, err := h.svc.Query(ctx.Request().Context(), c)
	if err != nil {
		return errors.Wrap(err, "querying "+h.path)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (h resourceAPI[T, S, N, U]) retrieve(ctx echo.Context) error {
	rec, err := h.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting "+h.name)
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (h resourceAPI[T, S, N, U]) createOne(ctx echo.Context) error {
	var data N
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding new "+h.name)
	}
	rec, err := h.create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating "+h.name)
	}
	h.metrics.mutated(h.path, "create", 1)
	return ctx.JSON(http.StatusCreated, rec)
}

func (h resourceAPI[T, S, N, U]) updateOne(ctx echo.Context) error {
	var data U
	if err := (&echo.DefaultBinder{}).BindBody(ctx, &data); err != nil {
		return errors.Wrap(err, "binding "+h.name+" update")
	}
	rec, err := h.update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating "+h.name)
	}
	h.metrics.mutated(h.path, "update", 1)
	return ctx.JSON(http.StatusOK, rec)
}

func (h resourceAPI[T, S, N, U]) destroy(ctx echo.Context) error {
	n, err := h.delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "deleting "+h.name)
	}
	if n == 0 {
		return core.NewNotFoundError(h.name)
	}
	h.metrics.mutated(h.path, "delete", n)
	return ctx.NoContent(http.StatusNoContent)
}

func (h resourceAPI[T, S, N, U]) destroyMultiple(ctx echo.Context) error {
	ids, err := bindIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		n, err := h.delete(ctx.Request().Context(), ids...)
		if err != nil {
			return errors.Wrap(err, "deleting "+h.path)
		}
		h.metrics.mutated(h.path, "delete", n)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (h resourceAPI[T, S, N, U]) export(ctx echo.Context) error {
	c, err := bindCriteria(ctx, 0)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err = h.svc.ExportCSV(ctx.Request().Context(), c, &buf); err != nil {
		return errors.Wrap(err, "exporting "+h.path)
	}
	h.metrics.exported(h.path, "csv")
	return attachment(ctx, core.File{
		Name:        h.path + "-" + core.Now().Format("20060102") + ".csv",
		ContentType: core.ContentTypeCSV,
		Content:     buf.Bytes(),
	})
}

func (h resourceAPI[T, S, N, U]) importCSV(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "a csv file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	n, err := h.svc.ImportCSV(ctx.Request().Context(), f)
	h.metrics.mutated(h.path, "import", n)
	if err != nil {
		return errors.Wrap(err, "importing "+h.path)
	}
	return ctx.JSON(http.StatusOK, ImportResponse{Imported: n})
}

// Responses

type ImportResponse struct {
	Imported int `json:"imported"`
}

// BulkResponse lists the records changed by a bulk action.
type BulkResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func bulk[T any](results []T) BulkResponse[T] {
	if results == nil {
		results = []T{}
	}
	return BulkResponse[T]{Count: len(results), Results: results}
}

func extension(file core.File) string {
	return strings.TrimPrefix(path.Ext(file.Name), ".")
}

// attachment sends file as a download.
func attachment(ctx echo.Context, file core.File) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return ctx.Blob(http.StatusOK, file.ContentType, file.Content)
}
