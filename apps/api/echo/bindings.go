package echoapi

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/records"
)

const (
	searchParam   = "search"
	fromParam     = "from"
	toParam       = "to"
	orderingParam = "ordering"
	sortParam     = "sort"
	pageParam     = "page"
	pageSizeParam = "page_size"
	idParam       = "id"

	dateLayout = "2006-01-02"
)

// every other query param is a categorical filter
var criteriaParams = map[string]bool{
	searchParam:   true,
	fromParam:     true,
	toParam:       true,
	orderingParam: true,
	sortParam:     true,
	pageParam:     true,
	pageSizeParam: true,
}

// bindCriteria reads the listing criteria from the query string.
// `sort` toggles the direction of `ordering` when it names the same field, and replaces it otherwise.
// A date-only `to` covers the whole day. Params in skip belong to the route, not to the filters.
func bindCriteria(ctx echo.Context, maxPageSize int, skip ...string) (listing.Criteria, error) {
	params := ctx.QueryParams()
	c := listing.Criteria{
		Search:    params.Get(searchParam),
		Orderings: core.ParseOrdering(params.Get(orderingParam)),
	}
	if field := core.CleanString(params.Get(sortParam)); field != "" {
		c.Orderings = listing.Toggle(c.Orderings, field)
	}

	var err error
	if c.From, err = parseDate(params.Get(fromParam), false); err != nil {
		return c, invalidParam(fromParam, "must be a date formatted as YYYY-MM-DD")
	}
	if c.To, err = parseDate(params.Get(toParam), true); err != nil {
		return c, invalidParam(toParam, "must be a date formatted as YYYY-MM-DD")
	}
	if !c.From.IsZero() && !c.To.IsZero() && c.To.Before(c.From) {
		return c, invalidParam(toParam, "must not be before from")
	}

	if c.Page, err = parseInt(params.Get(pageParam)); err != nil {
		return c, invalidParam(pageParam, "must be a number")
	}
	if c.PageSize, err = parseInt(params.Get(pageSizeParam)); err != nil || c.PageSize < 0 {
		return c, invalidParam(pageSizeParam, "must be a positive number")
	}
	if maxPageSize > 0 && c.PageSize > maxPageSize {
		c.PageSize = maxPageSize
	}

	for name, values := range params {
		if criteriaParams[name] || slices.Contains(skip, name) {
			continue
		}
		if c.Filters == nil {
			c.Filters = make(map[string][]string)
		}
		for _, v := range values {
			// `status=active,draft` and `status=active&status=draft` are the same
			c.Filters[name] = append(c.Filters[name], strings.Split(v, ",")...)
		}
	}
	return c, nil
}

// parseDate accepts YYYY-MM-DD and RFC 3339 timestamps. With endOfDay, a date-only value
// is moved to the last instant of that day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t.UTC(), err
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// IDs is the body of the bulk endpoints.
type IDs struct {
	IDs []string `json:"ids"`
}

// bindIDs reads the selected ids from `?id=..&id=..` or, when there is none, from a JSON body.
func bindIDs(ctx echo.Context) ([]string, error) {
	ids := ctx.QueryParams()[idParam]
	if len(ids) == 0 && ctx.Request().ContentLength != 0 {
		var data IDs
		if err := (&echo.DefaultBinder{}).BindBody(ctx, &data); err != nil {
			return nil, errors.Wrap(err, "binding ids")
		}
		ids = data.IDs
	}
	return records.UniqueIDs(ids), nil
}

func invalidParam(name, msg string) error {
	return core.NewValidationError(nil, core.FieldError{Field: name, Error: msg})
}
