package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dateLayout is the wire format for all date-only fields
const dateLayout = "2006-01-02"

// paramID parses the named path parameter as an unsigned id
func paramID(c echo.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(val), nil
}

// queryUint parses an optional uint query parameter, zero when absent
func queryUint(c echo.Context, name string) uint {
	if val, err := strconv.ParseUint(c.QueryParam(name), 10, 32); err == nil {
		return uint(val)
	}
	return 0
}

// queryInt parses an optional int query parameter with a fallback
func queryInt(c echo.Context, name string, fallback int) int {
	if val, err := strconv.Atoi(c.QueryParam(name)); err == nil {
		return val
	}
	return fallback
}

// queryDate parses an optional date query parameter
func queryDate(c echo.Context, name string) (time.Time, bool) {
	val := c.QueryParam(name)
	if val == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseDate parses a required date field from a request body
func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, field+" must be a date in YYYY-MM-DD form")
	}
	return t, nil
}

// pagination holds the resolved page window for a list endpoint
type pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

const defaultPageSize = 20
const maxPageSize = 100

// paginate resolves page/page_size query parameters into a window and
// returns the SQL offset for it.
func paginate(c echo.Context, total int64) (pagination, int) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(c, "page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pagination{Page: page, PageSize: pageSize, Total: int(total)}, (page - 1) * pageSize
}

// bindAndValidate binds the request body and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
