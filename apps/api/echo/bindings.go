package echoapi

import (
	"io/ioutil"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/nsscell/portal/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// Multipart form helpers. Dates come in as HTML date inputs (YYYY-MM-DD).
const formDateLayout = "2006-01-02"

func formDate(ctx echo.Context, name string) (time.Time, error) {
	val := strings.TrimSpace(ctx.FormValue(name))
	if val == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(formDateLayout, val)
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "invalid date; expected YYYY-MM-DD"})
	}
	return t, nil
}

func formInt(ctx echo.Context, name string) (int, error) {
	val := strings.TrimSpace(ctx.FormValue(name))
	if val == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "invalid number"})
	}
	return n, nil
}

func formNullInt(ctx echo.Context, name string) (null.Int, error) {
	val := strings.TrimSpace(ctx.FormValue(name))
	if val == "" {
		return null.Int{}, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return null.Int{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "invalid number"})
	}
	return null.IntFrom(n), nil
}

// formFile reads an uploaded file into memory. A missing file is not an
// error; callers decide whether the upload is required.
func formFile(ctx echo.Context, name string) (core.Upload, error) {
	hdr, err := ctx.FormFile(name)
	if err != nil {
		return core.Upload{}, nil
	}
	f, err := hdr.Open()
	if err != nil {
		return core.Upload{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "unreadable file"})
	}
	defer f.Close()

	content, err := ioutil.ReadAll(f)
	if err != nil {
		return core.Upload{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "unreadable file"})
	}
	return core.Upload{Filename: hdr.Filename, Content: content}, nil
}
