package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/requestctx"
)

// decodeJSON writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	return decode(w, r, dst, op, false)
}

// decodeOptionalJSON accepts an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	return decode(w, r, dst, op, true)
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string, allowEmpty bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.RequestTooLarge(w, "Request body too large")
		return false
	}
	slog.Error(op+" decode error", "error", err)
	response.BadRequest(w, "Invalid request format", nil)
	return false
}

// currentEmployee returns the employee attached by the role middleware.
func currentEmployee(w http.ResponseWriter, r *http.Request) (employee.Employee, bool) {
	emp, ok := requestctx.GetEmployee(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrUnauthenticated)
		return employee.Employee{}, false
	}
	return emp, true
}

type queryParams struct {
	r       *http.Request
	invalid map[string]string
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{r: r, invalid: map[string]string{}}
}

func (q *queryParams) String(name string) *string {
	v := strings.TrimSpace(q.r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func (q *queryParams) Int(name string) *int {
	v := q.String(name)
	if v == nil {
		return nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		q.invalid[name] = name + " must be an integer"
		return nil
	}
	return &n
}

// Valid writes a 400 response when any parameter was malformed.
func (q *queryParams) Valid(w http.ResponseWriter) bool {
	if len(q.invalid) == 0 {
		return true
	}
	response.BadRequest(w, "Invalid query parameters", q.invalid)
	return false
}
