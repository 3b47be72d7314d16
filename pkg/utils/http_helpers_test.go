package utils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "capability-dashboard/pkg/errors"
)

func TestParseFilterFromQueryDefaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.True(t, filter.WithPagination)
	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Sort)
	assert.Empty(t, filter.Filter)
}

func TestParseFilterFromQueryLimitCap(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "9000")
	filter := ParseFilterFromQuery(values)
	assert.Equal(t, MaxLimit, filter.Limit)

	values.Set("limit", "abc")
	filter = ParseFilterFromQuery(values)
	assert.Equal(t, DefaultLimit, filter.Limit)

	values.Set("limit", "-5")
	filter = ParseFilterFromQuery(values)
	assert.Equal(t, DefaultLimit, filter.Limit)
}

func TestParseFilterFromQueryPageOffset(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "50")
	values.Set("page", "3")
	filter := ParseFilterFromQuery(values)

	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 100, filter.Offset)

	// An explicit offset wins over the page calculation.
	values.Set("offset", "7")
	filter = ParseFilterFromQuery(values)
	assert.Equal(t, 7, filter.Offset)
}

func TestParseFilterFromQuerySortAndFilter(t *testing.T) {
	values := url.Values{}
	values.Set("search", "risk")
	values.Set("sort[created_at]", "DESC")
	values.Set("sort[name]", "sideways")
	values.Set("filter[type]", "2")
	values.Add("filter[department_id]", "MRK")
	values.Add("filter[department_id]", "OPS")
	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "risk", filter.Search)
	assert.Equal(t, "desc", filter.Sort["created_at"])
	assert.NotContains(t, filter.Sort, "name")
	assert.Equal(t, "2", filter.Filter["type"])
	// Repeated url.Values entries arrive as one slice; only the first
	// value of each key is consumed.
	assert.Equal(t, "MRK", filter.Filter["department_id"])
}

func TestParseFilterFromQueryWithPaginationFlag(t *testing.T) {
	values := url.Values{}
	values.Set("withPagination", "false")
	assert.False(t, ParseFilterFromQuery(values).WithPagination)

	values.Set("withPagination", "true")
	assert.True(t, ParseFilterFromQuery(values).WithPagination)
}

func TestSuccessResponsePlainBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	err := SuccessResponse(ctx, map[string]string{"id": "1"}, "Successfully", http.StatusOK)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":true,"message":"Successfully","body":{"id":"1"}}`, rec.Body.String())
}

func TestSuccessResponseWithPagination(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?withPagination=true&limit=10&page=2", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	err := SuccessResponse(ctx, []string{"a", "b"}, "Successfully", http.StatusOK, 25)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"status": true,
		"message": "Successfully",
		"body": {
			"list": ["a", "b"],
			"pagination": {"total_count": 25, "page": 2, "limit": 10, "total_pages": 3}
		}
	}`, rec.Body.String())
}

func TestErrorResponseHttpError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	err := ErrorResponse(ctx, apperrors.NewNotFoundError("employee not found"), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"employee not found"}`, rec.Body.String())
}

func TestErrorResponseSentinelMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrConflict, http.StatusBadRequest},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrInvalidToken, http.StatusUnauthorized},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)

		require.NoError(t, ErrorResponse(ctx, tc.err, zap.NewNop()))
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestErrorResponseUnknownErrorIsOpaque(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	require.NoError(t, ErrorResponse(ctx, assert.AnError, zap.NewNop()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"internal server error"}`, rec.Body.String())
}
