package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtreview/app/review/service"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, httpStatus(service.AccessDenied("admin only")))
	assert.Equal(t, http.StatusConflict, httpStatus(service.Conflict("duplicate")))
	assert.Equal(t, http.StatusNotFound, httpStatus(service.NotFound("missing")))
	assert.Equal(t, http.StatusBadRequest, httpStatus(service.Invalid("bad input")))
	assert.Equal(t, http.StatusInternalServerError, httpStatus(service.ErrDatabase))
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestErrorMasksInternalDetail(t *testing.T) {
	c, w := newTestContext(t)
	Error(c, service.ErrDatabase)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "internal server error", got["msg"])
}

func TestErrorDomainMessagePassesThrough(t *testing.T) {
	c, w := newTestContext(t)
	c.Set("requestId", "req-1")
	Error(c, service.Conflict("you have already annotated this work item"))

	assert.Equal(t, http.StatusConflict, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "you have already annotated this work item", got["msg"])
	assert.Equal(t, float64(http.StatusConflict), got["code"])
	assert.Equal(t, "req-1", got["requestId"])
}

func TestPageOK(t *testing.T) {
	c, w := newTestContext(t)
	PageOK(c, []string{"a", "b"}, 12, 2, 10, "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(12), got["count"])
	assert.Equal(t, float64(2), got["pageIndex"])
	assert.Equal(t, float64(10), got["pageSize"])
}
