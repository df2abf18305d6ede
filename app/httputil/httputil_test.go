package httputil

import (
	"bitwise74/recipe-api/pkg/validators"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("requestID", "req-1")

	return c, w
}

func TestQueryInt(t *testing.T) {
	c, _ := testContext(http.MethodGet, "/?page=3", "")
	n, ok := QueryInt(c, "page", 0)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = QueryInt(c, "limit", 7)
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	c, w := testContext(http.MethodGet, "/?page=abc", "")
	_, ok = QueryInt(c, "page", 0)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type body struct {
	Name *string `json:"name" validate:"omitnil,max=3"`
}

func TestBindAndValidate(t *testing.T) {
	c, w := testContext(http.MethodPost, "/", `{"name":"toolong"}`)

	var b body
	require.True(t, BindJSON(c, &b))
	assert.False(t, Validate(c, b, validators.FieldErrors{"email": {"enter a valid email address"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error     string              `json:"error"`
		Fields    map[string][]string `json:"fields"`
		RequestID string              `json:"requestID"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "Invalid request body", resp.Error)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Contains(t, resp.Fields, "name")
	assert.Contains(t, resp.Fields, "email")
}

func TestBindJSON_Errors(t *testing.T) {
	c, w := testContext(http.MethodPost, "/", "")
	var b body
	assert.False(t, BindJSON(c, &b))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testContext(http.MethodPost, "/", "{broken")
	assert.False(t, BindJSON(c, &b))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
