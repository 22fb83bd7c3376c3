package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, http.StatusConflict, "Email already exists: a@b.com")

	assert.Equal(t, http.StatusConflict, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusConflict), body["status"])
	assert.Equal(t, "Email already exists: a@b.com", body["message"])
	assert.NotEmpty(t, body["timestamp"])
	assert.False(t, c.IsAborted())
}

func TestAbortWithError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithError(c, http.StatusForbidden, MsgAccessDenied)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, c.IsAborted())

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, MsgAccessDenied, body.Message)
	assert.False(t, body.Timestamp.IsZero())
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ValidationError(c, map[string]string{
		"email":    "must be a valid email",
		"password": "must not be blank",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Equal(t, MsgValidationFailed, body.Message)
	assert.Len(t, body.Errors, 2)
	assert.Equal(t, "must be a valid email", body.Errors["email"])
}
