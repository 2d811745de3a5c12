//go:build unit

package httperr_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"poorito-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortWithCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	httperr.AbortWithCode(c, http.StatusConflict, "availability_conflict", errors.New("full"), "Not enough slots", map[string]any{"dates": []string{"2025-10-10"}})

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusConflict, w.Code)
	require.Len(t, c.Errors, 1)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "Not enough slots", errBody["message"])
	assert.Equal(t, "availability_conflict", errBody["code"])
	assert.NotNil(t, body["detail"])
}

func TestAbortWithError_OmitsEmptyCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	httperr.AbortWithError(c, http.StatusNotFound, errors.New("missing"), "Booking not found", nil)

	assert.JSONEq(t, `{"error":{"message":"Booking not found"}}`, w.Body.String())
}

func TestAbortWithError_NilCauseIsRecorded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	httperr.AbortWithError(c, http.StatusInternalServerError, nil, "boom", nil)

	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors[0].Err, "boom")
}
