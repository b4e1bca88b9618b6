package sample_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/actionbridge/internal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_GetResource(t *testing.T) {
	w := httptest.NewRecorder()
	sample.NewApp().ServeHTTP(w, httptest.NewRequest("GET", "/api/object/1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"object","id":"1","info":"resource object id 1"}`, w.Body.String())
}

func TestApp_PostResource(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/object", strings.NewReader(`{"foo":"bar"}`))
	req.Header.Set("Content-Type", "application/json")
	sample.NewApp().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res sample.Resource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "object", res.Name)
	assert.Equal(t, map[string]any{"foo": "bar"}, res.Data)
	assert.NotNil(t, res.ID)
}

func TestApp_Status(t *testing.T) {
	w := httptest.NewRecorder()
	sample.NewApp().ServeHTTP(w, httptest.NewRequest("GET", "/api/status/500?reason=x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"reason":"x"}`, w.Body.String())
}
