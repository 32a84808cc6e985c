package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", func(ctx *gin.Context) { Success(ctx, gin.H{"n": 1}) })
	r.GET("/notice", func(ctx *gin.Context) { Notice(ctx, "Saved", nil) })
	r.GET("/err", func(ctx *gin.Context) { Error(ctx, http.StatusForbidden, 40301, "Access denied") })

	cases := []struct {
		path    string
		status  int
		code    int
		message string
		hasData bool
	}{
		{"/ok", 200, 0, "success", true},
		{"/notice", 200, 0, "Saved", false},
		{"/err", 403, 40301, "Access denied", false},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		_, hasData := body["data"]
		if w.Code != tc.status || body["code"] != float64(tc.code) || body["message"] != tc.message || hasData != tc.hasData {
			t.Errorf("%s: %d %v", tc.path, w.Code, body)
		}
	}
}
