package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	postgresql_mock "github.com/muhammadchandra19/spot-exchange/pkg/postgresql/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(ctrl *gomock.Controller, hc *HealthCheck)
		assertFn func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "no dependencies",
			mockFn: func(ctrl *gomock.Controller, hc *HealthCheck) {},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
			},
		},
		{
			name: "postgres reachable",
			mockFn: func(ctrl *gomock.Controller, hc *HealthCheck) {
				db := postgresql_mock.NewMockPostgreSQLClient(ctrl)
				db.EXPECT().Ping(gomock.Any()).Return(nil)
				hc.Register("postgresql", db.Ping)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				var report Report
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
				assert.Equal(t, "ok", report.Checks["postgresql"])
			},
		},
		{
			name: "one dependency down",
			mockFn: func(ctrl *gomock.Controller, hc *HealthCheck) {
				hc.Register("redis", func(ctx context.Context) error { return nil })
				hc.Register("kafka", func(ctx context.Context) error { return fmt.Errorf("no leader") })
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
				var report Report
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
				assert.Equal(t, "unavailable", report.Status)
				assert.Equal(t, "no leader", report.Checks["kafka"])
				assert.Equal(t, "ok", report.Checks["redis"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			hc := New(time.Second)
			tc.mockFn(ctrl, hc)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})
			rec := httptest.NewRecorder()
			hc.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			tc.assertFn(t, rec)
		})
	}
}

func TestHandlerPassesThrough(t *testing.T) {
	hc := New(time.Second)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	hc.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/books", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
