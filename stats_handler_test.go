package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/lulusir/middleware"
)

type ctxStub struct{ hits int }

func TestStatsHandlerEmptyRegistry(t *testing.T) {
	t.Parallel()

	reg := middleware.NewRegistry()
	rec := httptest.NewRecorder()

	middleware.StatsHandler(reg).ServeHTTP(
		rec,
		httptest.NewRequest(http.MethodGet, "/stats", nil),
	)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap middleware.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Empty(t, snap.Runners)
	require.Zero(t, snap.Runs)
}

func TestStatsHandlerReportsRunners(t *testing.T) {
	t.Parallel()

	reg := middleware.NewRegistry()

	r := middleware.NewRunner[*ctxStub]("checkout", middleware.WithRegistry(reg))
	r.Use(func(c *ctxStub, next middleware.Next) error {
		c.hits++
		next()
		return nil
	})
	r.Use(func(_ *ctxStub, _ middleware.Next) error {
		return errBoom
	})

	_, err := r.Run(&ctxStub{})
	require.ErrorIs(t, err, errBoom)
	_, err = r.Run(&ctxStub{})
	require.ErrorIs(t, err, errBoom)

	rec := httptest.NewRecorder()
	middleware.StatsHandler(reg).ServeHTTP(
		rec,
		httptest.NewRequest(http.MethodGet, "/stats", nil),
	)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap middleware.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Len(t, snap.Runners, 1)
	require.Equal(t, int64(2), snap.Runs)
	require.Equal(t, int64(2), snap.FailedRuns)

	st := snap.Runners[0]
	require.Equal(t, "checkout", st.Name)
	require.Equal(t, "boom", st.LastError)
	require.Equal(t, int64(2), st.HandlerFailures)
	require.Zero(t, st.Panics)
}

func TestStatsHandlerJSONFieldNames(t *testing.T) {
	t.Parallel()

	reg := middleware.NewRegistry()
	middleware.NewRunner[*ctxStub]("webhooks", middleware.WithRegistry(reg))

	rec := httptest.NewRecorder()
	middleware.StatsHandler(reg).ServeHTTP(
		rec,
		httptest.NewRequest(http.MethodGet, "/stats", nil),
	)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Contains(t, raw, "runners")
	require.Contains(t, raw, "runs")
	require.Contains(t, raw, "failed_runs")

	runners, ok := raw["runners"].([]any)
	require.True(t, ok)
	require.Len(t, runners, 1)

	first, ok := runners[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "webhooks", first["name"])
	require.NotContains(t, first, "last_error")
}
