package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-warehouse-client/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordLogin(false)
	c.RecordLogout()
	c.RecordGuardDecision("redirect", "Login")
	c.RecordStorageFailure("set")
	c.RecordNotification("error")
	c.RecordCurrentUser(true)

	count, err := testutil.GatherAndCount(reg, "warehouse_client_logins_total")
	require.NoError(t, err)
	require.Equal(t, 2, count) // two label sets

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	require.Contains(t, string(body), `warehouse_client_logins_total{result="failure"} 2`)
	require.Contains(t, string(body), `warehouse_client_guard_decisions_total{decision="redirect",route="Login"} 1`)
	require.Contains(t, string(body), "warehouse_client_logouts_total 1")
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *metrics.Collector
	require.NotPanics(t, func() {
		c.RecordLogin(true)
		c.RecordLogout()
		c.RecordCurrentUser(false)
		c.RecordGuardDecision("allow", "Products")
		c.RecordStorageFailure("remove")
		c.RecordNotification("info")
	})
}
