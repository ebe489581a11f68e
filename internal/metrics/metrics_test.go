package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.EdgeAdded()
		c.Mutation("add_edge", 3)
		c.HistoryMoved("undo")
		c.SearchObserved("found", time.Second)
		c.BreakerState(2)
		c.TreeOperation("save", nil)
		c.Import("json", errors.New("boom"))
		c.ObserveRequest("GET", "/health", 200, time.Millisecond)
	})
	assert.Nil(t, c.Registry())
}

func TestCollector(t *testing.T) {
	c := NewCollector("ucsboard")

	c.EdgeAdded()
	c.EdgeAdded()
	c.Mutation("add_edge", 3)
	c.SearchObserved("failed", 10*time.Millisecond)
	c.TreeOperation("load", errors.New("missing"))
	c.Import("hcl", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.edgesAdded))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.nodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.searches.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.treeOps.WithLabelValues("load", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.imports.WithLabelValues("hcl", "ok")))

	// separate collectors do not collide
	assert.NotPanics(t, func() { NewCollector("ucsboard") })
}

func TestHandler(t *testing.T) {
	c := NewCollector("ucsboard")
	c.ObserveRequest("GET", "/api/tree", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ucsboard_http_requests_total{method="GET",route="/api/tree",status="200"} 1`)
}
