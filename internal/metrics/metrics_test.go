package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFriendRequest(t *testing.T) {
	before := testutil.ToFloat64(friendRequests.WithLabelValues("sent"))
	RecordFriendRequest("sent")
	assert.Equal(t, before+1, testutil.ToFloat64(friendRequests.WithLabelValues("sent")))
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/api/users", "200", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "language_exchange_http_requests_total"))
}
