package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/users/:id", "404"))
	RecordAPIRequest("GET", "/users/:id", 404, 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/users/:id", "404"))

	assert.Equal(t, before+1, after)
}

func TestRecordFollow(t *testing.T) {
	ok := FollowOperations.WithLabelValues("follow", "success")
	failed := FollowOperations.WithLabelValues("follow", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordFollow("follow", nil)
	RecordFollow("follow", errors.New("already following"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestRecordCacheLookupAndRateLimit(t *testing.T) {
	hits := UserCacheLookups.WithLabelValues("hit")
	before := testutil.ToFloat64(hits)
	RecordCacheLookup("hit")
	assert.Equal(t, before+1, testutil.ToFloat64(hits))

	limited := APIRateLimitHits.WithLabelValues("http")
	before = testutil.ToFloat64(limited)
	RecordRateLimitHit("http")
	assert.Equal(t, before+1, testutil.ToFloat64(limited))
}

func TestRecordCandidates(t *testing.T) {
	assert.NotPanics(t, func() { RecordCandidates("shared_location", 3) })
}
