package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveJob(t *testing.T) {
	t0 := time.Now()
	ObserveJob("digest-test", t0, nil)
	ObserveJob("digest-test", t0, errors.New("send failed"))

	if got := testutil.ToFloat64(jobRuns.WithLabelValues("digest-test")); got != 2 {
		t.Fatalf("runs = %v", got)
	}
	if got := testutil.ToFloat64(jobErrors.WithLabelValues("digest-test")); got != 1 {
		t.Fatalf("errors = %v", got)
	}
}
