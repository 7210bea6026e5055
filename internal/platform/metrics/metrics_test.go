package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSourceFetch_CountsByStatus(t *testing.T) {
	before := testutil.ToFloat64(SourceFetchTotal.WithLabelValues("hockey", "error"))

	ObserveSourceFetch("hockey", time.Now(), errors.New("timeout"))

	after := testutil.ToFloat64(SourceFetchTotal.WithLabelValues("hockey", "error"))
	if after-before != 1 {
		t.Fatalf("expected error counter to increase by 1, got %v", after-before)
	}
}

func TestObserveCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(ResponseCacheTotal.WithLabelValues("baseball", "hit"))

	ObserveCacheLookup("baseball", "hit")

	if got := testutil.ToFloat64(ResponseCacheTotal.WithLabelValues("baseball", "hit")) - before; got != 1 {
		t.Fatalf("expected one cache hit, got %v", got)
	}
}

func TestSetCircuitState(t *testing.T) {
	SetCircuitState("jolpica", 2)
	if got := testutil.ToFloat64(CircuitState.WithLabelValues("jolpica")); got != 2 {
		t.Fatalf("expected gauge 2, got %v", got)
	}
}
