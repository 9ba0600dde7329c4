package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	require.Equal(t, "success", Result(nil))
	require.Equal(t, "failure", Result(errors.New("boom")))
}

func TestResourceOperationsCounter(t *testing.T) {
	counter := ResourceOperations.WithLabelValues("posts", "create", "success")
	before := testutil.ToFloat64(counter)
	counter.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(counter))
}
