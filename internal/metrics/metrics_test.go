package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDocumentCreated(t *testing.T) {
	before := testutil.ToFloat64(documentsCreated.WithLabelValues("QT"))
	ObserveDocumentCreated("QT")
	ObserveDocumentCreated("QT")
	assert.Equal(t, before+2, testutil.ToFloat64(documentsCreated.WithLabelValues("QT")))
}

func TestObserveDispatch_CountsByResult(t *testing.T) {
	before := testutil.ToFloat64(dispatchTotal.WithLabelValues("RC", ResultError))
	ObserveDispatch("RC", ResultError, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(dispatchTotal.WithLabelValues("RC", ResultError)))
}

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	assert.NotPanics(t, func() {
		Register(reg)
		Register(reg)
	})
}
