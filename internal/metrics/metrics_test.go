package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Simplici0/cabkit/internal/validation"
)

func TestRecordEvaluation_CountsFindingsByRule(t *testing.T) {
	findings := []validation.Finding{
		{ID: "metrics-test-rule", Severity: validation.SeverityError},
		{ID: "metrics-test-rule", Severity: validation.SeverityError},
		{ID: "metrics-test-other", Severity: validation.SeverityWarning},
	}

	before := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("metrics-test", "true"))
	RecordEvaluation("metrics-test", findings, true, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(EvaluationsTotal.WithLabelValues("metrics-test", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(FindingsTotal.WithLabelValues("metrics-test-rule", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(FindingsTotal.WithLabelValues("metrics-test-other", "warning")))
}

func TestRecordExport(t *testing.T) {
	before := testutil.ToFloat64(ExportsTotal.WithLabelValues("metrics-test", OutcomeBlocked))
	RecordExport("metrics-test", OutcomeBlocked)
	assert.Equal(t, before+1, testutil.ToFloat64(ExportsTotal.WithLabelValues("metrics-test", OutcomeBlocked)))
}
