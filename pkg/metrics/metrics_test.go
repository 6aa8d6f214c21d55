package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/orders_api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Должно выполняться без паники даже при повторном вызове.
	t.Helper()
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestKafkaCounters_Inc(t *testing.T) {
	metrics.MustRegister()

	beforeConsumed := testutil.ToFloat64(metrics.KafkaMessagesConsumed.WithLabelValues("orders"))
	beforeProcessed := testutil.ToFloat64(metrics.KafkaMessagesProcessed.WithLabelValues("orders"))
	beforeFailed := testutil.ToFloat64(metrics.KafkaMessagesFailed.WithLabelValues("orders"))

	metrics.KafkaMessagesConsumed.WithLabelValues("orders").Inc()
	metrics.KafkaMessagesProcessed.WithLabelValues("orders").Inc()
	metrics.KafkaMessagesFailed.WithLabelValues("orders").Inc()

	if got := testutil.ToFloat64(metrics.KafkaMessagesConsumed.WithLabelValues("orders")); got != beforeConsumed+1 {
		t.Fatalf("KafkaMessagesConsumed: got=%v want=%v", got, beforeConsumed+1)
	}
	if got := testutil.ToFloat64(metrics.KafkaMessagesProcessed.WithLabelValues("orders")); got != beforeProcessed+1 {
		t.Fatalf("KafkaMessagesProcessed: got=%v want=%v", got, beforeProcessed+1)
	}
	if got := testutil.ToFloat64(metrics.KafkaMessagesFailed.WithLabelValues("orders")); got != beforeFailed+1 {
		t.Fatalf("KafkaMessagesFailed: got=%v want=%v", got, beforeFailed+1)
	}
}

func TestObserveServiceCall_ResultLabel(t *testing.T) {
	metrics.MustRegister()

	okBefore := testutil.ToFloat64(metrics.ServiceOps.WithLabelValues(metrics.OpGetOrders, "ok"))
	errBefore := testutil.ToFloat64(metrics.ServiceOps.WithLabelValues(metrics.OpGetOrders, "error"))

	metrics.ObserveServiceCall(metrics.OpGetOrders, time.Now(), nil)
	metrics.ObserveServiceCall(metrics.OpGetOrders, time.Now(), nil)
	metrics.ObserveServiceCall(metrics.OpGetOrders, time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(metrics.ServiceOps.WithLabelValues(metrics.OpGetOrders, "ok")); got != okBefore+2 {
		t.Fatalf("ServiceOps(ok): got=%v want=%v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(metrics.ServiceOps.WithLabelValues(metrics.OpGetOrders, "error")); got != errBefore+1 {
		t.Fatalf("ServiceOps(error): got=%v want=%v", got, errBefore+1)
	}
	if n := testutil.CollectAndCount(metrics.ServiceDuration); n == 0 {
		t.Fatalf("ServiceDuration: expected observed series")
	}
}
