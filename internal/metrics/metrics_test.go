package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/bookings", "200"))
	RecordHTTPRequest("GET", "/bookings", "200", 0.05)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/bookings", "200"))
	require.Equal(t, before+1, after)
}

func TestRecordBooking(t *testing.T) {
	before := testutil.ToFloat64(BookingsTotal.WithLabelValues("room"))
	RecordBooking("room")
	after := testutil.ToFloat64(BookingsTotal.WithLabelValues("room"))
	require.Equal(t, before+1, after)
}

func TestRecordWebhookEvent(t *testing.T) {
	before := testutil.ToFloat64(WebhookEventsTotal.WithLabelValues("payment.captured", "processed"))
	RecordWebhookEvent("payment.captured", "processed")
	after := testutil.ToFloat64(WebhookEventsTotal.WithLabelValues("payment.captured", "processed"))
	require.Equal(t, before+1, after)
}

func TestRecordPayoutRequest(t *testing.T) {
	before := testutil.ToFloat64(PayoutRequestsTotal.WithLabelValues("created"))
	RecordPayoutRequest("created")
	after := testutil.ToFloat64(PayoutRequestsTotal.WithLabelValues("created"))
	require.Equal(t, before+1, after)
}
