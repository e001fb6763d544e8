package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestNewCollector_DoubleRegisterPanics は同じレジストリへの二重登録がpanicすることを検証する。
func TestNewCollector_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	_ = NewCollector(reg)
}

// TestRecordHTTPRequest_LabelsAndDuration はルート・メソッド・ステータス別に記録されることを検証する。
func TestRecordHTTPRequest_LabelsAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest("GET", "/services/{id}", 200, 10*time.Millisecond)
	c.RecordHTTPRequest("GET", "/services/{id}", 200, 20*time.Millisecond)
	c.RecordHTTPRequest("GET", "/services/{id}", 404, 5*time.Millisecond)

	mf := gatherFamily(t, reg, "cardoctor_http_requests_total")
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 label sets, got %d", len(mf.GetMetric()))
	}
	for _, m := range mf.GetMetric() {
		if labelValue(m, "route") != "/services/{id}" {
			t.Errorf("route = %q, want %q", labelValue(m, "route"), "/services/{id}")
		}
		switch labelValue(m, "status") {
		case "200":
			if v := m.GetCounter().GetValue(); v != 2 {
				t.Errorf("status 200 count = %v, want 2", v)
			}
		case "404":
			if v := m.GetCounter().GetValue(); v != 1 {
				t.Errorf("status 404 count = %v, want 1", v)
			}
		default:
			t.Errorf("unexpected status label %q", labelValue(m, "status"))
		}
	}

	hist := gatherFamily(t, reg, "cardoctor_http_request_duration_seconds")
	if got := hist.GetMetric()[0].GetHistogram().GetSampleCount(); got != 3 {
		t.Errorf("sample count = %d, want 3", got)
	}
}

// TestRecordTokenIssued_IncrementsCounter はトークン発行カウンタが増加することを検証する。
func TestRecordTokenIssued_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenIssued()
	c.RecordTokenIssued()

	mf := gatherFamily(t, reg, "cardoctor_tokens_issued_total")
	if v := mf.GetMetric()[0].GetCounter().GetValue(); v != 2 {
		t.Errorf("tokens_issued_total = %v, want 2", v)
	}
}

// TestRecordAuthFailure_ByReason は理由ラベル別に記録されることを検証する。
func TestRecordAuthFailure_ByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthFailure("missing")
	c.RecordAuthFailure("expired")
	c.RecordAuthFailure("expired")

	mf := gatherFamily(t, reg, "cardoctor_auth_failures_total")
	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		got[labelValue(m, "reason")] = m.GetCounter().GetValue()
	}
	if got["missing"] != 1 || got["expired"] != 2 {
		t.Errorf("auth failures = %v, want missing=1 expired=2", got)
	}
}

// TestRecordBookingAction_ByAction は操作別に記録されることを検証する。
func TestRecordBookingAction_ByAction(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBookingAction(BookingActionCreate)
	c.RecordBookingAction(BookingActionConfirm)
	c.RecordBookingAction(BookingActionCreate)

	mf := gatherFamily(t, reg, "cardoctor_bookings_total")
	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		got[labelValue(m, "action")] = m.GetCounter().GetValue()
	}
	if got[BookingActionCreate] != 2 || got[BookingActionConfirm] != 1 {
		t.Errorf("bookings = %v, want create=2 confirm=1", got)
	}
}
