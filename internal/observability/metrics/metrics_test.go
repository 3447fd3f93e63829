package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMustRegisterCurriesServiceLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg, "campusnest-test")
	MustRegister(reg, "ignored")

	ReviewsSubmittedTotal.WithLabelValues("success").Inc()
	FavoriteChangesTotal.WithLabelValues("add", "conflict").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "campusnest_favorite_changes_total" {
			continue
		}
		found = true
		m := mf.GetMetric()
		if len(m) != 1 {
			t.Fatalf("expected one series, got %d", len(m))
		}
		labels := map[string]string{}
		for _, lp := range m[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["service"] != "campusnest-test" || labels["action"] != "add" {
			t.Fatalf("unexpected labels %v", labels)
		}
		if m[0].GetCounter().GetValue() != 1 {
			t.Fatalf("expected counter 1, got %v", m[0].GetCounter().GetValue())
		}
	}
	if !found {
		t.Fatalf("campusnest_favorite_changes_total not gathered")
	}
}

func TestResult(t *testing.T) {
	if Result(nil) != "success" || Result(errors.New("x")) != "failure" {
		t.Fatalf("unexpected result labels")
	}
}
