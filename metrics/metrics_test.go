package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecorderExposesCounters(t *testing.T) {
	rec := NewRecorder()
	rec.Operation("persona", "create", "success")
	rec.Operation("persona", "create", "validation_error")
	rec.CacheLookup("persona", true)
	rec.CacheLookup("persona", false)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`liaison_dataservice_operations_total{entity="persona",operation="create",outcome="success"} 1`,
		`liaison_dataservice_cache_lookups_total{entity="persona",result="hit"} 1`,
		`liaison_dataservice_cache_lookups_total{entity="persona",result="miss"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
