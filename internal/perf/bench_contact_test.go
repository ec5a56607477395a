package perf

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/softsell/softsell/internal/contact"
	"github.com/softsell/softsell/internal/landing"
	"github.com/softsell/softsell/internal/shared"
	"github.com/softsell/softsell/internal/view"
)

func validState() contact.FormState {
	return contact.FormState{
		Name:        "Jane",
		Email:       "jane@x.com",
		Company:     "Acme",
		LicenseType: contact.LicenseAdobe,
		Message:     "Hi",
	}
}

func BenchmarkValidate(b *testing.B) {
	state := validState()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if errs := contact.Validate(state); len(errs) != 0 {
			b.Fatalf("unexpected errors: %v", errs)
		}
	}
}

func BenchmarkValidateEmpty(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if errs := contact.Validate(contact.FormState{}); len(errs) != 5 {
			b.Fatalf("expected 5 errors, got %d", len(errs))
		}
	}
}

func newContactRouter(tb testing.TB) http.Handler {
	tb.Helper()
	templates, err := view.NewEngine()
	if err != nil {
		tb.Fatalf("templates: %v", err)
	}
	content, err := landing.Load()
	if err != nil {
		tb.Fatalf("content: %v", err)
	}
	r := chi.NewRouter()
	contact.NewHandler(contact.HandlerConfig{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Templates: templates,
		CSRF:      shared.NewCSRFManager("bench"),
		Content:   content,
	}).MountRoutes(r)
	return r
}

func BenchmarkRejectedFormRender(b *testing.B) {
	router := newContactRouter(b)
	body := url.Values{"name": {"Jane"}}.Encode()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			b.Fatalf("unexpected status %d", rr.Code)
		}
	}
}

func TestLandingRenderLatencyTarget(t *testing.T) {
	router := newContactRouter(t)
	samples := make([]time.Duration, 0, 50)
	for i := 0; i < cap(samples); i++ {
		start := time.Now()
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		_, _ = io.Copy(io.Discard, rr.Body)
		samples = append(samples, time.Since(start))
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", rr.Code)
		}
	}
	if p95 := percentile95(samples); p95 > 250*time.Millisecond {
		t.Fatalf("landing render regression: p95=%s", p95)
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	return sorted[index]
}
