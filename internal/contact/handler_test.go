package contact_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softsell/softsell/internal/contact"
	"github.com/softsell/softsell/internal/landing"
	"github.com/softsell/softsell/internal/shared"
	"github.com/softsell/softsell/internal/view"
	_ "github.com/softsell/softsell/testing"
)

type recordingObserver struct {
	calls [][]string
}

func (o *recordingObserver) ObserveContactSubmission(failed []string) {
	o.calls = append(o.calls, failed)
}

type memoryRepo struct {
	leads []contact.Lead
}

func (m *memoryRepo) Insert(ctx context.Context, lead contact.Lead) error {
	m.leads = append(m.leads, lead)
	return nil
}

func (m *memoryRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// harness plays the role of the session middleware for a single visitor.
type harness struct {
	t         *testing.T
	router    http.Handler
	sessions  *shared.SessionManager
	sessionID string
	observer  *recordingObserver
	repo      *memoryRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	templates, err := view.NewEngine()
	require.NoError(t, err)
	content, err := landing.Load()
	require.NoError(t, err)

	h := &harness{
		t:        t,
		sessions: shared.NewSessionManager(client, "test_session", time.Hour, false),
		observer: &recordingObserver{},
		repo:     &memoryRepo{},
	}
	handler := contact.NewHandler(contact.HandlerConfig{
		Templates: templates,
		CSRF:      shared.NewCSRFManager("csrfsecret"),
		Content:   content,
		Service:   contact.NewService(h.repo, nil),
		Observer:  h.observer,
	})
	r := chi.NewRouter()
	handler.MountRoutes(r)
	h.router = r
	return h
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	h.t.Helper()
	if h.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: h.sessions.CookieName(), Value: h.sessionID})
	}
	sess, err := h.sessions.Load(context.Background(), req)
	require.NoError(h.t, err)
	h.sessionID = sess.ID

	ctx := shared.ContextWithSession(req.Context(), sess)
	res := httptest.NewRecorder()
	h.router.ServeHTTP(res, req.WithContext(ctx))
	require.NoError(h.t, h.sessions.Commit(ctx, httptest.NewRecorder(), sess))
	return res
}

func (h *harness) postForm(values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *harness) postJSON(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return h.do(req)
}

func validValues() url.Values {
	return url.Values{
		"name":        {"Jane"},
		"email":       {"jane@x.com"},
		"company":     {"Acme"},
		"licenseType": {"Adobe"},
		"message":     {"Hi"},
	}
}

func TestLandingPageRendersForm(t *testing.T) {
	h := newHarness(t)

	res := h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, res.Code)

	body := res.Body.String()
	assert.Contains(t, body, "Turn Unused Software Licenses Into Cash")
	assert.Contains(t, body, `<form method="post" action="/contact"`)
	assert.Contains(t, body, `name="csrf_token"`)
	assert.Contains(t, body, `placeholder="Company"`)
	assert.Contains(t, body, `<option value="Office365">Office 365</option>`)
	assert.Contains(t, body, "We ensure secure transfers for every transaction.")
	assert.NotContains(t, body, "Form submitted!")
	assert.NotContains(t, body, "is required")
}

func TestSubmitEmptyFormShowsEveryError(t *testing.T) {
	h := newHarness(t)

	res := h.postForm(url.Values{})
	require.Equal(t, http.StatusBadRequest, res.Code)

	body := res.Body.String()
	for _, msg := range []string{
		"Name is required",
		"Valid email is required",
		"Company is required",
		"Select a license type",
		"Message is required",
	} {
		assert.Contains(t, body, msg)
	}
	assert.NotContains(t, body, "Form submitted!")
	assert.Empty(t, h.repo.leads)
	require.Len(t, h.observer.calls, 1)
	assert.Equal(t, []string{"name", "email", "company", "licenseType", "message"}, h.observer.calls[0])
}

func TestSubmitInvalidFormKeepsValues(t *testing.T) {
	h := newHarness(t)
	values := validValues()
	values.Set("email", "not-an-email")

	res := h.postForm(values)
	require.Equal(t, http.StatusBadRequest, res.Code)

	body := res.Body.String()
	assert.Contains(t, body, "Valid email is required")
	assert.NotContains(t, body, "Name is required")
	assert.Contains(t, body, `value="not-an-email"`)
	assert.Contains(t, body, `<option value="Adobe" selected>`)
}

func TestSubmitValidFormRedirectsWithNoticeOnce(t *testing.T) {
	h := newHarness(t)

	res := h.postForm(validValues())
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/#contact", res.Header().Get("Location"))
	require.Len(t, h.repo.leads, 1)
	assert.Equal(t, "jane@x.com", h.repo.leads[0].Email)
	assert.Equal(t, [][]string{{}}, h.observer.calls)

	page := h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Equal(t, 1, strings.Count(page.Body.String(), "Form submitted!"))
	assert.NotContains(t, page.Body.String(), `value="Jane"`, "form is reset")

	again := h.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, again.Body.String(), "Form submitted!")
}

func TestSubmitJSON(t *testing.T) {
	h := newHarness(t)

	res := h.postJSON(`{"name":"Jane","email":"jane@x.com","company":"Acme","licenseType":"Adobe","message":"Hi"}`)
	require.Equal(t, http.StatusOK, res.Code)
	var ok map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &ok))
	assert.Equal(t, "submitted", ok["status"])
	assert.Equal(t, "Form submitted!", ok["message"])
	assert.Len(t, h.repo.leads, 1)

	res = h.postJSON(`{"name":"Jane","email":"jane@x.com","company":"Acme","licenseType":"","message":"Hi"}`)
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	var invalid struct {
		Status string            `json:"status"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &invalid))
	assert.Equal(t, "invalid", invalid.Status)
	assert.Equal(t, map[string]string{"licenseType": "Select a license type"}, invalid.Errors)
	assert.Len(t, h.repo.leads, 1)
}

func TestSubmitJSONMalformed(t *testing.T) {
	h := newHarness(t)

	res := h.postJSON(`{"name":`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))
	assert.Empty(t, h.observer.calls)
}
