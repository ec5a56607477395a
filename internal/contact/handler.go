package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/softsell/softsell/internal/landing"
	"github.com/softsell/softsell/internal/platform/httpx"
	"github.com/softsell/softsell/internal/shared"
	"github.com/softsell/softsell/internal/view"
)

const (
	landingTemplate = "pages/landing.html"
	formAction      = "/contact"
	apiAction       = "/api/contact"
	formAnchor      = "/#contact"
	maxBodyBytes    = 64 << 10
)

// Observer records submission outcomes. failed lists the rejected fields and
// is empty for accepted submissions.
type Observer interface {
	ObserveContactSubmission(failed []string)
}

// HandlerConfig groups Handler dependencies. Service, Observer and a zero
// RateLimit are optional.
type HandlerConfig struct {
	Logger    *slog.Logger
	Templates *view.Engine
	CSRF      *shared.CSRFManager
	Content   landing.Page
	Service   *Service
	Observer  Observer
	// RateLimit caps submissions per client IP per minute.
	RateLimit int
}

// Handler serves the landing page and accepts contact form submissions.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	csrf      *shared.CSRFManager
	content   landing.Page
	service   *Service
	observer  Observer
	rateLimit int
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		templates: cfg.Templates,
		csrf:      cfg.CSRF,
		content:   cfg.Content,
		service:   cfg.Service,
		observer:  cfg.Observer,
		rateLimit: cfg.RateLimit,
	}
}

// MountRoutes registers the page and submission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showLanding)
	r.Group(func(r chi.Router) {
		if h.rateLimit > 0 {
			r.Use(httprate.LimitByIP(h.rateLimit, time.Minute))
		}
		r.Post(formAction, h.submitForm)
		r.Post(apiAction, h.submitJSON)
	})
}

func (h *Handler) showLanding(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, NewController(nil))
}

func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	ctrl := NewController(NoticeFunc(func(message string) {
		if sess == nil {
			h.logger.Warn("contact accepted without session, notice dropped")
			return
		}
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: message})
	}))
	for _, field := range Fields() {
		ctrl.UpdateField(field, r.PostFormValue(string(field)))
	}

	outcome := ctrl.Submit()
	h.observe(outcome)
	if !outcome.Accepted {
		h.render(w, r, http.StatusBadRequest, ctrl)
		return
	}
	h.capture(r, outcome.Submitted)
	http.Redirect(w, r, formAnchor, http.StatusSeeOther)
}

type submitRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	LicenseType string `json:"licenseType"`
	Message     string `json:"message"`
}

type submitResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (h *Handler) submitJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	var notice string
	ctrl := NewController(NoticeFunc(func(message string) { notice = message }))
	ctrl.UpdateField(FieldName, req.Name)
	ctrl.UpdateField(FieldEmail, req.Email)
	ctrl.UpdateField(FieldCompany, req.Company)
	ctrl.UpdateField(FieldLicenseType, req.LicenseType)
	ctrl.UpdateField(FieldMessage, req.Message)

	outcome := ctrl.Submit()
	h.observe(outcome)
	if !outcome.Accepted {
		httpx.JSON(w, http.StatusUnprocessableEntity, submitResponse{
			Status: "invalid",
			Errors: outcome.Errors.Strings(),
		})
		return
	}
	h.capture(r, outcome.Submitted)
	httpx.JSON(w, http.StatusOK, submitResponse{Status: "submitted", Message: notice})
}

// capture hands an accepted form to the lead service. Failures are logged
// only: the visitor's submission was valid and has been acknowledged.
func (h *Handler) capture(r *http.Request, state FormState) {
	if h.service == nil {
		return
	}
	meta := RequestMeta{RemoteAddr: r.RemoteAddr, UserAgent: r.UserAgent()}
	lead, err := h.service.Capture(r.Context(), state, meta)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			level = slog.LevelInfo
		}
		h.logger.Log(r.Context(), level, "capture lead", slog.Any("error", err))
		return
	}
	h.logger.Info("lead captured", slog.String("lead_id", lead.ID.String()), slog.String("license_type", string(lead.LicenseType)))
}

func (h *Handler) observe(outcome Outcome) {
	if h.observer == nil {
		return
	}
	failed := make([]string, 0, len(outcome.Errors))
	for _, f := range outcome.Errors.Fields() {
		failed = append(failed, string(f))
	}
	h.observer.ObserveContactSubmission(failed)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, ctrl *Controller) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, err := h.csrf.EnsureToken(sess)
	if err != nil {
		h.logger.Warn("csrf token", slog.Any("error", err))
	}
	data := view.TemplateData{
		Title:       h.content.Brand,
		CSRFToken:   csrfToken,
		Flash:       shared.PopFlash(r.Context()),
		CurrentPath: r.URL.Path,
		Data: pageData{
			Content: h.content,
			Form:    newFormView(ctrl.State(), ctrl.Errors()),
		},
	}
	if err := h.templates.Render(w, status, landingTemplate, data); err != nil {
		h.logger.Error("render landing", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
