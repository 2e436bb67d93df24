// Package handler exposes the evaluation workflow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	"github.com/Joenyengs/backend/internal/evaluation/service"
	"github.com/Joenyengs/backend/internal/policy"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	"github.com/Joenyengs/backend/pkg/platform/httputil"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// Service is the evaluation core as seen by the HTTP adapter.
type Service interface {
	SubmitApplication(ctx context.Context, req service.SubmitApplicationRequest) (*models.Application, error)
	GetApplication(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error)
	GetApplicationByCandidate(ctx context.Context, candidateID id.UserID) (*models.Application, error)
	ListApplications(ctx context.Context, statuses ...models.Status) ([]*models.Application, error)
	UpdateAdminComment(ctx context.Context, applicationID id.ApplicationID, adminID id.UserID, comment string) (*models.Application, error)
	StatusSummary(ctx context.Context) (map[models.Status]int, error)
	RoundSummary(ctx context.Context) (*models.RoundSummary, error)
	ExclusionSummary(ctx context.Context) (*models.ExclusionSummary, error)
	RecordTreatment(ctx context.Context, req service.RecordTreatmentRequest) (*models.Treatment, error)
	ListTreatments(ctx context.Context, applicationID id.ApplicationID) ([]*models.Treatment, error)
	FileAppeal(ctx context.Context, req service.FileAppealRequest) (*models.Appeal, error)
	ResolveAppeal(ctx context.Context, req service.ResolveAppealRequest) (*models.Appeal, error)
	GetAppeal(ctx context.Context, appealID id.AppealID) (*models.Appeal, error)
	GetAppealByApplication(ctx context.Context, applicationID id.ApplicationID) (*models.Appeal, error)
	ListAppeals(ctx context.Context, unresolvedOnly bool) ([]*models.Appeal, error)
	ListAppealActions(ctx context.Context, appealID id.AppealID) ([]*models.AppealAction, error)
}

// Handler wires the evaluation endpoints to the service.
type Handler struct {
	service Service
	checker policy.CapabilityChecker
	logger  *slog.Logger
}

func New(svc Service, checker policy.CapabilityChecker, logger *slog.Logger) *Handler {
	return &Handler{
		service: svc,
		checker: checker,
		logger:  logger,
	}
}

// Register mounts the endpoints. Routes expect the auth middleware upstream.
func (h *Handler) Register(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", h.HandleSubmitApplication)
		r.Get("/", h.HandleListApplications)
		r.Get("/me", h.HandleGetMyApplication)
		r.Get("/summary", h.HandleSummary)
		r.Get("/summary/rounds", h.HandleRoundSummary)
		r.Get("/summary/exclusions", h.HandleExclusionSummary)
		r.Get("/{applicationID}", h.HandleGetApplication)
		r.Put("/{applicationID}/comment", h.HandleUpdateComment)
		r.Post("/{applicationID}/treatments", h.HandleRecordTreatment)
		r.Get("/{applicationID}/treatments", h.HandleListTreatments)
		r.Post("/{applicationID}/appeal", h.HandleFileAppeal)
		r.Get("/{applicationID}/appeal", h.HandleGetApplicationAppeal)
	})
	r.Route("/appeals", func(r chi.Router) {
		r.Get("/", h.HandleListAppeals)
		r.Get("/{appealID}", h.HandleGetAppeal)
		r.Get("/{appealID}/actions", h.HandleListAppealActions)
		r.Post("/{appealID}/resolve", h.HandleResolveAppeal)
	})
}

// HandleSubmitApplication handles POST /applications.
func (h *Handler) HandleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor, ok := h.authorize(w, r, policy.ActionSubmitApplication, policy.Resource{})
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitApplicationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var app *models.Application
	err := retryOnTimeout(ctx, func() error {
		var err error
		app, err = h.service.SubmitApplication(ctx, service.SubmitApplicationRequest{
			CandidateID: actor.ID,
			Profile:     req.Profile(),
			Documents:   req.Documents,
		})
		return err
	})
	if err != nil {
		h.fail(ctx, w, "application submission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromApplication(app))
}

// HandleGetMyApplication handles GET /applications/me.
func (h *Handler) HandleGetMyApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.authorize(w, r, policy.ActionViewApplication, policy.Resource{})
	if !ok {
		return
	}
	app, err := h.service.GetApplicationByCandidate(ctx, actor.ID)
	if err != nil {
		h.fail(ctx, w, "application lookup failed", err)
		return
	}
	if !h.allowed(w, actor, policy.ActionViewApplication, policy.Resource{OwnerID: app.CandidateID}) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleListApplications handles GET /applications?status=submitted,in_review.
func (h *Handler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.authorize(w, r, policy.ActionListApplications, policy.Resource{}); !ok {
		return
	}
	statuses, err := parseStatuses(r.URL.Query()["status"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	apps, err := h.service.ListApplications(ctx, statuses...)
	if err != nil {
		h.fail(ctx, w, "application listing failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplications(apps))
}

// HandleSummary handles GET /applications/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.authorize(w, r, policy.ActionViewSummary, policy.Resource{}); !ok {
		return
	}
	summary, err := h.service.StatusSummary(ctx)
	if err != nil {
		h.fail(ctx, w, "status summary failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSummary(summary))
}

// HandleRoundSummary handles GET /applications/summary/rounds.
func (h *Handler) HandleRoundSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.authorize(w, r, policy.ActionViewSummary, policy.Resource{}); !ok {
		return
	}
	summary, err := h.service.RoundSummary(ctx)
	if err != nil {
		h.fail(ctx, w, "round summary failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRoundSummary(summary))
}

// HandleExclusionSummary handles GET /applications/summary/exclusions.
func (h *Handler) HandleExclusionSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.authorize(w, r, policy.ActionViewSummary, policy.Resource{}); !ok {
		return
	}
	summary, err := h.service.ExclusionSummary(ctx)
	if err != nil {
		h.fail(ctx, w, "exclusion summary failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromExclusionSummary(summary))
}

// HandleGetApplication handles GET /applications/{applicationID}.
func (h *Handler) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicationID, ok := applicationIDParam(w, r)
	if !ok {
		return
	}
	app, err := h.service.GetApplication(ctx, applicationID)
	if err != nil {
		h.fail(ctx, w, "application lookup failed", err)
		return
	}
	if !h.allowed(w, actorFrom(ctx), policy.ActionViewApplication, policy.Resource{OwnerID: app.CandidateID}) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleUpdateComment handles PUT /applications/{applicationID}/comment.
func (h *Handler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor, ok := h.authorize(w, r, policy.ActionCommentApplication, policy.Resource{})
	if !ok {
		return
	}
	applicationID, ok := applicationIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateCommentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var app *models.Application
	err := retryOnTimeout(ctx, func() error {
		var err error
		app, err = h.service.UpdateAdminComment(ctx, applicationID, actor.ID, req.Comment)
		return err
	})
	if err != nil {
		h.fail(ctx, w, "admin comment update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleRecordTreatment handles POST /applications/{applicationID}/treatments.
func (h *Handler) HandleRecordTreatment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()
	actor, ok := h.authorize(w, r, policy.ActionRecordTreatment, policy.Resource{})
	if !ok {
		return
	}
	applicationID, ok := applicationIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordTreatmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var treatment *models.Treatment
	err := retryOnTimeout(ctx, func() error {
		var err error
		treatment, err = h.service.RecordTreatment(ctx, service.RecordTreatmentRequest{
			ApplicationID: applicationID,
			EvaluatorID:   actor.ID,
			Conformity:    req.ParsedConformity(),
			Observations:  req.Observations,
		})
		return err
	})
	if err != nil {
		h.fail(ctx, w, "treatment recording failed", err)
		return
	}

	app, err := h.service.GetApplication(ctx, applicationID)
	if err != nil {
		h.fail(ctx, w, "application lookup failed", err)
		return
	}
	h.logger.InfoContext(ctx, "treatment request completed",
		"request_id", requestID,
		"application_id", applicationID.String(),
		"round", treatment.Round,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, RecordTreatmentResponse{
		Treatment: FromTreatment(treatment),
		Status:    app.Status.String(),
	})
}

// HandleListTreatments handles GET /applications/{applicationID}/treatments.
func (h *Handler) HandleListTreatments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.authorize(w, r, policy.ActionViewTreatments, policy.Resource{}); !ok {
		return
	}
	applicationID, ok := applicationIDParam(w, r)
	if !ok {
		return
	}
	treatments, err := h.service.ListTreatments(ctx, applicationID)
	if err != nil {
		h.fail(ctx, w, "treatment listing failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTreatments(treatments))
}

// HandleFileAppeal handles POST /applications/{applicationID}/appeal.
func (h *Handler) HandleFileAppeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor, ok := h.authorize(w, r, policy.ActionFileAppeal, policy.Resource{})
	if !ok {
		return
	}
	applicationID, ok := applicationIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FileAppealRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var appeal *models.Appeal
	err := retryOnTimeout(ctx, func() error {
		var err error
		appeal, err = h.service.FileAppeal(ctx, service.FileAppealRequest{
			ApplicationID: applicationID,
			CandidateID:   actor.ID,
			Motive:        req.Motive,
			Justification: req.Justification,
			Document:      req.Document,
		})
		return err
	})
	if err != nil {
		h.fail(ctx, w, "appeal filing failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromAppeal(appeal))
}

// HandleGetApplicationAppeal handles GET /applications/{applicationID}/appeal.
func (h *Handler) HandleGetApplicationAppeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applicationID, ok := applicationIDParam(w, r)
	if !ok {
		return
	}
	appeal, err := h.service.GetAppealByApplication(ctx, applicationID)
	if err != nil {
		h.fail(ctx, w, "appeal lookup failed", err)
		return
	}
	if !h.allowed(w, actorFrom(ctx), policy.ActionViewAppeal, policy.Resource{OwnerID: appeal.CandidateID}) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAppeal(appeal))
}

// HandleListAppeals handles GET /appeals?pending=true.
func (h *Handler) HandleListAppeals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.authorize(w, r, policy.ActionListAppeals, policy.Resource{}); !ok {
		return
	}
	pending := r.URL.Query().Get("pending") == "true"
	appeals, err := h.service.ListAppeals(ctx, pending)
	if err != nil {
		h.fail(ctx, w, "appeal listing failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAppeals(appeals))
}

// HandleGetAppeal handles GET /appeals/{appealID}.
func (h *Handler) HandleGetAppeal(w http.ResponseWriter, r *http.Request) {
	appeal, ok := h.loadVisibleAppeal(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAppeal(appeal))
}

// HandleListAppealActions handles GET /appeals/{appealID}/actions.
func (h *Handler) HandleListAppealActions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appeal, ok := h.loadVisibleAppeal(w, r)
	if !ok {
		return
	}
	actions, err := h.service.ListAppealActions(ctx, appeal.ID)
	if err != nil {
		h.fail(ctx, w, "appeal history lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAppealActions(actions))
}

// HandleResolveAppeal handles POST /appeals/{appealID}/resolve.
func (h *Handler) HandleResolveAppeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	actor, ok := h.authorize(w, r, policy.ActionResolveAppeal, policy.Resource{})
	if !ok {
		return
	}
	appealID, err := id.ParseAppealID(chi.URLParam(r, "appealID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ResolveAppealRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var appeal *models.Appeal
	err = retryOnTimeout(ctx, func() error {
		var err error
		appeal, err = h.service.ResolveAppeal(ctx, service.ResolveAppealRequest{
			AppealID: appealID,
			AdminID:  actor.ID,
			Comment:  req.Comment,
			Overturn: req.Overturn,
		})
		return err
	})
	if err != nil {
		h.fail(ctx, w, "appeal resolution failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAppeal(appeal))
}

func (h *Handler) loadVisibleAppeal(w http.ResponseWriter, r *http.Request) (*models.Appeal, bool) {
	ctx := r.Context()
	appealID, err := id.ParseAppealID(chi.URLParam(r, "appealID"))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	appeal, err := h.service.GetAppeal(ctx, appealID)
	if err != nil {
		h.fail(ctx, w, "appeal lookup failed", err)
		return nil, false
	}
	if !h.allowed(w, actorFrom(ctx), policy.ActionViewAppeal, policy.Resource{OwnerID: appeal.CandidateID}) {
		return nil, false
	}
	return appeal, true
}

// authorize checks a capability that does not depend on a loaded resource.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action policy.Action, resource policy.Resource) (policy.Actor, bool) {
	actor := actorFrom(r.Context())
	if actor.ID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return actor, false
	}
	return actor, h.allowed(w, actor, action, resource)
}

func (h *Handler) allowed(w http.ResponseWriter, actor policy.Actor, action policy.Action, resource policy.Resource) bool {
	if actor.ID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return false
	}
	if !h.checker.HasCapability(actor, action, resource) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not allowed to "+string(action)))
		return false
	}
	return true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"actor_id", requestcontext.ActorID(ctx).String(),
		"error", err,
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func actorFrom(ctx context.Context) policy.Actor {
	return policy.Actor{ID: requestcontext.ActorID(ctx), Role: requestcontext.Role(ctx)}
}

func applicationIDParam(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ApplicationID{}, false
	}
	return applicationID, true
}

// retryOnTimeout runs fn again once when the exclusive scope timed out.
func retryOnTimeout(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !dErrors.HasCode(err, dErrors.CodeTimeout) || ctx.Err() != nil {
		return err
	}
	return fn()
}
