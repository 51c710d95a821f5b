// Package handler wires the tender workflow onto chi routes. It owns request
// decoding and error translation only; every rule lives in the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"partnerdesk/internal/identity"
	"partnerdesk/internal/notification"
	"partnerdesk/internal/partner"
	"partnerdesk/internal/platform/middleware"
	"partnerdesk/internal/project"
	"partnerdesk/internal/tender"
	"partnerdesk/internal/tender/service"
	pkgerrors "partnerdesk/pkg/errors"
	"partnerdesk/pkg/platform/httputil"
)

// Service defines the tender operations the HTTP layer depends on.
type Service interface {
	Create(ctx context.Context, caller identity.Caller, input service.CreateInput) (*tender.Tender, error)
	Publish(ctx context.Context, caller identity.Caller, id uuid.UUID) (*tender.Tender, []service.Warning, error)
	SetPhase(ctx context.Context, caller identity.Caller, id uuid.UUID, phase tender.Status) (*tender.Tender, error)
	Cancel(ctx context.Context, caller identity.Caller, id uuid.UUID) (*tender.Tender, error)
	Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*tender.Tender, error)
	List(ctx context.Context, caller identity.Caller) ([]tender.Tender, error)
	EligiblePartners(ctx context.Context, caller identity.Caller, id uuid.UUID) ([]partner.Partner, error)
	CheckCompliance(ctx context.Context, caller identity.Caller, id uuid.UUID) (*service.ComplianceCheck, error)
	SubmitInterest(ctx context.Context, caller identity.Caller, id uuid.UUID, committedSessions []uuid.UUID) (*tender.Tender, error)
	ApproveInterest(ctx context.Context, caller identity.Caller, id, partnerID uuid.UUID) (*tender.Tender, error)
	RejectResponse(ctx context.Context, caller identity.Caller, id, partnerID uuid.UUID) (*tender.Tender, error)
	SubmitProposal(ctx context.Context, caller identity.Caller, id uuid.UUID, input service.ProposalInput) (*tender.Tender, error)
	Award(ctx context.Context, caller identity.Caller, id, winnerID uuid.UUID) (*project.Project, error)
	Notifications(ctx context.Context, caller identity.Caller) ([]notification.Notification, error)
}

// Handler wires tender endpoints to the tender service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a tender handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the tender endpoints on the router. The caller is expected
// to have auth middleware installed above this subtree.
func (h *Handler) Register(r chi.Router) {
	r.Route("/tenders", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Route("/{tenderID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Post("/publish", h.handlePublish)
			r.Post("/cancel", h.handleCancel)
			r.Post("/status", h.handleSetPhase)
			r.Get("/eligible-partners", h.handleEligiblePartners)
			r.Post("/interest", h.handleSubmitInterest)
			r.Post("/proposal", h.handleSubmitProposal)
			r.Post("/award", h.handleAward)
			r.Post("/responses/{partnerID}/approve", h.handleApprove)
			r.Post("/responses/{partnerID}/reject", h.handleReject)
		})
	})
	r.Get("/compliance/check", h.handleComplianceCheck)
	r.Get("/notifications", h.handleNotifications)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[CreateTenderRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.Create(ctx, middleware.GetCaller(ctx), req.ToInput())
	if err != nil {
		h.writeError(ctx, w, "create tender", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenders, err := h.service.List(ctx, middleware.GetCaller(ctx))
	if err != nil {
		h.writeError(ctx, w, "list tenders", err)
		return
	}
	if tenders == nil {
		tenders = []tender.Tender{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tenders": tenders})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	t, err := h.service.Get(ctx, middleware.GetCaller(ctx), id)
	if err != nil {
		h.writeError(ctx, w, "get tender", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	t, warnings, err := h.service.Publish(ctx, middleware.GetCaller(ctx), id)
	if err != nil {
		h.writeError(ctx, w, "publish tender", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PublishResponse{Tender: t, Warnings: warnings})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	t, err := h.service.Cancel(ctx, middleware.GetCaller(ctx), id)
	if err != nil {
		h.writeError(ctx, w, "cancel tender", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleSetPhase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SetPhaseRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.SetPhase(ctx, middleware.GetCaller(ctx), id, tender.Status(req.Status))
	if err != nil {
		h.writeError(ctx, w, "set tender phase", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleEligiblePartners(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	partners, err := h.service.EligiblePartners(ctx, middleware.GetCaller(ctx), id)
	if err != nil {
		h.writeError(ctx, w, "list eligible partners", err)
		return
	}
	if partners == nil {
		partners = []partner.Partner{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"partners": partners})
}

func (h *Handler) handleSubmitInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SubmitInterestRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.SubmitInterest(ctx, middleware.GetCaller(ctx), id, req.CommittedTrainingSessions)
	if err != nil {
		h.writeError(ctx, w, "submit interest", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SubmitProposalRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.SubmitProposal(ctx, middleware.GetCaller(ctx), id, service.ProposalInput{
		ValueCents:       req.ProposedValueCents,
		ProposalDocument: req.ProposalDocument,
		MeetingDate:      req.MeetingDate,
	})
	if err != nil {
		h.writeError(ctx, w, "submit proposal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleAward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[AwardRequest](w, r)
	if !ok {
		return
	}
	proj, err := h.service.Award(ctx, middleware.GetCaller(ctx), id, req.PartnerID)
	if err != nil {
		h.writeError(ctx, w, "award tender", err)
		return
	}
	h.logger.InfoContext(ctx, "tender awarded via api",
		"request_id", middleware.GetRequestID(ctx),
		"tender_id", id,
		"partner_id", req.PartnerID,
	)
	httputil.WriteJSON(w, http.StatusCreated, proj)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.responseTransition(w, r, h.service.ApproveInterest)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.responseTransition(w, r, h.service.RejectResponse)
}

func (h *Handler) responseTransition(w http.ResponseWriter, r *http.Request, fn func(context.Context, identity.Caller, uuid.UUID, uuid.UUID) (*tender.Tender, error)) {
	ctx := r.Context()
	id, ok := h.tenderID(w, r)
	if !ok {
		return
	}
	partnerID, err := uuid.Parse(chi.URLParam(r, "partnerID"))
	if err != nil {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "malformed partner id"))
		return
	}
	t, err := fn(ctx, middleware.GetCaller(ctx), id, partnerID)
	if err != nil {
		h.writeError(ctx, w, "response transition", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleComplianceCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(r.URL.Query().Get("tender"))
	if err != nil {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "tender query parameter must be a uuid"))
		return
	}
	check, err := h.service.CheckCompliance(ctx, middleware.GetCaller(ctx), id)
	if err != nil {
		h.writeError(ctx, w, "compliance check", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, check)
}

func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed, err := h.service.Notifications(ctx, middleware.GetCaller(ctx))
	if err != nil {
		h.writeError(ctx, w, "list notifications", err)
		return
	}
	if feed == nil {
		feed = []notification.Notification{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"notifications": feed})
}

func (h *Handler) tenderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tenderID"))
	if err != nil {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "malformed tender id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	if pkgerrors.CodeOf(err) == pkgerrors.CodeInternal {
		h.logger.ErrorContext(ctx, operation+" failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
