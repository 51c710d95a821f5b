package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"partnerdesk/internal/identity"
	"partnerdesk/internal/platform/middleware"
	"partnerdesk/internal/project"
	"partnerdesk/internal/tender"
	"partnerdesk/internal/tender/handler/mocks"
	"partnerdesk/internal/tender/service"
	pkgerrors "partnerdesk/pkg/errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/tender-mocks.go -package=mocks Service
type TenderHandlerSuite struct {
	suite.Suite
}

func TestTenderHandlerSuite(t *testing.T) {
	suite.Run(t, new(TenderHandlerSuite))
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func doAs(r chi.Router, caller identity.Caller, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(middleware.WithCaller(req.Context(), caller))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func admin() identity.Caller {
	return identity.Caller{Admin: true, Email: "ops@example.com"}
}

func (s *TenderHandlerSuite) TestCreateTender() {
	r, mockService := newTestRouter(s.T())
	created := &tender.Tender{ID: uuid.New(), Title: "Retail rollout", Status: tender.StatusDraft}
	mockService.EXPECT().
		Create(gomock.Any(), admin(), service.CreateInput{
			Title:              "Retail rollout",
			InvitationStrategy: tender.StrategyOpen,
			Products:           []string{"PD-100"},
		}).
		Return(created, nil)

	w := doAs(r, admin(), http.MethodPost, "/tenders", CreateTenderRequest{
		Title:              "Retail rollout",
		InvitationStrategy: "open",
		Products:           []string{"PD-100"},
	})

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var got tender.Tender
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(s.T(), created.ID, got.ID)
}

func (s *TenderHandlerSuite) TestCreateTenderMalformedBody() {
	r, _ := newTestRouter(s.T())

	req := httptest.NewRequest(http.MethodPost, "/tenders", bytes.NewReader([]byte(`{"title":`)))
	req = req.WithContext(middleware.WithCaller(req.Context(), admin()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *TenderHandlerSuite) TestPublishReturnsWarnings() {
	r, mockService := newTestRouter(s.T())
	id := uuid.New()
	published := &tender.Tender{ID: id, Status: tender.StatusPublished}
	mockService.EXPECT().
		Publish(gomock.Any(), admin(), id).
		Return(published, []service.Warning{service.WarningNoInvitedPartners}, nil)

	w := doAs(r, admin(), http.MethodPost, "/tenders/"+id.String()+"/publish", nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp PublishResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(s.T(), resp.Warnings, 1)
	assert.Equal(s.T(), service.WarningNoInvitedPartners, resp.Warnings[0])
}

func (s *TenderHandlerSuite) TestAward() {
	r, mockService := newTestRouter(s.T())
	tenderID := uuid.New()
	winnerID := uuid.New()
	proj := &project.Project{ID: uuid.New(), TenderID: tenderID, PartnerID: winnerID}
	mockService.EXPECT().
		Award(gomock.Any(), admin(), tenderID, winnerID).
		Return(proj, nil)

	w := doAs(r, admin(), http.MethodPost, "/tenders/"+tenderID.String()+"/award", AwardRequest{PartnerID: winnerID})

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var got project.Project
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(s.T(), proj.ID, got.ID)
}

func (s *TenderHandlerSuite) TestAwardConflictMapsTo409() {
	r, mockService := newTestRouter(s.T())
	tenderID := uuid.New()
	winnerID := uuid.New()
	mockService.EXPECT().
		Award(gomock.Any(), admin(), tenderID, winnerID).
		Return(nil, pkgerrors.New(pkgerrors.CodeAlreadyResolved, "tender is already awarded"))

	w := doAs(r, admin(), http.MethodPost, "/tenders/"+tenderID.String()+"/award", AwardRequest{PartnerID: winnerID})

	assert.Equal(s.T(), http.StatusConflict, w.Code)
	var body map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(s.T(), "already_resolved", body["error"])
}

func (s *TenderHandlerSuite) TestComplianceGateMapsTo422() {
	r, mockService := newTestRouter(s.T())
	tenderID := uuid.New()
	caller := identity.Caller{PartnerID: uuid.New()}
	mockService.EXPECT().
		SubmitInterest(gomock.Any(), caller, tenderID, gomock.Nil()).
		Return(nil, pkgerrors.New(pkgerrors.CodeComplianceGate, "urgent project requires training commitment"))

	w := doAs(r, caller, http.MethodPost, "/tenders/"+tenderID.String()+"/interest", SubmitInterestRequest{})

	assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)
}

func (s *TenderHandlerSuite) TestNotVisibleMapsTo404() {
	r, mockService := newTestRouter(s.T())
	tenderID := uuid.New()
	caller := identity.Caller{PartnerID: uuid.New()}
	mockService.EXPECT().
		Get(gomock.Any(), caller, tenderID).
		Return(nil, pkgerrors.New(pkgerrors.CodeNotVisible, "tender not found"))

	w := doAs(r, caller, http.MethodGet, "/tenders/"+tenderID.String(), nil)

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(s.T(), "not_visible", body["error"])
}

func (s *TenderHandlerSuite) TestMalformedTenderID() {
	r, _ := newTestRouter(s.T())
	w := doAs(r, admin(), http.MethodPost, "/tenders/not-a-uuid/publish", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *TenderHandlerSuite) TestSubmitProposal() {
	r, mockService := newTestRouter(s.T())
	tenderID := uuid.New()
	caller := identity.Caller{PartnerID: uuid.New()}
	updated := &tender.Tender{ID: tenderID, Status: tender.StatusResponsePeriod}
	mockService.EXPECT().
		SubmitProposal(gomock.Any(), caller, tenderID, service.ProposalInput{
			ValueCents:       990_00,
			ProposalDocument: "https://files.example.com/p.pdf",
		}).
		Return(updated, nil)

	w := doAs(r, caller, http.MethodPost, "/tenders/"+tenderID.String()+"/proposal", SubmitProposalRequest{
		ProposedValueCents: 990_00,
		ProposalDocument:   "https://files.example.com/p.pdf",
	})

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *TenderHandlerSuite) TestResponseTransitions() {
	r, mockService := newTestRouter(s.T())
	tenderID := uuid.New()
	partnerID := uuid.New()
	updated := &tender.Tender{ID: tenderID}

	mockService.EXPECT().
		ApproveInterest(gomock.Any(), admin(), tenderID, partnerID).
		Return(updated, nil)
	w := doAs(r, admin(), http.MethodPost, "/tenders/"+tenderID.String()+"/responses/"+partnerID.String()+"/approve", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	mockService.EXPECT().
		RejectResponse(gomock.Any(), admin(), tenderID, partnerID).
		Return(updated, nil)
	w = doAs(r, admin(), http.MethodPost, "/tenders/"+tenderID.String()+"/responses/"+partnerID.String()+"/reject", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *TenderHandlerSuite) TestComplianceCheckQueryParam() {
	r, mockService := newTestRouter(s.T())
	tenderID := uuid.New()
	caller := identity.Caller{PartnerID: uuid.New()}
	mockService.EXPECT().
		CheckCompliance(gomock.Any(), caller, tenderID).
		Return(&service.ComplianceCheck{}, nil)

	w := doAs(r, caller, http.MethodGet, "/compliance/check?tender="+tenderID.String(), nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	w = doAs(r, caller, http.MethodGet, "/compliance/check?tender=nope", nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *TenderHandlerSuite) TestListAlwaysReturnsArray() {
	r, mockService := newTestRouter(s.T())
	mockService.EXPECT().
		List(gomock.Any(), admin()).
		Return(nil, nil)

	w := doAs(r, admin(), http.MethodGet, "/tenders", nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string][]tender.Tender
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	tenders, ok := resp["tenders"]
	require.True(s.T(), ok)
	assert.NotNil(s.T(), tenders)
}
