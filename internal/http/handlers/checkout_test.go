package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"corporate-checkout/internal/catalog"
	"corporate-checkout/internal/domain"
	"corporate-checkout/internal/logx"
	"corporate-checkout/internal/service/checkout"
	"corporate-checkout/internal/service/policy"
	"corporate-checkout/internal/service/proof"
	"corporate-checkout/internal/service/route"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func newTestCheckoutHandler(t *testing.T) *CheckoutHandler {
	t.Helper()
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	engine := checkout.NewEngine(catalog.Default(), checkout.Config{
		PolicyVersion:   "checkout-policy/v1",
		Policy:          policy.Thresholds{Approval: 200000, HighValue: 1000000},
		Proof:           proof.Thresholds{Signature: 500000, HighValue: 1000000},
		Route:           route.Config{MaxDistanceKm: 300, OpenHour: 6, CloseHour: 23},
		SubmissionDelay: time.Millisecond,
		ProvisionDelay:  time.Millisecond,
	}).WithClock(func() time.Time { return now })
	reg := checkout.NewRegistry(engine, logx.Nop(), nil)
	return NewCheckoutHandler(logx.Nop(), NewCheckoutUsecase(reg))
}

func withParams(r *http.Request, kv ...string) *http.Request {
	rc := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rc.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

type snapshotBody struct {
	SessionID string `json:"session_id"`
	Banner    string `json:"banner"`
	Step      string `json:"step"`
	Request   struct {
		Pickup      string          `json:"pickup"`
		Proof       map[string]bool `json:"proof"`
		Attachments []struct {
			Name string `json:"name"`
		} `json:"attachments"`
	} `json:"request"`
	Estimate struct {
		Total int64 `json:"total"`
	} `json:"estimate"`
	Decision struct {
		Outcome string `json:"outcome"`
		Reasons []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"reasons"`
	} `json:"decision"`
	Readiness struct {
		SubmitEligible bool `json:"submit_eligible"`
	} `json:"readiness"`
}

func decodeSnapshot(t *testing.T, rr *httptest.ResponseRecorder) snapshotBody {
	t.Helper()
	var b snapshotBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&b))
	return b
}

func create(t *testing.T, h *CheckoutHandler, body string) snapshotBody {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(http.MethodPost, "/checkouts", nil)
	} else {
		r = httptest.NewRequest(http.MethodPost, "/checkouts", strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	require.Equal(t, http.StatusCreated, rr.Code)
	snap := decodeSnapshot(t, rr)
	require.Equal(t, "/checkouts/"+snap.SessionID, rr.Header().Get("Location"))
	return snap
}

func call(h http.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h(rr, withParams(r, params...))
	return rr
}

func TestCheckoutHandler_CreateAndGet(t *testing.T) {
	t.Parallel()

	h := newTestCheckoutHandler(t)
	snap := create(t, h, "")
	require.NotEmpty(t, snap.SessionID)
	require.Equal(t, "Blocked", snap.Banner)
	require.Equal(t, "delivery_details", snap.Step)

	rr := call(h.Get, http.MethodGet, "/checkouts/"+snap.SessionID, "", "id", snap.SessionID)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, snap.SessionID, decodeSnapshot(t, rr).SessionID)

	rr = call(h.Get, http.MethodGet, "/checkouts/missing", "", "id", "missing")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCheckoutHandler_CreateWithVendor(t *testing.T) {
	t.Parallel()

	h := newTestCheckoutHandler(t)
	snap := create(t, h, `{"vendor_id":"metrovan"}`)

	rr := call(h.Get, http.MethodGet, "/", "", "id", snap.SessionID)
	var raw map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	require.Equal(t, "metrovan", raw["request"].(map[string]any)["vendor_id"])
}

func TestCheckoutHandler_FullFlow(t *testing.T) {
	t.Parallel()

	h := newTestCheckoutHandler(t)
	id := create(t, h, "").SessionID

	rr := call(h.Update, http.MethodPatch, "/", `{
		"pickup":"HQ","dropoff":"Client","distance_km":9,"weight_kg":2,
		"cost_center":"CC-1","purpose":"docs","project_tag":"P","notes":"n"
	}`, "id", id)
	require.Equal(t, http.StatusOK, rr.Code)
	snap := decodeSnapshot(t, rr)
	require.Equal(t, int64(19300), snap.Estimate.Total)
	require.Equal(t, "HQ", snap.Request.Pickup)

	rr = call(h.SetProof, http.MethodPut, "/", `{"enabled":true}`, "id", id, "proofType", "dropoff_photo")
	require.Equal(t, http.StatusOK, rr.Code)
	snap = decodeSnapshot(t, rr)
	require.True(t, snap.Request.Proof["dropoff_photo"])
	require.Equal(t, "allowed", snap.Decision.Outcome)
	require.True(t, snap.Readiness.SubmitEligible)

	rr = call(h.SetProof, http.MethodPut, "/", `{"enabled":false}`, "id", id, "proofType", "dropoff_photo")
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = call(h.Submit, http.MethodPost, "/", "", "id", id)
	require.Equal(t, http.StatusConflict, rr.Code, "submit is only allowed from review")

	rr = call(h.SetStep, http.MethodPut, "/", `{"step":"review"}`, "id", id)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "review", decodeSnapshot(t, rr).Step)

	rr = call(h.Submit, http.MethodPost, "/", "", "id", id)
	require.Equal(t, http.StatusOK, rr.Code)
	var res resultResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.Equal(t, id, res.SessionID)
	require.Equal(t, domain.ResultOrder, res.Result.Kind)
	require.NotEmpty(t, res.Result.ID)

	rr = call(h.Update, http.MethodPatch, "/", `{"notes":"late"}`, "id", id)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = call(h.Reset, http.MethodPost, "/", "", "id", id)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "delivery_details", decodeSnapshot(t, rr).Step)
}

func TestCheckoutHandler_UpdateValidation(t *testing.T) {
	t.Parallel()

	h := newTestCheckoutHandler(t)
	id := create(t, h, "").SessionID

	tests := map[string]struct {
		body string
		want int
	}{
		"empty update":  {`{}`, http.StatusBadRequest},
		"unknown enum":  {`{"speed":"warp"}`, http.StatusBadRequest},
		"unknown field": {`{"colour":"red"}`, http.StatusBadRequest},
		"bad json":      {`{"pickup":`, http.StatusBadRequest},
		"ok":            {`{"pickup":"A"}`, http.StatusOK},
	}
	for name, tt := range tests {
		rr := call(h.Update, http.MethodPatch, "/", tt.body, "id", id)
		require.Equal(t, tt.want, rr.Code, name)
	}
}

func TestCheckoutHandler_SetProofValidation(t *testing.T) {
	t.Parallel()

	h := newTestCheckoutHandler(t)
	id := create(t, h, "").SessionID

	rr := call(h.SetProof, http.MethodPut, "/", `{}`, "id", id, "proofType", "id_check")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(h.SetProof, http.MethodPut, "/", `{"enabled":true}`, "id", id, "proofType", "retina")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckoutHandler_Attachments(t *testing.T) {
	t.Parallel()

	h := newTestCheckoutHandler(t)
	id := create(t, h, "").SessionID

	rr := call(h.AddAttachment, http.MethodPost, "/", `{"name":"po.pdf","size_bytes":1024,"kind":"document"}`, "id", id)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, decodeSnapshot(t, rr).Request.Attachments, 1)

	rr = call(h.AddAttachment, http.MethodPost, "/", `{"name":"po.pdf","size_bytes":1,"kind":"document"}`, "id", id)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = call(h.RemoveAttachment, http.MethodDelete, "/", "", "id", id, "name", "po.pdf")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, decodeSnapshot(t, rr).Request.Attachments)

	rr = call(h.RemoveAttachment, http.MethodDelete, "/", "", "id", id, "name", "po.pdf")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCheckoutHandler_ProvisionProgram(t *testing.T) {
	t.Parallel()

	h := newTestCheckoutHandler(t)
	id := create(t, h, "").SessionID

	rr := call(h.ProvisionProgram, http.MethodPost, "/", "", "id", id)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = call(h.Update, http.MethodPatch, "/", `{"program_status":"not_linked"}`, "id", id)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = call(h.ProvisionProgram, http.MethodPost, "/", "", "id", id)
	require.Equal(t, http.StatusOK, rr.Code)
	var raw map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	require.Equal(t, "eligible", raw["request"].(map[string]any)["program_status"])
}

type failingUsecase struct{}

func (failingUsecase) Create(string) checkoutSession { return nil }
func (failingUsecase) Get(string) (checkoutSession, error) {
	return nil, errors.New("registry unavailable")
}

func TestCheckoutHandler_UnexpectedErrorIs500(t *testing.T) {
	t.Parallel()

	h := NewCheckoutHandler(logx.Nop(), failingUsecase{})
	rr := call(h.Get, http.MethodGet, "/", "", "id", "x")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
}
