package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rgehrsitz/lensquote/internal/auth"
	"github.com/rgehrsitz/lensquote/internal/datasource"
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	err error
}

func (f *fakeUpstream) Fetch(_ context.Context, sheetName string) (*datasource.Envelope, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &datasource.Envelope{
		Data:    []datasource.Row{{"manufacturer": "Acuvue", "brand": "Oasys"}},
		Columns: []string{"manufacturer", "brand"},
	}, nil
}

type fakeLoader struct{}

func (fakeLoader) Load(context.Context) (*domain.Tables, error) {
	fees, err := domain.NewFeeTable([]domain.FeeRow{{
		FittingType:             domain.FittingSphere,
		SelfPayFee:              decimal.NewFromInt(80),
		InsuranceNewFee:         decimal.NewFromInt(60),
		InsuranceEstablishedFee: decimal.NewFromInt(40),
	}})
	if err != nil {
		return nil, err
	}
	return &domain.Tables{
		Prices: domain.NewPriceTable([]domain.PriceRow{
			{Manufacturer: "Acuvue", Brand: "Oasys", PricePerBox: decimal.RequireFromString("29.99"), BoxesPerYearSupply: 8,
				RebateForNewWearer: decimal.NewFromInt(100), RebateForCurrentWearer: decimal.NewFromInt(50)},
			{Manufacturer: "Acuvue", Brand: "Moist", PricePerBox: decimal.RequireFromString("25.00"), BoxesPerYearSupply: 8},
			{Manufacturer: "Alcon", Brand: "Dailies", PricePerBox: decimal.RequireFromString("35.00"), BoxesPerYearSupply: 8},
		}),
		Fees: fees,
	}, nil
}

func newTestServer(t *testing.T, upstream datasource.Source) (*Server, *auth.TokenVerifier) {
	t.Helper()
	v, err := auth.NewTokenVerifier("test-secret")
	require.NoError(t, err)
	gate := &auth.Gate{Verifier: v, Allow: auth.NewAllowList("owner@example.com")}
	return New(gate, upstream, fakeLoader{}, nil), v
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestHandleSheets(t *testing.T) {
	srv, _ := newTestServer(t, &fakeUpstream{})
	h := srv.Routes()

	rr := do(t, h, http.MethodGet, "/api/sheets", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	env := decodeBody[datasource.Envelope](t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, datasource.SheetPrices, env.SheetName, "Defaults to the Prices sheet")
	assert.Len(t, env.Data, 1)

	rr = do(t, h, http.MethodGet, "/api/sheets?sheetName=Fitting+Fees", "", "")
	assert.Equal(t, "Fitting Fees", decodeBody[datasource.Envelope](t, rr).SheetName)

	rr = do(t, h, http.MethodOptions, "/api/sheets", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "GET, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))

	rr = do(t, h, http.MethodPost, "/api/sheets", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "Method not allowed", decodeBody[errorBody](t, rr).Error)
}

func TestHandleSheets_Errors(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rr := do(t, srv.Routes(), http.MethodGet, "/api/sheets", "", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Server configuration error", decodeBody[errorBody](t, rr).Error)

	srv, _ = newTestServer(t, &fakeUpstream{err: errors.New("HTTP error! status: 403")})
	rr = do(t, srv.Routes(), http.MethodGet, "/api/sheets", "", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeBody[errorBody](t, rr)
	assert.Equal(t, "Failed to fetch data from Google Sheets", body.Error)
	assert.Contains(t, body.Details, "403")
}

func TestProxyClient_AgainstServer(t *testing.T) {
	srv, _ := newTestServer(t, &fakeUpstream{})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	env, err := datasource.NewProxyClient(ts.URL + "/api/sheets").Fetch(context.Background(), "Prices")
	require.NoError(t, err)
	assert.Equal(t, "Oasys", env.Data[0]["brand"])
}

func TestSessions_Auth(t *testing.T) {
	srv, v := newTestServer(t, nil)
	h := srv.Routes()

	rr := do(t, h, http.MethodPost, "/api/sessions", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/sessions", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	stranger, err := v.IssueToken("stranger@example.com")
	require.NoError(t, err)
	rr = do(t, h, http.MethodPost, "/api/sessions", stranger, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 0, srv.Sessions.Len(), "Refused sessions are discarded")
}

func TestSessions_Lifecycle(t *testing.T) {
	srv, v := newTestServer(t, nil)
	h := srv.Routes()
	token, err := v.IssueToken("owner@example.com")
	require.NoError(t, err)

	rr := do(t, h, http.MethodPost, "/api/sessions", token, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeBody[sessionResponse](t, rr)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "owner@example.com", created.Identity)
	assert.False(t, created.Quote.Result.Pending, "Tables are loaded on creation")

	base := "/api/sessions/" + created.ID

	rr = do(t, h, http.MethodPost, base+"/commands", token, `{"commands":[
		"set_eye:eye=right,manufacturer=Acuvue,brand=Oasys",
		"copy_right_to_left",
		"set_new_to_brand:value=yes",
		"set_fitting_type:type=Sphere",
		"set_self_pay:value=no",
		"set_patient:status=est"
	]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeBody[sessionResponse](t, rr)
	res := updated.Quote.Result
	assert.Equal(t, "8", res.TotalBoxes().String())
	assert.Equal(t, "100", res.RebateAmount.String())
	require.NotNil(t, res.FittingFeeFinal)
	assert.Equal(t, "40", res.FittingFeeFinal.String())

	rr = do(t, h, http.MethodPost, base+"/commands", token, `{"commands":["set_supply:mode=fortnight"]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, base+"/commands", token, `{"commands":["clear_eye:eye=right","copy_right_to_left"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodPost, base+"/commands", token, `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, base+"/catalog", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	catalog := decodeBody[catalogResponse](t, rr)
	require.Len(t, catalog.Manufacturers, 2)
	assert.Equal(t, "Acuvue", catalog.Manufacturers[0].Name)
	assert.Equal(t, []string{"Oasys", "Moist"}, catalog.Manufacturers[0].Brands)
	assert.Contains(t, catalog.Commands, "set_eye")

	rr = do(t, h, http.MethodGet, base, token, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodDelete, base, token, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(t, h, http.MethodGet, base, token, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessions_OwnedByCreator(t *testing.T) {
	srv, v := newTestServer(t, nil)
	srv.Gate.Allow = auth.NewAllowList("owner@example.com", "frontdesk@example.com")
	h := srv.Routes()

	owner, err := v.IssueToken("owner@example.com")
	require.NoError(t, err)
	other, err := v.IssueToken("frontdesk@example.com")
	require.NoError(t, err)

	rr := do(t, h, http.MethodPost, "/api/sessions", owner, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decodeBody[sessionResponse](t, rr).ID

	rr = do(t, h, http.MethodGet, "/api/sessions/"+id, other, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
