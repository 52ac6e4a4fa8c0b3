package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const pricesGviz = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","sig":"1","table":{"cols":[` +
	`{"id":"A","label":"Manufacturer","type":"string"},` +
	`{"id":"B","label":"Brand","type":"string"},` +
	`{"id":"C","label":"Price Per Box","type":"number"},` +
	`{"id":"D","label":"# of Boxes for Year Supply","type":"number"},` +
	`{"id":"E","label":"","type":"string"},` +
	`{"id":"F","label":"Rebates for New Wearer","type":"number"},` +
	`{"id":"G","label":"Year Supply Current","type":"number"}],"rows":[` +
	`{"c":[{"v":"Acuvue"},{"v":"Oasys (x)"},{"v":29.99},{"v":16.0},{"v":"note"},{"v":100.0},{"v":50.0}]},` +
	`{"c":[{"v":"Alcon"},{"v":"Dailies Total1"},{"v":45.0},{"v":18.0},null,null,{"v":75.0}]}]}});`

const feesGviz = `/*O_o*/
google.visualization.Query.setResponse({"status":"ok","table":{"cols":[` +
	`{"label":"Fitting Type"},{"label":"Self Pay"},{"label":"Ins New"},{"label":"Ins Established"}],"rows":[` +
	`{"c":[{"v":"Sphere"},{"v":60},{"v":50},{"v":30}]},` +
	`{"c":[{"v":"Toric"},{"v":80},{"v":60},{"v":40}]},` +
	`{"c":[{"v":"MF/Mono"},{"v":120},{"v":90},{"v":70}]}]}});`

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalizeColumn(t *testing.T) {
	assert.Equal(t, "#ofboxesforyearsupply", NormalizeColumn("# of Boxes for Year Supply"))
	assert.Equal(t, "priceperbox", NormalizeColumn(" Price\tPer Box "))
	assert.Equal(t, "", NormalizeColumn("  "))
}

func TestParseGviz(t *testing.T) {
	env, err := ParseGviz(SheetPrices, []byte(pricesGviz))
	require.NoError(t, err)

	assert.True(t, env.Success)
	assert.Equal(t, SheetPrices, env.SheetName)
	assert.Equal(t, []string{"manufacturer", "brand", "priceperbox", "#ofboxesforyearsupply", "rebatesfornewwearer", "yearsupplycurrent"}, env.Columns,
		"Unlabeled columns are dropped")
	require.Len(t, env.Data, 2)

	first := env.Data[0]
	assert.Equal(t, "Oasys (x)", first["brand"], "Parentheses inside values survive extraction")
	assert.Equal(t, json.Number("29.99"), first["priceperbox"])
	assert.Equal(t, json.Number("100.0"), first["rebatesfornewwearer"], "Values stay aligned with their own column")

	second := env.Data[1]
	assert.Equal(t, "", second["rebatesfornewwearer"], "Null cells become empty strings")
}

func TestParseGviz_Errors(t *testing.T) {
	_, err := ParseGviz(SheetPrices, []byte("<html>sign in</html>"))
	assert.ErrorContains(t, err, "unexpected response format")

	_, err = ParseGviz(SheetPrices, []byte(`setResponse({"status":"error","errors":[{"reason":"access_denied","detailed_message":"no access"}]});`))
	assert.ErrorContains(t, err, "access_denied: no access")

	_, err = ParseGviz(SheetPrices, []byte(`setResponse({not json});`))
	assert.ErrorContains(t, err, "failed to parse payload")
}

func gvizServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("sheet") {
		case SheetPrices:
			fmt.Fprint(w, pricesGviz)
		case SheetFittingFees:
			fmt.Fprint(w, feesGviz)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGvizClient_Fetch(t *testing.T) {
	srv := gvizServer(t)
	c := NewGvizClient("sheet-123", "")
	c.BaseURL = srv.URL

	env, err := c.Fetch(context.Background(), SheetPrices)
	require.NoError(t, err)
	assert.Len(t, env.Data, 2)

	_, err = c.Fetch(context.Background(), "Missing")
	assert.ErrorContains(t, err, "400")

	_, err = NewGvizClient("", "").Fetch(context.Background(), SheetPrices)
	assert.ErrorContains(t, err, "sheet ID not configured")
}

func TestGvizClient_URL(t *testing.T) {
	c := NewGvizClient("abc", "key-1")
	u := c.URL(SheetFittingFees)

	assert.Contains(t, u, "https://docs.google.com/spreadsheets/d/abc/gviz/tq?")
	assert.Contains(t, u, "sheet=Fitting+Fees")
	assert.Contains(t, u, "key=key-1")
}

func TestProxyClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("sheetName") {
		case SheetPrices:
			fmt.Fprint(w, `{"success":true,"data":[{"manufacturer":"Acuvue","brand":"Oasys","priceperbox":29.99}],"columns":["manufacturer","brand","priceperbox"],"sheetName":"Prices"}`)
		case "Unsuccessful":
			fmt.Fprint(w, `{"success":false}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"Server configuration error"}`)
		}
	}))
	defer srv.Close()

	p := NewProxyClient(srv.URL + "/api/sheets")

	env, err := p.Fetch(context.Background(), SheetPrices)
	require.NoError(t, err)
	assert.Equal(t, json.Number("29.99"), env.Data[0]["priceperbox"])

	_, err = p.Fetch(context.Background(), "Unsuccessful")
	assert.ErrorContains(t, err, "unsuccessful")

	_, err = p.Fetch(context.Background(), "Broken")
	assert.ErrorContains(t, err, "Server configuration error")
}

func TestSheetsAPISource_Fetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"range":"Prices!A1:D3","majorDimension":"ROWS","values":[`+
			`["Manufacturer","Brand","Price Per Box","# of Boxes for Year Supply"],`+
			`["Acuvue","Oasys",29.99,16],`+
			`["Alcon","Dailies Total1",45]]}`)
	}))
	defer srv.Close()

	src, err := NewSheetsAPISource(context.Background(), "sheet-123",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	env, err := src.Fetch(context.Background(), SheetPrices)
	require.NoError(t, err)
	assert.Contains(t, gotPath, "/v4/spreadsheets/sheet-123/values/Prices")
	require.Len(t, env.Data, 2)
	assert.Equal(t, "", env.Data[1]["#ofboxesforyearsupply"], "Short rows pad with empty cells")

	table, err := BuildPriceTable(env)
	require.NoError(t, err)
	row, ok := table.Lookup("Acuvue", "Oasys")
	require.True(t, ok)
	assert.Equal(t, 16, row.BoxesPerYearSupply)
}

func TestNewSheetsAPISource_RequiresConfig(t *testing.T) {
	_, err := NewSheetsAPISource(context.Background(), "", option.WithAPIKey("k"))
	assert.Error(t, err)

	_, err = NewSheetsAPISource(context.Background(), "id")
	assert.ErrorContains(t, err, "no API key")

	assert.Nil(t, ClientOptions("", ""))
	assert.Len(t, ClientOptions("key", ""), 1)
}

type fakeSource struct {
	envs  map[string]*Envelope
	err   error
	calls int
}

func (f *fakeSource) Fetch(_ context.Context, sheetName string) (*Envelope, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	env, ok := f.envs[sheetName]
	if !ok {
		return nil, fmt.Errorf("no sheet %s", sheetName)
	}
	return env, nil
}

func parsedSource(t *testing.T) *fakeSource {
	t.Helper()
	prices, err := ParseGviz(SheetPrices, []byte(pricesGviz))
	require.NoError(t, err)
	fees, err := ParseGviz(SheetFittingFees, []byte(feesGviz))
	require.NoError(t, err)
	return &fakeSource{envs: map[string]*Envelope{SheetPrices: prices, SheetFittingFees: fees}}
}

func TestFallbackSource(t *testing.T) {
	failing := &fakeSource{err: errors.New("proxy down")}
	good := parsedSource(t)

	f := NewFallbackSource(nil, NamedSource{"proxy", failing}, NamedSource{"gviz", good})
	env, err := f.Fetch(context.Background(), SheetPrices)
	require.NoError(t, err)
	assert.Len(t, env.Data, 2)
	assert.Equal(t, 1, failing.calls)

	both := NewFallbackSource(nil, NamedSource{"proxy", failing}, NamedSource{"gviz", &fakeSource{err: errors.New("gviz down")}})
	_, err = both.Fetch(context.Background(), SheetPrices)
	assert.ErrorContains(t, err, "proxy down")
	assert.ErrorContains(t, err, "gviz down")

	_, err = NewFallbackSource(nil).Fetch(context.Background(), SheetPrices)
	assert.ErrorContains(t, err, "no data source")
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	db, err := store.OpenAndMigrate(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()
	snaps := store.NewSnapshots(db)

	live := parsedSource(t)
	cached := NewCachedSource(live, snaps, nil)
	cached.Now = func() time.Time { return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC) }

	env, err := cached.Fetch(ctx, SheetPrices)
	require.NoError(t, err)
	assert.False(t, env.Stale)

	live.err = errors.New("offline")
	env, err = cached.Fetch(ctx, SheetPrices)
	require.NoError(t, err, "Snapshot should be served when the live source fails")
	assert.True(t, env.Stale)
	assert.Len(t, env.Data, 2)

	_, err = cached.Fetch(ctx, SheetFittingFees)
	assert.ErrorContains(t, err, "offline", "No snapshot means the live error surfaces")
}

func TestBuildPriceTable(t *testing.T) {
	env, err := ParseGviz(SheetPrices, []byte(pricesGviz))
	require.NoError(t, err)

	table, err := BuildPriceTable(env)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	row, ok := table.Lookup("Acuvue", "Oasys (x)")
	require.True(t, ok)
	assert.True(t, row.PricePerBox.Equal(dec("29.99")))
	assert.Equal(t, 16, row.BoxesPerYearSupply)
	assert.True(t, row.RebateForNewWearer.Equal(dec("100")))
	assert.True(t, row.RebateForCurrentWearer.Equal(dec("50")))

	alcon, ok := table.Lookup("Alcon", "Dailies Total1")
	require.True(t, ok)
	assert.True(t, alcon.RebateForNewWearer.IsZero(), "Empty cells default to zero")

	_, err = BuildPriceTable(&Envelope{Columns: []string{"brand"}})
	assert.ErrorContains(t, err, "manufacturer")
}

func TestBuildFeeTable(t *testing.T) {
	env, err := ParseGviz(SheetFittingFees, []byte(feesGviz))
	require.NoError(t, err)

	table, err := BuildFeeTable(env)
	require.NoError(t, err)

	toric, ok := table.Lookup(domain.FittingToric)
	require.True(t, ok)
	assert.True(t, toric.InsuranceEstablishedFee.Equal(dec("40")))
}

func TestBuildFeeTable_KeyedByContent(t *testing.T) {
	// Rows out of order and the type column unlabeled in a known way
	env := &Envelope{
		Columns: []string{"category", "selfpay", "insnew", "insestablished"},
		Data: []Row{
			{"category": "MF/Mono", "selfpay": "120", "insnew": "90", "insestablished": "70"},
			{"category": "", "selfpay": "", "insnew": "", "insestablished": ""},
			{"category": "Sphere", "selfpay": "60", "insnew": "50", "insestablished": "30"},
			{"category": "Toric", "selfpay": "80", "insnew": "60", "insestablished": "40"},
		},
	}

	table, err := BuildFeeTable(env)
	require.NoError(t, err)

	sphere, ok := table.Lookup(domain.FittingSphere)
	require.True(t, ok)
	assert.True(t, sphere.SelfPayFee.Equal(dec("60")), "Row order does not matter")

	_, err = BuildFeeTable(&Envelope{Columns: []string{"selfpay"}, Data: []Row{{"selfpay": "60"}}})
	assert.ErrorContains(t, err, "no fitting type column")

	dup := &Envelope{Columns: []string{"type"}, Data: []Row{{"type": "Toric"}, {"type": "toric"}}}
	_, err = BuildFeeTable(dup)
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoader_Load(t *testing.T) {
	src := parsedSource(t)

	tables, err := NewLoader(src, nil).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, tables.Loaded())
	assert.False(t, tables.Stale)
	assert.Equal(t, 2, src.calls, "Prices then Fitting Fees")

	delete(src.envs, SheetFittingFees)
	_, err = NewLoader(src, nil).Load(context.Background())
	assert.ErrorContains(t, err, "Fitting Fees")
}
