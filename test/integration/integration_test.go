package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/nettorechner/nettorechner/internal/auth"
	"github.com/nettorechner/nettorechner/internal/calculator"
	"github.com/nettorechner/nettorechner/internal/rates"
	"github.com/nettorechner/nettorechner/internal/server"
	"github.com/nettorechner/nettorechner/internal/store"
	"github.com/nettorechner/nettorechner/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminPIN = "2468"

type client struct {
	t    *testing.T
	http *http.Client
	base string
}

func newServer(t *testing.T, ratesPath string) *client {
	t.Helper()
	logger := zap.NewNop()

	st, closeStore, err := store.Open(context.Background(), logger, store.Config{Driver: "file", Path: ratesPath})
	require.NoError(t, err)
	t.Cleanup(closeStore)

	srv := httptest.NewServer(server.NewHandler(server.Options{
		Logger: logger,
		Rates:  rates.NewService(logger, st),
		Gate:   auth.NewGate(adminPIN),
	}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, http: &http.Client{Jar: jar}, base: srv.URL}
}

func (c *client) do(method, path, body string) (*http.Response, []byte) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, strings.NewReader(body))
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func (c *client) calculate(state string) calculator.Result {
	c.t.Helper()
	resp, body := c.do(http.MethodPost, "/api/calculate", `{
		"bruttoGehalt": "4000",
		"bundesland": "`+state+`",
		"steuerklasse": "1",
		"kirchensteuerpflicht": true,
		"rentenversicherung": true,
		"krankenversicherung": true,
		"pflegeversicherung": true,
		"arbeitslosenversicherung": true,
		"wochenstunden": 40
	}`)
	require.Equal(c.t, http.StatusOK, resp.StatusCode, string(body))

	var result calculator.Result
	require.NoError(c.t, json.Unmarshal(body, &result))
	return result
}

func (c *client) publicConfig() rates.Configuration {
	c.t.Helper()
	resp, body := c.do(http.MethodGet, "/api/config", "")
	require.Equal(c.t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Config rates.Configuration `json:"config"`
	}
	require.NoError(c.t, json.Unmarshal(body, &payload))
	return payload.Config
}

// TestAdminChangeReachesCalculation walks the administration flow against a
// file-backed store and checks that a restarted server sees the same rates.
func TestAdminChangeReachesCalculation(t *testing.T) {
	ratesPath := filepath.Join(t.TempDir(), "rates.yaml")
	c := newServer(t, ratesPath)

	before := c.calculate("bayern")
	assert.Equal(t, 42.48, before.ChurchTax)
	assert.Equal(t, 2585.56, before.NetSalary)

	resp, _ := c.do(http.MethodPut, "/api/admin/config", `{"key":"states","value":[]}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := c.do(http.MethodPost, "/api/admin/login", `{"pin":"`+adminPIN+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = c.do(http.MethodGet, "/api/admin/config", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var snap rates.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.NotEmpty(t, snap.Configuration.States)

	updated := make([]rates.State, len(snap.Configuration.States))
	copy(updated, snap.Configuration.States)
	bayern := -1
	for i := range updated {
		if updated[i].Key == "bayern" {
			bayern = i
		}
	}
	require.GreaterOrEqual(t, bayern, 0)
	updated[bayern].ChurchTaxRate = 9

	value, err := json.Marshal(updated)
	require.NoError(t, err)
	resp, body = c.do(http.MethodPut, "/api/admin/config", `{"key":"states","value":`+string(value)+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	after := c.calculate("bayern")
	assert.Equal(t, 47.79, after.ChurchTax)
	assert.Equal(t, 9.0, after.Details.ChurchTaxRate)
	assert.InDelta(t, after.GrossSalary, after.NetSalary+after.TotalDeductions, 0.001)

	cfg := c.publicConfig()
	assert.Equal(t, 9.0, testutil.FindState(cfg, "bayern").ChurchTaxRate)
	require.Len(t, cfg.States, len(snap.Configuration.States))
	for _, previous := range snap.Configuration.States {
		if previous.Key == "bayern" {
			continue
		}
		current := testutil.FindState(cfg, previous.Key)
		require.NotNil(t, current, previous.Key)
		assert.Equal(t, previous, *current)
	}
	assert.Equal(t, 8.0, testutil.FindState(cfg, "baden-wuerttemberg").ChurchTaxRate)
	assert.Equal(t, 42.48, c.calculate("baden-wuerttemberg").ChurchTax)

	resp, _ = c.do(http.MethodPost, "/api/admin/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/api/admin/config", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	restarted := newServer(t, ratesPath)
	assert.Equal(t, 47.79, restarted.calculate("bayern").ChurchTax)
}

// TestHandWrittenRatesFile loads a rates file edited outside the API.
func TestHandWrittenRatesFile(t *testing.T) {
	ratesPath := testutil.WriteFile(t, "rates.yaml", `
taxClasses:
  - value: "1"
    label: Steuerklasse 1
    description: Ledig
    extraDeductionPercent: 10
  - value: "3"
    label: Steuerklasse 3
    description: Verheiratet
socialInsurance: not-a-table
`)
	c := newServer(t, ratesPath)

	result := c.calculate("bayern")
	assert.Equal(t, 477.87, result.IncomeTax)
	assert.Equal(t, 841.0, result.SocialInsurance.Total)

	resp, body := c.do(http.MethodPost, "/api/admin/login", `{"pin":"`+adminPIN+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = c.do(http.MethodGet, "/api/admin/config", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap rates.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Len(t, snap.Configuration.TaxClasses, 2)
	rejected := false
	for _, s := range snap.Sections {
		if s.Section == rates.SectionSocialInsurance && s.Outcome == rates.OutcomeRejected {
			rejected = true
		}
	}
	assert.True(t, rejected, "socialInsurance override should be reported as rejected")
}

func sectionOutcome(t *testing.T, sections []rates.SectionResult, section rates.Section) rates.Outcome {
	t.Helper()
	for _, s := range sections {
		if s.Section == section {
			return s.Outcome
		}
	}
	t.Fatalf("no result for section %s", section)
	return ""
}

// TestRatesFileWithUnencodableSection keeps serving when one section of a
// hand-edited file has no JSON form.
func TestRatesFileWithUnencodableSection(t *testing.T) {
	ratesPath := testutil.WriteFile(t, "rates.yaml", `
states:
  - value: bayern
    label: Bayern
    churchTaxRate: 9
infoSections:
  1: broken
`)

	svc := rates.NewService(zap.NewNop(), store.NewFile(zap.NewNop(), ratesPath))
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Configuration.States, 1)
	assert.Equal(t, rates.OutcomeOverride, sectionOutcome(t, snap.Sections, rates.SectionStates))
	assert.Equal(t, rates.OutcomeRejected, sectionOutcome(t, snap.Sections, rates.SectionInfoSections))
	assert.Equal(t, rates.Default().InfoSections, snap.Configuration.InfoSections)

	c := newServer(t, ratesPath)
	assert.Equal(t, 47.79, c.calculate("bayern").ChurchTax)
}
