package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/scenariopanel/internal/catalog"
	"github.com/jask/scenariopanel/internal/panel"
	"github.com/jask/scenariopanel/internal/scenario"
	"github.com/jask/scenariopanel/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (http.Handler, *panel.Panel, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	p := panel.New(catalog.Full(), scenario.NewKVRepository(mem), zerolog.Nop())
	require.NoError(t, p.Init(context.Background()))
	return New(p, zerolog.Nop()).Handler(), p, mem
}

func do(t *testing.T, h http.Handler, method, path, body, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodePanel(t *testing.T, raw []byte) panelView {
	t.Helper()
	var resp struct {
		Panel panelView `json:"panel"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp.Panel
}

func TestPageRendersForm(t *testing.T) {
	h, _, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Mortgage Calculator")
	require.Contains(t, body, "Select an option")
	require.Contains(t, body, `min="50000" max="2000000" step="5000" value="500000"`)
	require.Contains(t, body, "Save scenario 1")
	require.Contains(t, body, "Clear scenarios")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestFormFlow(t *testing.T) {
	h, p, mem := newTestServer(t)

	form := url.Values{"value": {"US Citizen / Permanent Resident"}}.Encode()
	rec := do(t, h, http.MethodPost, "/filters/1", form, "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(t, h, http.MethodPost, "/slots/1", "", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, scenario.Filled, p.SlotState(1))

	body := do(t, h, http.MethodGet, "/", "", "").Body.String()
	require.Contains(t, body, "Show scenario 1")
	require.Contains(t, body, "<li>Citizenship: US Citizen / Permanent Resident</li>")

	rec = do(t, h, http.MethodPost, "/filters/1", url.Values{"value": {""}}.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	v, _ := p.Value(catalog.CitizenshipID)
	require.Nil(t, v)

	rec = do(t, h, http.MethodPost, "/scenarios/clear", "", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	_, ok, _ := mem.Get(context.Background(), "scenario_1")
	require.False(t, ok)
}

func TestAPISlotLifecycle(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := do(t, h, http.MethodPut, "/api/filters/3", `{"value":"750000"}`, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/slots/2/toggle", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"action":"saved"`)
	pv := decodePanel(t, rec.Body.Bytes())
	require.Equal(t, "Save scenario 1", pv.Slots[0].Label)
	require.Equal(t, "Show scenario 2", pv.Slots[1].Label)
	require.Equal(t, "Save scenario 3", pv.Slots[2].Label)

	rec = do(t, h, http.MethodPut, "/api/filters/3", `{"value":"1000000"}`, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/slots/2/load", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pv = decodePanel(t, rec.Body.Bytes())
	require.Equal(t, "750000", pv.Filters[2].Value)

	rec = do(t, h, http.MethodDelete, "/api/slots", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pv = decodePanel(t, rec.Body.Bytes())
	require.Equal(t, "500000", pv.Filters[2].Value)
	for _, s := range pv.Slots {
		require.False(t, s.Filled)
	}
}

func TestAPISetFilterSuggestsOption(t *testing.T) {
	h, p, _ := newTestServer(t)
	rec := do(t, h, http.MethodPut, "/api/filters/2", `{"value":"wvoe"}`, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "WVOE", resp["suggestion"])
	v, _ := p.Value(catalog.IncomeTypeID)
	require.Equal(t, "wvoe", *v)

	rec = do(t, h, http.MethodPut, "/api/filters/2", `{"value":null}`, "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	v, _ = p.Value(catalog.IncomeTypeID)
	require.Nil(t, v)
}

func TestAPIRejectsBadInput(t *testing.T) {
	h, _, _ := newTestServer(t)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/slots/4/save", "", "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/slots/x/load", "", "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/filters/abc", `{}`, "application/json").Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/filters/1", `not json`, "application/json").Code)
}

func TestAPILoadCorruptSlot(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Put(ctx, "scenario_3", "{"))
	p := panel.New(catalog.Full(), scenario.NewKVRepository(mem), zerolog.Nop())
	require.NoError(t, p.Init(ctx))
	h := New(p, zerolog.Nop()).Handler()

	rec := do(t, h, http.MethodPost, "/api/slots/3/toggle", "", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/slots/3", "", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/?error="))
}

func TestAPICORSAllowsLoopbackOrigins(t *testing.T) {
	h, _, _ := newTestServer(t)

	for _, origin := range []string{"http://localhost:5173", "http://127.0.0.1:3000", "http://localhost"} {
		req := httptest.NewRequest(http.MethodGet, "/api/panel", nil)
		req.Host = "127.0.0.1:8087"
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, origin)
		require.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/panel", nil)
	req.Host = "127.0.0.1:8087"
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPICORSPreflight(t *testing.T) {
	h, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/filters/3", nil)
	req.Host = "127.0.0.1:8087"
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestLoopbackOrigin(t *testing.T) {
	require.True(t, loopbackOrigin("http://localhost:8087"))
	require.True(t, loopbackOrigin("https://127.0.0.1"))
	require.True(t, loopbackOrigin("http://[::1]:3000"))
	require.False(t, loopbackOrigin("http://localhost.example.com"))
	require.False(t, loopbackOrigin("file://localhost"))
	require.False(t, loopbackOrigin("not a url"))
}
