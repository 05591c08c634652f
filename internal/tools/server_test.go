package tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"feedsheet/internal/config"
	"feedsheet/internal/sheets"
)

func newTestServer() (*Server, *Service) {
	service := NewService(config.DefaultConfig(), testLogger)
	return NewServer(0, service, testLogger), service
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestToolDiscoveryListsEveryTool(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, http.MethodGet, "/tools", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var infos []ToolInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []string{
		"collect_posts", "get_profile", "search",
		"debug_page_structure", "test_selectors",
		"export_posts", "export_profile",
	}
	got := map[string]bool{}
	for _, info := range infos {
		got[info.Name] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("tool %s missing from discovery", name)
		}
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, http.MethodPost, "/tools/nonsense", "{}")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestInvokeNotReadyMapsToConflict(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, http.MethodPost, "/tools/collect_posts", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestInvokeBadBodyMapsToBadRequest(t *testing.T) {
	srv, _ := newTestServer()
	rec := do(t, srv, http.MethodPost, "/tools/export_posts", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed body", rec.Code)
	}
}

func TestInvokeExportWithoutBatchMapsToBadRequest(t *testing.T) {
	srv, service := newTestServer()
	service.UseSheetAPI(sheets.NewMemory())

	rec := do(t, srv, http.MethodPost, "/tools/export_posts", "{}")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestInvokeExportRoundTrip(t *testing.T) {
	srv, service := newTestServer()
	service.UseSheetAPI(sheets.NewMemory())

	body := `{"spreadsheet_id":"sheet-x","worksheet":"batch","posts":[{"id":"post_1_0","text":"hello there","author":"alice"}]}`
	rec := do(t, srv, http.MethodPost, "/tools/export_posts", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Spreadsheet string `json:"spreadsheet"`
		Worksheet   string `json:"worksheet"`
		NewRows     int    `json:"new_rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Spreadsheet != "sheet-x" || res.Worksheet != "batch" || res.NewRows != 2 {
		t.Errorf("result = %+v, want sheet-x/batch with header plus 1 row", res)
	}
}
