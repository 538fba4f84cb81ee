package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/techvisits/visits-manager/internal/api/metrics"
	"github.com/techvisits/visits-manager/internal/core/domain"
	"github.com/techvisits/visits-manager/internal/infrastructure/db/storage"
	"github.com/techvisits/visits-manager/internal/pkg/config"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type testServer struct {
	e       *echo.Echo
	dataDir string
	stores  *storage.Stores
}

func newTestServer(t *testing.T, jwtSecret string) *testServer {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverFile, DataDir: dir}}

	registry := metrics.NewRegistry()
	m := metrics.New(registry)
	stores, err := storage.Open(context.Background(), cfg, zerolog.Nop(), m.StoreFallbacksTotal)
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}

	e := NewRouter(Options{
		Stores:    stores,
		Logger:    zerolog.Nop(),
		Metrics:   m,
		Registry:  registry,
		JWTSecret: jwtSecret,
	})
	return &testServer{e: e, dataDir: dir, stores: stores}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func (s *testServer) createClient(t *testing.T, name string) domain.Client {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/clients", `{"name":"`+name+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var c domain.Client
	mustDecode(t, env.Data, &c)
	return c
}

func (s *testServer) createVisit(t *testing.T, clientID string) domain.Visit {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/visits", `{"clientId":"`+clientID+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create visit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var v domain.Visit
	mustDecode(t, env.Data, &v)
	return v
}

func (s *testServer) readFile(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(raw)
}

func mustDecode(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealth_Liveness(t *testing.T) {
	srv := newTestServer(t, "")

	rec, env := srv.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("expected 200 ok, got %d %+v", rec.Code, env)
	}
	if env.Message != "Tech Visits Manager API running" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestHealth_Readiness(t *testing.T) {
	srv := newTestServer(t, "")

	rec, env := srv.do(t, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("expected 200 ok, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealth_ReadinessDegraded(t *testing.T) {
	srv := newTestServer(t, "")
	srv.stores.Ping = func(context.Context) error { return errors.New("disk gone") }
	srv.e = NewRouter(Options{
		Stores:   srv.stores,
		Logger:   zerolog.Nop(),
		Metrics:  metrics.New(metrics.NewRegistry()),
		Registry: metrics.NewRegistry(),
	})

	rec, env := srv.do(t, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable || env.OK {
		t.Fatalf("expected 503 not ok, got %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"degraded"`) {
		t.Errorf("expected degraded status, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

func TestClients_ListEmpty(t *testing.T) {
	srv := newTestServer(t, "")

	rec, env := srv.do(t, http.MethodGet, "/api/clients", "")
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("expected 200 ok, got %d", rec.Code)
	}
	if string(env.Data) != "[]" {
		t.Errorf("expected empty array, got %s", env.Data)
	}
}

func TestClients_CreateAndList(t *testing.T) {
	srv := newTestServer(t, "")

	rec, env := srv.do(t, http.MethodPost, "/api/clients", `{"name":" Ana Torres ","phone":"555-0100"}`)
	if rec.Code != http.StatusCreated || !env.OK {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Client
	mustDecode(t, env.Data, &created)
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Errorf("id and createdAt must be stamped, got %+v", created)
	}
	if created.Name != "Ana Torres" || created.Phone != "555-0100" || created.Address != "" {
		t.Errorf("unexpected client %+v", created)
	}
	if !strings.Contains(string(env.Data), `"address":""`) {
		t.Errorf("defaulted fields must be present as empty strings: %s", env.Data)
	}

	_, env = srv.do(t, http.MethodGet, "/api/clients", "")
	var listed []domain.Client
	mustDecode(t, env.Data, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("expected the created client in the list, got %+v", listed)
	}
	if !strings.Contains(srv.readFile(t, "clients.json"), created.ID) {
		t.Error("client must be persisted to clients.json")
	}
}

func TestClients_CreateEmptyNameIs400(t *testing.T) {
	srv := newTestServer(t, "")

	for _, body := range []string{`{"name":""}`, `{"name":"   "}`, `{"phone":"1"}`, `{}`} {
		rec, env := srv.do(t, http.MethodPost, "/api/clients", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
		if env.OK || env.Error != "name is required" {
			t.Errorf("body %s: unexpected envelope %+v", body, env)
		}
	}
}

func TestClients_CreateMalformedBodyIs400(t *testing.T) {
	srv := newTestServer(t, "")

	rec, env := srv.do(t, http.MethodPost, "/api/clients", `{"name":`)
	if rec.Code != http.StatusBadRequest || env.OK {
		t.Fatalf("expected 400 error envelope, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestClients_DeleteUnknownIs404AndLeavesCollection(t *testing.T) {
	srv := newTestServer(t, "")
	srv.createClient(t, "Ana")
	before := srv.readFile(t, "clients.json")

	rec, env := srv.do(t, http.MethodDelete, "/api/clients/does-not-exist", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.OK || env.Error != "client not found" {
		t.Errorf("unexpected envelope %+v", env)
	}
	if after := srv.readFile(t, "clients.json"); after != before {
		t.Errorf("collection changed:\nbefore %s\nafter  %s", before, after)
	}
}

func TestClients_Delete(t *testing.T) {
	srv := newTestServer(t, "")
	c := srv.createClient(t, "Ana")

	rec, env := srv.do(t, http.MethodDelete, "/api/clients/"+c.ID, "")
	if rec.Code != http.StatusOK || !env.OK || env.Message != "client deleted" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	_, env = srv.do(t, http.MethodGet, "/api/clients", "")
	if string(env.Data) != "[]" {
		t.Errorf("expected empty list after delete, got %s", env.Data)
	}
}

// ---------------------------------------------------------------------------
// Visits
// ---------------------------------------------------------------------------

func TestVisits_CreateMissingClientIDIs400(t *testing.T) {
	srv := newTestServer(t, "")

	rec, env := srv.do(t, http.MethodPost, "/api/visits", `{"notes":"x"}`)
	if rec.Code != http.StatusBadRequest || env.Error != "clientId is required" {
		t.Fatalf("expected 400 clientId is required, got %d %+v", rec.Code, env)
	}
}

func TestVisits_CreateUnknownClientIs404(t *testing.T) {
	srv := newTestServer(t, "")
	srv.createClient(t, "Ana")

	rec, env := srv.do(t, http.MethodPost, "/api/visits", `{"clientId":"ghost"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.OK || env.Error != "client not found" {
		t.Errorf("unexpected envelope %+v", env)
	}

	_, env = srv.do(t, http.MethodGet, "/api/visits", "")
	if string(env.Data) != "[]" {
		t.Errorf("no visit must be stored, got %s", env.Data)
	}
}

func TestVisits_CreateDefaults(t *testing.T) {
	srv := newTestServer(t, "")
	c := srv.createClient(t, "Ana")

	v := srv.createVisit(t, c.ID)
	if v.Status != domain.DefaultVisitStatus {
		t.Errorf("expected default status, got %q", v.Status)
	}
	if _, err := time.Parse(domain.VisitDateLayout, v.Date); err != nil {
		t.Errorf("default date %q must use the ISO layout: %v", v.Date, err)
	}
	if v.ClientID != c.ID || v.Notes != "" {
		t.Errorf("unexpected visit %+v", v)
	}
}

func TestVisits_ListByClientReturnsExactMatches(t *testing.T) {
	srv := newTestServer(t, "")
	a := srv.createClient(t, "Ana")
	b := srv.createClient(t, "Luis")

	v1 := srv.createVisit(t, a.ID)
	srv.createVisit(t, b.ID)
	v3 := srv.createVisit(t, a.ID)

	rec, env := srv.do(t, http.MethodGet, "/api/visits/client/"+a.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []domain.Visit
	mustDecode(t, env.Data, &got)
	if len(got) != 2 || got[0].ID != v1.ID || got[1].ID != v3.ID {
		t.Errorf("expected visits of client a only, got %+v", got)
	}

	_, env = srv.do(t, http.MethodGet, "/api/visits/client/nobody", "")
	if string(env.Data) != "[]" {
		t.Errorf("expected empty array for unknown client, got %s", env.Data)
	}
}

func TestVisits_DeleteUnknownIs404AndLeavesCollection(t *testing.T) {
	srv := newTestServer(t, "")
	c := srv.createClient(t, "Ana")
	srv.createVisit(t, c.ID)
	before := srv.readFile(t, "visits.json")

	rec, env := srv.do(t, http.MethodDelete, "/api/visits/nope", "")
	if rec.Code != http.StatusNotFound || env.Error != "visit not found" {
		t.Fatalf("expected 404 visit not found, got %d %+v", rec.Code, env)
	}
	if after := srv.readFile(t, "visits.json"); after != before {
		t.Error("visits collection must be unchanged")
	}
}

func TestVisits_DeleteClientOrphansVisits(t *testing.T) {
	srv := newTestServer(t, "")
	c := srv.createClient(t, "Ana")
	v := srv.createVisit(t, c.ID)

	if rec, _ := srv.do(t, http.MethodDelete, "/api/clients/"+c.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete client: %d", rec.Code)
	}

	_, env := srv.do(t, http.MethodGet, "/api/visits", "")
	var visits []domain.Visit
	mustDecode(t, env.Data, &visits)
	if len(visits) != 1 || visits[0].ID != v.ID {
		t.Errorf("visit must survive client deletion, got %+v", visits)
	}

	rec, env := srv.do(t, http.MethodDelete, "/api/visits/"+v.ID, "")
	if rec.Code != http.StatusOK || env.Message != "visit deleted" {
		t.Errorf("orphaned visit must still be deletable, got %d %+v", rec.Code, env)
	}
}

// ---------------------------------------------------------------------------
// Storage fallback, routing, auth, metrics
// ---------------------------------------------------------------------------

func TestCorruptFileIsServedAsEmpty(t *testing.T) {
	srv := newTestServer(t, "")
	if err := os.WriteFile(filepath.Join(srv.dataDir, "clients.json"), []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, env := srv.do(t, http.MethodGet, "/api/clients", "")
	if rec.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Fatalf("expected 200 with empty list, got %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = srv.do(t, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), `visits_store_fallbacks_total{collection="clients"} 1`) {
		t.Errorf("expected fallback counter in metrics output:\n%s", rec.Body.String())
	}
}

func TestUndecodableRecordIsNotOverwritten(t *testing.T) {
	srv := newTestServer(t, "")
	content := `[
  {"id":"a","name":"Ana","phone":"","address":"","notes":"","createdAt":"2026-03-14T09:30:00.000Z"},
  {"id":"b","name":"Bo","phone":"","address":"","notes":"","createdAt":"2024-01-01"}
]`
	path := filepath.Join(srv.dataDir, "clients.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, env := srv.do(t, http.MethodGet, "/api/clients", "")
	if rec.Code != http.StatusInternalServerError || env.OK || env.Error != "internal server error" {
		t.Fatalf("expected 500 error envelope, got %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = srv.do(t, http.MethodPost, "/api/clients", `{"name":"Cy"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on create, got %d", rec.Code)
	}
	rec, _ = srv.do(t, http.MethodDelete, "/api/clients/a", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on delete, got %d", rec.Code)
	}

	if got := srv.readFile(t, "clients.json"); got != content {
		t.Errorf("file must keep its records, got:\n%s", got)
	}

	rec, _ = srv.do(t, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), `visits_store_fallbacks_total{collection="clients"} 0`) {
		t.Error("an undecodable record must not count as a fallback")
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	srv := newTestServer(t, "")

	rec, env := srv.do(t, http.MethodGet, "/api/unknown", "")
	if rec.Code != http.StatusNotFound || env.OK || env.Error == "" {
		t.Fatalf("expected 404 error envelope, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, "secret")

	rec, _ := srv.do(t, http.MethodOptions, "/api/clients", "",
		"Origin", "http://localhost:5500",
		"Access-Control-Request-Method", http.MethodPost,
	)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "*" {
		t.Errorf("expected wildcard origin, got %q", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	}
}

func TestAuth_EnabledWithSecret(t *testing.T) {
	srv := newTestServer(t, "secret")

	rec, env := srv.do(t, http.MethodGet, "/api/clients", "")
	if rec.Code != http.StatusUnauthorized || env.OK {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "front-desk"}).
		SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	rec, _ = srv.do(t, http.MethodGet, "/api/clients", "", "Authorization", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	if rec, _ := srv.do(t, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health must stay public, got %d", rec.Code)
	}
}

func TestMetrics_DomainCounters(t *testing.T) {
	srv := newTestServer(t, "")
	c := srv.createClient(t, "Ana")
	srv.createVisit(t, c.ID)

	rec, _ := srv.do(t, http.MethodGet, "/metrics", "")
	body := rec.Body.String()
	for _, want := range []string{
		"visits_clients_created_total 1",
		"visits_visits_created_total 1",
		"visits_http_requests_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_VisitStatusIsNotALabel(t *testing.T) {
	srv := newTestServer(t, "")
	c := srv.createClient(t, "Ana")

	for _, status := range []string{"free text a", "free text b", "free text c"} {
		rec, _ := srv.do(t, http.MethodPost, "/api/visits", `{"clientId":"`+c.ID+`","status":"`+status+`"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create visit: expected 201, got %d", rec.Code)
		}
	}

	rec, _ := srv.do(t, http.MethodGet, "/metrics", "")
	body := rec.Body.String()
	if !strings.Contains(body, "visits_visits_created_total 3") {
		t.Errorf("expected a single series counting 3 visits:\n%s", body)
	}
	if strings.Contains(body, "free text") {
		t.Error("visit status must not appear in metrics output")
	}
}

func TestNewRouter_DefaultsMetrics(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverFile, DataDir: t.TempDir()}}
	stores, err := storage.Open(context.Background(), cfg, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}
	srv := &testServer{
		e:       NewRouter(Options{Stores: stores, Logger: zerolog.Nop()}),
		dataDir: cfg.Store.DataDir,
		stores:  stores,
	}

	c := srv.createClient(t, "Ana")
	srv.createVisit(t, c.ID)
	if rec, _ := srv.do(t, http.MethodDelete, "/api/clients/"+c.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete client: expected 200, got %d", rec.Code)
	}

	rec, _ := srv.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "visits_clients_created_total 1") {
		t.Errorf("expected default metrics to be served, got %d", rec.Code)
	}
}
