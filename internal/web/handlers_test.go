package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"circuitdesk/internal/circuit"
	"circuitdesk/internal/config"
)

// newTestServer builds a server with zero mock latency and rate limiting
// disabled so tests stay fast and deterministic.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.RequestTimeout = 5 * time.Second
	cfg.Rate.Enabled = false
	cfg.Security.EnableCSP = true
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "text"

	store := circuit.NewStore(0)
	store.Seed(circuit.DemoRecords())
	gate := circuit.NewGate(time.Hour)

	return NewServer(store, gate, cfg)
}

// loginToken logs in through the API and returns the session token.
func loginToken(t *testing.T, s *Server) string {
	t.Helper()

	body := strings.NewReader(`{"username":"admin","password":"telco123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var sess circuit.Session
	if err := json.NewDecoder(rr.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return sess.Token
}

func doJSON(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)
		if token == "" {
			t.Fatal("empty session token")
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		s := newTestServer(t)
		rr := doJSON(s, http.MethodPost, "/api/login", "", `{"username":"admin","password":"nope"}`)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}

		var er ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&er); err != nil {
			t.Fatalf("decode error response: %v", err)
		}
		if er.Code != "AUTH001" {
			t.Errorf("error code = %q, want AUTH001", er.Code)
		}
	})

	t.Run("sets session cookie", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/login",
			strings.NewReader(`{"username":"admin","password":"telco123"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == "circuitdesk_session" && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("login response did not set the session cookie")
		}
	})
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/circuits/CKT-1001"},
		{http.MethodPost, "/api/circuits"},
		{http.MethodPut, "/api/circuits/CKT-1001"},
		{http.MethodPost, "/api/logout"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rr := doJSON(s, p.method, p.path, "", "")
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rr.Code)
			}
		})
	}
}

func TestLookupHandler(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	t.Run("hit", func(t *testing.T) {
		rr := doJSON(s, http.MethodGet, "/api/circuits/CKT-1001", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
		}
		var rec circuit.Record
		if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
			t.Fatalf("decode record: %v", err)
		}
		if rec.CircuitID != "CKT-1001" {
			t.Errorf("CircuitID = %q, want CKT-1001", rec.CircuitID)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		rr := doJSON(s, http.MethodGet, "/api/circuits/ckt-1002", token, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
	})

	t.Run("miss", func(t *testing.T) {
		rr := doJSON(s, http.MethodGet, "/api/circuits/CKT-9999", token, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
		var er ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&er); err != nil {
			t.Fatalf("decode error response: %v", err)
		}
		if er.Code != "CIR001" {
			t.Errorf("error code = %q, want CIR001", er.Code)
		}
	})
}

func TestSearchHandler(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	rr := doJSON(s, http.MethodGet, "/api/circuits/search?circuit_id="+url.QueryEscape("CKT-1003"), token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var rec circuit.Record
	if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.ClientName != "Cobalt Health" {
		t.Errorf("ClientName = %q, want Cobalt Health", rec.ClientName)
	}
}

func TestRegisterHandler(t *testing.T) {
	const newCircuit = `{
		"circuit_id": "CKT-5001",
		"client_name": "Nimbus Retail",
		"client_ip": "10.9.8.7",
		"subnet": "255.255.255.0",
		"dns": "10.9.8.1",
		"vlan": "300",
		"bandwidth": "250 Mbps",
		"location": "DC-West Rack 4",
		"mux_id": "MUX-512",
		"port_id": "GE-1/0/3"
	}`

	t.Run("valid record", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		rr := doJSON(s, http.MethodPost, "/api/circuits", token, newCircuit)
		if rr.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
		}
		var rec circuit.Record
		if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
			t.Fatalf("decode record: %v", err)
		}
		if rec.CircuitID != "CKT-5001" {
			t.Errorf("CircuitID = %q, want CKT-5001", rec.CircuitID)
		}
		if rec.LastUpdated == "" {
			t.Error("LastUpdated not stamped")
		}

		// The new record is immediately visible to lookup
		rr = doJSON(s, http.MethodGet, "/api/circuits/CKT-5001", token, "")
		if rr.Code != http.StatusOK {
			t.Errorf("lookup after register status = %d, want 200", rr.Code)
		}
	})

	t.Run("validation errors per field", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		rr := doJSON(s, http.MethodPost, "/api/circuits", token,
			`{"circuit_id":"CKT-5002","client_name":"N","vlan":"9000","bandwidth":"fast"}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rr.Code)
		}

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		for _, f := range []string{"client_name", "vlan", "bandwidth", "client_ip"} {
			if _, ok := resp.Errors[f]; !ok {
				t.Errorf("missing validation error for %q: %v", f, resp.Errors)
			}
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		if rr := doJSON(s, http.MethodPost, "/api/circuits", token, newCircuit); rr.Code != http.StatusCreated {
			t.Fatalf("first register status = %d", rr.Code)
		}
		rr := doJSON(s, http.MethodPost, "/api/circuits", token, newCircuit)
		if rr.Code != http.StatusConflict {
			t.Errorf("second register status = %d, want 409", rr.Code)
		}
	})
}

func TestUpdateHandler(t *testing.T) {
	t.Run("applies edits", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		rr := doJSON(s, http.MethodPut, "/api/circuits/CKT-1001", token,
			`{"bandwidth":"2 Gbps","vlan":"150"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
		}
		var rec circuit.Record
		if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
			t.Fatalf("decode record: %v", err)
		}
		if rec.Bandwidth != "2 Gbps" || rec.VLAN != "150" {
			t.Errorf("update not applied: %+v", rec)
		}
	})

	t.Run("circuit id immutable", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		rr := doJSON(s, http.MethodPut, "/api/circuits/CKT-1001", token,
			`{"circuit_id":"CKT-HACKED"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		var er ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&er); err != nil {
			t.Fatalf("decode error response: %v", err)
		}
		if er.Code != "CIR003" {
			t.Errorf("error code = %q, want CIR003", er.Code)
		}
	})

	t.Run("failed validation leaves record unchanged", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		rr := doJSON(s, http.MethodPut, "/api/circuits/CKT-1001", token,
			`{"client_ip":"10.0.0.777"}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rr.Code)
		}

		rr = doJSON(s, http.MethodGet, "/api/circuits/CKT-1001", token, "")
		var rec circuit.Record
		if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
			t.Fatalf("decode record: %v", err)
		}
		if rec.ClientIP != "10.20.30.5" {
			t.Errorf("ClientIP = %q, want original 10.20.30.5", rec.ClientIP)
		}
	})

	t.Run("unknown circuit", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		rr := doJSON(s, http.MethodPut, "/api/circuits/CKT-9999", token, `{"vlan":"5"}`)
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}

func TestLogoutHandler(t *testing.T) {
	s := newTestServer(t)
	token := loginToken(t, s)

	if rr := doJSON(s, http.MethodPost, "/api/logout", token, ""); rr.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rr.Code)
	}

	// The token no longer works
	rr := doJSON(s, http.MethodGet, "/api/circuits/CKT-1001", token, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status after logout = %d, want 401", rr.Code)
	}
}

func TestIndexPage(t *testing.T) {
	t.Run("unauthenticated visitors see the login form", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `name="password"`) {
			t.Error("page does not contain the login form")
		}
	})

	t.Run("authenticated visitors see the search view", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "circuitdesk_session", Value: token})
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)

		body := rr.Body.String()
		if !strings.Contains(body, `name="circuit_id"`) {
			t.Error("page does not contain the search form")
		}
		if strings.Contains(body, `name="password"`) {
			t.Error("authenticated page still shows the login form")
		}
	})

	t.Run("register view", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		req := httptest.NewRequest(http.MethodGet, "/?view=register", nil)
		req.AddCookie(&http.Cookie{Name: "circuitdesk_session", Value: token})
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)

		if !strings.Contains(rr.Body.String(), `name="mux_id"`) {
			t.Error("register view missing circuit form fields")
		}
	})

	t.Run("security headers present", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)

		if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("missing X-Content-Type-Options header")
		}
		if rr.Header().Get("Content-Security-Policy") == "" {
			t.Error("missing Content-Security-Policy header")
		}
	})
}

func TestHTMXResponses(t *testing.T) {
	t.Run("form login returns the search fragment", func(t *testing.T) {
		s := newTestServer(t)

		form := url.Values{"username": {"admin"}, "password": {"telco123"}}
		req := httptest.NewRequest(http.MethodPost, "/api/login",
			strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
		}
		if !strings.Contains(rr.Body.String(), `name="circuit_id"`) {
			t.Error("HTMX login response is not the search fragment")
		}
	})

	t.Run("lookup miss renders an error alert", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		req := httptest.NewRequest(http.MethodGet, "/api/circuits/CKT-9999", nil)
		req.Header.Set("X-Session-Token", token)
		req.Header.Set("HX-Request", "true")
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, "alert") || !strings.Contains(body, "CIR001") {
			t.Errorf("HTMX miss response missing error alert: %s", body)
		}
	})

	t.Run("register validation re-renders the form inline", func(t *testing.T) {
		s := newTestServer(t)
		token := loginToken(t, s)

		form := url.Values{
			"circuit_id":  {"CKT-6001"},
			"client_name": {"X"},
			"client_ip":   {"10.0.0.1"},
			"subnet":      {"255.255.255.0"},
			"dns":         {"10.0.0.2"},
			"vlan":        {"100"},
			"bandwidth":   {"1 Gbps"},
			"location":    {"DC-East"},
			"mux_id":      {"MUX-1"},
			"port_id":     {"GE-0/0/1"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/circuits",
			strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Session-Token", token)
		req.Header.Set("HX-Request", "true")
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, "Client Name must be at least 2 characters") {
			t.Errorf("inline error missing from re-rendered form: %s", body)
		}
		// Submitted values survive the round trip
		if !strings.Contains(body, `value="CKT-6001"`) {
			t.Error("submitted circuit_id not refilled in form")
		}
	})
}
