package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func get(t *testing.T, env *testEnv, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func TestIndexServed(t *testing.T) {
	env := newTestEnv(t, ServerConfig{})

	rec := get(t, env, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `<script src="/env-config.js"></script>`) {
		t.Fatal("index does not load env-config.js")
	}
	env.assertNoExternalCalls(t)
}

func TestEnvConfigInjectsCredentials(t *testing.T) {
	env := newTestEnv(t, ServerConfig{ClientID: "MOCK_CLIENT_ID", ClientAPIKey: "MOCK_API_KEY"})

	rec := get(t, env, "/env-config.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"const CLIENT_ID = 'MOCK_CLIENT_ID'", "const API_KEY = 'MOCK_API_KEY'"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q does not contain %q", body, want)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("content type = %q", ct)
	}
}

func TestEnvConfigEscapesValues(t *testing.T) {
	env := newTestEnv(t, ServerConfig{ClientID: "a';alert(1);//"})

	body := get(t, env, "/env-config.js").Body.String()
	if strings.Contains(body, "a';alert") {
		t.Fatalf("value not escaped: %s", body)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, ServerConfig{})

	rec := get(t, env, "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}
