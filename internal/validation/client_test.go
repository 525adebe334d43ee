package validation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// pingHandler answers like a healthy chat server.
func pingHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if version != "" {
			w.Header().Set("X-Version-Id", version)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}
}

var upgrader = websocket.Upgrader{}

func wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	_ = conn.Close()
}

// newTLSClient returns a client wired to trust the test server's
// certificate, for both HTTP and the websocket probe.
func newTLSClient(ts *httptest.Server) *Client {
	c := NewClient()
	c.HTTPClient = ts.Client()
	if transport, ok := ts.Client().Transport.(*http.Transport); ok {
		c.Dialer.TLSClientConfig = transport.TLSClientConfig
	}
	return c
}

func TestClientValidateOK(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PingEndpoint, pingHandler("9.5.0"))
	mux.HandleFunc("/api/v4/websocket", wsHandler)

	ts := httptest.NewTLSServer(mux)
	defer ts.Close()

	c := newTLSClient(ts)

	result, err := c.Validate(context.Background(), ts.URL, "")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Status != StatusOK {
		t.Errorf("Status = %v, want %v", result.Status, StatusOK)
	}
	if result.ServerVersion != "9.5.0" {
		t.Errorf("ServerVersion = %q, want %q", result.ServerVersion, "9.5.0")
	}
}

func TestClientRealtimeProbeFailureDowngrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PingEndpoint, pingHandler("9.5.0"))
	// No websocket route: the probe gets a plain 404 instead of an upgrade.

	ts := httptest.NewTLSServer(mux)
	defer ts.Close()

	c := newTLSClient(ts)

	result, err := c.Validate(context.Background(), ts.URL, "")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Status != StatusUnknownVersion {
		t.Errorf("Status = %v, want %v", result.Status, StatusUnknownVersion)
	}
}

func TestClientInsecure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PingEndpoint, pingHandler("9.5.0"))

	ts := httptest.NewServer(mux) // plain HTTP
	defer ts.Close()

	c := NewClient()
	c.ProbeRealtime = false

	result, err := c.Validate(context.Background(), ts.URL, "")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Status != StatusInsecure {
		t.Errorf("Status = %v, want %v", result.Status, StatusInsecure)
	}
	if result.ServerVersion != "9.5.0" {
		t.Errorf("ServerVersion = %q, want %q", result.ServerVersion, "9.5.0")
	}
}

func TestClientNotAChatServer(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"html instead of ping payload",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>welcome</html>"))
			},
		},
		{
			"ping endpoint missing",
			http.NotFound,
		},
		{
			"ping status not ok",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"UNHEALTHY"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			c := NewClient()
			c.ProbeRealtime = false

			result, err := c.Validate(context.Background(), ts.URL, "")
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if result.Status != StatusNotMattermost {
				t.Errorf("Status = %v, want %v", result.Status, StatusNotMattermost)
			}
		})
	}
}

func TestClientRedirectReportsCorrectedURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PingEndpoint, pingHandler("9.5.0"))
	target := httptest.NewServer(mux)
	defer target.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+r.URL.Path, http.StatusMovedPermanently)
	}))
	defer redirecting.Close()

	c := NewClient()
	c.ProbeRealtime = false

	result, err := c.Validate(context.Background(), redirecting.URL, "")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Status != StatusURLNotMatched {
		t.Errorf("Status = %v, want %v", result.Status, StatusURLNotMatched)
	}
	if result.ValidatedURL != target.URL {
		t.Errorf("ValidatedURL = %q, want %q", result.ValidatedURL, target.URL)
	}
}

func TestClientDuplicateDetection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PingEndpoint, pingHandler("9.5.0"))
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := NewClient()
	c.ProbeRealtime = false
	c.LookupURL = func(url string) (string, bool) {
		if url == ts.URL {
			return "server-1", true
		}
		return "", false
	}

	// New server colliding with an existing entry.
	result, err := c.Validate(context.Background(), ts.URL, "")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Status != StatusURLExists {
		t.Errorf("Status = %v, want %v", result.Status, StatusURLExists)
	}

	// The same server being edited passes the duplicate check.
	result, err = c.Validate(context.Background(), ts.URL, "server-1")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Status == StatusURLExists {
		t.Error("editing a server must not collide with itself")
	}
}

func TestClientValidateURLNormalizesErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		pingHandler("9.5.0")(w, r)
	}))
	defer ts.Close()

	c := NewClient()
	c.ProbeRealtime = false

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	result := c.ValidateURL(ctx, ts.URL, "")
	if result.Status != StatusNotMattermost {
		t.Errorf("Status = %v, want %v", result.Status, StatusNotMattermost)
	}

	// Unreachable endpoint behaves the same way.
	result = c.ValidateURL(context.Background(), "http://127.0.0.1:1", "")
	if result.Status != StatusNotMattermost {
		t.Errorf("Status for unreachable = %v, want %v", result.Status, StatusNotMattermost)
	}
}
