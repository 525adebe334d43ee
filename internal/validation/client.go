package validation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/platrum/chatcfg/internal/logging"
)

const (
	// PingEndpoint is the identification endpoint every supported chat
	// server exposes.
	PingEndpoint = "/api/v4/system/ping"

	// realtimeEndpoint is the websocket endpoint probed to confirm the
	// realtime channel.
	realtimeEndpoint = "/api/v4/websocket"

	// versionHeader carries the server version on every API response.
	versionHeader = "X-Version-Id"

	// maxPingBody bounds how much of the ping response is read.
	maxPingBody = 4 << 10
)

// Client identifies a candidate chat server over HTTP and implements the
// Remote interface for the Validator.
type Client struct {
	// HTTPClient is the underlying HTTP client. Redirects are followed;
	// the final URL is compared against the requested one.
	HTTPClient *http.Client

	// Dialer performs the realtime (websocket) probe.
	Dialer *websocket.Dialer

	// ProbeRealtime enables the websocket probe after a successful ping.
	// When the probe fails, an OK outcome is downgraded to UnknownVersion.
	ProbeRealtime bool

	// LookupURL consults the local registry for a server already
	// configured with the given URL. Optional.
	LookupURL func(url string) (id string, ok bool)
}

// NewClient creates a validation client with default transport settings.
// The per-attempt deadline comes from the caller's context, so the HTTP
// client itself carries no timeout.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{},
		Dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
		},
		ProbeRealtime: true,
	}
}

// pingResponse is the payload of the identification endpoint.
type pingResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Validate identifies the server at rawURL. Transport failures are returned
// as errors for the Validator to normalize; everything else maps onto the
// status taxonomy. existingID exempts the server being edited from the
// duplicate check.
func (c *Client) Validate(ctx context.Context, rawURL, existingID string) (Result, error) {
	started := time.Now()

	base := strings.TrimSuffix(rawURL, "/")

	if c.LookupURL != nil {
		if id, ok := c.LookupURL(base); ok && id != existingID {
			return Result{Status: StatusURLExists}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+PingEndpoint, nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	result := c.classify(req.URL, resp, base)

	if result.Status == StatusOK && c.ProbeRealtime {
		if err := c.probeRealtime(ctx, base); err != nil {
			logging.Debug("Realtime probe failed",
				zap.String("url", base),
				zap.Error(err),
			)
			result.Status = StatusUnknownVersion
		}
	}

	logging.LogValidation(base, result.Status.String(), time.Since(started))

	return result, nil
}

// classify maps the ping response onto the status taxonomy.
func (c *Client) classify(requested *url.URL, resp *http.Response, base string) Result {
	var ping pingResponse
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPingBody))
	if err != nil || resp.StatusCode != http.StatusOK {
		return Result{Status: StatusNotMattermost}
	}
	if err := json.Unmarshal(body, &ping); err != nil {
		return Result{Status: StatusNotMattermost}
	}
	if !strings.EqualFold(ping.Status, "OK") {
		return Result{Status: StatusNotMattermost}
	}

	version := resp.Header.Get(versionHeader)
	if version == "" {
		version = ping.Version
	}

	// resp.Request reflects the last request in the redirect chain.
	final := resp.Request.URL
	finalBase := strings.TrimSuffix(final.String(), PingEndpoint)
	finalBase = strings.TrimSuffix(finalBase, "/")

	if !strings.EqualFold(finalBase, base) {
		status := StatusURLNotMatched
		if schemeUpgradeOnly(requested, final) {
			status = StatusURLUpdated
		}
		return Result{
			Status:        status,
			ValidatedURL:  finalBase,
			ServerVersion: version,
		}
	}

	if requested.Scheme == "http" {
		return Result{Status: StatusInsecure, ServerVersion: version}
	}

	if version == "" {
		return Result{Status: StatusUnknownVersion}
	}

	return Result{Status: StatusOK, ServerVersion: version}
}

// probeRealtime dials the websocket endpoint to confirm the realtime
// channel is reachable.
func (c *Client) probeRealtime(ctx context.Context, base string) error {
	wsURL := base + realtimeEndpoint
	switch {
	case strings.HasPrefix(wsURL, "https://"):
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	case strings.HasPrefix(wsURL, "http://"):
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}

	conn, _, err := c.Dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	return conn.Close()
}

// schemeUpgradeOnly reports whether the only difference between the
// requested and final URL is an http-to-https upgrade.
func schemeUpgradeOnly(requested, final *url.URL) bool {
	return requested.Scheme == "http" &&
		final.Scheme == "https" &&
		strings.EqualFold(requested.Host, final.Host)
}

// ValidateURL runs a single validation attempt outside the debounced flow,
// normalizing transport errors to StatusNotMattermost. Used by the
// non-interactive commands.
func (c *Client) ValidateURL(ctx context.Context, rawURL, existingID string) Result {
	result, err := c.Validate(ctx, rawURL, existingID)
	if err != nil {
		logging.Debug("Validation request failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return Result{Status: StatusNotMattermost}
	}
	return result
}
