package kyc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"notaryflow/internal/config"
)

// httpGate implements Gate against the KYC service's HTTP API.
type httpGate struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGate creates a Gate talking to the configured KYC endpoint. The
// transport is traced with otelhttp so gated transitions show up in the
// same trace as the triggering request.
func NewHTTPGate(cfg config.KYCConfig) (Gate, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("kyc base url is required")
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpGate{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// verdictResponse is the collaborator's wire shape.
type verdictResponse struct {
	UserID  string `json:"user_id"`
	Verdict string `json:"verdict"`
}

func (g *httpGate) Check(ctx context.Context, userID string) (Verdict, error) {
	u := fmt.Sprintf("%s/verdicts/%s", g.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build kyc request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("kyc check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No verdict on file means verification has not started.
		return VerdictPending, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kyc check: unexpected status %d", resp.StatusCode)
	}

	var body verdictResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode kyc response: %w", err)
	}

	switch Verdict(body.Verdict) {
	case VerdictApproved, VerdictPending, VerdictRejected:
		return Verdict(body.Verdict), nil
	default:
		return "", fmt.Errorf("kyc check: unknown verdict %q", body.Verdict)
	}
}
