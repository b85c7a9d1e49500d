package matzip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HealthCheck reports the aggregated server health. The report itself is
// the answer: an unhealthy server responds 503 but still produces a
// report, which is returned with err == nil.
func (c *Client) HealthCheck(ctx context.Context) (out *Health, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return nil, fmt.Errorf("matzip: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matzip: GET /healthz: %w", err)
	}
	defer resp.Body.Close()

	// Both 200 and 503 carry the report body.
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusServiceUnavailable {
		out = &Health{}
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("matzip: decode health report: %w", err)
		}
		return out, nil
	}
	return nil, decodeError(resp)
}
