package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/privalytics/riskpipe/pkg/dataset"
)

// Client is a thin HTTP client for the risk API, used by the live view
// to poll service health and stream predictions.
type Client struct {
	baseURL string
	http    *http.Client
}

// HealthStatus is the subset of the health endpoint the dashboard shows.
type HealthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Prediction is one classification returned by the predict endpoint.
type Prediction struct {
	RiskLevel     int                `json:"risk_level"`
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Health fetches the service health. A degraded or unhealthy service is
// not an error; the status string carries that information.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var hs HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		return nil, fmt.Errorf("decoding health response: %w", err)
	}
	return &hs, nil
}

// Predict classifies a single record against the live model.
func (c *Client) Predict(ctx context.Context, record dataset.Record) (*Prediction, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("predict: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("predict: unexpected status %d", resp.StatusCode)
	}

	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}
	return &p, nil
}
