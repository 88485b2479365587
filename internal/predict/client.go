package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bike-share-predict/internal/features"
)

// Client talks to the model-serving endpoint over HTTP. The endpoint
// accepts a fixed-schema feature matrix and returns one prediction per
// row.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates an inference client for the given endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type inferenceRequest struct {
	Columns   []string    `json:"columns"`
	Instances [][]float64 `json:"instances"`
}

type inferenceResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predict scores the feature frame and returns one raw float per row.
func (c *Client) Predict(ctx context.Context, frame features.Frame) ([]float64, error) {
	instances := make([][]float64, len(frame))
	for i, row := range frame {
		instances[i] = row.Values()
	}

	body, err := json.Marshal(inferenceRequest{
		Columns:   features.Columns,
		Instances: instances,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		inferenceFailed.Inc()
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()
	inferenceDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		inferenceFailed.Inc()
		return nil, fmt.Errorf("inference service returned status: %d", resp.StatusCode)
	}

	var out inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}

	return out.Predictions, nil
}
