package mlflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiPrefix = "/api/2.0/mlflow"

// Options параметры подключения к серверу MLflow
type Options struct {
	TrackingURI string
	Token       string // Bearer-токен, MLFLOW_TRACKING_TOKEN
	Username    string // Basic-авторизация, MLFLOW_TRACKING_USERNAME
	Password    string
	Timeout     time.Duration
}

// Client REST-клиент MLflow Tracking API 2.0
type Client struct {
	baseURL  string
	http     *http.Client
	token    string
	username string
	password string
	now      func() time.Time
}

// NewClient создаёт клиента для сервера из opts.TrackingURI
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.TrackingURI, "/"),
		http:     &http.Client{Timeout: timeout},
		token:    opts.Token,
		username: opts.Username,
		password: opts.Password,
		now:      time.Now,
	}
}

// GetRun возвращает сведения о прогоне
func (c *Client) GetRun(ctx context.Context, runID string) (*RunInfo, error) {
	var resp getRunResponse
	query := url.Values{"run_id": {runID}}
	if err := c.do(ctx, http.MethodGet, "/runs/get?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Run.Info, nil
}

// UpdateRun меняет статус прогона; endTime в миллисекундах, 0 не задаёт время окончания
func (c *Client) UpdateRun(ctx context.Context, runID, status string, endTime int64) error {
	return c.do(ctx, http.MethodPost, "/runs/update", updateRunRequest{
		RunID:   runID,
		Status:  status,
		EndTime: endTime,
	}, nil)
}

// LogBatch записывает пачку метрик прогона
func (c *Client) LogBatch(ctx context.Context, runID string, metrics []Metric) error {
	return c.do(ctx, http.MethodPost, "/runs/log-batch", logBatchRequest{
		RunID:   runID,
		Metrics: metrics,
	}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.username != "":
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mlflow request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read mlflow response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil || apiErr.Code == "" {
			apiErr.Code = http.StatusText(resp.StatusCode)
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode mlflow response: %w", err)
	}
	return nil
}
