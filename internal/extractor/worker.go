package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"downloaderapi/pkg/logger"

	"go.uber.org/zap"
)

// Worker delegates extraction to a remote HTTP worker process.
type Worker struct {
	workerURL  string
	httpClient *http.Client
}

type workerRequest struct {
	URL     string  `json:"url"`
	Options Options `json:"options"`
}

type workerError struct {
	Error string `json:"error"`
}

// NewWorker creates a worker backend
func NewWorker(host string, port int, timeout int) *Worker {
	return &Worker{
		workerURL: fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// Extract posts the request to the worker and decodes its engine JSON.
func (w *Worker) Extract(ctx context.Context, url string, opts Options) (*Info, error) {
	endpoint := w.workerURL + "/api/extract"

	bodyBytes, err := json.Marshal(workerRequest{URL: url, Options: opts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		logger.Logger.Error("Failed to create request", zap.Error(err))
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		logger.Logger.Error("Failed to reach extraction worker", zap.Error(err), zap.String("url", url))
		return nil, &Error{Message: fmt.Sprintf("extraction worker unavailable: %v", err), Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: "failed to read extraction worker response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Logger.Warn("Non-OK status from extraction worker", zap.Int("status", resp.StatusCode))
		var werr workerError
		if json.Unmarshal(payload, &werr) == nil && werr.Error != "" {
			return nil, &Error{Message: werr.Error, Err: fmt.Errorf("worker returned status %d", resp.StatusCode)}
		}
		return nil, &Error{Message: fmt.Sprintf("extraction worker returned status %d", resp.StatusCode)}
	}

	info, err := DecodeInfo(payload)
	if err != nil {
		logger.Logger.Error("Failed to decode response", zap.Error(err))
		return nil, &Error{Message: "could not parse media information", Err: err}
	}
	return info, nil
}
