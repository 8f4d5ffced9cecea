// Package uplink uploads a snapshot of the live activity feed to the
// ingestion endpoint as one batch.
//
// Send never returns a Go error: every outcome, including transport and
// decoding failures, is reported as a Result value. At most one upload per
// Client is outstanding at a time; a concurrent Send is rejected without a
// network call rather than queued.
package uplink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dalemusser/stratapulse/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults for Config fields left empty.
const (
	DefaultEndpoint = "http://localhost:3001/api/analytics"
	DefaultTimeout  = 10 * time.Second
)

// UploadIDHeader carries the per-upload handle so server logs can be
// correlated with client results.
const UploadIDHeader = "X-Upload-ID"

// NoLogsMessage is reported when the feed is empty.
const NoLogsMessage = "No logs to send"

// ErrSendInFlight is reported when another upload is outstanding.
var ErrSendInFlight = errors.New("upload already in progress")

// Feed supplies the snapshot to upload.
type Feed interface {
	LiveFeed() []models.EventRecord
}

// Config configures a Client.
type Config struct {
	Endpoint   string        // ingestion URL (default DefaultEndpoint)
	APIKey     string        // sent as a Bearer token when set
	Timeout    time.Duration // applied when the caller's context has no deadline
	HTTPClient *http.Client  // default: a client with no timeout of its own
}

// Result is the outcome of Send. On a well-formed response it carries the
// server's acknowledgement as sent; otherwise Error describes the failure.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	File    string `json:"file,omitempty"`
	Error   string `json:"error,omitempty"`

	Status   int    `json:"-"` // HTTP status, zero when no response arrived
	UploadID string `json:"-"` // handle of this upload, empty when nothing was sent
	Sent     int    `json:"-"` // number of records in the uploaded batch
}

// Client uploads live-feed snapshots.
type Client struct {
	cfg    Config
	feed   Feed
	logger *zap.Logger

	inFlight atomic.Bool
	requests atomic.Int64
}

// New creates a Client reading snapshots from feed.
func New(cfg Config, feed Feed, logger *zap.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{cfg: cfg, feed: feed, logger: logger}
}

// Endpoint returns the configured ingestion URL.
func (c *Client) Endpoint() string { return c.cfg.Endpoint }

// Requests returns how many network requests this Client has issued.
func (c *Client) Requests() int64 { return c.requests.Load() }

// Send snapshots the feed and uploads it as one batch.
func (c *Client) Send(ctx context.Context) Result {
	snapshot := c.feed.LiveFeed()
	if len(snapshot) == 0 {
		return Result{Success: false, Message: NoLogsMessage}
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return Result{Success: false, Error: ErrSendInFlight.Error()}
	}
	defer c.inFlight.Store(false)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	batch := models.Batch{Logs: make([]models.LogEntry, len(snapshot))}
	for i, rec := range snapshot {
		batch.Logs[i] = rec.Entry()
	}

	uploadID := uuid.NewString()
	res, err := c.post(ctx, uploadID, batch)
	res.UploadID = uploadID
	res.Sent = len(snapshot)
	if err != nil {
		c.logger.Warn("activity upload failed",
			zap.String("upload_id", uploadID),
			zap.String("endpoint", c.cfg.Endpoint),
			zap.Int("count", len(snapshot)),
			zap.Error(err))
		res.Success = false
		res.Error = err.Error()
		return res
	}

	c.logger.Debug("activity upload acknowledged",
		zap.String("upload_id", uploadID),
		zap.Int("status", res.Status),
		zap.Bool("success", res.Success),
		zap.Int("count", len(snapshot)))
	return res
}

func (c *Client) post(ctx context.Context, uploadID string, batch models.Batch) (Result, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return Result{}, fmt.Errorf("encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(UploadIDHeader, uploadID)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.requests.Add(1)
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var ack Result
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return Result{Status: resp.StatusCode}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	ack.Status = resp.StatusCode
	return ack, nil
}
