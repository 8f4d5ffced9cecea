// Package analytics provides the log ingestion endpoint.
//
// Endpoints (mounted at /api/analytics):
//   - POST /         append a batch to the current UTC day's log file
//   - GET  /batches  list recently accepted batches (requires the Mongo ledger)
//   - GET  /batches/count  batches accepted on one UTC day (ledger)
//
// Each accepted batch is appended as one block: its entries formatted as
// "[ts] user - type: detail" lines followed by a blank line.
package analytics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/store/batches"
	"github.com/dalemusser/stratapulse/internal/app/store/dailylog"
	"github.com/dalemusser/stratapulse/internal/app/system/jsonutil"
	"github.com/dalemusser/stratapulse/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client-visible messages.
const (
	MsgInvalidLogs    = "Invalid logs format"
	MsgSaveFailed     = "Failed to save logs"
	MsgLedgerDisabled = "Batch ledger disabled"
)

// Batch listing limits.
const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

const ledgerTimeout = 5 * time.Second

// Appender writes a block to the daily file for the UTC date of at.
type Appender interface {
	Append(ctx context.Context, at time.Time, block []byte) (string, error)
}

// Ledger records and lists accepted batches.
type Ledger interface {
	Record(ctx context.Context, b batches.Batch) error
	Recent(ctx context.Context, limit int64) ([]batches.Batch, error)
	CountByDay(ctx context.Context, day string) (int64, error)
}

// Handler serves the ingestion API.
type Handler struct {
	logs   Appender
	ledger Ledger // nil when Mongo is not configured
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a Handler. ledger may be nil.
func NewHandler(logs Appender, ledger Ledger, logger *zap.Logger) *Handler {
	return &Handler{
		logs:   logs,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the clock that selects the daily file.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// SaveResponse is the 200 body of an accepted batch.
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	File    string `json:"file"`
}

// Save handles POST /api/analytics.
//
// Request body:
//
//	{"logs": [{"timestamp": "...", "user": "...", "type": "...", "detail": "..."}]}
//
// Entries are written as sent; an empty logs array appends a lone blank
// block. Identical batches are appended again each time. The body is not
// size-limited.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var envelope batchEnvelope
	if err := jsonutil.Decode(r, &envelope); err != nil {
		h.logger.Debug("ingest rejected: unreadable body",
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		jsonutil.BadRequest(w, MsgInvalidLogs)
		return
	}

	entries, err := decodeLogs(envelope.Logs)
	if err != nil {
		h.logger.Debug("ingest rejected",
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		jsonutil.BadRequest(w, MsgInvalidLogs)
		return
	}

	at := h.now().UTC()
	block := models.FormatBlock(entries)
	batchID := uuid.NewString()

	file, err := h.logs.Append(r.Context(), at, block)
	if err != nil {
		h.logger.Error("failed to save logs",
			zap.String("batch_id", batchID),
			zap.Int("count", len(entries)),
			zap.Error(err))
		jsonutil.InternalError(w, MsgSaveFailed)
		return
	}

	h.logger.Info("logs saved",
		zap.String("batch_id", batchID),
		zap.Int("count", len(entries)),
		zap.String("file", file))

	h.record(r, batches.Batch{
		BatchID:    batchID,
		Count:      len(entries),
		File:       file,
		Day:        at.Format(dailylog.DayLayout),
		RemoteAddr: r.RemoteAddr,
		ReceivedAt: at,
	})

	jsonutil.OK(w, SaveResponse{
		Success: true,
		Message: "Saved " + strconv.Itoa(len(entries)) + " logs",
		File:    file,
	})
}

// record writes the ledger entry. The batch is already durable in the daily
// file, so a ledger failure is logged and does not fail the request.
func (h *Handler) record(r *http.Request, b batches.Batch) {
	if h.ledger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), ledgerTimeout)
	defer cancel()
	if err := h.ledger.Record(ctx, b); err != nil {
		h.logger.Warn("batch ledger write failed",
			zap.String("batch_id", b.BatchID),
			zap.Error(err))
	}
}

// ListResponse is the body of GET /api/analytics/batches.
type ListResponse struct {
	Batches []batches.Batch `json:"batches"`
}

// List handles GET /api/analytics/batches?limit=N.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		jsonutil.NotFound(w, MsgLedgerDisabled)
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		jsonutil.BadRequest(w, "Invalid limit")
		return
	}

	list, err := h.ledger.Recent(r.Context(), int64(limit))
	if err != nil {
		h.logger.Error("failed to list batches", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list batches")
		return
	}
	if list == nil {
		list = []batches.Batch{}
	}
	jsonutil.OK(w, ListResponse{Batches: list})
}

// CountResponse is the body of GET /api/analytics/batches/count.
type CountResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// Count handles GET /api/analytics/batches/count?day=YYYY-MM-DD. Without a
// day it counts the current UTC day.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		jsonutil.NotFound(w, MsgLedgerDisabled)
		return
	}

	day := r.URL.Query().Get("day")
	if day == "" {
		day = h.now().UTC().Format(dailylog.DayLayout)
	} else if _, err := time.Parse(dailylog.DayLayout, day); err != nil {
		jsonutil.BadRequest(w, "Invalid day")
		return
	}

	n, err := h.ledger.CountByDay(r.Context(), day)
	if err != nil {
		h.logger.Error("failed to count batches", zap.String("day", day), zap.Error(err))
		jsonutil.InternalError(w, "Failed to count batches")
		return
	}
	jsonutil.OK(w, CountResponse{Day: day, Count: n})
}

var errBadLimit = errors.New("limit must be a positive integer")

// parseLimit returns DefaultListLimit for an empty value and clamps to
// MaxListLimit.
func parseLimit(s string) (int, error) {
	if s == "" {
		return DefaultListLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errBadLimit
	}
	if n > MaxListLimit {
		n = MaxListLimit
	}
	return n, nil
}
