// internal/app/store/dailylog/writer.go
package dailylog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DayLayout is the date portion of a daily log file name.
const DayLayout = "2006-01-02"

// Defaults for Config fields left empty.
const (
	DefaultPrefix    = "daily_"
	DefaultExt       = ".txt"
	DefaultQueueSize = 64
)

// ErrWriterClosed is returned by Append after Close.
var ErrWriterClosed = errors.New("dailylog: writer closed")

// Config describes where daily log files live and how they are named.
type Config struct {
	Dir       string // directory holding the daily files
	Prefix    string // file name prefix (default "daily_")
	Ext       string // file name extension including the dot (default ".txt")
	QueueSize int    // pending append requests before callers block (default 64)
}

func (c Config) withDefaults() Config {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Ext == "" {
		c.Ext = DefaultExt
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	return c
}

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %s: %w", dir, err)
	}
	return nil
}

type appendRequest struct {
	day   string
	block []byte
	reply chan appendResult
}

type appendResult struct {
	path string
	err  error
}

// Writer appends formatted blocks to the file for a UTC calendar day.
//
// A single goroutine owns the open file handle, so blocks from concurrent
// callers are written whole and in the order they were accepted. The handle
// is rotated when the day changes, and reopened after a failed write or
// when the file at the day's path is no longer the one held open.
type Writer struct {
	cfg    Config
	logger *zap.Logger

	reqs      chan appendRequest
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// owned by run
	file *os.File
	day  string
}

// New starts a Writer. The directory is not created here; call EnsureDir
// once at startup.
func New(cfg Config, logger *zap.Logger) *Writer {
	cfg = cfg.withDefaults()
	w := &Writer{
		cfg:     cfg,
		logger:  logger,
		reqs:    make(chan appendRequest, cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

// Dir returns the directory the writer appends into.
func (w *Writer) Dir() string { return w.cfg.Dir }

// FileName returns the daily file name for the UTC date of t.
func (w *Writer) FileName(t time.Time) string {
	return w.cfg.Prefix + t.UTC().Format(DayLayout) + w.cfg.Ext
}

// PathFor returns the daily file path for the UTC date of t.
func (w *Writer) PathFor(t time.Time) string {
	return filepath.Join(w.cfg.Dir, w.FileName(t))
}

// Append writes block to the file for the UTC date of at and returns the
// file path. The block is written with a single write call.
func (w *Writer) Append(ctx context.Context, at time.Time, block []byte) (string, error) {
	req := appendRequest{
		day:   at.UTC().Format(DayLayout),
		block: block,
		reply: make(chan appendResult, 1),
	}

	select {
	case w.reqs <- req:
	case <-w.done:
		return "", ErrWriterClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}

	// Once queued the write is not abandoned, so the caller's answer always
	// matches what reached the file.
	select {
	case res := <-req.reply:
		return res.path, res.err
	case <-w.stopped:
		select {
		case res := <-req.reply:
			return res.path, res.err
		default:
			return "", ErrWriterClosed
		}
	}
}

// Close stops the writer after draining queued requests and closes the
// open file.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	<-w.stopped
	return nil
}

func (w *Writer) run() {
	defer close(w.stopped)
	for {
		select {
		case req := <-w.reqs:
			w.handle(req)
		case <-w.done:
			for {
				select {
				case req := <-w.reqs:
					w.handle(req)
				default:
					w.closeFile()
					return
				}
			}
		}
	}
}

func (w *Writer) handle(req appendRequest) {
	path := filepath.Join(w.cfg.Dir, w.cfg.Prefix+req.day+w.cfg.Ext)

	if w.file != nil && w.day == req.day && !w.isCurrent(path) {
		w.logger.Info("daily log file moved or removed; reopening", zap.String("file", path))
		w.closeFile()
	}

	if w.file == nil || w.day != req.day {
		w.closeFile()
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			req.reply <- appendResult{path: path, err: fmt.Errorf("open %s: %w", path, err)}
			return
		}
		w.file = f
		w.day = req.day
		w.logger.Debug("opened daily log file", zap.String("file", path))
	}

	if _, err := w.file.Write(req.block); err != nil {
		w.closeFile()
		req.reply <- appendResult{path: path, err: fmt.Errorf("append %s: %w", path, err)}
		return
	}
	req.reply <- appendResult{path: path}
}

// isCurrent reports whether the open handle is still the file at path.
func (w *Writer) isCurrent(path string) bool {
	onDisk, err := os.Stat(path)
	if err != nil {
		return false
	}
	open, err := w.file.Stat()
	if err != nil {
		return false
	}
	return os.SameFile(onDisk, open)
}

func (w *Writer) closeFile() {
	if w.file == nil {
		return
	}
	if err := w.file.Close(); err != nil {
		w.logger.Warn("failed to close daily log file",
			zap.String("day", w.day),
			zap.Error(err))
	}
	w.file = nil
	w.day = ""
}
