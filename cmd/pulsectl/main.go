// pulsectl replays recorded UI signals through a telemetry session and
// uploads the resulting live feed to a stratapulse server.
//
// Usage:
//
//	pulsectl [flags] <signals.jsonl | ->
//
// Each input line is one signal (login, logout, navigate, click). After the
// replay the feed, presence list and upload result are printed as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dalemusser/stratapulse/internal/app/system/telemetry"
	"github.com/dalemusser/stratapulse/internal/app/system/uplink"
	"github.com/dalemusser/stratapulse/internal/domain/models"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type report struct {
	Signals  int                    `json:"signals"`
	Recorded int                    `json:"recorded"`
	Feed     []models.LogEntry      `json:"feed"`
	Presence []models.PresenceEntry `json:"presence"`
	Upload   *uplink.Result         `json:"upload,omitempty"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		endpoint string
		identity string
		apiKey   string
		timeout  time.Duration
		noUpload bool
		verbose  bool
	)

	flagSet := pflag.NewFlagSet("pulsectl", pflag.ContinueOnError)
	flagSet.StringVar(&endpoint, "endpoint", uplink.DefaultEndpoint, "ingestion endpoint URL")
	flagSet.StringVarP(&identity, "identity", "i", "", "start the session as this identity before replaying")
	flagSet.StringVar(&apiKey, "api-key", os.Getenv("STRATAPULSE_API_KEY"), "Bearer key for the ingestion API")
	flagSet.DurationVar(&timeout, "timeout", uplink.DefaultTimeout, "upload timeout")
	flagSet.BoolVar(&noUpload, "no-upload", false, "replay and print without uploading")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected one signals file (or - for stdin), got %d arguments", flagSet.NArg())
	}

	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		logger = l
		defer logger.Sync()
	}

	in := stdin
	if path := flagSet.Arg(0); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	session := telemetry.New(telemetry.Options{
		Uplink: uplink.Config{Endpoint: endpoint, APIKey: apiKey, Timeout: timeout},
	}, logger)
	if identity != "" {
		if _, err := session.Start(identity); err != nil {
			return err
		}
	}

	stats, err := telemetry.Replay(session, in)
	if err != nil {
		return err
	}

	feed := session.LiveFeed()
	out := report{
		Signals:  stats.Signals,
		Recorded: stats.Recorded,
		Feed:     make([]models.LogEntry, len(feed)),
		Presence: session.PresenceList(),
	}
	for i, rec := range feed {
		out.Feed[i] = rec.Entry()
	}
	if !noUpload {
		res := session.Send(context.Background())
		out.Upload = &res
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if out.Upload != nil && !out.Upload.Success && out.Upload.Error != "" {
		return fmt.Errorf("upload failed: %s", out.Upload.Error)
	}
	return nil
}
