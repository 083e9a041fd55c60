package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/okian/teambalance/internal/adapters/source"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/poolgen"
	"github.com/okian/teambalance/pkg/logger"
)

// Default configuration constants.
const (
	defaultSeed    = 42
	defaultNoise   = 8.0
	defaultTimeout = 2 * time.Minute
	filePermission = 0o644
)

func main() {
	if code := run(os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	d := model.DefaultSettings()
	fs := flag.NewFlagSet("gen-pool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		size     = fs.Int("size", d.PoolSize, "Number of competitors")
		events   = fs.Int("events", d.EventCount, "Number of events per competitor")
		brackets = fs.Int("brackets", d.BracketCount, "Number of seed brackets (team size)")
		seed     = fs.Int64("seed", defaultSeed, "Random seed; equal seeds give equal pools")
		noise    = fs.Float64("noise", defaultNoise, "How far event ranks drift from the overall seed")
		output   = fs.String("output", "", "Write the pool to this file instead of stdout")
		postURL  = fs.String("post", "", "Base URL of a running server; POST the pool to /balance and print the summary")
		timeout  = fs.Duration("timeout", defaultTimeout, "HTTP request timeout for -post")
		help     = fs.Bool("help", false, "Show help")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		fs.Usage()
		return 0
	}

	if err := logger.InitWithWriter(stderr, logger.FormatText); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return 1
	}
	ctx := context.Background()
	log := logger.Get()

	// Weights only matter to the balancer; the generator needs the shape.
	s := model.Settings{PoolSize: *size, EventCount: *events, BracketCount: *brackets, Weights: make([]float64, *brackets)}
	for i := range s.Weights {
		s.Weights[i] = 1
	}
	if err := s.Validate(); err != nil {
		log.Error(ctx, "invalid pool shape", logger.Error(err))
		return 2
	}

	pool := poolgen.Generate(s, poolgen.WithSeed(*seed), poolgen.WithNoise(*noise))
	var buf bytes.Buffer
	if err := source.Encode(&buf, pool); err != nil {
		log.Error(ctx, "failed to encode pool", logger.Error(err))
		return 1
	}

	if *postURL != "" {
		if err := post(ctx, *postURL, *timeout, &buf, stdout); err != nil {
			log.Error(ctx, "failed to submit pool", logger.Error(err))
			return 1
		}
		return 0
	}

	if *output != "" {
		if err := os.WriteFile(*output, buf.Bytes(), filePermission); err != nil {
			log.Error(ctx, "failed to write pool", logger.Error(err))
			return 1
		}
		log.Info(ctx, "pool written", logger.String("file", *output), logger.Int("players", len(pool)))
		return 0
	}
	if _, err := stdout.Write(buf.Bytes()); err != nil {
		return 1
	}
	return 0
}

// post submits body to baseURL/balance and copies the response to w.
func post(ctx context.Context, baseURL string, timeout time.Duration, body io.Reader, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := strings.TrimRight(baseURL, "/") + "/balance"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post pool: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read summary: %w", err)
	}
	return nil
}
