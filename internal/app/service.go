// Package service runs balancing jobs for the CLI and the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/teambalance/internal/adapters/report"
	"github.com/okian/teambalance/internal/domain/balance"
	"github.com/okian/teambalance/internal/domain/draft"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/ratesearch"
	"github.com/okian/teambalance/internal/domain/scoring"
	"github.com/okian/teambalance/internal/domain/types"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

// Service builds balanced teams from a qualifier pool.
type Service struct {
	mu sync.RWMutex

	// Configuration
	settings model.Settings
	rateMin  float64
	rateMax  float64
	rateStep float64
	maxRatio float64
	mode     ratesearch.Mode

	// State
	runs      int
	failures  int
	lastRunID string

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSettings sets the pool shape and bracket weights.
func WithSettings(settings model.Settings) Option {
	return func(s *Service) {
		settings.Weights = append([]float64(nil), settings.Weights...)
		s.settings = settings
	}
}

// WithRateRange sets the probed tolerance rates.
func WithRateRange(minRate, maxRate, step float64) Option {
	return func(s *Service) {
		s.rateMin = minRate
		s.rateMax = maxRate
		s.rateStep = step
	}
}

// WithMaxRatio sets the acceptance bound of a rate trial.
func WithMaxRatio(ratio float64) Option {
	return func(s *Service) {
		s.maxRatio = ratio
	}
}

// WithMode selects how accepted rate trials are committed.
func WithMode(mode ratesearch.Mode) Option {
	return func(s *Service) {
		if mode != "" {
			s.mode = mode
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		settings: model.DefaultSettings(),
		rateMin:  ratesearch.DefaultRateMin,
		rateMax:  ratesearch.DefaultRateMax,
		rateStep: ratesearch.DefaultRateStep,
		maxRatio: ratesearch.DefaultMaxRatio,
		mode:     ratesearch.ModeRatchet,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Settings returns a copy of the configured settings.
func (s *Service) Settings() model.Settings {
	out := s.settings
	out.Weights = append([]float64(nil), s.settings.Weights...)
	return out
}

// Run drafts pool into teams, balances seeding, then searches tolerance rates
// for the time zone pass. pool is not modified.
func (s *Service) Run(ctx context.Context, pool []model.Competitor) (types.Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))

	summary, err := s.run(ctx, log, pool)
	summary.RunID = runID

	elapsed := time.Since(start)
	status := metrics.RunSucceeded
	if err != nil {
		status = metrics.RunFailed
	}
	metrics.RecordRun(status, float64(elapsed.Milliseconds()))

	s.mu.Lock()
	s.runs++
	if err != nil {
		s.failures++
	}
	s.lastRunID = runID
	s.mu.Unlock()

	if err != nil {
		log.Warn(ctx, "balancing run failed", logger.Error(err), logger.Duration("elapsed", elapsed))
		return types.Summary{}, err
	}
	log.Info(ctx, "balancing run finished",
		logger.Duration("elapsed", elapsed),
		logger.Float64("seeding", summary.Final.Seeding),
		logger.Float64("timezone", summary.Final.Timezone),
	)
	return summary, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, pool []model.Competitor) (types.Summary, error) {
	teams, err := draft.Assemble(s.settings, pool)
	if err != nil {
		return types.Summary{}, err
	}
	metrics.UpdatePoolShape(s.settings.PoolSize, s.settings.TeamCount())

	opt := balance.New(s.settings, balance.WithLogger(log))
	seedFn, tzFn := opt.SeedingScore(), opt.TimezoneScore()
	driver := ratesearch.New(opt,
		ratesearch.WithRateRange(s.rateMin, s.rateMax, s.rateStep),
		ratesearch.WithMaxRatio(s.maxRatio),
		ratesearch.WithMode(s.mode),
		ratesearch.WithLogger(log),
	)
	if err := driver.Validate(); err != nil {
		return types.Summary{}, fmt.Errorf("%w: %w", model.ErrInvalidConfiguration, err)
	}

	initial := totals(teams, seedFn, tzFn)
	publish(ctx, log, metrics.StageInitial, initial)
	log.Info(ctx, "teams drafted",
		logger.Int("teams", len(teams)),
		logger.Float64("seeding", initial.Seeding),
		logger.Float64("timezone", initial.Timezone),
	)

	stats := opt.Balance(ctx, teams)
	before := report.Entries(teams, seedFn, tzFn)
	balanced := report.TotalsOf(before)
	publish(ctx, log, metrics.StageBalanced, balanced)

	final, res, err := driver.Search(ctx, teams)
	if err != nil {
		return types.Summary{}, err
	}
	if err := draft.CheckPositions(s.settings, final); err != nil {
		return types.Summary{}, err
	}
	publish(ctx, log, metrics.StageFinal, res.Final)

	return types.Summary{
		Teams:       report.Entries(final, seedFn, tzFn),
		BeforeTeams: before,
		Initial:     initial,
		Balanced:    balanced,
		Final:       res.Final,
		SeedPasses:  stats.Passes,
		SeedSwaps:   stats.Swaps,
		RateTrials:  res.Trials,
		CommitCount: res.Commits,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"runs":         s.runs,
		"failures":     s.failures,
		"lastRunId":    s.lastRunID,
		"poolSize":     s.settings.PoolSize,
		"bracketCount": s.settings.BracketCount,
		"rateSearch":   string(s.mode),
	}
	if s.settings.BracketCount > 0 {
		stats["teamCount"] = s.settings.TeamCount()
	}
	return stats
}

func totals(teams model.TeamSet, seeding, timezone scoring.ScoreFn) types.Totals {
	return types.Totals{
		Seeding:  scoring.Total(teams, seeding),
		Timezone: scoring.Total(teams, timezone),
	}
}

func publish(ctx context.Context, log logger.Logger, stage string, t types.Totals) {
	if err := metrics.UpdateTotals(stage, t.Seeding, t.Timezone); err != nil {
		log.Warn(ctx, "failed to publish totals", logger.Error(err))
	}
}
