// Package scheduler runs the device's cooperative polling loop
package scheduler

import (
	"context"
	"time"

	"github.com/calvinmclean/autofeeder"
	"github.com/rs/zerolog"
)

const (
	DefaultEvaluationPeriod = time.Second
	DefaultPollPeriod       = time.Second
	DefaultIdleSleep        = 10 * time.Millisecond
)

// Clock provides the current time of day
type Clock interface {
	Now() (autofeeder.TimeOfDay, error)
}

// Table is the schedule evaluated every period
type Table interface {
	Evaluate(now autofeeder.TimeOfDay)
	Dirty() bool
	Flush() error
}

// Handler drains one inbound frame per call
type Handler interface {
	Poll() bool
}

// Config has the loop periods. Zero values use the defaults
type Config struct {
	EvaluationPeriod time.Duration
	PollPeriod       time.Duration
	IdleSleep        time.Duration
}

// Loop alternates task evaluation and packet polling on a single goroutine. Each action has its
// own period and neither runs while the other is in progress
type Loop struct {
	table   Table
	handler Handler
	clock   Clock
	cfg     Config
	logger  zerolog.Logger

	lastEvaluation time.Time
	lastPoll       time.Time
}

// New creates a Loop
func New(table Table, handler Handler, clock Clock, cfg Config, logger zerolog.Logger) *Loop {
	if cfg.EvaluationPeriod <= 0 {
		cfg.EvaluationPeriod = DefaultEvaluationPeriod
	}
	if cfg.PollPeriod <= 0 {
		cfg.PollPeriod = DefaultPollPeriod
	}
	if cfg.IdleSleep <= 0 {
		cfg.IdleSleep = DefaultIdleSleep
	}

	return &Loop{
		table:   table,
		handler: handler,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

// Tick runs whichever actions are due at now
func (l *Loop) Tick(now time.Time) {
	if now.Sub(l.lastEvaluation) >= l.cfg.EvaluationPeriod {
		l.lastEvaluation = now
		l.evaluate()
	}

	if now.Sub(l.lastPoll) >= l.cfg.PollPeriod {
		l.lastPoll = now
		l.handler.Poll()
	}
}

func (l *Loop) evaluate() {
	tod, err := l.clock.Now()
	if err != nil {
		l.logger.Error().Err(err).Msg("error reading clock, skipping evaluation")
		return
	}

	l.table.Evaluate(tod)

	if l.table.Dirty() {
		err := l.table.Flush()
		if err != nil {
			l.logger.Error().Err(err).Msg("error writing tasks")
		} else {
			l.logger.Info().Msg("wrote pending tasks")
		}
	}
}

// Run calls Tick until ctx is done
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info().
		Dur("evaluation_period", l.cfg.EvaluationPeriod).
		Dur("poll_period", l.cfg.PollPeriod).
		Msg("starting scheduler loop")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l.Tick(time.Now())
		time.Sleep(l.cfg.IdleSleep)
	}
}
