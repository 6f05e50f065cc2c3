package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/examiner/internal/app"
	"github.com/abhisek/examiner/internal/catalog"
	"github.com/abhisek/examiner/internal/config"
	"github.com/abhisek/examiner/internal/logger"
	"github.com/abhisek/examiner/internal/screens"
	"github.com/abhisek/examiner/internal/sink"
	"github.com/abhisek/examiner/internal/store"
)

// env holds what every command works with. close releases it.
type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *store.Store
	catalog *catalog.Catalog
	closers []func()
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// setup loads config, logging, the store and the catalog. logTo receives log
// output; the TUI passes nil to log to the configured file instead.
func setup(cmd *cobra.Command, logTo io.Writer) (*env, error) {
	e := &env{cfg: loadConfig(cmd)}

	if logTo == nil {
		f, err := logger.OpenFile(e.cfg.LogFile)
		if err != nil {
			// The terminal belongs to the TUI; drop logs rather than corrupt it.
			logTo = io.Discard
		} else {
			logTo = f
			e.closers = append(e.closers, func() { f.Close() })
		}
	}
	e.log = logger.Setup(e.cfg.LogLevel, e.cfg.LogFormat, logTo)

	dbPath, err := resolveDBPath(e.cfg)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, func() { st.Close() })
	e.log.Debug().Str("path", dbPath).Msg("store opened")

	cat, err := catalog.Load(e.cfg.ExamsDir, e.log)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("load exams: %w", err)
	}
	e.catalog = cat
	return e, nil
}

// resultSink stores results locally and, when EXAMINER_REDIS_URL is set,
// publishes them to redis too. An unreachable redis is logged and skipped.
func (e *env) resultSink(ctx context.Context) sink.Sink {
	sinks := sink.Multi{sink.NewStoreSink(e.store.ResultRepo())}
	if e.cfg.RedisURL == "" {
		return sinks
	}
	client, err := sink.NewRedisClient(ctx, e.cfg.RedisURL, e.log)
	if err != nil {
		e.log.Warn().Err(err).Msg("redis sink disabled")
		return sinks
	}
	e.closers = append(e.closers, func() { client.Close() })
	return append(sinks, sink.WithRetry(sink.NewRedisSink(client), sink.DefaultRetryConfig()))
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command, examID string) error {
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.close()

	for _, p := range e.catalog.Problems() {
		fmt.Fprintln(os.Stderr, "warning:", p)
	}

	deps := screens.Deps{
		Catalog:     e.catalog,
		Results:     e.store.ResultRepo(),
		Events:      e.store.EventRepo(),
		Sink:        e.resultSink(cmd.Context()),
		Participant: e.cfg.Participant,
		Log:         e.log,
		Tick:        e.cfg.TickInterval,
	}
	return app.Run(deps, examID)
}
