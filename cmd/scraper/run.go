package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"go-jobradar/internal/config"
	"go-jobradar/internal/database"
	"go-jobradar/internal/engine"
	"go-jobradar/internal/filter"
	"go-jobradar/internal/logging"
	"go-jobradar/internal/models"
	"go-jobradar/internal/reporter"
	"go-jobradar/internal/scraper"
	"go-jobradar/internal/store"
	"go-jobradar/internal/telegram"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	runKeywords  []string
	runPlatforms []string
	runNoNotify  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search over every keyword and enabled platform",
	Long: `Loads the store, searches each keyword on each enabled platform, keeps titles that pass the filter and are not already stored, and rewrites the store.

Exit status is 0 on success, 2 when some searches failed or the run was interrupted but the store was saved, and 1 on failure.`,
	RunE: runSearch,
}

func init() {
	runCmd.Flags().StringSliceVarP(&runKeywords, "keyword", "k", nil, "Search only these keywords (repeatable)")
	runCmd.Flags().StringSliceVarP(&runPlatforms, "platform", "p", nil, "Search only these platforms (OCC, Indeed, LinkedIn)")
	runCmd.Flags().BoolVar(&runNoNotify, "no-notify", false, "Do not send Telegram messages")
	rootCmd.AddCommand(runCmd)
	// a bare "jobradar" runs a search too
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	boot := logging.New("info")
	cfg, err := config.Load(configPath, boot)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.General.LogLevel = logLevel
	}
	return cfg, logging.New(cfg.General.LogLevel), nil
}

// applyOverrides narrows the config to the command line selection.
func applyOverrides(cfg *config.Config, keywords, platforms []string) error {
	if len(keywords) > 0 {
		cfg.SearchFilters.SearchKeywords = keywords
	}
	if len(platforms) == 0 {
		return nil
	}
	var want []models.Platform
	for _, name := range platforms {
		p, err := models.ParsePlatform(name)
		if err != nil {
			return err
		}
		want = append(want, p)
	}
	for _, p := range models.Platforms {
		pc := cfg.Platforms.Get(p)
		pc.Enabled = pc.Enabled && slices.Contains(want, p)
	}
	if len(cfg.Platforms.Enabled()) == 0 {
		return errors.New("none of the selected platforms is enabled in the config")
	}
	return nil
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	if err := applyOverrides(cfg, runKeywords, runPlatforms); err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	log = log.With("run_id", runID)
	log.Info("🚀 Starting jobradar", "keywords", len(cfg.SearchFilters.SearchKeywords), "platforms", cfg.Platforms.Enabled())

	r := &runner{cfg: cfg, runID: runID, log: log}
	if cfg.Telegram.Enabled() && !runNoNotify {
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn("⚠️ Telegram disabled", "error", err)
		} else {
			r.notifier = bot
		}
	}

	started := time.Now()
	sources, closeSources, err := buildSources(ctx, cfg, log)
	if err != nil {
		r.abort(started, err)
		return &exitError{code: exitFailure, err: err}
	}
	defer closeSources()
	r.sources = sources

	code, err := r.run(ctx)
	if err != nil || code != exitOK {
		return &exitError{code: code, err: err}
	}
	return nil
}

type notifier interface {
	SendSummary(r *engine.Report) error
	SendJobs(jobs []models.JobRecord, limit int) (int, error)
	SendError(err error) error
}

// runner holds one run's collaborators.
type runner struct {
	cfg      *config.Config
	runID    string
	sources  []scraper.Source
	notifier notifier
	log      *slog.Logger
	// stdout receives the printed summary; nil means os.Stdout
	stdout io.Writer
}

// run locks and loads the store, searches, persists and reports. It returns
// the process exit code and the error behind a failure.
func (r *runner) run(ctx context.Context) (int, error) {
	cfg := r.cfg
	started := time.Now()
	st := store.New(cfg.General.OutputFilename, cfg.General.FinalColumns,
		store.WithLogger(r.log),
		store.WithRetryDelay(cfg.Timing.RetryDelay),
		store.WithRunID(r.runID))

	unlock, err := r.lock(ctx, st.Path())
	if err != nil {
		r.abort(started, err)
		return exitFailure, err
	}
	defer func() {
		if err := unlock(); err != nil {
			r.log.Warn("⚠️ Failed to release lock", "error", err)
		}
	}()

	history := st.Load()

	windows := make(map[models.Platform]filter.WindowPolicy, len(r.sources))
	for _, src := range r.sources {
		windows[src.Platform()] = cfg.Platforms.Get(src.Platform()).TimeWindow
	}
	eng := engine.New(engine.Options{
		Sources:      r.sources,
		Filter:       cfg.SearchFilters.Lists(),
		Windows:      windows,
		KeywordDelay: cfg.Timing.DelayBetweenKeywords,
		RunID:        r.runID,
		Logger:       r.log,
	})
	res, runErr := eng.Run(ctx, cfg.SearchFilters.SearchKeywords, history)
	report := res.Report
	report.Store.Warning = history.Warning

	// the run context may already be cancelled; saving must still happen
	saveCtx := context.WithoutCancel(ctx)
	pr, persistErr := st.Persist(saveCtx, history, res.Records)
	report.Store.Path = pr.Path
	report.Store.Written = pr.Written
	report.Store.Rows = pr.Rows
	report.Store.Added = pr.Added
	report.Store.RescuePath = pr.RescuePath
	report.Store.AsidePath = pr.AsidePath
	if persistErr != nil {
		report.Store.Err = persistErr.Error()
	}

	if pr.Written && cfg.Database.URL != "" {
		r.mirror(saveCtx, res.Records)
	}

	r.publish(report)
	r.notify(report, res.Records, persistErr == nil)

	switch {
	case persistErr != nil:
		r.notifyError(persistErr)
		return exitFailure, persistErr
	case runErr != nil:
		r.notifyError(runErr)
		return exitFailure, runErr
	case report.Partial():
		r.log.Warn("🏁 Run finished with failed searches", "failed", len(report.Failures), "interrupted", report.Interrupted)
		return exitPartial, nil
	}
	r.log.Info("🏁 Execution finished.", "added", pr.Added)
	return exitOK, nil
}

// publish saves the report for the API and prints it.
func (r *runner) publish(report *engine.Report) {
	path := r.cfg.Server.ReportPath
	if err := reporter.WriteJSON(path, report); err != nil {
		r.log.Warn("⚠️ Failed to save run report", "path", path, "error", err)
	}
	if err := reporter.Text(r.out(), report); err != nil {
		r.log.Warn("⚠️ Failed to print run report", "error", err)
	}
}

// abort reports a run that failed before searching. The store is untouched.
func (r *runner) abort(started time.Time, err error) {
	report := engine.AbortedReport(r.runID, started, r.cfg.SearchFilters.SearchKeywords, r.cfg.Platforms.Enabled(), err.Error())
	report.Store.Path = r.cfg.General.OutputFilename
	r.log.Error("❌ Run aborted before searching", "error", err)
	r.publish(report)
	r.notifyError(err)
}

func (r *runner) out() io.Writer {
	if r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func (r *runner) lock(ctx context.Context, storePath string) (func() error, error) {
	lc := r.cfg.Lock
	switch lc.Backend {
	case "none":
		return func() error { return nil }, nil
	case "redis":
		client, err := database.NewRedisClient(ctx, lc.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("lock: %w", err)
		}
		unlock, err := store.NewRedisLock(client, lc.Key, lc.TTL, r.runID).Lock(ctx)
		if err != nil {
			client.Close()
			return nil, err
		}
		return func() error {
			defer client.Close()
			return unlock()
		}, nil
	default:
		return store.NewFileLock(storePath, lc.TTL, r.runID).Lock(ctx)
	}
}

func (r *runner) mirror(ctx context.Context, records []models.JobRecord) {
	repo, err := database.ConnectDB(ctx, r.cfg.Database.URL)
	if err != nil {
		r.log.Warn("⚠️ Database mirror skipped", "error", err)
		return
	}
	defer repo.Close()
	if err := repo.EnsureSchema(ctx); err != nil {
		r.log.Warn("⚠️ Database mirror skipped", "error", err)
		return
	}
	n, err := repo.MirrorJobs(ctx, records)
	if err != nil {
		r.log.Warn("⚠️ Database mirror incomplete", "inserted", n, "error", err)
		return
	}
	r.log.Info("🗄️ Mirrored to database", "inserted", n)
}

func (r *runner) notify(report *engine.Report, records []models.JobRecord, saved bool) {
	if r.notifier == nil {
		return
	}
	if saved && r.cfg.Telegram.SendJobs && len(records) > 0 {
		sent, err := r.notifier.SendJobs(records, r.cfg.Telegram.MaxJobs)
		if err != nil {
			r.log.Warn("⚠️ Failed to send jobs to Telegram", "sent", sent, "error", err)
		}
	}
	if err := r.notifier.SendSummary(report); err != nil {
		r.log.Warn("⚠️ Failed to send summary to Telegram", "error", err)
	}
}

func (r *runner) notifyError(err error) {
	if r.notifier == nil {
		return
	}
	if sendErr := r.notifier.SendError(err); sendErr != nil {
		r.log.Warn("⚠️ Failed to send error to Telegram", "error", sendErr)
	}
}
