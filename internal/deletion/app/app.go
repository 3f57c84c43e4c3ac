package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"so4tdelete/internal/deletion/client"
	"so4tdelete/internal/deletion/config"
	"so4tdelete/internal/deletion/model"
	"so4tdelete/internal/deletion/repository"
	"so4tdelete/internal/deletion/service"
	"so4tdelete/internal/deletion/session"
	"so4tdelete/internal/deletion/source"
	"so4tdelete/internal/deletion/util"
)

// App runs one bulk deletion from a parsed config.
type App struct {
	Config *config.Config
	Out    io.Writer
	Logger *slog.Logger

	// Sessions produces the authenticated session; nil uses the cached
	// browser login.
	Sessions session.Provider
	// OpenHistory opens the history store; nil uses the configured one.
	OpenHistory func(ctx context.Context) (repository.HistoryRepository, error)
}

func New(cfg *config.Config, out, logOut io.Writer) *App {
	return &App{
		Config: cfg,
		Out:    out,
		Logger: util.InitLogger(cfg.LogLevel, cfg.LogFormat, logOut),
	}
}

// Run executes the configured command. The returned error is an *ExitError.
func (a *App) Run(ctx context.Context) error {
	if err := a.run(ctx); err != nil {
		return toExitError(err)
	}
	return nil
}

func (a *App) run(ctx context.Context) error {
	history, err := a.openHistory(ctx)
	if err != nil {
		return fmt.Errorf("open deletion history: %w", err)
	}
	if history != nil {
		defer func() {
			if err := history.Close(context.Background()); err != nil {
				a.Logger.Warn("Failed to close deletion history", "error", err)
			}
		}()
	}

	if a.Config.ListHistory {
		return a.listHistory(ctx, history)
	}

	accountIDs, err := source.ReadAccountIDsFile(a.Config.CSVPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", a.Config.CSVPath, err)
	}
	a.Logger.Info("Loaded account ids", "count", len(accountIDs), "csv", a.Config.CSVPath)

	req := model.DeleteUsersReq{AccountIDs: accountIDs, ChunkSize: a.Config.ChunkSize}
	if req.ChunkSize <= 0 {
		return service.ErrInvalidChunkSize
	}
	if len(accountIDs) == 0 {
		return a.finish(model.NewReport(0))
	}

	sess, err := a.sessions().Provide(ctx, a.Config.BaseURL)
	if err != nil {
		return err
	}
	httpClient, err := sess.HTTPClient()
	if err != nil {
		return err
	}

	svc := service.NewService(client.NewTeamsClient(a.Config.BaseURL, httpClient), history)
	svc.Logger = a.Logger
	if !a.Config.JSONOutput {
		svc.Progress = &printer{out: a.Out}
		fmt.Fprintln(a.Out)
	}

	report, err := svc.DeleteUsers(ctx, req)
	if err != nil {
		if a.Config.JSONOutput && len(report.Batches) > 0 {
			_ = writeJSON(a.Out, report)
		}
		return err
	}
	return a.finish(report)
}

func (a *App) finish(report *model.Report) error {
	if a.Config.JSONOutput {
		return writeJSON(a.Out, report)
	}
	writeSummary(a.Out, report)
	return nil
}

func (a *App) listHistory(ctx context.Context, history repository.HistoryRepository) error {
	records, err := history.FindHistory(ctx, model.HistoryFilter{
		RunID:   a.Config.RunID,
		BaseURL: a.Config.BaseURL,
		Limit:   a.Config.HistoryLimit,
	})
	if err != nil {
		return err
	}
	if a.Config.JSONOutput {
		return writeJSON(a.Out, records)
	}
	writeHistory(a.Out, records)
	return nil
}

func (a *App) sessions() session.Provider {
	if a.Sessions != nil {
		return a.Sessions
	}
	return session.NewCachingProvider(
		session.NewFileStore(a.Config.SessionFile),
		session.NewBrowserProvider(a.Config.LoginTimeout, a.Out),
		validateSession,
	)
}

func validateSession(ctx context.Context, sess *session.Session) (bool, error) {
	httpClient, err := sess.HTTPClient()
	if err != nil {
		return false, err
	}
	return client.NewTeamsClient(sess.BaseURL, httpClient).TestSession(ctx)
}

func (a *App) openHistory(ctx context.Context) (repository.HistoryRepository, error) {
	if a.OpenHistory != nil {
		return a.OpenHistory(ctx)
	}

	var (
		repo repository.HistoryRepository
		err  error
	)
	switch {
	case a.Config.HistoryDBPath != "":
		repo, err = repository.OpenSQLiteHistoryRepository(a.Config.HistoryDBPath)
	case a.Config.MongoURI != "":
		repo, err = repository.ConnectMongoHistoryRepository(ctx, a.Config.MongoURI, a.Config.DBName, a.Config.HistoryCollection)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureHistoryIndexes(ctx); err != nil {
		a.Logger.Warn("Failed to ensure history indexes", "error", err)
	}
	return repo, nil
}
