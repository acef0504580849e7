package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"marquee/database"
	"marquee/handlers"
	"marquee/services"
	sharedhttp "marquee/shared/http"
	"marquee/shared/server"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting marquee",
		"addr", cfg.Addr(),
		"env", cfg.Environment,
		"debug", cfg.Debug,
		"viewers", cfg.Viewers)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		return err
	}

	local, err := database.OpenLocal(cfg.LocalStorePath)
	if err != nil {
		return err
	}
	defer local.Close()

	if err := database.RunLocalMigrations(local); err != nil {
		return err
	}

	if cfg.OMDbAPIKey == "" {
		log.Warn("OMDB_API_KEY is not set; searches will fail")
	}

	h, err := handlers.New(handlers.Deps{
		Collection: services.NewCollection(services.NewPostgresMovieRepository(db), cfg.Viewers, cfg.PageSize, log.With("component", "collection")),
		Search:     services.NewOMDb(cfg.OMDbBaseURL, cfg.OMDbAPIKey, sharedhttp.DefaultClient, log.With("component", "omdb")),
		Todos:      services.NewTodos(services.NewSQLiteKV(local), log.With("component", "todos")),
		Posters:    services.NewPosterCache(afero.NewOsFs(), cfg.PosterCacheDir, cfg.PosterHosts, sharedhttp.DefaultClient, log.With("component", "posters")),
		Sessions:   services.NewSessions(cfg.SessionSecret, cfg.IsProduction()),
		Categories: cfg.TodoCategories,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	return server.ListenAndRun(ctx, server.DefaultConfig(cfg.Addr()), h.Routes(), log)
}
