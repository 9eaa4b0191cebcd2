package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"resannotate/internal/annotator"
	"resannotate/internal/config"
	"resannotate/internal/filewalker"
	"resannotate/internal/graph"
	"resannotate/internal/index"
	"resannotate/internal/locale"
	"resannotate/internal/resource"
	"resannotate/internal/values"
	"resannotate/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ErrProjectNotFound is returned when the project directory does not exist.
var ErrProjectNotFound = errors.New("project directory not found")

type options struct {
	workers  int
	dryRun   bool
	index    bool
	graph    bool
	logLevel string
}

// Summary counts the outcome of one run.
type Summary struct {
	Files      int
	Changed    int
	Failed     int
	References int
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "resannotate <project-dir> [locale]",
		Short: "Annotate smali resource ids with their names and values",
		Long: `Rewrites every smali file of an apktool project in place, inserting a comment
above each "const vN, 0x..." whose literal is a resource id declared in
res/values/public.xml. The comment names the resource and, for strings,
integers, bools, colors and dimens, its value. An optional locale selects
res/values-<locale> values ahead of the defaults.

Running the tool again refreshes existing comments instead of duplicating them.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg := config.Load()
			applyConfig(cmd, opts, cfg)
			setLogLevel(opts.logLevel)

			lang := ""
			if len(args) == 2 {
				lang = args[1]
			}

			ctx, cancel := setupContext()
			defer cancel()

			_, err := run(ctx, cfg, args[0], lang, opts)
			return err
		},
	}

	cmd.Flags().IntVar(&opts.workers, "workers", 1, "Number of files annotated concurrently")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report files that would change without writing them")
	cmd.Flags().BoolVar(&opts.index, "index", false, "Store resolved references in PostgreSQL (DATABASE_URL)")
	cmd.Flags().BoolVar(&opts.graph, "graph", false, "Store resolved references in Neo4j (NEO4J_URI)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Stored line numbers must describe files that were actually written.
	cmd.MarkFlagsMutuallyExclusive("dry-run", "index")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "graph")

	return cmd
}

// applyConfig fills options the user did not set explicitly from cfg.
func applyConfig(cmd *cobra.Command, opts *options, cfg *config.Config) {
	if !cmd.Flags().Changed("workers") {
		opts.workers = cfg.WorkerCount
	}
	if !cmd.Flags().Changed("log-level") {
		opts.logLevel = cfg.LogLevel
	}
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// run loads the resource tables of projectDir and annotates every
// instruction file. Table errors abort the run; per-file errors are logged
// and counted.
func run(ctx context.Context, cfg *config.Config, projectDir, lang string, opts *options) (*Summary, error) {
	if info, err := os.Stat(projectDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectDir)
	}

	qualifier := locale.Qualifier(lang)
	if qualifier != lang {
		log.Info().Str("locale", lang).Str("qualifier", qualifier).Msg("Using Android resource qualifier")
	}

	log.Info().Msg("Reading resource ids")
	resources, err := resource.Load(filepath.Join(projectDir, resource.PublicPath))
	if err != nil {
		return nil, fmt.Errorf("cannot parse resources: %w", err)
	}

	valueSet, err := values.LoadAll(projectDir, qualifier)
	if err != nil {
		return nil, err
	}

	a := annotator.New(annotator.Tables{Resources: resources, Values: valueSet}, annotator.WithDryRun(opts.dryRun))

	entries := filewalker.NewWalker().WalkProject(projectDir)

	pool := worker.NewPool[filewalker.FileEntry, *annotator.Result](opts.workers,
		func(ctx context.Context, entry filewalker.FileEntry) (*annotator.Result, error) {
			return a.AnnotateFile(ctx, entry.Path)
		},
	)
	tasks := pool.Execute(ctx, entries)

	summary := &Summary{Files: len(entries)}
	var results []*annotator.Result

	for _, task := range tasks {
		if task.Err != nil {
			summary.Failed++
			log.Error().Err(task.Err).Str("file", task.Input.Path).Msg("Annotate failed")
			continue
		}
		results = append(results, task.Result)
		summary.References += len(task.Result.References)
		if task.Result.Changed {
			summary.Changed++
			if opts.dryRun {
				log.Info().Str("file", task.Input.Path).Msg("Would change")
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if opts.index {
		if err := storeIndex(ctx, cfg, results); err != nil {
			return summary, err
		}
	}
	if opts.graph {
		if err := storeGraph(ctx, cfg, results); err != nil {
			return summary, err
		}
	}

	log.Info().
		Int("files", summary.Files).
		Int("changed", summary.Changed).
		Int("failed", summary.Failed).
		Int("references", summary.References).
		Bool("dry_run", opts.dryRun).
		Msg("Done")

	return summary, nil
}

func storeIndex(ctx context.Context, cfg *config.Config, results []*annotator.Result) error {
	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect PostgreSQL: %w", err)
	}
	defer pgPool.Close()

	if err := pgPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	store := index.NewStore(pgPool, cfg.IndexBatchSize)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return store.Replace(ctx, results)
}

func storeGraph(ctx context.Context, cfg *config.Config, results []*annotator.Result) error {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return fmt.Errorf("connect Neo4j: %w", err)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")

	builder := graph.NewBuilder(driver, cfg.IndexBatchSize)
	if err := builder.EnsureSchema(ctx); err != nil {
		return err
	}
	return builder.UpsertReferences(ctx, results)
}
