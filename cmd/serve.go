package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jsphweid/genomedex/access"
	"github.com/jsphweid/genomedex/config"
	"github.com/jsphweid/genomedex/db"
	"github.com/jsphweid/genomedex/locus"
	"github.com/jsphweid/genomedex/model"
	"github.com/jsphweid/genomedex/server"
	"github.com/jsphweid/genomedex/track"
)

var serveFlags struct {
	config        string
	addr          string
	permit        []string
	loci          []string
	pageSize      int
	reference     string
	metadataTable string
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.config, "config", "c", "", "path to YAML config file")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address")
	serveCmd.Flags().StringSliceVar(&serveFlags.permit, "permit", nil, "client IP to permit (repeatable; none means any)")
	serveCmd.Flags().StringSliceVar(&serveFlags.loci, "loci", nil, "locus to show, e.g. chr7:55019017-55211628 (repeatable)")
	serveCmd.Flags().IntVar(&serveFlags.pageSize, "page-size", 0, "loci per viewer page")
	serveCmd.Flags().StringVar(&serveFlags.reference, "reference", "", "reference .fasta (its .fai must sit next to it)")
	serveCmd.Flags().StringVar(&serveFlags.metadataTable, "metadata-table", "", "DynamoDB table with track display metadata")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [alignment files...]",
	Short: "Serve the configured files and the viewer page",
	Long: `Starts the HTTP server. Files can come from a config file, from
positional arguments, or both. Positional .bam arguments are assumed to have
an index sibling.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(args)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func buildConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(serveFlags.config)
	if err != nil {
		return nil, err
	}

	for _, arg := range args {
		cfg.Tracks = append(cfg.Tracks, config.TrackConfig{Path: arg})
	}
	if serveFlags.addr != "" {
		cfg.Addr = serveFlags.addr
	}
	if len(serveFlags.permit) > 0 {
		cfg.PermittedIPs = append(cfg.PermittedIPs, serveFlags.permit...)
	}
	if len(serveFlags.loci) > 0 {
		cfg.Loci = append(cfg.Loci, serveFlags.loci...)
	}
	if serveFlags.pageSize > 0 {
		cfg.LociPerPage = serveFlags.pageSize
	}
	if serveFlags.reference != "" {
		cfg.Reference = serveFlags.reference
	}
	if serveFlags.metadataTable != "" {
		cfg.MetadataTable = serveFlags.metadataTable
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}

func serve(cfg *config.Config) error {
	log := newLogger(cfg.LogLevel)

	if err := cfg.CheckFilesExist(); err != nil {
		return err
	}

	tracks := cfg.ModelTracks()
	applyMetadata(log, cfg.MetadataTable, tracks)

	registry := track.NewRegistry(tracks, cfg.Reference)
	clients := access.NewPermittedClientSet(cfg.PermittedIPs)
	pages := locus.Paginate(cfg.Loci, cfg.LociPerPage)

	srv := server.New(server.Options{
		Registry:  registry,
		Clients:   clients,
		Tracks:    tracks,
		Pages:     pages,
		Reference: cfg.Reference,
		Logger:    log,
	})

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	log.Info().
		Str("addr", cfg.Addr).
		Int("exposed_files", registry.Len()).
		Int("pages", len(pages)).
		Bool("open_to_any_ip", clients.AllowsAny()).
		Msg("genomedex serving")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// applyMetadata fills in missing display names from the metadata table, when
// one is configured. Failures only cost us the nicer names.
func applyMetadata(log zerolog.Logger, table string, tracks []model.Track) {
	if table == "" {
		return
	}

	var basenames []string
	for _, t := range tracks {
		basenames = append(basenames, filepath.Base(t.Path))
	}
	metas, err := db.GetTrackMetadatas(table, basenames)
	if err != nil {
		log.Warn().Err(err).Str("table", table).Msg("metadata lookup failed")
		return
	}

	for i := range tracks {
		meta, ok := metas[filepath.Base(tracks[i].Path)]
		if !ok || meta.Sample == "" {
			continue
		}
		tracks[i].Name = meta.Sample
		if meta.Library != "" {
			tracks[i].Name += " (" + meta.Library + ")"
		}
	}
}
