package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"xmlstore/config"
	"xmlstore/core"
	"xmlstore/handlers"
	"xmlstore/handlers/socket"
	"xmlstore/stores"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

type serveFlags struct {
	port        string
	storageType string
	storagePath string
	noFeed      bool
}

func newServeCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API under /api/xml.

Settings come from defaults, the --config file, environment variables
(PORT, STORAGE_TYPE, LOCAL_STORAGE_PATH, DATA_SOURCE_NAME, S3_BUCKET_NAME,
S3_PREFIX, S3_ENDPOINT, CORS_ALLOWED_ORIGINS, MAX_BODY_BYTES, LOG_LEVEL,
LOG_FORMAT) and finally the flags below.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.port, "port", "p", "", "listen port")
	cmd.Flags().StringVar(&flags.storageType, "storage-type", "", "filesystem, memory, sqlite or s3")
	cmd.Flags().StringVar(&flags.storagePath, "storage-path", "", "directory for the filesystem backend")
	cmd.Flags().BoolVar(&flags.noFeed, "no-feed", false, "disable the socket.io change feed")
	return cmd
}

func runServe(ctx context.Context, flags *serveFlags) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flags.port != "" {
		cfg.Port = flags.port
	}
	if flags.storageType != "" {
		cfg.StorageType = flags.storageType
	}
	if flags.storagePath != "" {
		cfg.LocalStoragePath = flags.storagePath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogging(firstNonEmpty(logLevel, cfg.LogLevel), firstNonEmpty(logFormat, cfg.LogFormat)); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	store, err := stores.GetStore(ctx, cfg)
	if err != nil {
		return err
	}

	var (
		notifier core.Notifier
		opts     = handlers.Options{AllowedOrigins: cfg.AllowedOrigins, MaxBodyBytes: cfg.MaxBodyBytes}
	)
	if !flags.noFeed {
		feed := socket.NewFeed(cfg.MaxBodyBytes)
		defer feed.Close()
		notifier = feed
		opts.Feed = feed.Handler()
	}

	service := core.NewDocumentService(store, notifier)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(service, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Port,
			"api":     handlers.APIBase,
			"storage": service.Location(),
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
