// Command server runs the AcademicVerify dashboard and JSON API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrylevesque/academicverify/internal/api"
	"github.com/harrylevesque/academicverify/internal/certs"
	"github.com/harrylevesque/academicverify/internal/config"
	"github.com/harrylevesque/academicverify/internal/credentials"
	"github.com/harrylevesque/academicverify/internal/crypto"
	"github.com/harrylevesque/academicverify/internal/docs"
	"github.com/harrylevesque/academicverify/internal/files"
	"github.com/harrylevesque/academicverify/internal/pages"
	"github.com/harrylevesque/academicverify/internal/portal"
	"github.com/harrylevesque/academicverify/internal/session"
	"github.com/harrylevesque/academicverify/internal/utils"
	"github.com/harrylevesque/academicverify/internal/verify"
)

var (
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "AcademicVerify credential verification server",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		logger, err = utils.NewLogger(utils.LoggerOptions{
			Level:       cfg.Logging.Level,
			Outputs:     cfg.Logging.Outputs,
			Development: cfg.Logging.Development,
			Verbose:     verbose,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and API (default)",
	RunE:  runServe,
}

var (
	docsStyle string
	docsWidth int
	docsRaw   bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Print the documentation page to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if docsRaw {
			_, err := cmd.OutOrStdout().Write(docs.Markdown())
			return err
		}
		out, err := docs.Terminal(docsStyle, docsWidth)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to --config",
	Args:  cobra.NoArgs,
	// The file may not exist or parse yet, so skip the root's loading.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if files.FileExists(configPath) && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	docsCmd.Flags().StringVar(&docsStyle, "style", "", "glamour style (dark, light, notty, ...)")
	docsCmd.Flags().IntVar(&docsWidth, "width", 80, "Word wrap width")
	docsCmd.Flags().BoolVar(&docsRaw, "raw", false, "Print the Markdown source")
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(serveCmd, docsCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	httpServer := newHTTPServer(cfg, srv.Handler())

	if cfg.TLSEnabled() {
		cm := certs.NewCertManager(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile, nil)
		pair, err := cm.Load()
		if err != nil {
			return err
		}
		if cm.NeedsRenewal(pair.Leaf) {
			logger.Warn("tls certificate expires soon", zap.Time("not_after", pair.Leaf.NotAfter))
		}
		httpServer.TLSConfig = certs.TLSConfig(pair)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.Server.Addr), zap.Bool("tls", cfg.TLSEnabled()))
		if httpServer.TLSConfig != nil {
			errc <- httpServer.ListenAndServeTLS("", "")
			return
		}
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newHTTPServer applies server.read_timeout to the whole request read,
// headers included.
func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadHeaderTimeout: cfg.ReadTimeout(),
		ReadTimeout:       cfg.ReadTimeout(),
	}
}

func buildServer(cfg *config.Config, logger *zap.Logger) (*api.Server, error) {
	now := func() time.Time { return time.Now().UTC() }
	gen := crypto.NewGenerator(now)
	registry := credentials.NewSampleRegistry(gen)
	logger.Info("credential registry loaded", zap.Int("records", registry.Len()))

	master, ephemeral, err := files.ResolveMasterKey(cfg.Session.KeyHex, cfg.Session.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	if ephemeral {
		logger.Warn("no master key configured, sessions will not survive a restart",
			zap.String("key_file", cfg.Session.KeyFile))
	}
	keys, err := crypto.DeriveSessionKeys(master)
	if err != nil {
		return nil, err
	}

	return api.NewServer(api.Deps{
		Router: pages.NewRouter(pages.Env{Now: now, Registry: registry, Docs: docs.HTML}),
		Pipeline: verify.New(registry, gen,
			verify.WithStepDelay(cfg.StepDelay()),
			verify.WithClock(now),
			verify.WithLogger(logger.Named("verify"))),
		Portal: portal.New(now, logger.Named("portal")),
		Sessions: session.NewStore(keys, session.Options{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Session.Secure,
			Now:    now,
		}),
		Fingerprints:   gen,
		Logger:         logger.Named("http"),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
}
