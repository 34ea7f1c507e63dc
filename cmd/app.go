package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marcjazz/nullslot/internal/config"
	"github.com/marcjazz/nullslot/internal/gateway"
	"github.com/marcjazz/nullslot/internal/logger"
	"github.com/marcjazz/nullslot/internal/output"
	"github.com/marcjazz/nullslot/internal/session"
	"github.com/marcjazz/nullslot/internal/store"
	"github.com/marcjazz/nullslot/internal/telemetry"
	"github.com/marcjazz/nullslot/internal/workspace"
)

// app holds everything a command needs. It is built once per invocation and
// handed to commands through current.
type app struct {
	cfg     *config.Config
	viper   *viper.Viper
	logger  *slog.Logger
	printer *output.Printer

	session    *session.State
	client     *gateway.Client
	auth       *gateway.Auth
	workspaces *workspace.Service

	closers []func()
}

func newApp(cmd *cobra.Command) (*app, error) {
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return nil, &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}

	cfg, v, err := config.Load(cfgFile)
	if err != nil {
		return nil, &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check .nullslot.yaml syntax or use --config flag",
			ExitCode:   output.ExitConfigError,
		}
	}

	a := &app{cfg: cfg, viper: v}

	ctx := cmd.Context()
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		OTLPEndpoint:   cfg.Telemetry.Endpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	telemetryOn := err == nil && cfg.Telemetry.Enabled
	if err == nil {
		a.closers = append(a.closers, func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		})
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	a.logger = logger.New(logger.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		OTel:   telemetryOn,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		a.logger.Warn("failed to initialize OpenTelemetry, continuing without export", "error", err)
	}

	a.printer = output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: cfg.Output.Colors,
		Quiet:        quiet,
		Out:          cmd.OutOrStdout(),
		Err:          cmd.ErrOrStderr(),
	})

	if cmd.Annotations[annotationNoSession] == "true" {
		return a, nil
	}
	if err := a.openSession(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) openSession(ctx context.Context) error {
	st, closeStore, err := store.Open(store.Options{
		Backend: a.cfg.Store.Backend,
		Path:    a.cfg.Store.Path,
		Redis: store.RedisConfig{
			Addr:     a.cfg.Store.Redis.Addr,
			Password: a.cfg.Store.Redis.Password,
			DB:       a.cfg.Store.Redis.DB,
			Prefix:   a.cfg.Store.Redis.Prefix,
		},
		Logger: a.logger,
	})
	if err != nil {
		return &output.CLIError{Summary: "cannot open session store", Detail: err.Error(), ExitCode: output.ExitConfigError}
	}
	a.closers = append(a.closers, func() { _ = closeStore() })

	a.session = session.New(st, a.logger)
	if err := a.session.Load(ctx); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	a.client = gateway.NewClient(gateway.Config{
		Endpoint: a.cfg.GraphQLEndpoint(),
		Timeout:  a.cfg.API.Timeout,
	}, a.session, a.logger)
	a.auth = gateway.NewAuth(a.client)

	a.workspaces = workspace.NewService(gateway.NewWorkspaces(a.client), a.session, workspace.Options{
		CacheSize: a.cfg.Workspace.CacheSize,
		CacheTTL:  a.cfg.Workspace.CacheTTL,
	}, a.logger)
	a.closers = append(a.closers, a.workspaces.Close)
	return nil
}

// close runs closers in reverse order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
