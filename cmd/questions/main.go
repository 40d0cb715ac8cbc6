package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deppfellow/questions/internal/config"
	"github.com/deppfellow/questions/internal/logger"
	"github.com/deppfellow/questions/internal/repository"
	"github.com/deppfellow/questions/internal/server"
	"github.com/deppfellow/questions/internal/service"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "questions",
		Short:         "Query the Q&A forum database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCommand(),
		newStatusCommand(),
		newTopCommand(),
		newKarmaCommand(),
		newThreadCommand(),
	)
	return root
}

// app is the configuration and logging every command starts from.
type app struct {
	cfg           *config.Config
	logger        zerolog.Logger
	loggerService *logger.LoggerService
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	if err != nil {
		log.Warn().Err(err).Msg("new relic agent not started")
	}

	return &app{
		cfg:           cfg,
		logger:        log,
		loggerService: loggerService,
	}, nil
}

// withForum connects to the database, builds the services on the shared
// pool and runs fn. The server is shut down when fn returns.
//
// With New Relic enabled, the command runs inside a transaction named after
// it so the nrpgx5 tracer records each query as a segment, and a failure is
// noticed on that transaction.
func withForum(cmd *cobra.Command, fn func(ctx context.Context, srv *server.Server, services *service.Services) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	srv, err := server.New(a.cfg, &a.logger, a.loggerService)
	if err != nil {
		a.loggerService.Shutdown()
		return err
	}
	defer func() {
		if err := srv.Shutdown(); err != nil {
			a.logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	repos := repository.NewRepositories(srv.DB.Pool)
	services, err := service.NewService(srv, repos)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if nrApp := a.loggerService.GetApplication(); nrApp != nil {
		txn := nrApp.StartTransaction("cli/" + cmd.Name())
		defer txn.End()

		txn.AddAttribute("environment", a.cfg.Primary.Env)
		ctx = newrelic.NewContext(ctx, txn)
	}

	if err := fn(ctx, srv, services); err != nil {
		if txn := newrelic.FromContext(ctx); txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		return err
	}
	return nil
}
