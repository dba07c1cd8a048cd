package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/target/alert-dispatch/config"
	"github.com/target/alert-dispatch/internal/bootstrap"
	"github.com/target/alert-dispatch/internal/data"
)

type commandFn func(cctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	DB     *sql.DB
	Redis  redis.UniversalClient
	Stack  *bootstrap.Stack
}

func commands() []command {
	return []command{
		{name: "migrate", description: "apply database schema migrations", run: runMigrate},
		{name: "list-outputs", description: "print the output catalog and configured destinations", run: runListOutputs},
		{name: "configure", description: "configure a new destination for an output service", run: runConfigure},
		{name: "send", description: "dispatch an alert to configured destinations", run: runSend},
	}
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // usage error exits non-zero
	}

	if err := run(os.Args[1], os.Args[2:], logger); err != nil {
		logger.Error("fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // main entrypoint exits non-zero on fatal errors
	}
}

func run(name string, args []string, logger *slog.Logger) error {
	var cmd *command
	for _, c := range commands() {
		if c.name == name {
			cmd = &c
			break
		}
	}
	if cmd == nil {
		printUsage()
		return fmt.Errorf("unknown command %q", name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if err = data.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	stack, err := bootstrap.NewStack(&bootstrap.StackDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return cmd.run(&commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Stack:  stack,
	}, args)
}

func runMigrate(cctx *commandContext, _ []string) error {
	// Migrations already ran during setup when enabled; force them here so
	// the command works with RUN_MIGRATIONS_ON_START=false too.
	if err := data.RunMigrations(cctx.Ctx, cctx.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	cctx.Logger.InfoContext(cctx.Ctx, "migrations applied")
	return nil
}

func runListOutputs(cctx *commandContext, _ []string) error {
	cfg, err := cctx.Stack.ConfigStore.Load(cctx.Ctx)
	if err != nil {
		return err
	}

	for _, serviceKey := range cctx.Stack.Registry.ListRegistered() {
		descriptors := cfg.Descriptors(serviceKey)
		if len(descriptors) == 0 {
			fmt.Printf("%s\t(no destinations configured)\n", serviceKey)
			continue
		}
		for _, descriptor := range descriptors {
			fmt.Printf("%s\t%s\n", serviceKey, descriptor)
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: alert-dispatcher <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "commands:")
	for _, c := range commands() {
		fmt.Fprintf(os.Stderr, "  %-14s %s\n", c.name, c.description)
	}
}
