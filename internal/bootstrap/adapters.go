package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/alert-dispatch/config"
	"github.com/target/alert-dispatch/internal/adapters/funcinvoke"
	"github.com/target/alert-dispatch/internal/adapters/loggroup"
	"github.com/target/alert-dispatch/internal/core"
	"github.com/target/alert-dispatch/internal/data"
	"github.com/target/alert-dispatch/internal/dispatch"
	"github.com/target/alert-dispatch/internal/outputs"
	"github.com/target/alert-dispatch/internal/vault"
)

// StackDeps carries the shared infrastructure handles.
type StackDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// Stack is the fully-wired dispatch core.
type Stack struct {
	Vault       *vault.CredentialVault
	Registry    *outputs.Registry
	Router      *dispatch.Router
	ConfigStore core.OutputConfigStore
}

// NewStack wires the credential vault, output catalog, and fan-out router
// from shared infrastructure.
func NewStack(deps *StackDeps) (*Stack, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	kms := CreateKeyManagement(cfg.Vault, logger)
	blobStore := data.NewPgBlobStore(deps.DB)

	bucket := cfg.Vault.BucketOverride
	if bucket == "" {
		bucket = outputs.SecretsBucket(cfg.AccountID, cfg.Region)
	}

	credVault, err := vault.New(vault.Options{
		Store:    blobStore,
		KMS:      kms,
		Bucket:   bucket,
		KeyAlias: cfg.Vault.KeyAlias,
		Scratch:  vault.NewScratchDir(cfg.Vault.ScratchDirName),
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build credential vault: %w", err)
	}

	var invoker core.FunctionInvoker
	if cfg.Dispatch.FunctionBaseURL != "" {
		invoker, err = funcinvoke.New(cfg.Dispatch.FunctionBaseURL, cfg.Dispatch.HTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("build function invoker: %w", err)
		}
	}

	registry, err := NewOutputRegistry(OutputDeps{
		ObjectStore:     blobStore,
		TopicPublisher:  data.NewRedisTopicPublisher(deps.RedisClient),
		QueuePublisher:  data.NewRedisQueuePublisher(deps.RedisClient),
		StreamPublisher: data.NewRedisStreamPublisher(deps.RedisClient),
		LogEventWriter:  loggroup.New(logger),
		FunctionInvoker: invoker,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	configStore := core.OutputConfigStore(data.NewCachedOutputConfigStore(
		data.NewOutputConfigRepo(deps.DB),
		data.NewRedisCacheRepo(deps.RedisClient),
		cfg.Cache.OutputConfigTTL,
		logger,
	))

	router, err := dispatch.NewRouter(dispatch.RouterOptions{
		Registry:     registry,
		ConfigStore:  configStore,
		Creds:        credVault,
		Region:       cfg.Region,
		AccountID:    cfg.AccountID,
		FunctionName: cfg.FunctionName,
		Concurrency:  cfg.Dispatch.Concurrency,
		Logger:       logger,
		RecordPath:   cfg.Dispatch.RecordPath,
	})
	if err != nil {
		return nil, fmt.Errorf("build dispatch router: %w", err)
	}

	return &Stack{
		Vault:       credVault,
		Registry:    registry,
		Router:      router,
		ConfigStore: configStore,
	}, nil
}
