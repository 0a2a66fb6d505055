package models

import (
	"github.com/Aesmazing/Boko-Hacks-2025/server/bredis"
	"github.com/Aesmazing/Boko-Hacks-2025/server/bsql"
	"github.com/Aesmazing/Boko-Hacks-2025/server/cmd"
	"github.com/Aesmazing/Boko-Hacks-2025/server/env"
	"github.com/Aesmazing/Boko-Hacks-2025/server/logger"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/auth"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/files"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/user"
	"github.com/Aesmazing/Boko-Hacks-2025/server/psql"

	"github.com/spf13/afero"
)

// Models holds all application components
type Models struct {
	db              *bsql.DB
	bredisClient    *bredis.Client
	userStore       user.Repository
	fileStore       files.Repository
	revocationStore *auth.TokenRevocationStore
	jwtService      *auth.JWTService
	authHandler     *auth.Handler
	filesHandler    *files.Handler
}

// NewModels creates and initializes all application components
func NewModels(cmdMode bool) *Models {
	m := &Models{}

	logger.Info("Connecting to PostgreSQL...")

	dbConfigPath := cmd.ResolvePath(env.E.DatabaseConfigFilePath)
	dbConfig, err := bsql.LoadDatabaseConfig(dbConfigPath)
	if err != nil {
		logger.Fatalf("Failed to load database config: %v", err)
	}

	logger.Infof("  Host: %s:%s", dbConfig.Host, dbConfig.Port)
	logger.Infof("  Database: %s", dbConfig.Database)

	m.db = bsql.Open(
		dbConfig.Username,
		dbConfig.Password,
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.Database,
		dbConfig.MaxIdleConnection,
		dbConfig.MaxOpenConnection,
	)

	logger.Info("Running database migrations...")
	migPath := cmd.ResolvePath("db/migrations")
	if err := psql.MigrateUp(m.db, migPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional: without it there is no list cache and no rate
	// limiting, but uploads still work.
	if env.E.RedisConfigFilePath != "" {
		m.bredisClient = bredis.OpenFromConfig(cmd.ResolvePath(env.E.RedisConfigFilePath))
	}
	if m.bredisClient == nil {
		logger.Warn("Redis unavailable, caching and rate limiting disabled")
	}

	m.userStore = user.NewPostgresRepository(m.db)
	m.fileStore = files.NewPostgresRepository(m.db)

	m.revocationStore = auth.NewTokenRevocationStore(m.db)

	jwtConfig := &auth.Config{
		SecretKey:     []byte(env.E.JWTSigningKey),
		TokenDuration: env.E.GetJWTDuration(),
	}
	m.jwtService = auth.NewJWTService(jwtConfig, m.revocationStore)

	m.authHandler = auth.NewHandler(m.userStore, m.jwtService, m.bredisClient)

	storage, err := files.NewStorage(afero.NewOsFs(), cmd.ResolvePath(env.E.GetUploadFolder()))
	if err != nil {
		logger.Fatalf("Failed to initialize upload storage: %v", err)
	}

	validator := files.NewValidator(env.E.GetAllowedExtensions(), env.E.GetAllowedMimeTypes())
	metrics := files.NewUploadMetrics()

	m.filesHandler = files.NewHandler(
		m.userStore,
		m.fileStore,
		storage,
		validator,
		metrics,
		m.bredisClient,
		env.E.GetMaxFileSize(),
	)

	if !cmdMode {
		m.SetupRoutes()
	}

	return m
}

// RunCmd runs command mode
func (m *Models) RunCmd(c string) {
	switch c {
	default:
		logger.Warnf("Unknown command: %s", c)
	}
}
