package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sentinel/internal/auth"
	"sentinel/internal/db"
	"sentinel/internal/domain/accessrules"
	"sentinel/internal/domain/elements"
	"sentinel/internal/domain/roles"
	"sentinel/internal/domain/sessions"
	"sentinel/internal/domain/storage"
	"sentinel/internal/domain/tokens"
	"sentinel/internal/domain/users"
	"sentinel/internal/policy"
)

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	return zap.New(core).Sugar(), nil
}

func envDuration(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %s\n", key, fallback)
		return fallback
	}
	return d
}

var version = "1.0.0"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	maxOpenConnsStr := os.Getenv("DB_MAX_OPEN_CONNS")
	maxOpenConns, err := strconv.Atoi(maxOpenConnsStr)
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_OPEN_CONNS: %v", err)
	}

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		db: dbConfig{
			addr:         os.Getenv("DB_ADDR"),
			maxOpenConns: maxOpenConns,
			maxIdleTime:  os.Getenv("DB_MAX_IDLE_TIME"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				accessTokenExp:  envDuration("AUTH_ACCESS_TOKEN_EXP", 15*time.Minute),
				refreshTokenExp: envDuration("AUTH_REFRESH_TOKEN_EXP", 30*24*time.Hour),
			},
		},
		admin: adminConfig{
			name:     os.Getenv("ADMIN_NAME"),
			username: os.Getenv("ADMIN_USERNAME"),
			password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	pool, err := db.New(
		cfg.db.addr,
		int32(cfg.db.maxOpenConns),
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Fatal(err)
	}

	defer pool.Close()
	logger.Info("database connection pool established")

	store := storage.NewContainer(pool)

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		authenticator: jwtAuthenticator,
		policy:        policy.NewEngine(store.AccessRules),

		users:    users.NewService(store.Users),
		roles:    roles.NewService(store.Roles),
		elements: elements.NewService(store.Elements),
		rules:    accessrules.NewService(store.AccessRules),
		sessions: sessions.NewService(store.Sessions),
		tokens:   tokens.NewService(store.RefreshTokens),
	}

	if err := app.seedAdmin(context.Background()); err != nil {
		logger.Fatalw("seeding admin user failed", "error", err)
	}

	// Metrics collected at http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		return pool.Stat()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	app.sweepExpiredEveryHour()

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

// seedAdmin bootstraps an empty deployment: when the users table has no
// rows, the default roles and the configured admin account are created in
// one transaction. Validation is skipped so deployments may pick seed
// credentials outside the public length bounds.
func (app *application) seedAdmin(ctx context.Context) error {
	count, err := app.store.Users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if app.config.admin.username == "" || app.config.admin.password == "" {
		app.logger.Warn("users table is empty and no ADMIN_USERNAME/ADMIN_PASSWORD configured, skipping seed")
		return nil
	}

	return app.store.WithTx(ctx, func(t *storage.Tx) error {
		for _, r := range []users.Role{users.RoleAdmin, users.RoleManager, users.RoleUser} {
			row := &roles.Role{Role: r, Comment: "seeded"}
			if err := t.Roles.Create(ctx, row); err != nil {
				return err
			}
		}

		svc := users.NewService(t.Users)
		admin, err := svc.CreateUser(ctx, users.CreateParams{
			Name:             app.config.admin.name,
			Username:         app.config.admin.username,
			Password:         app.config.admin.password,
			Role:             users.RoleAdmin,
			CheckValidFields: false,
		})
		if err != nil {
			return err
		}

		app.logger.Infow("seeded admin user", "id", admin.ID, "username", admin.Username)
		return nil
	})
}
