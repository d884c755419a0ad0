package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"sentinel/internal/auth"
	"sentinel/internal/domain/accessrules"
	"sentinel/internal/domain/elements"
	"sentinel/internal/domain/roles"
	"sentinel/internal/domain/sessions"
	"sentinel/internal/domain/storage"
	"sentinel/internal/domain/tokens"
	"sentinel/internal/domain/users"
	"sentinel/internal/policy"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	authenticator auth.Authenticator
	policy        *policy.Engine

	users    *users.Service
	roles    *roles.Service
	elements *elements.Service
	rules    *accessrules.Service
	sessions *sessions.Service
	tokens   *tokens.Service
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	frontendURL string
	auth        authConfig
	admin       adminConfig
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
}

type basicConfig struct {
	user string
	pass string
}

// adminConfig describes the user seeded when the users table is empty.
type adminConfig struct {
	name     string
	username string
	password string
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true, // refresh token travels as a cookie
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", app.loginHandler)
			r.Post("/refresh", app.refreshHandler)
			r.Post("/logout", app.logoutHandler)
			r.With(app.AuthTokenMiddleware).Get("/status", app.authStatusHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me", app.getCurrentUserHandler)
			r.Get("/", app.listUsersHandler)
			r.Post("/", app.createUserHandler)

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", app.getUserHandler)
				r.Patch("/", app.updateUserHandler)
				r.Delete("/", app.deleteUserHandler)
				r.Put("/restore", app.restoreUserHandler)
			})
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listRolesHandler)
			r.Post("/", app.createRoleHandler)

			r.Route("/{roleID}", func(r chi.Router) {
				r.Get("/", app.getRoleHandler)
				r.Patch("/", app.updateRoleHandler)
				r.Delete("/", app.deleteRoleHandler)
			})
		})

		r.Route("/business-elements", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listElementsHandler)
			r.Post("/", app.createElementHandler)

			r.Route("/{elementID}", func(r chi.Router) {
				r.Get("/", app.getElementHandler)
				r.Patch("/", app.updateElementHandler)
				r.Delete("/", app.deleteElementHandler)
			})
		})

		r.Route("/access-rules", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listRulesHandler)
			r.Post("/", app.createRuleHandler)
			r.Post("/check", app.checkAccessHandler)

			r.Route("/{ruleID}", func(r chi.Router) {
				r.Get("/", app.getRuleHandler)
				r.Patch("/", app.updateRuleHandler)
				r.Delete("/", app.deleteRuleHandler)
			})
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listSessionsHandler)
			r.Post("/", app.createSessionHandler)
			r.Delete("/", app.deleteUserSessionsHandler)
			r.Delete("/expired", app.deleteExpiredSessionsHandler)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", app.getSessionHandler)
				r.Put("/last-seen", app.touchSessionHandler)
				r.Delete("/", app.deleteSessionHandler)
			})
		})

		r.Route("/refresh-tokens", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listRefreshTokensHandler)
			r.Put("/revoke", app.revokeUserTokensHandler)
			r.Delete("/expired", app.deleteExpiredTokensHandler)

			r.Route("/{tokenID}", func(r chi.Router) {
				r.Get("/", app.getRefreshTokenHandler)
				r.Put("/revoke", app.revokeTokenHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
