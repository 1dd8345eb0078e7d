// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"strings"

	auditlogfeature "github.com/dalemusser/programhub/internal/app/features/auditlog"
	authgooglefeature "github.com/dalemusser/programhub/internal/app/features/authgoogle"
	cohortsfeature "github.com/dalemusser/programhub/internal/app/features/cohorts"
	consistencyfeature "github.com/dalemusser/programhub/internal/app/features/consistency"
	dashboardfeature "github.com/dalemusser/programhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/programhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/programhub/internal/app/features/health"
	instructorsfeature "github.com/dalemusser/programhub/internal/app/features/instructors"
	loginfeature "github.com/dalemusser/programhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/programhub/internal/app/features/logout"
	modulesfeature "github.com/dalemusser/programhub/internal/app/features/modules"
	programsfeature "github.com/dalemusser/programhub/internal/app/features/programs"
	studentsfeature "github.com/dalemusser/programhub/internal/app/features/students"
	subjectsfeature "github.com/dalemusser/programhub/internal/app/features/subjects"
	systemusersfeature "github.com/dalemusser/programhub/internal/app/features/systemusers"
	userinfofeature "github.com/dalemusser/programhub/internal/app/features/userinfo"
	"github.com/dalemusser/programhub/internal/app/services/curriculum"
	"github.com/dalemusser/programhub/internal/app/services/cvupload"
	"github.com/dalemusser/programhub/internal/app/services/linkage"
	"github.com/dalemusser/programhub/internal/app/store/audit"
	cohortstore "github.com/dalemusser/programhub/internal/app/store/cohorts"
	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	modulestore "github.com/dalemusser/programhub/internal/app/store/modules"
	programstore "github.com/dalemusser/programhub/internal/app/store/programs"
	studentstore "github.com/dalemusser/programhub/internal/app/store/students"
	subjectstore "github.com/dalemusser/programhub/internal/app/store/subjects"
	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/auth"
	"github.com/dalemusser/programhub/internal/app/system/metrics"
	"github.com/dalemusser/programhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Stores and services are built once here
// over deps.Gateway and shared by the feature handlers.
//
// Everything except /health, /metrics and local CV files lives under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.Gateway == nil {
		return nil, errors.New("build handler: no document gateway")
	}
	if deps.Storage == nil {
		return nil, errors.New("build handler: no file storage")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Stores
	g := deps.Gateway
	users := userstore.New(g)
	programs := programstore.New(g)
	cohorts := cohortstore.New(g)
	modules := modulestore.New(g)
	students := studentstore.New(g)
	subjects := subjectstore.New(g)
	instructors := instructorstore.New(g)
	events := audit.New(g)

	// LoadSessionUser re-reads the user on every request so role changes
	// and deactivation take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(users))

	auditLog := auditlog.New(events, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	m := metrics.New()

	// Services
	links := linkage.New(g, linkage.Options{
		Audit:        auditLog,
		Metrics:      m,
		Logger:       logger,
		Transactions: appCfg.LinkTransactions,
	})
	curr := curriculum.New(g, logger)
	cv := cvupload.New(deps.Storage, instructors, auditLog, logger)
	cv.URLExpiry = appCfg.StorageS3URLExpiry

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	// Global auth middleware: loads SessionUser into context if logged in,
	// then records the actor for audit events.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(auditlog.ActorMiddleware)

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(pinger(deps), logger)))
	r.Handle("/metrics", m.Handler())

	// CVs on the local backend are served directly; S3 hands out presigned URLs.
	if _, ok := deps.Storage.(*storage.Local); ok && appCfg.StorageLocalURL != "" {
		prefix := strings.TrimSuffix(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	r.Route("/api", func(api chi.Router) {
		api.NotFound(errorsHandler.NotFound)
		api.MethodNotAllowed(errorsHandler.MethodNotAllowed)

		// Authentication
		userinfofeature.MountRoutes(api, userinfofeature.NewHandler())
		loginHandler := loginfeature.NewHandler(users, sessionMgr, errLog, auditLog, logger)
		loginHandler.Limiter = ratelimit.NewDefaultLoginLimiter()
		api.Mount("/login", loginfeature.Routes(loginHandler))
		api.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, auditLog, logger), sessionMgr))
		api.Mount("/auth/google", authgooglefeature.Routes(authgooglefeature.NewHandler(
			users, sessionMgr, auditLog,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
			logger,
		)))

		// Records
		api.Mount("/programs", programsfeature.Routes(programsfeature.NewHandler(links, programs, curr, errLog, auditLog, logger), sessionMgr))
		api.Mount("/cohorts", cohortsfeature.Routes(cohortsfeature.NewHandler(links, cohorts, students, errLog, auditLog, logger), sessionMgr))
		api.Mount("/modules", modulesfeature.Routes(modulesfeature.NewHandler(curr, modules, errLog, auditLog, logger), sessionMgr))
		api.Mount("/students", studentsfeature.Routes(studentsfeature.NewHandler(students, cohorts, errLog, auditLog, logger), sessionMgr))
		api.Mount("/subjects", subjectsfeature.Routes(subjectsfeature.NewHandler(subjects, errLog, auditLog, logger), sessionMgr))
		api.Mount("/instructors", instructorsfeature.Routes(instructorsfeature.NewHandler(instructors, cv, errLog, auditLog, logger), sessionMgr))
		api.Mount("/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(curr, logger), sessionMgr))

		// Administration
		api.Mount("/admin/consistency", consistencyfeature.Routes(consistencyfeature.NewHandler(links, errLog, logger), sessionMgr))
		api.Mount("/admin/users", systemusersfeature.Routes(systemusersfeature.NewHandler(users, errLog, auditLog, logger), sessionMgr))
		api.Mount("/admin/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(events, errLog, logger), sessionMgr))
	})

	logger.Info("routes ready",
		zap.String("storage", appCfg.StorageType),
		zap.Bool("google_login", appCfg.GoogleClientID != ""),
		zap.Bool("link_transactions", appCfg.LinkTransactions))

	return r, nil
}

// pinger returns the health check's database ping. Without a Mongo client
// (in-memory gateway) the ping always succeeds.
func pinger(deps DBDeps) healthfeature.Pinger {
	if deps.MongoClient != nil {
		return healthfeature.MongoPinger(deps.MongoClient)
	}
	return healthfeature.PingFunc(func(context.Context) error { return nil })
}
