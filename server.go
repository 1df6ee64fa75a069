package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simpleym/yard_backend/config"
	"github.com/simpleym/yard_backend/identity"
	"github.com/simpleym/yard_backend/middlewares"
	"github.com/simpleym/yard_backend/models"
	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

// apiServer holds the wired components behind the HTTP surface. Fields are
// assigned by wire() before ready is set; the readiness gate keeps request
// handlers away from them until then.
type apiServer struct {
	logger *logrus.Logger
	ready  atomic.Bool

	store    store.Client
	identity identity.Provider

	moves      *models.MoveRepository
	engine     *models.TrailerStateEngine
	records    *models.RecordRepository
	users      *models.UserService
	locations  *models.LocationRepository
	trailers   *models.TrailerRepository
	tempChecks *models.TempCheckRepository
	dashboard  *models.DashboardService
}

func (a *apiServer) wire(st store.Client, provider identity.Provider) {
	a.store = st
	a.identity = provider
	a.moves = &models.MoveRepository{Store: st}
	a.engine = &models.TrailerStateEngine{Moves: a.moves}
	a.records = &models.RecordRepository{Store: st, Identity: provider}
	a.users = &models.UserService{Store: st, Identity: provider}
	a.locations = &models.LocationRepository{Store: st}
	a.trailers = &models.TrailerRepository{Store: st}
	a.tempChecks = &models.TempCheckRepository{Store: st}
	a.dashboard = &models.DashboardService{Store: st}
	a.ready.Store(true)
}

// VerifyToken satisfies middlewares.TokenVerifier, resolving the provider
// at request time so routes can be registered before the connect finishes.
func (a *apiServer) VerifyToken(ctx context.Context, idToken string) (*identity.Token, error) {
	if !a.ready.Load() {
		return nil, errors.New("identity provider not ready")
	}
	return a.identity.VerifyToken(ctx, idToken)
}

func newRouter(app *apiServer, logger *logrus.Logger) *gin.Engine {
	r := gin.New()

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate everything else on upstream readiness.
		if !app.ready.Load() {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated); in non-production allow all for developer convenience.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	// Public surface: landing page and kiosk screens call these before
	// sign-in.
	r.GET("/", app.rootHandler())
	r.GET("/locations", app.locationsHandler())
	r.GET("/collection-schema", app.collectionSchemaHandler())
	r.GET("/current-time", app.currentTimeHandler())

	// Everything else requires a verified bearer token.
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware(app))
	api.GET("/last-known-locations", app.lastKnownLocationsHandler())
	api.GET("/trailer-statistics", app.trailerStatisticsHandler())
	api.GET("/fetch-data", app.fetchDataHandler())
	api.POST("/add-record", app.addRecordHandler())
	api.PUT("/update-record", app.updateRecordHandler())
	api.PUT("/update", app.updateRecordByIDHandler())
	api.PUT("/update-move-timestamps/:move_id", app.updateMoveTimestampsHandler())
	api.DELETE("/delete", app.deleteRecordHandler())
	api.POST("/create-auth-user", app.createAuthUserHandler())
	api.POST("/add-temp-check", app.addTempCheckHandler())
	api.POST("/upload-excel", app.uploadExcelHandler())
	api.GET("/dashboard-data", app.dashboardDataHandler())
	api.GET("/validate-trailer", app.validateTrailerHandler())

	r.NoRoute(customNotFoundHandler)
	return r
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "route not found"})
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful
	// drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision
	// healthy; until Firebase is ready the gate returns 503.
	app := &apiServer{logger: logger}
	r := newRouter(app, logger)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	firestoreClient, authClient := config.ConnectFirebaseWithRetry(context.Background())
	defer firestoreClient.Close()
	app.wire(store.NewFirestoreClient(firestoreClient), identity.NewFirebaseProvider(authClient))

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("yard management backend listening on port ", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}

// customErrorLogger logs only requests that collected errors, tagged with
// the request's correlation id.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			entry := logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"status": c.Writer.Status(),
			})
			if cid, ok := utils.GetCorrelationIdFromContext(c.Request.Context()); ok && cid != "" {
				entry = entry.WithField("correlation_id", cid)
			}
			entry.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
