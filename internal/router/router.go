// Package router sets up the gin router and the middlewares.
package router

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	docs "github.com/wfrancescons/openmonetis-backend/api"
	"github.com/wfrancescons/openmonetis-backend/internal/controllers/healthz"
	v1 "github.com/wfrancescons/openmonetis-backend/internal/controllers/v1"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time via ldflags.
var version = "0.0.0"

// Config sets up the router with all middlewares.
//
// The returned function tears down everything that Config set up globally
// and needs to be called when the router is discarded, e.g. with defer.
func Config(url *url.URL) (*gin.Engine, func(), error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, out io.Writer, latency time.Duration) zerolog.Logger {
			return log.Logger.With().
				Str("request-id", requestid.Get(c)).
				Dur("latency", latency).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))
	r.Use(MetricsMiddleware())

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Optional rate limiting, configured with the number of requests
	// allowed per client IP and minute
	rateLimit, ok := os.LookupEnv("RATE_LIMIT")
	if ok {
		limit, err := strconv.Atoi(rateLimit)
		if err != nil || limit < 1 {
			return nil, func() {}, errors.New("RATE_LIMIT must be a positive integer")
		}

		log.Debug().Int("Requests per minute", limit).Msg("Router")
		r.Use(RateLimit(NewRateLimiter(limit, time.Minute)))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", version).Msg("Router")

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "openmonetis"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for openmonetis, a personal finance ledger with installment series and credit card invoice settlement. Check out the source code at https://github.com/wfrancescons/openmonetis-backend."

	err := registerPrometheusMetrics()
	if err != nil {
		return nil, func() {}, err
	}

	teardown := func() {
		if ok := unregisterPrometheusMetrics(); !ok {
			log.Error().Msg("could not unregister prometheus metrics")
		}
	}

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
// Separating this from Config() allows us to attach it to different paths for
// different use cases.
func AttachRoutes(group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)

	healthz.RegisterRoutes(group.Group("/healthz"))

	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 setup
	v1Group := group.Group("/v1")
	{
		v1Group.GET("", GetV1)
		v1Group.OPTIONS("", OptionsV1)
	}
	v1.RegisterCleanupRoutes(v1Group)

	v1.RegisterAccountRoutes(v1Group.Group("/accounts"))
	v1.RegisterCardRoutes(v1Group.Group("/cards"))
	v1.RegisterCategoryRoutes(v1Group.Group("/categories"))
	v1.RegisterPayeeRoutes(v1Group.Group("/payees"))
	v1.RegisterMatchRuleRoutes(v1Group.Group("/match-rules"))
	v1.RegisterTransactionRoutes(v1Group.Group("/transactions"))
	v1.RegisterSeriesRoutes(v1Group.Group("/series"))
	v1.RegisterAnticipationRoutes(v1Group.Group("/anticipations"))
	v1.RegisterInvoiceRoutes(v1Group.Group("/invoices"))
	v1.RegisterExportRoutes(v1Group.Group("/export"), version)
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/api/docs/index.html"` // Swagger API documentation
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`      // Healthz endpoint
	Version string `json:"version" example:"https://example.com/api/version"`      // Endpoint returning the version of the backend
	Metrics string `json:"metrics" example:"https://example.com/api/metrics"`      // Endpoint returning Prometheus metrics
	V1      string `json:"v1" example:"https://example.com/api/v1"`                // List endpoint for all v1 endpoints
}

// GetRoot returns the link list for the API root
//
//	@Summary		API root
//	@Description	Entrypoint for the API, listing all endpoints
//	@Tags			General
//	@Success		200	{object}	RootResponse
//	@Router			/ [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    url + "/docs/index.html",
			Healthz: url + "/healthz",
			Version: url + "/version",
			Metrics: url + "/metrics",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the openmonetis backend
}

// GetVersion returns the API version object
//
//	@Summary		API version
//	@Description	Returns the software version of the API
//	@Tags			General
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// OptionsVersion returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"` // Links for the v1 API
}

type V1Links struct {
	Accounts      string `json:"accounts" example:"https://example.com/api/v1/accounts"`           // URL of account list endpoint
	Cards         string `json:"cards" example:"https://example.com/api/v1/cards"`                 // URL of card list endpoint
	Categories    string `json:"categories" example:"https://example.com/api/v1/categories"`       // URL of category list endpoint
	Payees        string `json:"payees" example:"https://example.com/api/v1/payees"`               // URL of payee list endpoint
	MatchRules    string `json:"matchRules" example:"https://example.com/api/v1/match-rules"`      // URL of match rule list endpoint
	Transactions  string `json:"transactions" example:"https://example.com/api/v1/transactions"`   // URL of transaction list endpoint
	Series        string `json:"series" example:"https://example.com/api/v1/series"`               // URL of series projection endpoint
	Anticipations string `json:"anticipations" example:"https://example.com/api/v1/anticipations"` // URL of anticipation list endpoint
	Invoices      string `json:"invoices" example:"https://example.com/api/v1/invoices"`           // URL of invoice list endpoint
	Export        string `json:"export" example:"https://example.com/api/v1/export"`               // URL of the export endpoint
}

// GetV1 returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	V1Response
//	@Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Accounts:      url + "/v1/accounts",
			Cards:         url + "/v1/cards",
			Categories:    url + "/v1/categories",
			Payees:        url + "/v1/payees",
			MatchRules:    url + "/v1/match-rules",
			Transactions:  url + "/v1/transactions",
			Series:        url + "/v1/series",
			Anticipations: url + "/v1/anticipations",
			Invoices:      url + "/v1/invoices",
			Export:        url + "/v1/export",
		},
	})
}

// OptionsV1 returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}
