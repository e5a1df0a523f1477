package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/internal/router"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// The base URL of the API is needed for links in responses
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		log.Fatal().Msg("environment variable API_URL must be set")
	}

	baseURL, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg("environment variable API_URL must be a valid URL")
	}

	// Create data directory
	dataDir := filepath.Join(".", "data")
	err = os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	err = models.Connect("data/openmonetis.db")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(baseURL)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(r.Group("/"))

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
