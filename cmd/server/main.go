package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"minesafe.xyz/mine-monitor-service/pkg/broadcast"
	"minesafe.xyz/mine-monitor-service/pkg/common"
	"minesafe.xyz/mine-monitor-service/pkg/db"
	"minesafe.xyz/mine-monitor-service/pkg/georisk"
	geoHttp "minesafe.xyz/mine-monitor-service/pkg/http"
	"minesafe.xyz/mine-monitor-service/pkg/predict"
)

func envDuration(key string, unit time.Duration, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s, should be an int value: %v", key, err)
	}
	return time.Duration(n) * unit
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s, should be an int value: %v", key, err)
	}
	return int(n)
}

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	geoDbType := os.Getenv(common.EnvKeyGeoDBType)
	switch geoDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown GEO_DB_TYPE: " + geoDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyGeoHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyGeoDefaultRate), 64); err != nil {
		log.Fatal("Invalid GEO_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyGeoDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid GEO_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	geoCore := georisk.GeoRisk{
		Db:       *dbInstance,
		Fallback: predict.FallbackClassifier{},
	}

	predictBaseURL := strings.TrimSpace(os.Getenv(common.EnvKeyPredictBaseURL))
	if predictBaseURL != "" {
		client := predict.NewClient(predict.Options{
			BaseURL:      predictBaseURL,
			Timeout:      envDuration(common.EnvKeyPredictTimeoutSec, time.Second, predict.DefaultTimeout),
			MaxAttempts:  envInt(common.EnvKeyPredictMaxAttempts, predict.DefaultMaxAttempts),
			BackoffBase:  envDuration(common.EnvKeyPredictBackoffBaseMs, time.Millisecond, predict.DefaultBackoffBase),
			MaxBatchSize: envInt(common.EnvKeyPredictMaxBatchSize, predict.DefaultMaxBatchSize),
		})
		geoCore.Remote = &predict.RemoteClassifier{Client: client}
		geoCore.PredictClient = client
		logger.Info("Prediction client created with base URL " + predictBaseURL)
	} else {
		logger.Info("PREDICT_BASE_URL not set, classifying with rules only")
	}

	hub := broadcast.NewHub()
	go hub.Run()
	geoCore.Publisher = hub

	geoCore.WithServices(georisk.ServiceOpts{
		Ingest: geoCore.GetIIngest(),
		Alert:  geoCore.GetIAlert(),
		Sensor: geoCore.GetISensor(),
	})

	sweeper := geoCore.NewSweeper(envDuration(common.EnvKeySweepPeriodSec, time.Second, georisk.DefaultSweepPeriod))
	sweeper.Start()

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &geoHttp.RestfulServer{
		Server:           gin.Default(),
		Geo:              &geoCore,
		RateLimiterStore: georisk.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
		Hub:              hub,
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
