package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyGeoDBType string = "GEO_DB_TYPE"
	EnvKeyGeoDbPath string = "GEO_DB_PATH"

	EnvKeyGeoHttpHostPort string = "GEO_HTTP_HOST_PORT"

	EnvKeyGeoDefaultRate  string = "GEO_DEFAULT_RATE"
	EnvKeyGeoDefaultBurst string = "GEO_DEFAULT_BURST"

	EnvKeyPredictBaseURL       string = "PREDICT_BASE_URL"
	EnvKeyPredictTimeoutSec    string = "PREDICT_TIMEOUT_SEC"
	EnvKeyPredictMaxAttempts   string = "PREDICT_MAX_ATTEMPTS"
	EnvKeyPredictBackoffBaseMs string = "PREDICT_BACKOFF_BASE_MS"
	EnvKeyPredictMaxBatchSize  string = "PREDICT_MAX_BATCH_SIZE"

	EnvKeySweepPeriodSec string = "SWEEP_PERIOD_SEC"

	LoggerNameGeoRiskCore   string = "georisk_core"
	LoggerNamePredictClient string = "predict_client"
	LoggerNameBroadcastHub  string = "broadcast_hub"
	LoggerNameRestfulServer string = "restful_server"
	LoggerFieldCategory     string = "category"
	LoggerCategoryIngest    string = "ingest"
	LoggerCategoryAlert     string = "alert"
	LoggerCategorySensor    string = "sensor"
	LoggerCategoryClassify  string = "classify"
	LoggerCategorySweep     string = "sweep"
	LoggerCategoryBroadcast string = "broadcast"
)
