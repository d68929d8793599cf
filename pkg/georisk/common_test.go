package georisk

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
	"minesafe.xyz/mine-monitor-service/pkg/db"
	"minesafe.xyz/mine-monitor-service/pkg/georisk/mocks"
	"minesafe.xyz/mine-monitor-service/pkg/predict"
)

func GetMockGeoRiskWithMemorySqliteDialector(t *testing.T, useMockIIngest, useMockIAlert, useMockISensor bool) (
	*gomock.Controller,
	*GeoRisk,
	*mocks.MockIIngest,
	*mocks.MockIAlert,
	*mocks.MockISensor,
) {
	ctrl := gomock.NewController(t)

	mockIIngest := mocks.NewMockIIngest(ctrl)
	mockIAlert := mocks.NewMockIAlert(ctrl)
	mockISensor := mocks.NewMockISensor(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	geoInstance := (&GeoRisk{
		Db:       *dbInstance,
		Fallback: predict.FallbackClassifier{},
	})

	ingestService := geoInstance.GetIIngest()
	if useMockIIngest {
		ingestService = mockIIngest
	}

	alertService := geoInstance.GetIAlert()
	if useMockIAlert {
		alertService = mockIAlert
	}

	sensorService := geoInstance.GetISensor()
	if useMockISensor {
		sensorService = mockISensor
	}

	geoInstance.WithServices(ServiceOpts{
		Ingest: ingestService,
		Alert:  alertService,
		Sensor: sensorService,
	})

	return ctrl, geoInstance, mockIIngest, mockIAlert, mockISensor
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
