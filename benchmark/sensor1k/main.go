package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxSensors int = 1000
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

func main() {
	sensorIDs := make([]string, maxSensors)
	for i := 0; i < maxSensors; i++ {
		sensorIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v sensor IDs\n", maxSensors)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < maxSensors; i++ {
		i := i
		wg.Add(1)
		go func() {
			registerSensor(sensorIDs[i])
			fmt.Printf("\rregistered sensor %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rregistered %v sensors: used time=%v seconds, throughput=%v action/second\n",
		maxSensors, usedTime.Seconds(), float64(maxSensors)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := 0; i < maxSensors; i++ {
		i := i
		wg.Add(1)
		go func() {
			doAction(sensorIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v sensors: used time=%v seconds, throughput=%v action/second\n",
		maxSensors, usedTime.Seconds(), float64(maxSensors*3)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rnd.Float64()*(max-min)
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func rndFeatures() map[string]any {
	return map[string]any{
		"timestamp":           time.Now().Format(time.RFC3339),
		"rainfall_mm":         rndFloat64(0.0, 120.0, 2),
		"slope_angle":         rndFloat64(0.0, 90.0, 2),
		"soil_saturation":     rndFloat64(0.0, 1.0, 3),
		"vegetation_cover":    rndFloat64(0.0, 1.0, 3),
		"earthquake_activity": rndFloat64(0.0, 5.0, 2),
		"proximity_to_water":  rndFloat64(0.0, 500.0, 1),
		"landslide":           rndFloat64(0.0, 1.0, 3),
		"soil_type_gravel":    flipCoin(),
		"soil_type_sand":      flipCoin(),
		"soil_type_silt":      flipCoin(),
	}
}

func registerSensor(sensorID string) {
	payload := map[string]any{
		"name":      "bench-" + sensorID[:8],
		"latitude":  rndFloat64(-23.0, -22.0, 6),
		"longitude": rndFloat64(-44.0, -43.0, 6),
		"zone":      fmt.Sprintf("pit-%d", rnd.Int31n(8)),
	}

	jsonData, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("http://%s/sensors/%s", httpHostPort, sensorID), bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		panic(fmt.Sprintf("register sensor failed with status %v", resp.StatusCode))
	}
}

func doAction(sensorID string) {
	actions := []func(){
		genUpsertSensorAction(sensorID),
		genGetAlertsAction(sensorID),
		genPostReadingAction(sensorID),
	}
	actionNames := []string{
		"UpsertSensor",
		"GetAlerts",
		"PostReading",
	}
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for sensor %v", actionNames[index], sensorID)
		time.Sleep(time.Duration(100+rnd.Int31n(1000)) * time.Millisecond)
	}
}

func genUpsertSensorAction(sensorID string) func() {
	return func() {
		registerSensor(sensorID)
	}
}

func genPostReadingAction(sensorID string) func() {
	return func() {
		useBatch := flipCoin()

		var url string
		var payload any
		if useBatch {
			readings := make([]map[string]any, 1+rnd.Int31n(10))
			for i := range readings {
				readings[i] = rndFeatures()
			}
			url = fmt.Sprintf("http://%s/sensors/%s/readings/batch", httpHostPort, sensorID)
			payload = map[string]any{"readings": readings}
		} else {
			url = fmt.Sprintf("http://%s/sensors/%s/readings", httpHostPort, sensorID)
			payload = rndFeatures()
		}

		jsonData, _ := json.Marshal(payload)
		resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusTooManyRequests {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}

func genGetAlertsAction(sensorID string) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/sensors/%s/alerts", httpHostPort, sensorID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusTooManyRequests {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}
