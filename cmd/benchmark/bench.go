package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// Load generator for a running instance. Point it at a server started with
// a catalog-only provider config so no upstream credits are burned.
func main() {
	target := flag.String("target", "http://localhost:8080", "Base URL of the running server")
	apiKey := flag.String("api-key", "", "Bearer token, if the server requires one")
	duration := flag.Duration("duration", 10*time.Second, "Duration of the attack")
	rate := flag.Int("rate", 50, "Requests per second")
	resolve := flag.Bool("resolve", false, "Attack POST /v1/models/resolve instead of GET /v1/models")
	flag.Parse()

	header := http.Header{}
	if *apiKey != "" {
		header.Set("Authorization", "Bearer "+*apiKey)
	}

	var targeter vegeta.Targeter
	if *resolve {
		header.Set("Content-Type", "application/json")
		body := []byte(`{"constraints":{"require_tools":true}}`)
		targeter = vegeta.NewStaticTargeter(vegeta.Target{
			Method: http.MethodPost,
			URL:    *target + "/v1/models/resolve",
			Body:   body,
			Header: header,
		})
	} else {
		targeter = vegeta.NewStaticTargeter(vegeta.Target{
			Method: http.MethodGet,
			URL:    *target + "/v1/models",
			Header: header,
		})
	}

	mode := "list"
	if *resolve {
		mode = "resolve"
	}
	fmt.Printf("Running %s benchmark against %s: %s at %d req/s\n", mode, *target, *duration, *rate)

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "model-registry") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Errors:")
		for i, msg := range metrics.Errors {
			if i == 5 {
				break
			}
			fmt.Println(" ", msg)
		}
	}
}
