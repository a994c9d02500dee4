package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

var (
	eventTypes = []string{"login_attempt", "api_call", "data_access", "config_change", "unknown"}
	severities = []string{"low", "medium", "high", "critical"}
)

type syntheticEvent struct {
	Type        string            `json:"type"`
	Severity    string            `json:"severity"`
	Source      string            `json:"source"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func main() {
	targetURL := flag.String("url", "http://localhost:8080/api/security/log", "Target URL for event submission")
	concurrency := flag.Int("c", 4, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 10, "Requests per second limit")
	flag.Parse()

	log.Printf("Starting load test on %s", *targetURL)
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d", *concurrency, *duration, *rps)

	var wg sync.WaitGroup
	var successCount, errorCount atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), *rps)

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{Timeout: 90 * time.Second}

			for {
				if err := limiter.Wait(ctx); err != nil {
					return // context expired
				}

				event := syntheticEvent{
					Type:        eventTypes[rand.Intn(len(eventTypes))],
					Severity:    severities[rand.Intn(len(severities))],
					Source:      fmt.Sprintf("203.0.113.%d", rand.Intn(254)+1),
					Description: fmt.Sprintf("synthetic event from worker %d", workerID),
					Metadata:    map[string]string{"worker": fmt.Sprintf("%d", workerID)},
				}
				payload, err := json.Marshal(event)
				if err != nil {
					errorCount.Add(1)
					continue
				}

				req, err := http.NewRequestWithContext(ctx, http.MethodPost, *targetURL, bytes.NewReader(payload))
				if err != nil {
					errorCount.Add(1)
					continue
				}
				req.Header.Set("Content-Type", "application/json")

				resp, err := client.Do(req)
				if err != nil {
					errorCount.Add(1)
					continue
				}
				resp.Body.Close()

				if resp.StatusCode == http.StatusCreated {
					successCount.Add(1)
				} else {
					errorCount.Add(1)
				}
			}
		}(i)
	}

	wg.Wait()
	log.Printf("Load test complete. Success: %d, Errors: %d", successCount.Load(), errorCount.Load())
}
