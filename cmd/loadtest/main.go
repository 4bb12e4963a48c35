package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Нагрузочный сценарий: create -> get -> status -> cancel через REST API.

type loadMode string

const (
	modeCreate     loadMode = "create"
	modeCreateFull loadMode = "create-full"
)

type config struct {
	baseURL     string
	total       int
	concurrency int
	timeout     time.Duration
	mode        loadMode
	token       string
	customerTag string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type report struct {
	StartedAt       time.Time      `json:"started_at"`
	DurationSeconds float64        `json:"duration_seconds"`
	Total           int64          `json:"total"`
	Success         int64          `json:"success"`
	Failed          int64          `json:"failed"`
	ErrorRate       float64        `json:"error_rate"`
	RPS             float64        `json:"rps"`
	LatencyMs       latencySummary `json:"latency_ms"`
}

type createOrderRequest struct {
	CustomerID      string `json:"customer_id"`
	CustomerEmail   string `json:"customer_email"`
	ShippingAddress string `json:"shipping_address"`
	Items           []struct {
		ProductID   string `json:"product_id"`
		ProductName string `json:"product_name"`
		Qty         int32  `json:"qty"`
		PriceMinor  int64  `json:"price_minor"`
	} `json:"items"`
}

type createdOrder struct {
	ID string `json:"id"`
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.baseURL, "url", "http://localhost:8080/api/v1/orders", "order API base url")
	flag.IntVar(&cfg.total, "total", 100, "total scenarios to run")
	flag.IntVar(&cfg.concurrency, "concurrency", 8, "number of concurrent workers")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "per-request timeout")
	mode := flag.String("mode", string(modeCreateFull), "scenario: create|create-full")
	flag.StringVar(&cfg.token, "token", os.Getenv("OMS_LOADTEST_TOKEN"), "bearer token for protected endpoints")
	flag.StringVar(&cfg.customerTag, "customer", "loadtest", "customer id prefix")
	flag.Parse()
	cfg.mode = loadMode(*mode)
	return cfg
}

func newCreateRequest(cfg config, n int) createOrderRequest {
	req := createOrderRequest{
		CustomerID:      fmt.Sprintf("%s-%d", cfg.customerTag, n),
		CustomerEmail:   fmt.Sprintf("%s-%d@example.com", cfg.customerTag, n),
		ShippingAddress: "Load Test Street 1",
	}
	req.Items = append(req.Items, struct {
		ProductID   string `json:"product_id"`
		ProductName string `json:"product_name"`
		Qty         int32  `json:"qty"`
		PriceMinor  int64  `json:"price_minor"`
	}{ProductID: "SKU-LOAD", ProductName: "Load Test Item", Qty: 1, PriceMinor: 1000})
	return req
}

func main() {
	cfg := parseFlags()

	client := &http.Client{Timeout: cfg.timeout}
	started := time.Now()

	var (
		success   int64
		failed    int64
		latencyMu sync.Mutex
		latencies []float64
	)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				start := time.Now()
				err := runScenario(client, cfg, n)
				elapsed := float64(time.Since(start).Microseconds()) / 1000.0

				latencyMu.Lock()
				latencies = append(latencies, elapsed)
				latencyMu.Unlock()

				if err != nil {
					atomic.AddInt64(&failed, 1)
					fmt.Fprintf(os.Stderr, "scenario %d failed: %v\n", n, err)
					continue
				}
				atomic.AddInt64(&success, 1)
			}
		}()
	}

	for n := 0; n < cfg.total; n++ {
		jobs <- n
	}
	close(jobs)
	wg.Wait()

	printReport(started, success, failed, latencies)
}

func runScenario(client *http.Client, cfg config, n int) error {
	order, err := createOrder(client, cfg, n)
	if err != nil {
		return err
	}
	if cfg.mode == modeCreate {
		return nil
	}

	if err := do(client, cfg, http.MethodGet, cfg.baseURL+"/"+order.ID, nil, http.StatusOK); err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	body := []byte(`{"status":"CONFIRMED"}`)
	if err := do(client, cfg, http.MethodPatch, cfg.baseURL+"/"+order.ID+"/status", body, http.StatusOK); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if err := do(client, cfg, http.MethodDelete, cfg.baseURL+"/"+order.ID, nil, http.StatusNoContent); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	return nil
}

func createOrder(client *http.Client, cfg config, n int) (createdOrder, error) {
	payload, err := json.Marshal(newCreateRequest(cfg, n))
	if err != nil {
		return createdOrder{}, err
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, cfg.baseURL, bytes.NewReader(payload))
	if err != nil {
		return createdOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return createdOrder{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return createdOrder{}, fmt.Errorf("create order: unexpected status %d", resp.StatusCode)
	}

	var order createdOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return createdOrder{}, fmt.Errorf("decode create response: %w", err)
	}
	return order, nil
}

func do(client *http.Client, cfg config, method, url string, body []byte, wantStatus int) error {
	req, err := http.NewRequestWithContext(context.Background(), method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cfg.token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("unexpected status %d (want %d)", resp.StatusCode, wantStatus)
	}
	return nil
}

func printReport(started time.Time, success, failed int64, latencies []float64) {
	total := success + failed
	duration := time.Since(started).Seconds()

	r := report{
		StartedAt:       started.UTC(),
		DurationSeconds: duration,
		Total:           total,
		Success:         success,
		Failed:          failed,
		LatencyMs:       summarize(latencies),
	}
	if total > 0 {
		r.ErrorRate = float64(failed) / float64(total)
	}
	if duration > 0 {
		r.RPS = float64(total) / duration
	}

	out, _ := json.MarshalIndent(r, "", "  ")
	fmt.Println(string(out))
}

func summarize(latencies []float64) latencySummary {
	if len(latencies) == 0 {
		return latencySummary{}
	}
	sort.Float64s(latencies)

	var sum float64
	for _, v := range latencies {
		sum += v
	}

	pct := func(p float64) float64 {
		idx := int(p*float64(len(latencies))) - 1
		if idx < 0 {
			idx = 0
		}
		return latencies[idx]
	}

	return latencySummary{
		Min: latencies[0],
		Max: latencies[len(latencies)-1],
		Avg: sum / float64(len(latencies)),
		P50: pct(0.50),
		P95: pct(0.95),
		P99: pct(0.99),
	}
}
