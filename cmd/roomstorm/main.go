// Package main - roomstorm
// Load generator for the room planner: floods /allocate with random party
// compositions while counting broadcasts on the WebSocket feed.
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
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config for the load run
type Config struct {
	ServerURL       string
	WSURL           string
	NumClients      int
	RequestInterval time.Duration
	TestDuration    time.Duration
}

// Stats tracks performance metrics
type Stats struct {
	RequestsSent   int64
	Feasible       int64
	Infeasible     int64
	BroadcastsRecv int64
	Errors         int64
	Latencies      []time.Duration
	mu             sync.Mutex
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080/allocate", "Allocation endpoint URL")
	wsURL := flag.String("ws", "ws://localhost:8080/ws", "WebSocket feed URL (empty to skip)")
	numClients := flag.Int("clients", 20, "Number of concurrent clients")
	interval := flag.Duration("interval", 50*time.Millisecond, "Request interval per client")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	flag.Parse()

	config := Config{
		ServerURL:       *serverURL,
		WSURL:           *wsURL,
		NumClients:      *numClients,
		RequestInterval: *interval,
		TestDuration:    *duration,
	}

	fmt.Println("=========================================")
	fmt.Println("ROOMSTORM - allocation load generator")
	fmt.Println("=========================================")
	fmt.Printf("Endpoint: %s\n", config.ServerURL)
	fmt.Printf("Clients: %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.RequestInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\ninterrupt received, stopping...")
		cancel()
	}()

	stats := runLoad(ctx, config)
	printResults(stats, config)
}

func runLoad(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	if config.WSURL != "" {
		go listenFeed(ctx, config.WSURL, stats)
	}

	var wg sync.WaitGroup
	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sent := atomic.LoadInt64(&stats.RequestsSent)
				recv := atomic.LoadInt64(&stats.BroadcastsRecv)
				errs := atomic.LoadInt64(&stats.Errors)
				fmt.Printf("progress: sent=%d broadcasts=%d errors=%d\n", sent, recv, errs)
			}
		}
	}()

	wg.Wait()
	return stats
}

func listenFeed(ctx context.Context, wsURL string, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		log.Printf("feed: connection failed: %v", err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		atomic.AddInt64(&stats.BroadcastsRecv, 1)
	}
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	client := &http.Client{Timeout: 5 * time.Second}

	ticker := time.NewTicker(config.RequestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			req := randomRequest()
			body, _ := json.Marshal(req)

			start := time.Now()
			resp, err := client.Post(config.ServerURL, "application/json", bytes.NewReader(body))
			latency := time.Since(start)

			if err != nil {
				log.Printf("client %d: request failed: %v", clientID, err)
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}
			resp.Body.Close()

			atomic.AddInt64(&stats.RequestsSent, 1)
			switch resp.StatusCode {
			case http.StatusOK:
				atomic.AddInt64(&stats.Feasible, 1)
			case http.StatusUnprocessableEntity:
				atomic.AddInt64(&stats.Infeasible, 1)
			default:
				atomic.AddInt64(&stats.Errors, 1)
			}

			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, latency)
			stats.mu.Unlock()
		}
	}
}

func randomRequest() map[string]int {
	return map[string]int{
		"room_count": 1 + rand.Intn(8),
		"adults":     rand.Intn(12),
		"seniors":    rand.Intn(8),
		"children":   rand.Intn(8),
	}
}

func printResults(stats *Stats, config Config) {
	sent := atomic.LoadInt64(&stats.RequestsSent)
	feasible := atomic.LoadInt64(&stats.Feasible)
	infeasible := atomic.LoadInt64(&stats.Infeasible)
	recv := atomic.LoadInt64(&stats.BroadcastsRecv)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Println("\n=========================================")
	fmt.Println("RESULTS")
	fmt.Println("=========================================")
	fmt.Printf("Requests sent:    %d\n", sent)
	fmt.Printf("Feasible:         %d\n", feasible)
	fmt.Printf("Infeasible:       %d\n", infeasible)
	fmt.Printf("Broadcasts recvd: %d\n", recv)
	fmt.Printf("Errors:           %d\n", errs)
	if config.TestDuration > 0 {
		fmt.Printf("Throughput:       %.1f req/s\n", float64(sent)/config.TestDuration.Seconds())
	}

	stats.mu.Lock()
	defer stats.mu.Unlock()
	if len(stats.Latencies) == 0 {
		return
	}
	sort.Slice(stats.Latencies, func(i, j int) bool { return stats.Latencies[i] < stats.Latencies[j] })
	p := func(q float64) time.Duration {
		idx := int(q * float64(len(stats.Latencies)-1))
		return stats.Latencies[idx]
	}
	fmt.Printf("Latency p50:      %v\n", p(0.50))
	fmt.Printf("Latency p95:      %v\n", p(0.95))
	fmt.Printf("Latency p99:      %v\n", p(0.99))
}
