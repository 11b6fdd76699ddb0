// Example: metrics — expose prometheus counters for a running watch.
//
//	go run ./example/metrics <contract-address>
//
// Counters are served on http://localhost:9090/metrics while the watch runs.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glin-ai/forgewatch"
	"github.com/glin-ai/forgewatch/event"
	mw "github.com/glin-ai/forgewatch/middleware"
	"github.com/glin-ai/forgewatch/watcher"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: metrics <contract-address>")
	}
	address := os.Args[1]

	_ = godotenv.Load()

	registry := prometheus.NewRegistry()
	metrics := mw.NewMetrics(registry)

	c, err := forgewatch.FromEnv(forgewatch.WithMiddleware(metrics))
	if err != nil {
		log.Fatal(err)
	}

	w, err := c.Watcher(watcher.Options{
		Address: address,
		Network: "testnet",
		Follow:  true,
	})
	if err != nil {
		log.Fatal(err)
	}
	w.OnAll(func(event.ContractEvent) {})

	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		log.Fatal(http.ListenAndServe(":9090", nil))
	}()

	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	w.Stop()
	if err := <-done; err != nil {
		log.Fatal(err)
	}
}
