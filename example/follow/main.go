// Example: follow — live-tail contract events until interrupted.
//
//	go run ./example/follow <contract-address>
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/glin-ai/forgewatch"
	"github.com/glin-ai/forgewatch/event"
	mw "github.com/glin-ai/forgewatch/middleware"
	"github.com/glin-ai/forgewatch/watcher"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: follow <contract-address>")
	}
	address := os.Args[1]

	_ = godotenv.Load()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	}))

	c, err := forgewatch.FromEnv(
		forgewatch.WithLogger(logger),
		forgewatch.WithMiddleware(mw.NewLogger(logger)),
	)
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

	w.On("Transfer", func(ev event.ContractEvent) {
		fmt.Printf("transfer at block #%d: %s\n", ev.BlockNumber, ev.DataString())
	})
	w.OnAll(func(ev event.ContractEvent) {
		fmt.Printf("event %s at block #%d\n", ev.EventName, ev.BlockNumber)
	})

	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	fmt.Println("watching for events, press Ctrl+C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	w.Stop()
	if err := <-done; err != nil {
		log.Fatal(err)
	}
}
