// Example: events — one-shot historical fetch of contract events.
//
// Run `glin-forge dev` first so the bridge port is published, then:
//
//	go run ./example/events <contract-address>
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/glin-ai/forgewatch"
	"github.com/glin-ai/forgewatch/watcher"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: events <contract-address>")
	}
	address := os.Args[1]

	// Pick up GLIN_FORGE_RPC_PORT from a local .env if one exists.
	_ = godotenv.Load()

	c, err := forgewatch.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	head, err := c.BlockNumber(ctx, "testnet")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("testnet head: #%d\n", head)

	batch, err := c.Events(ctx, watcher.Options{
		Address: address,
		Network: "testnet",
		Limit:   10,
	})
	if err != nil {
		log.Fatal(err)
	}

	if batch.IsEmpty() {
		fmt.Println("no recent contract events")
		return
	}
	for _, ev := range batch.Events {
		fmt.Printf("block #%d  %s  %s\n", ev.BlockNumber, ev.EventName, ev.DataString())
	}
}
