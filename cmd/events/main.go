// Command events tails the notification channels and prints every event
// as it arrives. Useful for watching engagement activity during
// development and for feeding the dashboard consumer.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alcove/internal/cache"
	"alcove/internal/config"
	"alcove/internal/notifications"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		return fmt.Errorf("redis unreachable at %s", cfg.RedisURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n := notifications.NewNotifier(rdb)
	if err := n.StartPatternSubscriber(ctx, func(channel, payload string) {
		fmt.Printf("%s  %s\n", channel, payload)
	}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	log.Println("listening for events, ctrl-c to stop")
	<-ctx.Done()
	return nil
}
