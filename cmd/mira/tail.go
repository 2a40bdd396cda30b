package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Rsplwe/Mira/internal/bus/redisstream"
	"github.com/Rsplwe/Mira/internal/config"
)

func newTailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "消费 Redis Stream 里转发的直播间事件",
		Args:  cobra.NoArgs,
		RunE:  runTail,
	}
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.RedisAddr == "" {
		return fmt.Errorf("MIRA_REDIS_ADDR not set")
	}
	bus := redisstream.New(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisGroup)
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bus.EnsureGroup(ctx); err != nil {
		return err
	}
	consumer := "mira-tail-" + uuid.New().String()
	err := bus.Consume(ctx, consumer, func(ctx context.Context, e *redisstream.Event) error {
		switch {
		case e.Kind == "popularity":
			fmt.Printf("[%d][人气值] %d\n", e.Room, e.Popularity)
		case e.Text != "" && e.Price > 0:
			fmt.Printf("[%d][SC] %s: %s (%d元)\n", e.Room, e.Uname, e.Text, e.Price)
		case e.GiftName != "":
			fmt.Printf("[%d] %s: %s * %d\n", e.Room, e.Uname, e.GiftName, e.Num)
		case e.Text != "":
			fmt.Printf("[%d] %s: %s\n", e.Room, e.Uname, e.Text)
		default:
			fmt.Printf("[%d] %s %s\n", e.Room, e.Kind, e.Raw)
		}
		return nil
	})
	if err == context.Canceled {
		return nil
	}
	return err
}
