package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rsplwe/Mira/internal/api"
	"github.com/Rsplwe/Mira/internal/bus/redisstream"
	"github.com/Rsplwe/Mira/internal/chat"
	"github.com/Rsplwe/Mira/internal/config"
	"github.com/Rsplwe/Mira/internal/message"
	"github.com/Rsplwe/Mira/internal/observe"
	"github.com/Rsplwe/Mira/pkg/logger"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <room>",
		Short: "连接直播间并打印弹幕",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid room id %q", args[0])
	}
	cfg := config.Load()
	log := logger.L().Sugar()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := observe.StartHTTP(cfg.MetricsAddr); err != nil {
				log.Errorw("metrics endpoint exit", "err", err)
			}
		}()
	}

	var bus *redisstream.Bus
	if cfg.RedisAddr != "" {
		bus = redisstream.New(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisGroup)
		defer bus.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	room := uint32(id)
	if bus != nil {
		if err := bus.EnsureGroup(ctx); err != nil {
			log.Warnw("redis group", "err", err)
		}
	}

	err = chat.ConnectWith(ctx, room, func(pk chat.Packet) {
		render(pk)
		if bus != nil {
			if e := busEvent(room, pk); e != nil {
				if err := bus.Publish(ctx, e); err != nil {
					log.Warnw("relay publish", "err", err)
				}
			}
		}
	}, chat.Options{
		Resolver:     &api.HTTPResolver{BaseURL: cfg.APIBase},
		GatewayAddr:  cfg.GatewayAddr,
		GatewayWSURL: cfg.GatewayWSURL,
		UseWebSocket: cfg.UseWebSocket,
		Heartbeat:    cfg.Heartbeat,
	})
	if errors.Is(err, context.Canceled) {
		// Ctrl-C 属于正常退出
		return nil
	}
	return err
}

// busEvent 挑有转发价值的事件进 Redis Stream，控制类的包不转发
func busEvent(room uint32, pk chat.Packet) *redisstream.Event {
	e := &redisstream.Event{Room: room, When: time.Now()}
	switch p := pk.(type) {
	case chat.Popularity:
		e.Kind = "popularity"
		e.Popularity = p.Count
	case chat.MessagePacket:
		e.Kind = p.Msg.Cmd()
		switch m := p.Msg.(type) {
		case message.Danmaku:
			e.Uname = m.Uname
			e.Text = m.Text
		case message.SendGift:
			e.Uname = m.Uname
			e.GiftName = m.GiftName
			e.Num = m.Num
		case message.ComboEnd:
			e.Uname = m.Uname
			e.GiftName = m.GiftName
			e.Num = m.Num
		case message.SuperChat:
			e.Uname = m.SenderName
			e.Text = m.Message
			e.Price = m.Price
		case message.SuperChatJapanese:
			e.Uname = m.SenderName
			e.Text = m.Message
			e.Price = m.Price
		case message.Raw:
			e.Raw = string(m.JSON)
		case message.ParsingError:
			e.Raw = m.Text
		default:
			return nil
		}
	default:
		return nil
	}
	return e
}
