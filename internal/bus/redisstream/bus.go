package redisstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rsplwe/Mira/pkg/logger"
)

// Bus 把解码后的直播间事件转发到 Redis Stream，
// 下游（统计、录制、告警）用 consumer group 各自消费。
type Bus struct {
	cli    *redis.Client
	stream string
	group  string
}

// Event 写入 stream 的事件。Kind 是包类型或消息 cmd，
// 其余字段按事件类型选填。
type Event struct {
	Room       uint32    `json:"room"`
	Kind       string    `json:"kind"`
	When       time.Time `json:"when"`
	Uname      string    `json:"uname,omitempty"`
	Text       string    `json:"text,omitempty"`
	GiftName   string    `json:"gift_name,omitempty"`
	Num        uint32    `json:"num,omitempty"`
	Price      uint32    `json:"price,omitempty"`
	Popularity uint32    `json:"popularity,omitempty"`
	Raw        string    `json:"raw,omitempty"`
}

func New(addr string, db int, stream, group string) *Bus {
	cli := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	return &Bus{cli: cli, stream: stream, group: group}
}

func (b *Bus) EnsureGroup(ctx context.Context) error {
	// Create stream and group if not exist
	_ = b.cli.XGroupCreateMkStream(ctx, b.stream, b.group, "$").Err()
	return nil
}

func (b *Bus) Publish(ctx context.Context, e *Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal relay event: %w", err)
	}
	return b.cli.XAdd(ctx, &redis.XAddArgs{Stream: b.stream, Values: map[string]any{"data": payload}}).Err()
}

type Handler func(ctx context.Context, e *Event) error

// Consume blocks and delivers events to handler; cancel ctx to stop
func (b *Bus) Consume(ctx context.Context, consumer string, handler Handler) error {
	for {
		res, err := b.cli.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: consumer,
			Streams:  []string{b.stream, ">"},
			Count:    100,
			Block:    5 * time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// transient errors: continue
			continue
		}
		for _, str := range res {
			for _, xmsg := range str.Messages {
				raw, _ := xmsg.Values["data"].(string)
				var e Event
				if err := json.Unmarshal([]byte(raw), &e); err != nil {
					logger.L().Sugar().Warnw("relay_event_unmarshal", "id", xmsg.ID, "err", err)
				} else if err := handler(ctx, &e); err != nil {
					logger.L().Sugar().Warnw("relay_handler", "id", xmsg.ID, "err", err)
				}
				// Acknowledge
				_ = b.cli.XAck(ctx, b.stream, b.group, xmsg.ID).Err()
			}
		}
	}
}

func (b *Bus) Close() error { return b.cli.Close() }
