// Package chat 维护一条到弹幕网关的会话：换算房间号、建连、认证，
// 然后并发跑入站解码循环和出站心跳循环，直到对端关闭或任一侧出错。
package chat

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rsplwe/Mira/internal/api"
	"github.com/Rsplwe/Mira/internal/message"
	"github.com/Rsplwe/Mira/internal/observe"
	"github.com/Rsplwe/Mira/internal/protocol"
	"github.com/Rsplwe/Mira/pkg/logger"
)

// DefaultHeartbeat 网关要求的心跳间隔
const DefaultHeartbeat = 30 * time.Second

type Options struct {
	// Resolver 房间号换算，为空用线上 API
	Resolver api.Resolver
	// GatewayAddr TCP 网关地址，为空用线上地址
	GatewayAddr string
	// GatewayWSURL WebSocket 网关地址，为空用线上地址
	GatewayWSURL string
	// UseWebSocket 走 WebSocket 而不是 TCP
	UseWebSocket bool
	// Heartbeat 心跳间隔，<=0 用 DefaultHeartbeat
	Heartbeat time.Duration
}

// Connect 用默认配置连接直播间。roomID 是对外展示的房间号（可以是短号），
// onPacket 每解码出一个包被调用一次，会话结束（对端关闭、出错或 ctx 取消）
// 后返回。不做自动重连，重连策略归调用方。
func Connect(ctx context.Context, roomID uint32, onPacket Handler) error {
	return ConnectWith(ctx, roomID, onPacket, Options{})
}

// ConnectWith 同 Connect，带配置
func ConnectWith(ctx context.Context, roomID uint32, onPacket Handler, opt Options) error {
	resolver := opt.Resolver
	if resolver == nil {
		resolver = &api.HTTPResolver{}
	}
	realID, err := resolver.Resolve(ctx, roomID)
	if err != nil {
		return fmt.Errorf("resolve room %d: %w", roomID, err)
	}

	conn, err := dial(ctx, opt)
	if err != nil {
		return err
	}

	hb := opt.Heartbeat
	if hb <= 0 {
		hb = DefaultHeartbeat
	}
	s := &session{
		conn:      conn,
		onPacket:  onPacket,
		heartbeat: hb,
		log: logger.L().With(
			zap.String("session", uuid.New().String()),
			zap.Uint32("room", realID),
		),
	}
	return s.run(ctx, realID)
}

type session struct {
	conn      io.ReadWriteCloser
	onPacket  Handler
	heartbeat time.Duration
	log       *zap.Logger
}

// run 发认证帧后并发跑两个循环。socket 在类型层面被拆成两半：
// 读循环只读、心跳循环只写，互不碰对方的数据，不需要锁。
// 会话作为整体取消：ctx 结束即关连接，两个循环一起停。
func (s *session) run(parent context.Context, roomID uint32) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	// ctx 结束一定关连接。不保留取消句柄：defer cancel 保证每条
	// 返回路径上 ctx 都会结束，连接在哪条路径上都不会泄漏。
	context.AfterFunc(ctx, func() { _ = s.conn.Close() })

	// 不等 ConnectSuccess，读循环会异步收到它
	if _, err := s.conn.Write(protocol.Authenticate(roomID)); err != nil {
		return fmt.Errorf("send authenticate: %w", err)
	}
	s.log.Info("authenticated")

	// 任何一个循环退出（对端关闭、出错）都取消另一个：
	// 取消关掉连接，把对面从阻塞的 Read/Write 里踢出来
	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		return s.readLoop(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return s.heartbeatLoop(ctx)
	})
	err := g.Wait()

	if parent.Err() != nil {
		return parent.Err()
	}
	return err
}

// readLoop 解码入站帧并按到达顺序投递。回调处理完一个包才解下一个，
// socket 不会读超前于回调。
func (s *session) readLoop(ctx context.Context) error {
	var dec protocol.Decoder
	buf := make([]byte, 32*1024)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			observe.AddBytesRead(n)
			dec.Push(buf[:n])
			frames, derr := dec.Decode()
			if derr != nil {
				return fmt.Errorf("decode: %w", derr)
			}
			for _, f := range frames {
				pk, perr := toPacket(f)
				if perr != nil {
					return perr
				}
				if pk != nil {
					s.dispatch(pk)
				}
			}
		}
		if err == io.EOF {
			s.log.Info("gateway closed the stream")
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read gateway: %w", err)
		}
	}
}

// heartbeatLoop 固定节奏发心跳，与入站进度无关
func (s *session) heartbeatLoop(ctx context.Context) error {
	hb := protocol.Heartbeat()
	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()
	for {
		if _, err := s.conn.Write(hb); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("send heartbeat: %w", err)
		}
		observe.IncHeartbeat()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// toPacket 把帧转成用户可见的包。返回 (nil, nil) 表示该帧不产出包。
func toPacket(f protocol.Frame) (Packet, error) {
	switch f.Operation {
	case protocol.OpConnectSuccess:
		return ConnectSuccess{}, nil
	case protocol.OpHeartbeatReply:
		if len(f.Payload) < 4 {
			return nil, fmt.Errorf("%w: heartbeat reply payload %d bytes", protocol.ErrFrameLength, len(f.Payload))
		}
		return Popularity{Count: binary.BigEndian.Uint32(f.Payload[:4])}, nil
	case protocol.OpMessage:
		return MessagePacket{Msg: message.Parse(f.Payload)}, nil
	default:
		return nil, nil
	}
}

func (s *session) dispatch(pk Packet) {
	switch p := pk.(type) {
	case ConnectSuccess:
		observe.IncPacket("connect_success")
	case Popularity:
		observe.IncPacket("popularity")
		observe.SetPopularity(p.Count)
	case MessagePacket:
		observe.IncPacket("message")
		observe.IncMessage(p.Msg.Cmd())
		if pe, ok := p.Msg.(message.ParsingError); ok {
			observe.IncParseError()
			s.log.Warn("message parse failed, upstream API may have changed",
				zap.String("raw", pe.Text))
		}
	}
	s.onPacket(pk)
}
