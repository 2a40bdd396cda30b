package chat

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/gorilla/websocket"
)

// 弹幕网关的两个入口，走同一套帧协议
const (
	DefaultGatewayAddr  = "broadcastlv.chat.bilibili.com:2243"
	DefaultGatewayWSURL = "wss://broadcastlv.chat.bilibili.com/sub"
)

func dial(ctx context.Context, opt Options) (io.ReadWriteCloser, error) {
	if opt.UseWebSocket {
		url := opt.GatewayWSURL
		if url == "" {
			url = DefaultGatewayWSURL
		}
		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, fmt.Errorf("dial gateway %s: %w", url, err)
		}
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return &wsConn{conn: conn}, nil
	}

	addr := opt.GatewayAddr
	if addr == "" {
		addr = DefaultGatewayAddr
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial gateway %s: %w", addr, err)
	}
	return conn, nil
}

// wsConn 把 WebSocket 适配成字节流。网关在 WS 上每条二进制消息
// 装一个或多个帧，拼起来喂给同一个 Decoder 即可。
// gorilla 允许一读一写并发，正好对应会话的两个循环。
type wsConn struct {
	conn *websocket.Conn
	r    io.Reader // 当前消息的剩余部分
}

func (w *wsConn) Read(p []byte) (int, error) {
	for {
		if w.r == nil {
			_, r, err := w.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			w.r = r
		}
		n, err := w.r.Read(p)
		if err == io.EOF {
			w.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (w *wsConn) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error { return w.conn.Close() }
