package chat

import (
	"github.com/Rsplwe/Mira/internal/message"
)

// Packet 投递给调用方的解码结果。一个入站帧产出 0..N 个包：
// 控制帧产出 0 或 1 个，压缩批可能展开成很多个 Message。
type Packet interface {
	packet()
}

// ConnectSuccess 服务端确认连接
type ConnectSuccess struct{}

// Popularity 心跳回包携带的人气值
type Popularity struct {
	Count uint32
}

// MessagePacket 一条解析后的业务消息
type MessagePacket struct {
	Msg message.Message
}

func (ConnectSuccess) packet() {}
func (Popularity) packet()     {}
func (MessagePacket) packet()  {}

// Handler 每解码出一个包回调一次，按帧到达顺序串行调用。
// 回调没返回之前不会继续读 socket，处理慢会自然形成背压。
type Handler func(pk Packet)
