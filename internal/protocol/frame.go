package protocol

import (
	"encoding/binary"
	"fmt"
)

// 弹幕网关的帧头布局（16 字节，大端）：
//
//	total length:     u32（头 + 负载）
//	header length:    u16（恒为 16）
//	protocol version: u16
//	operation:        u32
//	sequence:         u32（恒为 1，服务端不使用）
const (
	HeaderLength = 16

	sequenceID = 1
)

// operation 取值
const (
	OpHeartbeat      uint32 = 2 // 客户端 → 服务端，空负载
	OpHeartbeatReply uint32 = 3 // 服务端 → 客户端，负载为 u32 人气值
	OpMessage        uint32 = 5 // 服务端 → 客户端，JSON 或压缩批
	OpAuthenticate   uint32 = 7 // 客户端 → 服务端，进房认证
	OpConnectSuccess uint32 = 8 // 服务端 → 客户端，连接确认
)

// Message 帧的 protocol version 取值
const (
	ProtoRawJSON    uint16 = 0 // 负载是一份完整 JSON
	ProtoControl    uint16 = 1 // 控制帧，无业务负载
	ProtoCompressed uint16 = 2 // 负载是 zlib 压缩后的子帧串
)

// Frame 一个完整的协议帧。total length、header length 和 sequence
// 在编码时计算、解码时校验，不单独保存。
type Frame struct {
	ProtoVer  uint16
	Operation uint32
	Payload   []byte
}

// EncodeFrame 编码单个帧
func EncodeFrame(protoVer uint16, operation uint32, payload []byte) []byte {
	buf := make([]byte, HeaderLength+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(HeaderLength+len(payload)))
	binary.BigEndian.PutUint16(buf[4:6], HeaderLength)
	binary.BigEndian.PutUint16(buf[6:8], protoVer)
	binary.BigEndian.PutUint32(buf[8:12], operation)
	binary.BigEndian.PutUint32(buf[12:16], sequenceID)
	copy(buf[HeaderLength:], payload)
	return buf
}

// Authenticate 进房认证帧。protover 2 告知服务端按压缩批下发消息。
func Authenticate(roomID uint32) []byte {
	payload := fmt.Sprintf(`{"roomid":%d,"protover":2}`, roomID)
	return EncodeFrame(ProtoControl, OpAuthenticate, []byte(payload))
}

// Heartbeat 心跳帧，空负载
func Heartbeat() []byte {
	return EncodeFrame(ProtoControl, OpHeartbeat, nil)
}
