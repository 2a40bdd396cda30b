package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

var (
	// ErrFrameLength 帧或子帧声明的长度放不下自己的头
	ErrFrameLength = errors.New("protocol: invalid frame length")
	// ErrUnsupportedProto Message 帧带了未知的 protocol version
	ErrUnsupportedProto = errors.New("protocol: unsupported protocol version")
)

// Decoder 把网关字节流还原成帧。内部缓冲跨 Push 调用累积，
// 一个帧没收齐之前不会产出任何东西，TCP 怎么切分都不影响结果。
//
// 压缩批（protover 2 的 Message 帧）在这里展开：解压后的缓冲是
// 若干子帧的拼接，每个子帧自带 4 字节大端长度前缀，其余 12 字节
// 子帧头跳过。子帧边界必须按各自声明的长度推进，算错一个后面全错。
type Decoder struct {
	buf []byte
}

// Push 追加新收到的字节
func (d *Decoder) Push(p []byte) {
	d.buf = append(d.buf, p...)
}

// Buffered 当前缓冲的未消费字节数
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Decode 取出缓冲里所有已收齐的帧。未知 operation 的帧被整帧丢弃，
// 不产出也不报错。返回错误后流不再自同步，连接应当关闭。
func (d *Decoder) Decode() ([]Frame, error) {
	var frames []Frame
	for {
		out, advanced, err := d.next()
		if err != nil {
			return nil, err
		}
		if !advanced {
			return frames, nil
		}
		frames = append(frames, out...)
	}
}

func (d *Decoder) next() (frames []Frame, advanced bool, err error) {
	if len(d.buf) < 4 {
		return nil, false, nil
	}
	total := int(binary.BigEndian.Uint32(d.buf[0:4]))
	if total < HeaderLength {
		return nil, false, fmt.Errorf("%w: total %d < header %d", ErrFrameLength, total, HeaderLength)
	}
	if len(d.buf) < total {
		// 剩余部分还在路上，先把容量留出来
		if cap(d.buf) < total {
			grown := make([]byte, len(d.buf), total)
			copy(grown, d.buf)
			d.buf = grown
		}
		return nil, false, nil
	}

	protoVer := binary.BigEndian.Uint16(d.buf[6:8])
	operation := binary.BigEndian.Uint32(d.buf[8:12])
	payload := d.buf[HeaderLength:total]

	switch operation {
	case OpConnectSuccess, OpHeartbeatReply:
		frames = append(frames, Frame{ProtoVer: protoVer, Operation: operation, Payload: clone(payload)})
	case OpMessage:
		switch protoVer {
		case ProtoRawJSON:
			frames = append(frames, Frame{ProtoVer: protoVer, Operation: operation, Payload: clone(payload)})
		case ProtoCompressed:
			frames, err = expandBatch(payload)
			if err != nil {
				return nil, false, err
			}
		default:
			return nil, false, fmt.Errorf("%w: %d", ErrUnsupportedProto, protoVer)
		}
	default:
		// 未知 operation：消费掉整帧，静默丢弃
	}

	// 无论走了哪个分支都恰好前进 total 字节
	d.buf = append(d.buf[:0], d.buf[total:]...)
	return frames, true, nil
}

// expandBatch 解压 Message 批并按子帧长度前缀切开
func expandBatch(payload []byte) ([]Frame, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("protocol: decompress message batch: %w", err)
	}
	data, err := io.ReadAll(zr)
	_ = zr.Close()
	if err != nil {
		return nil, fmt.Errorf("protocol: decompress message batch: %w", err)
	}

	var frames []Frame
	for len(data) > 0 {
		if len(data) < HeaderLength {
			return nil, fmt.Errorf("%w: trailing %d bytes in batch", ErrFrameLength, len(data))
		}
		n := int(binary.BigEndian.Uint32(data[0:4]))
		if n < HeaderLength || n > len(data) {
			return nil, fmt.Errorf("%w: sub-frame %d of %d buffered", ErrFrameLength, n, len(data))
		}
		frames = append(frames, Frame{
			ProtoVer:  ProtoRawJSON,
			Operation: OpMessage,
			Payload:   clone(data[HeaderLength:n]),
		})
		data = data[n:]
	}
	return frames, nil
}

func clone(p []byte) []byte {
	out := make([]byte, len(p))
	copy(out, p)
	return out
}
