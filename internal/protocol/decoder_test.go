package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// compress zlib 压缩，构造 protover 2 的测试帧用
func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}
	return buf.Bytes()
}

// subFrame 压缩批里的一个子帧：自带长度前缀的 16 字节头 + JSON
func subFrame(payload []byte) []byte {
	return EncodeFrame(ProtoRawJSON, OpMessage, payload)
}

func decodeAll(t *testing.T, data []byte) []Frame {
	t.Helper()
	var dec Decoder
	dec.Push(data)
	frames, err := dec.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return frames
}

func TestEncodeFrameHeader(t *testing.T) {
	payload := []byte(`{"roomid":123,"protover":2}`)
	raw := EncodeFrame(ProtoControl, OpAuthenticate, payload)

	if got := binary.BigEndian.Uint32(raw[0:4]); got != uint32(HeaderLength+len(payload)) {
		t.Errorf("total length = %d, want %d", got, HeaderLength+len(payload))
	}
	if got := binary.BigEndian.Uint16(raw[4:6]); got != HeaderLength {
		t.Errorf("header length = %d, want %d", got, HeaderLength)
	}
	if got := binary.BigEndian.Uint16(raw[6:8]); got != ProtoControl {
		t.Errorf("proto version = %d, want %d", got, ProtoControl)
	}
	if got := binary.BigEndian.Uint32(raw[8:12]); got != OpAuthenticate {
		t.Errorf("operation = %d, want %d", got, OpAuthenticate)
	}
	if got := binary.BigEndian.Uint32(raw[12:16]); got != 1 {
		t.Errorf("sequence = %d, want 1", got)
	}
	if !bytes.Equal(raw[HeaderLength:], payload) {
		t.Errorf("payload mismatch")
	}
}

// TestFrameRoundTrip 编码后解码还原出原始字段和负载
func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		protoVer uint16
		op       uint32
		payload  []byte
	}{
		{"raw json message", ProtoRawJSON, OpMessage, []byte(`{"cmd":"LIVE"}`)},
		{"heartbeat reply", ProtoControl, OpHeartbeatReply, []byte{0x00, 0x00, 0x00, 0x64}},
		{"connect success", ProtoControl, OpConnectSuccess, []byte(`{"code":0}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := decodeAll(t, EncodeFrame(tt.protoVer, tt.op, tt.payload))
			if len(frames) != 1 {
				t.Fatalf("got %d frames, want 1", len(frames))
			}
			f := frames[0]
			if f.ProtoVer != tt.protoVer {
				t.Errorf("proto version = %d, want %d", f.ProtoVer, tt.protoVer)
			}
			if f.Operation != tt.op {
				t.Errorf("operation = %d, want %d", f.Operation, tt.op)
			}
			if !bytes.Equal(f.Payload, tt.payload) {
				t.Errorf("payload = %q, want %q", f.Payload, tt.payload)
			}
		})
	}
}

// TestPartialReads 同一个帧在任意字节边界切开喂给解码器，结果必须一致
func TestPartialReads(t *testing.T) {
	payload := []byte(`{"cmd":"HOT_ROOM_NOTIFY"}`)
	raw := EncodeFrame(ProtoRawJSON, OpMessage, payload)

	for cut := 0; cut <= len(raw); cut++ {
		var dec Decoder

		dec.Push(raw[:cut])
		frames, err := dec.Decode()
		if err != nil {
			t.Fatalf("cut=%d: first half: %v", cut, err)
		}
		if cut < len(raw) && len(frames) != 0 {
			t.Fatalf("cut=%d: frame emitted before all bytes arrived", cut)
		}

		dec.Push(raw[cut:])
		rest, err := dec.Decode()
		if err != nil {
			t.Fatalf("cut=%d: second half: %v", cut, err)
		}
		frames = append(frames, rest...)
		if len(frames) != 1 {
			t.Fatalf("cut=%d: got %d frames, want 1", cut, len(frames))
		}
		if !bytes.Equal(frames[0].Payload, payload) {
			t.Fatalf("cut=%d: payload mismatch", cut)
		}
	}
}

func TestPartialReadsByteAtATime(t *testing.T) {
	payload := []byte(`{"cmd":"PREPARING"}`)
	raw := EncodeFrame(ProtoRawJSON, OpMessage, payload)

	var dec Decoder
	var frames []Frame
	for _, b := range raw {
		dec.Push([]byte{b})
		out, err := dec.Decode()
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		frames = append(frames, out...)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, payload) {
		t.Errorf("payload = %q, want %q", frames[0].Payload, payload)
	}
	if dec.Buffered() != 0 {
		t.Errorf("decoder kept %d bytes after full frame", dec.Buffered())
	}
}

// TestBatchExpansion N 个子帧的压缩批解出 N 份 JSON，顺序和内容逐字节一致
func TestBatchExpansion(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"cmd":"LIVE"}`),
		[]byte(`{"cmd":"PREPARING"}`),
		[]byte(`{"cmd":"HOT_ROOM_NOTIFY"}`),
	}
	var batch []byte
	for _, p := range payloads {
		batch = append(batch, subFrame(p)...)
	}
	raw := EncodeFrame(ProtoCompressed, OpMessage, compress(t, batch))

	frames := decodeAll(t, raw)
	if len(frames) != len(payloads) {
		t.Fatalf("got %d frames, want %d", len(frames), len(payloads))
	}
	for i, f := range frames {
		if f.Operation != OpMessage {
			t.Errorf("frame %d: operation = %d, want %d", i, f.Operation, OpMessage)
		}
		if !bytes.Equal(f.Payload, payloads[i]) {
			t.Errorf("frame %d: payload = %q, want %q", i, f.Payload, payloads[i])
		}
	}
}

func TestUnsupportedProtoVersion(t *testing.T) {
	raw := EncodeFrame(99, OpMessage, []byte(`{"cmd":"LIVE"}`))
	var dec Decoder
	dec.Push(raw)
	frames, err := dec.Decode()
	if !errors.Is(err, ErrUnsupportedProto) {
		t.Fatalf("err = %v, want ErrUnsupportedProto", err)
	}
	if len(frames) != 0 {
		t.Errorf("got %d frames alongside fatal error", len(frames))
	}
}

func TestCorruptBatchIsFatal(t *testing.T) {
	raw := EncodeFrame(ProtoCompressed, OpMessage, []byte("definitely not zlib"))
	var dec Decoder
	dec.Push(raw)
	if _, err := dec.Decode(); err == nil {
		t.Fatal("expected decompression error")
	}
}

func TestBadSubFrameLengthIsFatal(t *testing.T) {
	// 子帧声明的长度比头还短
	sub := subFrame([]byte(`{"cmd":"LIVE"}`))
	binary.BigEndian.PutUint32(sub[0:4], 4)
	raw := EncodeFrame(ProtoCompressed, OpMessage, compress(t, sub))

	var dec Decoder
	dec.Push(raw)
	if _, err := dec.Decode(); !errors.Is(err, ErrFrameLength) {
		t.Fatalf("err = %v, want ErrFrameLength", err)
	}
}

// TestUnknownOpcodeDropped 未知 operation 整帧吞掉，后面的帧不受影响
func TestUnknownOpcodeDropped(t *testing.T) {
	unknown := EncodeFrame(ProtoControl, 42, []byte("whatever"))
	follow := EncodeFrame(ProtoRawJSON, OpMessage, []byte(`{"cmd":"LIVE"}`))

	frames := decodeAll(t, append(unknown, follow...))
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].Operation != OpMessage {
		t.Errorf("operation = %d, want %d", frames[0].Operation, OpMessage)
	}
}

func TestMultipleFramesInOneBuffer(t *testing.T) {
	first := EncodeFrame(ProtoControl, OpConnectSuccess, nil)
	second := EncodeFrame(ProtoControl, OpHeartbeatReply, []byte{0, 0, 0, 100})

	frames := decodeAll(t, append(first, second...))
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Operation != OpConnectSuccess || frames[1].Operation != OpHeartbeatReply {
		t.Errorf("frame order mismatch: %d, %d", frames[0].Operation, frames[1].Operation)
	}
}

func TestAuthenticatePayload(t *testing.T) {
	raw := Authenticate(123)
	want := `{"roomid":123,"protover":2}`
	if got := string(raw[HeaderLength:]); got != want {
		t.Errorf("payload = %s, want %s", got, want)
	}
	if op := binary.BigEndian.Uint32(raw[8:12]); op != OpAuthenticate {
		t.Errorf("operation = %d, want %d", op, OpAuthenticate)
	}
}

func TestHeartbeatIsEmpty(t *testing.T) {
	raw := Heartbeat()
	if len(raw) != HeaderLength {
		t.Errorf("heartbeat frame length = %d, want %d", len(raw), HeaderLength)
	}
	if op := binary.BigEndian.Uint32(raw[8:12]); op != OpHeartbeat {
		t.Errorf("operation = %d, want %d", op, OpHeartbeat)
	}
}

func TestBadTotalLengthIsFatal(t *testing.T) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint32(raw[0:4], 8) // 小于 16 字节头
	var dec Decoder
	dec.Push(raw)
	if _, err := dec.Decode(); !errors.Is(err, ErrFrameLength) {
		t.Fatalf("err = %v, want ErrFrameLength", err)
	}
}
