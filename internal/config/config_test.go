package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.GatewayAddr != "broadcastlv.chat.bilibili.com:2243" {
		t.Errorf("GatewayAddr = %s", cfg.GatewayAddr)
	}
	if cfg.UseWebSocket {
		t.Error("UseWebSocket should default to false")
	}
	if cfg.Heartbeat != 30*time.Second {
		t.Errorf("Heartbeat = %v, want 30s", cfg.Heartbeat)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %s, want empty", cfg.RedisAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MIRA_GATEWAY_ADDR", "127.0.0.1:2243")
	t.Setenv("MIRA_TRANSPORT", "ws")
	t.Setenv("MIRA_HEARTBEAT_SECONDS", "5")
	t.Setenv("MIRA_REDIS_ADDR", "127.0.0.1:6379")

	cfg := Load()
	if cfg.GatewayAddr != "127.0.0.1:2243" {
		t.Errorf("GatewayAddr = %s", cfg.GatewayAddr)
	}
	if !cfg.UseWebSocket {
		t.Error("MIRA_TRANSPORT=ws should enable WebSocket")
	}
	if cfg.Heartbeat != 5*time.Second {
		t.Errorf("Heartbeat = %v, want 5s", cfg.Heartbeat)
	}
	if cfg.RedisAddr != "127.0.0.1:6379" {
		t.Errorf("RedisAddr = %s", cfg.RedisAddr)
	}
}

func TestLoadRejectsBadHeartbeat(t *testing.T) {
	t.Setenv("MIRA_HEARTBEAT_SECONDS", "-3")
	if cfg := Load(); cfg.Heartbeat != 30*time.Second {
		t.Errorf("Heartbeat = %v, want fallback 30s", cfg.Heartbeat)
	}
}
