package config

import (
	"os"
	"strconv"
	"time"
)

// Config 运行时配置，全部来自环境变量，未设置时使用 B 站线上默认值
type Config struct {
	// 弹幕网关
	GatewayAddr  string        // TCP 地址
	GatewayWSURL string        // WebSocket 地址
	UseWebSocket bool          // 使用 WebSocket 而不是 TCP
	Heartbeat    time.Duration // 心跳间隔

	// 房间号解析 API
	APIBase string

	// 可观测性
	MetricsAddr string // 为空则不开启 /metrics

	// Redis Stream 转发（可选）
	RedisAddr   string // 为空则不转发
	RedisDB     int
	RedisStream string
	RedisGroup  string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func Load() *Config {
	hb := getEnvInt("MIRA_HEARTBEAT_SECONDS", 30)
	if hb <= 0 {
		hb = 30
	}
	return &Config{
		GatewayAddr:  getEnv("MIRA_GATEWAY_ADDR", "broadcastlv.chat.bilibili.com:2243"),
		GatewayWSURL: getEnv("MIRA_GATEWAY_WS_URL", "wss://broadcastlv.chat.bilibili.com/sub"),
		UseWebSocket: getEnv("MIRA_TRANSPORT", "tcp") == "ws",
		Heartbeat:    time.Duration(hb) * time.Second,
		APIBase:      getEnv("MIRA_API_BASE", "http://api.live.bilibili.com"),
		MetricsAddr:  getEnv("MIRA_METRICS_ADDR", ""),
		RedisAddr:    getEnv("MIRA_REDIS_ADDR", ""),
		RedisDB:      getEnvInt("MIRA_REDIS_DB", 0),
		RedisStream:  getEnv("MIRA_REDIS_STREAM", "mira:events"),
		RedisGroup:   getEnv("MIRA_REDIS_GROUP", "mira"),
	}
}
