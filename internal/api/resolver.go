// Package api 封装 B 站的房间号查询接口。
// 直播间对外展示的短号和弹幕网关认的真实房间号不是一回事，
// 连接前要先换算一次。
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultBaseURL 线上 API 地址
const DefaultBaseURL = "http://api.live.bilibili.com"

// Resolver 把对外房间号换算成真实房间号
type Resolver interface {
	Resolve(ctx context.Context, roomID uint32) (uint32, error)
}

// HTTPResolver 走 room_init 接口的 Resolver 实现。
// 零值可用：BaseURL 为空用线上地址，Client 为空用 http.DefaultClient。
type HTTPResolver struct {
	BaseURL string
	Client  *http.Client
}

type roomInitResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		RoomID uint32 `json:"room_id"`
	} `json:"data"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, roomID uint32) (uint32, error) {
	base := r.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := fmt.Sprintf("%s/room/v1/Room/room_init?id=%d", base, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build room_init request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("room_init request: %w", err)
	}
	defer resp.Body.Close()

	var out roomInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode room_init response: %w", err)
	}
	if out.Code != 0 {
		return 0, fmt.Errorf("bilibili api error: %s", out.Msg)
	}
	return out.Data.RoomID, nil
}

// ResolverFunc 函数适配器，测试时替换真实接口用
type ResolverFunc func(ctx context.Context, roomID uint32) (uint32, error)

func (f ResolverFunc) Resolve(ctx context.Context, roomID uint32) (uint32, error) {
	return f(ctx, roomID)
}
