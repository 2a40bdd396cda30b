package main

import (
	"fmt"

	"github.com/Rsplwe/Mira/internal/chat"
	"github.com/Rsplwe/Mira/internal/message"
)

// render 把一个包打印成一行。Raw 原样输出方便观察新消息类型，
// ParsingError 交给 session 的日志，这里不重复刷屏。
func render(pk chat.Packet) {
	switch p := pk.(type) {
	case chat.ConnectSuccess:
		fmt.Println("成功连接到 Bilibili 弹幕服务器")
	case chat.Popularity:
		fmt.Printf("[人气值] %d\n", p.Count)
	case chat.MessagePacket:
		renderMessage(p.Msg)
	}
}

func renderMessage(msg message.Message) {
	switch m := msg.(type) {
	case message.Live:
		fmt.Println("[开播]")
	case message.Preparing:
		fmt.Println("[下播]")
	case message.RoomChange:
		fmt.Printf("[直播间信息更改] [%s·%s] %s\n", m.ParentAreaName, m.AreaName, m.Title)
	case message.Danmaku:
		fmt.Printf("%s: %s\n", m.Uname, m.Text)
	case message.SendGift:
		fmt.Printf("%s: %s %s * %d\n", m.Uname, m.Action, m.GiftName, m.Num)
	case message.ComboEnd:
		fmt.Printf("%s: %s %s * %d\n", m.Uname, m.Action, m.GiftName, m.Num)
	case message.Welcome:
		what := "月费老爷"
		if m.IsAdmin {
			what = "房管"
		} else if m.IsSVIP {
			what = "年费老爷"
		}
		fmt.Printf("%s %s 进入直播间\n", m.Uname, what)
	case message.WelcomeGuard:
		fmt.Printf("欢迎 %s %s 进入直播间\n", m.GuardLevel, m.Uname)
	case message.EntryEffect:
		fmt.Printf("[进场] %s\n", m.CopyWriting)
	case message.RoomRealTimeMessageUpdate:
		fmt.Printf("[粉丝数] %d\n", m.Fans)
	case message.RoomRank:
		fmt.Printf("[房间排行榜/%s][%d] %s\n", m.Color, m.Timestamp, m.RankDesc)
	case message.NoticeMessage:
		fmt.Printf("[通知消息] %s\n", m.MsgCommon)
	case message.SuperChat:
		fmt.Printf("[SC] %s 置顶了消息 %s (%d元)\n", m.SenderName, m.Message, m.Price)
	case message.SuperChatJapanese:
		fmt.Printf("[SC] %s がメッセージをピン留めしました： %s (%dRMB)\n", m.SenderName, m.MessageJPN, m.Price)
	case message.HotRoomNotify:
		fmt.Println("[热门直播间]")
	case message.Raw:
		fmt.Println(string(m.JSON))
	case message.ParsingError:
		// session 已经记过 warn 日志
	}
}
