package message

import (
	"math"

	"github.com/tidwall/gjson"
)

// Parse 把一条消息 JSON 解析成 Message。这个函数是全函数：
// 未知 cmd 返回 Raw，已知 cmd 缺字段或字段类型不对返回 ParsingError，
// 畸形输入是数据不是编程错误，任何输入都不会 panic。
//
// cmd 缺失或不是字符串的消息对象同样算解析失败：上游每条消息都带
// cmd，缺了就是 API 变更的信号，不能悄悄混进 Raw。只有整个输入
// 都不是 JSON 对象时才落到 Raw。
func Parse(data []byte) Message {
	root := gjson.ParseBytes(data)
	cmd := root.Get("cmd")
	if cmd.Type != gjson.String {
		if root.IsObject() {
			return ParsingError{Text: string(data)}
		}
		return Raw{JSON: data}
	}
	msg, ok := parseCmd(root, cmd.Str)
	if !ok {
		return ParsingError{Text: string(data)}
	}
	return msg
}

// parseCmd 按 cmd 分发。ok=false 表示已知 cmd 但必要字段缺失。
// 每个字段的提取都是可失败的单步投影，任何一步失败就放弃整条消息，
// 绝不产出填了默认值的半成品。
func parseCmd(root gjson.Result, cmd string) (Message, bool) {
	switch cmd {
	case "PREPARING":
		return Preparing{}, true

	case "LIVE":
		return Live{}, true

	case "ROOM_CHANGE":
		title, ok1 := str(root.Get("data.title"))
		area, ok2 := str(root.Get("data.area_name"))
		parent, ok3 := str(root.Get("data.parent_area_name"))
		if !(ok1 && ok2 && ok3) {
			return nil, false
		}
		return RoomChange{Title: title, AreaName: area, ParentAreaName: parent}, true

	case "DANMU_MSG":
		mode, ok1 := u32(root.Get("info.0.1"))
		size, ok2 := u32(root.Get("info.0.2"))
		color, ok3 := u32(root.Get("info.0.3"))
		dmid, ok4 := i32(root.Get("info.0.5"))
		text, ok5 := str(root.Get("info.1"))
		typ, ok6 := u32(root.Get("info.0.9"))
		uid, ok7 := u32(root.Get("info.2.0"))
		uname, ok8 := str(root.Get("info.2.1"))
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 && ok8) {
			return nil, false
		}
		return Danmaku{
			Mode: mode, Size: size, Color: color, DMID: dmid,
			Text: text, Type: typ, UID: uid, Uname: uname,
		}, true

	case "SEND_GIFT":
		action, ok1 := str(root.Get("data.action"))
		gift, ok2 := str(root.Get("data.giftName"))
		num, ok3 := u32(root.Get("data.num"))
		uid, ok4 := u32(root.Get("data.uid"))
		uname, ok5 := str(root.Get("data.uname"))
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			return nil, false
		}
		return SendGift{Action: action, GiftName: gift, Num: num, UID: uid, Uname: uname}, true

	case "COMBO_END":
		action, ok1 := str(root.Get("data.action"))
		gift, ok2 := str(root.Get("data.gift_name"))
		num, ok3 := u32(root.Get("data.combo_num"))
		uid, ok4 := u32(root.Get("data.uid"))
		uname, ok5 := str(root.Get("data.uname"))
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			return nil, false
		}
		return ComboEnd{Action: action, GiftName: gift, Num: num, UID: uid, Uname: uname}, true

	case "WELCOME":
		isAdmin, ok1 := boolean(root.Get("data.is_admin"))
		uid, ok2 := u32(root.Get("data.uid"))
		uname, ok3 := str(root.Get("data.uname"))
		if !(ok1 && ok2 && ok3) {
			return nil, false
		}
		// svip 只下发 0/1，缺失按 0 处理
		return Welcome{
			IsAdmin: isAdmin,
			IsSVIP:  root.Get("data.svip").Int() != 0,
			UID:     uid,
			Uname:   uname,
		}, true

	case "WELCOME_GUARD":
		level, ok1 := u32(root.Get("data.guard_level"))
		uid, ok2 := u32(root.Get("data.uid"))
		uname, ok3 := str(root.Get("data.username"))
		if !(ok1 && ok2 && ok3) {
			return nil, false
		}
		guard, ok := GuardLevelFrom(int64(level))
		if !ok {
			return nil, false
		}
		return WelcomeGuard{GuardLevel: guard, UID: uid, Uname: uname}, true

	case "ROOM_REAL_TIME_MESSAGE_UPDATE":
		fans, ok := u32(root.Get("data.fans"))
		if !ok {
			return nil, false
		}
		return RoomRealTimeMessageUpdate{Fans: fans}, true

	case "ROOM_RANK":
		desc, ok1 := str(root.Get("data.rank_desc"))
		color, ok2 := str(root.Get("data.color"))
		ts, ok3 := u32(root.Get("data.timestamp"))
		if !(ok1 && ok2 && ok3) {
			return nil, false
		}
		return RoomRank{RankDesc: desc, Color: color, Timestamp: ts}, true

	case "ENTRY_EFFECT":
		id, ok1 := u32(root.Get("data.id"))
		uid, ok2 := u32(root.Get("data.uid"))
		target, ok3 := u32(root.Get("data.target_id"))
		face, ok4 := str(root.Get("data.face"))
		copyWriting, ok5 := str(root.Get("data.copy_writing"))
		copyColor, ok6 := str(root.Get("data.copy_color"))
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return nil, false
		}
		return EntryEffect{
			ID: id, UID: uid, TargetID: target,
			Face: face, CopyWriting: copyWriting, CopyColor: copyColor,
		}, true

	case "NOTICE_MSG":
		// 这条消息的字段在顶层，不在 data 里
		roomID, ok1 := u32(root.Get("roomid"))
		realRoomID, ok2 := u32(root.Get("real_roomid"))
		common, ok3 := str(root.Get("msg_common"))
		self, ok4 := str(root.Get("msg_self"))
		if !(ok1 && ok2 && ok3 && ok4) {
			return nil, false
		}
		return NoticeMessage{RoomID: roomID, RealRoomID: realRoomID, MsgCommon: common, MsgSelf: self}, true

	case "SUPER_CHAT_MESSAGE":
		id, ok1 := str(root.Get("data.id"))
		uid, ok2 := u32(root.Get("data.uid"))
		price, ok3 := u32(root.Get("data.price"))
		msg, ok4 := str(root.Get("data.message"))
		name, ok5 := str(root.Get("data.user_info.uname"))
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			return nil, false
		}
		return SuperChat{ID: id, SenderUID: uid, Price: price, Message: msg, SenderName: name}, true

	case "SUPER_CHAT_MESSAGE_JPN":
		id, ok1 := str(root.Get("data.id"))
		uid, ok2 := str(root.Get("data.uid"))
		price, ok3 := u32(root.Get("data.price"))
		msg, ok4 := str(root.Get("data.message"))
		jpn, ok5 := str(root.Get("data.message_jpn"))
		name, ok6 := str(root.Get("data.user_info.uname"))
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
			return nil, false
		}
		return SuperChatJapanese{
			ID: id, SenderUID: uid, Price: price,
			Message: msg, MessageJPN: jpn, SenderName: name,
		}, true

	case "HOT_ROOM_NOTIFY":
		return HotRoomNotify{}, true

	default:
		return Raw{JSON: []byte(root.Raw)}, true
	}
}

// str 要求字段存在且是字符串，gjson 的隐式类型转换在这里不算数
func str(v gjson.Result) (string, bool) {
	if v.Type != gjson.String {
		return "", false
	}
	return v.Str, true
}

func u32(v gjson.Result) (uint32, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	n := v.Int()
	if n < 0 || n > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

func i32(v gjson.Result) (int32, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	n := v.Int()
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}

func boolean(v gjson.Result) (bool, bool) {
	switch v.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	default:
		return false, false
	}
}
