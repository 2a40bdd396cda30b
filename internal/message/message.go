package message

// Message 服务端下发的一条业务消息。已知的 cmd 一一对应一个具体类型，
// 未知的 cmd 落到 Raw，已知 cmd 缺字段落到 ParsingError。
type Message interface {
	// Cmd 上游的 cmd 标签（Raw/ParsingError 返回约定的占位值）
	Cmd() string
}

// Preparing 结束直播
type Preparing struct{}

// Live 开始直播
type Live struct{}

// RoomChange 直播间信息变更
type RoomChange struct {
	Title          string
	AreaName       string
	ParentAreaName string
}

// Danmaku 弹幕。上游把弹幕编码成异构数组，字段取自固定下标
// （info[0][1] mode、[0][2] size、[0][3] color、[0][5] dmid、
// info[1] 文本、[0][9] type、info[2][0] uid、[2][1] 昵称），
// 这些下标是上游的线上格式，属于外部契约。
type Danmaku struct {
	Mode  uint32
	Size  uint32
	Color uint32
	DMID  int32
	Text  string
	Type  uint32
	UID   uint32
	Uname string
}

// SendGift 礼物
type SendGift struct {
	Action   string
	GiftName string
	Num      uint32
	UID      uint32
	Uname    string
}

// ComboEnd 礼物连击结束
type ComboEnd struct {
	Action   string
	GiftName string
	Num      uint32
	UID      uint32
	Uname    string
}

// Welcome 房管/老爷的欢迎消息
type Welcome struct {
	IsAdmin bool // 房管
	IsSVIP  bool // 年费老爷
	UID     uint32
	Uname   string
}

// WelcomeGuard 舰队成员的欢迎消息
type WelcomeGuard struct {
	GuardLevel GuardLevel
	UID        uint32
	Uname      string
}

// RoomRealTimeMessageUpdate 粉丝数更新
type RoomRealTimeMessageUpdate struct {
	Fans uint32
}

// RoomRank 房间排行榜
type RoomRank struct {
	RankDesc  string
	Color     string
	Timestamp uint32
}

// EntryEffect 进入直播间效果（舰长、提督、总督）
type EntryEffect struct {
	ID          uint32
	UID         uint32
	TargetID    uint32
	Face        string
	CopyWriting string
	CopyColor   string
}

// NoticeMessage 通知消息
type NoticeMessage struct {
	RoomID     uint32
	RealRoomID uint32
	MsgCommon  string
	MsgSelf    string
}

// SuperChat 付费置顶消息
type SuperChat struct {
	ID         string
	SenderUID  uint32
	Price      uint32 // 打赏金额（元）
	Message    string
	SenderName string
}

// SuperChatJapanese 带日文翻译的置顶消息，货币单位不转换。
// 上游在这个变体里把 uid 下发成字符串。
type SuperChatJapanese struct {
	ID         string
	SenderUID  string
	Price      uint32
	Message    string
	MessageJPN string
	SenderName string
}

// HotRoomNotify 热门直播间通知，无负载
type HotRoomNotify struct{}

// Raw 未实现解析的消息，原样保留 JSON 供上层观察
type Raw struct {
	JSON []byte
}

// ParsingError 已知 cmd 缺少必要字段，可能意味着上游 API 变更
type ParsingError struct {
	Text string
}

func (Preparing) Cmd() string                 { return "PREPARING" }
func (Live) Cmd() string                      { return "LIVE" }
func (RoomChange) Cmd() string                { return "ROOM_CHANGE" }
func (Danmaku) Cmd() string                   { return "DANMU_MSG" }
func (SendGift) Cmd() string                  { return "SEND_GIFT" }
func (ComboEnd) Cmd() string                  { return "COMBO_END" }
func (Welcome) Cmd() string                   { return "WELCOME" }
func (WelcomeGuard) Cmd() string              { return "WELCOME_GUARD" }
func (RoomRealTimeMessageUpdate) Cmd() string { return "ROOM_REAL_TIME_MESSAGE_UPDATE" }
func (RoomRank) Cmd() string                  { return "ROOM_RANK" }
func (EntryEffect) Cmd() string               { return "ENTRY_EFFECT" }
func (NoticeMessage) Cmd() string             { return "NOTICE_MSG" }
func (SuperChat) Cmd() string                 { return "SUPER_CHAT_MESSAGE" }
func (SuperChatJapanese) Cmd() string         { return "SUPER_CHAT_MESSAGE_JPN" }
func (HotRoomNotify) Cmd() string             { return "HOT_ROOM_NOTIFY" }
func (Raw) Cmd() string                       { return "RAW" }
func (ParsingError) Cmd() string              { return "PARSING_ERROR" }
