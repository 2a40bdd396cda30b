package message

// GuardLevel 舰队等级。序数沿用上游编号（1 总督、2 提督、3 舰长），
// 与等级高低的直觉相反，不要"修正"。
type GuardLevel uint8

const (
	// GuardNone 非舰队成员
	GuardNone GuardLevel = 0
	// GuardGovernor 总督
	GuardGovernor GuardLevel = 1
	// GuardPraefect 提督
	GuardPraefect GuardLevel = 2
	// GuardCaptain 舰长
	GuardCaptain GuardLevel = 3
)

// GuardLevelFrom 从上游整数构造舰队等级，0-3 之外视为非法
func GuardLevelFrom(n int64) (GuardLevel, bool) {
	if n < 0 || n > 3 {
		return 0, false
	}
	return GuardLevel(n), true
}

func (g GuardLevel) String() string {
	switch g {
	case GuardGovernor:
		return "总督"
	case GuardPraefect:
		return "提督"
	case GuardCaptain:
		return "舰长"
	default:
		return "非舰队成员"
	}
}
