package policy

import "strings"

// UserPolicy 用户选择的打卡与排班目录项，按类型名引用
type UserPolicy struct {
	UserID           uint64
	ClockInTypeName  *string
	ClockOutTypeName *string
	ScheduleTypeName *string
}

// Ready 三项均已选择时才参与任务生成
func (p UserPolicy) Ready() bool {
	return filled(p.ClockInTypeName) && filled(p.ClockOutTypeName) && filled(p.ScheduleTypeName)
}

func filled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
