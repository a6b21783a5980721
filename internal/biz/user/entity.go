package user

import "time"

// User 被代理打卡的门户账户
type User struct {
	ID        uint64
	CreatedAt time.Time
	UpdatedAt time.Time
	Email     string
	Password  string
	Memo      string
}

// Brief 只暴露 id 与邮箱，用于列表下拉
type Brief struct {
	ID    uint64
	Email string
}
