package userrepo

import (
	domain "github.com/autoclock/scheduler/internal/biz/user"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
)

type UserPo struct {
	commonrepo.Mode
	Email    string `gorm:"column:email;size:255;not null;uniqueIndex"`
	Password string `gorm:"column:password;size:255;not null"`
	Memo     string `gorm:"column:memo;size:255"`
}

func (UserPo) TableName() string {
	return "m_users"
}

func (po *UserPo) ToDomain() *domain.User {
	return &domain.User{
		ID:        po.ID,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
		Email:     po.Email,
		Password:  po.Password,
		Memo:      po.Memo,
	}
}

func (po *UserPo) FromDomain(u *domain.User) *UserPo {
	po.ID = u.ID
	po.Email = u.Email
	po.Password = u.Password
	po.Memo = u.Memo
	if !u.CreatedAt.IsZero() {
		po.CreatedAt = u.CreatedAt
	}
	return po
}
