package leaserepo

import (
	"time"

	domain "github.com/autoclock/scheduler/internal/biz/lease"
)

type LeasePo struct {
	Name      string    `gorm:"column:name;primaryKey;size:64"`
	Holder    string    `gorm:"column:holder;size:255;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeasePo) TableName() string {
	return "scheduler_leases"
}

func (po *LeasePo) ToDomain() *domain.Lease {
	return &domain.Lease{
		Name:      po.Name,
		Holder:    po.Holder,
		ExpiresAt: po.ExpiresAt,
		UpdatedAt: po.UpdatedAt,
	}
}
