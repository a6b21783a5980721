package commonrepo

import (
	"sync"
	"time"

	"github.com/yitter/idgenerator-go/idgen"
)

// Mode 带雪花 ID 的通用字段
type Mode struct {
	ID        uint64    `gorm:"column:id;primarykey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

var idOnce sync.Once

// InitIDGenerator 初始化雪花 ID 生成器，重复调用只生效一次
func InitIDGenerator(workerID uint16) {
	idOnce.Do(func() {
		options := idgen.NewIdGeneratorOptions(workerID)
		options.BaseTime = 1755937966000
		options.WorkerIdBitLength = 6
		idgen.SetIdGenerator(options)
	})
}

// NextID 未初始化时按 worker 1 初始化
func NextID() uint64 {
	InitIDGenerator(1)
	return uint64(idgen.NextId())
}
