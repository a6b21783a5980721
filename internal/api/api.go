package api

import (
	"time"

	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/gin-gonic/gin"
)

// Pinger 存储连通性检查
type Pinger interface {
	Ping() error
}

type ICommonAPI interface {
	// HealthCheck 健康检查
	// 检查服务与数据库是否可用
	// @GET(api/health)
	HealthCheck(ctx *gin.Context) (gin.H, error)

	// RunTypes 动作类型
	// 列出全部打卡与申请动作
	// @GET(api/run_types)
	RunTypes(ctx *gin.Context) ([]catalog.RunType, error)
}

var _ ICommonAPI = (*CommonAPI)(nil)

type CommonAPI struct {
	storage Pinger
}

func NewCommonAPI(storage Pinger) *CommonAPI {
	return &CommonAPI{storage: storage}
}

func (c *CommonAPI) HealthCheck(ctx *gin.Context) (gin.H, error) {
	if err := c.storage.Ping(); err != nil {
		return gin.H{}, err
	}
	return gin.H{
		"status": "healthy",
		"time":   time.Now(),
	}, nil
}

func (c *CommonAPI) RunTypes(ctx *gin.Context) ([]catalog.RunType, error) {
	return catalog.AllRunTypes, nil
}
