package api

import (
	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type ICatalogAPI interface {
	// ListWorkTypes 打卡目录
	// type=in|out 按动作过滤，brief=true 只返回名称
	// @GET(api/worktypes)
	ListWorkTypes(ctx *gin.Context, req ListWorkTypesReq) (any, error)

	// SaveWorkType 保存打卡目录项
	// 按类型名插入或覆盖
	// @POST(api/worktypes)
	SaveWorkType(ctx *gin.Context, req SaveWorkTypeReq) (WorkTypeResp, error)

	// ListScheduleTypes 排班目录
	// brief=true 只返回名称
	// @GET(api/stypes)
	ListScheduleTypes(ctx *gin.Context, req ListReq) (any, error)

	// SaveScheduleType 保存排班目录项
	// 按类型名插入或覆盖
	// @POST(api/stypes)
	SaveScheduleType(ctx *gin.Context, req SaveScheduleTypeReq) (ScheduleTypeResp, error)
}

var _ ICatalogAPI = (*CatalogAPI)(nil)

type CatalogAPI struct {
	catalog catalog.Repo
}

func NewCatalogAPI(catalogRepo catalog.Repo) *CatalogAPI {
	return &CatalogAPI{catalog: catalogRepo}
}

func (a *CatalogAPI) ListWorkTypes(ctx *gin.Context, req ListWorkTypesReq) (any, error) {
	filter := &catalog.WorkTypeFilter{}
	switch req.Type {
	case "in":
		filter.RunType = mo.Some(catalog.RunTypeClockIn)
	case "out":
		filter.RunType = mo.Some(catalog.RunTypeClockOut)
	}
	items, err := a.catalog.ListWorkTypes(ctx, filter)
	if err != nil {
		return nil, err
	}
	if req.Brief {
		return lo.Map(items, func(w *catalog.WorkType, _ int) BriefResp {
			return BriefResp{ID: w.ID, Name: w.TypeName}
		}), nil
	}
	return lo.Map(items, func(w *catalog.WorkType, _ int) WorkTypeResp {
		return toWorkTypeResp(w)
	}), nil
}

func (a *CatalogAPI) SaveWorkType(ctx *gin.Context, req SaveWorkTypeReq) (WorkTypeResp, error) {
	if req.RunType == catalog.RunTypeSchedule {
		return WorkTypeResp{}, errors.Wrapf(errors.ErrInvalidArgument, "work type cannot use run type %s", req.RunType)
	}
	if _, _, err := catalog.ParseCoordinates(req.GPS); err != nil {
		return WorkTypeResp{}, err
	}
	w := &catalog.WorkType{
		TypeName: req.TypeName,
		RunType:  req.RunType,
		RunTime:  req.RunTime,
		GPS:      req.GPS,
	}
	if err := a.catalog.SaveWorkType(ctx, w); err != nil {
		return WorkTypeResp{}, err
	}
	return toWorkTypeResp(w), nil
}

func (a *CatalogAPI) ListScheduleTypes(ctx *gin.Context, req ListReq) (any, error) {
	items, err := a.catalog.ListScheduleTypes(ctx)
	if err != nil {
		return nil, err
	}
	if req.Brief {
		return lo.Map(items, func(s *catalog.WorkScheduleType, _ int) BriefResp {
			return BriefResp{ID: s.ID, Name: s.TypeName}
		}), nil
	}
	return lo.Map(items, func(s *catalog.WorkScheduleType, _ int) ScheduleTypeResp {
		return toScheduleTypeResp(s)
	}), nil
}

func (a *CatalogAPI) SaveScheduleType(ctx *gin.Context, req SaveScheduleTypeReq) (ScheduleTypeResp, error) {
	s := req.toDomain()
	if err := a.catalog.SaveScheduleType(ctx, s); err != nil {
		return ScheduleTypeResp{}, err
	}
	return toScheduleTypeResp(s), nil
}
