package api

import (
	"github.com/gin-gonic/gin"
)

// 路由绑定，与接口注释中的 @METHOD(path) 保持一致

type CommonAPIWrap struct {
	inner ICommonAPI
}

func NewCommonAPIWrap(inner ICommonAPI) *CommonAPIWrap {
	return &CommonAPIWrap{inner: inner}
}

func (a *CommonAPIWrap) BindAll(router gin.IRouter) {
	router.GET("/api/health", func(c *gin.Context) {
		data, err := a.inner.HealthCheck(c)
		onGinResponse(c, data, err)
	})
	router.GET("/api/run_types", func(c *gin.Context) {
		data, err := a.inner.RunTypes(c)
		onGinResponse(c, data, err)
	})
}

type UserAPIWrap struct {
	inner IUserAPI
}

func NewUserAPIWrap(inner IUserAPI) *UserAPIWrap {
	return &UserAPIWrap{inner: inner}
}

func (a *UserAPIWrap) BindAll(router gin.IRouter) {
	router.GET("/api/users", func(c *gin.Context) {
		var req ListReq
		if !onGinBind(c, &req, "QUERY") {
			return
		}
		data, err := a.inner.List(c, req)
		onGinResponse(c, data, err)
	})
	router.POST("/api/users", func(c *gin.Context) {
		var req UpsertUserReq
		if !onGinBind(c, &req, "JSON") {
			return
		}
		data, err := a.inner.Upsert(c, req)
		onGinResponse(c, data, err)
	})
	router.DELETE("/api/users/:id", func(c *gin.Context) {
		data, err := a.inner.Delete(c, c.Param("id"))
		onGinResponse(c, data, err)
	})
}

type CatalogAPIWrap struct {
	inner ICatalogAPI
}

func NewCatalogAPIWrap(inner ICatalogAPI) *CatalogAPIWrap {
	return &CatalogAPIWrap{inner: inner}
}

func (a *CatalogAPIWrap) BindAll(router gin.IRouter) {
	router.GET("/api/worktypes", func(c *gin.Context) {
		var req ListWorkTypesReq
		if !onGinBind(c, &req, "QUERY") {
			return
		}
		data, err := a.inner.ListWorkTypes(c, req)
		onGinResponse(c, data, err)
	})
	router.POST("/api/worktypes", func(c *gin.Context) {
		var req SaveWorkTypeReq
		if !onGinBind(c, &req, "JSON") {
			return
		}
		data, err := a.inner.SaveWorkType(c, req)
		onGinResponse(c, data, err)
	})
	router.GET("/api/stypes", func(c *gin.Context) {
		var req ListReq
		if !onGinBind(c, &req, "QUERY") {
			return
		}
		data, err := a.inner.ListScheduleTypes(c, req)
		onGinResponse(c, data, err)
	})
	router.POST("/api/stypes", func(c *gin.Context) {
		var req SaveScheduleTypeReq
		if !onGinBind(c, &req, "JSON") {
			return
		}
		data, err := a.inner.SaveScheduleType(c, req)
		onGinResponse(c, data, err)
	})
}

type PolicyAPIWrap struct {
	inner IPolicyAPI
}

func NewPolicyAPIWrap(inner IPolicyAPI) *PolicyAPIWrap {
	return &PolicyAPIWrap{inner: inner}
}

func (a *PolicyAPIWrap) BindAll(router gin.IRouter) {
	router.GET("/api/policies", func(c *gin.Context) {
		data, err := a.inner.List(c)
		onGinResponse(c, data, err)
	})
	router.POST("/api/policies", func(c *gin.Context) {
		var req SavePolicyReq
		if !onGinBind(c, &req, "JSON") {
			return
		}
		data, err := a.inner.Save(c, req)
		onGinResponse(c, data, err)
	})
}

type TaskAPIWrap struct {
	inner ITaskAPI
}

func NewTaskAPIWrap(inner ITaskAPI) *TaskAPIWrap {
	return &TaskAPIWrap{inner: inner}
}

func (a *TaskAPIWrap) BindAll(router gin.IRouter) {
	router.GET("/api/tasks", func(c *gin.Context) {
		var req ListTasksReq
		if !onGinBind(c, &req, "QUERY") {
			return
		}
		data, err := a.inner.List(c, req)
		onGinResponse(c, data, err)
	})
	router.PATCH("/api/tasks", func(c *gin.Context) {
		var req PatchTaskReq
		if !onGinBind(c, &req, "JSON") {
			return
		}
		data, err := a.inner.Patch(c, req)
		onGinResponse(c, data, err)
	})
	router.DELETE("/api/tasks", func(c *gin.Context) {
		var req ListTasksReq
		if !onGinBind(c, &req, "QUERY") {
			return
		}
		data, err := a.inner.Purge(c, req)
		onGinResponse(c, data, err)
	})
	router.POST("/api/tasks/build", func(c *gin.Context) {
		data, err := a.inner.Build(c)
		onGinResponse(c, data, err)
	})
}
