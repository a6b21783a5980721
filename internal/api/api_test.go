package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autoclock/scheduler/internal/api/middleware"
	"github.com/autoclock/scheduler/internal/biz/catalog"
	"github.com/autoclock/scheduler/internal/biz/policy"
	"github.com/autoclock/scheduler/internal/biz/task"
	"github.com/autoclock/scheduler/internal/infra/persistence/catalogrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/commonrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/policyrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/taskrepo"
	"github.com/autoclock/scheduler/internal/infra/persistence/userrepo"
	"github.com/autoclock/scheduler/internal/orm/ormtest"
	"github.com/autoclock/scheduler/internal/scheduler"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping() error { return p.err }

type stubBuilder struct{ calls int }

func (b *stubBuilder) BuildTasks(context.Context) (scheduler.BuildResult, error) {
	b.calls++
	return scheduler.BuildResult{ClockInserted: 2, ScheduleInserted: 1}, nil
}

type testServer struct {
	router    *gin.Engine
	builder   *stubBuilder
	clocks    task.ClockRepo
	schedules task.ScheduleRepo
	catalog   catalog.Repo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := ormtest.NewSQLite(t)
	logger := zaptest.NewLogger(t)

	users := userrepo.NewRepositoryImpl(db)
	policies := policyrepo.NewRepositoryImpl(db)
	catalogRepo := catalogrepo.NewRepositoryImpl(db)
	clocks := taskrepo.NewClockRepositoryImpl(db)
	schedules := taskrepo.NewScheduleRepositoryImpl(db)
	builder := &stubBuilder{}

	cfg := &config.Config{Server: config.ServerConfig{Port: 0, AllowOrigins: []string{"*"}}}
	s := NewServer(cfg,
		NewCommonAPI(stubPinger{}),
		NewUserAPI(commonrepo.NewTransaction(db), users, policies, logger),
		NewCatalogAPI(catalogRepo),
		NewPolicyAPI(policies, users, catalogRepo, builder, logger),
		NewTaskAPI(task.NewUsecase(clocks, schedules), users, catalogRepo, builder, logger),
		logger,
	)
	return &testServer{
		router:    s.Router(),
		builder:   builder,
		clocks:    clocks,
		schedules: schedules,
		catalog:   catalogRepo,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, w)["status"])

	w = s.do(t, http.MethodGet, "/api/run_types", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"出勤", "退勤", "実績スケジュール申請"}, decode[[]string](t, w))
}

func TestUsersAndPolicies(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/users", UpsertUserReq{Email: "a@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[UserResp](t, w)
	assert.Equal(t, "a@example.com", created.Email)
	assert.NotContains(t, w.Body.String(), "secret")

	w = s.do(t, http.MethodGet, "/api/users?brief=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	briefs := decode[[]BriefResp](t, w)
	require.Len(t, briefs, 1)
	assert.Equal(t, created.ID, briefs[0].ID)

	w = s.do(t, http.MethodGet, "/api/policies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	policies := decode[[]PolicyResp](t, w)
	require.Len(t, policies, 1)
	assert.False(t, policies[0].Ready)

	w = s.do(t, http.MethodPost, "/api/worktypes", SaveWorkTypeReq{
		TypeName: "09:00 出勤",
		RunType:  catalog.RunTypeClockIn,
		RunTime:  catalog.MustParseTimeOfDay("09:00"),
		GPS:      "35.681,139.767",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/api/worktypes", SaveWorkTypeReq{
		TypeName: "18:00 退勤",
		RunType:  catalog.RunTypeClockOut,
		RunTime:  catalog.MustParseTimeOfDay("18:00"),
		GPS:      "35.681,139.767",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/api/stypes", SaveScheduleTypeReq{
		TypeName:  "在宅勤務",
		Workday:   true,
		Telework:  true,
		ClockType: catalog.ClockTypeNormal,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	in, out, st := "09:00 出勤", "18:00 退勤", "在宅勤務"
	w = s.do(t, http.MethodPost, "/api/policies", SavePolicyReq{
		UserID:           created.ID,
		ClockInTypeName:  &in,
		ClockOutTypeName: &out,
		ScheduleTypeName: &st,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode[SavePolicyResp](t, w)
	assert.True(t, saved.Policy.Ready)
	require.NotNil(t, saved.Build)
	assert.Equal(t, int64(2), saved.Build.ClockInserted)
	assert.Equal(t, 1, s.builder.calls)

	// 出勤与退勤互换属于错误选择
	w = s.do(t, http.MethodPost, "/api/policies", SavePolicyReq{
		UserID:           created.ID,
		ClockInTypeName:  &out,
		ClockOutTypeName: &in,
		ScheduleTypeName: &st,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, s.builder.calls)
}

type failingPolicies struct {
	policy.Repo
}

func (failingPolicies) Save(context.Context, *policy.UserPolicy) error {
	return errors.New("policy write failed")
}

func TestUserUpsert_RollbackWhenPolicyWriteFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := ormtest.NewSQLite(t)
	logger := zaptest.NewLogger(t)
	users := userrepo.NewRepositoryImpl(db)
	policies := failingPolicies{Repo: policyrepo.NewRepositoryImpl(db)}

	router := gin.New()
	router.Use(middleware.ErrorHandlingMiddleware(logger))
	NewUserAPIWrap(NewUserAPI(commonrepo.NewTransaction(db), users, policies, logger)).BindAll(router)
	s := &testServer{router: router}

	w := s.do(t, http.MethodPost, "/api/users", UpsertUserReq{Email: "a@example.com", Password: "secret"})
	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())

	// 用户行随策略行一起回滚
	u, err := users.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/api/users/12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[map[string]any](t, w)["code"])

	w = s.do(t, http.MethodDelete, "/api/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/worktypes", SaveWorkTypeReq{
		TypeName: "bad",
		RunType:  catalog.RunTypeClockIn,
		GPS:      "north",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/tasks?email=nobody@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/users", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTasksListPatchPurge(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	w := s.do(t, http.MethodPost, "/api/users", UpsertUserReq{Email: "a@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	u := decode[UserResp](t, w)

	wt := &catalog.WorkType{
		TypeName: "09:00 出勤",
		RunType:  catalog.RunTypeClockIn,
		RunTime:  catalog.MustParseTimeOfDay("09:00"),
		GPS:      "35.681,139.767",
	}
	require.NoError(t, s.catalog.SaveWorkType(ctx, wt))

	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)
	pastKey := task.Key{UserID: u.ID, RunType: catalog.RunTypeClockIn, RunDate: task.DateOf(past, time.UTC)}
	futureKey := task.Key{UserID: u.ID, RunType: catalog.RunTypeClockIn, RunDate: task.DateOf(future, time.UTC)}
	_, err := s.clocks.InsertIgnore(ctx, []*task.ClockTask{
		task.NewClockTask(pastKey, wt.ID, past),
		task.NewClockTask(futureKey, wt.ID, future),
	})
	require.NoError(t, err)

	w = s.do(t, http.MethodGet, "/api/tasks?email=a@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tasks := decode[[]TaskResp](t, w)
	require.Len(t, tasks, 2)
	assert.Equal(t, "09:00 出勤", tasks[0].TypeName)
	assert.True(t, tasks[0].RunTime.Before(tasks[1].RunTime))

	active := false
	w = s.do(t, http.MethodPatch, "/api/tasks", PatchTaskReq{
		UserID:  u.ID,
		RunType: catalog.RunTypeClockIn,
		RunDate: futureKey.RunDate.Format(time.DateOnly),
		Active:  &active,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[TaskResp](t, w).Active)

	bogus := task.Status("done")
	w = s.do(t, http.MethodPatch, "/api/tasks", PatchTaskReq{
		UserID:  u.ID,
		RunType: catalog.RunTypeClockIn,
		RunDate: futureKey.RunDate.Format(time.DateOnly),
		Applied: &bogus,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/tasks?email=a@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	purged := decode[PurgeTasksResp](t, w)
	assert.Equal(t, int64(1), purged.Purged)
	require.Len(t, purged.Tasks, 1)
	assert.Equal(t, futureKey.RunDate.Format(time.DateOnly), purged.Tasks[0].RunDate)

	w = s.do(t, http.MethodPost, "/api/tasks/build", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, BuildResp{ClockInserted: 2, ScheduleInserted: 1}, decode[BuildResp](t, w))
}
