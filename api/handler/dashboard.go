package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskwise/pkg/httpcontext"
	"github.com/fastygo/taskwise/usecase/dashboard"
	taskUC "github.com/fastygo/taskwise/usecase/task"
	"github.com/fastygo/taskwise/usecase/view"
)

// DashboardHandler serves the same snapshot the dashboard controller renders.
// UI selections come from the query string since the server keeps no UI state.
type DashboardHandler struct {
	TaskHandler
}

func NewDashboardHandler(workspace *taskUC.Workspace, now Clock, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{TaskHandler: *NewTaskHandler(workspace, now, adapter, logger)}
}

// @Summary Dashboard snapshot
// @Tags dashboard
// @Param filter query string false "all, today or week"
// @Param view query string false "task id shown in detail"
// @Param edit query string false "task id loaded into the edit form"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Get(ctx *fasthttp.RequestCtx) {
	h.withTasks(ctx, func(_ context.Context, uc *taskUC.UseCase) {
		args := ctx.QueryArgs()
		state := dashboard.UIState{
			Filter:    view.ParseFilter(string(args.Peek("filter"))),
			ViewingID: string(args.Peek("view")),
			EditingID: string(args.Peek("edit")),
		}
		h.respondSuccess(ctx, http.StatusOK, dashboard.BuildSnapshot(uc.List(), state, h.now()))
	})
}
