package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskwise/api/transport"
	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/pkg/httpcontext"
	"github.com/fastygo/taskwise/usecase/dashboard"
	taskUC "github.com/fastygo/taskwise/usecase/task"
	"github.com/fastygo/taskwise/usecase/view"
)

type TaskHandler struct {
	baseHandler
	workspace *taskUC.Workspace
	now       Clock
}

func NewTaskHandler(workspace *taskUC.Workspace, now Clock, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		workspace:   workspace,
		now:         clockOrDefault(now),
	}
}

// @Summary List tasks
// @Tags tasks
// @Param filter query string false "all, today or week"
// @Param status query string false "active, completed or all"
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	h.withTasks(ctx, func(stdCtx context.Context, uc *taskUC.UseCase) {
		filter := view.ParseFilter(string(ctx.QueryArgs().Peek("filter")))
		status := string(ctx.QueryArgs().Peek("status"))

		tasks := view.FilterByDate(uc.List(), filter, h.now())
		switch status {
		case "active":
			tasks = view.ActiveTasks(tasks)
		case "completed":
			tasks = view.CompletedTasks(tasks)
		case "", "all":
			status = "all"
		default:
			h.respondInvalid(ctx, "status must be active, completed or all")
			return
		}
		h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(tasks, map[string]interface{}{
			"count":  len(tasks),
			"filter": filter,
			"status": status,
		}))
	})
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var form dashboard.TaskForm
	if !h.decode(ctx, &form) {
		return
	}
	h.withTasks(ctx, func(stdCtx context.Context, uc *taskUC.UseCase) {
		created, err := dashboard.Create(stdCtx, uc, form)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusCreated, h.taskResponse(created))
	})
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	h.withTasks(ctx, func(stdCtx context.Context, uc *taskUC.UseCase) {
		found, err := uc.Get(pathID(ctx))
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusOK, h.taskResponse(found))
	})
}

// @Summary Update some fields of a task
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	var changes dashboard.Changes
	if !h.decode(ctx, &changes) {
		return
	}
	h.withTasks(ctx, func(stdCtx context.Context, uc *taskUC.UseCase) {
		updated, err := dashboard.Edit(stdCtx, uc, pathID(ctx), changes)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusOK, h.taskResponse(updated))
	})
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	h.withTasks(ctx, func(stdCtx context.Context, uc *taskUC.UseCase) {
		if err := uc.Delete(stdCtx, pathID(ctx)); err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		ctx.SetStatusCode(http.StatusNoContent)
	})
}

// @Summary Set or flip completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	var req transport.ToggleRequest
	if len(ctx.PostBody()) > 0 && !h.decode(ctx, &req) {
		return
	}
	h.withTasks(ctx, func(stdCtx context.Context, uc *taskUC.UseCase) {
		id := pathID(ctx)
		current, err := uc.Get(id)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		completed := !current.IsCompleted
		if req.Completed != nil {
			completed = *req.Completed
		}
		updated, err := uc.ToggleCompletion(stdCtx, id, completed)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusOK, h.taskResponse(updated))
	})
}

// @Summary Advance priority low, medium, high, low
// @Tags tasks
// @Router /api/v1/tasks/{id}/priority [post]
func (h *TaskHandler) CyclePriority(ctx *fasthttp.RequestCtx) {
	h.withTasks(ctx, func(stdCtx context.Context, uc *taskUC.UseCase) {
		updated, err := uc.CyclePriority(stdCtx, pathID(ctx))
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusOK, h.taskResponse(updated))
	})
}

func (h *TaskHandler) taskResponse(t domain.Task) transport.TaskResponse {
	return transport.TaskResponse{Task: t, Display: view.DetailOf(t, h.now().Location())}
}

// withTasks resolves the caller's task use case and runs fn with it.
func (h *TaskHandler) withTasks(ctx *fasthttp.RequestCtx, fn func(context.Context, *taskUC.UseCase)) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	uc, err := h.workspace.For(stdCtx, identity)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	fn(stdCtx, uc)
}
