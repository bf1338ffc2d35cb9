package router

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	apiHandler "github.com/fastygo/taskwise/api/handler"
	"github.com/fastygo/taskwise/internal/infrastructure/monitor"
	"github.com/fastygo/taskwise/internal/middleware"
	"github.com/fastygo/taskwise/pkg/httpcontext"
	"github.com/fastygo/taskwise/repository/kv"
	"github.com/fastygo/taskwise/repository/memory"
	authUC "github.com/fastygo/taskwise/usecase/auth"
	taskUC "github.com/fastygo/taskwise/usecase/task"
)

type envelope struct {
	Status string                 `json:"status"`
	Code   string                 `json:"code"`
	Data   json.RawMessage        `json:"data"`
	Meta   map[string]interface{} `json:"meta"`
}

type api struct {
	t       *testing.T
	handler fasthttp.RequestHandler
}

func newAPI(t *testing.T, allowGuest bool) *api {
	t.Helper()
	store := memory.New()
	now := func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }

	workspace := taskUC.NewWorkspace(kv.NewTaskStore(store, "", nil), taskUC.Options{})
	auth := authUC.New(kv.NewUserRepository(store, "", nil), workspace, authUC.Options{
		Secret:     "test-secret",
		Issuer:     "taskwise-test",
		BcryptCost: bcrypt.MinCost,
	})
	mon := monitor.New("memory", store, time.Minute, nil)
	mon.Refresh()

	adapter := httpcontext.NewAdapter(time.Second)
	handlers := Handlers{
		Auth:      apiHandler.NewAuthHandler(auth, adapter, nil),
		Profile:   apiHandler.NewProfileHandler(auth, workspace, now, adapter, nil),
		Task:      apiHandler.NewTaskHandler(workspace, now, adapter, nil),
		Dashboard: apiHandler.NewDashboardHandler(workspace, now, adapter, nil),
		Health:    apiHandler.NewHealthHandler(mon, adapter, nil),
	}
	taskAuth := middleware.JWTAuth(auth, nil)
	if allowGuest {
		taskAuth = middleware.OptionalJWTAuth(auth, nil)
	}
	return &api{t: t, handler: New(handlers, middleware.JWTAuth(auth, nil), taskAuth).Handler}
}

func (a *api) do(method, uri, token, body string) (int, envelope) {
	a.t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	a.handler(&ctx)

	var env envelope
	if b := ctx.Response.Body(); len(b) > 0 {
		if err := json.Unmarshal(b, &env); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, uri, b, err)
		}
	}
	return ctx.Response.StatusCode(), env
}

func (a *api) login(email string) string {
	a.t.Helper()
	status, _ := a.do("POST", "/api/v1/auth/register", "",
		`{"name":"Ada","email":"`+email+`","password":"correct horse","confirm_password":"correct horse"}`)
	if status != http.StatusCreated {
		a.t.Fatalf("register status=%d", status)
	}
	status, env := a.do("POST", "/api/v1/auth/login", "", `{"email":"`+email+`","password":"correct horse"}`)
	if status != http.StatusOK {
		a.t.Fatalf("login status=%d", status)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil || out.Token == "" {
		a.t.Fatalf("login data=%s", env.Data)
	}
	return out.Token
}

type taskBody struct {
	Task struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Priority    string `json:"priority"`
		IsCompleted bool   `json:"is_completed"`
	} `json:"task"`
	Display struct {
		Duration string `json:"duration"`
	} `json:"display"`
}

func decodeTask(t *testing.T, env envelope) taskBody {
	t.Helper()
	var tb taskBody
	if err := json.Unmarshal(env.Data, &tb); err != nil {
		t.Fatalf("decode task %s: %v", env.Data, err)
	}
	return tb
}

func TestHealth(t *testing.T) {
	a := newAPI(t, false)
	if status, env := a.do("GET", "/health", "", ""); status != http.StatusOK || env.Status != "success" {
		t.Fatalf("status=%d env=%+v", status, env)
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t, false)
	token := a.login("ada@example.com")

	if status, _ := a.do("GET", "/api/v1/tasks", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("anonymous list status=%d", status)
	}

	status, env := a.do("POST", "/api/v1/tasks", token, `{"name":"  ","duration":-1}`)
	if status != http.StatusBadRequest || env.Code != "INVALID" || env.Meta["fields"] == nil {
		t.Fatalf("invalid create: status=%d env=%+v", status, env)
	}

	status, env = a.do("POST", "/api/v1/tasks", token, `{"name":"Write report","duration":90,"deadline":"2024-06-10","priority":"high","is_completed":true}`)
	if status != http.StatusCreated {
		t.Fatalf("create status=%d env=%+v", status, env)
	}
	created := decodeTask(t, env)
	if created.Task.IsCompleted || created.Display.Duration != "1h 30m" {
		t.Fatalf("created=%+v", created)
	}
	id := created.Task.ID

	status, env = a.do("POST", "/api/v1/tasks/"+id+"/priority", token, "")
	if status != http.StatusOK || decodeTask(t, env).Task.Priority != "low" {
		t.Fatalf("priority status=%d env=%s", status, env.Data)
	}

	status, env = a.do("PATCH", "/api/v1/tasks/"+id, token, `{"name":"Final report"}`)
	if status != http.StatusOK || decodeTask(t, env).Task.Name != "Final report" {
		t.Fatalf("patch status=%d env=%s", status, env.Data)
	}

	status, env = a.do("POST", "/api/v1/tasks/"+id+"/toggle", token, "")
	if status != http.StatusOK || !decodeTask(t, env).Task.IsCompleted {
		t.Fatalf("toggle status=%d env=%s", status, env.Data)
	}
	status, env = a.do("POST", "/api/v1/tasks/"+id+"/toggle", token, `{"completed":true}`)
	if status != http.StatusOK || !decodeTask(t, env).Task.IsCompleted {
		t.Fatalf("explicit toggle status=%d env=%s", status, env.Data)
	}

	status, env = a.do("GET", "/api/v1/tasks?status=completed", token, "")
	if status != http.StatusOK || env.Meta["count"] != float64(1) {
		t.Fatalf("completed list status=%d meta=%v", status, env.Meta)
	}
	status, env = a.do("GET", "/api/v1/tasks?status=active&filter=today", token, "")
	if status != http.StatusOK || env.Meta["count"] != float64(0) {
		t.Fatalf("active list status=%d meta=%v", status, env.Meta)
	}

	if status, _ := a.do("DELETE", "/api/v1/tasks/"+id, token, ""); status != http.StatusNoContent {
		t.Fatalf("delete status=%d", status)
	}
	if status, env := a.do("DELETE", "/api/v1/tasks/"+id, token, ""); status != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("second delete status=%d env=%+v", status, env)
	}
	if status, _ := a.do("GET", "/api/v1/tasks/"+id, token, ""); status != http.StatusNotFound {
		t.Fatalf("get deleted status=%d", status)
	}
}

func TestPartitionsAreIsolated(t *testing.T) {
	a := newAPI(t, false)
	ada := a.login("ada@example.com")
	bob := a.login("bob@example.com")

	_, env := a.do("POST", "/api/v1/tasks", ada, `{"name":"Ada only"}`)
	id := decodeTask(t, env).Task.ID

	if status, _ := a.do("GET", "/api/v1/tasks/"+id, bob, ""); status != http.StatusNotFound {
		t.Fatalf("other user sees task: status=%d", status)
	}
	if _, env := a.do("GET", "/api/v1/tasks", bob, ""); env.Meta["count"] != float64(0) {
		t.Fatalf("other user list meta=%v", env.Meta)
	}
}

func TestGuestAccess(t *testing.T) {
	closed := newAPI(t, false)
	if status, _ := closed.do("GET", "/api/v1/dashboard", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("guest without ALLOW_GUEST status=%d", status)
	}

	open := newAPI(t, true)
	if status, _ := open.do("POST", "/api/v1/tasks", "", `{"name":"Guest task","deadline":"2024-06-10"}`); status != http.StatusCreated {
		t.Fatalf("guest create status=%d", status)
	}
	status, env := open.do("GET", "/api/v1/dashboard?filter=today", "", "")
	if status != http.StatusOK {
		t.Fatalf("dashboard status=%d", status)
	}
	var snap struct {
		Greeting string `json:"greeting"`
		Focus    *struct {
			Name string `json:"name"`
		} `json:"focus"`
		Tasks []struct {
			Deadline string `json:"deadline"`
		} `json:"tasks"`
	}
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Greeting != "Good morning" || snap.Focus == nil || snap.Focus.Name != "Guest task" || len(snap.Tasks) != 1 || snap.Tasks[0].Deadline != "Today" {
		t.Fatalf("snapshot=%s", env.Data)
	}
	if status, _ := open.do("GET", "/api/v1/profile", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("guest profile status=%d", status)
	}
}

func TestProfileOverHTTP(t *testing.T) {
	a := newAPI(t, false)
	token := a.login("ada@example.com")
	a.do("POST", "/api/v1/tasks", token, `{"name":"One"}`)

	status, env := a.do("GET", "/api/v1/profile", token, "")
	if status != http.StatusOK {
		t.Fatalf("profile status=%d", status)
	}
	var profile struct {
		User  map[string]interface{} `json:"user"`
		Stats struct {
			Active int    `json:"active"`
			Rate   string `json:"rate"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatal(err)
	}
	if _, leaked := profile.User["password_hash"]; leaked {
		t.Fatal("password hash in profile response")
	}
	if profile.Stats.Active != 1 || profile.Stats.Rate != "0%" {
		t.Fatalf("stats=%+v", profile.Stats)
	}

	if status, _ := a.do("POST", "/api/v1/auth/register", "",
		`{"name":"Again","email":"ADA@example.com","password":"12345678","confirm_password":"12345678"}`); status != http.StatusConflict {
		t.Fatalf("duplicate register status=%d", status)
	}
	if status, _ := a.do("PUT", "/api/v1/profile/password", token,
		`{"current_password":"correct horse","new_password":"battery staple","confirm_password":"battery staple"}`); status != http.StatusOK {
		t.Fatalf("password change status=%d", status)
	}
	if status, _ := a.do("POST", "/api/v1/auth/login", "", `{"email":"ada@example.com","password":"correct horse"}`); status != http.StatusUnauthorized {
		t.Fatalf("old password login status=%d", status)
	}

	if status, _ := a.do("DELETE", "/api/v1/profile", token, ""); status != http.StatusOK {
		t.Fatalf("delete account status=%d", status)
	}
	if status, _ := a.do("GET", "/api/v1/profile", token, ""); status != http.StatusUnauthorized {
		t.Fatalf("profile after delete status=%d", status)
	}
}

func TestDeletedAccountTokenCannotRecreateTasks(t *testing.T) {
	a := newAPI(t, true)
	token := a.login("ada@example.com")
	a.do("POST", "/api/v1/tasks", token, `{"name":"Before"}`)

	if status, _ := a.do("DELETE", "/api/v1/profile", token, ""); status != http.StatusOK {
		t.Fatalf("delete account status=%d", status)
	}
	if status, _ := a.do("POST", "/api/v1/tasks", token, `{"name":"Orphan"}`); status != http.StatusUnauthorized {
		t.Fatalf("create with stale token status=%d", status)
	}
	if status, _ := a.do("GET", "/api/v1/tasks", token, ""); status != http.StatusUnauthorized {
		t.Fatalf("list with stale token status=%d", status)
	}
	if _, env := a.do("GET", "/api/v1/tasks", "", ""); env.Meta["count"] != float64(0) {
		t.Fatalf("guest partition meta=%v", env.Meta)
	}
}
