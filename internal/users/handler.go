package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/statuspanel/internal/telemetry/metrics"
	"github.com/2beens/statuspanel/internal/telemetry/tracing"
	"github.com/2beens/statuspanel/internal/web"
	"github.com/2beens/statuspanel/pkg"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=users_test

const DuplicateUserMessage = "Error: User might already exist."

type accountService interface {
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, username, password string, role Role) (*User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Handler serves the admin account management pages.
type Handler struct {
	service        accountService
	renderer       *web.Renderer
	metricsManager *metrics.Manager
}

func NewHandler(service accountService, renderer *web.Renderer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		renderer:       renderer,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, requireAdmin func(next http.Handler) http.Handler) {
	router.Handle("/admin", requireAdmin(http.HandlerFunc(handler.handleAdmin))).Methods("GET").Name("admin")
	router.Handle("/admin/create", requireAdmin(http.HandlerFunc(handler.handleCreate))).Methods("POST").Name("admin-create")
	router.Handle("/admin/delete", requireAdmin(http.HandlerFunc(handler.handleDelete))).Methods("POST").Name("admin-delete")
}

func (handler *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.list")
	defer span.End()

	users, err := handler.service.List(ctx)
	if err != nil {
		log.Errorf("list users: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	handler.renderer.Render(w, web.PageAdmin, struct{ Users []*User }{Users: users})
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.create")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := r.PostForm.Get("username")
	role, err := ParseRole(r.PostForm.Get("role"))
	if err != nil {
		handler.countChange("create", "invalid")
		http.Error(w, "error, invalid role", http.StatusBadRequest)
		return
	}

	_, err = handler.service.Create(ctx, username, r.PostForm.Get("password"), role)
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyCredentials):
		handler.countChange("create", "invalid")
		http.Error(w, "error, username or password empty", http.StatusBadRequest)
		return
	case errors.Is(err, ErrPasswordTooLong):
		handler.countChange("create", "invalid")
		http.Error(w, "error, password too long (max 72 bytes)", http.StatusBadRequest)
		return
	case errors.Is(err, ErrInvalidRole):
		handler.countChange("create", "invalid")
		http.Error(w, "error, invalid role", http.StatusBadRequest)
		return
	case errors.Is(err, ErrDuplicateUsername):
		handler.countChange("create", "duplicate")
		pkg.WriteResponse(w, pkg.ContentType.HTML, DuplicateUserMessage, http.StatusConflict)
		return
	default:
		log.Errorf("create user [%s]: %s", username, err)
		handler.countChange("create", "error")
		pkg.WriteInternalServerError(w)
		return
	}

	log.Infof("account [%s] created with role [%s]", username, role)
	handler.countChange("create", "ok")
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.delete")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	id := r.PostForm.Get("userId")
	deleted, err := handler.service.Delete(ctx, id)
	if err != nil {
		log.Errorf("delete user [%s]: %s", id, err)
		handler.countChange("delete", "error")
		pkg.WriteInternalServerError(w)
		return
	}

	if deleted {
		log.Infof("account [%s] deleted", id)
		handler.countChange("delete", "ok")
	} else {
		handler.countChange("delete", "noop")
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (handler *Handler) countChange(action, result string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterAccountChanges.With(prometheus.Labels{
		"action": action,
		"result": result,
	}).Inc()
}
