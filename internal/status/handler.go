package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/statuspanel/internal/config"
	"github.com/2beens/statuspanel/internal/session"
	"github.com/2beens/statuspanel/internal/telemetry/metrics"
	"github.com/2beens/statuspanel/internal/telemetry/tracing"
	"github.com/2beens/statuspanel/internal/web"
	"github.com/2beens/statuspanel/pkg"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=status_test

type statusService interface {
	Board(ctx context.Context) ([]*Status, error)
	All(ctx context.Context) ([]*Status, error)
	Upsert(ctx context.Context, u Update) (*Status, error)
	KnownServices() []config.KnownService
}

type staffPage struct {
	Username      string
	Role          string
	Statuses      []*Status
	KnownServices []config.KnownService
}

type Handler struct {
	service        statusService
	renderer       *web.Renderer
	metricsManager *metrics.Manager
}

func NewHandler(service statusService, renderer *web.Renderer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		renderer:       renderer,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the public board and the staff pages; the latter are wrapped
// with requireAuthenticated.
func (handler *Handler) SetupRoutes(router *mux.Router, requireAuthenticated func(next http.Handler) http.Handler) {
	router.HandleFunc("/", handler.handleIndex).Methods("GET").Name("index")
	router.HandleFunc("/api/status", handler.handleBoardJSON).Methods("GET").Name("api-status")
	router.Handle("/staff", requireAuthenticated(http.HandlerFunc(handler.handleStaff))).Methods("GET").Name("staff")
	router.Handle("/staff/update", requireAuthenticated(http.HandlerFunc(handler.handleUpdate))).Methods("POST").Name("staff-update")
}

func (handler *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.status.index")
	defer span.End()

	board, err := handler.service.Board(ctx)
	if err != nil {
		log.Errorf("get status board: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	handler.renderer.Render(w, web.PageIndex, struct{ Statuses []*Status }{Statuses: board})
}

func (handler *Handler) handleBoardJSON(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.status.api")
	defer span.End()

	board, err := handler.service.Board(ctx)
	if err != nil {
		log.Errorf("get status board: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	boardJson, err := json.Marshal(BoardResponse{
		Statuses: board,
		Total:    len(board),
	})
	if err != nil {
		log.Errorf("marshal status board: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, boardJson)
}

func (handler *Handler) handleStaff(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.status.staff")
	defer span.End()

	statuses, err := handler.service.All(ctx)
	if err != nil {
		log.Errorf("get all statuses: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	page := staffPage{
		Statuses:      statuses,
		KnownServices: handler.service.KnownServices(),
	}
	if sess, ok := session.FromContext(ctx); ok {
		page.Username = sess.Username
		page.Role = string(sess.Role)
	}

	handler.renderer.Render(w, web.PageStaff, page)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.status.update")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	update := Update{
		ServiceName: r.PostForm.Get("service"),
		State:       r.PostForm.Get("state"),
		QueueState:  r.PostForm.Get("queueState"),
		Note:        r.PostForm.Get("note"),
	}

	st, err := handler.service.Upsert(ctx, update)
	if err != nil {
		if errors.Is(err, ErrEmptyServiceName) {
			http.Error(w, "error, service name empty", http.StatusBadRequest)
			return
		}
		log.Errorf("update status [%s]: %s", update.ServiceName, err)
		pkg.WriteInternalServerError(w)
		return
	}

	if sess, ok := session.FromContext(ctx); ok {
		log.Debugf("status of [%s] set to [%s] by [%s]", st.ServiceName, st.State, sess.Username)
	}
	handler.countUpdate(st.ServiceName)

	http.Redirect(w, r, "/staff", http.StatusFound)
}

// countUpdate labels by service for known services only, free-form names would
// grow the label set without bound.
func (handler *Handler) countUpdate(serviceName string) {
	if handler.metricsManager == nil {
		return
	}
	label := "other"
	for _, ks := range handler.service.KnownServices() {
		if ks.Name == serviceName {
			label = serviceName
			break
		}
	}
	handler.metricsManager.CounterStatusUpdates.With(prometheus.Labels{"service": label}).Inc()
}
