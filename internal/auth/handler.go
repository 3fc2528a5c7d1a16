package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/2beens/statuspanel/internal/session"
	"github.com/2beens/statuspanel/internal/telemetry/metrics"
	"github.com/2beens/statuspanel/internal/telemetry/tracing"
	"github.com/2beens/statuspanel/internal/users"
	"github.com/2beens/statuspanel/internal/web"
	"github.com/2beens/statuspanel/pkg"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

const LoginFailedMessage = `Login Failed. <input type="button" value="Back" onclick="history.back()">`

type loginService interface {
	Login(ctx context.Context, username, password string) (*users.User, error)
}

type sessionAuthority interface {
	Create(ctx context.Context, w http.ResponseWriter, sess *session.Session) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	service        loginService
	authority      sessionAuthority
	renderer       *web.Renderer
	metricsManager *metrics.Manager
}

func NewHandler(
	service loginService,
	authority sessionAuthority,
	renderer *web.Renderer,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		service:        service,
		authority:      authority,
		renderer:       renderer,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/login", handler.HandleLoginPage).Methods("GET").Name("login-page")
	router.HandleFunc("/login", handler.HandleLogin).Methods("POST").Name("login")
	router.HandleFunc("/logout", handler.HandleLogout).Methods("GET").Name("logout")
}

func (handler *Handler) HandleLoginPage(w http.ResponseWriter, _ *http.Request) {
	handler.renderer.Render(w, web.PageLogin, nil)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.login")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	user, err := handler.service.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			reqIp, _ := pkg.ReadUserIP(r)
			log.Debugf("failed login attempt for [%s] from %s", username, reqIp)
			handler.countLogin("failure")
			pkg.WriteResponse(w, pkg.ContentType.HTML, LoginFailedMessage, http.StatusUnauthorized)
			return
		}
		log.Errorf("login [%s]: %s", username, err)
		handler.countLogin("error")
		pkg.WriteInternalServerError(w)
		return
	}

	if _, err := handler.authority.Create(ctx, w, session.FromUser(user)); err != nil {
		log.Errorf("login [%s], create session: %s", username, err)
		handler.countLogin("error")
		pkg.WriteInternalServerError(w)
		return
	}

	handler.countLogin("success")
	log.Debugf("user [%s] logged in as [%s]", user.Username, user.Role)

	if user.IsAdmin() {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/staff", http.StatusFound)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logout")
	defer span.End()

	if err := handler.authority.Destroy(ctx, w, r); err != nil {
		// the cookie is expired anyway, the record will age out
		log.Errorf("logout: %s", err)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (handler *Handler) countLogin(result string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterLogins.With(prometheus.Labels{"result": result}).Inc()
}
