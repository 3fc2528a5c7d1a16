package middleware

import (
	"net/http"

	"github.com/2beens/statuspanel/internal/session"
	"github.com/2beens/statuspanel/internal/telemetry/tracing"
	"github.com/2beens/statuspanel/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=guards_mocks_test.go -package=middleware_test

const AdminRequiredMessage = `Admin Access Required. <a href="/login">Login as Admin</a>`

type sessionResolver interface {
	Resolve(r *http.Request) (*session.Session, error)
}

// Guards gate handlers on the session of the request. A passing request carries
// its session in the context (see session.FromContext).
type Guards struct {
	resolver sessionResolver
}

func NewGuards(resolver sessionResolver) *Guards {
	return &Guards{
		resolver: resolver,
	}
}

// RequireAuthenticated redirects requests without a session to the login page.
func (g *Guards) RequireAuthenticated() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.requireAuthenticated")
			defer span.End()

			sess, err := g.resolver.Resolve(r.WithContext(ctx))
			if err != nil {
				log.Errorf("[auth guard] resolve session => %s: %s", r.URL.Path, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "resolve-session-err")
				pkg.WriteInternalServerError(w)
				return
			}
			if sess == nil {
				log.Tracef("[auth guard] no session => %s", r.URL.Path)
				span.SetStatus(codes.Error, "not-logged")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RequireAdmin answers 403 to anyone but a logged-in admin; there is no redirect.
func (g *Guards) RequireAdmin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.requireAdmin")
			defer span.End()

			sess, err := g.resolver.Resolve(r.WithContext(ctx))
			if err != nil {
				log.Errorf("[admin guard] resolve session => %s: %s", r.URL.Path, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "resolve-session-err")
				pkg.WriteInternalServerError(w)
				return
			}
			if sess == nil || !sess.IsAdmin() {
				log.Tracef("[admin guard] forbidden => %s", r.URL.Path)
				span.SetStatus(codes.Error, "not-admin")
				pkg.WriteResponse(w, pkg.ContentType.HTML, AdminRequiredMessage, http.StatusForbidden)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}
