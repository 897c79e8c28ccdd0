package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"junqo/internal/domain/user"
	"junqo/internal/http/graphql"
	"junqo/internal/http/handlers"
	"junqo/internal/http/metrics"
	httpmw "junqo/internal/http/middleware"
)

const apiPrefix = "/api/v1"

type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	OfferHandler        *handlers.OfferHandler
	ApplicationHandler  *handlers.ApplicationHandler
	ProfileHandler      *handlers.ProfileHandler
	ExperienceHandler   *handlers.ExperienceHandler
	ConversationHandler *handlers.ConversationHandler
	MetricsHandler      *handlers.MetricsHandler
	GraphQLHandler      *graphql.Handler
	AuthMiddleware      *httpmw.AuthMiddleware
	Metrics             *metrics.Collector
	Logger              zerolog.Logger
	RequestTimeout      time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(r.deps.Logger),
		httpmw.Metrics(r.deps.Metrics),
		httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodPost && path == apiPrefix+"/auth/register":
			r.deps.AuthHandler.Register(w, req)
			return
		case req.Method == http.MethodPost && path == apiPrefix+"/auth/login":
			r.deps.AuthHandler.Login(w, req)
			return
		}

		if strings.HasPrefix(path, apiPrefix+"/") || path == "/graphql" {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	if path == "/graphql" && req.Method == http.MethodPost {
		r.deps.GraphQLHandler.ServeHTTP(w, req)
		return
	}

	requireCompany := httpmw.RequireType(user.TypeCompany)
	requireStudent := httpmw.RequireType(user.TypeStudent)

	switch {
	case req.Method == http.MethodGet && path == apiPrefix+"/auth/me":
		r.deps.AuthHandler.Me(w, req)
		return

	case req.Method == http.MethodGet && path == apiPrefix+"/offers":
		r.deps.OfferHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == apiPrefix+"/offers":
		requireCompany(http.HandlerFunc(r.deps.OfferHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == apiPrefix+"/offers/my":
		requireCompany(http.HandlerFunc(r.deps.OfferHandler.ListMine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == apiPrefix+"/offers/applied":
		requireStudent(http.HandlerFunc(r.deps.OfferHandler.ListApplied)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == apiPrefix+"/offers/analytics":
		requireCompany(http.HandlerFunc(r.deps.OfferHandler.CompanyAnalytics)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/offers/") && strings.HasSuffix(path, "/analytics"):
		requireCompany(http.HandlerFunc(r.deps.OfferHandler.Analytics)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, apiPrefix+"/offers/") && strings.HasSuffix(path, "/seen"):
		r.deps.OfferHandler.MarkSeen(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/offers/"):
		r.deps.OfferHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, apiPrefix+"/offers/"):
		requireCompany(http.HandlerFunc(r.deps.OfferHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, apiPrefix+"/offers/"):
		requireCompany(http.HandlerFunc(r.deps.OfferHandler.Delete)).ServeHTTP(w, req)
		return

	case req.Method == http.MethodGet && path == apiPrefix+"/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == apiPrefix+"/applications":
		requireStudent(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == apiPrefix+"/applications/pre-accept":
		requireCompany(http.HandlerFunc(r.deps.ApplicationHandler.PreAccept)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && path == apiPrefix+"/applications/bulk-status":
		requireCompany(http.HandlerFunc(r.deps.ApplicationHandler.BulkUpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, apiPrefix+"/applications/") && strings.HasSuffix(path, "/status"):
		r.deps.ApplicationHandler.UpdateStatus(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, apiPrefix+"/applications/") && strings.HasSuffix(path, "/opened"):
		requireCompany(http.HandlerFunc(r.deps.ApplicationHandler.MarkAsOpened)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/applications/"):
		r.deps.ApplicationHandler.Get(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, apiPrefix+"/applications/"):
		r.deps.ApplicationHandler.Delete(w, req)
		return

	case req.Method == http.MethodGet && path == apiPrefix+"/student-profiles":
		r.deps.ProfileHandler.ListStudents(w, req)
		return
	case req.Method == http.MethodPatch && path == apiPrefix+"/student-profiles/my":
		requireStudent(http.HandlerFunc(r.deps.ProfileHandler.UpdateStudent)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == apiPrefix+"/student-profiles/my/school":
		requireStudent(http.HandlerFunc(r.deps.ProfileHandler.LinkSchool)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/student-profiles/") && strings.HasSuffix(path, "/experiences"):
		r.deps.ExperienceHandler.ListForProfile(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/student-profiles/"):
		r.deps.ProfileHandler.GetStudent(w, req)
		return
	case req.Method == http.MethodGet && path == apiPrefix+"/company-profiles":
		r.deps.ProfileHandler.ListCompanies(w, req)
		return
	case req.Method == http.MethodPatch && path == apiPrefix+"/company-profiles/my":
		requireCompany(http.HandlerFunc(r.deps.ProfileHandler.UpdateCompany)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/company-profiles/"):
		r.deps.ProfileHandler.GetCompany(w, req)
		return
	case req.Method == http.MethodGet && path == apiPrefix+"/school-profiles":
		r.deps.ProfileHandler.ListSchools(w, req)
		return
	case req.Method == http.MethodPatch && path == apiPrefix+"/school-profiles/my":
		httpmw.RequireType(user.TypeSchool)(http.HandlerFunc(r.deps.ProfileHandler.UpdateSchool)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/school-profiles/"):
		r.deps.ProfileHandler.GetSchool(w, req)
		return

	case req.Method == http.MethodGet && path == apiPrefix+"/experiences/my":
		r.deps.ExperienceHandler.ListMine(w, req)
		return
	case req.Method == http.MethodPost && path == apiPrefix+"/experiences/my":
		requireStudent(http.HandlerFunc(r.deps.ExperienceHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/experiences/"):
		r.deps.ExperienceHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, apiPrefix+"/experiences/"):
		requireStudent(http.HandlerFunc(r.deps.ExperienceHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, apiPrefix+"/experiences/"):
		requireStudent(http.HandlerFunc(r.deps.ExperienceHandler.Delete)).ServeHTTP(w, req)
		return

	case req.Method == http.MethodGet && path == apiPrefix+"/conversations":
		r.deps.ConversationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/conversations/") && strings.HasSuffix(path, "/messages"):
		r.deps.ConversationHandler.ListMessages(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, apiPrefix+"/conversations/") && strings.HasSuffix(path, "/messages"):
		r.deps.ConversationHandler.SendMessage(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, apiPrefix+"/conversations/"):
		r.deps.ConversationHandler.Get(w, req)
		return
	}

	http.NotFound(w, req)
}
