package handlers

import (
	"net/http"
	"time"
	"xmlstore/core"
	"xmlstore/handlers/api/documents"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

const APIBase = "/api/xml"

type (
	Options struct {
		AllowedOrigins []string
		MaxBodyBytes   int64
		// Feed is mounted at /socket.io/ when set.
		Feed http.Handler
	}

	HealthResponse struct {
		Status    string `json:"status"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
		Storage   string `json:"storage"`
	}
	IndexResponse struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
	}
	NotFoundResponse struct {
		Error string `json:"error"`
		Path  string `json:"path"`
	}
)

func NewRouter(service *core.DocumentService, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logrus.StandardLogger(),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Content-Length", "X-Requested-With"},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, IndexResponse{
			Message: "XML Metadata Editor API",
			Endpoints: map[string]string{
				"health":   "/api/health",
				"save":     "POST " + APIBase + "/save",
				"load":     "GET " + APIBase + "/load/:filename",
				"delete":   "DELETE " + APIBase + "/delete/:filename",
				"files":    "GET " + APIBase + "/files",
				"parse":    "POST " + APIBase + "/parse",
				"validate": "POST " + APIBase + "/validate",
			},
		})
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, HealthResponse{
			Status:    "OK",
			Message:   "Server is running",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Storage:   service.Location(),
		})
	})

	r.Route(APIBase, func(r chi.Router) {
		if opts.MaxBodyBytes > 0 {
			r.Use(middleware.RequestSize(opts.MaxBodyBytes))
		}
		documents.Routes(r, service)
	})

	if opts.Feed != nil {
		r.Handle("/socket.io/", opts.Feed)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, NotFoundResponse{Error: "Not Found", Path: r.URL.Path})
	})

	return r
}
