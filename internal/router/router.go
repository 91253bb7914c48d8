package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/ali-hasan-sss/syria-store-api/internal/api/auth"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/blog"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/category"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/content"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/product"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/upload"
	"github.com/ali-hasan-sss/syria-store-api/internal/api/user"
)

// Config contains the handlers and middleware needed for the router setup.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
type Config struct {
	AuthHandler     *auth.AuthHandler
	ProductHandler  *product.Handler
	CategoryHandler *category.Handler
	UserHandler     *user.Handler
	BlogHandler     *blog.Handler
	ContentHandler  *content.Handler
	UploadHandler   *upload.Handler

	Authenticate         func(http.Handler) http.Handler
	OptionalAuthenticate func(http.Handler) http.Handler
	RequireAdmin         func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Public auth routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		})

		// Public product reads. Admins passing a token see all statuses,
		// everyone else only sees listed products.
		r.Group(func(r chi.Router) {
			r.Use(cfg.OptionalAuthenticate)
			r.Get("/products", cfg.ProductHandler.List)
			r.Get("/products/latest", cfg.ProductHandler.Latest)
			r.Get("/products/top-rated", cfg.ProductHandler.TopRated)
			r.Get("/products/{id}", cfg.ProductHandler.GetByID)
		})

		// Public content
		r.Get("/categories", cfg.CategoryHandler.GetAll)
		r.Get("/blogs", cfg.BlogHandler.GetAll)
		r.Get("/blogs/{id}", cfg.BlogHandler.GetByID)
		r.Get("/services", cfg.ContentHandler.GetAll)
		r.Get("/services/{id}", cfg.ContentHandler.GetByID)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.Authenticate)
			r.Post("/products/{id}/rate", cfg.ProductHandler.Rate)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.Authenticate)
			r.Use(cfg.RequireAdmin)

			r.Post("/products", cfg.ProductHandler.Create)
			r.Put("/products/{id}", cfg.ProductHandler.Update)
			r.Patch("/products/{id}/status", cfg.ProductHandler.SetStatus)
			r.Delete("/products/{id}", cfg.ProductHandler.Delete)

			r.Post("/categories", cfg.CategoryHandler.Create)
			r.Put("/categories/{id}", cfg.CategoryHandler.Update)
			r.Delete("/categories/{id}", cfg.CategoryHandler.Delete)

			r.Get("/users", cfg.UserHandler.GetAll)
			r.Get("/users/{id}", cfg.UserHandler.GetByID)
			r.Post("/users", cfg.UserHandler.Create)
			r.Put("/users/{id}", cfg.UserHandler.Update)
			r.Delete("/users/{id}", cfg.UserHandler.Delete)

			r.Post("/blogs", cfg.BlogHandler.Create)
			r.Put("/blogs/{id}", cfg.BlogHandler.Update)
			r.Delete("/blogs/{id}", cfg.BlogHandler.Delete)

			r.Post("/services", cfg.ContentHandler.Create)
			r.Put("/services/{id}", cfg.ContentHandler.Update)
			r.Delete("/services/{id}", cfg.ContentHandler.Delete)

			r.Post("/upload", cfg.UploadHandler.Upload)
			r.Delete("/upload/{publicId}", cfg.UploadHandler.Delete)
		})
	})

	return r
}
