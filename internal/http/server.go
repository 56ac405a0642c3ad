package http

import (
	"net/http"

	"novashop/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Router *chi.Mux
}

func NewServer(handler *Handler, authorizer auth.Authorizer) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors)

	require := func(action auth.Action) func(http.Handler) http.Handler {
		return requireCapability(authorizer, action)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", handler.CreateOrder)
		r.Post("/proof", handler.AttachProof)
		r.Get("/{orderID}", handler.GetOrder)
		r.With(require(auth.ActionReviewOrders)).Post("/{orderID}/approve", handler.ApproveOrder)
		r.With(require(auth.ActionReviewOrders)).Post("/{orderID}/reject", handler.RejectOrder)
	})

	r.With(require(auth.ActionViewStats)).Get("/stats", handler.GetStats)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.With(require(auth.ActionManageCatalog)).Post("/", handler.UpsertProduct)
		r.With(require(auth.ActionManageCatalog)).Delete("/{name}", handler.RemoveProduct)
		r.With(require(auth.ActionSetStock)).Put("/{name}/stock", handler.SetStock)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", handler.ListCategories)
		r.With(require(auth.ActionManageCatalog)).Post("/", handler.AddCategory)
		r.With(require(auth.ActionManageCatalog)).Put("/{id}", handler.UpdateCategory)
		r.With(require(auth.ActionManageCatalog)).Delete("/{id}", handler.DeleteCategory)
	})

	r.Route("/payments", func(r chi.Router) {
		r.With(require(auth.ActionManagePayments)).Get("/", handler.ListPayments)
		r.With(require(auth.ActionManagePayments)).Put("/{method}", handler.SetPayment)
	})

	r.Route("/blacklist", func(r chi.Router) {
		r.Use(require(auth.ActionManageBlacklist))
		r.Get("/", handler.ListBlacklist)
		r.Post("/", handler.AddToBlacklist)
		r.Delete("/{userID}", handler.RemoveFromBlacklist)
	})

	r.With(require(auth.ActionReviewOrders)).Get("/ws/notifications", handler.NotificationsWS)

	return &Server{Router: r}
}

// requireCapability rejects requests whose actor lacks the capability. The
// platform layer owns who gets which role; this only consults the injected
// Authorizer.
func requireCapability(authorizer auth.Authorizer, action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := r.Header.Get("X-Actor-Id")
			if actorID == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing actor id")
				return
			}
			if !authorizer.Can(actorID, action) {
				writeError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Actor-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
