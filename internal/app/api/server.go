package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muhammadchandra19/spot-exchange/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

// NewRouter registers every route of the API.
func NewRouter(h *Handler, health *healthcheck.HealthCheck, log logger.Interface) *mux.Router {
	router := mux.NewRouter()
	router.Use(Recovery(log), RequestID, Logging(log))

	router.Handle("/health", health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/orders", h.PlaceOrder).Methods(http.MethodPost)
	v1.HandleFunc("/orders/{symbol}/{id}", h.GetOrder).Methods(http.MethodGet)
	v1.HandleFunc("/orders/{symbol}/{id}", h.CancelOrder).Methods(http.MethodDelete)
	v1.HandleFunc("/books/{symbol}/depth", h.GetDepth).Methods(http.MethodGet)
	if h.stream != nil {
		v1.HandleFunc("/books/{symbol}/stream", h.Stream).Methods(http.MethodGet)
	}
	v1.HandleFunc("/users/{user}/levels", h.GetUserLevels).Methods(http.MethodGet)
	v1.HandleFunc("/users/{user}/balances/{asset}", h.GetBalance).Methods(http.MethodGet)

	admin := v1.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/orders/{symbol}/{id}", h.RemoveOrder).Methods(http.MethodDelete)
	admin.HandleFunc("/symbols/{symbol}/shard", h.Remap).Methods(http.MethodPost)
	admin.HandleFunc("/deposits", h.Deposit).Methods(http.MethodPost)

	return router
}

// Server is the HTTP server of the API.
type Server struct {
	http   *http.Server
	logger logger.Interface
}

// NewServer creates a Server listening on port.
func NewServer(port int, handler http.Handler, log logger.Interface) *Server {
	return &Server{
		http: &http.Server{
			Addr:              ":" + strconv.Itoa(port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logger.NewField("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains open requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
