package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/util"
)

type responseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Hijack lets websocket upgrades through the wrapper.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rw.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// RequestID carries the X-Request-Id header, or a new id, in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(util.RequestIDHeader)
		if id == "" {
			id = util.NewRequestID()
		}
		w.Header().Set(util.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(util.WithRequestID(r.Context(), id)))
	})
}

// Logging logs every request once it completes.
func Logging(log logger.Interface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			log.InfoContext(r.Context(), "HTTP request",
				logger.NewField("method", r.Method),
				logger.NewField("path", r.URL.Path),
				logger.NewField("status", wrapped.status),
				logger.NewField("duration", time.Since(start).String()),
				logger.NewField("bytes", wrapped.written),
				logger.NewField("remote", r.RemoteAddr),
			)
		})
	}
}

// Recovery turns a handler panic into a 500 response.
func Recovery(log logger.Interface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.ErrorContext(r.Context(), fmt.Errorf("panic: %v", rec),
						logger.NewField("method", r.Method),
						logger.NewField("path", r.URL.Path),
					)
					writeFailure(w, http.StatusInternalServerError, errors.GeneralInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
