// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the REST surface of the node.
package api

import (
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/emberfi/ember/api/accounts"
	"github.com/emberfi/ember/api/logs"
	"github.com/emberfi/ember/api/pools"
	"github.com/emberfi/ember/api/restutil"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/logdb"
	"github.com/emberfi/ember/metrics"
	"github.com/emberfi/ember/runtime"
)

var logger = log.WithContext("pkg", "api")

var metricHTTPReqCounter = metrics.LazyLoadCounter("api_request_count")

type Options struct {
	AllowedOrigins  string
	PprofOn         bool
	SkipLogs        bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router
func New(rt *runtime.Runtime, logDB *logdb.LogDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt).
		Mount(router, "/accounts")
	pools.New(rt).
		Mount(router, "/pools")
	if !opts.SkipLogs && logDB != nil {
		logs.New(logDB).
			Mount(router, "/logs")
	}

	router.Path("/health").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return restutil.WriteJSON(w, map[string]uint64{"blockNumber": rt.BlockNum()})
		}))

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = requestLoggerHandler(handler)
	}
	return handler.ServeHTTP
}

// statusResponseWriter is a wrapper around http.ResponseWriter that captures the status code.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{w, http.StatusOK}
		h.ServeHTTP(srw, r)
		metricHTTPReqCounter().Add(1)
	})
}

func requestLoggerHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		srw := &statusResponseWriter{w, http.StatusOK}
		h.ServeHTTP(srw, r)
		logger.Info("request",
			"method", r.Method,
			"uri", r.URL.String(),
			"code", strconv.Itoa(srw.statusCode),
			"duration", time.Since(now).String(),
		)
	})
}
