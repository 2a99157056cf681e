// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	log "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ava-labs/leasevm/indexer"
	"github.com/ava-labs/leasevm/leasevm"
)

const (
	apiPrefix       = "/ext"
	requestIDHeader = "X-Request-Id"
	historyLimit    = 100
)

// newRouter serves the VM's handlers under /ext, alongside health, metrics
// and, if [index] is set, event history endpoints.
func newRouter(
	vm *leasevm.VM,
	index *indexer.Indexer,
	gatherer prometheus.Gatherer,
	logger log.Logger,
) (http.Handler, error) {
	handlers, err := vm.CreateHandlers()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	for path, handler := range handlers {
		r.Handle(apiPrefix+path, handler)
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if index != nil {
		r.Route(apiPrefix+"/events", func(r chi.Router) {
			r.Get("/slot/{slotID}", historyHandler(index, logger))
			r.Get("/kind/{kind}", kindHandler(index, logger))
		})
	}
	return r, nil
}

// requestID tags every request with a fresh id unless the caller sent one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("served request",
				"requestID", r.Header.Get(requestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

func historyHandler(index *indexer.Indexer, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slotID, err := strconv.ParseUint(chi.URLParam(r, "slotID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid slot id"}, logger)
			return
		}
		records, err := index.History(r.Context(), slotID)
		if err != nil {
			logger.Error("failed to read slot history", "slot", slotID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read history"}, logger)
			return
		}
		writeJSON(w, http.StatusOK, records, logger)
	}
}

func kindHandler(index *indexer.Indexer, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := leasevm.EventKind(chi.URLParam(r, "kind"))
		records, err := index.ByKind(r.Context(), kind, historyLimit)
		if err != nil {
			logger.Error("failed to read events", "kind", kind, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read events"}, logger)
			return
		}
		writeJSON(w, http.StatusOK, records, logger)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, logger log.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
