package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mnohosten/versionvec/pkg/changestream"
	"github.com/mnohosten/versionvec/pkg/mvcc"
)

// beginRequest is the optional body of POST /txn: a caller-chosen alias for
// the transaction, usable in place of the returned "T<id>" in later paths.
type beginRequest struct {
	Name string `json:"name"`
}

// Begin handles POST /txn.
func (h *Handlers) Begin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req beginRequest
		if err := parseJSONBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		txnID := h.store.Begin()
		canonical := h.bindName(req.Name, txnID)
		if h.collector != nil {
			h.collector.RecordBegin()
		}

		writeSuccess(w, map[string]interface{}{"txn": canonical})
	}
}

func (h *Handlers) resolveOr404(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	name := chi.URLParam(r, "name")
	id, ok := h.resolveTxnID(name)
	if !ok {
		writeError(w, &UnknownTransactionError{Name: name})
		return 0, false
	}
	return id, true
}

type writeRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Insert handles POST /txn/{name}/insert.
func (h *Handlers) Insert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txnID, ok := h.resolveOr404(w, r)
		if !ok {
			return
		}
		var req writeRequest
		if err := parseJSONBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		if err := h.store.Insert(txnID, req.Key, req.Value); err != nil {
			h.recordWriteError(err)
			writeError(w, err)
			return
		}
		if h.collector != nil {
			h.collector.RecordInsert()
		}
		writeSuccess(w, map[string]interface{}{"ok": true})
	}
}

// Update handles POST /txn/{name}/update.
func (h *Handlers) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txnID, ok := h.resolveOr404(w, r)
		if !ok {
			return
		}
		var req writeRequest
		if err := parseJSONBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		if err := h.store.Update(txnID, req.Key, req.Value); err != nil {
			h.recordWriteError(err)
			writeError(w, err)
			return
		}
		if h.collector != nil {
			h.collector.RecordUpdate()
		}
		writeSuccess(w, map[string]interface{}{"ok": true})
	}
}

type deleteRequest struct {
	Key string `json:"key"`
}

// Delete handles POST /txn/{name}/delete.
func (h *Handlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txnID, ok := h.resolveOr404(w, r)
		if !ok {
			return
		}
		var req deleteRequest
		if err := parseJSONBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		if err := h.store.Delete(txnID, req.Key); err != nil {
			h.recordWriteError(err)
			writeError(w, err)
			return
		}
		if h.collector != nil {
			h.collector.RecordDelete()
		}
		writeSuccess(w, map[string]interface{}{"ok": true})
	}
}

// Commit handles POST /txn/{name}/commit.
func (h *Handlers) Commit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txnID, ok := h.resolveOr404(w, r)
		if !ok {
			return
		}
		if err := h.store.Commit(txnID); err != nil {
			writeError(w, err)
			return
		}
		if h.collector != nil {
			h.collector.RecordCommit()
		}
		h.publishOutcome(changestream.EventCommit, txnID, chi.URLParam(r, "name"))
		writeSuccess(w, map[string]interface{}{"txn": chi.URLParam(r, "name"), "status": "COMMITTED"})
	}
}

// Abort handles POST /txn/{name}/abort.
func (h *Handlers) Abort() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txnID, ok := h.resolveOr404(w, r)
		if !ok {
			return
		}
		if err := h.store.Abort(txnID); err != nil {
			writeError(w, err)
			return
		}
		if h.collector != nil {
			h.collector.RecordAbort()
		}
		h.publishOutcome(changestream.EventAbort, txnID, chi.URLParam(r, "name"))
		writeSuccess(w, map[string]interface{}{"txn": chi.URLParam(r, "name"), "status": "ABORTED"})
	}
}

type queryRequest struct {
	Text string `json:"text"`
	K    int    `json:"k"`
}

type queryResult struct {
	ID         string `json:"id"`
	Value      string `json:"value"`
	VersionKey string `json:"versionKey"`
}

// Query handles POST /txn/{name}/query.
func (h *Handlers) Query() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		txnID, ok := h.resolveOr404(w, r)
		if !ok {
			return
		}
		req := queryRequest{K: h.defaultK}
		if err := parseJSONBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		start := time.Now()
		versions, err := h.store.Read(txnID, req.Text, req.K)
		if h.collector != nil {
			h.collector.RecordQuery(time.Since(start))
		}
		if err != nil {
			writeError(w, err)
			return
		}

		results := make([]queryResult, 0, len(versions))
		for _, v := range versions {
			results = append(results, queryResult{ID: v.ID, Value: v.Value, VersionKey: v.VersionKey})
		}
		writeSuccess(w, results)
	}
}

func (h *Handlers) recordWriteError(err error) {
	if h.collector == nil {
		return
	}
	switch {
	case errors.Is(err, mvcc.ErrWriteConflict):
		h.collector.RecordWriteConflict()
	case errors.Is(err, mvcc.ErrAlreadyExists):
		h.collector.RecordAlreadyExists()
	case errors.Is(err, mvcc.ErrNotFound):
		h.collector.RecordNotFound()
	}
}

// Health handles GET /_health.
func (h *Handlers) Health(startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, map[string]interface{}{
			"status":        "ok",
			"uptimeSeconds": time.Since(startTime).Seconds(),
		})
	}
}
