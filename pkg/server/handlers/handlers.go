// Package handlers implements the HTTP binding over the six verbs
// (begin/insert/update/delete/commit/abort) plus query, mapping JSON
// requests onto pkg/mvcc and publishing commit/abort outcomes to the
// change feed.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mnohosten/versionvec/pkg/changestream"
	"github.com/mnohosten/versionvec/pkg/metrics"
	"github.com/mnohosten/versionvec/pkg/mvcc"
)

// Handlers holds the store instance and provides HTTP handlers for the
// transaction verb surface.
type Handlers struct {
	store      *mvcc.VersionedStore
	changes    *changestream.Hub
	collector  *metrics.Collector
	defaultK   int

	mu    sync.Mutex
	names map[string]uint64 // caller-chosen name -> txn id
}

// New creates a Handlers instance bound to store. changes and collector may
// be nil: a nil hub skips change-feed publication, a nil collector skips
// metrics recording.
func New(store *mvcc.VersionedStore, changes *changestream.Hub, collector *metrics.Collector, defaultK int) *Handlers {
	return &Handlers{
		store:     store,
		changes:   changes,
		collector: collector,
		defaultK:  defaultK,
		names:     make(map[string]uint64),
	}
}

// bindName registers name as an alias for txnID, returning the canonical
// "T<id>" form used when no name was supplied.
func (h *Handlers) bindName(name string, txnID uint64) string {
	canonical := fmt.Sprintf("T%d", txnID)
	h.mu.Lock()
	defer h.mu.Unlock()
	if name != "" {
		h.names[name] = txnID
	}
	h.names[canonical] = txnID
	return canonical
}

// resolveTxnID maps a path's {name} segment back to a transaction id: first
// consulting caller-chosen aliases, then falling back to the canonical
// "T<id>" form so a client may always address a transaction by the value
// returned from begin.
// ResolveTxnID is the exported form of resolveTxnID, used by the GraphQL
// resolver so it can address transactions by the same names the REST
// surface accepts.
func (h *Handlers) ResolveTxnID(name string) (uint64, bool) {
	return h.resolveTxnID(name)
}

func (h *Handlers) resolveTxnID(name string) (uint64, bool) {
	h.mu.Lock()
	if id, ok := h.names[name]; ok {
		h.mu.Unlock()
		return id, true
	}
	h.mu.Unlock()

	if strings.HasPrefix(name, "T") {
		if id, err := strconv.ParseUint(name[1:], 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// parseJSONBody parses JSON request body into target interface
func parseJSONBody(r *http.Request, target interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return &BadRequestError{Message: "failed to read request body"}
	}
	defer r.Body.Close()

	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &BadRequestError{Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// Error types for consistent error handling.

// BadRequestError signals a malformed or unparseable request body.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

// UnknownTransactionError signals a {name} path segment that does not
// resolve to any transaction this process has begun.
type UnknownTransactionError struct {
	Name string
}

func (e *UnknownTransactionError) Error() string {
	return "unknown transaction: " + e.Name
}

// writeError writes an error response with the status code the error kind
// maps to, following spec.md §7's taxonomy: AlreadyExists/WriteConflict are
// 409, NotFound is 404, NotActive/UnknownTxn are 410 Gone (the transaction
// existed but can no longer be acted on), malformed bodies are 400.
func writeError(w http.ResponseWriter, err error) {
	var (
		statusCode int
		errorType  string
	)

	var badRequest *BadRequestError
	var unknownTxn *UnknownTransactionError

	switch {
	case errors.As(err, &badRequest):
		statusCode, errorType = http.StatusBadRequest, "BadRequest"
	case errors.As(err, &unknownTxn):
		statusCode, errorType = http.StatusGone, "UnknownTxn"
	case errors.Is(err, mvcc.ErrAlreadyExists):
		statusCode, errorType = http.StatusConflict, "AlreadyExists"
	case errors.Is(err, mvcc.ErrWriteConflict):
		statusCode, errorType = http.StatusConflict, "WriteConflict"
	case errors.Is(err, mvcc.ErrNotFound):
		statusCode, errorType = http.StatusNotFound, "NotFound"
	case errors.Is(err, mvcc.ErrNotActive):
		statusCode, errorType = http.StatusGone, "NotActive"
	case errors.Is(err, mvcc.ErrUnknownTxn):
		statusCode, errorType = http.StatusGone, "UnknownTxn"
	default:
		statusCode, errorType = http.StatusInternalServerError, "InternalError"
	}

	response := map[string]interface{}{
		"ok":      false,
		"error":   errorType,
		"message": err.Error(),
		"code":    statusCode,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// writeSuccess writes a success response
func writeSuccess(w http.ResponseWriter, result interface{}) {
	response := map[string]interface{}{
		"ok":     true,
		"result": result,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// publishOutcome notifies the change feed of a commit or abort, if a hub is
// attached. Never blocks the caller on a slow subscriber.
func (h *Handlers) publishOutcome(evtType changestream.EventType, txnID uint64, name string) {
	if h.changes == nil {
		return
	}
	h.changes.Publish(&changestream.Event{
		Type:      evtType,
		TxnID:     txnID,
		Name:      name,
		Timestamp: time.Now(),
	})
}
