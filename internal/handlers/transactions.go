package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/gulfretail/gulfposgo/internal/middleware"
	"github.com/gulfretail/gulfposgo/internal/pos"
	"github.com/gulfretail/gulfposgo/internal/store"
)

// groupKeyFrom resolves the {id} path segment into a grouping key.
// Normal transactions pass their UUID; legacy rows without one pass
// "legacy" plus ?seller= and ?bucket= query parameters.
func groupKeyFrom(req *http.Request) (pos.GroupKey, bool) {
	id := mux.Vars(req)["id"]
	if id != "legacy" {
		return pos.GroupKey{TransactionID: id}, true
	}
	seller := req.URL.Query().Get("seller")
	bucket, err := strconv.ParseInt(req.URL.Query().Get("bucket"), 10, 64)
	if seller == "" || err != nil {
		return pos.GroupKey{}, false
	}
	return pos.GroupKey{Seller: seller, Bucket: bucket}, true
}

// listTransactions returns grouped transactions, newest first
func (r *Router) listTransactions(w http.ResponseWriter, req *http.Request) {
	q := store.SaleQuery{Seller: req.URL.Query().Get("seller")}
	if v := req.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.From = t
		}
	}
	if v := req.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.To = t.Add(24 * time.Hour)
		}
	}
	if v := req.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}

	txs, err := r.svc.ListTransactions(req.Context(), q)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

func (r *Router) getTransaction(w http.ResponseWriter, req *http.Request) {
	key, ok := groupKeyFrom(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Legacy lookup needs seller and bucket")
		return
	}
	items, err := pos.ResolveMembers(req.Context(), r.store, key)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if len(items) == 0 {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	txs := pos.GroupTransactions(items)
	respondJSON(w, http.StatusOK, txs[0])
}

// UndoRequest carries the reversal reason. Category "other" requires a
// free-text detail.
type UndoRequest struct {
	ReasonCategory string `json:"reason_category"`
	ReasonDetail   string `json:"reason_detail,omitempty"`
}

func (r *Router) undoTransaction(w http.ResponseWriter, req *http.Request) {
	key, ok := groupKeyFrom(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Legacy lookup needs seller and bucket")
		return
	}

	var undoReq UndoRequest
	if err := json.NewDecoder(req.Body).Decode(&undoReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	category := strings.TrimSpace(undoReq.ReasonCategory)
	detail := strings.TrimSpace(undoReq.ReasonDetail)
	if category == "" {
		respondError(w, http.StatusBadRequest, "A reason category is required")
		return
	}
	if category == "other" && detail == "" {
		respondError(w, http.StatusBadRequest, "Reason 'other' requires a detail")
		return
	}
	reason := category
	if detail != "" {
		reason = category + ": " + detail
	}

	// Eligibility is enforced here at the boundary; the service itself
	// does not re-check the window.
	members, err := pos.ResolveMembers(req.Context(), r.store, key)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if len(members) == 0 {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if !pos.UndoEligible(members, time.Now()) {
		respondError(w, http.StatusConflict, "Transaction is no longer eligible for undo")
		return
	}

	result, err := r.svc.UndoTransaction(req.Context(), key, reason, middleware.ActorFrom(req.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (r *Router) editTransaction(w http.ResponseWriter, req *http.Request) {
	key, ok := groupKeyFrom(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Legacy lookup needs seller and bucket")
		return
	}

	var input pos.EditInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if input.Actor == "" {
		input.Actor = middleware.ActorFrom(req.Context())
	}

	result, err := r.svc.EditInvoice(req.Context(), key, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
