package api

import (
	"net/http"

	"retrodesk/pkg/router"
	"retrodesk/pkg/store"
)

func (a *API) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.Items(r.Context())
	if err != nil {
		a.logger.Warn("api: listing desktop items", "error", err)
		items = []store.Item{}
	}
	router.WriteJSON(w, http.StatusOK, items)
}

func (a *API) createItem(w http.ResponseWriter, r *http.Request) {
	if !a.store.Available() {
		router.WriteError(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}
	var n store.NewItem
	if err := decodeJSON(r, &n); err != nil {
		router.WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	item, err := a.store.CreateItem(r.Context(), n)
	if err != nil {
		a.storeError(w, err, "create desktop item")
		return
	}
	router.WriteJSON(w, http.StatusOK, item)
}

type moveRequest struct {
	Position *store.Position `json:"position"`
}

func (a *API) moveItem(w http.ResponseWriter, r *http.Request) {
	if !a.store.Available() {
		router.WriteError(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		router.WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Position == nil {
		router.WriteError(w, http.StatusBadRequest, "position: is required")
		return
	}
	item, err := a.store.MoveItem(r.Context(), router.Param(r, "id"), *req.Position)
	if err != nil {
		a.storeError(w, err, "update desktop item")
		return
	}
	router.WriteJSON(w, http.StatusOK, item)
}

func (a *API) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteItem(r.Context(), router.Param(r, "id")); err != nil {
		a.storeError(w, err, "delete desktop item")
		return
	}
	router.WriteJSON(w, http.StatusOK, map[string]string{"message": "Desktop item deleted successfully"})
}
