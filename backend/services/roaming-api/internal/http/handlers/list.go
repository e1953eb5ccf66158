package handlers

import (
	"net/http"

	"chargenet/backend/services/roaming-api/internal/projection"
	"chargenet/backend/services/roaming-api/internal/query"
)

// writeList projects items through the request's match filter and window. An empty
// source collection answers 204; a collection emptied by filtering answers 200 [].
func writeList[T any, K ~string, J any](w http.ResponseWriter, params query.Params, items []T, key func(T) K, render func(T) J) {
	keep := func(item T) bool { return params.Matches(string(key(item))) }
	page := projection.Apply(items, key, keep, params.Window())
	setExpectedTotal(w, page.Total)
	if page.Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, projection.Map(page, render).Items)
}

func writeCount(w http.ResponseWriter, count int) {
	writeJSON(w, http.StatusOK, countJSON{Count: count})
}

func params(r *http.Request) query.Params {
	return query.Parse(r.URL.Query())
}
