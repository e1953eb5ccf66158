package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"chargenet/backend/services/roaming-api/internal/jsonbody"
)

// ExpectedTotalHeader carries the unfiltered size of a listed collection.
const ExpectedTotalHeader = "X-ExpectedTotalNumberOfItems"

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, map[string]string{"description": description})
}

// writeBodyError answers a request whose JSON body failed validation.
func writeBodyError(w http.ResponseWriter, err error) {
	var fieldErr *jsonbody.FieldError
	if errors.As(err, &fieldErr) {
		writeError(w, http.StatusBadRequest, fieldErr.Message)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func setExpectedTotal(w http.ResponseWriter, total int) {
	w.Header().Set(ExpectedTotalHeader, strconv.Itoa(total))
}

type countJSON struct {
	Count int `json:"count"`
}
