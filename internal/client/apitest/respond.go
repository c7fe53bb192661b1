package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Errors     any         `json:"errors,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string, errs any) {
	writeJSON(w, status, envelope{Success: false, Message: message, Errors: errs})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be JSON", nil)
		return false
	}
	return true
}

// pageParams reads page and per_page, falling back to 1 and def.
func pageParams(r *http.Request, def int) (page, perPage int) {
	page, perPage = 1, def
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = v
	}
	return page, perPage
}

func writePage[T any](w http.ResponseWriter, items []T, page, perPage int) {
	total := len(items)
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Success",
		Data:    append([]T{}, items[start:end]...),
		Pagination: &pagination{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   (total + perPage - 1) / perPage,
		},
	})
}
