package transport

import (
	"net/http"
	"strconv"
)

// pageParams reads skip/limit query parameters, falling back to sane values
// when they are missing or malformed.
func pageParams(r *http.Request, defaultLimit int) (offset, limit int) {
	limit = defaultLimit

	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return offset, limit
}
