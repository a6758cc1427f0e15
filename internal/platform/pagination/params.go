package pagination

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Params carries offset pagination values parsed from a request.
type Params struct {
	Skip  int
	Limit int
}

// Default returns the pagination applied when a request carries no parameters.
func Default() Params {
	return Params{Skip: 0, Limit: defaultLimit}
}

// FromRequest parses skip/limit query parameters, applying defaults and caps.
// Negative or malformed values are rejected.
func FromRequest(r *http.Request) (Params, error) {
	params := Default()
	if r == nil {
		return params, nil
	}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("skip")); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return Params{}, fmt.Errorf("pagination: invalid skip %q", raw)
		}
		params.Skip = skip
	}

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return Params{}, fmt.Errorf("pagination: invalid limit %q", raw)
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		params.Limit = limit
	}

	return params, nil
}
