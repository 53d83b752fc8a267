package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"restaurant-site/services"

	"github.com/rs/zerolog"
)

var (
	errNotFound  = errors.New("not found")
	errBadJSON   = errors.New("failed to parse JSON")
	errTryAgain  = errors.New("something went wrong, please try again")
	errRateLimit = errors.New("too many reservation requests, try again later")
)

// jsonResponse writes data as a JSON-encoded HTTP response with the given status code.
func jsonResponse(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes {"error": ...} with the given status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	jsonResponse(w, code, map[string]any{"error": err.Error()})
}

// writeServiceError maps service errors onto status codes. Anything that is
// not a rejection of the input is logged and reported as a generic failure.
func writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error": verr.Message,
			"field": verr.Field,
		})
		return
	}
	var rerr *services.ReferentialError
	if errors.As(err, &rerr) {
		jsonError(w, http.StatusUnprocessableEntity, rerr)
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("action", action).Msg("Request failed")
	jsonError(w, http.StatusInternalServerError, errTryAgain)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Str("action", "parse_failed").Msg("Failed to parse request body")
		jsonError(w, http.StatusBadRequest, errBadJSON)
		return false
	}
	return true
}
