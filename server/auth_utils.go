package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-warehouse-client/api"
	"github.com/jrsteele09/go-warehouse-client/token/jwt"
)

const contentTypeJSON = "application/json"

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes the backend's failure envelope: {success:false, error}.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, api.Envelope{Success: false, Error: message})
}

func introspectionFromContext(r *http.Request) (*jwt.TokenIntrospection, bool) {
	ti, ok := r.Context().Value(ContextKeyIntrospection).(*jwt.TokenIntrospection)
	return ti, ok && ti != nil
}
