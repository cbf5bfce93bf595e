package middleware

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// StatsHandler returns an [http.Handler] that reports the counters of all
// runners registered with reg. It responds with 200 OK and a JSON-encoded
// [Snapshot]. Mount it on the host application's own mux.
func StatsHandler(reg *Registry) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		snap := reg.Snapshot()

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusOK)

		//nolint:errcheck // best-effort JSON encoding to HTTP response
		_ = json.NewEncoder(writer).Encode(snap)
	})
}
