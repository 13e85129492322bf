package middleware

import (
	"net/http"

	"github.com/kbukum/voicelens/util"
)

const defaultMaxBodySize = 11 << 20

// BodySizeLimit caps request bodies at maxSize (e.g. "11MB", "512KB").
// Reads past the cap fail with *http.MaxBytesError.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, size)
			}
			next.ServeHTTP(w, r)
		})
	}
}
