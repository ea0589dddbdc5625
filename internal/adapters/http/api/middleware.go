package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/cancha/pkg/metrics"
)

// instrument records request count and latency under endpoint. Failed
// requests are also counted by the error code the client received.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(time.Since(start).Microseconds())/1000)
		if rec.status >= http.StatusBadRequest {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, rec.errorCode())
		}
	}
}

// statusRecorder remembers the status and, when writeError ran, the error
// code of the response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) errorCode() string {
	switch {
	case r.code != "":
		return r.code
	case r.status >= http.StatusInternalServerError:
		return "internal_error"
	default:
		return "client_error"
	}
}

// recordErrorCode tags w with code if it is being instrumented.
func recordErrorCode(w http.ResponseWriter, code string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.code = code
	}
}
