package metrics

import (
	"net/http"
	"time"
)

// MillisecondsSince returns the elapsed time since start in milliseconds.
func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// computeApproximateRequestSize mirrors what the server received on the
// wire closely enough for a size summary: request line, headers and body
// length, without buffering the body.
func computeApproximateRequestSize(r *http.Request) int {
	size := len(r.Method) + len(r.Proto) + 2
	if r.URL != nil {
		size += len(r.URL.String())
	}
	size += len(r.Host)
	for name, values := range r.Header {
		size += len(name)
		for _, v := range values {
			size += len(v)
		}
	}
	if r.ContentLength > 0 {
		size += int(r.ContentLength)
	}
	return size
}
