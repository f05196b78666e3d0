package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/middleware"
)

// maxLoggedBody caps how much of each request and response body is kept for
// the log line. Clients always get the full body.
const maxLoggedBody = 64 << 10

const redacted = "[REDACTED]"

// redactedFields holds the credential-bearing JSON keys and headers of the
// identity API, compared lower-cased.
var redactedFields = map[string]struct{}{
	"password":         {},
	"current_password": {},
	"new_password":     {},
	"password_hash":    {},
	"access_token":     {},
	"refresh_token":    {},
	"authorization":    {},
	"cookie":           {},
	"set-cookie":       {},
}

func isRedacted(name string) bool {
	_, ok := redactedFields[strings.ToLower(name)]
	return ok
}

// LoggingMiddleware logs the request on arrival and the response once the
// handler returns. RequestID must run first for the trace id to show up.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lg := base
			if traceID := TraceIDFromContext(r.Context()); traceID != "" {
				lg = base.With("traceID", traceID)
			}

			lg.InfoContext(r.Context(), "incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", redactBody(peekBody(r)),
			)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			captured := &cappedBuffer{limit: maxLoggedBody}
			ww.Tee(captured)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			lg.Log(r.Context(), levelForStatus(status), "response",
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
				"body", redactBody(captured.Bytes()),
				"body_truncated", captured.truncated,
			)
		})
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// peekBody reads up to maxLoggedBody bytes and puts them back in front of
// whatever is left, so the handler still sees the whole body.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	return head
}

// cappedBuffer keeps the first limit bytes written to it and drops the rest
// without reporting an error, so it is safe as a response tee.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	switch {
	case room <= 0:
		b.truncated = b.truncated || len(p) > 0
	case len(p) > room:
		b.buf.Write(p[:room])
		b.truncated = true
	default:
		b.buf.Write(p)
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte { return b.buf.Bytes() }

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isRedacted(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody renders a JSON body with credentials masked. Anything that does
// not parse (other content types, truncated JSON) is summarized by size only.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Sprintf("[unparsed body, %d bytes]", len(body))
	}
	out, err := json.Marshal(redactJSON(doc))
	if err != nil {
		return fmt.Sprintf("[unparsed body, %d bytes]", len(body))
	}
	return string(out)
}

func redactJSON(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for key, value := range node {
			if isRedacted(key) {
				node[key] = redacted
				continue
			}
			node[key] = redactJSON(value)
		}
		return node
	case []any:
		for i, item := range node {
			node[i] = redactJSON(item)
		}
		return node
	}
	return v
}
