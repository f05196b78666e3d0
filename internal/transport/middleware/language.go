package middleware

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/identity-access/internal"
)

// Language picks the first Accept-Language entry the message catalog knows
// and stores it on the context. Quality weights are ignored; order wins.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := internal.DefaultLanguage
		for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
			tag, _, _ := strings.Cut(part, ";")
			if base, ok := internal.SupportedLanguage(tag); ok {
				lang = base
				break
			}
		}
		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(internal.ContextWithLanguage(r.Context(), lang)))
	})
}
