package middleware

import (
	"catalog_server/handling"
	"mime"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

const methodOverrideHeader = "X-HTTP-Method-Override"

var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets HTML forms reach PUT, PATCH and DELETE routes by posting
// a _method field or the X-HTTP-Method-Override header
func (mw *Middleware) MethodOverride() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				method := strings.ToUpper(strings.TrimSpace(r.Header.Get(methodOverrideHeader)))
				if method == "" {
					method = strings.ToUpper(strings.TrimSpace(mw.formMethod(r)))
				}

				if overridableMethods[method] {
					mw.logger.Debug("Overriding request method",
						gecho.Field("from", r.Method),
						gecho.Field("to", method),
						gecho.Field("path", r.URL.Path),
					)
					r.Method = method
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// formMethod reads the _method field without consuming the body for handlers;
// the parsed form stays cached on the request
func (mw *Middleware) formMethod(r *http.Request) string {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(mw.cfg.Upload.MaxMultipartMemory); err != nil {
			return ""
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return ""
		}
	default:
		return ""
	}

	return r.PostForm.Get(handling.MethodField)
}
