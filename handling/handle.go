package handling

import (
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/getsentry/sentry-go"
)

// HandleError logs err, reports it to Sentry and answers with a generic 500
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", msg)
		sentry.CaptureException(err)
	})

	gecho.InternalServerError(w, gecho.Send())
}
