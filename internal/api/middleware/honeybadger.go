package middleware

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	honeybadger "github.com/honeybadger-io/honeybadger-go"
	"github.com/sirupsen/logrus"
)

// Notifier is the part of the Honeybadger client used for reporting.
type Notifier interface {
	Notify(err interface{}, extra ...interface{}) (string, error)
}

// HoneybadgerMiddleware reports to Honeybadger when HONEYBADGER_API_KEY is set
// and is a pass-through otherwise.
func HoneybadgerMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	apiKey := os.Getenv("HONEYBADGER_API_KEY")
	if apiKey == "" {
		logger.Info("Honeybadger is not active. To enable error reporting, set the HONEYBADGER_API_KEY environment variable.")
		return func(c *gin.Context) { c.Next() }
	}

	client := honeybadger.New(honeybadger.Configuration{
		APIKey: apiKey,
		Env:    os.Getenv("GO_ENV"),
	})
	logger.Info("Honeybadger error reporting is enabled.")
	return ErrorReporter(client, logger)
}

// ErrorReporter notifies n about panics and failed responses. A panic is
// re-raised after reporting so gin.Recovery, registered before it, answers 500.
// Unknown note ids (404) and rejected payloads (422) are normal client traffic
// and are not reported.
func ErrorReporter(n Notifier, logger *logrus.Logger) gin.HandlerFunc {
	log := logger.WithField("component", "error-reporter")

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			notify(n, log, fmt.Sprintf("panic serving %s %s: %v", c.Request.Method, routeOf(c), rec), c.Request,
				honeybadger.Context{"stack": string(debug.Stack())}, honeybadger.Tags{"panic", "http"})
			panic(rec)
		}()

		c.Next()

		status := c.Writer.Status()
		tag, ok := reportTag(status)
		if !ok {
			return
		}
		notify(n, log, fmt.Sprintf("HTTP %d on %s %s", status, c.Request.Method, routeOf(c)), c.Request,
			honeybadger.Context{"status": status}, honeybadger.Tags{tag, "http"})
	}
}

func notify(n Notifier, log *logrus.Entry, msg string, extra ...interface{}) {
	if _, err := n.Notify(msg, extra...); err != nil {
		log.Errorf("cannot report %q: %v", msg, err)
		return
	}
	log.Warnf("reported: %s", msg)
}

func reportTag(status int) (string, bool) {
	switch {
	case status >= http.StatusInternalServerError:
		return "5XX", true
	case status == http.StatusNotFound, status == http.StatusUnprocessableEntity:
		return "", false
	case status >= http.StatusBadRequest:
		return "4XX", true
	default:
		return "", false
	}
}
