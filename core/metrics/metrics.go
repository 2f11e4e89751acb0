package metrics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReminderRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "party_invites_reminder_runs_total",
		Help: "Reminder processing runs by outcome",
	}, []string{"outcome"})

	ReminderEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "party_invites_reminder_emails_total",
		Help: "Reminder emails by checkpoint and delivery status",
	}, []string{"checkpoint", "status"})

	RSVPSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "party_invites_rsvp_submissions_total",
		Help: "RSVP submissions by status",
	}, []string{"status"})

	PhotoUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "party_invites_photo_uploads_total",
		Help: "Guest photo uploads by outcome",
	}, []string{"outcome"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "party_invites_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})
)

// Middleware counts requests by route template so path parameters do not explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			code := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			} else if err != nil && code < http.StatusBadRequest {
				code = http.StatusInternalServerError
			}
			httpRequests.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(code)).Inc()
			return err
		}
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
