package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

const (
	authLimitMessage    = "too many authentication attempts, please try again later"
	contactLimitMessage = "too many contact form submissions, please try again later"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/health", app.healthCheckHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/blog", app.listPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blog", app.requireAdmin(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/blog/:slug", app.showPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/blog/:slug", app.requireAdmin(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/blog/:slug", app.requireAdmin(app.deletePostHandler))

	// contact service
	router.HandlerFunc(http.MethodPost, "/v1/contact", app.limitByIP(app.limiters.contactIP, contactLimitMessage, app.submitContactHandler))
	router.HandlerFunc(http.MethodGet, "/v1/contact", app.requireAdmin(app.listContactsHandler))
	router.HandlerFunc(http.MethodPut, "/v1/contact/:id/status", app.requireAdmin(app.updateContactStatusHandler))

	// auth service
	router.HandlerFunc(http.MethodPost, "/v1/auth/blog", app.limitByIP(app.limiters.auth, authLimitMessage, app.loginHandler))
	router.HandlerFunc(http.MethodGet, "/v1/auth/verify", app.requireAdmin(app.verifyTokenHandler))

	return app.recoverPanic(app.assignRequestID(app.logRequest(app.enableCORS(app.rateLimit(app.authenticate(router))))))
}
