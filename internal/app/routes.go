package app

import (
	"net/http"

	"github.com/cradoe/sellerverify/internal/handler"
	"github.com/cradoe/sellerverify/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	mid := middleware.New(app.errorHandler, app.Logger, app.DB.User(), &app.Config)

	routeHandler := handler.NewRouteHandler(&handler.RouteHandler{
		ErrHandler:   app.errorHandler,
		Users:        app.DB.User(),
		Verification: app.Verification,
		Config:       &app.Config,
		Dependencies: map[string]handler.Pinger{
			"database": app.DB,
			"cache":    app.Cache,
		},
	})

	seller := func(fn http.HandlerFunc) http.Handler {
		return mid.RequireAuthenticatedUser(fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return mid.RequireAdmin(fn)
	}

	mux.HandleFunc("GET /status", routeHandler.HandleHealthCheck)
	mux.HandleFunc("POST /auth/login", routeHandler.HandleAuthLogin)

	mux.Handle("POST /verification/phone/challenge", seller(routeHandler.HandleRequestPhoneChallenge))
	mux.Handle("POST /verification/phone/verify", seller(routeHandler.HandleVerifyPhoneChallenge))
	mux.Handle("POST /verification/submit", seller(routeHandler.HandleSubmitVerification))
	mux.Handle("GET /verification/me", seller(routeHandler.HandleGetMyVerification))
	mux.Handle("GET /verification/me/levels", seller(routeHandler.HandleGetMyLevels))

	mux.Handle("GET /verification/admin/pending", admin(routeHandler.HandleListPendingVerifications))
	mux.Handle("GET /verification/admin/{id}", admin(routeHandler.HandleGetVerification))
	mux.Handle("GET /verification/admin/{id}/history", admin(routeHandler.HandleVerificationHistory))
	mux.Handle("POST /verification/admin/{id}/start-review", admin(routeHandler.HandleStartReview))
	mux.Handle("POST /verification/admin/{id}/review", admin(routeHandler.HandleReviewVerification))

	return mid.LogAccess(mid.RecoverPanic(mid.Authenticate(mux)))
}
