package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/invites/validate", handler.ValidateInviteCode)
	mux.HandleFunc("POST /v1/auth/codes", handler.SendAuthCode)
	mux.HandleFunc("POST /v1/auth/codes/verify", handler.VerifyAuthCode)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/results", handler.ListResults)
	mux.HandleFunc("GET /v1/results/{eventID}", handler.GetResult)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedPicksRoutes(mux, handler, verifier)
	registerAuthorizedProfileRoutes(mux, handler, verifier)
	registerAuthorizedAdminRoutes(mux, handler, verifier)
}

func registerAuthorizedPicksRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/picks", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPicks)))
	mux.Handle("GET /v1/picks/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPicks)))
	mux.Handle("PUT /v1/picks/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.SaveMyPicks)))
}

func registerAuthorizedProfileRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/profile", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PUT /v1/profile/display-name", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMyDisplayName)))
}

func registerAuthorizedAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/rollup", RequireAuth(verifier, http.HandlerFunc(handler.TriggerRollup)))
	mux.Handle("POST /v1/admin/invites", RequireAuth(verifier, http.HandlerFunc(handler.GenerateInvites)))
	mux.Handle("PUT /v1/results/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.UpsertResult)))
}
