package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /matches", handler.Matches)
	mux.HandleFunc("GET /football-data", handler.FootballDataProxy)
	mux.HandleFunc("GET /v1/search", handler.Search)
	mux.HandleFunc("GET /v1/funfact", handler.FunFactOfDay)
	mux.HandleFunc("GET /v1/stats", handler.GetStats)
	mux.HandleFunc("DELETE /v1/stats", handler.ResetStats)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("DELETE /v1/cache", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ClearCache)))
	mux.Handle("POST /v1/internal/jobs/warmup", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunWarmupJob)))
}
