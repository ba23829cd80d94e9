package rest

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"coalition/internal/service"
	"coalition/internal/transport/rest/handler"
	"coalition/internal/transport/rest/middleware"
	"coalition/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	ContentService   *service.ContentService
	InterviewService *service.InterviewService
	SummaryService   *service.SummaryService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	contentHandler := handler.NewContentHandler(c.ContentService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService, c.AuthService)
	resultsHandler := handler.NewResultsHandler(c.SummaryService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.InterviewService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)
	r.Use(requestLogger)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews", interviewHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interviews/{id}/result", interviewHandler.Result).Methods("GET", "OPTIONS")
	v1.HandleFunc("/backgrounds", contentHandler.ListBackgrounds).Methods("GET", "OPTIONS")
	v1.HandleFunc("/scenarios", contentHandler.ListScenarios).Methods("GET", "OPTIONS")
	v1.HandleFunc("/scenarios/{id}/leaderboard", resultsHandler.Leaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/scenarios/{id}/summary", resultsHandler.Summary).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/interviews/{id}", wsHandler.ObserveWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Candidate routes (require session token)
	candidateRoutes := v1.NewRoute().Subrouter()
	candidateRoutes.Use(authMW.RequireCandidate)

	candidateRoutes.HandleFunc("/interviews/current", interviewHandler.Current).Methods("GET", "OPTIONS")
	candidateRoutes.HandleFunc("/interviews/answers", interviewHandler.Answer).Methods("POST", "OPTIONS")

	// Author routes (content management)
	authorRoutes := v1.NewRoute().Subrouter()
	authorRoutes.Use(authMW.RequireAuthor)

	authorRoutes.HandleFunc("/questions", contentHandler.ListQuestions).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/questions/{id}", contentHandler.GetQuestion).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/questions/{id}", contentHandler.SaveQuestion).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/questions/{id}", contentHandler.DeleteQuestion).Methods("DELETE", "OPTIONS")
	authorRoutes.HandleFunc("/backgrounds/{id}", contentHandler.SaveBackground).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/backgrounds/{id}", contentHandler.DeleteBackground).Methods("DELETE", "OPTIONS")
	authorRoutes.HandleFunc("/scenarios/{id}", contentHandler.SaveScenario).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/scenarios/{id}", contentHandler.DeleteScenario).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
