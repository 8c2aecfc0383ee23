package server

import "net/http"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("GET /api/snapshot", s.handleGetSnapshot)
	mux.HandleFunc("POST /api/snapshot", s.handleReplaceSnapshot)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("POST /api/intents", s.handleIntents)
	mux.HandleFunc("GET /api/frame", s.handleFrame)
	mux.HandleFunc("POST /api/gestures", s.handleGesture)
	mux.HandleFunc("GET /api/events", s.handlePendingEvents)
	mux.HandleFunc("POST /api/events/flush", s.handleFlushEvents)

	// Routes kept for older front ends
	mux.HandleFunc("GET /load", s.handleLegacyLoad)
	mux.HandleFunc("POST /save", s.handleLegacySave)

	return s.corsMiddleware(mux)
}
