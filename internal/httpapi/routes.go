package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Keithsel/kien-quoc-sub001/internal/hub"
	"github.com/Keithsel/kien-quoc-sub001/internal/ws"
)

func SetupRoutes(h *hub.Hub, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h))
	r.Get("/rooms/{code}", RoomInfo(h))
	r.Post("/rooms/{code}/join", JoinRoom(h))
	r.Post("/rooms/{code}/resume", Resume(h))
	r.Get("/rooms/{code}/export", Export(h))
	r.Get("/ws", ws.Handler(h, logger))
	r.Get("/healthz", Healthz)
	return r
}
