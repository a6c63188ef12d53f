package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
	"github.com/Keithsel/kien-quoc-sub001/internal/hub"
	"github.com/Keithsel/kien-quoc-sub001/internal/room"
)

type createRoomRequest struct {
	HostName string `json:"hostName"`
}

type createRoomResponse struct {
	RoomCode  string `json:"roomCode"`
	HostToken string `json:"hostToken"`
}

func CreateRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HostName == "" {
			http.Error(w, "hostName is required", http.StatusBadRequest)
			return
		}

		reply := make(chan hub.CreateRoomResult, 1)
		h.Inbox() <- hub.CreateRoom{HostName: req.HostName, Reply: reply}
		res := <-reply
		if res.Err != nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, createRoomResponse{
			RoomCode:  res.Code,
			HostToken: res.HostToken,
		})
	}
}

type joinRoomRequest struct {
	TeamIndex int    `json:"teamIndex"`
	Name      string `json:"name"`
	PlayerID  string `json:"playerId"`
}

type joinRoomResponse struct {
	TeamID       string `json:"teamId"`
	SessionToken string `json:"sessionToken"`
	Region       string `json:"region"`
}

// JoinRoom claims a region seat; the returned session token is the
// credential for the websocket AUTHENTICATE step.
func JoinRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := lookupRoom(h, w, r)
		if rm == nil {
			return
		}
		var req joinRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
			http.Error(w, "playerId is required", http.StatusBadRequest)
			return
		}

		reply := make(chan room.AttachResult, 1)
		rm.Inbox() <- room.Attach{TeamIndex: req.TeamIndex, OwnerID: req.PlayerID, Name: req.Name, Reply: reply}
		res := <-reply
		if res.Err != nil {
			status := http.StatusBadRequest
			if errors.Is(res.Err, engine.ErrCapacity) {
				status = http.StatusConflict
			}
			http.Error(w, res.Err.Error(), status)
			return
		}

		writeJSON(w, http.StatusOK, joinRoomResponse{
			TeamID:       res.Team.ID,
			SessionToken: res.Team.SessionToken,
			Region:       string(res.Team.Region),
		})
	}
}

// RoomInfo returns the spectator-level view of a room.
func RoomInfo(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := lookupRoom(h, w, r)
		if rm == nil {
			return
		}
		reply := make(chan room.View, 1)
		rm.Inbox() <- room.GetState{Reply: reply}
		view := <-reply
		writeJSON(w, http.StatusOK, view.State)
	}
}

// Export produces the read-only export artifact for a room.
func Export(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := lookupRoom(h, w, r)
		if rm == nil {
			return
		}
		reply := make(chan engine.ExportDocument, 1)
		rm.Inbox() <- room.ExportReq{Reply: reply}
		doc := <-reply
		w.Header().Set("Content-Disposition", "attachment; filename="+doc.RoomCode+"-export.json")
		writeJSON(w, http.StatusOK, doc)
	}
}

// Resume reloads a saved room snapshot and spins its actor back up.
func Resume(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		reply := make(chan hub.CreateRoomResult, 1)
		h.Inbox() <- hub.RestoreRoom{Code: code, Reply: reply}
		res := <-reply
		if res.Err != nil {
			http.Error(w, "no snapshot for room", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"roomCode": res.Code})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookupRoom(h *hub.Hub, w http.ResponseWriter, r *http.Request) *room.Room {
	code := chi.URLParam(r, "code")
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
	rm := <-reply
	if rm == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return nil
	}
	return rm
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
