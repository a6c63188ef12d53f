package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
	"github.com/Keithsel/kien-quoc-sub001/internal/hub"
	"github.com/Keithsel/kien-quoc-sub001/internal/room"
	"github.com/Keithsel/kien-quoc-sub001/internal/types"
)

const authTimeout = 10 * time.Second

// Handler upgrades a connection and runs the authenticate-first
// protocol: the first frame must be AUTHENTICATE; everything after is a
// role-scoped command forwarded into the room actor.
func Handler(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// First frame: AUTHENTICATE.
		authCtx, cancelAuth := context.WithTimeout(r.Context(), authTimeout)
		_, data, err := conn.Read(authCtx)
		cancelAuth()
		if err != nil {
			return
		}
		var hello types.ClientMessage
		if err := json.Unmarshal(data, &hello); err != nil || hello.Type != "AUTHENTICATE" {
			writeJSON(r.Context(), conn, types.ServerMessage{Type: types.MsgAuthFailed, Error: "expected AUTHENTICATE"})
			return
		}
		role, ok := engine.ParseRole(hello.Role)
		if !ok {
			writeJSON(r.Context(), conn, types.ServerMessage{Type: types.MsgAuthFailed, Error: "unknown role"})
			return
		}

		out := make(chan types.ServerMessage, 16)
		clientID := randID(8)
		joinReply := make(chan room.JoinResult, 1)
		rm.Inbox() <- room.Join{
			ClientID: clientID,
			Token:    hello.Token,
			Role:     role,
			TeamID:   hello.TeamID,
			Outbox:   out,
			Reply:    joinReply,
		}
		res := <-joinReply
		if !res.OK {
			writeJSON(r.Context(), conn, types.ServerMessage{Type: types.MsgAuthFailed, Error: res.Reason})
			return
		}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		writeJSON(r.Context(), conn, types.ServerMessage{Type: types.MsgAuthSuccess, Code: code})
		logger.Debug("client joined",
			zap.String("room", code), zap.String("client", clientID), zap.String("role", string(role)))

		// Writer goroutine: drains the room's outbox until it closes
		// (shutdown or slow-client drop).
		writeCtx, cancelWrite := context.WithCancel(r.Context())
		defer cancelWrite()
		go func() {
			for msg := range out {
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				err := writeJSON(ctx, conn, msg)
				cancel()
				if err != nil {
					return
				}
			}
			conn.Close(websocket.StatusNormalClosure, "room closed")
		}()

		// Reader loop.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeJSON(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Code: "STRUCTURAL", Error: "bad json"})
				continue
			}
			cmd, ok := toEngineCommand(cm)
			if !ok {
				writeJSON(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Code: "STRUCTURAL", Error: "unknown type"})
				continue
			}
			rm.Inbox() <- room.FromClient{ClientID: clientID, Cmd: cmd}
		}
	}
}

func toEngineCommand(m types.ClientMessage) (engine.Command, bool) {
	switch engine.CommandType(m.Type) {
	case engine.CmdPlaceResource, engine.CmdRemoveResource:
		return engine.Command{Type: engine.CommandType(m.Type), CellID: m.CellID, Amount: m.Amount}, true
	case engine.CmdSubmitTurn, engine.CmdHostStartGame, engine.CmdHostPauseGame,
		engine.CmdHostResumeGame, engine.CmdHostSkipPhase, engine.CmdHostEndGame:
		return engine.Command{Type: engine.CommandType(m.Type)}, true
	case engine.CmdHostExtendTime:
		return engine.Command{Type: engine.CmdHostExtendTime, Seconds: m.Seconds}, true
	case engine.CmdHostKickTeam:
		return engine.Command{Type: engine.CmdHostKickTeam, TargetID: m.TeamID}, true
	}
	return engine.Command{}, false
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
