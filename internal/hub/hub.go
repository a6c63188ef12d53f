package hub

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/Keithsel/kien-quoc-sub001/internal/config"
	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
	"github.com/Keithsel/kien-quoc-sub001/internal/room"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	HostName string
	Reply    chan CreateRoomResult
}

type CreateRoomResult struct {
	Room      *room.Room
	Code      string
	HostToken string
	Err       error
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

// RestoreRoom revives a room from its saved snapshot (offline resume).
type RestoreRoom struct {
	Code  string
	Reply chan CreateRoomResult
}

type RemoveRoom struct{ Code string }

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RestoreRoom) isHubMsg() {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// TokenIssuer mints and validates host tokens.
type TokenIssuer interface {
	IssueHostToken(roomCode string) (string, error)
	VerifyHostToken(token, roomCode string) bool
}

// SnapshotStore loads saved room states for RestoreRoom.
type SnapshotStore interface {
	room.SnapshotSaver
	Load(roomCode string) (*engine.State, error)
}

type Deps struct {
	Logger    *zap.Logger
	Tokens    TokenIssuer
	Snapshots SnapshotStore // may be nil
	Archive   room.ResultArchiver
	FillBots  bool
}

// Hub owns the room map. Like the rooms themselves it is an actor, so
// room creation and lookup never race.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, deps Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- h.create(msg.HostName)

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RestoreRoom:
				msg.Reply <- h.restore(msg.Code)

			case RemoveRoom:
				delete(h.rooms, msg.Code)

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) create(hostName string) CreateRoomResult {
	code, err := h.freshCode()
	if err != nil {
		return CreateRoomResult{Err: err}
	}
	token, err := h.deps.Tokens.IssueHostToken(code)
	if err != nil {
		return CreateRoomResult{Err: err}
	}

	state := engine.NewState(code, hostName, time.Now())
	rm := h.spawn(state)
	h.deps.Logger.Info("room created", zap.String("code", code), zap.String("host", hostName))
	return CreateRoomResult{Room: rm, Code: code, HostToken: token}
}

func (h *Hub) restore(code string) CreateRoomResult {
	if rm := h.rooms[code]; rm != nil {
		return CreateRoomResult{Room: rm, Code: code}
	}
	if h.deps.Snapshots == nil {
		return CreateRoomResult{Err: engine.ErrStructural}
	}
	state, err := h.deps.Snapshots.Load(code)
	if err != nil {
		return CreateRoomResult{Err: err}
	}
	rm := h.spawn(state)
	h.deps.Logger.Info("room restored", zap.String("code", code))
	return CreateRoomResult{Room: rm, Code: code}
}

func (h *Hub) spawn(state *engine.State) *room.Room {
	rm := room.NewRoom(h.ctx, state, room.Deps{
		Logger:          h.deps.Logger,
		VerifyHostToken: h.deps.Tokens.VerifyHostToken,
		Snapshots:       h.deps.Snapshots,
		Archive:         h.deps.Archive,
		FillBots:        h.deps.FillBots,
	})
	h.rooms[state.RoomCode] = rm
	return rm
}

func (h *Hub) freshCode() (string, error) {
	for {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		if _, exists := h.rooms[code]; !exists {
			return code, nil
		}
	}
}

func generateCode() (string, error) {
	code := make([]byte, config.RoomCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(config.RoomCodeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = config.RoomCodeCharset[n.Int64()]
	}
	return string(code), nil
}
