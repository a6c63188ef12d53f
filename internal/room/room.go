package room

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Keithsel/kien-quoc-sub001/internal/bot"
	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
	"github.com/Keithsel/kien-quoc-sub001/internal/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a connection after token validation and replies with
// the result. On success the current snapshot is sent to Outbox
// immediately.
type Join struct {
	ClientID string
	Token    string
	Role     engine.Role
	TeamID   string
	Outbox   chan types.ServerMessage
	Reply    chan JoinResult
}

type JoinResult struct {
	OK     bool
	Reason string
}

type Leave struct{ ClientID string }

// FromClient carries one command from an authenticated connection. The
// actor stamps the command with the connection's role and team before
// applying it, so payloads cannot act for another team.
type FromClient struct {
	ClientID string
	Cmd      engine.Command
}

// Attach claims a region seat for a player (lobby-level, via HTTP).
type Attach struct {
	TeamIndex int
	OwnerID   string
	Name      string
	Reply     chan AttachResult
}

type AttachResult struct {
	Team *engine.Team
	Err  error
}

// GetState reflects internal state without data races; used by tests and
// the HTTP info endpoint.
type GetState struct {
	Reply chan View
}

type View struct {
	Version    int
	NumClients int
	State      *types.StateView
}

// ExportReq builds the export artifact.
type ExportReq struct {
	Reply chan engine.ExportDocument
}

type Shutdown struct{}

type timerFired struct{ gen uint64 }

func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (FromClient) isRoomMsg() {}
func (Attach) isRoomMsg()     {}
func (GetState) isRoomMsg()   {}
func (ExportReq) isRoomMsg()  {}
func (Shutdown) isRoomMsg()   {}
func (timerFired) isRoomMsg() {}

// SnapshotSaver persists the room state locally after each turn.
type SnapshotSaver interface {
	Save(s *engine.State) error
}

// ResultArchiver records a finished game.
type ResultArchiver interface {
	SaveFinished(doc engine.ExportDocument) error
}

// Deps are the room's external collaborators; any of them may be nil
// except the logger and the host token check.
type Deps struct {
	Logger          *zap.Logger
	VerifyHostToken func(token, roomCode string) bool
	Snapshots       SnapshotSaver
	Archive         ResultArchiver
	FillBots        bool
}

type client struct {
	role   engine.Role
	teamID string
	out    chan types.ServerMessage
}

// Room owns one game's full state. All mutations funnel through the
// actor loop, so state transitions never race. Broadcast never blocks
// the loop: slow subscribers are dropped.
type Room struct {
	inbox    chan Msg
	state    *engine.State
	version  int
	clients  map[string]client
	timerGen uint64
	deps     Deps
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewRoom(parent context.Context, initial *engine.State, deps Deps) *Room {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	r := &Room{
		inbox:   make(chan Msg, 64),
		state:   initial,
		clients: make(map[string]client),
		deps:    deps,
		ctx:     ctx,
		cancel:  cancel,
	}
	// A room restored mid-play has a deadline already running. Arm the
	// phase timer before the loop starts; an expired deadline fires
	// immediately and the loop advances on its first receive.
	if initial.Status == engine.StatusPlaying {
		r.armTimer(time.Now())
	}
	go r.loop()
	return r
}

// Inbox exposes the actor mailbox to the transport and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.state.RoomCode }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				r.handleLeave(msg.ClientID)
			case FromClient:
				r.handleCommand(msg)
			case Attach:
				r.handleAttach(msg)
			case GetState:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					State:      FilterState(r.state, engine.RoleHost, "", time.Now()),
				}
			case ExportReq:
				msg.Reply <- engine.BuildExport(r.state, time.Now())
			case timerFired:
				r.handleTimer(msg.gen)
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	if !r.authorize(msg) {
		msg.Reply <- JoinResult{OK: false, Reason: "invalid token"}
		return
	}
	if _, taken := r.clients[msg.ClientID]; taken {
		msg.Reply <- JoinResult{OK: false, Reason: "already joined"}
		return
	}

	r.clients[msg.ClientID] = client{role: msg.Role, teamID: msg.TeamID, out: msg.Outbox}
	msg.Reply <- JoinResult{OK: true}

	if msg.Role == engine.RolePlayer {
		if t := r.state.TeamByID(msg.TeamID); t != nil {
			t.Connected = true
			r.broadcastMsg(types.ServerMessage{Type: types.MsgTeamJoined, TeamID: t.ID})
		}
	}

	// Full snapshot, board included, straight to the new subscriber.
	now := time.Now()
	msg.Outbox <- types.ServerMessage{
		Type:    types.MsgRoomState,
		Version: r.version,
		State:   FilterState(r.state, msg.Role, msg.TeamID, now),
	}
}

func (r *Room) authorize(msg Join) bool {
	switch msg.Role {
	case engine.RoleHost:
		return r.deps.VerifyHostToken != nil && r.deps.VerifyHostToken(msg.Token, r.state.RoomCode)
	case engine.RolePlayer:
		t := r.state.TeamByID(msg.TeamID)
		return t != nil && t.SessionToken != "" && t.SessionToken == msg.Token
	case engine.RoleSpectator:
		return true
	}
	return false
}

func (r *Room) handleLeave(clientID string) {
	c, ok := r.clients[clientID]
	if !ok {
		return
	}
	delete(r.clients, clientID)

	// Disconnection is not an error and never removes team state; the
	// last saved placements stand until the phase forces submission.
	if c.role == engine.RolePlayer {
		stillConnected := false
		for _, other := range r.clients {
			if other.role == engine.RolePlayer && other.teamID == c.teamID {
				stillConnected = true
				break
			}
		}
		if !stillConnected {
			if t := r.state.TeamByID(c.teamID); t != nil {
				t.Connected = false
				r.broadcastMsg(types.ServerMessage{Type: types.MsgTeamLeft, TeamID: t.ID})
			}
		}
	}
}

func (r *Room) handleAttach(msg Attach) {
	team, err := r.state.AttachTeam(msg.TeamIndex, msg.OwnerID, msg.Name)
	msg.Reply <- AttachResult{Team: team, Err: err}
	if err == nil {
		r.broadcastState()
	}
}

func (r *Room) handleCommand(msg FromClient) {
	c, ok := r.clients[msg.ClientID]
	if !ok {
		return
	}
	now := time.Now()

	cmd := msg.Cmd
	cmd.Role = c.role
	if c.role == engine.RolePlayer {
		cmd.TeamID = c.teamID
	}
	if cmd.Type == engine.CmdHostStartGame {
		cmd.FillBots = r.deps.FillBots
	}

	events, err := r.state.Apply(cmd, now)
	if err != nil {
		r.sendTo(msg.ClientID, types.ServerMessage{
			Type:  types.MsgError,
			Code:  engine.ErrorCode(err),
			Error: err.Error(),
			Phase: r.state.CurrentPhase,
		})
		return
	}

	// Pause preempts the running timer for this phase; extending re-arms
	// it against the new deadline so the original fire is stale.
	switch cmd.Type {
	case engine.CmdHostPauseGame:
		r.timerGen++
	case engine.CmdHostExtendTime:
		if r.state.Status == engine.StatusPlaying {
			r.armTimer(now)
		}
	}

	r.version++
	r.afterMutation(events, now)
}

// afterMutation runs the shared post-command sequence: event fanout,
// all-submitted fast-forward, bot turns, and the state broadcast.
func (r *Room) afterMutation(events []engine.Event, now time.Time) {
	r.dispatchEvents(events, now)

	if r.state.Status == engine.StatusPlaying &&
		r.state.CurrentPhase == engine.PhaseAction && r.state.AllSubmitted() {
		r.advance(now)
		return
	}
	r.broadcastState()
}

func (r *Room) advance(now time.Time) {
	events, err := r.state.AdvancePhase(now)
	if err != nil {
		r.deps.Logger.Warn("phase advance failed",
			zap.String("room", r.state.RoomCode), zap.Error(err))
		return
	}
	r.version++
	r.afterMutation(events, now)
}

func (r *Room) dispatchEvents(events []engine.Event, now time.Time) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EvtPhaseStarted:
			r.armTimer(now)
			r.broadcastMsg(types.ServerMessage{
				Type:        types.MsgPhaseStarted,
				Phase:       ev.Phase,
				TimeLimitMs: r.state.PhaseRemaining(now).Milliseconds(),
				Event:       r.state.Event,
			})
			if ev.Phase == engine.PhaseAction {
				r.runBots(now)
			}
			if ev.Phase == engine.PhaseResult && r.deps.Snapshots != nil {
				if err := r.deps.Snapshots.Save(r.state); err != nil {
					r.deps.Logger.Warn("snapshot save failed", zap.Error(err))
				}
			}

		case engine.EvtTeamSubmitted:
			r.broadcastMsg(types.ServerMessage{Type: types.MsgTeamSubmitted, TeamID: ev.TeamID})

		case engine.EvtTurnResolved:
			r.broadcastMsg(types.ServerMessage{Type: types.MsgTurnResult, Result: ev.Result})

		case engine.EvtGameOver:
			r.timerGen++ // no more phase timers
			r.broadcastMsg(types.ServerMessage{Type: types.MsgGameOver, GameOver: ev.GameOver})
			r.archiveFinished(now)
		}
	}
}

// runBots plans and locks placements for AI-controlled teams as soon as
// the action phase opens.
func (r *Room) runBots(now time.Time) {
	for _, t := range r.state.Teams {
		if !t.IsAI || t.Submitted {
			continue
		}
		plan := bot.Plan(r.state, t)
		for cellID, rp := range plan {
			if err := r.state.PlaceResource(t.ID, cellID, rp); err != nil {
				r.deps.Logger.Warn("bot placement rejected",
					zap.String("team", t.ID), zap.String("cell", cellID), zap.Error(err))
			}
		}
		if err := r.state.SubmitTurn(t.ID); err != nil && !errors.Is(err, engine.ErrPhaseViolation) {
			r.deps.Logger.Warn("bot submit failed", zap.String("team", t.ID), zap.Error(err))
		}
	}
}

// archiveFinished records the ended game off the hot path; a slow
// database never stalls the room.
func (r *Room) archiveFinished(now time.Time) {
	if r.deps.Snapshots != nil {
		if err := r.deps.Snapshots.Save(r.state); err != nil {
			r.deps.Logger.Warn("final snapshot failed", zap.Error(err))
		}
	}
	if r.deps.Archive == nil {
		return
	}
	doc := engine.BuildExport(r.state, now)
	logger := r.deps.Logger
	archive := r.deps.Archive
	go func() {
		if err := archive.SaveFinished(doc); err != nil {
			logger.Error("archive failed", zap.String("room", doc.RoomCode), zap.Error(err))
		}
	}()
}

// armTimer schedules the current phase deadline. The generation counter
// makes stale fires harmless: skipping a phase or pausing bumps the gen
// and the old timer's message is ignored on arrival.
func (r *Room) armTimer(now time.Time) {
	r.timerGen++
	gen := r.timerGen
	d := r.state.PhaseRemaining(now)
	timer := time.NewTimer(d)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			select {
			case r.inbox <- timerFired{gen: gen}:
			case <-r.ctx.Done():
			}
		case <-r.ctx.Done():
		}
	}()
}

func (r *Room) handleTimer(gen uint64) {
	if gen != r.timerGen {
		return // stale fire from a skipped or paused phase
	}
	if r.state.Status != engine.StatusPlaying {
		return
	}
	r.advance(time.Now())
}

func (r *Room) broadcastState() {
	now := time.Now()
	for id, c := range r.clients {
		view := FilterUpdate(r.state, c.role, c.teamID, now)
		r.send(id, c, types.ServerMessage{Type: types.MsgPartialUpdate, Version: r.version, State: view})
	}
}

func (r *Room) broadcastMsg(msg types.ServerMessage) {
	for id, c := range r.clients {
		r.send(id, c, msg)
	}
}

func (r *Room) sendTo(clientID string, msg types.ServerMessage) {
	if c, ok := r.clients[clientID]; ok {
		r.send(clientID, c, msg)
	}
}

func (r *Room) send(id string, c client, msg types.ServerMessage) {
	select {
	case c.out <- msg:
	default:
		// Slow or gone; drop the subscriber rather than stall the room.
		close(c.out)
		delete(r.clients, id)
	}
}

func (r *Room) shutdown() {
	for id, c := range r.clients {
		close(c.out)
		delete(r.clients, id)
	}
	r.cancel()
}
