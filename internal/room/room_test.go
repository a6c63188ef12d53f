package room

import (
	"context"
	"testing"
	"time"

	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
	"github.com/Keithsel/kien-quoc-sub001/internal/types"
)

const hostToken = "good-host-token"

func testDeps(fillBots bool) Deps {
	return Deps{
		VerifyHostToken: func(token, roomCode string) bool { return token == hostToken },
		FillBots:        fillBots,
	}
}

func newTestRoom(t *testing.T, fillBots bool) (*Room, *engine.State, context.CancelFunc) {
	t.Helper()
	state := engine.NewState("123456", "Cô Lan", time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRoom(ctx, state, testDeps(fillBots))
	return r, state, cancel
}

// helper: receive one message with a timeout so tests never hang
func recvMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) types.ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return msg
	case <-time.After(within):
		t.Fatalf("timed out waiting for message")
		return types.ServerMessage{} // unreachable
	}
}

// helper: skip broadcasts until one of the wanted type arrives
func recvMsgOfType(t *testing.T, ch <-chan types.ServerMessage, msgType string, within time.Duration) types.ServerMessage {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				t.Fatalf("client outbox closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", msgType)
			return types.ServerMessage{} // unreachable
		}
	}
}

func join(t *testing.T, r *Room, clientID string, role engine.Role, token, teamID string, buf int) chan types.ServerMessage {
	t.Helper()
	out := make(chan types.ServerMessage, buf)
	reply := make(chan JoinResult, 1)
	r.Inbox() <- Join{ClientID: clientID, Token: token, Role: role, TeamID: teamID, Outbox: out, Reply: reply}
	res := <-reply
	if !res.OK {
		t.Fatalf("join %s rejected: %s", clientID, res.Reason)
	}
	return out
}

func getView(t *testing.T, r *Room) View {
	t.Helper()
	reply := make(chan View, 1)
	r.Inbox() <- GetState{Reply: reply}
	select {
	case v := <-reply:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func TestRoom_JoinSendsSnapshot(t *testing.T) {
	r, _, cancel := newTestRoom(t, false)
	defer cancel()

	out := join(t, r, "spec1", engine.RoleSpectator, "", "", 8)

	first := recvMsg(t, out, time.Second)
	if first.Type != types.MsgRoomState {
		t.Fatalf("want ROOM_STATE on join, got %s", first.Type)
	}
	if first.Version != 0 {
		t.Fatalf("after join: want version=0, got %d", first.Version)
	}
	if first.State.Status != engine.StatusWaiting {
		t.Fatalf("want waiting room, got %s", first.State.Status)
	}
	if len(first.State.Board) != 12 {
		t.Fatalf("want 12 board cells, got %d", len(first.State.Board))
	}
	// spectators never see private allocations
	for _, tv := range first.State.Teams {
		if tv.Placements != nil || tv.RemainingRP != nil {
			t.Fatalf("spectator view leaked private fields: %+v", tv)
		}
	}
}

func TestRoom_HostTokenChecked(t *testing.T) {
	r, _, cancel := newTestRoom(t, false)
	defer cancel()

	out := make(chan types.ServerMessage, 8)
	reply := make(chan JoinResult, 1)
	r.Inbox() <- Join{ClientID: "h1", Token: "wrong", Role: engine.RoleHost, Outbox: out, Reply: reply}
	if res := <-reply; res.OK {
		t.Fatalf("expected forged host token to be rejected")
	}

	join(t, r, "h2", engine.RoleHost, hostToken, "", 8)
}

func TestRoom_PlayerAuthBySessionToken(t *testing.T) {
	r, state, cancel := newTestRoom(t, false)
	defer cancel()
	team := state.Teams[0]

	out := make(chan types.ServerMessage, 8)
	reply := make(chan JoinResult, 1)
	r.Inbox() <- Join{ClientID: "p1", Token: "forged", Role: engine.RolePlayer, TeamID: team.ID, Outbox: out, Reply: reply}
	if res := <-reply; res.OK {
		t.Fatalf("expected forged session token to be rejected")
	}

	spec := join(t, r, "spec1", engine.RoleSpectator, "", "", 8)
	recvMsg(t, spec, time.Second) // join snapshot

	playerOut := join(t, r, "p2", engine.RolePlayer, team.SessionToken, team.ID, 8)
	snap := recvMsgOfType(t, playerOut, types.MsgRoomState, time.Second)
	if snap.State == nil || snap.State.RoomCode != "123456" {
		t.Fatalf("bad join snapshot: %+v", snap)
	}

	// the rest of the room hears about the connection
	joined := recvMsgOfType(t, spec, types.MsgTeamJoined, time.Second)
	if joined.TeamID != team.ID {
		t.Fatalf("TEAM_JOINED for wrong team: %s", joined.TeamID)
	}
}

func TestRoom_AttachClaimsSeat(t *testing.T) {
	r, _, cancel := newTestRoom(t, false)
	defer cancel()

	reply := make(chan AttachResult, 1)
	r.Inbox() <- Attach{TeamIndex: 1, OwnerID: "owner-1", Name: "Đội Biển", Reply: reply}
	res := <-reply
	if res.Err != nil {
		t.Fatalf("attach: %v", res.Err)
	}
	if res.Team.SessionToken == "" {
		t.Fatalf("expected a session token on the claimed team")
	}

	// second claim on the same seat must fail
	r.Inbox() <- Attach{TeamIndex: 1, OwnerID: "owner-2", Reply: reply}
	if res := <-reply; res.Err == nil {
		t.Fatalf("expected claimed seat to be rejected")
	}
}

func TestRoom_CommandStamping(t *testing.T) {
	r, state, cancel := newTestRoom(t, false)
	defer cancel()
	mine, other := state.Teams[0], state.Teams[1]

	// claim three seats so the game can start without bot fill
	attachReply := make(chan AttachResult, 1)
	for i := 0; i < 3; i++ {
		r.Inbox() <- Attach{TeamIndex: i, OwnerID: "owner", Reply: attachReply}
		if res := <-attachReply; res.Err != nil {
			t.Fatalf("attach %d: %v", i, res.Err)
		}
	}

	hostOut := join(t, r, "host", engine.RoleHost, hostToken, "", 64)
	playerOut := join(t, r, "p1", engine.RolePlayer, mine.SessionToken, mine.ID, 64)

	r.Inbox() <- FromClient{ClientID: "host", Cmd: engine.Command{Type: engine.CmdHostStartGame}}
	r.Inbox() <- FromClient{ClientID: "host", Cmd: engine.Command{Type: engine.CmdHostSkipPhase}}
	recvMsgOfType(t, playerOut, types.MsgPhaseStarted, time.Second)

	// the payload names another team; the stamped command must act on ours
	r.Inbox() <- FromClient{ClientID: "p1", Cmd: engine.Command{
		Type: engine.CmdPlaceResource, TeamID: other.ID, CellID: "cell-1-3", Amount: 3,
	}}
	recvMsgOfType(t, hostOut, types.MsgPartialUpdate, time.Second)

	view := getView(t, r)
	for _, tv := range view.State.Teams {
		if tv.ID == other.ID && tv.Placements["cell-1-3"] != 0 {
			t.Fatalf("forged TeamID reached the other team's placements")
		}
		if tv.ID == mine.ID && tv.Placements["cell-1-3"] != 3 {
			t.Fatalf("own placement missing: %+v", tv.Placements)
		}
	}
}

func TestRoom_ErrorGoesToCallerOnly(t *testing.T) {
	r, state, cancel := newTestRoom(t, false)
	defer cancel()
	team := state.Teams[0]

	spec := join(t, r, "spec1", engine.RoleSpectator, "", "", 8)
	recvMsg(t, spec, time.Second)
	playerOut := join(t, r, "p1", engine.RolePlayer, team.SessionToken, team.ID, 8)
	recvMsg(t, playerOut, time.Second)
	recvMsgOfType(t, spec, types.MsgTeamJoined, time.Second)

	// placing before the game starts is a phase violation
	r.Inbox() <- FromClient{ClientID: "p1", Cmd: engine.Command{
		Type: engine.CmdPlaceResource, CellID: "cell-1-3", Amount: 3,
	}}

	errMsg := recvMsgOfType(t, playerOut, types.MsgError, time.Second)
	if errMsg.Code != "PHASE_VIOLATION" {
		t.Fatalf("want PHASE_VIOLATION, got %s", errMsg.Code)
	}

	select {
	case msg := <-spec:
		t.Fatalf("spectator should not receive the caller's error, got %s", msg.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRoom_AllSubmittedFastForward(t *testing.T) {
	r, _, cancel := newTestRoom(t, true)
	defer cancel()

	hostOut := join(t, r, "host", engine.RoleHost, hostToken, "", 64)

	r.Inbox() <- FromClient{ClientID: "host", Cmd: engine.Command{Type: engine.CmdHostStartGame}}
	started := recvMsgOfType(t, hostOut, types.MsgPhaseStarted, time.Second)
	if started.Phase != engine.PhaseEvent {
		t.Fatalf("want event phase first, got %s", started.Phase)
	}

	// skipping into action lets the bots place and submit; with every
	// team submitted the room rolls straight into resolution
	r.Inbox() <- FromClient{ClientID: "host", Cmd: engine.Command{Type: engine.CmdHostSkipPhase}}
	action := recvMsgOfType(t, hostOut, types.MsgPhaseStarted, time.Second)
	if action.Phase != engine.PhaseAction {
		t.Fatalf("want action phase, got %s", action.Phase)
	}
	resolution := recvMsgOfType(t, hostOut, types.MsgPhaseStarted, time.Second)
	if resolution.Phase != engine.PhaseResolution {
		t.Fatalf("want fast-forward to resolution, got %s", resolution.Phase)
	}

	// the resolution timer is short; the turn result follows on its own
	result := recvMsgOfType(t, hostOut, types.MsgTurnResult, 5*time.Second)
	if result.Result == nil || result.Result.Turn != 1 {
		t.Fatalf("want turn-1 result, got %+v", result.Result)
	}
}

func TestRoom_DropSlowClient(t *testing.T) {
	r, _, cancel := newTestRoom(t, true)
	defer cancel()

	slow := make(chan types.ServerMessage, 1)
	reply := make(chan JoinResult, 1)
	r.Inbox() <- Join{ClientID: "slow", Role: engine.RoleSpectator, Outbox: slow, Reply: reply}
	if res := <-reply; !res.OK {
		t.Fatalf("join rejected: %s", res.Reason)
	}

	join(t, r, "host", engine.RoleHost, hostToken, "", 64)

	// the join snapshot fills the slow outbox; the next broadcast drops it
	r.Inbox() <- FromClient{ClientID: "host", Cmd: engine.Command{Type: engine.CmdHostStartGame}}

	view := getView(t, r)
	if view.NumClients != 1 {
		t.Fatalf("expected slow client to be dropped; NumClients=%d", view.NumClients)
	}
}

func TestRoom_ExportDocument(t *testing.T) {
	r, state, cancel := newTestRoom(t, false)
	defer cancel()

	reply := make(chan engine.ExportDocument, 1)
	r.Inbox() <- ExportReq{Reply: reply}
	select {
	case doc := <-reply:
		if doc.RoomCode != state.RoomCode {
			t.Fatalf("want room %s, got %s", state.RoomCode, doc.RoomCode)
		}
		if doc.Status != engine.StatusWaiting {
			t.Fatalf("want waiting status, got %s", doc.Status)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for export")
	}
}

func TestRoom_PartialUpdateOmitsBoard(t *testing.T) {
	r, _, cancel := newTestRoom(t, false)
	defer cancel()

	out := join(t, r, "spec1", engine.RoleSpectator, "", "", 8)
	snap := recvMsgOfType(t, out, types.MsgRoomState, time.Second)
	if len(snap.State.Board) != 12 {
		t.Fatalf("snapshot should carry the board, got %d cells", len(snap.State.Board))
	}

	// a seat claim triggers an ordinary mutation broadcast
	reply := make(chan AttachResult, 1)
	r.Inbox() <- Attach{TeamIndex: 0, OwnerID: "owner-1", Reply: reply}
	if res := <-reply; res.Err != nil {
		t.Fatalf("attach: %v", res.Err)
	}

	update := recvMsgOfType(t, out, types.MsgPartialUpdate, time.Second)
	if update.State == nil || len(update.State.Board) != 0 {
		t.Fatalf("partial update must omit the static board: %+v", update.State)
	}
	if len(update.State.Teams) == 0 {
		t.Fatalf("partial update should still carry team summaries")
	}
}

func TestRoom_ExtendTimeRetiresOldDeadline(t *testing.T) {
	r, _, cancel := newTestRoom(t, true)
	defer cancel()

	hostOut := join(t, r, "host", engine.RoleHost, hostToken, "", 64)
	r.Inbox() <- FromClient{ClientID: "host", Cmd: engine.Command{Type: engine.CmdHostStartGame}}
	recvMsgOfType(t, hostOut, types.MsgPhaseStarted, time.Second)
	recvMsgOfType(t, hostOut, types.MsgPartialUpdate, time.Second) // start broadcast

	// start armed generation 1; extending must arm generation 2
	r.Inbox() <- FromClient{ClientID: "host", Cmd: engine.Command{Type: engine.CmdHostExtendTime, Seconds: 60}}
	after := recvMsgOfType(t, hostOut, types.MsgPartialUpdate, time.Second)
	if after.State.PhaseRemainingMs <= 15000 {
		t.Fatalf("extension not visible: %dms remaining", after.State.PhaseRemainingMs)
	}

	// the pre-extension deadline firing must not advance the phase
	r.Inbox() <- timerFired{gen: 1}
	view := getView(t, r)
	if view.State.CurrentPhase != engine.PhaseEvent {
		t.Fatalf("stale deadline advanced the phase to %s", view.State.CurrentPhase)
	}

	// the post-extension deadline still drives progression
	r.Inbox() <- timerFired{gen: 2}
	action := recvMsgOfType(t, hostOut, types.MsgPhaseStarted, time.Second)
	if action.Phase != engine.PhaseAction {
		t.Fatalf("want action after the live deadline, got %s", action.Phase)
	}
}

func TestRoom_RestoredRoomResumesTimer(t *testing.T) {
	state := engine.NewState("123456", "Cô Lan", time.Now())
	now := time.Now()
	if _, err := state.Apply(engine.Command{
		Type: engine.CmdHostStartGame, Role: engine.RoleHost, FillBots: true,
	}, now); err != nil {
		t.Fatalf("start: %v", err)
	}
	// a saved deadline that is nearly due when the room comes back
	state.PhaseEndTime = now.Add(300 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRoom(ctx, state, testDeps(true))

	hostOut := join(t, r, "host", engine.RoleHost, hostToken, "", 64)
	started := recvMsgOfType(t, hostOut, types.MsgPhaseStarted, 2*time.Second)
	if started.Phase != engine.PhaseAction {
		t.Fatalf("restored room should advance on its own, got %s", started.Phase)
	}
}

func TestRoom_LeaveMarksDisconnected(t *testing.T) {
	r, state, cancel := newTestRoom(t, false)
	defer cancel()
	team := state.Teams[0]

	spec := join(t, r, "spec1", engine.RoleSpectator, "", "", 8)
	recvMsg(t, spec, time.Second)
	playerOut := join(t, r, "p1", engine.RolePlayer, team.SessionToken, team.ID, 8)
	recvMsg(t, playerOut, time.Second)
	recvMsgOfType(t, spec, types.MsgTeamJoined, time.Second)

	r.Inbox() <- Leave{ClientID: "p1"}

	left := recvMsgOfType(t, spec, types.MsgTeamLeft, time.Second)
	if left.TeamID != team.ID {
		t.Fatalf("TEAM_LEFT for wrong team: %s", left.TeamID)
	}
}
