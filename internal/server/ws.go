package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"PursuitOverhaul/internal/game"
	"PursuitOverhaul/internal/tier"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const maxFrameBytes = 1 << 16

// gameConn is one connected game process and the registry serving it.
// Frames are handled synchronously in arrival order.
type gameConn struct {
	ws     *websocket.Conn
	reg    *game.Registry
	bridge *bridge
	log    *slog.Logger
	errs   rate.Sometimes
}

func serveWS(a *App, w http.ResponseWriter, r *http.Request) {
	settings, err := a.loadSettings()
	if err != nil {
		a.log.Error("tuning unavailable", "err", err)
		http.Error(w, "tuning unavailable", http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Warn("upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameBytes)

	a.conns.Add(1)
	defer a.conns.Add(-1)

	log := a.log.With("remote", r.RemoteAddr)
	b := newBridge()
	gc := &gameConn{
		ws:     conn,
		reg:    a.newRegistry(settings, b, log),
		bridge: b,
		log:    log,
		errs:   rate.Sometimes{First: 5, Interval: 10 * time.Second},
	}
	log.Info("game connected")
	defer log.Info("game disconnected")

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read failed", "err", err)
			}
			gc.shutdown()
			return
		}
		if mt != websocket.BinaryMessage {
			gc.protocolError("non-binary frame", "type", mt)
			continue
		}
		f, err := DecodeFrame(data)
		if err != nil {
			gc.protocolError("bad frame", "err", err)
			continue
		}
		if err := gc.flush(gc.handle(f)); err != nil {
			log.Warn("write failed", "err", err)
			gc.shutdown()
			return
		}
	}
}

func (gc *gameConn) protocolError(msg string, args ...any) {
	gc.errs.Do(func() { gc.log.Warn(msg, args...) })
}

// shutdown ends every pursuit still open on the connection.
func (gc *gameConn) shutdown() {
	for _, id := range gc.reg.ActiveSessions() {
		gc.reg.OnSessionDestroyed(id)
	}
}

// handle applies one inbound frame and returns the replies it produced.
func (gc *gameConn) handle(f Frame) []Frame {
	sid := game.SessionID(f.Session)
	vid := game.VehicleID(f.Vehicle)
	switch f.Type {
	case FrameSessionCreated:
		gc.reg.OnSessionCreated(sid)
	case FrameSessionDestroyed:
		gc.reg.OnSessionDestroyed(sid)
		gc.bridge.forget(sid)
	case FrameTick:
		gc.reg.OnSimulationTick(f.Now)
	case FrameLevelChanged:
		gc.reg.OnEscalationLevelChanged(tier.Mode(f.Mode), tier.Level(f.Level))
	case FrameVehicleAdded:
		gc.reg.OnVehicleAdded(sid, vid, f.Kind, game.CallSite(f.Site))
	case FrameVehicleRemoved:
		gc.reg.OnVehicleRemoved(sid, vid)
	case FrameSearchMode:
		gc.reg.OnSearchModeChanged(sid, f.Flag)
	case FrameStat:
		stat := game.Stat(f.Stat)
		if !stat.Valid() {
			gc.protocolError("unknown stat", "stat", f.Stat)
			return nil
		}
		gc.bridge.setStat(sid, stat, f.Value)
	case FramePatrolAdded:
		gc.reg.OnPatrolAdded(vid, f.Kind)
	case FramePatrolRemoved:
		gc.reg.OnPatrolRemoved(vid)
	case FrameQuery:
		return []Frame{gc.answer(f)}
	default:
		gc.protocolError("unknown frame type", "type", uint64(f.Type))
	}
	return nil
}

func (gc *gameConn) answer(q Frame) Frame {
	sid := game.SessionID(q.Session)
	reply := Frame{Type: FrameReply, Request: q.Request, Query: q.Query, Session: q.Session}
	switch q.Query {
	case QueryCanSpawnPursuer:
		reply.Flag = gc.reg.CanSpawnPursuer(sid)
	case QueryNextPursuerKind:
		reply.Kind, reply.Flag = gc.reg.NextPursuerKind(sid)
	case QueryNextRoadblockKind:
		reply.Kind, reply.Flag = gc.reg.NextRoadblockKind(sid)
	case QueryCanSpawnPatrol:
		reply.Flag = gc.reg.CanSpawnPatrol()
	case QueryNextPatrolKind:
		reply.Kind, reply.Flag = gc.reg.NextPatrolKind()
	case QueryDrainEscalation:
		reply.Value, reply.Flag = gc.reg.DrainPendingEscalation(sid), true
	case QueryPendingEscalation:
		reply.Value, reply.Flag = gc.reg.PendingEscalation(sid), true
	default:
		gc.protocolError("unknown query", "query", uint64(q.Query))
	}
	return reply
}

// flush writes replies and then every queued command.
func (gc *gameConn) flush(replies []Frame) error {
	for _, f := range append(replies, gc.bridge.drain()...) {
		if err := gc.ws.WriteMessage(websocket.BinaryMessage, EncodeFrame(f)); err != nil {
			return err
		}
	}
	return nil
}
