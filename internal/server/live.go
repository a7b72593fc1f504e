package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/docgraph/pkg/cache"
	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/document"
	"github.com/matzehuels/docgraph/pkg/engine"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/observability"
	"github.com/matzehuels/docgraph/pkg/session"
)

// Live message types.
const (
	MessageSession = "session"
	MessageGraph   = "graph"
	MessageError   = "error"
)

const (
	liveIdleTimeout  = 10 * time.Minute
	liveWriteTimeout = 15 * time.Second
)

// LiveMessage is every message the server sends on /v1/live.
//
// The first message has type "session" and carries the session ID (and the
// last valid graph when an existing session was resumed). Each snapshot is
// answered with a "graph" message; a snapshot that does not parse gets
// valid=false, an empty graph, and the error code and message. "error" is
// only sent when the server itself failed.
type LiveMessage struct {
	Type     string         `json:"type"`
	Session  string         `json:"session,omitempty"`
	Revision int            `json:"revision"`
	Valid    bool           `json:"valid"`
	Graph    *diagram.Graph `json:"graph,omitempty"`
	Code     errors.Code    `json:"code,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// handleLive upgrades to a WebSocket and rebuilds the graph for every
// document snapshot received, mirroring an editor that re-parses on each
// edit.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	format, err := document.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	sess, err := s.openSession(ctx, q.Get("session"), format)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	// A resumed session keeps its format unless the client names one.
	opts.Format = string(sess.Format)
	if q.Get("format") != "" {
		opts.Format = string(format)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		return
	}
	defer conn.Close()
	// Snapshots above the document limit end the connection.
	conn.SetReadLimit(opts.MaxSize)

	hooks := observability.Session()
	hooks.OnSessionOpen(ctx, sess.ID)
	defer func() { hooks.OnSessionClose(ctx, sess.ID, sess.Revision) }()

	logger := opts.Logger.With("session", sess.ID)
	logger.Debug("live session opened", "revision", sess.Revision)

	hello := LiveMessage{Type: MessageSession, Session: sess.ID, Revision: sess.Revision, Valid: sess.Valid, Graph: sess.Graph}
	if err := s.send(conn, hello); err != nil {
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(liveIdleTimeout))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("live session ended", "err", err)
			}
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}

		g, buildErr := s.runner.Build(ctx, data, opts)
		sess.Record(cache.Hash(data), g, buildErr)
		sess.Touch(s.cfg.SessionTTL)
		if err := s.store.Set(ctx, sess); err != nil {
			logger.Warn("store session", "err", err)
		}
		hooks.OnSnapshot(ctx, sess.ID, sess.Revision, sess.Valid)

		if err := s.send(conn, snapshotReply(sess, g, buildErr)); err != nil {
			return
		}
	}
}

// openSession resumes a stored session or starts a new one.
func (s *Server) openSession(ctx context.Context, id string, format document.Format) (*session.Session, error) {
	if id == "" {
		sess := session.New(format, s.cfg.SessionTTL)
		return sess, s.store.Set(ctx, sess)
	}
	if err := session.ValidateID(id); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "session %q", id)
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "session %s not found or expired", id)
	}
	return sess, nil
}

// snapshotReply builds the answer to one snapshot.
func snapshotReply(sess *session.Session, g *diagram.Graph, err error) LiveMessage {
	msg := LiveMessage{
		Type:     MessageGraph,
		Session:  sess.ID,
		Revision: sess.Revision,
		Valid:    err == nil && sess.Valid,
		Graph:    g,
	}
	if err != nil {
		msg.Code = errors.GetCode(err)
		if msg.Code == "" {
			msg.Code = errors.ErrCodeInternal
		}
		msg.Message = errors.UserMessage(err)
		if !engine.IsInvalid(err) {
			msg.Type = MessageError
			msg.Graph = nil
			return msg
		}
	}
	if msg.Graph == nil {
		msg.Graph = diagram.New()
	}
	return msg
}

func (s *Server) send(conn *websocket.Conn, msg LiveMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
