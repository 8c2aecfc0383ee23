package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/logger"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/models"
)

func boardState(sess *app.Session) BoardState {
	b := BoardState{
		Frame:     sess.Frame(),
		Mode:      sess.Mode(),
		Highlight: sess.Highlight(),
		Selected:  sess.Selected(),
		Hovered:   sess.Hovered(),
		Subject:   sess.Gestures().Subject(),
	}
	if x, y, ok := sess.Gestures().Ghost(); ok {
		b.Ghost = &Ghost{X: x, Y: y}
	}
	return b
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var views []TaskView
	s.withSession(func(sess *app.Session) { views = newTaskViews(sess.View()) })
	writeAPIJSON(w, views)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var (
		t   task.Task
		err error
	)
	s.withSession(func(sess *app.Session) { t, err = sess.Task(id) })
	if err != nil {
		writeAPIError(w, http.StatusNotFound, err)
		return
	}
	writeAPIJSON(w, TaskView{Task: t, IsBlocked: t.IsBlocked, EffectiveStatus: t.EffectiveStatus()})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap models.Snapshot
	s.withSession(func(sess *app.Session) { snap = models.NewSnapshot(sess.Graph()) })
	writeAPIJSON(w, snap)
}

// replaceAndSave swaps in snap and persists it when the session has a store.
func (s *Server) replaceAndSave(r *http.Request, snap *models.Snapshot) (int, error) {
	snap.Normalize()
	if err := snap.Validate(); err != nil {
		return http.StatusBadRequest, err
	}

	var err error
	s.withSession(func(sess *app.Session) {
		if err = sess.Replace(snap.Tasks); err != nil {
			return
		}
		err = s.save(r.Context(), sess)
	})
	switch {
	case errors.Is(err, task.ErrCycle):
		return http.StatusUnprocessableEntity, err
	case errors.Is(err, app.ErrNoSnapshotStore):
		slog.Debug("snapshot replaced without persistence")
		return http.StatusOK, nil
	case err != nil:
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

func (s *Server) handleReplaceSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap models.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeAPIError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if status, err := s.replaceAndSave(r, &snap); err != nil {
		writeAPIError(w, status, err)
		return
	}
	s.handleGetSnapshot(w, r)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var err error
	s.withSession(func(sess *app.Session) { err = s.save(r.Context(), sess) })
	switch {
	case errors.Is(err, app.ErrNoSnapshotStore):
		writeAPIError(w, http.StatusConflict, err)
	case err != nil:
		writeAPIError(w, http.StatusInternalServerError, err)
	default:
		writeAPIJSON(w, map[string]bool{"saved": true})
	}
}

func (s *Server) handleIntents(w http.ResponseWriter, r *http.Request) {
	var req IntentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Intents) == 0 {
		writeAPIError(w, http.StatusBadRequest, errors.New("intents are required"))
		return
	}

	var (
		resp     IntentsResponse
		applyErr error
		saveErr  error
	)
	s.withSession(func(sess *app.Session) {
		resp.Applied, applyErr = sess.Apply(r.Context(), req.Intents...)
		if req.Save && len(resp.Applied) > 0 {
			saveErr = s.save(r.Context(), sess)
		}
		resp.Tasks = newTaskViews(sess.View())
	})

	if errors.Is(applyErr, task.ErrCycle) {
		writeAPIError(w, http.StatusConflict, applyErr)
		return
	}
	if saveErr != nil {
		writeAPIError(w, http.StatusInternalServerError, saveErr)
		return
	}
	if applyErr != nil {
		resp.Error = applyErr.Error()
	}
	if resp.Applied == nil {
		resp.Applied = []task.Intent{}
	}
	writeAPIJSON(w, resp)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	var b BoardState
	s.withSession(func(sess *app.Session) { b = boardState(sess) })
	writeAPIJSON(w, b)
}

func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	var req GestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	ev, err := req.Event()
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, err)
		return
	}
	logger.SetLastEvent(fmt.Sprintf("%s %s %.0f,%.0f", req.Type, req.NodeID, req.X, req.Y))

	var resp GestureResponse
	s.withSession(func(sess *app.Session) {
		resp.Accepted = sess.Dispatch(ev)
		if err := sess.LastError(); err != nil && resp.Accepted {
			resp.Error = err.Error()
		}
		resp.Board = boardState(sess)
	})
	writeAPIJSON(w, resp)
}

func (s *Server) handlePendingEvents(w http.ResponseWriter, r *http.Request) {
	var resp EventsResponse
	s.withSession(func(sess *app.Session) { resp.Pending = sess.PendingEvents() })
	writeAPIJSON(w, resp)
}

func (s *Server) handleFlushEvents(w http.ResponseWriter, r *http.Request) {
	var (
		resp FlushResponse
		err  error
	)
	s.withSession(func(sess *app.Session) {
		resp.Written, err = sess.FlushEvents(r.Context())
		resp.Pending = len(sess.PendingEvents())
	})
	if err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeAPIJSON(w, resp)
}

func (s *Server) handleLegacyLoad(w http.ResponseWriter, r *http.Request) {
	var snap LegacySnapshot
	s.withSession(func(sess *app.Session) { snap = newLegacySnapshot(sess.Graph()) })
	writeAPIJSON(w, snap)
}

func (s *Server) handleLegacySave(w http.ResponseWriter, r *http.Request) {
	var snap models.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeAPIError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if status, err := s.replaceAndSave(r, &snap); err != nil {
		writeAPIError(w, status, err)
		return
	}
	writeAPIJSON(w, snap)
}
