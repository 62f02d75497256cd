package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/service"
	"github.com/aussiebroadwan/authstate/internal/auth/session"
	"github.com/aussiebroadwan/authstate/pkg/authsdk"
	"github.com/aussiebroadwan/authstate/pkg/httpx"
	"github.com/aussiebroadwan/authstate/pkg/slogx"
)

// SessionsHandler exposes per-connection session managers over HTTP.
type SessionsHandler struct {
	Registry *session.Registry
}

func (h *SessionsHandler) manager(w http.ResponseWriter, r *http.Request) (*session.Manager, bool) {
	m, err := h.Registry.Get(r.PathValue("id"))
	if err != nil {
		authsdk.ErrSessionNotFound.WriteError(w)
		return nil, false
	}
	return m, true
}

// HandleOpen godoc
//
//	@Summary		Open a session
//	@Description	Starts tracking a client connection in the disconnected state. Sending a previous session_id resumes it.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.OpenSessionRequest	false	"Session to resume"
//	@Success		201		{object}	authsdk.SessionResponse		"session_id, location"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Malformed body or session id"
//	@Router			/v1/sessions [post].
func (h *SessionsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	var req authsdk.OpenSessionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	id, m, err := h.Registry.Open(req.SessionID)
	if err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.SessionResponse{
		SessionID: id.String(),
		Location:  m.Location().String(),
	})
}

// HandleConnect godoc
//
//	@Summary		Signal connection established
//	@Description	The session's durable store is now reachable. A token held in memory is moved into it. One-way.
//	@Tags			Sessions
//	@Produce		json
//	@Param			id	path		string					true	"Session ID"
//	@Success		200	{object}	authsdk.SessionResponse	"session_id, location"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown session"
//	@Failure		409	{object}	authsdk.ErrorResponse	"Already connected"
//	@Failure		503	{object}	authsdk.ErrorResponse	"Durable store write failed, still disconnected"
//	@Router			/v1/sessions/{id}/connect [post].
func (h *SessionsHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := slogx.WithConnectionID(r.Context(), id)

	err := h.Registry.Connect(ctx, id)
	switch {
	case errors.Is(err, session.ErrNotFound):
		authsdk.ErrSessionNotFound.WriteError(w)
		return
	case errors.Is(err, session.ErrAlreadyConnected):
		authsdk.ErrAlreadyConnected.WriteError(w)
		return
	case errors.Is(err, session.ErrPersist):
		authsdk.ErrStoreUnavailable.WriteError(w)
		return
	case err != nil:
		slogx.FromContext(ctx).Error("connect failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		SessionID: id,
		Location:  session.Connected.String(),
	})
}

// HandleLogin godoc
//
//	@Summary		Log a session in
//	@Description	Authenticates the credentials, stores the token where the session currently keeps it and publishes the new state.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Session ID"
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.StateResponse	"New state"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.LoginResponse	"success=false, error"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Unknown session"
//	@Failure		503		{object}	authsdk.ErrorResponse	"Durable store write failed"
//	@Router			/v1/sessions/{id}/login [post].
func (h *SessionsHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	ctx := slogx.WithConnectionID(r.Context(), r.PathValue("id"))

	var req *authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req == nil {
		authsdk.WriteLoginFailure(w)
		return
	}

	err := m.Login(ctx, domain.Credential{Username: req.Username, Password: req.Password})
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.WriteLoginFailure(w)
		return
	case errors.Is(err, session.ErrPersist):
		authsdk.ErrStoreUnavailable.WriteError(w)
		return
	case err != nil:
		slogx.FromContext(ctx).Error("session login failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toStateResponse(m.CurrentState(ctx)))
}

// HandleLogout godoc
//
//	@Summary		Log a session out
//	@Tags			Sessions
//	@Param			id	path	string	true	"Session ID"
//	@Success		204	"Logged out"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown session"
//	@Failure		503	{object}	authsdk.ErrorResponse	"Durable store delete failed"
//	@Router			/v1/sessions/{id}/logout [post].
func (h *SessionsHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	ctx := slogx.WithConnectionID(r.Context(), r.PathValue("id"))

	if err := m.Logout(ctx); err != nil {
		if errors.Is(err, session.ErrPersist) {
			authsdk.ErrStoreUnavailable.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("session logout failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleState godoc
//
//	@Summary		Session state
//	@Tags			Sessions
//	@Produce		json
//	@Param			id	path		string					true	"Session ID"
//	@Success		200	{object}	authsdk.StateResponse	"Current state"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown session"
//	@Router			/v1/sessions/{id}/state [get].
func (h *SessionsHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	ctx := slogx.WithConnectionID(r.Context(), r.PathValue("id"))
	httpx.WriteJSON(w, http.StatusOK, toStateResponse(m.CurrentState(ctx)))
}

// HandleEvents godoc
//
//	@Summary		Stream state changes
//	@Description	Server-sent events. The first event is the current state, then one "state" event per login or logout.
//	@Tags			Sessions
//	@Produce		text/event-stream
//	@Param			id	path	string	true	"Session ID"
//	@Success		200	"Event stream"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown session"
//	@Router			/v1/sessions/{id}/events [get].
func (h *SessionsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		authsdk.ErrServerError.WriteError(w)
		return
	}
	ctx := r.Context()

	events := make(chan domain.State, 8)
	unsubscribe := m.Subscribe(func(st domain.State) {
		select {
		case events <- st:
		default:
			slogx.FromContext(ctx).Warn("dropping state event for slow subscriber")
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, m.CurrentState(ctx)); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case st := <-events:
			if err := writeEvent(w, st); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, st domain.State) error {
	data, err := json.Marshal(toStateResponse(st))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
	return err
}

// HandleClose godoc
//
//	@Summary		Close a session
//	@Description	Forgets the session and removes its token from the durable store.
//	@Tags			Sessions
//	@Param			id	path	string	true	"Session ID"
//	@Success		204	"Closed"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Unknown session"
//	@Failure		503	{object}	authsdk.ErrorResponse	"Durable store delete failed"
//	@Router			/v1/sessions/{id} [delete].
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.Registry.Close(r.Context(), id)
	switch {
	case errors.Is(err, session.ErrNotFound):
		authsdk.ErrSessionNotFound.WriteError(w)
		return
	case errors.Is(err, session.ErrPersist):
		authsdk.ErrStoreUnavailable.WriteError(w)
		return
	case err != nil:
		authsdk.ErrServerError.WriteError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
