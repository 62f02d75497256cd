package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

func sessionPath(id, suffix string) string {
	return "/v1/sessions/" + url.PathEscape(id) + suffix
}

// OpenSession starts a new per-connection session in the disconnected state.
func (c *SDKClient) OpenSession(ctx context.Context) (*SessionResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions", nil, "")
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResumeSession reopens a session by its previous id. Connecting it again
// restores the identity kept in the durable store, as long as the token has
// not expired.
func (c *SDKClient) ResumeSession(ctx context.Context, id string) (*SessionResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions", OpenSessionRequest{SessionID: id}, "")
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConnectSession signals that the durable store is now reachable for the
// session. Any token held in memory is moved there.
func (c *SDKClient) ConnectSession(ctx context.Context, id string) (*SessionResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, sessionPath(id, "/connect"), nil, "")
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SessionLogin logs the session in and returns the resulting state.
func (c *SDKClient) SessionLogin(ctx context.Context, id, username, password string) (*StateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, sessionPath(id, "/login"), LoginRequest{
		Username: username,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}

	var out StateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SessionLogout clears the session's token.
func (c *SDKClient) SessionLogout(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, sessionPath(id, "/logout"), nil, "")
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// SessionState returns the session's current state.
func (c *SDKClient) SessionState(ctx context.Context, id string) (*StateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, sessionPath(id, "/state"), nil, "")
	if err != nil {
		return nil, err
	}

	var out StateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CloseSession discards the session.
func (c *SDKClient) CloseSession(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, sessionPath(id, ""), nil, "")
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
