package authsdk

import (
	"context"
	"net/http"
)

// Login exchanges a username and password for an identity token. A rejected
// login returns an error for which IsInvalidCredentials is true.
func (c *SDKClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/login", LoginRequest{
		Username: username,
		Password: password,
	}, "")
	if err != nil {
		return "", err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.Token, nil
}

// State decodes token on the server. An empty or invalid token yields the
// anonymous state, not an error.
func (c *SDKClient) State(ctx context.Context, token string) (*StateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/state", nil, token)
	if err != nil {
		return nil, err
	}

	var out StateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Counter reads the counter view, which needs the admin or subadmin role.
func (c *SDKClient) Counter(ctx context.Context, token string) (*CounterResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/counter", nil, token)
	if err != nil {
		return nil, err
	}

	var out CounterResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Weather reads the forecast view, which needs the admin role.
func (c *SDKClient) Weather(ctx context.Context, token string) ([]WeatherForecast, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/weather", nil, token)
	if err != nil {
		return nil, err
	}

	var out []WeatherForecast
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
