package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSigningKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func setEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AUTHSTATE_CONFIG", "")
	t.Setenv("AUTH_SIGNING_KEY", testSigningKey)
	t.Setenv("AUTH_DATABASE_FILE", filepath.Join(dir, "auth.db"))
	t.Setenv("AUTH_PEPPER_FILE", filepath.Join(dir, "pepper"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestKeygen(t *testing.T) {
	out, err := run(t, "keygen")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(strings.TrimSpace(out)), 64)

	path := filepath.Join(t.TempDir(), "key")
	out, err = run(t, "keygen", "--out", path)
	require.NoError(t, err)
	require.Contains(t, out, path)
}

func TestTokenIssueAndDecode(t *testing.T) {
	setEnv(t)
	t.Setenv("AUTH_PROVIDER", "policy")

	out, err := run(t, "token", "issue", "--username", "admin", "--password", "adminpw")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.Len(t, strings.Split(token, "."), 3)

	out, err = run(t, "token", "decode", token)
	require.NoError(t, err)

	var st struct {
		Authenticated bool     `json:"authenticated"`
		Name          string   `json:"name"`
		Roles         []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.True(t, st.Authenticated)
	require.Equal(t, "admin", st.Name)
	require.Equal(t, []string{"admin", "subadmin", "user"}, st.Roles)

	_, err = run(t, "token", "issue", "--username", "admin", "--password", "nope")
	require.Error(t, err)

	out, err = run(t, "token", "decode", "garbage")
	require.NoError(t, err)
	require.Contains(t, out, `"authenticated": false`)
}

func TestUsersAddThenIssue(t *testing.T) {
	setEnv(t)
	t.Setenv("AUTH_PROVIDER", "sqlite")

	_, err := run(t, "users", "add", "--username", "dave", "--password", "hunter22", "--name", "Dave", "--role", "admin", "--role", "user")
	require.NoError(t, err)

	_, err = run(t, "users", "add", "--username", "dave", "--password", "again")
	require.Error(t, err)

	out, err := run(t, "users", "add", "--username", "erin")
	require.NoError(t, err)
	require.Contains(t, out, "generated password")

	out, err = run(t, "token", "issue", "--username", "dave", "--password", "hunter22")
	require.NoError(t, err)

	out, err = run(t, "token", "decode", strings.TrimSpace(out))
	require.NoError(t, err)
	require.Contains(t, out, `"given_name": "Dave"`)
}

func TestUsersRolesAndDelete(t *testing.T) {
	setEnv(t)
	t.Setenv("AUTH_PROVIDER", "sqlite")

	_, err := run(t, "users", "add", "--username", "frank", "--password", "secret", "--role", "user")
	require.NoError(t, err)

	out, err := run(t, "users", "roles", "--username", "frank", "--role", "subadmin", "--role", "user")
	require.NoError(t, err)
	require.Contains(t, out, "[subadmin user]")

	out, err = run(t, "token", "issue", "--username", "frank", "--password", "secret")
	require.NoError(t, err)
	out, err = run(t, "token", "decode", strings.TrimSpace(out))
	require.NoError(t, err)
	require.Contains(t, out, `"subadmin"`)

	_, err = run(t, "users", "delete", "--username", "frank")
	require.NoError(t, err)

	_, err = run(t, "token", "issue", "--username", "frank", "--password", "secret")
	require.Error(t, err)

	_, err = run(t, "users", "delete", "--username", "frank")
	require.ErrorContains(t, err, "not found")
}

func TestTokenCommandsNeedKey(t *testing.T) {
	setEnv(t)
	t.Setenv("AUTH_SIGNING_KEY", "")
	t.Setenv("AUTH_SIGNING_KEY_FILE", "")

	_, err := run(t, "token", "decode", "x")
	require.Error(t, err)
}
