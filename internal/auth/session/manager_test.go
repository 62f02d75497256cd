package session_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/provider"
	"github.com/aussiebroadwan/authstate/internal/auth/service"
	"github.com/aussiebroadwan/authstate/internal/auth/session"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/authstate/pkg/jwtx"
	"github.com/aussiebroadwan/authstate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://authstate.test/"

var testKey = bytes.Repeat([]byte{0x42}, 64)

type harness struct {
	auth    *service.AuthenticationService
	decoder *service.TokenValidator
}

func newHarness(t *testing.T) harness {
	t.Helper()

	signer, err := jwtx.NewSignerHS512(testKey)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS512(testKey, jwtx.VerifyOptions{
		Issuer:   testIssuer,
		Audience: testIssuer,
		Leeway:   jwtx.DefaultLeeway,
	})
	require.NoError(t, err)

	return harness{
		auth: &service.AuthenticationService{
			Provider: provider.PolicyProvider{},
			Issuer:   &service.TokenIssuer{Signer: signer, Issuer: testIssuer, Audience: testIssuer},
		},
		decoder: &service.TokenValidator{Verifier: verifier},
	}
}

func (h harness) manager() *session.Manager {
	return session.NewManager(h.auth, h.decoder)
}

// flakyStore wraps a memory store and fails the selected operations.
type flakyStore struct {
	*memory.Store
	failGet, failSet, failDelete atomic.Bool
}

var errStoreDown = errors.New("store unreachable")

func newFlakyStore() *flakyStore { return &flakyStore{Store: memory.New()} }

func (f *flakyStore) Get(ctx context.Context, key string) (string, error) {
	if f.failGet.Load() {
		return "", errStoreDown
	}
	return f.Store.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.failSet.Load() {
		return errStoreDown
	}
	return f.Store.Set(ctx, key, value)
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	if f.failDelete.Load() {
		return errStoreDown
	}
	return f.Store.Delete(ctx, key)
}

var (
	admin    = domain.Credential{Username: "admin", Password: "adminpw"}
	subadmin = domain.Credential{Username: "subadmin", Password: "subadminpw"}
)

func TestStartsDisconnectedAndAnonymous(t *testing.T) {
	m := newHarness(t).manager()

	require.Equal(t, session.Disconnected, m.Location())
	require.True(t, m.CurrentState(context.Background()).Equal(domain.Anonymous()))
}

func TestLoginWhileDisconnected(t *testing.T) {
	ctx := context.Background()
	m := newHarness(t).manager()

	require.NoError(t, m.Login(ctx, admin))

	st := m.CurrentState(ctx)
	require.True(t, st.IsAuthenticated())
	require.Equal(t, "admin", st.Name())
	require.Equal(t, domain.Roles{"admin", "subadmin", "user"}, st.Roles())
}

func TestLoginWhileConnectedWritesStore(t *testing.T) {
	ctx := context.Background()
	m := newHarness(t).manager()
	s := memory.New()

	require.NoError(t, m.ConnectionEstablished(ctx, s))
	require.NoError(t, m.Login(ctx, subadmin))

	token, err := s.Get(ctx, session.TokenKey)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "subadmin", m.CurrentState(ctx).Name())
}

func TestFailedLoginChangesNothing(t *testing.T) {
	ctx := context.Background()
	m := newHarness(t).manager()
	require.NoError(t, m.Login(ctx, admin))

	var events int
	m.Subscribe(func(domain.State) { events++ })

	err := m.Login(ctx, domain.Credential{Username: "admin", Password: "guess"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	require.Zero(t, events)
	require.Equal(t, "admin", m.CurrentState(ctx).Name())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("disconnected", func(t *testing.T) {
		m := newHarness(t).manager()
		require.NoError(t, m.Login(ctx, admin))
		require.NoError(t, m.Logout(ctx))
		require.False(t, m.CurrentState(ctx).IsAuthenticated())
	})

	t.Run("connected", func(t *testing.T) {
		m := newHarness(t).manager()
		s := memory.New()
		require.NoError(t, m.ConnectionEstablished(ctx, s))
		require.NoError(t, m.Login(ctx, admin))
		require.NoError(t, m.Logout(ctx))

		_, err := s.Get(ctx, session.TokenKey)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.False(t, m.CurrentState(ctx).IsAuthenticated())
	})

	t.Run("without a token", func(t *testing.T) {
		m := newHarness(t).manager()
		require.NoError(t, m.Logout(ctx))
		require.False(t, m.CurrentState(ctx).IsAuthenticated())
	})
}

func TestReconnectionContinuity(t *testing.T) {
	ctx := context.Background()
	m := newHarness(t).manager()
	s := memory.New()

	require.NoError(t, m.Login(ctx, admin))
	before := m.CurrentState(ctx)

	require.NoError(t, m.ConnectionEstablished(ctx, s))
	require.Equal(t, session.Connected, m.Location())

	after := m.CurrentState(ctx)
	require.True(t, before.Equal(after))

	token, err := s.Get(ctx, session.TokenKey)
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestConnectWithoutPendingKeepsStoredToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	s := memory.New()

	first := h.manager()
	require.NoError(t, first.ConnectionEstablished(ctx, s))
	require.NoError(t, first.Login(ctx, subadmin))

	// A reload builds a fresh manager over the same durable store.
	second := h.manager()
	require.False(t, second.CurrentState(ctx).IsAuthenticated())
	require.NoError(t, second.ConnectionEstablished(ctx, s))
	require.Equal(t, "subadmin", second.CurrentState(ctx).Name())
}

func TestConnectionEstablishedIsOneWay(t *testing.T) {
	ctx := context.Background()
	m := newHarness(t).manager()

	require.NoError(t, m.ConnectionEstablished(ctx, memory.New()))
	require.ErrorIs(t, m.ConnectionEstablished(ctx, memory.New()), session.ErrAlreadyConnected)
	require.Equal(t, session.Connected, m.Location())
}

func TestFailedMigrationStaysDisconnected(t *testing.T) {
	ctx := context.Background()
	m := newHarness(t).manager()
	s := newFlakyStore()
	s.failSet.Store(true)

	require.NoError(t, m.Login(ctx, admin))
	require.ErrorIs(t, m.ConnectionEstablished(ctx, s), session.ErrPersist)
	require.Equal(t, session.Disconnected, m.Location())
	require.Equal(t, "admin", m.CurrentState(ctx).Name())

	s.failSet.Store(false)
	require.NoError(t, m.ConnectionEstablished(ctx, s))
	require.Equal(t, "admin", m.CurrentState(ctx).Name())
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("write failure fails login", func(t *testing.T) {
		m := newHarness(t).manager()
		s := newFlakyStore()
		require.NoError(t, m.ConnectionEstablished(ctx, s))
		require.NoError(t, m.Login(ctx, subadmin))

		var events int
		m.Subscribe(func(domain.State) { events++ })

		s.failSet.Store(true)
		require.ErrorIs(t, m.Login(ctx, admin), session.ErrPersist)
		require.Zero(t, events)
		require.Equal(t, "subadmin", m.CurrentState(ctx).Name())
	})

	t.Run("delete failure fails logout", func(t *testing.T) {
		m := newHarness(t).manager()
		s := newFlakyStore()
		require.NoError(t, m.ConnectionEstablished(ctx, s))
		require.NoError(t, m.Login(ctx, admin))

		s.failDelete.Store(true)
		require.ErrorIs(t, m.Logout(ctx), session.ErrPersist)
		require.True(t, m.CurrentState(ctx).IsAuthenticated())
	})

	t.Run("read failure is anonymous", func(t *testing.T) {
		m := newHarness(t).manager()
		s := newFlakyStore()
		require.NoError(t, m.ConnectionEstablished(ctx, s))
		require.NoError(t, m.Login(ctx, admin))

		s.failGet.Store(true)
		require.True(t, m.CurrentState(ctx).Equal(domain.Anonymous()))
	})

	t.Run("garbage in store is anonymous", func(t *testing.T) {
		m := newHarness(t).manager()
		s := memory.New()
		require.NoError(t, s.Set(ctx, session.TokenKey, "not.a.token"))
		require.NoError(t, m.ConnectionEstablished(ctx, s))
		require.False(t, m.CurrentState(ctx).IsAuthenticated())
	})
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	m := newHarness(t).manager()

	var got []domain.State
	unsubscribe := m.Subscribe(func(st domain.State) { got = append(got, st) })

	require.NoError(t, m.Login(ctx, admin))
	require.Len(t, got, 1)
	require.Equal(t, "admin", got[0].Name())

	require.NoError(t, m.ConnectionEstablished(ctx, memory.New()))
	require.Len(t, got, 1)

	require.NoError(t, m.Logout(ctx))
	require.Len(t, got, 2)
	require.False(t, got[1].IsAuthenticated())

	unsubscribe()
	unsubscribe()
	require.NoError(t, m.Login(ctx, admin))
	require.Len(t, got, 2)
}

func TestSubscriberSeesStateBeforeLoginReturns(t *testing.T) {
	ctx := context.Background()
	m := newHarness(t).manager()

	var seen domain.State
	m.Subscribe(func(domain.State) { seen = m.CurrentState(ctx) })

	require.NoError(t, m.Login(ctx, subadmin))
	require.Equal(t, "subadmin", seen.Name())
}

// gateHandler parks the goroutine that logs msg until release is closed.
type gateHandler struct {
	msg     string
	reached chan struct{}
	release chan struct{}
}

func (h *gateHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *gateHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h *gateHandler) WithGroup(string) slog.Handler             { return h }

func (h *gateHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Message == h.msg {
		close(h.reached)
		<-h.release
	}
	return nil
}

func TestOverlappingLoginAndLogoutPublishInCommitOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.manager()

	var (
		mu     sync.Mutex
		events []domain.State
	)
	m.Subscribe(func(st domain.State) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, st)
	})

	gate := &gateHandler{msg: "session login", reached: make(chan struct{}), release: make(chan struct{})}
	slowCtx := slogx.WithContext(ctx, slog.New(gate))

	loginDone := make(chan error, 1)
	go func() { loginDone <- m.Login(slowCtx, admin) }()

	// The login has committed its token but not yet published.
	<-gate.reached
	require.NoError(t, m.Logout(ctx))
	close(gate.release)
	require.NoError(t, <-loginDone)

	require.False(t, m.CurrentState(ctx).IsAuthenticated())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, events)
	require.False(t, events[len(events)-1].IsAuthenticated())
	for _, st := range events {
		require.False(t, st.IsAuthenticated(), "overtaken login was delivered")
	}
}

func TestSubscriberMayReadStateWhileOthersCommit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.manager()

	m.Subscribe(func(domain.State) { _ = m.CurrentState(ctx) })

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				errs <- m.Login(ctx, admin)
				return
			}
			errs <- m.Logout(ctx)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestAcceptExternalToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	m := h.manager()

	token, err := h.auth.Authenticate(ctx, admin)
	require.NoError(t, err)

	st, err := m.Accept(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "admin", st.Name())

	st, err = m.Accept(ctx, "forged")
	require.NoError(t, err)
	require.False(t, st.IsAuthenticated())
}

func TestConcurrentLoginAndConnect(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	for range 50 {
		m := h.manager()
		s := memory.New()

		var wg sync.WaitGroup
		var loginErr, connectErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			loginErr = m.Login(ctx, admin)
		}()
		go func() {
			defer wg.Done()
			connectErr = m.ConnectionEstablished(ctx, s)
		}()
		wg.Wait()

		require.NoError(t, loginErr)
		require.NoError(t, connectErr)

		require.Equal(t, session.Connected, m.Location())
		require.Equal(t, "admin", m.CurrentState(ctx).Name())

		token, err := s.Get(ctx, session.TokenKey)
		require.NoError(t, err)
		require.NotEmpty(t, token)
	}
}

func TestLastActive(t *testing.T) {
	at := time.Unix(1700000000, 0)
	m := session.NewManager(nil, nil, session.WithClock(func() time.Time { return at }))
	require.True(t, at.Equal(m.LastActive()))
	require.Equal(t, "disconnected", m.Location().String())
}
