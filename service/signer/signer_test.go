package signer

import (
	"context"
	"crypto/ed25519"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/pkg/poll"
	"github.com/ethrahere/curatoor/pkg/signkey"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	core.UserStore
	users map[string]*core.User
	err   error
}

func (m *memoryUsers) Find(_ context.Context, address string) (*core.User, error) {
	if m.err != nil {
		return nil, m.err
	}

	if user, ok := m.users[address]; ok {
		return user, nil
	}

	return &core.User{}, nil
}

type memorySigners struct {
	mu      sync.Mutex
	seq     int64
	signers map[string]core.Signer
	findErr error
	saveErr error
	confErr error
	confirm int
}

func newMemorySigners() *memorySigners {
	return &memorySigners{signers: map[string]core.Signer{}}
}

func (m *memorySigners) Find(_ context.Context, address string) (*core.Signer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findErr != nil {
		return nil, m.findErr
	}

	signer := m.signers[address]
	return &signer, nil
}

func (m *memorySigners) Save(_ context.Context, signer *core.Signer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}

	existing, ok := m.signers[signer.Address]
	if !ok {
		m.seq++
		existing.ID = m.seq
	}

	signer.ID = existing.ID
	signer.FID = nil
	signer.SignerUUID = nil
	signer.ConfirmedAt = nil
	m.signers[signer.Address] = *signer
	return nil
}

func (m *memorySigners) Confirm(_ context.Context, address, publicKey string, fid int64, signerUUID *string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.confirm++
	if m.confErr != nil {
		return m.confErr
	}

	signer, ok := m.signers[address]
	if !ok || signer.PublicKey != publicKey {
		return core.ErrStaleSigner
	}

	signer.FID = &fid
	signer.SignerUUID = signerUUID
	signer.ConfirmedAt = &at
	m.signers[address] = signer
	return nil
}

type fakeHub struct {
	calls  int
	keys   []string
	answer func(call int) (*core.SignerEvent, error)
}

func (h *fakeHub) SignerEvent(_ context.Context, fid int64, key string) (*core.SignerEvent, error) {
	h.calls++
	h.keys = append(h.keys, key)
	if h.answer == nil {
		return nil, nil
	}

	return h.answer(h.calls)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

type fakeTimer struct {
	clock *fakeClock
	c     chan time.Time
}

func (t *fakeTimer) Start(d time.Duration) {
	t.clock.now = t.clock.now.Add(d)
	t.c <- t.clock.now
}

func (t *fakeTimer) Stop() {}

func (t *fakeTimer) C() <-chan time.Time {
	return t.c
}

type fixture struct {
	users   *memoryUsers
	signers *memorySigners
	hub     *fakeHub
	clock   *fakeClock
	svc     core.SignerService
}

func newFixture(t *testing.T, keys ...*signkey.Keypair) *fixture {
	t.Helper()

	f := &fixture{
		users: &memoryUsers{users: map[string]*core.User{
			"0xabc": {ID: 1, Address: "0xabc", Username: "CoolPanda1"},
		}},
		signers: newMemorySigners(),
		hub:     &fakeHub{},
		clock:   &fakeClock{now: time.Unix(1700000000, 0)},
	}

	next := 0
	keygen := func() (*signkey.Keypair, error) {
		if next < len(keys) {
			next++
			return keys[next-1], nil
		}

		return signkey.Generate()
	}

	timer := &fakeTimer{clock: f.clock, c: make(chan time.Time, 1)}
	f.svc = New(f.users, f.signers, f.hub, Config{
		DeepLinkBase: "https://warpcast.com/~/add-signer",
	},
		WithKeygen(keygen),
		WithNow(f.clock.Now),
		WithPollOptions(poll.WithClock(f.clock, func() backoff.Timer { return timer })),
	)

	return f
}

func (f *fixture) elapsed() time.Duration {
	return f.clock.now.Sub(time.Unix(1700000000, 0))
}

func found(call int) (*core.SignerEvent, error) {
	return &core.SignerEvent{FID: 555}, nil
}

func TestClamp(t *testing.T) {
	assert.Equal(t, DefaultTimeout, clamp(0, DefaultTimeout, MaxTimeout))
	assert.Equal(t, DefaultTimeout, clamp(-time.Second, DefaultTimeout, MaxTimeout))
	assert.Equal(t, MaxTimeout, clamp(10*time.Minute, DefaultTimeout, MaxTimeout))
	assert.Equal(t, 3*time.Second, clamp(3*time.Second, DefaultInterval, MaxInterval))
	assert.Equal(t, MaxInterval, clamp(time.Minute, DefaultInterval, MaxInterval))
}

func TestNewClampsTiming(t *testing.T) {
	svc := New(nil, nil, nil, Config{Timeout: 10 * time.Minute, Interval: time.Minute}).(*signerService)
	assert.Equal(t, MaxTimeout, svc.poller.Timeout())
	assert.Equal(t, MaxInterval, svc.poller.Interval())

	svc = New(nil, nil, nil, Config{}).(*signerService)
	assert.Equal(t, DefaultTimeout, svc.poller.Timeout())
	assert.Equal(t, DefaultInterval, svc.poller.Interval())
}

func TestRequest(t *testing.T) {
	f := newFixture(t, &signkey.Keypair{PublicKey: "0x1234", PrivateKey: "0x5678"})

	req, err := f.svc.Request(context.Background(), "0xABC")
	require.NoError(t, err)
	assert.Equal(t, "0x1234", req.PublicKey)
	assert.Equal(t, "https://warpcast.com/~/add-signer?public_key=0x1234", req.DeepLink)

	stored := f.signers.signers["0xabc"]
	assert.Equal(t, "0x1234", stored.PublicKey)
	assert.Equal(t, "0x5678", stored.PrivateKey)
	assert.False(t, stored.Confirmed())
}

func TestRequestValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Request(context.Background(), "  ")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = f.svc.Request(context.Background(), "0xdef")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
	assert.Empty(t, f.signers.signers)
}

func TestRequestPersistenceErrors(t *testing.T) {
	f := newFixture(t)
	f.users.err = errors.New("db down")

	_, err := f.svc.Request(context.Background(), "0xabc")
	assert.Equal(t, core.ErrPersistence, core.Code(err))

	f.users.err = nil
	f.signers.saveErr = errors.New("db down")
	_, err = f.svc.Request(context.Background(), "0xabc")
	assert.Equal(t, core.ErrPersistence, core.Code(err))
}

func TestRequestReissueClearsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.hub.answer = found

	first, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	require.NoError(t, err)

	second, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)
	assert.NotEqual(t, first.PublicKey, second.PublicKey)

	status, err := f.svc.Status(ctx, "0xabc")
	require.NoError(t, err)
	assert.False(t, status.Confirmed)
	assert.Nil(t, status.FID)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Status(ctx, "")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = f.svc.Status(ctx, "0xabc")
	assert.ErrorIs(t, err, core.ErrSignerNotFound)

	_, err = f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	status, err := f.svc.Status(ctx, "0xABC")
	require.NoError(t, err)
	assert.False(t, status.Confirmed)
	assert.Nil(t, status.FID)
	assert.Zero(t, f.hub.calls)
}

func TestConfirmValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Confirm(ctx, core.ConfirmInput{FID: 555})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc"})
	assert.ErrorIs(t, err, core.ErrInvalidFID)

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: -1})
	assert.ErrorIs(t, err, core.ErrInvalidFID)
}

func TestConfirmWithoutRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Confirm(context.Background(), core.ConfirmInput{Address: "0xabc", FID: 555})
	assert.ErrorIs(t, err, core.ErrNoPendingSigner)
	assert.Zero(t, f.hub.calls)
}

func TestConfirmImmediateApproval(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &signkey.Keypair{PublicKey: "1234", PrivateKey: "0x5678"})
	f.hub.answer = found

	_, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	status, err := f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555, SignerUUID: "uuid-1"})
	require.NoError(t, err)
	assert.True(t, status.Confirmed)
	assert.Equal(t, int64(555), *status.FID)

	assert.Equal(t, 1, f.hub.calls)
	assert.Equal(t, []string{"0x1234"}, f.hub.keys, "hub key carries the 0x prefix")
	assert.Equal(t, time.Duration(0), f.elapsed())

	stored := f.signers.signers["0xabc"]
	assert.Equal(t, "uuid-1", *stored.SignerUUID)
	assert.True(t, stored.ConfirmedAt.Equal(f.clock.now))
}

func TestConfirmTimeoutAtBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	assert.ErrorIs(t, err, core.ErrHubTimeout)
	assert.Equal(t, DefaultTimeout, f.elapsed())
	// 0s,2s,...,14s and the final query at 15s
	assert.Equal(t, 9, f.hub.calls)
	assert.Zero(t, f.signers.confirm)

	status, err := f.svc.Status(ctx, "0xabc")
	require.NoError(t, err)
	assert.False(t, status.Confirmed)
}

func TestConfirmHubErrorAbortsImmediately(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	hubErr := errors.New("connection refused")
	f.hub.answer = func(call int) (*core.SignerEvent, error) {
		return nil, hubErr
	}

	_, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	assert.ErrorIs(t, err, core.ErrHubUnavailable)
	assert.ErrorIs(t, err, hubErr)
	assert.Equal(t, 1, f.hub.calls)
	assert.Equal(t, time.Duration(0), f.elapsed())
}

func TestConfirmIdempotentWithoutHub(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.hub.answer = found

	_, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	require.NoError(t, err)
	require.Equal(t, 1, f.hub.calls)

	status, err := f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	require.NoError(t, err)
	assert.True(t, status.Confirmed)
	assert.Equal(t, int64(555), *status.FID)
	assert.Equal(t, 1, f.hub.calls)
	assert.Equal(t, 1, f.signers.confirm)
}

func TestConfirmDifferentFIDPollsAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.hub.answer = found

	_, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	require.NoError(t, err)

	status, err := f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 777})
	require.NoError(t, err)
	assert.Equal(t, int64(777), *status.FID)
	assert.Equal(t, 2, f.hub.calls)
}

func TestConfirmStaleSigner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	// the key is re-issued while the hub is being polled
	f.hub.answer = func(call int) (*core.SignerEvent, error) {
		if _, err := f.svc.Request(ctx, "0xabc"); err != nil {
			return nil, err
		}

		return &core.SignerEvent{FID: 555}, nil
	}

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	assert.ErrorIs(t, err, core.ErrStaleSigner)

	status, err := f.svc.Status(ctx, "0xabc")
	require.NoError(t, err)
	assert.False(t, status.Confirmed)
}

func TestConfirmPersistenceError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.hub.answer = found

	_, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	f.signers.confErr = errors.New("disk full")
	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	assert.Equal(t, core.ErrPersistence, core.Code(err))
	assert.NotErrorIs(t, err, core.ErrHubUnavailable)
}

func TestConfirmCanceled(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Request(context.Background(), "0xabc")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	f.hub.answer = func(call int) (*core.SignerEvent, error) {
		cancel()
		return nil, nil
	}

	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	assert.ErrorIs(t, err, core.ErrHubTimeout)
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &signkey.Keypair{PublicKey: "0x1234", PrivateKey: "0x5678"})

	req, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "0x1234", req.PublicKey)

	// not approved yet
	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	assert.ErrorIs(t, err, core.ErrHubTimeout)

	// approved in the wallet app
	f.hub.answer = found
	status, err := f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	require.NoError(t, err)
	assert.True(t, status.Confirmed)
	assert.Equal(t, int64(555), *status.FID)

	status, err = f.svc.Status(ctx, "0xabc")
	require.NoError(t, err)
	assert.True(t, status.Confirmed)
	assert.Equal(t, int64(555), *status.FID)
}

func TestMessageSigner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.MessageSigner(ctx, "0xabc")
	assert.ErrorIs(t, err, core.ErrSignerNotConfirmed)

	req, err := f.svc.Request(ctx, "0xabc")
	require.NoError(t, err)

	_, err = f.svc.MessageSigner(ctx, "0xabc")
	assert.ErrorIs(t, err, core.ErrSignerNotConfirmed)

	f.hub.answer = found
	_, err = f.svc.Confirm(ctx, core.ConfirmInput{Address: "0xabc", FID: 555})
	require.NoError(t, err)

	ms, err := f.svc.MessageSigner(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, int64(555), ms.FID())
	assert.Equal(t, req.PublicKey, ms.PublicKey())

	msg := []byte("cast: a great record")
	sig, err := ms.Sign(msg)
	require.NoError(t, err)
	assert.Len(t, sig, ed25519.SignatureSize)
	assert.True(t, signkey.Verify(req.PublicKey, msg, sig))
}
