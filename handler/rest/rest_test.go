package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethrahere/curatoor/core"
	"github.com/ethrahere/curatoor/pkg/poll"
	"github.com/ethrahere/curatoor/pkg/signkey"
	signerz "github.com/ethrahere/curatoor/service/signer"
	userz "github.com/ethrahere/curatoor/service/user"
	"github.com/ethrahere/curatoor/store/signer"
	"github.com/ethrahere/curatoor/store/user"

	"github.com/cenkalti/backoff/v4"
	"github.com/fox-one/pkg/store/db"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type switchHub struct {
	mu       sync.Mutex
	approved bool
	err      error
}

func (h *switchHub) set(approved bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.approved = approved
	h.err = err
}

func (h *switchHub) SignerEvent(ctx context.Context, fid int64, key string) (*core.SignerEvent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return nil, h.err
	}

	if !h.approved {
		return nil, nil
	}

	return &core.SignerEvent{FID: fid}, nil
}

type instantClock struct {
	now time.Time
}

func (c *instantClock) Now() time.Time {
	return c.now
}

type instantTimer struct {
	clock *instantClock
	c     chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.clock.now = t.clock.now.Add(d)
	t.c <- t.clock.now
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time {
	return t.c
}

func newTestServer(t *testing.T, hub core.HubService) *httptest.Server {
	database := db.MustOpen(db.SqliteInMemory())
	database.Update().DB().SetMaxOpenConns(1)
	database.View().DB().SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(database))

	users := user.New(database)
	signers := signer.New(database)

	clock := &instantClock{now: time.Unix(1700000000, 0)}
	timer := &instantTimer{clock: clock, c: make(chan time.Time, 1)}
	keygen := func() (*signkey.Keypair, error) {
		return &signkey.Keypair{PublicKey: "0x1234", PrivateKey: "0x5678"}, nil
	}

	svc := signerz.New(users, signers, hub, signerz.Config{DeepLinkBase: "https://warpcast.com/~/add-signer"},
		signerz.WithKeygen(keygen),
		signerz.WithPollOptions(poll.WithClock(clock, func() backoff.Timer { return timer })),
	)

	srv := httptest.NewServer(Handle(svc, users, userz.New(users)))
	t.Cleanup(func() {
		srv.Close()
		database.Close()
	})

	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestSignerFlow(t *testing.T) {
	hub := &switchHub{}
	srv := newTestServer(t, hub)

	status, body := call(t, srv, http.MethodPost, "/signer/request", `{"address":"0xABC"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, float64(core.ErrUserNotFound), body["code"])

	status, body = call(t, srv, http.MethodPost, "/users", `{"address":"0xABC"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0xabc", body["address"])
	assert.Equal(t, "500", body["tokenBalance"])

	status, body = call(t, srv, http.MethodGet, "/signer/status?address=0xabc", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, srv, http.MethodPost, "/signer/confirm", `{"address":"0xabc","fid":555}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(core.ErrNoPendingSigner), body["code"])

	status, body = call(t, srv, http.MethodPost, "/signer/request", `{"address":"0xabc"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0x1234", body["publicKey"])
	assert.Equal(t, "https://warpcast.com/~/add-signer?public_key=0x1234", body["deepLink"])

	status, body = call(t, srv, http.MethodGet, "/signer/status?address=0xabc", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["confirmed"])
	assert.Nil(t, body["fid"])

	status, body = call(t, srv, http.MethodPost, "/signer/confirm", `{"address":"0xabc","fid":"555"}`)
	assert.Equal(t, http.StatusRequestTimeout, status)
	assert.Equal(t, float64(core.ErrHubTimeout), body["code"])

	hub.set(true, nil)
	status, body = call(t, srv, http.MethodPost, "/signer/confirm", `{"address":"0xabc","fid":555,"signerUuid":"abc-uuid"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["confirmed"])
	assert.Equal(t, float64(555), body["fid"])

	status, body = call(t, srv, http.MethodGet, "/signer/status?address=0xabc", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["confirmed"])
	assert.Equal(t, float64(555), body["fid"])
}

func TestConfirmValidation(t *testing.T) {
	srv := newTestServer(t, &switchHub{})

	status, body := call(t, srv, http.MethodPost, "/signer/confirm", `{"address":"0xabc"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(core.ErrInvalidFID), body["code"])

	status, body = call(t, srv, http.MethodPost, "/signer/confirm", `{"address":"0xabc","fid":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(core.ErrInvalidFID), body["code"])

	status, body = call(t, srv, http.MethodPost, "/signer/request", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(core.ErrInvalidArgument), body["code"])
}

func TestConfirmRejectsNonDecimalFID(t *testing.T) {
	srv := newTestServer(t, &switchHub{})

	for _, fid := range []string{`"0x22b"`, `"0b101"`, `"555.0"`, `555.9`, `true`} {
		status, body := call(t, srv, http.MethodPost, "/signer/confirm", `{"address":"0xabc","fid":`+fid+`}`)
		assert.Equal(t, http.StatusBadRequest, status, fid)
		assert.Equal(t, float64(core.ErrInvalidFID), body["code"], fid)
	}

	status, body := call(t, srv, http.MethodPost, "/users", `{"address":"0xabc","farcasterUsername":"dj","farcasterFid":"0x22b"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(core.ErrInvalidFID), body["code"])

	status, _ = call(t, srv, http.MethodGet, "/users/0xabc", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestConfirmHubUnavailable(t *testing.T) {
	hub := &switchHub{}
	srv := newTestServer(t, hub)

	status, _ := call(t, srv, http.MethodPost, "/users", `{"address":"0xabc"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, srv, http.MethodPost, "/signer/request", `{"address":"0xabc"}`)
	require.Equal(t, http.StatusOK, status)

	hub.set(false, assert.AnError)
	status, body := call(t, srv, http.MethodPost, "/signer/confirm", `{"address":"0xabc","fid":555}`)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, float64(core.ErrHubUnavailable), body["code"])
	assert.NotContains(t, body["msg"], assert.AnError.Error())
}

func TestUsers(t *testing.T) {
	srv := newTestServer(t, &switchHub{})

	status, _ := call(t, srv, http.MethodGet, "/users/0xabc", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body := call(t, srv, http.MethodPost, "/users", `{"address":"0xabc","farcasterUsername":"dj","farcasterFid":"555"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "dj", body["farcasterUsername"])

	status, body = call(t, srv, http.MethodGet, "/users/0xABC", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(555), body["farcasterFid"])
}
