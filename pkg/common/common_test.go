package common

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestSessionCookieIssuedOnce(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "http://finder.local:8080/api/compare", nil)
	sessionId := HandleSessionCookie(nil, w, r)
	_, err := uuid.Parse(sessionId)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionId, cookies[0].Value)
	assert.Equal(t, "finder.local", cookies[0].Domain)

	w = httptest.NewRecorder()
	r.AddCookie(cookies[0])
	assert.Equal(t, sessionId, HandleSessionCookie(nil, w, r))
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionCookieReplacesInvalid(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "12345"})
	sessionId := HandleSessionCookie(nil, w, r)
	assert.NotEqual(t, "12345", sessionId)
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestJsonHandler(t *testing.T) {
	h := JsonHandler(nil, zaptest.NewLogger(t), func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
		if r.URL.Query().Get("fail") == "bad" {
			return NewHttpError(http.StatusBadRequest, errors.New("bad input"))
		}
		if r.URL.Query().Get("fail") == "boom" {
			return errors.New("boom")
		}
		return enc.Encode(map[string]string{"session": sessionId})
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"session"`)

	w = httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/?fail=bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad input")

	w = httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/?fail=boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/", nil)
	r.Header.Set("Origin", "http://shop.local")
	h(w, r)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "http://shop.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoadTimeoutConfig(t *testing.T) {
	t.Setenv("READ_TIMEOUT", "42")
	t.Setenv("WRITE_TIMEOUT", "-1")
	t.Setenv("IDLE_TIMEOUT", "soon")
	cfg := LoadTimeoutConfig(DefaultTimeoutConfig())
	assert.Equal(t, 42*time.Second, cfg.Read)
	assert.Equal(t, DefaultTimeoutConfig().Write, cfg.Write)
	assert.Equal(t, DefaultTimeoutConfig().Idle, cfg.Idle)

	server := NewServerWithTimeouts(nil, cfg)
	assert.Equal(t, 42*time.Second, server.ReadTimeout)
}

func TestServeRunsHooksOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})}

	ctx, cancel := context.WithCancel(context.Background())
	hookRan := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, zaptest.NewLogger(t), server, listener, "test", time.Second, time.Second, func(context.Context) error {
			close(hookRan)
			return nil
		})
	}()

	res, err := http.Get("http://" + listener.Addr().String())
	require.NoError(t, err)
	res.Body.Close()

	cancel()
	require.NoError(t, <-done)
	_, ok := <-hookRan
	assert.False(t, ok)
}

func TestQueueHandlerBatches(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	var mu sync.Mutex
	var batches [][]int
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]int(nil), items...))
	}, 2, time.Hour)

	q.Add(1, 2, 3, 4, 5)
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, b := range batches {
		assert.LessOrEqual(t, len(b), 2)
		total += len(b)
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 0, q.Len())
}
