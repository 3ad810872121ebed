package internal

import (
	"errors"
	"mediawall/internal/testutil"
	"net/http"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScheduler struct {
	calls      []string
	persistErr error
}

func (s *recordingScheduler) Init()          { s.calls = append(s.calls, "init") }
func (s *recordingScheduler) Stop()          { s.calls = append(s.calls, "stop") }
func (s *recordingScheduler) Restore() error { s.calls = append(s.calls, "restore"); return nil }
func (s *recordingScheduler) Persist() error {
	s.calls = append(s.calls, "persist")
	return s.persistErr
}
func (s *recordingScheduler) Close() { s.calls = append(s.calls, "close") }

func newTestApp(addr string, scheduler *recordingScheduler, logger *testutil.MockLogger) *App {
	return &App{
		WebServer: &http.Server{Addr: addr, Handler: http.NotFoundHandler()},
		logger:    logger,
		scheduler: scheduler,
	}
}

func signalled() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	stop <- syscall.SIGTERM
	return stop
}

func TestApp_ServeShutsDownAndReleases(t *testing.T) {
	scheduler := &recordingScheduler{}
	logger := &testutil.MockLogger{}

	require.NoError(t, newTestApp("127.0.0.1:0", scheduler, logger).serve(signalled()))

	assert.Equal(t, []string{"init", "stop", "persist", "close"}, scheduler.calls)
	assert.True(t, logger.Closed)
}

func TestApp_ServeReleasesWhenPersistFails(t *testing.T) {
	scheduler := &recordingScheduler{persistErr: errors.New("disk full")}
	logger := &testutil.MockLogger{}

	err := newTestApp("127.0.0.1:0", scheduler, logger).serve(signalled())
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, "close", scheduler.calls[len(scheduler.calls)-1])
	assert.True(t, logger.Closed)
}

func TestApp_ServeReleasesWhenListenFails(t *testing.T) {
	scheduler := &recordingScheduler{}
	logger := &testutil.MockLogger{}

	err := newTestApp("not-an-address", scheduler, logger).serve(make(chan os.Signal))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
	assert.Equal(t, []string{"init", "stop", "close"}, scheduler.calls)
	assert.True(t, logger.Closed)
}
