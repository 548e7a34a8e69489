package api_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/encounterlog/internal/api"
	"github.com/mcoot/encounterlog/internal/factory"
	"github.com/mcoot/encounterlog/internal/testutil"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := api.DefaultServerConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Zero(t, cfg.WriteTimeout, "write timeout would cut SSE streams")
	assert.Equal(t, ":8080", api.NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger()).Addr())
}

func TestServerServeAndShutdown(t *testing.T) {
	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:           testutil.NopLogger(),
		EncounterService: app.EncounterService,
		RosterService:    app.RosterService,
	})

	cfg := api.DefaultServerConfig()
	cfg.ShutdownTimeout = time.Second
	server := api.NewServer(router, cfg, testutil.NopLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Shutdown(context.Background()))
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
