package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/findy-network/findy-cloud-agent/agent/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServiceName = "a2a"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := router.New()
	require.NoError(t, r.AddRoute("EchoDID", router.HandlerFunc(
		func(_ context.Context, data []byte) ([]byte, error) {
			return append([]byte("echo:"), data...), nil
		})))
	require.NoError(t, r.AddRoute("FailDID", router.HandlerFunc(
		func(context.Context, []byte) ([]byte, error) {
			return nil, e2.New(e2.Crypto, "decrypt")
		})))
	require.NoError(t, r.AddRoute("SlowDID", router.HandlerFunc(
		func(context.Context, []byte) ([]byte, error) {
			return nil, e2.Wrap(e2.Timeout, context.DeadlineExceeded, "agent wait")
		})))
	require.NoError(t, r.AddRoute("StoppedDID", router.HandlerFunc(
		func(context.Context, []byte) ([]byte, error) {
			return nil, e2.Wrap(e2.NotFound, errors.New("actor stopped"), "agent")
		})))

	srv := httptest.NewServer(Handler(testServiceName, r))
	t.Cleanup(srv.Close)
	return srv
}

func TestTransport(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"echo", "/a2a/EchoDID", "envelope", http.StatusOK, "echo:envelope"},
		{"empty body", "/a2a/EchoDID", "", http.StatusOK, "echo:"},
		{"unknown did", "/a2a/NoSuchDID", "envelope", http.StatusNotFound, ""},
		{"stopped actor", "/a2a/StoppedDID", "envelope", http.StatusNotFound, ""},
		{"handler error", "/a2a/FailDID", "envelope", http.StatusInternalServerError, ""},
		{"timeout", "/a2a/SlowDID", "envelope", http.StatusGatewayTimeout, ""},
		{"wrong service", "/other/EchoDID", "envelope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+tt.path, ContentType,
				bytes.NewReader([]byte(tt.body)))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				data, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.wantBody, string(data))
				assert.Equal(t, ContentType, resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestTransport_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/a2a/EchoDID")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, Version, string(data))
}

func TestTransport_RequestID(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/a2a/NoSuchDID", ContentType, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/a2a/EchoDID",
		bytes.NewReader([]byte("envelope")))
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "my-request")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "my-request", resp.Header.Get(RequestIDHeader))
}
