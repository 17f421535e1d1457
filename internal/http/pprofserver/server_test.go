package pprofserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func teapot(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        Config
		remote     string
		user, pass string
		want       int
	}{
		{name: "loopback v4 without auth", remote: "127.0.0.1:1234", want: http.StatusTeapot},
		{name: "loopback v6 without auth", remote: "[::1]:1234", want: http.StatusTeapot},
		{name: "remote with empty creds configured", remote: "8.8.8.8:1", want: http.StatusUnauthorized},
		{name: "remote with wrong creds", cfg: Config{User: "u", Pass: "p"}, remote: "8.8.8.8:1", user: "u", pass: "x", want: http.StatusUnauthorized},
		{name: "remote with right creds", cfg: Config{User: "u", Pass: "p"}, remote: "8.8.8.8:1", user: "u", pass: "p", want: http.StatusTeapot},
		{name: "garbage remote addr", cfg: Config{User: "u", Pass: "p"}, remote: "nonsense", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var called bool
			req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
			req.RemoteAddr = tt.remote
			if tt.user != "" {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()
			guard(teapot(t, &called), tt.cfg).ServeHTTP(rr, req)

			require.Equal(t, tt.want, rr.Code)
			require.Equal(t, tt.want == http.StatusTeapot, called)
			if tt.want == http.StatusUnauthorized {
				require.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestNew_ServesIndexToLoopback(t *testing.T) {
	t.Parallel()

	srv := New(Config{Addr: "127.0.0.1:0"})
	require.Equal(t, "127.0.0.1:0", srv.Addr)

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "goroutine")
}
