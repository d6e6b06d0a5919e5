package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth(t *testing.T) {
	cases := map[string]struct {
		ping Pinger
		want int
	}{
		"memory": {ping: nil, want: http.StatusOK},
		"up":     {ping: func(context.Context) error { return nil }, want: http.StatusOK},
		"down":   {ping: func(context.Context) error { return errors.New("refused") }, want: http.StatusServiceUnavailable},
	}
	for name, tc := range cases {
		w := httptest.NewRecorder()
		NewHandler(tc.ping).Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", name, w.Code, tc.want)
		}
	}
}
