package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"alphawatch/pkg/logx"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{URL: url, RatePerSec: 100}, logx.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()
	srv := serve(t, http.StatusOK, `{
		"success": true,
		"data": [
			{"tokenId": "a1", "name": "Alpha", "symbol": "ALP", "price": 0.5, "onlineTge": true, "onlineAirdrop": false},
			{"tokenId": 98765432109876543, "name": "Big", "symbol": "BIG", "price": "2"},
			{"name": "no-id"}
		]
	}`)

	snap, err := newTestClient(t, srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries (id-less record dropped), got %d", len(snap))
	}
	if snap[0].ID != "a1" || snap[0].Price != "0.5" || !snap[0].TGELive {
		t.Fatalf("unexpected first entry: %+v", snap[0])
	}
	// Large numeric ids must not lose precision.
	if snap[1].ID != "98765432109876543" {
		t.Fatalf("numeric id mangled: %q", snap[1].ID)
	}
}

func TestFetchEmptyData(t *testing.T) {
	t.Parallel()
	srv := serve(t, http.StatusOK, `{"success": true, "data": []}`)
	snap, err := newTestClient(t, srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", len(snap))
	}
}

func TestFetchFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "success false", status: http.StatusOK, body: `{"success": false, "data": []}`},
		{name: "missing data", status: http.StatusOK, body: `{"success": true}`},
		{name: "malformed json", status: http.StatusOK, body: `{"success": tru`},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`},
		{name: "not json at all", status: http.StatusOK, body: `<html>maintenance</html>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := serve(t, tt.status, tt.body)
			_, err := newTestClient(t, srv.URL).Fetch(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrFetch) {
				t.Fatalf("error %v does not wrap ErrFetch", err)
			}
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error %v is not a *FetchError", err)
			}
		})
	}
}

func TestFetchNetworkError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(t, srv.URL).Fetch(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	t.Parallel()
	if _, err := NewClient(ClientConfig{}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty url")
	}
}
