package scholar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresAuthor(t *testing.T) {
	_, err := New("", "key")
	if err == nil {
		t.Fatal("expected error for empty author id")
	}
}

func TestFetchAuthorSendsParams(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"engine":    q.Get("engine"),
			"author_id": q.Get("author_id"),
			"hl":        q.Get("hl"),
			"num":       q.Get("num"),
			"sort":      q.Get("sort"),
			"api_key":   q.Get("api_key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authorFixture))
	}))
	defer srv.Close()

	c, err := New("f34uj7UAAAAJ", "secret", WithBaseURL(srv.URL+"/search.json"), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	ds, err := c.FetchAuthor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mohammad Saud Afzal", ds.Profile.Name)
	assert.Len(t, ds.Publications, 2)

	assert.Equal(t, map[string]string{
		"engine":    "google_scholar_author",
		"author_id": "f34uj7UAAAAJ",
		"hl":        "en",
		"num":       "100",
		"sort":      "pubdate",
		"api_key":   "secret",
	}, got)
}

func TestFetchAuthorOptions(t *testing.T) {
	var hl, num, sort string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hl, num, sort = r.URL.Query().Get("hl"), r.URL.Query().Get("num"), r.URL.Query().Get("sort")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New("id", "", WithBaseURL(srv.URL), WithLocale("de"), WithLimit(20), WithSort("title"))
	require.NoError(t, err)

	_, err = c.FetchAuthor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "de", hl)
	assert.Equal(t, "20", num)
	assert.Equal(t, "title", sort)
}

func TestFetchAuthorFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "unauthorized with in-band error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid API key."}`))
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>maintenance</html>`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c, err := New("id", "key", WithBaseURL(srv.URL))
			require.NoError(t, err)

			_, err = c.FetchAuthor(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
		})
	}
}

func TestFetchAuthorTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New("id", "key", WithBaseURL(base))
	require.NoError(t, err)

	_, err = c.FetchAuthor(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchAuthorHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := New("id", "key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.FetchAuthor(ctx)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}
