package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/fetch"
)

// newUpstream starts a test double for the card site and returns a Client
// pointed at it.
func newUpstream(t *testing.T, handler http.HandlerFunc) (*fetch.Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return fetch.New(srv.URL, 5*time.Second), srv
}

func TestSearch_EncodesQuery(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"results": []}`))
	})

	body, err := client.Search(context.Background(), "heart of fyendal & more")
	require.NoError(t, err)

	assert.Equal(t, "/api/search/v1/cards/", gotPath)
	assert.Equal(t, "heart of fyendal & more", gotQuery)
	assert.JSONEq(t, `{"results": []}`, string(body))
}

func TestPrints_FiltersByCardID(t *testing.T) {
	var gotCardID string
	client, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotCardID = r.URL.Query().Get("card_id")
		w.Write([]byte(`{"results": []}`))
	})

	_, err := client.Prints(context.Background(), "WTR001")
	require.NoError(t, err)
	assert.Equal(t, "WTR001", gotCardID)
}

func TestDetailPage_Paths(t *testing.T) {
	var gotPath string
	client, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte("<html></html>"))
	})

	_, err := client.DetailPage(context.Background(), "WTR001", "")
	require.NoError(t, err)
	assert.Equal(t, "/card/WTR001/", gotPath)

	_, err = client.DetailPage(context.Background(), "WTR001", "JA_WTR001")
	require.NoError(t, err)
	assert.Equal(t, "/card/WTR001/JA_WTR001/", gotPath)
}

func TestDetailPage_EscapesReservedCharacters(t *testing.T) {
	var gotPath string
	client, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte("<html></html>"))
	})

	// An identifier with a slash must not change the target resource.
	_, err := client.DetailPage(context.Background(), "WTR001/evil", "")
	require.NoError(t, err)
	assert.Equal(t, "/card/WTR001%2Fevil/", gotPath)
}

func TestGet_NonSuccessStatus(t *testing.T) {
	client, _ := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	_, err := client.Search(context.Background(), "x")
	require.Error(t, err)

	var upstream *core.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.Status)
}

func TestGet_UnreachableOrigin(t *testing.T) {
	client, srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.Search(context.Background(), "x")
	require.Error(t, err)

	var upstream *core.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Zero(t, upstream.Status)
}
