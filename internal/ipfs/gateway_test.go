package ipfs_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fractionft/fraction-marketplace/internal/ipfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const testCid = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func TestCleanPath(t *testing.T) {
	assert.Equal(t, testCid, ipfs.CleanPath("ipfs://"+testCid))
	assert.Equal(t, testCid, ipfs.CleanPath("/"+testCid))
	assert.Equal(t, testCid+"/img.png", ipfs.CleanPath("ipfs://"+testCid+"/img.png"))
}

func TestFetchFallsBackToNextGateway(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("content"))
	}))
	defer working.Close()

	resolver := ipfs.NewResolver([]string{broken.URL, working.URL}, time.Second)

	resp, err := resolver.Fetch(context.Background(), testCid, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "content", string(body))
}

func TestFetchAllGatewaysFail(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	resolver := ipfs.NewResolver([]string{broken.URL}, time.Second)

	_, err := resolver.Fetch(context.Background(), testCid, "")
	assert.ErrorIs(t, err, ipfs.ErrAllGatewaysFailed)
}

func TestFetchForwardsRangeHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bytes=0-99", r.Header.Get("Range"))
		w.WriteHeader(http.StatusPartialContent)
	}))
	defer server.Close()

	resolver := ipfs.NewResolver([]string{server.URL}, time.Second)

	resp, err := resolver.Fetch(context.Background(), testCid, "bytes=0-99")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
}

func TestFetchEmptyPath(t *testing.T) {
	resolver := ipfs.NewResolver([]string{"https://ipfs.io"}, time.Second)

	_, err := resolver.Fetch(context.Background(), "", "")
	assert.Error(t, err)
}
