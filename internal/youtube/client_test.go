package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ytsa-go/internal/config"
	"ytsa-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Init("error", "console", "stdout", "")
}

func newTestClient(handler http.Handler) (*DataAPIClient, func()) {
	server := httptest.NewServer(handler)
	client := NewDataAPIClient(&config.YouTubeConfig{
		BaseURL:  server.URL,
		APIKey:   "test-key",
		PageSize: 2,
		Timeout:  5,
	})
	return client, server.Close
}

func TestFetchVideoMetadata(t *testing.T) {
	client, closeFn := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "abc123", r.URL.Query().Get("id"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"snippet": map[string]interface{}{"title": "demo", "channelId": "UC-x"}},
			},
		})
	}))
	defer closeFn()

	meta, err := client.FetchVideoMetadata(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "demo", meta.Title)
	assert.Equal(t, "UC-x", meta.ChannelID)
}

func TestFetchVideoMetadataNotFound(t *testing.T) {
	client, closeFn := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer closeFn()

	_, err := client.FetchVideoMetadata(context.Background(), "missing")
	assert.Error(t, err)
}

func TestFetchCommentsPagination(t *testing.T) {
	page := 0
	client, closeFn := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commentThreads", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("maxResults"))

		page++
		resp := map[string]interface{}{
			"items": []map[string]interface{}{
				{"snippet": map[string]interface{}{"topLevelComment": map[string]interface{}{
					"id": "c" + r.URL.Query().Get("pageToken") + "1",
					"snippet": map[string]interface{}{
						"textDisplay":       "text",
						"authorDisplayName": "alice",
						"likeCount":         3,
						"publishedAt":       "2025-05-01T10:00:00Z",
					},
				}}},
			},
		}
		if page == 1 {
			resp["nextPageToken"] = "p2"
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer closeFn()

	var batches [][]RawComment
	err := client.FetchComments(context.Background(), "abc123", func(batch []RawComment) error {
		batches = append(batches, batch)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, batches, 2, "one callback per page")

	first := batches[0][0]
	assert.Equal(t, "c1", first.YtCommentID)
	require.NotNil(t, first.Author)
	assert.Equal(t, "alice", *first.Author)
	require.NotNil(t, first.LikeCount)
	assert.Equal(t, int64(3), *first.LikeCount)
	require.NotNil(t, first.PublishedAt)
	assert.Nil(t, first.ParentID)

	assert.Equal(t, "cp21", batches[1][0].YtCommentID)
}

func TestFetchCommentsServerError(t *testing.T) {
	client, closeFn := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer closeFn()

	err := client.FetchComments(context.Background(), "abc123", func([]RawComment) error {
		t.Fatal("callback must not run on error")
		return nil
	})
	assert.Error(t, err)
}
