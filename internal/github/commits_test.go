package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/relgate/internal/common"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	return NewClientFromGitHub(client, common.GetLogger())
}

func TestPullRequestCommits(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/couchbase/myrepo/pulls/42/commits", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"sha": "aaa", "commit": {"message": "REL-205: fix bug"}},
			{"sha": "bbb", "commit": {"message": "follow-up"}}
		]`)
	}))

	messages, err := client.PullRequestCommits(context.Background(), "couchbase", "myrepo", 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"REL-205: fix bug", "follow-up"}, messages)
}

func TestPullRequestCommits_Paginated(t *testing.T) {
	var server *httptest.Server
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"sha": "ccc", "commit": {"message": "third"}}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/couchbase/myrepo/pulls/42/commits?page=2>; rel="next"`, server.URL))
		fmt.Fprint(w, `[
			{"sha": "aaa", "commit": {"message": "first"}},
			{"sha": "bbb", "commit": {"message": "second"}}
		]`)
	})
	server = httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	messages, err := NewClientFromGitHub(client, common.GetLogger()).
		PullRequestCommits(context.Background(), "couchbase", "myrepo", 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, messages)
}

func TestPullRequestCommits_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))

	_, err := client.PullRequestCommits(context.Background(), "couchbase", "myrepo", 42)
	assert.Error(t, err)
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient("", 0, common.GetLogger())
	assert.Error(t, err)
}
