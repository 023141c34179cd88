package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
)

// Client lists pull request commits over the GitHub REST API.
type Client struct {
	client *github.Client
	logger arbor.ILogger
}

// NewClient creates a GitHub client authenticated with a bearer token.
func NewClient(token string, timeout time.Duration, logger arbor.ILogger) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout

	return &Client{client: github.NewClient(tc), logger: logger}, nil
}

// NewClientFromGitHub wraps an existing go-github client. Used by tests
// to point the client at a local server.
func NewClientFromGitHub(client *github.Client, logger arbor.ILogger) *Client {
	return &Client{client: client, logger: logger}
}

// PullRequestCommits returns the commit messages of a pull request in
// order, following pagination.
func (c *Client) PullRequestCommits(ctx context.Context, owner, repo string, number int) ([]string, error) {
	var messages []string

	opts := &github.ListOptions{PerPage: 100}
	for {
		commits, resp, err := c.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for PR #%d: %w", number, err)
		}

		for _, commit := range commits {
			messages = append(messages, commit.GetCommit().GetMessage())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug().
		Str("repo", owner+"/"+repo).
		Int("pr", number).
		Int("commits", len(messages)).
		Msg("Fetched pull request commits")

	return messages, nil
}
