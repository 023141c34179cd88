package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/ternarybob/arbor"
)

// Checkout is a scoped clone of the manifest collection. The clone lives
// in a temporary directory for the duration of one gate run; Close must
// be deferred immediately after a successful checkout so the directory
// is removed on every exit path.
type Checkout struct {
	Dir    string
	logger arbor.ILogger
}

// NewCheckout clones the manifest collection into a fresh temporary
// directory. A shallow clone is enough: the gate only reads the current
// state of the tree.
func NewCheckout(ctx context.Context, repoURL string, logger arbor.ILogger) (*Checkout, error) {
	dir, err := os.MkdirTemp("", "relgate-manifest-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	logger.Info().Str("url", repoURL).Str("dir", dir).Msg("Cloning manifest repository")

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	})
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to clone manifest repository: %w", err)
	}

	return &Checkout{Dir: dir, logger: logger}, nil
}

// Close removes the temporary clone.
func (c *Checkout) Close() error {
	if c.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(c.Dir); err != nil {
		c.logger.Warn().Err(err).Str("dir", c.Dir).Msg("Failed to remove manifest checkout")
		return err
	}
	c.Dir = ""
	return nil
}
