package interfaces

import (
	"context"

	"github.com/ternarybob/relgate/internal/models"
)

// RestrictionIndex resolves which restricted releases govern a change to
// a (project, branch) pair.
type RestrictionIndex interface {
	RestrictedReleases(project, branch string) []models.RestrictedManifest
}

// CommitLister fetches the commit messages of a pull request.
type CommitLister interface {
	PullRequestCommits(ctx context.Context, owner, repo string, number int) ([]string, error)
}

// TicketExtractor pulls issue keys out of commit message text.
type TicketExtractor interface {
	ExtractKeys(messages []string) models.KeySet
}

// ApprovalSource resolves the set of issue keys approved under a given
// approval ticket. An empty set means the approval could not be
// verified; callers fail closed.
type ApprovalSource interface {
	ApprovedKeys(ctx context.Context, approvalTicket string) models.KeySet
}
