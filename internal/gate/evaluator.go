package gate

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/relgate/internal/interfaces"
)

// State is a terminal gate outcome.
type State string

const (
	// StateNotRestricted: the target branch is not pinned by any
	// restricted release manifest; nothing to check.
	StateNotRestricted State = "not_restricted"
	// StateNoTicketRefs: restricted releases apply but no commit
	// references a ticket.
	StateNoTicketRefs State = "no_ticket_refs"
	// StateAllApproved: every restricted release's approval covers
	// every referenced ticket.
	StateAllApproved State = "all_approved"
	// StateSomeUnapproved: at least one referenced ticket is missing
	// from a restricted release's approval set.
	StateSomeUnapproved State = "some_unapproved"
	// StateLookupFailed: at least one approval set could not be
	// retrieved; the gate fails closed.
	StateLookupFailed State = "approval_lookup_failed"
)

// Passed reports whether the state is a passing terminal state.
func (s State) Passed() bool {
	return s == StateNotRestricted || s == StateAllApproved
}

// Request identifies the pull request under evaluation.
type Request struct {
	Owner    string
	Repo     string
	Project  string
	Branch   string
	PRNumber int
}

// Evaluator runs the gate decision over its collaborators. All network
// calls happen through the injected interfaces; the evaluator itself is
// strictly sequential.
type Evaluator struct {
	index     interfaces.RestrictionIndex
	commits   interfaces.CommitLister
	extractor interfaces.TicketExtractor
	approvals interfaces.ApprovalSource
	reporter  *Reporter
	logger    arbor.ILogger
}

// NewEvaluator wires an evaluator from its collaborators.
func NewEvaluator(
	index interfaces.RestrictionIndex,
	commits interfaces.CommitLister,
	extractor interfaces.TicketExtractor,
	approvals interfaces.ApprovalSource,
	reporter *Reporter,
	logger arbor.ILogger,
) *Evaluator {
	return &Evaluator{
		index:     index,
		commits:   commits,
		extractor: extractor,
		approvals: approvals,
		reporter:  reporter,
		logger:    logger,
	}
}

// Run evaluates the gate for one pull request and returns the terminal
// state. Approval checks are fail-complete, not fail-fast: every
// restricted manifest is evaluated and reported before the aggregate
// verdict, so a contributor sees all blockers in one run.
func (e *Evaluator) Run(ctx context.Context, req Request) State {
	matches := e.index.RestrictedReleases(req.Project, req.Branch)
	if len(matches) == 0 {
		e.reporter.NotRestricted(req.Branch, req.Project)
		return StateNotRestricted
	}

	e.reporter.RestrictedFound(matches)

	messages, err := e.commits.PullRequestCommits(ctx, req.Owner, req.Repo, req.PRNumber)
	if err != nil {
		// A failed commit listing degrades to zero commits: the gate
		// still fails below because no ticket reference exists.
		e.logger.Error().Err(err).Int("pr", req.PRNumber).Msg("Failed to fetch pull request commits")
		messages = nil
	}

	keys := e.extractor.ExtractKeys(messages)
	e.reporter.TicketRefs(keys)

	if keys.Len() == 0 {
		e.reporter.NoTicketRefs()
		return StateNoTicketRefs
	}

	state := StateAllApproved
	for _, match := range matches {
		e.reporter.CheckingApproval(match)

		approved := e.approvals.ApprovedKeys(ctx, match.ApprovalTicket)
		if approved.Len() == 0 {
			e.reporter.LookupFailed(match.ApprovalTicket)
			if state == StateAllApproved {
				state = StateLookupFailed
			}
			continue
		}

		if missing := approved.Missing(keys); len(missing) > 0 {
			e.reporter.NotApproved(match, missing)
			if state == StateAllApproved {
				state = StateSomeUnapproved
			}
			continue
		}

		e.reporter.Approved(match)
	}

	if state == StateAllApproved {
		e.reporter.AllPassed()
	}

	return state
}
