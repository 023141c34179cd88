package gate

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/relgate/internal/models"
)

// Reporter writes the gate's human-readable diagnostics. Every
// restricted manifest gets its own status line before the aggregate
// verdict, so one run surfaces every blocker at once. This output is
// the process contract; operational logging goes through the logger.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out (stdout in the binary).
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) Checking(repo, branch string) {
	fmt.Fprintf(r.out, "Checking restrictions for repository: %s, target branch: %s\n", repo, branch)
}

func (r *Reporter) NotRestricted(branch, project string) {
	fmt.Fprintf(r.out, "✅ Branch '%s' for project '%s' is not part of any restricted release manifest. Skipping extra checks.\n", branch, project)
}

func (r *Reporter) RestrictedFound(matches []models.RestrictedManifest) {
	fmt.Fprintf(r.out, "Found %d restricted manifest(s) that reference this project/branch:\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(r.out, "  - %s (approval ticket: %s)\n", m.ManifestPath, m.ApprovalTicket)
	}
}

func (r *Reporter) TicketRefs(keys models.KeySet) {
	refs := "None"
	if keys.Len() > 0 {
		refs = strings.Join(keys.Sorted(), ", ")
	}
	fmt.Fprintf(r.out, "JIRA references found in commit messages: %s\n", refs)
}

func (r *Reporter) NoTicketRefs() {
	fmt.Fprintln(r.out, "❌ No JIRA ticket reference found in any commit message. Please include a JIRA issue key in at least one commit message.")
}

func (r *Reporter) CheckingApproval(m models.RestrictedManifest) {
	fmt.Fprintf(r.out, "\nChecking approval for manifest %s (approval ticket: %s)\n", m.ManifestPath, m.ApprovalTicket)
}

func (r *Reporter) LookupFailed(approvalTicket string) {
	fmt.Fprintf(r.out, "❌ Could not retrieve approved tickets for %s\n", approvalTicket)
}

func (r *Reporter) NotApproved(m models.RestrictedManifest, missing []string) {
	fmt.Fprintf(r.out, "❌ The following JIRA ticket(s) are not approved for %s: %s. Please link these issue(s) in the approval ticket %s before merging.\n",
		m.ReleaseName, strings.Join(missing, ", "), m.ApprovalTicket)
}

func (r *Reporter) Approved(m models.RestrictedManifest) {
	fmt.Fprintf(r.out, "✅ All JIRA tickets are approved for %s\n", m.ReleaseName)
}

func (r *Reporter) AllPassed() {
	fmt.Fprintln(r.out, "\n✅ All checks passed. All JIRA tickets referenced in commits are approved for all restricted manifests.")
}
