package models

// ProjectPin pins a named project to a branch or revision inside a
// manifest document. Revision is always resolved: pins that omit an
// explicit revision inherit the document's default branch at parse time.
type ProjectPin struct {
	Name     string
	Revision string
}

// ManifestDocument is one parsed release manifest. Path is relative to
// the manifest collection root, using forward slashes.
type ManifestDocument struct {
	Path          string
	DefaultBranch string
	Pins          []ProjectPin
}

// RestrictionEntry is one manifest's policy record inside a
// product-config.json file.
type RestrictionEntry struct {
	Restricted     bool   `json:"restricted"`
	ApprovalTicket string `json:"approval_ticket"`
	ReleaseName    string `json:"release_name"`
}

// Actionable reports whether this entry can actually gate a merge.
// A restricted flag without an approval ticket cannot be checked against
// Jira, so it is skipped rather than treated as a pass or a failure.
func (e RestrictionEntry) Actionable() bool {
	return e.Restricted && e.ApprovalTicket != ""
}

// ProductConfig holds the restriction policy for one product directory.
// Manifests maps manifest-key strings (relative path, slashed path, or
// bare filename) to their restriction entries.
type ProductConfig struct {
	Dir       string
	Manifests map[string]RestrictionEntry `json:"manifests"`
}

// RestrictedManifest is the join of a manifest document that pins the
// target project/branch with a product config entry that restricts it.
type RestrictedManifest struct {
	ManifestPath   string
	ProductDir     string
	ApprovalTicket string
	ReleaseName    string
}
