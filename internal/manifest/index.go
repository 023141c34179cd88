package manifest

import (
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/relgate/internal/models"
)

// Index answers restriction queries over a loaded Store. It is a pure
// in-memory read: no network, no mutation.
type Index struct {
	store  *Store
	logger arbor.ILogger
}

// NewIndex creates an Index over a loaded store.
func NewIndex(store *Store, logger arbor.ILogger) *Index {
	return &Index{store: store, logger: logger}
}

// RestrictedReleases returns one match per (manifest, product config)
// pair that both pins the given project/branch and is flagged restricted
// with an approval ticket. A single manifest restricted under multiple
// product configs yields multiple matches; each must be satisfied
// independently.
func (ix *Index) RestrictedReleases(project, branch string) []models.RestrictedManifest {
	var matches []models.RestrictedManifest

	for _, doc := range ix.store.Documents {
		if !pinsBranch(doc, project, branch) {
			continue
		}

		ix.logger.Info().
			Str("project", project).
			Str("branch", branch).
			Str("manifest", doc.Path).
			Msg("Project found in manifest")

		for _, config := range ix.store.Configs {
			key, entry, ok := lookupEntry(config, doc.Path)
			if !ok || !entry.Actionable() {
				continue
			}

			releaseName := entry.ReleaseName
			if releaseName == "" {
				releaseName = key
			}

			matches = append(matches, models.RestrictedManifest{
				ManifestPath:   filepath.ToSlash(doc.Path),
				ProductDir:     config.Dir,
				ApprovalTicket: entry.ApprovalTicket,
				ReleaseName:    releaseName,
			})

			ix.logger.Info().
				Str("manifest", key).
				Str("ticket", entry.ApprovalTicket).
				Msg("Found restricted manifest")
		}
	}

	return matches
}

// pinsBranch reports whether the document declares the project at the
// given branch. Revision equality is the sole match criterion; a pin
// riding the document's default branch matches when the target branch
// equals that same default.
func pinsBranch(doc models.ManifestDocument, project, branch string) bool {
	for _, pin := range doc.Pins {
		if pin.Name != project {
			continue
		}
		if pin.Revision == branch {
			return true
		}
		if pin.Revision == doc.DefaultBranch && branch == doc.DefaultBranch {
			return true
		}
	}
	return false
}

// lookupEntry probes a product config with the document's candidate
// keys in order: relative path, forward-slashed path, bare filename.
// The first key present in the config wins and ends the probe for that
// config, whether or not the entry turns out to be actionable.
func lookupEntry(config models.ProductConfig, docPath string) (string, models.RestrictionEntry, bool) {
	candidates := []string{
		docPath,
		filepath.ToSlash(docPath),
		filepath.Base(docPath),
	}

	for _, key := range candidates {
		if entry, ok := config.Manifests[key]; ok {
			return key, entry, true
		}
	}
	return "", models.RestrictionEntry{}, false
}
