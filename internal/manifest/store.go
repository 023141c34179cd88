package manifest

import (
	"encoding/json"
	"encoding/xml"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/relgate/internal/models"
)

const (
	// DefaultBranch is the branch a manifest pins a project to when
	// neither the pin nor the document's <default> element says otherwise.
	DefaultBranch = "master"

	// productConfigName is the reserved per-product restriction policy
	// filename.
	productConfigName = "product-config.json"

	// packagingDescriptor is excluded from manifest discovery: it shares
	// the .xml extension but belongs to the build tooling.
	packagingDescriptor = "pom.xml"
)

// Store holds every manifest document and product restriction policy
// loaded from one checkout of the manifest collection. It is built once
// per run and read-only afterwards.
type Store struct {
	Documents []models.ManifestDocument
	Configs   []models.ProductConfig
}

// manifestXML mirrors the subset of the repo-manifest schema the gate
// cares about: the default revision and the project pins.
type manifestXML struct {
	Default *struct {
		Revision string `xml:"revision,attr"`
	} `xml:"default"`
	Projects       []projectXML `xml:"project"`
	ExtendProjects []projectXML `xml:"extend-project"`
}

type projectXML struct {
	Name     string `xml:"name,attr"`
	Revision string `xml:"revision,attr"`
}

// LoadStore walks the checkout root and loads every manifest document
// and product config. Individual parse failures are logged and skipped;
// a malformed document contributes zero pins rather than aborting the
// run.
func LoadStore(root string, skipDirs []string, logger arbor.ILogger) (*Store, error) {
	store := &Store{}

	skip := make(map[string]bool, len(skipDirs))
	for _, dir := range skipDirs {
		skip[dir] = true
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		switch {
		case d.Name() == productConfigName:
			if config, ok := loadProductConfig(path, rel, logger); ok {
				store.Configs = append(store.Configs, config)
				logger.Info().Str("product", config.Dir).Msg("Loaded product config")
			}
		case strings.HasSuffix(d.Name(), ".xml") && d.Name() != packagingDescriptor:
			if topLevelDir(rel, skip) {
				return nil
			}
			if doc, ok := parseManifest(path, rel, logger); ok {
				store.Documents = append(store.Documents, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("manifests", len(store.Documents)).
		Int("productConfigs", len(store.Configs)).
		Msg("Loaded manifest collection")

	return store, nil
}

// topLevelDir reports whether the relative path's first segment is one
// of the non-authoritative directories.
func topLevelDir(rel string, skip map[string]bool) bool {
	first := rel
	if idx := strings.IndexByte(filepath.ToSlash(rel), '/'); idx >= 0 {
		first = filepath.ToSlash(rel)[:idx]
	}
	return skip[first]
}

// parseManifest reads one manifest XML document. Pins without an
// explicit revision inherit the document's default branch, so revision
// resolution happens exactly once, here.
func parseManifest(path, rel string, logger arbor.ILogger) (models.ManifestDocument, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("manifest", rel).Msg("Could not read manifest")
		return models.ManifestDocument{}, false
	}

	var parsed manifestXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		logger.Warn().Err(err).Str("manifest", rel).Msg("Could not parse manifest")
		return models.ManifestDocument{}, false
	}

	doc := models.ManifestDocument{
		Path:          rel,
		DefaultBranch: DefaultBranch,
	}
	if parsed.Default != nil && parsed.Default.Revision != "" {
		doc.DefaultBranch = parsed.Default.Revision
	}

	for _, group := range [][]projectXML{parsed.Projects, parsed.ExtendProjects} {
		for _, p := range group {
			if p.Name == "" {
				continue
			}
			revision := p.Revision
			if revision == "" {
				revision = doc.DefaultBranch
			}
			doc.Pins = append(doc.Pins, models.ProjectPin{Name: p.Name, Revision: revision})
		}
	}

	return doc, true
}

// loadProductConfig reads one product-config.json, keyed by its parent
// directory relative to the root ("." for the top-level config).
func loadProductConfig(path, rel string, logger arbor.ILogger) (models.ProductConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("config", rel).Msg("Could not read product config")
		return models.ProductConfig{}, false
	}

	var config models.ProductConfig
	if err := json.Unmarshal(data, &config); err != nil {
		logger.Warn().Err(err).Str("config", rel).Msg("Could not parse product config")
		return models.ProductConfig{}, false
	}

	config.Dir = filepath.ToSlash(filepath.Dir(rel))

	for key, entry := range config.Manifests {
		if entry.Restricted && entry.ApprovalTicket == "" {
			// Restricted entries without an approval ticket cannot be
			// checked and never gate a merge. Logged so policy owners
			// notice the misconfiguration. TODO(policy): confirm with
			// release owners whether this should hard-fail instead.
			logger.Warn().
				Str("product", config.Dir).
				Str("manifest", key).
				Msg("Restricted manifest has no approval ticket; entry will be ignored")
		}
	}

	return config, true
}
