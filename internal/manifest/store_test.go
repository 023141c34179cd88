package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/relgate/internal/common"
	"github.com/ternarybob/relgate/internal/models"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func loadTestStore(t *testing.T, root string) *Store {
	t.Helper()
	store, err := LoadStore(root, []string{"toy", "released"}, common.GetLogger())
	if err != nil {
		t.Fatalf("LoadStore failed: %v", err)
	}
	return store
}

func findDocument(t *testing.T, store *Store, path string) models.ManifestDocument {
	t.Helper()
	for _, doc := range store.Documents {
		if doc.Path == path {
			return doc
		}
	}
	t.Fatalf("Document %s not loaded; have %v", path, store.Documents)
	return models.ManifestDocument{}
}

func TestLoadStore_ParsesManifests(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "couchbase-server/release/7.6.xml", `<manifest>
  <default revision="release/7.6"/>
  <project name="myrepo" revision="release/7.6"/>
  <project name="other"/>
  <extend-project name="extended" revision="feature/x"/>
  <project revision="nameless-is-skipped"/>
</manifest>`)

	store := loadTestStore(t, root)

	if len(store.Documents) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(store.Documents))
	}

	doc := findDocument(t, store, filepath.FromSlash("couchbase-server/release/7.6.xml"))
	if doc.DefaultBranch != "release/7.6" {
		t.Errorf("DefaultBranch = %q, want release/7.6", doc.DefaultBranch)
	}

	want := []models.ProjectPin{
		{Name: "myrepo", Revision: "release/7.6"},
		{Name: "other", Revision: "release/7.6"}, // inherits default
		{Name: "extended", Revision: "feature/x"},
	}
	if len(doc.Pins) != len(want) {
		t.Fatalf("Expected %d pins, got %d: %v", len(want), len(doc.Pins), doc.Pins)
	}
	for i, pin := range want {
		if doc.Pins[i] != pin {
			t.Errorf("Pin %d = %v, want %v", i, doc.Pins[i], pin)
		}
	}
}

func TestLoadStore_DefaultBranchFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "plain.xml", `<manifest>
  <project name="myrepo"/>
</manifest>`)

	store := loadTestStore(t, root)

	doc := findDocument(t, store, "plain.xml")
	if doc.DefaultBranch != "master" {
		t.Errorf("DefaultBranch = %q, want master", doc.DefaultBranch)
	}
	if len(doc.Pins) != 1 || doc.Pins[0].Revision != "master" {
		t.Errorf("Expected pin at master, got %v", doc.Pins)
	}
}

func TestLoadStore_Exclusions(t *testing.T) {
	root := t.TempDir()
	manifest := `<manifest><project name="myrepo" revision="main"/></manifest>`
	writeFile(t, root, "good.xml", manifest)
	writeFile(t, root, "pom.xml", `<project><artifactId>build</artifactId></project>`)
	writeFile(t, root, "toy/toy-one.xml", manifest)
	writeFile(t, root, "released/7.0.xml", manifest)
	writeFile(t, root, "nested/pom.xml", manifest)
	writeFile(t, root, "nested/released.xml", manifest) // not a skip dir, just a name

	store := loadTestStore(t, root)

	if len(store.Documents) != 2 {
		t.Fatalf("Expected 2 documents, got %d: %v", len(store.Documents), store.Documents)
	}
	findDocument(t, store, "good.xml")
	findDocument(t, store, filepath.FromSlash("nested/released.xml"))
}

func TestLoadStore_MalformedManifestSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.xml", `<manifest><project name="myrepo"`)
	writeFile(t, root, "good.xml", `<manifest><project name="myrepo" revision="main"/></manifest>`)

	store := loadTestStore(t, root)

	if len(store.Documents) != 1 {
		t.Fatalf("Expected malformed manifest to be skipped, got %d documents", len(store.Documents))
	}
	findDocument(t, store, "good.xml")
}

func TestLoadStore_ProductConfigs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "product-config.json", `{
  "manifests": {
    "release/7.6.xml": {"restricted": true, "approval_ticket": "REL-100", "release_name": "7.6.0"}
  }
}`)
	writeFile(t, root, "couchbase-server/product-config.json", `{
  "manifests": {
    "trinity.xml": {"restricted": false}
  }
}`)
	writeFile(t, root, "broken/product-config.json", `{not json`)

	store := loadTestStore(t, root)

	if len(store.Configs) != 2 {
		t.Fatalf("Expected 2 product configs (malformed skipped), got %d", len(store.Configs))
	}

	byDir := make(map[string]models.ProductConfig)
	for _, config := range store.Configs {
		byDir[config.Dir] = config
	}

	rootConfig, ok := byDir["."]
	if !ok {
		t.Fatal("Expected root-level product config keyed by \".\"")
	}
	entry := rootConfig.Manifests["release/7.6.xml"]
	if !entry.Restricted || entry.ApprovalTicket != "REL-100" || entry.ReleaseName != "7.6.0" {
		t.Errorf("Unexpected entry: %+v", entry)
	}

	if _, ok := byDir["couchbase-server"]; !ok {
		t.Error("Expected product config keyed by couchbase-server")
	}
}
