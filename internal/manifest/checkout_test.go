package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/relgate/internal/common"
)

func TestCheckout_CloseRemovesDir(t *testing.T) {
	dir, err := os.MkdirTemp("", "relgate-manifest-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "some.xml"), []byte("<manifest/>"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	checkout := &Checkout{Dir: dir, logger: common.GetLogger()}
	if err := checkout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Expected checkout dir to be removed, stat err = %v", err)
	}

	// Closing twice is safe
	if err := checkout.Close(); err != nil {
		t.Errorf("Second Close: %v", err)
	}
}
