package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quarryhq/fieldsmith/internal/core/port"
)

// WriteArtifacts writes generated artifacts into dir, creating it if
// needed. Existing files are overwritten: generation is idempotent and
// re-running with the same profile produces identical content.
func WriteArtifacts(dir string, artifacts []port.Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Filename)
		if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s artifact: %w", a.Kind, err)
		}
	}
	return nil
}
