package port

import "github.com/quarryhq/fieldsmith/internal/core/domain"

// SchemaEmitter turns a dataset classification into one or more generated
// artifacts. Emitters are deterministic: the same classification always
// produces byte-identical output.
type SchemaEmitter interface {
	Emit(c *domain.DatasetClassification) ([]Artifact, error)
}
