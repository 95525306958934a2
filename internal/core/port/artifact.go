package port

// ArtifactKind identifies a generated output.
type ArtifactKind string

const (
	ArtifactEntity        ArtifactKind = "entity"
	ArtifactRepository    ArtifactKind = "repository"
	ArtifactDDL           ArtifactKind = "ddl"
	ArtifactIndexSettings ArtifactKind = "index_settings"
	ArtifactTemplate      ArtifactKind = "template"
)

// Artifact is one generated file: a suggested filename plus its content.
type Artifact struct {
	Kind     ArtifactKind `json:"kind"`
	Filename string       `json:"filename"`
	Content  string       `json:"content"`
}
