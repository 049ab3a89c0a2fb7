package domain

// DocumentRecord is the remote service's listing entry for a stored document.
type DocumentRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChunkRecord is a stored segment of a document. Chunk listings and
// collection listings use different field names on the wire; both are
// projected onto this shape.
type ChunkRecord struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
