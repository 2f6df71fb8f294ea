package types

// VectorRecord pairs one chunk's embedding vector with its provenance tag
// (the source document name). The collection handed to an index build is
// append-only within that build; position i in the index corresponds to
// record i.
type VectorRecord struct {
	Vector []float32
	Tag    string
}

// Match is a single nearest-neighbor search result: the matched record's
// provenance tag and its squared L2 distance from the query vector.
// Lower distance means a closer match. Position is the matched record's
// index within the build, so callers can recover the record or its chunk
// from the aligned corpus slices.
type Match struct {
	Tag      string
	Distance float32
	Position int
}
