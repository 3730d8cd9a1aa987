package domain

// Document is a corpus file read into memory. Documents only live long enough
// to be chunked.
type Document struct {
	Source string
	Text   string
}

// Chunk is an overlapping window of a source document. StartOffset is the
// rune offset of the chunk start within the document it came from.
type Chunk struct {
	Source      string
	Text        string
	StartOffset int
}

// RetrievedChunk is a chunk returned from similarity search
type RetrievedChunk struct {
	Chunk
	Score float32
}
