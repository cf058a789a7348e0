package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SourceType identifies where a piece of evidence came from.
type SourceType int

const (
	// SourceTypeDocument marks evidence retrieved from the local corpus.
	SourceTypeDocument SourceType = iota + 1
	// SourceTypeWeb marks evidence returned by the web search adapter.
	SourceTypeWeb
	// SourceTypeWikipedia marks evidence returned by the encyclopedia adapter.
	SourceTypeWikipedia
)

// String returns the context-block label for the source type.
func (s SourceType) String() string {
	switch s {
	case SourceTypeDocument:
		return "Doc"
	case SourceTypeWeb:
		return "Web"
	case SourceTypeWikipedia:
		return "Wikipedia"
	default:
		return "Unknown"
	}
}

// Chunk is a bounded unit of document text plus metadata.
// It is the atomic unit of retrieval and is immutable once created.
// Title is the only externally addressable grouping key (used for deletion).
type Chunk struct {
	Id         ID
	DocId      ID
	Title      string
	ChunkIndex int
	SourceType SourceType
	Content    string
	Vector     []float32 // Embedding vector (populated during index rebuild)
	InsertedAt time.Time
}

// QueryType classifies the intent of a user query.
type QueryType int

const (
	// QueryTypeGreeting is small talk that never triggers retrieval.
	QueryTypeGreeting QueryType = iota + 1
	// QueryTypeDocument asks about locally indexed documents.
	QueryTypeDocument
	// QueryTypeWeb asks for live information only the web can answer.
	QueryTypeWeb
	// QueryTypeHybrid needs both documents and the web.
	QueryTypeHybrid
	// QueryTypeRefuse is produced only by the policy gate, never by
	// classification, when the query needs a disabled capability.
	QueryTypeRefuse
)

// String returns the classifier label for the query type.
func (q QueryType) String() string {
	switch q {
	case QueryTypeGreeting:
		return "GREETING"
	case QueryTypeDocument:
		return "DOCUMENT"
	case QueryTypeWeb:
		return "WEB"
	case QueryTypeHybrid:
		return "HYBRID"
	case QueryTypeRefuse:
		return "REFUSE"
	default:
		return "UNKNOWN"
	}
}

// ParseQueryType converts a raw classifier label into a QueryType.
// It is total: any label outside {GREETING, DOCUMENT, WEB, HYBRID}
// yields QueryTypeDocument. A REFUSE label from the classifier is
// deliberately not trusted; only the policy gate may refuse.
func ParseQueryType(label string) QueryType {
	switch label {
	case "GREETING":
		return QueryTypeGreeting
	case "DOCUMENT":
		return QueryTypeDocument
	case "WEB":
		return QueryTypeWeb
	case "HYBRID":
		return QueryTypeHybrid
	default:
		return QueryTypeDocument
	}
}

// Route is the outcome of intent classification plus policy gating.
// It is produced once per query, immutable, and consumed exactly once.
type Route struct {
	QueryType QueryType
	AllowWeb  bool
}

// ContextItem is a retrieved unit of evidence: a corpus chunk or an
// external search snippet.
type ContextItem struct {
	SourceType SourceType
	Content    string
	Title      string
	URL        string // Set for web and wikipedia items
	ChunkIndex int    // Set for document items
}

// Label returns the inline context tag for the item at 1-based
// position i, e.g. "[Doc 2]" or "[Web 1]".
func (c ContextItem) Label(i int) string {
	return fmt.Sprintf("[%s %d]", c.SourceType, i)
}

// Citation returns the human-readable source line for the item.
// The format depends on the source type:
//
//	document  -> "[Doc] <title> - Chunk <chunkIndex>"
//	web       -> "[Web] <title> - <url>"
//	wikipedia -> "[Wikipedia] <title> - <url>"
func (c ContextItem) Citation() string {
	if c.SourceType == SourceTypeDocument {
		return fmt.Sprintf("[%s] %s - Chunk %d", c.SourceType, c.Title, c.ChunkIndex)
	}
	return fmt.Sprintf("[%s] %s - %s", c.SourceType, c.Title, c.URL)
}

// ContextItemFromChunk converts a corpus chunk into a document evidence item.
func ContextItemFromChunk(chunk *Chunk) ContextItem {
	return ContextItem{
		SourceType: SourceTypeDocument,
		Content:    chunk.Content,
		Title:      chunk.Title,
		ChunkIndex: chunk.ChunkIndex,
	}
}

// AnswerResult is a composed answer plus its ordered source list.
// Sources[i] corresponds positionally to the i-th evidence item used
// to ground the answer.
type AnswerResult struct {
	Answer  string
	Sources []string
}

// SearchResult is a corpus chunk matched by similarity search.
type SearchResult struct {
	Chunk *Chunk
	Score float32
}
