package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDetectLoader(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"notes.txt", false},
		{"readme.md", false},
		{"README.MD", false},
		{"report.pdf", false},
		{"image.png", true},
		{"archive.zip", true},
		{"noextension", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := DetectLoader(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTextLoader(t *testing.T) {
	path := writeTempFile(t, "doc.txt", "hello world")

	loader := &TextLoader{}
	text, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestProcessor_Process(t *testing.T) {
	content := "The first paragraph of the document.\n\nThe second paragraph with more detail."
	path := writeTempFile(t, "sample.txt", content)

	proc := NewProcessor(nil)
	chunks, err := proc.Process(path)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	docId := chunks[0].DocId
	assert.NotEqual(t, core.ID(0), docId)

	for i, chunk := range chunks {
		assert.Equal(t, "sample.txt", chunk.Title)
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, docId, chunk.DocId)
		assert.Equal(t, core.SourceTypeDocument, chunk.SourceType)
		assert.NotEmpty(t, chunk.Content)
		assert.Empty(t, chunk.Vector)
		assert.False(t, chunk.InsertedAt.IsZero())
	}
}

func TestProcessor_LongDocumentSplits(t *testing.T) {
	// Well beyond one chunk
	content := strings.Repeat("Sentence about a topic. ", 200)
	path := writeTempFile(t, "long.txt", content)

	proc := NewProcessor(NewChunker(200, 40))
	chunks, err := proc.Process(path)
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 200)
	}
}

func TestProcessor_EmptyDocument(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "   \n\t ")

	proc := NewProcessor(nil)
	_, err := proc.Process(path)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestProcessor_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "data.csv", "a,b,c")

	proc := NewProcessor(nil)
	_, err := proc.Process(path)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}
