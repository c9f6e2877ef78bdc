package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("plain text", func(t *testing.T) {
		content := "**Title: Dockside**\nThe fog rolled in."
		path := filepath.Join(tmpDir, "story.txt")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		got, err := Extract(path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("windows line endings", func(t *testing.T) {
		path := filepath.Join(tmpDir, "crlf.txt")
		require.NoError(t, os.WriteFile(path, []byte("A\r\nB\r\nC"), 0644))

		got, err := Extract(path)
		require.NoError(t, err)
		assert.Equal(t, "A\nB\nC", got)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := Extract(filepath.Join(tmpDir, "nonexistent.txt"))
		assert.Error(t, err)
	})
}

func TestMarkdownHeadingBecomesTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"heading", "# The Missing Diamond\nA\nB", "**The Missing Diamond**\nA\nB"},
		{"second level heading", "## Cold Case\nA", "**Cold Case**\nA"},
		{"heading only", "# Alone", "**Alone**"},
		{"bold title kept", "**Title: Dockside**\nA", "**Title: Dockside**\nA"},
		{"no heading", "A\n# Not first\nB", "A\n# Not first\nB"},
	}

	tmpDir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "story.md")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := Extract(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractLinesFromHTML(t *testing.T) {
	htmlContent := `
	<html>
		<head><title>Test</title></head>
		<body>
			<h1>Chapter 1</h1>
			<p>This is the <b>first</b> paragraph.</p>
			<p>
				This is the second paragraph
				with a newline.
			</p>
			<div>Some <span>nested</span> text.</div>
		</body>
	</html>
	`

	want := []string{
		"Chapter 1",
		"This is the first paragraph.",
		"This is the second paragraph with a newline.",
		"Some nested text.",
	}
	assert.Equal(t, want, extractLinesFromHTML(htmlContent))
}

func TestEPUBFormat(t *testing.T) {
	f := &EPUBFormat{}
	assert.Equal(t, "EPUB", f.Name())
	assert.Equal(t, []string{".epub"}, f.Extensions())
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Contains(t, formats, "EPUB (.epub)")
	assert.Contains(t, formats, "Markdown (.md, .markdown)")
}

func TestReplay(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("returns file text", func(t *testing.T) {
		path := filepath.Join(tmpDir, "saved.txt")
		require.NoError(t, os.WriteFile(path, []byte("**Title: Saved**\nA"), 0644))

		text, err := NewReplay(path, nil).Generate(context.Background(), "ignored")
		require.NoError(t, err)
		assert.Equal(t, "**Title: Saved**\nA", text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewReplay(filepath.Join(tmpDir, "missing.txt"), nil).Generate(context.Background(), "p")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindTransport))
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "empty.txt")
		require.NoError(t, os.WriteFile(path, []byte(" \n\n"), 0644))

		_, err := NewReplay(path, nil).Generate(context.Background(), "p")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindMalformed))
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewReplay(filepath.Join(tmpDir, "saved.txt"), nil).Generate(ctx, "p")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
