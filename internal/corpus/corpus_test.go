// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadContents(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("b.txt", "second paper")
	write("a.txt", "first paper")
	write("notes.md", "ignored")
	write("bad.txt", string([]byte{0xff, 0xfe, 0x00}))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.txt"), 0o755))

	var logs bytes.Buffer
	docs, err := ReadContents(dir, zerolog.New(&logs))
	require.NoError(t, err)

	assert.Equal(t, []Document{
		{Name: "a.txt", Content: "first paper"},
		{Name: "b.txt", Content: "second paper"},
	}, docs)
	assert.Contains(t, logs.String(), `"file":"bad.txt"`)
	assert.Contains(t, logs.String(), `"total":2`)
}

func TestReadContentsEmptyDir(t *testing.T) {
	docs, err := ReadContents(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReadContentsMissingDir(t *testing.T) {
	_, err := ReadContents(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
