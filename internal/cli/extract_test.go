package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherTextsInlineText(t *testing.T) {
	texts, err := gatherTexts("Diagnóstico: J00", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Diagnóstico: J00"}, texts)
}

func TestGatherTextsReadsFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("primeiro atestado"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("segundo atestado"), 0o644))

	texts, err := gatherTexts("", []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"primeiro atestado", "segundo atestado"}, texts)
}

func TestGatherTextsRejectsInlineTextWithFiles(t *testing.T) {
	_, err := gatherTexts("texto inline", []string{"a.txt"})
	assert.Error(t, err)
}

func TestGatherTextsMissingFile(t *testing.T) {
	_, err := gatherTexts("", []string{filepath.Join(t.TempDir(), "nope.txt")})
	assert.Error(t, err)
}
