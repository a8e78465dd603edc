package docstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tunebot/internal/core"
)

func writeArtifact(t *testing.T, dir string, doc Document) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, doc.Source+".json"), data, 0644))
}

func TestLoadMissingDirIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))

	require.NoError(t, s.Load(context.Background()))
	require.Empty(t, s.All())
}

func TestLoadReadsArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, Document{
		Source: "guide",
		Chunks: []core.RetrievedChunk{
			{ID: "c1", ChunkIndex: 0, Text: "Popularity is scored 0-100.", Embedding: []float64{1, 0}},
			{ID: "c2", ChunkIndex: 1, Text: "Skip rate counts plays under 30s.", Embedding: []float64{0, 1}},
		},
	})
	writeArtifact(t, dir, Document{
		Source: "faq",
		Chunks: []core.RetrievedChunk{
			{ID: "c3", ChunkIndex: 0, Text: "The platform launched in 2008.", Embedding: []float64{1, 1}},
		},
	})

	s := New(dir)
	require.NoError(t, s.Load(context.Background()))

	all := s.All()
	require.Len(t, all, 3)

	sources := map[string]int{}
	for _, chunk := range all {
		sources[chunk.Source]++
	}
	require.Equal(t, 2, sources["guide"])
	require.Equal(t, 1, sources["faq"])
}

func TestLoadSkipsBrokenArtifacts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))
	writeArtifact(t, dir, Document{
		Source: "good",
		Chunks: []core.RetrievedChunk{{ID: "c1", Text: "ok", Embedding: []float64{1}}},
	})

	s := New(dir)
	require.NoError(t, s.Load(context.Background()))
	require.Len(t, s.All(), 1)
}

func TestLoadIgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an artifact"), 0644))

	s := New(dir)
	require.NoError(t, s.Load(context.Background()))
	require.Empty(t, s.All())
}

func TestReloadReplacesChunks(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, Document{
		Source: "guide",
		Chunks: []core.RetrievedChunk{{ID: "c1", Text: "v1", Embedding: []float64{1}}},
	})

	s := New(dir)
	require.NoError(t, s.Load(context.Background()))
	require.Len(t, s.All(), 1)

	writeArtifact(t, dir, Document{
		Source: "guide",
		Chunks: []core.RetrievedChunk{
			{ID: "c1", Text: "v2", Embedding: []float64{1}},
			{ID: "c2", Text: "new", Embedding: []float64{1}},
		},
	})

	require.NoError(t, s.Load(context.Background()))
	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, "v2", all[0].Text)
}

func TestAllReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, Document{
		Source: "guide",
		Chunks: []core.RetrievedChunk{{ID: "c1", Text: "original", Embedding: []float64{1}}},
	})

	s := New(dir)
	require.NoError(t, s.Load(context.Background()))

	got := s.All()
	got[0].Text = "mutated"

	require.Equal(t, "original", s.All()[0].Text)
}
