package retrieval

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps known strings to fixed vectors.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func newTestIndex(t *testing.T, emb Embedder) *Index {
	t.Helper()
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "index.db"), emb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestRetrieveRanksByCosineSimilarity(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"deductible question": {1, 0, 0},
	}}
	ix := newTestIndex(t, emb)

	require.NoError(t, ix.Add(ctx, "policy", "deductible clause", []float32{0.9, 0.1, 0}))
	require.NoError(t, ix.Add(ctx, "policy", "unrelated clause", []float32{0, 1, 0}))
	require.NoError(t, ix.Add(ctx, "policy", "partially related", []float32{0.5, 0.5, 0}))

	got, err := ix.Retrieve(ctx, "deductible question", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "deductible clause", got[0])
	assert.Equal(t, "partially related", got[1])
}

func TestRetrieveEmptyIndex(t *testing.T) {
	ix := newTestIndex(t, &fakeEmbedder{})

	got, err := ix.Retrieve(context.Background(), "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCountAndClear(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t, &fakeEmbedder{})

	require.NoError(t, ix.Add(ctx, "policy", "a", []float32{1}))
	require.NoError(t, ix.Add(ctx, "policy", "b", []float32{1}))

	n, err := ix.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, ix.Clear(ctx))
	n, err = ix.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestVectorCodecRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3.75, 0}
	got, err := decodeVector(encodeVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float32{1, 0}, []float32{1}), "mismatched dims score zero")
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{1, 0}), "zero vector scores zero")
}
