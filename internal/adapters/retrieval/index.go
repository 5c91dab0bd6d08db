package retrieval

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	_ "modernc.org/sqlite"
)

// Index is a persisted vector index over policy passages, backed by a
// single SQLite file. It is written once by the indexer and read-only
// afterwards, so it is safely shared across all conversation threads.
type Index struct {
	db       *sql.DB
	embedder Embedder
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS passages (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	source    TEXT NOT NULL,
	content   TEXT NOT NULL,
	embedding BLOB NOT NULL
);
`

// OpenIndex opens (creating if needed) the index file.
func OpenIndex(path string, embedder Embedder) (*Index, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_busy_timeout=5000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging index: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	// SQLite supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Index{db: db, embedder: embedder}, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// Add inserts one embedded passage.
func (ix *Index) Add(ctx context.Context, source, content string, embedding []float32) error {
	_, err := ix.db.ExecContext(ctx,
		"INSERT INTO passages (source, content, embedding) VALUES (?, ?, ?)",
		source, content, encodeVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("inserting passage: %w", err)
	}
	return nil
}

// Count returns the number of indexed passages.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM passages").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting passages: %w", err)
	}
	return n, nil
}

// Clear removes every passage (used by the indexer's rebuild flag).
func (ix *Index) Clear(ctx context.Context) error {
	if _, err := ix.db.ExecContext(ctx, "DELETE FROM passages"); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	return nil
}

// Retrieve implements domain.Retriever: embed the query, rank every stored
// passage by cosine similarity, return the top k contents. An empty index
// yields an empty slice, not an error.
func (ix *Index) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	qemb, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return ix.search(ctx, qemb, topK)
}

type scoredPassage struct {
	content string
	score   float64
}

func (ix *Index) search(ctx context.Context, qemb []float32, topK int) ([]string, error) {
	rows, err := ix.db.QueryContext(ctx, "SELECT content, embedding FROM passages")
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var scored []scoredPassage
	for rows.Next() {
		var content string
		var blob []byte
		if err := rows.Scan(&content, &blob); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		emb, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}
		scored = append(scored, scoredPassage{content: content, score: cosine(qemb, emb)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passages: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}

	out := make([]string, 0, len(scored))
	for _, p := range scored {
		out = append(out, p.content)
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Vectors are stored as little-endian float32 blobs.

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("malformed embedding blob (%d bytes)", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
