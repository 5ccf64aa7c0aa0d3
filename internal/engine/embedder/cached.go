package embedder

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS embeddings (
	model      TEXT NOT NULL,
	text_hash  TEXT NOT NULL,
	vector     BLOB NOT NULL,
	PRIMARY KEY (model, text_hash)
);`

// CachedEmbedder wraps an Embedder with a SQLite-backed vector cache keyed by
// (model key, SHA-256 of text). A cache hit returns the stored vector
// bit-identically, so caching never changes classification results.
type CachedEmbedder struct {
	inner    Embedder
	db       *sql.DB
	modelKey string
}

// NewCached opens (or creates) the cache database at path and wraps inner.
// modelKey must change whenever the underlying model changes, otherwise stale
// vectors would be served.
func NewCached(inner Embedder, path, modelKey string) (*CachedEmbedder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: set WAL mode: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: init schema: %w", err)
	}
	return &CachedEmbedder{inner: inner, db: db, modelKey: modelKey}, nil
}

func (c *CachedEmbedder) Dim() int {
	return c.inner.Dim()
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch serves cache hits from SQLite and computes misses through the
// inner embedder in a single batched call, preserving input order.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		vec, err := c.lookup(ctx, text)
		if err != nil {
			return nil, err
		}
		if vec != nil {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) > 0 {
		vecs, err := c.inner.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, vec := range vecs {
			out[missIdx[j]] = vec
			if err := c.store(ctx, missTexts[j], vec); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Close closes the cache database and the inner embedder.
func (c *CachedEmbedder) Close() error {
	dbErr := c.db.Close()
	if err := c.inner.Close(); err != nil {
		return err
	}
	return dbErr
}

func (c *CachedEmbedder) lookup(ctx context.Context, text string) ([]float32, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT vector FROM embeddings WHERE model = ? AND text_hash = ?",
		c.modelKey, hashText(text),
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: lookup: %w", err)
	}
	return decodeVector(blob)
}

func (c *CachedEmbedder) store(ctx context.Context, text string, vec []float32) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO embeddings (model, text_hash, vector) VALUES (?, ?, ?)",
		c.modelKey, hashText(text), encodeVector(vec),
	)
	if err != nil {
		return fmt.Errorf("cache: store: %w", err)
	}
	return nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// encodeVector serializes a float32 vector as little-endian IEEE-754 bytes.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("cache: corrupt vector blob of %d bytes", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
