package ingestion

import (
	"strings"
	"testing"
)

func TestChunkTextSplitsParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\n\nThird paragraph."

	chunks := ChunkText(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "First paragraph." {
		t.Fatalf("unexpected first chunk: %q", chunks[0])
	}
}

func TestChunkTextSkipsBlankParagraphs(t *testing.T) {
	chunks := ChunkText("one\n\n   \n\ntwo")
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestLongParagraphIsWindowedWithOverlap(t *testing.T) {
	long := strings.Repeat("a", 1200)

	chunks := ChunkText(long)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > chunkSize {
			t.Fatalf("chunk %d exceeds max size: %d", i, len(c))
		}
	}
	// successive windows advance by chunkSize-chunkOverlap, so total
	// coverage must reach the end of the text
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(long, last) {
		t.Fatal("last window does not end the text")
	}
}

func TestChunkTextEmpty(t *testing.T) {
	if got := ChunkText("   \n\n  "); len(got) != 0 {
		t.Fatalf("expected no chunks, got %v", got)
	}
}
