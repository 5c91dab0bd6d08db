package ingestion

import (
	"regexp"
	"strings"
)

// Chunk sizes follow the source splitter the index was originally tuned
// for: ~500-char windows with 50-char overlap.
const (
	chunkSize    = 500
	chunkOverlap = 50
)

var paragraphRe = regexp.MustCompile(`\n{2,}`)

// ChunkText splits document text into paragraph chunks, windowing long
// paragraphs with overlap so sentence boundaries survive retrieval.
func ChunkText(text string) []string {
	paras := paragraphRe.Split(text, -1)
	var out []string
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, splitLong(p, chunkSize, chunkOverlap)...)
	}
	return out
}

func splitLong(s string, max, overlap int) []string {
	if len(s) <= max {
		return []string{s}
	}
	var res []string
	for i := 0; i < len(s); i += max - overlap {
		end := i + max
		if end > len(s) {
			end = len(s)
		}
		res = append(res, strings.TrimSpace(s[i:end]))
		if end == len(s) {
			break
		}
	}
	return res
}
