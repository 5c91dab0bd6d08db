package main

import (
	"context"
	"flag"
	"log"

	"insuragent/internal/adapters/ingestion"
	"insuragent/internal/adapters/retrieval"
	"insuragent/internal/config"
)

// Builds the vector index from the policy document. Run once before
// starting the API; the index is read-only afterwards.
func main() {
	docFlag := flag.String("doc", "", "path to the policy document (default: INSURAGENT_POLICY_PATH)")
	rebuild := flag.Bool("rebuild", false, "drop and re-index even if the index already has passages")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	docPath := cfg.PolicyPath
	if *docFlag != "" {
		docPath = *docFlag
	}

	embedder, err := retrieval.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("error initializing Gemini embedder: %v", err)
	}

	index, err := retrieval.OpenIndex(cfg.IndexPath, embedder)
	if err != nil {
		log.Fatalf("error opening vector index: %v", err)
	}
	defer index.Close()

	count, err := index.Count(ctx)
	if err != nil {
		log.Fatalf("error reading index: %v", err)
	}
	if count > 0 && !*rebuild {
		log.Printf("Index %s already has %d passages, use -rebuild to re-index", cfg.IndexPath, count)
		return
	}
	if count > 0 {
		log.Printf("Rebuilding index, dropping %d passages", count)
		if err := index.Clear(ctx); err != nil {
			log.Fatalf("error clearing index: %v", err)
		}
	}

	log.Println("Extracting text from:", docPath)
	text, err := ingestion.ExtractText(docPath)
	if err != nil {
		log.Fatalf("error extracting document text: %v", err)
	}

	chunks := ingestion.ChunkText(text)
	log.Printf("Embedding %d chunks...", len(chunks))

	for i, chunk := range chunks {
		emb, err := embedder.Embed(ctx, chunk)
		if err != nil {
			log.Fatalf("error embedding chunk %d: %v", i, err)
		}
		if err := index.Add(ctx, docPath, chunk, emb); err != nil {
			log.Fatalf("error inserting chunk %d: %v", i, err)
		}
	}

	log.Printf("Indexing complete: %d passages saved to %s", len(chunks), cfg.IndexPath)
}
