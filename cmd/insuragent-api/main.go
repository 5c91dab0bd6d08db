package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "insuragent/internal/adapters/http"
	"insuragent/internal/adapters/llm"
	"insuragent/internal/adapters/retrieval"
	firestorestore "insuragent/internal/adapters/storage/firestore"
	memstore "insuragent/internal/adapters/storage/memory"
	sqlitestore "insuragent/internal/adapters/storage/sqlite"
	"insuragent/internal/app/dialog"
	"insuragent/internal/config"
	"insuragent/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// LLM: mock or Gemini by env (mock is useful for dev without a key)
	var (
		llmClient domain.CompletionClient
		retriever domain.Retriever
		err       error
	)

	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
		retriever = retrieval.NewEmptyRetriever()
	} else {
		log.Println("[LLM] Using Gemini LLM client")
		llmClient, err = llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini LLM client: %v", err)
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
		retriever = index

		if n, err := index.Count(ctx); err == nil && n == 0 {
			log.Printf("[RAG] WARNING: vector index %s is empty, run insuragent-indexer first", cfg.IndexPath)
		}
	}

	// Storage: SQLite (default), memory, or Firestore
	var store domain.ConversationStore

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		store = fsStore

	case "memory":
		log.Println("[STORE] Using in-memory storage")
		store = memstore.NewStore()

	default:
		log.Printf("[STORE] Using SQLite storage (%s)", cfg.CheckpointPath)
		sqlStore, err := sqlitestore.NewStore(cfg.CheckpointPath)
		if err != nil {
			log.Fatalf("error initializing SQLite store: %v", err)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	orc := dialog.NewOrchestrator(llmClient, retriever, store, cfg.RetrievalTopK)
	handler := httpadapter.NewServer(orc)

	addr := ":" + cfg.Port
	log.Println("Insurance agent API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
