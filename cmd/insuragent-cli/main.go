package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"insuragent/internal/adapters/llm"
	"insuragent/internal/adapters/retrieval"
	sqlitestore "insuragent/internal/adapters/storage/sqlite"
	"insuragent/internal/app/dialog"
	"insuragent/internal/config"
	"insuragent/internal/domain"
)

// Interactive terminal chat against the local checkpoint database.
func main() {
	threadFlag := flag.String("thread", "", "thread id to resume (empty = new thread)")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	var (
		llmClient domain.CompletionClient
		retriever domain.Retriever
		err       error
	)

	if cfg.UseMockLLM {
		llmClient = llm.NewMockLLM()
		retriever = retrieval.NewEmptyRetriever()
	} else {
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
	}

	store, err := sqlitestore.NewStore(cfg.CheckpointPath)
	if err != nil {
		log.Fatalf("error initializing SQLite store: %v", err)
	}
	defer store.Close()

	orc := dialog.NewOrchestrator(llmClient, retriever, store, cfg.RetrievalTopK)

	threadID := domain.ThreadID(*threadFlag)
	if threadID == "" {
		threadID = domain.ThreadID(uuid.NewString())
	}

	fmt.Printf("\n--- Starting Chat (Thread: %s) ---\n", threadID)

	conv, err := orc.Load(ctx, threadID)
	if err != nil {
		log.Fatalf("error loading conversation: %v", err)
	}
	if conv != nil {
		fmt.Println("--- Resuming Conversation (Last 3 Messages) ---")
		msgs := conv.Messages
		if len(msgs) > 3 {
			msgs = msgs[len(msgs)-3:]
		}
		for _, m := range msgs {
			switch m.Role {
			case domain.RoleUser:
				fmt.Println("User:", m.Content)
			case domain.RoleAgent:
				fmt.Println("Agent:", m.Content)
			}
		}
		fmt.Println("-----------------------------------------------")

		if conv.Finished() {
			fmt.Println("[System] This transaction was previously completed.")
			return
		}
	} else {
		fmt.Println("--- New Conversation Started ---")
	}

	fmt.Println("Type 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("User: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if low := strings.ToLower(input); low == "quit" || low == "exit" {
			fmt.Println("Goodbye!")
			break
		}

		result, err := orc.ProcessTurn(ctx, threadID, input)
		if err != nil {
			fmt.Println("[System] Something went wrong, please try again:", err)
			continue
		}

		if result.Response != "" {
			fmt.Println("Agent:", result.Response)
		}

		if result.IsFinished {
			fmt.Println("\n--- Transaction Completed Successfully. Exiting Chat. ---")
			break
		}
	}
}
