// Command docqa-chat is an interactive terminal client for asking questions
// about local documents. It ingests the files given on the command line and
// then reads questions from stdin until EOF.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/docqa/docqa-mcp/internal/assembler"
	"github.com/docqa/docqa-mcp/internal/completion"
	"github.com/docqa/docqa-mcp/internal/config"
	"github.com/docqa/docqa-mcp/internal/corpus"
	"github.com/docqa/docqa-mcp/internal/embedder"
	"github.com/docqa/docqa-mcp/internal/loader"
	"github.com/docqa/docqa-mcp/internal/pipeline"
	"github.com/docqa/docqa-mcp/internal/service"
	"github.com/docqa/docqa-mcp/internal/tokens"
)

func main() {
	configPath := flag.String("config", "docqa.yaml", "path to configuration file")
	backend := flag.String("backend", "", "chat backend name (overrides config)")
	flag.Parse()

	log.SetOutput(os.Stderr)
	_ = godotenv.Load()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: docqa-chat [flags] file.txt [file.md ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.LoadDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *backend != "" {
		cfg.Completion.Backend = *backend
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid backend: %v", err)
		}
	}

	svc, err := buildService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	ctx := context.Background()

	docs, loadErrs := loader.LoadFiles(flag.Args())
	for _, err := range loadErrs {
		color.Yellow("warning: %v", err)
	}
	if len(docs) == 0 {
		log.Fatal("No documents could be loaded")
	}

	version, err := svc.Ingest(ctx, docs, nil)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}
	color.Green("Ingested %d document(s), %d chunk(s)", len(version.Documents), version.Index.Size())

	selected := version.DocumentNames()[0]
	runLoop(ctx, svc, selected)
}

func buildService(cfg *config.AppConfig) (*service.Service, error) {
	provider := cfg.Embedder.Provider
	if provider == "" {
		provider = embedder.DetectProvider()
	}
	emb, err := embedder.New(embedder.Config{
		Provider:  provider,
		APIKey:    os.Getenv(embedder.EnvOpenAIAPIKey),
		BaseURL:   cfg.Embedder.BaseURL,
		Model:     cfg.Embedder.Model,
		CacheSize: cfg.Embedder.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	chatModel, err := completion.ResolveBackend(cfg.Completion.Backend)
	if err != nil {
		return nil, err
	}
	var chat completion.Completion
	if key := os.Getenv(embedder.EnvOpenAIAPIKey); key != "" {
		chat, err = completion.NewOpenAIChat(completion.ChatConfig{
			APIKey:  key,
			BaseURL: cfg.Completion.BaseURL,
			Model:   chatModel,
		})
		if err != nil {
			return nil, err
		}
	} else {
		color.Yellow("OPENAI_API_KEY not set; questions disabled, search still works")
	}

	pipe := pipeline.New(emb, assembler.New(tokens.New()), cfg.Retrieval.Workers)

	return service.New(corpus.NewStore(), pipe, chat, service.Config{
		ChunkSize:    cfg.Retrieval.ChunkSize,
		ChunkOverlap: cfg.Retrieval.ChunkOverlap,
		TopK:         cfg.Retrieval.TopK,
		MaxTokens:    cfg.Retrieval.MaxTokens,
		AnswerLength: cfg.Retrieval.AnswerLength,
		Model:        cfg.Retrieval.Model,
	})
}

func runLoop(ctx context.Context, svc *service.Service, selected string) {
	prompt := color.New(color.FgCyan, color.Bold)
	answer := color.New(color.FgGreen)
	info := color.New(color.FgYellow)

	fmt.Println("Type a question, or a command: /docs, /use <name>, /search <query>, /quit")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		prompt.Printf("[%s] > ", selected)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return

		case line == "/docs":
			status := svc.Status()
			for _, name := range status.Documents {
				fmt.Println("  " + name)
			}

		case strings.HasPrefix(line, "/use "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "/use "))
			status := svc.Status()
			found := false
			for _, candidate := range status.Documents {
				if candidate == name {
					found = true
					break
				}
			}
			if !found {
				info.Printf("unknown document: %s\n", name)
				continue
			}
			selected = name

		case strings.HasPrefix(line, "/search "):
			query := strings.TrimSpace(strings.TrimPrefix(line, "/search "))
			matches, err := svc.Search(ctx, query, 0)
			if err != nil {
				info.Printf("search failed: %v\n", err)
				continue
			}
			for _, m := range matches {
				fmt.Printf("  (%.4f) %s\n", m.Distance, m.Tag)
			}

		default:
			resp, err := svc.Ask(ctx, service.AskRequest{
				Question: line,
				Document: selected,
			})
			if err != nil {
				info.Printf("error: %v\n", err)
				continue
			}
			answer.Println(resp.Answer)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Input error: %v", err)
	}
}
