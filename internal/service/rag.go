package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/hanbat-ai/hanbatbot/internal/config"
	"github.com/hanbat-ai/hanbatbot/internal/domain"
	"github.com/hanbat-ai/hanbatbot/internal/provider"
	"github.com/hanbat-ai/hanbatbot/internal/vector"
)

// embedBatchSize bounds how many chunk texts go to the embedding service per
// request.
const embedBatchSize = 64

// Status describes whether the RAG subsystem can answer from documents
type Status int

const (
	// StatusReady means the index is built and retrieval works
	StatusReady Status = iota
	// StatusNoAPIKey means no credential is configured; nothing was attempted
	StatusNoAPIKey
	// StatusCorpusFailed means no corpus text could be loaded or chunked
	StatusCorpusFailed
	// StatusIndexFailed means embedding or index construction failed
	StatusIndexFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusNoAPIKey:
		return "no_api_key"
	case StatusCorpusFailed:
		return "corpus_failed"
	case StatusIndexFailed:
		return "index_failed"
	default:
		return "unknown"
	}
}

// ChatModel is the completion capability the engine depends on. The eino
// chat models satisfy it; tests substitute fakes.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// CapabilityFactory constructs the embedding and completion capabilities for
// a credential.
type CapabilityFactory func(ctx context.Context, cfg *config.LLMConfig) (embedding.Embedder, ChatModel, error)

func defaultFactory(ctx context.Context, cfg *config.LLMConfig) (embedding.Embedder, ChatModel, error) {
	embedder, err := provider.NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	chatModel, err := provider.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return embedder, chatModel, nil
}

// TurnResult is one synthesized answer with its citations and the raw
// retrieved context for diagnostics.
type TurnResult struct {
	Answer       string
	Sources      []string
	DebugContext string
}

// Engine owns the retrieval pipeline: corpus load, chunking, embedding, the
// vector index, and answer synthesis. The expensive build runs at most once
// per credential for the process lifetime; concurrent triggers share a build.
type Engine struct {
	cfg     *config.Config
	logger  *zap.Logger
	factory CapabilityFactory

	mu     sync.Mutex
	builds map[string]*ragBuild
}

type ragBuild struct {
	once sync.Once

	status    Status
	warnings  []string
	index     *vector.Store
	embedder  embedding.Embedder
	chatModel ChatModel
	err       error
}

// NewEngine creates a RAG engine using the real OpenAI-backed capabilities
func NewEngine(cfg *config.Config, logger *zap.Logger) *Engine {
	return NewEngineWithFactory(cfg, logger, defaultFactory)
}

// NewEngineWithFactory creates a RAG engine with a custom capability factory
func NewEngineWithFactory(cfg *config.Config, logger *zap.Logger, factory CapabilityFactory) *Engine {
	return &Engine{
		cfg:     cfg,
		logger:  logger,
		factory: factory,
		builds:  make(map[string]*ragBuild),
	}
}

// Warmup triggers the index build for the configured credential. Safe to call
// any number of times; only the first does work.
func (e *Engine) Warmup(ctx context.Context) {
	e.build(ctx)
}

// Status reports whether document-grounded answers are available, plus any
// per-file corpus warnings.
func (e *Engine) Status(ctx context.Context) (Status, []string) {
	b := e.build(ctx)
	return b.status, b.warnings
}

// Ready reports whether retrieval and synthesis can be attempted
func (e *Engine) Ready(ctx context.Context) bool {
	return e.build(ctx).status == StatusReady
}

func (e *Engine) build(ctx context.Context) *ragBuild {
	key := e.cfg.LLM.APIKey

	e.mu.Lock()
	b, ok := e.builds[key]
	if !ok {
		b = &ragBuild{}
		e.builds[key] = b
	}
	e.mu.Unlock()

	b.once.Do(func() {
		e.runBuild(ctx, b)
	})
	return b
}

func (e *Engine) runBuild(ctx context.Context, b *ragBuild) {
	if e.cfg.LLM.APIKey == "" {
		b.status = StatusNoAPIKey
		b.err = fmt.Errorf("no API key configured")
		e.logger.Warn("RAG disabled: no API key configured")
		return
	}

	embedder, chatModel, err := e.factory(ctx, &e.cfg.LLM)
	if err != nil {
		b.status = StatusIndexFailed
		b.err = provider.Classify(err)
		e.logger.Error("failed to initialize LLM capabilities", zap.Error(err))
		return
	}
	b.embedder = embedder
	b.chatModel = chatModel

	docs, warnings, err := LoadCorpus(&e.cfg.Corpus, e.logger)
	b.warnings = warnings
	if err != nil {
		b.status = StatusCorpusFailed
		b.err = err
		e.logger.Error("corpus load failed", zap.Error(err))
		return
	}

	chunks := ChunkDocuments(docs, ChunkConfig{
		Size:    e.cfg.RAG.ChunkSize,
		Overlap: e.cfg.RAG.ChunkOverlap,
	})
	if len(chunks) == 0 {
		b.status = StatusCorpusFailed
		b.err = domain.ErrNoChunks
		e.logger.Error("corpus produced no chunks")
		return
	}

	vectors, err := e.embedChunks(ctx, embedder, chunks)
	if err != nil {
		b.status = StatusIndexFailed
		b.err = provider.Classify(err)
		e.logger.Error("chunk embedding failed", zap.Error(err))
		return
	}

	index, err := vector.Build(chunks, vectors)
	if err != nil {
		b.status = StatusIndexFailed
		b.err = err
		e.logger.Error("index build failed", zap.Error(err))
		return
	}

	b.index = index
	b.status = StatusReady
	e.logger.Info("RAG index built",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", index.Len()),
		zap.Int("warnings", len(warnings)),
	)
}

func (e *Engine) embedChunks(ctx context.Context, embedder embedding.Embedder, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		batch, err := embedder.EmbedStrings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(batch), len(texts))
		}
		for _, v := range batch {
			vectors = append(vectors, toFloat32(v))
		}
	}

	return vectors, nil
}

// Retrieve returns the top-k chunks most similar to the query, best first.
// Failures propagate to the caller; there are no retries.
func (e *Engine) Retrieve(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	b := e.build(ctx)
	if b.status != StatusReady {
		return nil, fmt.Errorf("documents unavailable: %w", b.err)
	}

	vecs, err := b.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, provider.Classify(fmt.Errorf("failed to embed query: %w", err))
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("empty query embedding returned")
	}

	return b.index.Search(toFloat32(vecs[0]), e.cfg.RAG.TopK), nil
}

// Answer runs one full turn: retrieve, assemble the prompt, and synthesize
// an answer with citations.
func (e *Engine) Answer(ctx context.Context, question string) (*TurnResult, error) {
	b := e.build(ctx)
	if b.status != StatusReady {
		return nil, fmt.Errorf("documents unavailable: %w", b.err)
	}

	chunks, err := e.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(chunks, question)
	reply, err := b.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return nil, provider.Classify(fmt.Errorf("completion failed: %w", err))
	}

	return &TurnResult{
		Answer:       reply.Content,
		Sources:      citedSources(chunks),
		DebugContext: debugContext(chunks),
	}, nil
}

// citedSources returns the deduplicated, sorted source identifiers (file
// names without extension) of the chunks fed into the prompt.
func citedSources(chunks []domain.RetrievedChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	var sources []string
	for _, c := range chunks {
		name := filepath.Base(c.Source)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// debugContext renders the raw retrieved chunks with their source file and
// start offset. Shown only when diagnostics are requested.
func debugContext(chunks []domain.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("--- %s (시작 인덱스: %d) ---\n%s", filepath.Base(c.Source), c.StartOffset, c.Text)
	}
	return strings.Join(parts, "\n\n")
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
