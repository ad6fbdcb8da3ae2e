package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/xxxsen/brandbot/internal/chunker"
	"github.com/xxxsen/brandbot/internal/filestore"
	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
	"github.com/xxxsen/brandbot/internal/vectorstore"
)

// sourceChunksKey maps source id to the number of chunks currently indexed
// for it, so re-ingestion can clean up stale chunk ids.
const sourceChunksKey = "source_chunks"

type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type IngestService struct {
	embedder Embedder
	store    vectorstore.Store
	rdb      *goredis.Client
	files    filestore.Store
}

func NewIngestService(embedder Embedder, store vectorstore.Store, rdb *goredis.Client, files filestore.Store) *IngestService {
	return &IngestService{embedder: embedder, store: store, rdb: rdb, files: files}
}

type IngestRequest struct {
	SourceID string
	Content  string
	Format   string
	Metadata map[string]string
}

type IngestResult struct {
	SourceID string `json:"source_id"`
	Chunks   int    `json:"chunks"`
}

// Ingest replaces a source wholesale: old chunks for the same source id are
// removed before the new ones go in, so a shrinking document leaves no
// stale tail behind.
func (s *IngestService) Ingest(ctx context.Context, req *IngestRequest) (*IngestResult, error) {
	sourceID := strings.TrimSpace(req.SourceID)
	if sourceID == "" || strings.ContainsAny(sourceID, "/\\ ") {
		return nil, errs.ErrInvalid
	}
	content := req.Content
	if strings.TrimSpace(content) == "" {
		return nil, errs.ErrInvalid
	}
	logger := logutil.GetLogger(ctx).With(zap.String("source_id", sourceID))

	if strings.EqualFold(req.Format, "markdown") {
		content = flattenMarkdown(content)
	}

	pieces := chunker.Split(content, chunker.Options{})
	if len(pieces) == 0 {
		return nil, errs.ErrInvalid
	}
	texts := make([]string, 0, len(pieces))
	for _, p := range pieces {
		texts = append(texts, p.Content)
	}
	embs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Error("chunk embedding failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errs.ErrAIUnavailable, err)
	}

	if err := s.removeSourceChunks(ctx, sourceID); err != nil {
		logger.Warn("stale chunk cleanup failed", zap.Error(err))
	}

	for i, p := range pieces {
		meta := make(map[string]string, len(req.Metadata)+2)
		for k, v := range req.Metadata {
			meta[k] = v
		}
		meta["source"] = sourceID
		meta["chunk_index"] = strconv.Itoa(p.Index)
		rec := &model.StoredVector{
			ID:        chunkID(sourceID, p.Index),
			Content:   p.Content,
			Embedding: embs[i],
			Metadata:  meta,
		}
		if err := s.store.Upsert(ctx, rec); err != nil {
			logger.Error("chunk upsert failed", zap.String("chunk_id", rec.ID), zap.Error(err))
			return nil, err
		}
	}
	if err := s.rdb.HSet(ctx, sourceChunksKey, sourceID, len(pieces)).Err(); err != nil {
		logger.Warn("source chunk count write failed", zap.Error(err))
	}

	if s.files != nil {
		if err := s.files.Save(ctx, sourceID, strings.NewReader(req.Content), int64(len(req.Content))); err != nil {
			logger.Warn("raw source save failed", zap.Error(err))
		}
	}

	logger.Info("source ingested", zap.Int("chunks", len(pieces)))
	return &IngestResult{SourceID: sourceID, Chunks: len(pieces)}, nil
}

func (s *IngestService) DeleteSource(ctx context.Context, sourceID string) error {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return errs.ErrInvalid
	}
	logger := logutil.GetLogger(ctx).With(zap.String("source_id", sourceID))
	if err := s.removeSourceChunks(ctx, sourceID); err != nil {
		return err
	}
	if err := s.rdb.HDel(ctx, sourceChunksKey, sourceID).Err(); err != nil {
		logger.Warn("source chunk count delete failed", zap.Error(err))
	}
	if s.files != nil {
		if err := s.files.Delete(ctx, sourceID); err != nil {
			logger.Warn("raw source delete failed", zap.Error(err))
		}
	}
	logger.Info("source deleted")
	return nil
}

func (s *IngestService) Stats(ctx context.Context) (vectorstore.Stats, error) {
	return s.store.Stats(ctx)
}

func (s *IngestService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	return s.rdb.Del(ctx, sourceChunksKey).Err()
}

func (s *IngestService) removeSourceChunks(ctx context.Context, sourceID string) error {
	raw, err := s.rdb.HGet(ctx, sourceChunksKey, sourceID).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil
		}
		return err
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("bad chunk count for source %s: %w", sourceID, err)
	}
	for i := 0; i < count; i++ {
		if err := s.store.Delete(ctx, chunkID(sourceID, i)); err != nil {
			return err
		}
	}
	return nil
}

func chunkID(sourceID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", sourceID, index)
}

// flattenMarkdown strips markdown structure down to plain text so the
// chunker's sentence heuristics work on prose instead of syntax. Each block
// element becomes one line.
func flattenMarkdown(markdown string) string {
	md := goldmark.New()
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.FencedCodeBlock:
			var sb strings.Builder
			for i := 0; i < t.Lines().Len(); i++ {
				line := t.Lines().At(i)
				sb.Write(line.Value(source))
			}
			if block := strings.TrimSpace(sb.String()); block != "" {
				blocks = append(blocks, block)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			if block := strings.TrimSpace(string(n.Text(source))); block != "" {
				blocks = append(blocks, block)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(blocks, "\n")
}
