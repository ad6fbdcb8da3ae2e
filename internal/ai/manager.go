package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/brandbot/internal/model"
)

type ManagerConfig struct {
	Timeout    int
	Dimensions int
}

// Manager binds one completer and one embedder and applies the shared call
// policy (timeout, empty-response check, dimension check). No retries: a
// provider failure surfaces as a turn-level error.
type Manager struct {
	completer ICompleter
	embedder  IEmbedder
	cfg       ManagerConfig
}

func NewManager(completer ICompleter, embedder IEmbedder, cfg ManagerConfig) *Manager {
	return &Manager{completer: completer, embedder: embedder, cfg: cfg}
}

func (m *Manager) Complete(ctx context.Context, msgs []model.Message) (string, error) {
	if m.completer == nil {
		return "", ErrUnavailable
	}
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	resp, err := m.completer.Complete(ctx, msgs)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (m *Manager) CompleteStream(ctx context.Context, msgs []model.Message, fn func(fragment string) error) error {
	if m.completer == nil {
		return ErrUnavailable
	}
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	return m.completer.CompleteStream(ctx, msgs, fn)
}

func (m *Manager) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedder == nil {
		return nil, ErrUnavailable
	}
	emb, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := m.checkDimensions(emb); err != nil {
		return nil, err
	}
	return emb, nil
}

func (m *Manager) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedder == nil {
		return nil, ErrUnavailable
	}
	embs, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	for _, emb := range embs {
		if err := m.checkDimensions(emb); err != nil {
			return nil, err
		}
	}
	return embs, nil
}

func (m *Manager) Dimensions() int {
	return m.cfg.Dimensions
}

func (m *Manager) EmbeddingModelName() string {
	if m.embedder == nil {
		return ""
	}
	return m.embedder.ModelName()
}

func (m *Manager) checkDimensions(emb []float32) error {
	if m.cfg.Dimensions > 0 && len(emb) != m.cfg.Dimensions {
		return fmt.Errorf("embedding has %d dimensions, expected %d", len(emb), m.cfg.Dimensions)
	}
	return nil
}
