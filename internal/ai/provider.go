package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xxxsen/brandbot/internal/model"
)

var ErrUnavailable = errors.New("ai provider not configured")

type IChatProvider interface {
	Name() string
	Chat(ctx context.Context, modelName string, msgs []model.Message) (string, error)
	ChatStream(ctx context.Context, modelName string, msgs []model.Message, fn func(fragment string) error) error
}

type IEmbedProvider interface {
	Name() string
	Embed(ctx context.Context, modelName string, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, modelName string, texts []string) ([][]float32, error)
}

// ICompleter is a chat provider bound to one model.
type ICompleter interface {
	Complete(ctx context.Context, msgs []model.Message) (string, error)
	CompleteStream(ctx context.Context, msgs []model.Message, fn func(fragment string) error) error
}

// IEmbedder is an embed provider bound to one model.
type IEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

type completer struct {
	provider IChatProvider
	model    string
}

func NewCompleter(p IChatProvider, modelName string) ICompleter {
	return &completer{provider: p, model: modelName}
}

func (c *completer) Complete(ctx context.Context, msgs []model.Message) (string, error) {
	return c.provider.Chat(ctx, c.model, msgs)
}

func (c *completer) CompleteStream(ctx context.Context, msgs []model.Message, fn func(fragment string) error) error {
	return c.provider.ChatStream(ctx, c.model, msgs, fn)
}

type embedder struct {
	provider IEmbedProvider
	model    string
}

func NewEmbedder(p IEmbedProvider, modelName string) IEmbedder {
	return &embedder{provider: p, model: modelName}
}

func (e *embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.provider.Embed(ctx, e.model, text)
}

func (e *embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.provider.EmbedBatch(ctx, e.model, texts)
}

func (e *embedder) ModelName() string {
	return e.model
}

type ChatFactory func(args interface{}) (IChatProvider, error)
type EmbedFactory func(args interface{}) (IEmbedProvider, error)

var (
	chatRegistry  = map[string]ChatFactory{}
	embedRegistry = map[string]EmbedFactory{}
)

func Register(name string, factory ChatFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	chatRegistry[key] = factory
}

func RegisterEmbed(name string, factory EmbedFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	embedRegistry[key] = factory
}

func NewChatProvider(name string, args interface{}) (IChatProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.chat.provider is required")
	}
	factory := chatRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported chat provider: %s", name)
	}
	return factory(args)
}

func NewEmbedProvider(name string, args interface{}) (IEmbedProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai.embed.provider is required")
	}
	factory := embedRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported embed provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
