package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/brandbot/internal/gaps"
	"github.com/xxxsen/brandbot/internal/lead"
	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
)

// leadState is recomputed every turn from the accumulated lead info plus
// what the current message contributed. It is never stored.
type leadState string

const (
	stateNeedName         leadState = "need_name"
	stateNameJustProvided leadState = "name_just_provided"
	stateNeedEmail        leadState = "need_email"
	stateInvalidEmail     leadState = "invalid_email"
	stateComplete         leadState = "complete"
)

type Completer interface {
	Complete(ctx context.Context, msgs []model.Message) (string, error)
	CompleteStream(ctx context.Context, msgs []model.Message, fn func(fragment string) error) error
	Embed(ctx context.Context, text string) ([]float32, error)
}

type ConversationStore interface {
	Get(ctx context.Context, sessionID string) (*model.ConversationRecord, error)
	Append(ctx context.Context, sessionID string, msgs []model.Message, delta model.LeadInfo, captureInProgress *bool) error
}

type VectorSearcher interface {
	Search(ctx context.Context, query []float32, topK int) ([]model.SearchResult, error)
}

type LeadSink interface {
	Insert(ctx context.Context, item *model.Lead) (int64, error)
}

type GapSink interface {
	Record(ctx context.Context, question string, normalized string, bestScore float32, sessionID string) error
}

type ChatLogSink interface {
	Insert(ctx context.Context, item *model.ChatLog) error
}

type EmailAuthority interface {
	Enabled() bool
	Validate(ctx context.Context, email string) error
}

type ChatConfig struct {
	BrandName       string
	TopK            int
	ScoreThreshold  float32
	MaxMessageChars int
}

type ChatService struct {
	ai        Completer
	store     VectorSearcher
	memory    ConversationStore
	extractor *lead.Extractor
	detector  *gaps.Detector
	leads     LeadSink
	gapSink   GapSink
	chatLogs  ChatLogSink
	authority EmailAuthority
	cfg       ChatConfig
}

func NewChatService(aiClient Completer, store VectorSearcher, memory ConversationStore,
	extractor *lead.Extractor, detector *gaps.Detector,
	leads LeadSink, gapSink GapSink, chatLogs ChatLogSink,
	authority EmailAuthority, cfg ChatConfig) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.ScoreThreshold == 0 {
		cfg.ScoreThreshold = 0.5
	}
	if cfg.MaxMessageChars <= 0 {
		cfg.MaxMessageChars = 4000
	}
	if cfg.BrandName == "" {
		cfg.BrandName = "our company"
	}
	return &ChatService{
		ai:        aiClient,
		store:     store,
		memory:    memory,
		extractor: extractor,
		detector:  detector,
		leads:     leads,
		gapSink:   gapSink,
		chatLogs:  chatLogs,
		authority: authority,
		cfg:       cfg,
	}
}

type ChatRequest struct {
	SessionID string
	Message   string
	IPAddress string
}

type ChatResponse struct {
	Reply        string `json:"reply"`
	SessionID    string `json:"session_id"`
	LeadCaptured bool   `json:"lead_captured"`
}

func (s *ChatService) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	return s.run(ctx, req, nil)
}

// ChatStream behaves like Chat but forwards reply fragments through fn as
// they arrive. Memory and analytics are written after the stream completes.
func (s *ChatService) ChatStream(ctx context.Context, req *ChatRequest, fn func(fragment string) error) (*ChatResponse, error) {
	if fn == nil {
		return nil, errs.ErrInvalid
	}
	return s.run(ctx, req, fn)
}

func (s *ChatService) run(ctx context.Context, req *ChatRequest, stream func(fragment string) error) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if req.SessionID == "" || message == "" {
		return nil, errs.ErrInvalid
	}
	if len([]rune(message)) > s.cfg.MaxMessageChars {
		return nil, errs.ErrInvalid
	}
	logger := logutil.GetLogger(ctx).With(zap.String("session_id", req.SessionID))

	rec, err := s.memory.Get(ctx, req.SessionID)
	if err != nil {
		if !errs.IsNotFound(err) {
			logger.Warn("conversation load failed, starting empty", zap.Error(err))
		}
		rec = &model.ConversationRecord{}
	}
	captureWasInProgress := rec.LeadCaptureInProgress

	current := s.extractor.Extract(message)
	emailValid := false
	if current.Email != "" {
		emailValid = s.validateEmail(ctx, current.Email) == nil
	}

	delta := current
	if !emailValid {
		delta.Email = ""
	}
	prior := rec.LeadInfo
	combined := prior.Merge(delta)
	state := computeState(prior, current, combined, emailValid)

	results := s.retrieve(ctx, message)

	msgs := s.buildPrompt(rec.Messages, message, results, state, combined)
	reply, err := s.complete(ctx, msgs, stream)
	if err != nil {
		logger.Error("completion failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errs.ErrAIUnavailable, err)
	}

	captureInProgress := state != stateComplete
	turn := []model.Message{
		{Role: model.RoleUser, Content: message},
		{Role: model.RoleAssistant, Content: reply},
	}
	if err := s.memory.Append(ctx, req.SessionID, turn, delta, &captureInProgress); err != nil {
		logger.Warn("conversation write failed", zap.Error(err))
	}

	// Once COMPLETE, the save is attempted again on every turn that still
	// carries the email. The unique constraint makes retries idempotent, so
	// a transient store failure on the capture turn does not lose the lead.
	leadCaptured := false
	if state == stateComplete && combined.Email != "" {
		leadCaptured = s.saveLead(ctx, req, rec.Messages, message, combined, emailValid || current.Email == "")
	}

	s.recordAnalytics(req.SessionID, message, reply, results, combined.Email, captureWasInProgress)

	return &ChatResponse{
		Reply:        reply,
		SessionID:    req.SessionID,
		LeadCaptured: leadCaptured,
	}, nil
}

// validateEmail runs the local check first; the external authority, when
// configured and reachable, overrides the local verdict. A transport
// failure keeps the local result.
func (s *ChatService) validateEmail(ctx context.Context, email string) error {
	localErr := s.extractor.ValidateEmail(email)
	if s.authority == nil || !s.authority.Enabled() {
		return localErr
	}
	err := s.authority.Validate(ctx, email)
	if err == nil {
		return nil
	}
	if errors.Is(err, lead.ErrInvalidFormat) || errors.Is(err, lead.ErrDisposableDomain) {
		return err
	}
	logutil.GetLogger(ctx).Warn("email authority unreachable, using local verdict", zap.Error(err))
	return localErr
}

func computeState(prior, current, combined model.LeadInfo, emailValid bool) leadState {
	if current.Email != "" && !emailValid {
		return stateInvalidEmail
	}
	if combined.Name == "" {
		return stateNeedName
	}
	if combined.Email == "" {
		if prior.Name == "" && current.Name != "" {
			return stateNameJustProvided
		}
		return stateNeedEmail
	}
	return stateComplete
}

func (s *ChatService) retrieve(ctx context.Context, message string) []model.SearchResult {
	logger := logutil.GetLogger(ctx)
	emb, err := s.ai.Embed(ctx, message)
	if err != nil {
		logger.Warn("query embedding failed, answering without context", zap.Error(err))
		return nil
	}
	results, err := s.store.Search(ctx, emb, s.cfg.TopK)
	if err != nil {
		logger.Warn("vector search failed, answering without context", zap.Error(err))
		return nil
	}
	return results
}

func (s *ChatService) buildPrompt(history []model.Message, message string, results []model.SearchResult, state leadState, combined model.LeadInfo) []model.Message {
	var sb strings.Builder
	sb.WriteString("You are a friendly and professional assistant for ")
	sb.WriteString(s.cfg.BrandName)
	sb.WriteString(". Answer questions using only the knowledge base excerpts below. ")
	sb.WriteString("If the excerpts do not cover the question, say so honestly and offer to pass the question to the team. Keep replies concise.\n")

	var contextBlocks []string
	for _, r := range results {
		if r.Score >= s.cfg.ScoreThreshold && r.Content != "" {
			contextBlocks = append(contextBlocks, r.Content)
		}
	}
	if len(contextBlocks) > 0 {
		sb.WriteString("\nKnowledge base excerpts:\n")
		for i, block := range contextBlocks {
			sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, block))
		}
	} else {
		sb.WriteString("\nNo knowledge base excerpts matched this question.\n")
	}

	sb.WriteString("\n")
	sb.WriteString(stateDirective(state, combined))

	msgs := make([]model.Message, 0, len(history)+2)
	msgs = append(msgs, model.Message{Role: model.RoleSystem, Content: sb.String()})
	msgs = append(msgs, history...)
	msgs = append(msgs, model.Message{Role: model.RoleUser, Content: message})
	return msgs
}

// Gating directives: until contact details are captured the assistant holds
// the substantive answer back. Only NAME_JUST_PROVIDED and COMPLETE answer
// the question.
func stateDirective(state leadState, combined model.LeadInfo) string {
	switch state {
	case stateNeedName:
		return "Do not answer the visitor's question yet. Politely ask for the visitor's name so the team can follow up, and nothing else."
	case stateNameJustProvided:
		return fmt.Sprintf("The visitor just introduced themselves as %s. Greet them by name and answer their question, including anything asked earlier that went unanswered. Do not ask for their email address yet.", combined.Name)
	case stateNeedEmail:
		return fmt.Sprintf("You already know the visitor's name is %s. Do not answer their question yet. Ask for their email address first so the team can follow up.", combined.Name)
	case stateInvalidEmail:
		return "The email address the visitor gave looks invalid or undeliverable. Do not answer their question yet. Explain the problem and ask them to double-check the address."
	case stateComplete:
		return "The visitor's contact details are already captured. Do not ask for any contact information again."
	}
	return ""
}

func (s *ChatService) complete(ctx context.Context, msgs []model.Message, stream func(fragment string) error) (string, error) {
	if stream == nil {
		return s.ai.Complete(ctx, msgs)
	}
	var sb strings.Builder
	err := s.ai.CompleteStream(ctx, msgs, func(fragment string) error {
		sb.WriteString(fragment)
		return stream(fragment)
	})
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return reply, nil
}

// saveLead is best-effort: a storage failure or a duplicate email never
// fails the chat turn.
func (s *ChatService) saveLead(ctx context.Context, req *ChatRequest, history []model.Message, message string, combined model.LeadInfo, emailValid bool) bool {
	logger := logutil.GetLogger(ctx).With(zap.String("session_id", req.SessionID))
	if _, err := s.leads.Insert(ctx, &model.Lead{
		Name:        combined.Name,
		Email:       combined.Email,
		Phone:       combined.Phone,
		IPAddress:   req.IPAddress,
		ChatContext: chatContext(history, message),
		ValidEmail:  emailValid,
		SessionID:   req.SessionID,
	}); err != nil {
		if errs.IsDuplicateEmail(err) {
			logger.Info("lead already registered", zap.String("email", combined.Email))
			return true
		}
		logger.Error("lead save failed", zap.Error(err))
		return false
	}
	logger.Info("lead captured", zap.String("email", combined.Email))
	return true
}

func chatContext(history []model.Message, message string) string {
	var sb strings.Builder
	for _, m := range history {
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	sb.WriteString(model.RoleUser)
	sb.WriteString(": ")
	sb.WriteString(message)
	return sb.String()
}

// recordAnalytics runs off the request path. The detached context keeps the
// writes alive after the HTTP response is gone; failures are logged and
// dropped.
func (s *ChatService) recordAnalytics(sessionID, message, reply string, results []model.SearchResult, leadEmail string, captureWasInProgress bool) {
	best := gaps.BestScore(results)
	isGap := s.detector.IsGap(message, results, captureWasInProgress)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger := logutil.GetLogger(ctx).With(zap.String("session_id", sessionID))
		if isGap && s.gapSink != nil {
			normalized := gaps.Normalize(message)
			if err := s.gapSink.Record(ctx, message, normalized, best, sessionID); err != nil {
				logger.Error("gap record failed", zap.Error(err))
			} else {
				logger.Info("knowledge gap recorded", zap.Float32("best_score", best))
			}
		}
		if s.chatLogs != nil {
			if err := s.chatLogs.Insert(ctx, &model.ChatLog{
				SessionID:   sessionID,
				UserMessage: message,
				Reply:       reply,
				BestScore:   best,
				LeadEmail:   leadEmail,
			}); err != nil {
				logger.Error("chat log write failed", zap.Error(err))
			}
		}
	}()
}
