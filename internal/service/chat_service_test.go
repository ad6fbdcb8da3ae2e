package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/brandbot/internal/gaps"
	"github.com/xxxsen/brandbot/internal/lead"
	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
)

type fakeAI struct {
	reply       string
	completeErr error
	embedErr    error
	fragments   []string
	prompts     [][]model.Message
}

func (f *fakeAI) Complete(ctx context.Context, msgs []model.Message) (string, error) {
	f.prompts = append(f.prompts, msgs)
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return f.reply, nil
}

func (f *fakeAI) CompleteStream(ctx context.Context, msgs []model.Message, fn func(fragment string) error) error {
	f.prompts = append(f.prompts, msgs)
	if f.completeErr != nil {
		return f.completeErr
	}
	for _, fragment := range f.fragments {
		if err := fn(fragment); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return []float32{1, 0}, nil
}

func (f *fakeAI) lastSystemPrompt(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.prompts)
	msgs := f.prompts[len(f.prompts)-1]
	require.NotEmpty(t, msgs)
	require.Equal(t, model.RoleSystem, msgs[0].Role)
	return msgs[0].Content
}

type fakeSearcher struct {
	results []model.SearchResult
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query []float32, topK int) ([]model.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeMemory struct {
	recs   map[string]*model.ConversationRecord
	window int
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{recs: make(map[string]*model.ConversationRecord), window: 10}
}

func (f *fakeMemory) Get(ctx context.Context, sessionID string) (*model.ConversationRecord, error) {
	rec, ok := f.recs[sessionID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	clone := *rec
	clone.Messages = append([]model.Message(nil), rec.Messages...)
	return &clone, nil
}

func (f *fakeMemory) Append(ctx context.Context, sessionID string, msgs []model.Message, delta model.LeadInfo, captureInProgress *bool) error {
	rec, ok := f.recs[sessionID]
	if !ok {
		rec = &model.ConversationRecord{}
		f.recs[sessionID] = rec
	}
	rec.LeadInfo = rec.LeadInfo.Merge(delta)
	rec.Messages = append(rec.Messages, msgs...)
	if len(rec.Messages) > f.window {
		rec.Messages = rec.Messages[len(rec.Messages)-f.window:]
	}
	if captureInProgress != nil {
		rec.LeadCaptureInProgress = *captureInProgress
	}
	return nil
}

type fakeLeads struct {
	items    []*model.Lead
	attempts int
	err      error
}

func (f *fakeLeads) Insert(ctx context.Context, item *model.Lead) (int64, error) {
	f.attempts++
	if f.err != nil {
		return 0, f.err
	}
	for _, existing := range f.items {
		if existing.Email == item.Email {
			return 0, errs.ErrDuplicateEmail
		}
	}
	f.items = append(f.items, item)
	return int64(len(f.items)), nil
}

type fakeGapSink struct {
	ch chan string
}

func (f *fakeGapSink) Record(ctx context.Context, question string, normalized string, bestScore float32, sessionID string) error {
	f.ch <- normalized
	return nil
}

type fakeChatLogs struct {
	ch chan *model.ChatLog
}

func (f *fakeChatLogs) Insert(ctx context.Context, item *model.ChatLog) error {
	f.ch <- item
	return nil
}

type chatFixture struct {
	ai       *fakeAI
	searcher *fakeSearcher
	memory   *fakeMemory
	leads    *fakeLeads
	gapSink  *fakeGapSink
	chatLogs *fakeChatLogs
	svc      *ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		ai:       &fakeAI{reply: "Happy to help with that."},
		searcher: &fakeSearcher{results: []model.SearchResult{{Content: "We offer consulting.", Score: 0.8}}},
		memory:   newFakeMemory(),
		leads:    &fakeLeads{},
		gapSink:  &fakeGapSink{ch: make(chan string, 10)},
		chatLogs: &fakeChatLogs{ch: make(chan *model.ChatLog, 10)},
	}
	f.svc = NewChatService(f.ai, f.searcher, f.memory, lead.NewExtractor(lead.Config{}),
		gaps.NewDetector(lead.NewExtractor(lead.Config{})),
		f.leads, f.gapSink, f.chatLogs, nil,
		ChatConfig{BrandName: "Acme", TopK: 5, ScoreThreshold: 0.5, MaxMessageChars: 4000})
	return f
}

func (f *chatFixture) waitChatLog(t *testing.T) *model.ChatLog {
	t.Helper()
	select {
	case item := <-f.chatLogs.ch:
		return item
	case <-time.After(2 * time.Second):
		t.Fatal("chat log was not written")
		return nil
	}
}

func TestChat_LeadCaptureFlow(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	session := "sess-1"

	resp, err := f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "Hello there, can you help me out?"})
	require.NoError(t, err)
	require.False(t, resp.LeadCaptured)
	prompt := f.ai.lastSystemPrompt(t)
	require.Contains(t, prompt, "Do not answer the visitor's question yet")
	require.Contains(t, prompt, "ask for the visitor's name")
	f.waitChatLog(t)
	require.True(t, f.memory.recs[session].LeadCaptureInProgress)

	resp, err = f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "I'm Jordan Lee"})
	require.NoError(t, err)
	require.False(t, resp.LeadCaptured)
	prompt = f.ai.lastSystemPrompt(t)
	require.Contains(t, prompt, "just introduced themselves as Jordan Lee")
	require.Contains(t, prompt, "answer their question")
	require.Contains(t, prompt, "Do not ask for their email address yet")
	f.waitChatLog(t)
	require.Equal(t, "Jordan Lee", f.memory.recs[session].LeadInfo.Name)

	resp, err = f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "What services do you offer today?"})
	require.NoError(t, err)
	require.False(t, resp.LeadCaptured)
	prompt = f.ai.lastSystemPrompt(t)
	require.Contains(t, prompt, "know the visitor's name is Jordan Lee")
	require.Contains(t, prompt, "Do not answer their question yet")
	require.Contains(t, prompt, "Ask for their email address first")
	f.waitChatLog(t)

	resp, err = f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "jordan@example.com", IPAddress: "10.0.0.9"})
	require.NoError(t, err)
	require.True(t, resp.LeadCaptured)
	logEntry := f.waitChatLog(t)
	require.Equal(t, "jordan@example.com", logEntry.LeadEmail)

	require.Len(t, f.leads.items, 1)
	saved := f.leads.items[0]
	require.Equal(t, "Jordan Lee", saved.Name)
	require.Equal(t, "jordan@example.com", saved.Email)
	require.Equal(t, "10.0.0.9", saved.IPAddress)
	require.Equal(t, session, saved.SessionID)
	require.True(t, saved.ValidEmail)
	require.False(t, f.memory.recs[session].LeadCaptureInProgress)

	// A later turn attempts the save again; the duplicate result still
	// reports the lead as captured and no second row appears.
	resp, err = f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "Great, one more question for you."})
	require.NoError(t, err)
	require.True(t, resp.LeadCaptured)
	require.Contains(t, f.ai.lastSystemPrompt(t), "Do not ask for any contact information again")
	f.waitChatLog(t)
	require.Len(t, f.leads.items, 1)
	require.Equal(t, 2, f.leads.attempts)
}

func TestChat_LeadSaveRetriedAfterStoreFailure(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	session := "sess-retry"
	f.memory.recs[session] = &model.ConversationRecord{
		LeadInfo:              model.LeadInfo{Name: "Sam Tan"},
		LeadCaptureInProgress: true,
	}

	f.leads.err = errors.New("store down")
	resp, err := f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "sam@example.com"})
	require.NoError(t, err)
	require.False(t, resp.LeadCaptured)
	f.waitChatLog(t)
	require.Empty(t, f.leads.items)

	f.leads.err = nil
	resp, err = f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "did my details go through alright?"})
	require.NoError(t, err)
	require.True(t, resp.LeadCaptured)
	f.waitChatLog(t)
	require.Len(t, f.leads.items, 1)
	saved := f.leads.items[0]
	require.Equal(t, "Sam Tan", saved.Name)
	require.Equal(t, "sam@example.com", saved.Email)
	require.True(t, saved.ValidEmail)
	require.Equal(t, 2, f.leads.attempts)
}

func TestChat_InvalidEmailAsksForCorrection(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	session := "sess-2"
	f.memory.recs[session] = &model.ConversationRecord{
		LeadInfo:              model.LeadInfo{Name: "Priya"},
		LeadCaptureInProgress: true,
	}

	resp, err := f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "my email is priya@mailinator.com"})
	require.NoError(t, err)
	require.False(t, resp.LeadCaptured)
	require.Contains(t, f.ai.lastSystemPrompt(t), "double-check")
	f.waitChatLog(t)
	require.Empty(t, f.memory.recs[session].LeadInfo.Email)
	require.Empty(t, f.leads.items)
}

func TestChat_DuplicateEmailStillCountsAsCaptured(t *testing.T) {
	f := newChatFixture()
	f.leads.err = errs.ErrDuplicateEmail
	ctx := context.Background()
	session := "sess-3"
	f.memory.recs[session] = &model.ConversationRecord{
		LeadInfo:              model.LeadInfo{Name: "Sam Tan"},
		LeadCaptureInProgress: true,
	}

	resp, err := f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "sam@example.com"})
	require.NoError(t, err)
	require.True(t, resp.LeadCaptured)
	f.waitChatLog(t)
}

func TestChat_RecordsKnowledgeGap(t *testing.T) {
	f := newChatFixture()
	f.searcher.results = []model.SearchResult{{Content: "unrelated", Score: 0.12}}
	ctx := context.Background()

	_, err := f.svc.Chat(ctx, &ChatRequest{SessionID: "sess-4", Message: "do you integrate with quickbooks online"})
	require.NoError(t, err)

	select {
	case normalized := <-f.gapSink.ch:
		require.Equal(t, "do you integrate with quickbooks online", normalized)
	case <-time.After(2 * time.Second):
		t.Fatal("gap was not recorded")
	}
	logEntry := f.waitChatLog(t)
	require.InDelta(t, 0.12, float64(logEntry.BestScore), 1e-6)
}

func TestChat_GapSuppressedDuringLeadCapture(t *testing.T) {
	f := newChatFixture()
	f.searcher.results = nil
	ctx := context.Background()
	session := "sess-5"
	f.memory.recs[session] = &model.ConversationRecord{LeadCaptureInProgress: true}

	_, err := f.svc.Chat(ctx, &ChatRequest{SessionID: session, Message: "what is your refund policy for annual plans"})
	require.NoError(t, err)
	f.waitChatLog(t)
	require.Empty(t, f.gapSink.ch)
}

func TestChat_RejectsBadInput(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	_, err := f.svc.Chat(ctx, &ChatRequest{SessionID: "s", Message: "   "})
	require.ErrorIs(t, err, errs.ErrInvalid)

	_, err = f.svc.Chat(ctx, &ChatRequest{SessionID: "", Message: "hello"})
	require.ErrorIs(t, err, errs.ErrInvalid)

	long := make([]rune, 4001)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.svc.Chat(ctx, &ChatRequest{SessionID: "s", Message: string(long)})
	require.ErrorIs(t, err, errs.ErrInvalid)
}

func TestChat_CompletionFailureSurfaces(t *testing.T) {
	f := newChatFixture()
	f.ai.completeErr = errors.New("upstream down")

	_, err := f.svc.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "tell me about your consulting work"})
	require.ErrorIs(t, err, errs.ErrAIUnavailable)
}

func TestChat_RetrievalFailureDegrades(t *testing.T) {
	f := newChatFixture()
	f.searcher.err = errors.New("search down")

	resp, err := f.svc.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "tell me about your consulting work"})
	require.NoError(t, err)
	require.Equal(t, "Happy to help with that.", resp.Reply)
	require.Contains(t, f.ai.lastSystemPrompt(t), "No knowledge base excerpts")
	f.waitChatLog(t)
}

func TestChat_LowScoreContextExcludedFromPrompt(t *testing.T) {
	f := newChatFixture()
	f.searcher.results = []model.SearchResult{
		{Content: "alpha excerpt", Score: 0.7},
		{Content: "omega excerpt", Score: 0.2},
	}

	_, err := f.svc.Chat(context.Background(), &ChatRequest{SessionID: "s", Message: "tell me about your consulting work"})
	require.NoError(t, err)
	prompt := f.ai.lastSystemPrompt(t)
	require.Contains(t, prompt, "alpha excerpt")
	require.NotContains(t, prompt, "omega excerpt")
	f.waitChatLog(t)
}

func TestChatStream_ForwardsFragments(t *testing.T) {
	f := newChatFixture()
	f.ai.fragments = []string{"Hap", "py to ", "help."}

	var got []string
	resp, err := f.svc.ChatStream(context.Background(), &ChatRequest{SessionID: "s", Message: "tell me about your consulting work"},
		func(fragment string) error {
			got = append(got, fragment)
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, f.ai.fragments, got)
	require.Equal(t, "Happy to help.", resp.Reply)
	f.waitChatLog(t)
}

func TestComputeState(t *testing.T) {
	tests := []struct {
		name       string
		prior      model.LeadInfo
		current    model.LeadInfo
		emailValid bool
		want       leadState
	}{
		{"nothing known", model.LeadInfo{}, model.LeadInfo{}, false, stateNeedName},
		{"name arrives", model.LeadInfo{}, model.LeadInfo{Name: "Jordan Lee"}, false, stateNameJustProvided},
		{"name known email missing", model.LeadInfo{Name: "Jordan Lee"}, model.LeadInfo{}, false, stateNeedEmail},
		{"bad email", model.LeadInfo{Name: "Jordan Lee"}, model.LeadInfo{Email: "x@mailinator.com"}, false, stateInvalidEmail},
		{"email completes", model.LeadInfo{Name: "Jordan Lee"}, model.LeadInfo{Email: "x@example.com"}, true, stateComplete},
		{"already complete", model.LeadInfo{Name: "Jordan Lee", Email: "x@example.com"}, model.LeadInfo{}, false, stateComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := tt.current
			if !tt.emailValid {
				delta.Email = ""
			}
			combined := tt.prior.Merge(delta)
			require.Equal(t, tt.want, computeState(tt.prior, tt.current, combined, tt.emailValid))
		})
	}
}
