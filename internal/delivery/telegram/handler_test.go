package telegram

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/usecase"
	"github.com/yourusername/po-workflow/internal/workflow"
)

type stubBot struct {
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Params
}

func (b *stubBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, m)
	}
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func (b *stubBot) MakeRequest(_ string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, params)
	return &tgbotapi.APIResponse{Ok: true, Result: json.RawMessage(`{"message_id":1}`)}, nil
}

func (b *stubBot) GetFileDirectURL(fileID string) (string, error) {
	return "http://invalid/" + fileID, nil
}

func (b *stubBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *stubBot) StopReceivingUpdates() {}

func (b *stubBot) lastText() string {
	if len(b.sent) == 0 {
		return ""
	}
	return b.sent[len(b.sent)-1].Text
}

type stubWorkflow struct {
	submissions []entity.StageSubmission
	lifts       []entity.LiftRequest
	submitErr   error
	result      entity.BatchResult
	counts      map[string]int
}

func (s *stubWorkflow) Stages() []workflow.StageDefinition {
	return workflow.DefaultDefinitions().Stages
}

func (s *stubWorkflow) ListStage(_ context.Context, stageID string) (usecase.StageView, error) {
	st, ok := workflow.DefaultDefinitions().Get(stageID)
	if !ok {
		return usecase.StageView{}, workflow.Invalid("unknown stage %q", stageID)
	}
	return usecase.StageView{Stage: st, Pending: []usecase.StageItem{{Key: "IN-1", Product: "Cement"}}}, nil
}

func (s *stubWorkflow) IndentStatus(context.Context, string) (usecase.IndentReport, error) {
	return usecase.IndentReport{}, nil
}

func (s *stubWorkflow) SubmitStage(_ context.Context, sub entity.StageSubmission) (entity.BatchResult, error) {
	s.submissions = append(s.submissions, sub)
	return s.result, s.submitErr
}

func (s *stubWorkflow) RecordLift(_ context.Context, req entity.LiftRequest) (entity.BatchResult, error) {
	s.lifts = append(s.lifts, req)
	return s.result, nil
}

func (s *stubWorkflow) PendingCounts(context.Context) (map[string]int, error) {
	return s.counts, nil
}

func (s *stubWorkflow) RecentJournal(context.Context, int) ([]entity.JournalEntry, error) {
	return nil, nil
}

func newTestHandler(opts Options) (*BotHandler, *stubBot, *stubWorkflow) {
	bot := &stubBot{}
	wf := &stubWorkflow{}
	opts.Dates = workflow.DateParser{DayFirst: true, Location: time.UTC}
	h := newHandler(bot, opts)
	h.SetWorkflow(wf)
	return h, bot, wf
}

func command(chatID, userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, UserName: "ops"},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
		Text:      text,
	}
}

func TestWriteCommandsRequireAdmin(t *testing.T) {
	h, bot, wf := newTestHandler(Options{AdminChatIDs: []int64{1}})
	h.handleMessage(context.Background(), command(5, 5, "/complete approval IN-1 approval_status=approved"))
	h.handleMessage(context.Background(), command(5, 5, "/lift IN-1 40"))
	if len(wf.submissions) != 0 || len(wf.lifts) != 0 {
		t.Fatalf("non-admin reached the use case")
	}
	if !strings.Contains(bot.lastText(), "adminlar") {
		t.Fatalf("reply = %q", bot.lastText())
	}

	h.handleMessage(context.Background(), command(5, 1, "/lift IN-1 40"))
	if len(wf.lifts) != 1 {
		t.Fatalf("admin user lift not forwarded")
	}
}

func TestCompleteForwardsSubmission(t *testing.T) {
	h, bot, wf := newTestHandler(Options{})
	wf.result = entity.BatchResult{StageID: "purchase_order"}
	wf.result.Add(entity.RowOutcome{Key: "IN-1"})
	wf.result.Add(entity.RowOutcome{Key: "IN-2", Sheet: "INDENT", RowIndex: 8, Err: &workflow.WriteError{Sheet: "INDENT", RowIndex: 8, Key: "IN-2", Err: context.DeadlineExceeded}})

	h.handleMessage(context.Background(), command(5, 5, `/complete purchase_order IN-1,IN-2 po_number=PO-7 IN-2.hsn_code=7214`))
	if len(wf.submissions) != 1 {
		t.Fatalf("submissions = %d, want 1", len(wf.submissions))
	}
	sub := wf.submissions[0]
	if sub.StageID != "purchase_order" || len(sub.Keys) != 2 || sub.Values["po_number"] != "PO-7" {
		t.Fatalf("submission = %+v", sub)
	}
	if sub.PerRow["IN-2"]["hsn_code"] != "7214" || sub.Actor != "@ops" || sub.Attachment != nil {
		t.Fatalf("submission = %+v", sub)
	}
	reply := bot.lastText()
	if !strings.Contains(reply, "1 of 2 succeeded") || !strings.Contains(reply, "IN-2 (INDENT row 8)") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestMismatchIsExplained(t *testing.T) {
	h, bot, wf := newTestHandler(Options{})
	wf.submitErr = &workflow.MismatchError{
		Expected: workflow.GroupingKey{Vendor: "Acme", PONumber: "PO-7"},
		Actual:   workflow.GroupingKey{Vendor: "Acme ", PONumber: "PO-7"},
		Position: 1,
	}
	h.handleMessage(context.Background(), command(5, 5, "/complete purchase_order IN-1,IN-2 po_number=PO-7"))
	if !strings.Contains(bot.lastText(), "vendor/PO") {
		t.Fatalf("reply = %q", bot.lastText())
	}
}

func TestPendingListsStage(t *testing.T) {
	h, bot, _ := newTestHandler(Options{})
	h.handleMessage(context.Background(), command(5, 5, "/pending approval"))
	if !strings.Contains(bot.lastText(), "1. IN-1 | Cement") {
		t.Fatalf("reply = %q", bot.lastText())
	}
	h.handleMessage(context.Background(), command(5, 5, "/pending nope"))
	if !strings.Contains(bot.lastText(), "unknown stage") {
		t.Fatalf("reply = %q", bot.lastText())
	}
}

func TestNotifyBatchPostsToTopic(t *testing.T) {
	h, bot, _ := newTestHandler(Options{NotifyChatID: -100123, NotifyThreadID: 4})
	res := entity.BatchResult{StageID: "payment"}
	res.Add(entity.RowOutcome{Key: "IN-1_1"})
	res.Warn("upload bilty.jpg failed: quota")
	h.NotifyBatch(context.Background(), res)

	if len(bot.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(bot.requests))
	}
	p := bot.requests[0]
	if p["message_thread_id"] != "4" || p["chat_id"] != "-100123" {
		t.Fatalf("params = %v", p)
	}
	if !strings.Contains(p["text"], "payment: 1 of 1 succeeded") || !strings.Contains(p["text"], "bilty.jpg") {
		t.Fatalf("text = %q", p["text"])
	}
}

func TestDigestFollowsStageOrder(t *testing.T) {
	h, bot, wf := newTestHandler(Options{NotifyChatID: -100123})
	wf.counts = map[string]int{"approval": 2, "dispatch": 1}
	h.sendDigest(context.Background())
	text := bot.lastText()
	if !strings.Contains(text, "Indent approval: 2") || !strings.Contains(text, "Jami: 3") {
		t.Fatalf("digest = %q", text)
	}
	if strings.Index(text, "Indent approval") > strings.Index(text, "Dispatch (lift)") {
		t.Fatalf("digest out of stage order: %q", text)
	}
}

func TestCheckRateLimit(t *testing.T) {
	h, _, _ := newTestHandler(Options{})
	now := time.Now()
	for i := 0; i < maxRequestsPerSecond; i++ {
		if !h.workerPool.checkRateLimit(7, now) {
			t.Fatalf("request %d limited too early", i)
		}
	}
	if h.workerPool.checkRateLimit(7, now) {
		t.Fatalf("expected rate limit")
	}
	if !h.workerPool.checkRateLimit(7, now.Add(time.Second)) {
		t.Fatalf("limit not reset after a second")
	}
	h.workerPool.pruneRateLimits(now.Add(rateLimiterMaxIdleTime + 2*time.Second))
	if len(h.workerPool.rateLimiter) != 0 {
		t.Fatalf("idle limiter not pruned")
	}
}
