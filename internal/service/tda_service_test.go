package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"tradejournal/internal/marketdata"
	"tradejournal/internal/models"
	gormrepository "tradejournal/internal/repository/gorm"
	"tradejournal/internal/tda"
)

func strPtr(v string) *string   { return &v }
func f64Ptr(v float64) *float64 { return &v }
func boolPtrT(v bool) *bool     { return &v }

func newTDA(t *testing.T) (*TDAService, *gormrepository.Store) {
	t.Helper()
	store := newStore(t)
	return &TDAService{
		Repo:    store,
		Storage: &stubObjects{},
		Now:     fixedClock(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)),
	}, store
}

func seedDailyQuestions(t *testing.T, svc *TDAService, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		q, err := svc.CreateQuestion(context.Background(), QuestionInput{
			Timeframe:   strPtr("daily"),
			Text:        strPtr("Where is price heading?"),
			Type:        strPtr("text"),
			Directional: boolPtrT(true),
		})
		if err != nil {
			t.Fatalf("create question: %v", err)
		}
		ids = append(ids, q.ID)
	}
	return ids
}

func TestTDA_DraftToCompletedFlow(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	qids := seedDailyQuestions(t, svc, 3)

	a, err := svc.CreateAnalysis(ctx, "u1", "eur/usd")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.CurrencyPair != "EURUSD" || a.Status != models.AnalysisStatusDraft {
		t.Fatalf("unexpected analysis: %+v", a)
	}
	if a.OverallProbability != 50 || a.ConfidenceLevel != 50 {
		t.Fatalf("defaults = %v/%v", a.OverallProbability, a.ConfidenceLevel)
	}

	texts := []string{`"bullish structure"`, `"higher highs"`, `"looks bearish"`}
	answers := make([]AnswerInput, 0, len(qids))
	for i, id := range qids {
		answers = append(answers, AnswerInput{QuestionID: id, Value: json.RawMessage(texts[i])})
	}
	views, err := svc.UpsertAnswers(ctx, "u1", a.ID, answers)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("answers=%d want 3", len(views))
	}

	voted, err := svc.UpsertTimeframe(ctx, "u1", a.ID, "DAILY", TimeframeInput{})
	if err != nil {
		t.Fatalf("timeframe vote: %v", err)
	}
	if voted.Sentiment != tda.Bullish || voted.Probability != 50 || voted.Strength != 50 {
		t.Fatalf("voted timeframe = %+v", voted)
	}
	if _, err := svc.UpsertTimeframe(ctx, "u1", a.ID, "DAILY", TimeframeInput{Sentiment: strPtr("BULLISH"), Probability: f64Ptr(75)}); err != nil {
		t.Fatalf("timeframe: %v", err)
	}

	if _, err := svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{
		Status:             strPtr("COMPLETED"),
		OverallProbability: f64Ptr(78.5),
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	detail, err := svc.GetAnalysis(ctx, "u1", a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Analysis.Status != models.AnalysisStatusCompleted {
		t.Fatalf("status=%s", detail.Analysis.Status)
	}
	if detail.Analysis.OverallProbability != 78.5 {
		t.Fatalf("probability=%v", detail.Analysis.OverallProbability)
	}
	if detail.Analysis.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
	if len(detail.Timeframes) != 1 || detail.Timeframes[0].Probability != 75 {
		t.Fatalf("timeframes=%+v", detail.Timeframes)
	}

	if _, err := svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{Summary: strPtr("late edit")}); !errors.Is(err, ErrConflict) {
		t.Fatalf("edit after completion err=%v want conflict", err)
	}
	if _, err := svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{Status: strPtr("DRAFT")}); !errors.Is(err, ErrConflict) {
		t.Fatalf("reopen err=%v want conflict", err)
	}
	if _, err := svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{Status: strPtr("ARCHIVED")}); err != nil {
		t.Fatalf("archive: %v", err)
	}
	history, err := svc.History(ctx, "u1", a.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history rows=%d want 3", len(history))
	}
}

func TestTDA_CompletionNeedsTimeframe(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	a, err := svc.CreateAnalysis(ctx, "u1", "GBPUSD")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{Status: strPtr("COMPLETED")})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err=%v want conflict", err)
	}
}

func TestTDA_ForeignAnalysisIsNotFound(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	a, err := svc.CreateAnalysis(ctx, "owner", "EURUSD")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetAnalysis(ctx, "intruder", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get err=%v want not found", err)
	}
	if _, err := svc.UpsertTimeframe(ctx, "intruder", a.ID, "H4", TimeframeInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("upsert err=%v want not found", err)
	}
	if _, err := svc.DeleteAnalysis(ctx, "intruder", a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete err=%v want not found", err)
	}
}

func TestTDA_AnswerValidation(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	rating, err := svc.CreateQuestion(ctx, QuestionInput{Timeframe: strPtr("H4"), Text: strPtr("Conviction?"), Type: strPtr("RATING")})
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")

	if _, err := svc.UpsertAnswers(ctx, "u1", a.ID, []AnswerInput{{QuestionID: rating.ID, Value: json.RawMessage(`9`)}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("out of range err=%v", err)
	}
	if _, err := svc.UpsertAnswers(ctx, "u1", a.ID, []AnswerInput{{QuestionID: "missing", Value: json.RawMessage(`3`)}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown question err=%v", err)
	}
	views, err := svc.UpsertAnswers(ctx, "u1", a.ID, []AnswerInput{{QuestionID: rating.ID, Value: json.RawMessage(`4`)}})
	if err != nil {
		t.Fatalf("valid answer: %v", err)
	}
	if r, ok := views[0].Value.(tda.RatingAnswer); !ok || r.Rating != 4 {
		t.Fatalf("value=%#v", views[0].Value)
	}
}

func TestTDA_QuestionVersioning(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	q, err := svc.CreateQuestion(ctx, QuestionInput{Timeframe: strPtr("W1"), Text: strPtr("Trend?"), Type: strPtr("TEXT")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	next, err := svc.UpdateQuestion(ctx, q.ID, QuestionInput{Text: strPtr("Weekly trend?")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if next.Version != 2 || next.ParentID == nil || *next.ParentID != q.ID {
		t.Fatalf("next=%+v", next)
	}
	active, err := svc.ListQuestions(ctx, strPtr("W1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != next.ID {
		t.Fatalf("active=%+v", active)
	}
	if _, err := svc.UpdateQuestion(ctx, q.ID, QuestionInput{Text: strPtr("again")}); !errors.Is(err, ErrConflict) {
		t.Fatalf("update stale err=%v want conflict", err)
	}
}

type failingAnswerDelete struct {
	*gormrepository.Store
}

func (failingAnswerDelete) DeleteAnswersByAnalysis(context.Context, string) (int64, error) {
	return 0, errors.New("answers table locked")
}

func TestTDA_DeleteStopsAndReports(t *testing.T) {
	svc, store := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	if _, err := svc.AddAnnouncement(ctx, "u1", a.ID, AnnouncementInput{Timeframe: "D1", Title: "CPI"}); err != nil {
		t.Fatalf("announcement: %v", err)
	}

	svc.Repo = failingAnswerDelete{store}
	rep, err := svc.DeleteAnalysis(ctx, "u1", a.ID)
	if !errors.Is(err, ErrPartialDelete) {
		t.Fatalf("err=%v want partial delete", err)
	}
	if rep == nil || rep.Deleted || rep.Failed != "answers" {
		t.Fatalf("report=%+v", rep)
	}
	want := []string{"screenshot_objects", "screenshots", "announcements"}
	if len(rep.Completed) != len(want) {
		t.Fatalf("completed=%v want %v", rep.Completed, want)
	}
	for i := range want {
		if rep.Completed[i] != want[i] {
			t.Fatalf("completed=%v want %v", rep.Completed, want)
		}
	}
	// parent survives a stopped run
	if got, _ := store.GetAnalysis(ctx, "u1", a.ID); got == nil {
		t.Fatalf("analysis removed despite failed step")
	}

	svc.Repo = store
	rep, err = svc.DeleteAnalysis(ctx, "u1", a.ID)
	if err != nil || !rep.Deleted {
		t.Fatalf("retry: rep=%+v err=%v", rep, err)
	}
	if got, _ := store.GetAnalysis(ctx, "u1", a.ID); got != nil {
		t.Fatalf("analysis still present")
	}
}

func TestTDA_DeleteToleratesStorageErrors(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	if _, err := svc.AddScreenshot(ctx, "u1", a.ID, ScreenshotUpload{Timeframe: "H1", Body: png}); err != nil {
		t.Fatalf("screenshot: %v", err)
	}
	svc.Storage = &stubObjects{err: errors.New("bucket offline")}

	rep, err := svc.DeleteAnalysis(ctx, "u1", a.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !rep.Deleted || len(rep.StorageErrors) != 1 {
		t.Fatalf("report=%+v", rep)
	}
}

func TestTDA_EnhanceWithoutMarketDataKeepsBaseline(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	if _, err := svc.UpsertTimeframe(ctx, "u1", a.ID, "H4", TimeframeInput{Sentiment: strPtr("BULLISH")}); err != nil {
		t.Fatalf("timeframe: %v", err)
	}
	svc.Market = stubMarket{err: marketdata.ErrNoData}

	res, err := svc.EnhanceAnalysis(ctx, "u1", a.ID, true)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	m := res.UpdatedMetrics
	if m.MarketApplied || m.Probability != 50 || m.Confidence != 50 || m.RiskLevel != "" {
		t.Fatalf("metrics=%+v want stored baseline", m)
	}
	if m.AlignmentScore != 0.5 {
		t.Fatalf("alignment=%v", m.AlignmentScore)
	}
	if res.ReasoningSource != "template" || res.Reasoning["H4"] == "" {
		t.Fatalf("reasoning=%v source=%s", res.Reasoning, res.ReasoningSource)
	}
}

func TestTDA_EnhanceAppliesMarketAdjustments(t *testing.T) {
	svc, store := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	for _, tf := range []string{"D1", "H4"} {
		if _, err := svc.UpsertTimeframe(ctx, "u1", a.ID, tf, TimeframeInput{Sentiment: strPtr("BULLISH")}); err != nil {
			t.Fatalf("timeframe: %v", err)
		}
	}
	svc.Market = stubMarket{bar: marketdata.Bar{Open: 1.1000, High: 1.1320, Low: 1.0990, Close: 1.1300}}
	llm := &stubLLM{reply: `{"D1":"Daily trend is intact.","H4":"Pullback is shallow."}`}
	svc.LLM = llm

	res, err := svc.EnhanceAnalysis(ctx, "u1", a.ID, true)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	m := res.UpdatedMetrics
	if !m.MarketApplied || m.Probability != 60 || m.Confidence != 35 || m.RiskLevel != tda.RiskHigh {
		t.Fatalf("metrics=%+v", m)
	}
	if m.AlignmentScore != 1 {
		t.Fatalf("alignment=%v want 1", m.AlignmentScore)
	}
	if res.ReasoningSource != "llm" || res.Reasoning["H4"] != "Pullback is shallow." {
		t.Fatalf("reasoning=%v", res.Reasoning)
	}
	if !res.Applied {
		t.Fatalf("draft analysis not applied")
	}
	stored, _ := store.GetAnalysis(ctx, "u1", a.ID)
	if stored.OverallProbability != 60 || stored.TradeRecommendation != tda.RecommendLong {
		t.Fatalf("stored=%+v", stored)
	}
}

func TestTDA_EnhanceFallsBackWhenLLMFails(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	if _, err := svc.UpsertTimeframe(ctx, "u1", a.ID, "M15", TimeframeInput{Sentiment: strPtr("BEARISH")}); err != nil {
		t.Fatalf("timeframe: %v", err)
	}
	svc.LLM = &stubLLM{reply: "I cannot help with that."}
	res, err := svc.EnhanceAnalysis(ctx, "u1", a.ID, false)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if res.ReasoningSource != "template" || res.Reasoning["M15"] == "" || res.Applied {
		t.Fatalf("res=%+v", res)
	}
}

func TestTDA_AuditReportsMissingPieces(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	rep, err := svc.AuditAnalysis(ctx, "u1", a.ID)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if rep.CanComplete || len(rep.Problems) != 2 {
		t.Fatalf("audit=%+v", rep)
	}
}

func TestTDA_TradeRecommendationValues(t *testing.T) {
	svc, store := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	for _, rec := range []string{"long", "SHORT", "Neutral", "AVOID"} {
		item, err := svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{TradeRecommendation: strPtr(rec)})
		if err != nil {
			t.Fatalf("%s: %v", rec, err)
		}
		if item.TradeRecommendation != strings.ToUpper(rec) {
			t.Fatalf("stored %s for %s", item.TradeRecommendation, rec)
		}
	}
	if _, err := svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{TradeRecommendation: strPtr("BUY")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("BUY err=%v want invalid", err)
	}

	// Without market data the stored recommendation is the result, applied or not.
	if _, err := svc.UpsertTimeframe(ctx, "u1", a.ID, "D1", TimeframeInput{Sentiment: strPtr("BULLISH")}); err != nil {
		t.Fatalf("timeframe: %v", err)
	}
	svc.Market = stubMarket{err: marketdata.ErrNoData}
	res, err := svc.EnhanceAnalysis(ctx, "u1", a.ID, true)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if res.UpdatedMetrics.Recommendation != tda.RecommendAvoid {
		t.Fatalf("recommendation=%s want AVOID", res.UpdatedMetrics.Recommendation)
	}
	if stored, _ := store.GetAnalysis(ctx, "u1", a.ID); stored.TradeRecommendation != tda.RecommendAvoid {
		t.Fatalf("stored=%s want AVOID", stored.TradeRecommendation)
	}
}

// staleAnalysisRead serves a snapshot taken before a concurrent write.
type staleAnalysisRead struct {
	*gormrepository.Store
	snapshot models.Analysis
}

func (r staleAnalysisRead) GetAnalysis(context.Context, string, string) (*models.Analysis, error) {
	item := r.snapshot
	return &item, nil
}

func TestTDA_StaleDraftSaveConflicts(t *testing.T) {
	svc, store := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	if _, err := svc.UpsertTimeframe(ctx, "u1", a.ID, "D1", TimeframeInput{Sentiment: strPtr("BULLISH")}); err != nil {
		t.Fatalf("timeframe: %v", err)
	}
	draft, err := store.GetAnalysis(ctx, "u1", a.ID)
	if err != nil || draft == nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{Status: strPtr("COMPLETED")}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	svc.Repo = staleAnalysisRead{Store: store, snapshot: *draft}
	svc.Market = stubMarket{err: marketdata.ErrNoData}
	if _, err := svc.UpdateAnalysis(ctx, "u1", a.ID, AnalysisUpdate{Summary: strPtr("late")}); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale update err=%v want conflict", err)
	}
	if _, err := svc.EnhanceAnalysis(ctx, "u1", a.ID, true); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale enhance err=%v want conflict", err)
	}

	stored, _ := store.GetAnalysis(ctx, "u1", a.ID)
	if stored.Status != models.AnalysisStatusCompleted || stored.Summary == "late" {
		t.Fatalf("stored=%+v want untouched COMPLETED row", stored)
	}
}

func TestTDA_TimeframeUpsertKeepsID(t *testing.T) {
	svc, _ := newTDA(t)
	ctx := context.Background()
	a, _ := svc.CreateAnalysis(ctx, "u1", "USDJPY")
	first, err := svc.UpsertTimeframe(ctx, "u1", a.ID, "H4", TimeframeInput{Sentiment: strPtr("BULLISH")})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.UpsertTimeframe(ctx, "u1", a.ID, "H4", TimeframeInput{Sentiment: strPtr("BEARISH")})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.ID != first.ID || second.Sentiment != tda.Bearish {
		t.Fatalf("second=%+v want id %s with BEARISH", second, first.ID)
	}
}

func TestTDA_UnreadableQuestionOptionsSurface(t *testing.T) {
	svc, store := newTDA(t)
	ctx := context.Background()
	q := &models.Question{
		Timeframe: "D1", Text: "Which setup?", Type: models.QuestionTypeChoice,
		Options: datatypes.JSON(`{"broken"`), Version: 1, Active: true,
	}
	if err := store.InsertQuestion(ctx, q); err != nil {
		t.Fatalf("insert question: %v", err)
	}
	a, _ := svc.CreateAnalysis(ctx, "u1", "EURUSD")
	_, err := svc.UpsertAnswers(ctx, "u1", a.ID, []AnswerInput{{QuestionID: q.ID, Value: json.RawMessage(`"breakout"`)}})
	if err == nil || errors.Is(err, ErrInvalidInput) || !strings.Contains(err.Error(), "malformed options") {
		t.Fatalf("err=%v want malformed options error", err)
	}
	if _, err := svc.UpdateQuestion(ctx, q.ID, QuestionInput{Text: strPtr("Which setup now?")}); err == nil || errors.Is(err, ErrInvalidInput) {
		t.Fatalf("update err=%v want malformed options error", err)
	}
}
