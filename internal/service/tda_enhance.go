package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tradejournal/internal/email"
	"tradejournal/internal/llm"
	"tradejournal/internal/models"
	"tradejournal/internal/tda"
)

// EnhancementResult is what an enhance run computed. Applied tells whether the
// metrics were written back to the analysis.
type EnhancementResult struct {
	AnalysisID      string            `json:"analysis_id"`
	UpdatedMetrics  tda.Metrics       `json:"updatedMetrics"`
	Reasoning       map[string]string `json:"reasoning"`
	ReasoningSource string            `json:"reasoning_source"`
	Applied         bool              `json:"applied"`
}

const reasoningSystemPrompt = `You are a forex analyst reviewing a top-down analysis.
Reply with a JSON object whose keys are timeframe codes and whose values are one
short paragraph of reasoning for that timeframe. No other text.`

// EnhanceAnalysis adjusts the stored metrics with the latest daily bar and
// writes per-timeframe reasoning. Without market data the stored metrics are
// returned as they are.
func (s *TDAService) EnhanceAnalysis(ctx context.Context, userID, id string, apply bool) (*EnhancementResult, error) {
	item, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tfs, err := s.Repo.ListTimeframeAnalyses(ctx, id)
	if err != nil {
		return nil, err
	}
	log := s.logger().With(zap.String("analysis_id", id), zap.String("pair", item.CurrencyPair))

	var signal *tda.MarketSignal
	if s.Market != nil {
		bar, err := s.Market.PreviousClose(ctx, item.CurrencyPair)
		if err != nil {
			s.Metrics.MarketDataFailure()
			log.Warn("market data unavailable, using stored metrics", zap.Error(err))
		} else {
			sig := tda.NewMarketSignal(bar.Open, bar.High, bar.Low, bar.Close)
			signal = &sig
		}
	}

	sentiments := make([]string, 0, len(tfs))
	inputs := make([]tda.TimeframeInput, 0, len(tfs))
	for _, tf := range tfs {
		sentiments = append(sentiments, tf.Sentiment)
		inputs = append(inputs, tda.TimeframeInput{
			Timeframe:   tf.Timeframe,
			Sentiment:   tf.Sentiment,
			Probability: tf.Probability,
			Strength:    tf.Strength,
			Notes:       tf.Notes,
		})
	}
	metrics := tda.Enhance(tda.Baseline{
		Probability:    item.OverallProbability,
		Confidence:     item.ConfidenceLevel,
		RiskLevel:      item.RiskLevel,
		Recommendation: item.TradeRecommendation,
	}, sentiments, signal)

	reasoning, source := s.reasoning(ctx, log, item.CurrencyPair, inputs, signal)
	res := &EnhancementResult{
		AnalysisID:      id,
		UpdatedMetrics:  metrics,
		Reasoning:       reasoning,
		ReasoningSource: source,
	}

	if apply && item.Status == models.AnalysisStatusDraft {
		from := item.Status
		item.OverallProbability = metrics.Probability
		item.ConfidenceLevel = metrics.Confidence
		item.RiskLevel = metrics.RiskLevel
		item.TradeRecommendation = metrics.Recommendation
		item.Reasoning = joinReasoning(inputs, reasoning)
		details, _ := json.Marshal(map[string]any{
			"market_applied":         metrics.MarketApplied,
			"market_alignment_score": metrics.AlignmentScore,
			"reasoning_source":       source,
		})
		history := &models.AnalysisHistory{UserID: userID, Action: "enhanced", FromStatus: from, ToStatus: from, Details: details}
		if err := s.save(ctx, item, from, history); err != nil {
			return nil, err
		}
		res.Applied = true
	}
	return res, nil
}

// reasoning asks the LLM first and fills every timeframe it skipped from the
// template.
func (s *TDAService) reasoning(ctx context.Context, log *zap.Logger, pair string, inputs []tda.TimeframeInput, signal *tda.MarketSignal) (map[string]string, string) {
	out := make(map[string]string, len(inputs))
	source := "template"
	if len(inputs) > 0 && s.LLM != nil && s.LLM.Enabled() {
		prompt, err := reasoningPrompt(pair, inputs, signal)
		if err == nil {
			var raw string
			raw, err = s.LLM.Complete(ctx, reasoningSystemPrompt, prompt)
			if err == nil {
				parsed := llm.ParseReasoning(raw)
				for _, in := range inputs {
					if text := strings.TrimSpace(parsed[in.Timeframe]); text != "" {
						out[in.Timeframe] = text
					}
				}
				if len(out) > 0 {
					source = "llm"
				} else {
					err = fmt.Errorf("unusable completion")
				}
			}
		}
		if err != nil {
			s.Metrics.LLMFallback()
			log.Warn("llm reasoning failed, using template", zap.Error(err))
		}
	}
	for _, in := range inputs {
		if _, ok := out[in.Timeframe]; !ok {
			out[in.Timeframe] = tda.TemplateReasoning(pair, in, signal)
		}
	}
	return out, source
}

func reasoningPrompt(pair string, inputs []tda.TimeframeInput, signal *tda.MarketSignal) (string, error) {
	payload := map[string]any{"currency_pair": pair, "timeframes": inputs}
	if signal != nil {
		payload["market"] = signal
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return "Analysis:\n" + string(raw), nil
}

func joinReasoning(inputs []tda.TimeframeInput, reasoning map[string]string) string {
	parts := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if text := reasoning[in.Timeframe]; text != "" {
			parts = append(parts, in.Timeframe+": "+text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// EmailAnalysis sends the analysis summary to the caller.
func (s *TDAService) EmailAnalysis(ctx context.Context, userID, to, id string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", invalid("no email address on this account")
	}
	if s.Mailer == nil || s.Sanitizer == nil {
		return "", fmt.Errorf("email is not configured")
	}
	item, err := s.owned(ctx, userID, id)
	if err != nil {
		return "", err
	}
	tfs, err := s.Repo.ListTimeframeAnalyses(ctx, id)
	if err != nil {
		return "", err
	}
	html, err := s.Sanitizer.RenderAnalysis(*item, tfs)
	if err != nil {
		return "", err
	}
	msgID, err := s.Mailer.Send(ctx, email.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Top-down analysis: %s", item.CurrencyPair),
		HTML:    html,
	})
	if err != nil {
		s.Metrics.EmailFailed("analysis")
		return "", err
	}
	s.Metrics.EmailSent("analysis")
	return msgID, nil
}

type AuditReport struct {
	AnalysisID      string   `json:"analysis_id"`
	Status          string   `json:"status"`
	TimeframeCount  int64    `json:"timeframe_count"`
	AnswerCount     int      `json:"answer_count"`
	ScreenshotCount int      `json:"screenshot_count"`
	HistoryCount    int      `json:"history_count"`
	CanComplete     bool     `json:"can_complete"`
	MissingRequired []string `json:"missing_required_questions"`
	Problems        []string `json:"problems"`
}

// AuditAnalysis checks whether the completion prerequisites hold for a stored
// analysis. It changes nothing.
func (s *TDAService) AuditAnalysis(ctx context.Context, userID, id string) (*AuditReport, error) {
	item, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	rep := &AuditReport{AnalysisID: id, Status: item.Status, MissingRequired: []string{}, Problems: []string{}}
	if rep.TimeframeCount, err = s.Repo.CountTimeframeAnalyses(ctx, id); err != nil {
		return nil, err
	}
	answers, err := s.Repo.ListAnswers(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	rep.AnswerCount = len(answers)
	shots, err := s.Repo.ListScreenshots(ctx, id)
	if err != nil {
		return nil, err
	}
	rep.ScreenshotCount = len(shots)
	history, err := s.Repo.ListAnalysisHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	rep.HistoryCount = len(history)

	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = true
	}
	tfs, err := s.Repo.ListTimeframeAnalyses(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, tf := range tfs {
		tfName := tf.Timeframe
		questions, err := s.Repo.ListQuestions(ctx, questionsFor(tfName))
		if err != nil {
			return nil, err
		}
		for _, q := range questions {
			if q.Required && !answered[q.ID] {
				rep.MissingRequired = append(rep.MissingRequired, q.ID)
			}
		}
	}

	if rep.TimeframeCount == 0 {
		rep.Problems = append(rep.Problems, "no timeframe analyses")
	}
	if rep.AnswerCount == 0 {
		rep.Problems = append(rep.Problems, "no answers")
	}
	if len(rep.MissingRequired) > 0 {
		rep.Problems = append(rep.Problems, "required questions unanswered")
	}
	if item.Status == models.AnalysisStatusCompleted && item.CompletedAt == nil {
		rep.Problems = append(rep.Problems, "completed without completion time")
	}
	rep.CanComplete = item.Status == models.AnalysisStatusDraft && rep.TimeframeCount > 0
	return rep, nil
}
