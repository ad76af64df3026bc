package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradejournal/internal/metrics"
	"tradejournal/internal/models"
	"tradejournal/internal/report"
	"tradejournal/internal/repository"
	"tradejournal/internal/tda"
)

type TDARepository interface {
	repository.AnalysisRepository
	repository.QuestionRepository
}

// TDAService owns analyses and everything hanging off them.
type TDAService struct {
	Repo      TDARepository
	Storage   ObjectStore
	Market    MarketData
	LLM       Completer
	Mailer    Mailer
	Sanitizer *report.Sanitizer
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	MaxUploadBytes int64
	Now            func() time.Time
}

// AnalysisDetail is an analysis with all of its child records.
type AnalysisDetail struct {
	Analysis      models.Analysis            `json:"analysis"`
	Timeframes    []models.TimeframeAnalysis `json:"timeframe_analyses"`
	Answers       []AnswerView               `json:"answers"`
	Screenshots   []models.Screenshot        `json:"screenshots"`
	Announcements []models.Announcement      `json:"announcements"`
}

type AnswerView struct {
	ID         string          `json:"id"`
	QuestionID string          `json:"question_id"`
	Timeframe  string          `json:"timeframe"`
	Type       string          `json:"type"`
	Value      tda.AnswerValue `json:"value"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (s *TDAService) now() time.Time {
	return clock(s.Now).now()
}

func (s *TDAService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *TDAService) CreateAnalysis(ctx context.Context, userID, pair string) (*models.Analysis, error) {
	pair = NormalizePair(pair)
	if pair == "" {
		return nil, invalid("currency_pair is required")
	}
	item := &models.Analysis{
		UserID:             userID,
		CurrencyPair:       pair,
		Status:             models.AnalysisStatusDraft,
		OverallProbability: tda.DefaultScore,
		ConfidenceLevel:    tda.DefaultScore,
	}
	history := &models.AnalysisHistory{UserID: userID, Action: "created", ToStatus: models.AnalysisStatusDraft}
	if err := s.Repo.InsertAnalysis(ctx, item, history); err != nil {
		return nil, err
	}
	return item, nil
}

type AnalysisFilter struct {
	Status       *string
	CurrencyPair *string
	Limit        int
	Offset       int
}

func (s *TDAService) ListAnalyses(ctx context.Context, userID string, f AnalysisFilter) ([]models.Analysis, int64, error) {
	params := repository.ListAnalysesParams{
		UserID:       userID,
		Limit:        f.Limit,
		Offset:       f.Offset,
		Status:       upperPtr(f.Status),
		CurrencyPair: pairPtr(f.CurrencyPair),
		OrderBy:      "created_at",
	}
	items, err := s.Repo.ListAnalyses(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountAnalyses(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// owned loads an analysis through the ownership gate. Foreign and missing
// rows are both ErrNotFound.
func (s *TDAService) owned(ctx context.Context, userID, id string) (*models.Analysis, error) {
	item, err := s.Repo.GetAnalysis(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, notFound("analysis")
	}
	if err := checkRow(item); err != nil {
		s.logger().Error("analysis row failed validation", zap.String("analysis_id", id), zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (s *TDAService) ownedDraft(ctx context.Context, userID, id string) (*models.Analysis, error) {
	item, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item.Status != models.AnalysisStatusDraft {
		return nil, conflict("analysis is %s and can no longer be edited", item.Status)
	}
	return item, nil
}

func (s *TDAService) GetAnalysis(ctx context.Context, userID, id string) (*AnalysisDetail, error) {
	item, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tfs, err := s.Repo.ListTimeframeAnalyses(ctx, id)
	if err != nil {
		return nil, err
	}
	answers, err := s.listAnswerViews(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	shots, err := s.Repo.ListScreenshots(ctx, id)
	if err != nil {
		return nil, err
	}
	anns, err := s.Repo.ListAnnouncements(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AnalysisDetail{
		Analysis:      *item,
		Timeframes:    tfs,
		Answers:       answers,
		Screenshots:   shots,
		Announcements: anns,
	}, nil
}

// AnalysisUpdate is a partial edit. Status drives the lifecycle; the other
// fields are only accepted while the analysis is a draft.
type AnalysisUpdate struct {
	Status              *string          `json:"status"`
	OverallProbability  *float64         `json:"overall_probability"`
	ConfidenceLevel     *float64         `json:"confidence_level"`
	TradeRecommendation *string          `json:"trade_recommendation"`
	RiskLevel           *string          `json:"risk_level"`
	Summary             *string          `json:"summary"`
	Reasoning           *string          `json:"reasoning"`
	AnalysisData        *json.RawMessage `json:"analysis_data"`
}

func (u AnalysisUpdate) editsContent() bool {
	return u.OverallProbability != nil || u.ConfidenceLevel != nil || u.TradeRecommendation != nil ||
		u.RiskLevel != nil || u.Summary != nil || u.Reasoning != nil || u.AnalysisData != nil
}

var transitions = map[string]map[string]bool{
	models.AnalysisStatusDraft:     {models.AnalysisStatusCompleted: true, models.AnalysisStatusArchived: true},
	models.AnalysisStatusCompleted: {models.AnalysisStatusArchived: true},
}

func (s *TDAService) UpdateAnalysis(ctx context.Context, userID, id string, in AnalysisUpdate) (*models.Analysis, error) {
	item, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	from := item.Status
	if in.editsContent() {
		if from != models.AnalysisStatusDraft {
			return nil, conflict("analysis is %s and can no longer be edited", from)
		}
		if err := applyAnalysisEdits(item, in); err != nil {
			return nil, err
		}
	}

	var history *models.AnalysisHistory
	if in.Status != nil {
		to := strings.ToUpper(strings.TrimSpace(*in.Status))
		if to != from {
			if !transitions[from][to] {
				return nil, conflict("cannot move analysis from %s to %s", from, to)
			}
			if to == models.AnalysisStatusCompleted {
				n, err := s.Repo.CountTimeframeAnalyses(ctx, id)
				if err != nil {
					return nil, err
				}
				if n == 0 {
					return nil, conflict("analysis needs at least one timeframe before completion")
				}
			}
			now := s.now()
			switch to {
			case models.AnalysisStatusCompleted:
				item.CompletedAt = &now
			case models.AnalysisStatusArchived:
				item.ArchivedAt = &now
			}
			item.Status = to
			history = &models.AnalysisHistory{UserID: userID, Action: "status_changed", FromStatus: from, ToStatus: to}
		}
	}
	if history == nil && in.editsContent() {
		history = &models.AnalysisHistory{UserID: userID, Action: "updated", FromStatus: from, ToStatus: item.Status}
	}
	if history == nil {
		return item, nil
	}
	if err := s.save(ctx, item, from, history); err != nil {
		return nil, err
	}
	s.logger().Info("analysis updated",
		zap.String("analysis_id", id),
		zap.String("action", history.Action),
		zap.String("status", item.Status))
	return item, nil
}

// save writes item only if nobody moved it out of from since it was read.
func (s *TDAService) save(ctx context.Context, item *models.Analysis, from string, history *models.AnalysisHistory) error {
	err := s.Repo.SaveAnalysis(ctx, item, from, history)
	if errors.Is(err, repository.ErrStale) {
		return conflict("analysis changed while saving; reload and retry")
	}
	return err
}

func applyAnalysisEdits(item *models.Analysis, in AnalysisUpdate) error {
	if in.OverallProbability != nil {
		item.OverallProbability = tda.Clamp(*in.OverallProbability)
	}
	if in.ConfidenceLevel != nil {
		item.ConfidenceLevel = tda.Clamp(*in.ConfidenceLevel)
	}
	if in.TradeRecommendation != nil {
		rec, ok := tda.NormalizeRecommendation(*in.TradeRecommendation)
		if !ok {
			return invalid("trade_recommendation must be LONG, SHORT, NEUTRAL or AVOID")
		}
		item.TradeRecommendation = rec
	}
	if in.RiskLevel != nil {
		risk := strings.ToUpper(strings.TrimSpace(*in.RiskLevel))
		switch risk {
		case "", models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh:
		default:
			return invalid("risk_level must be LOW, MEDIUM or HIGH")
		}
		item.RiskLevel = risk
	}
	if in.Summary != nil {
		item.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.Reasoning != nil {
		item.Reasoning = strings.TrimSpace(*in.Reasoning)
	}
	if in.AnalysisData != nil {
		if !json.Valid(*in.AnalysisData) {
			return invalid("analysis_data must be valid JSON")
		}
		item.AnalysisData = datatypes.JSON(*in.AnalysisData)
	}
	return nil
}

func (s *TDAService) History(ctx context.Context, userID, id string) ([]models.AnalysisHistory, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.Repo.ListAnalysisHistory(ctx, id)
}

type TimeframeInput struct {
	Sentiment   *string          `json:"sentiment"`
	Probability *float64         `json:"probability"`
	Strength    *float64         `json:"strength"`
	Notes       *string          `json:"notes"`
	Data        *json.RawMessage `json:"data"`
}

// UpsertTimeframe writes the verdict for one timeframe. A missing sentiment is
// voted from the directional answers already recorded for that timeframe.
func (s *TDAService) UpsertTimeframe(ctx context.Context, userID, id, timeframe string, in TimeframeInput) (*models.TimeframeAnalysis, error) {
	tf, ok := tda.NormalizeTimeframe(timeframe)
	if !ok {
		return nil, invalid("unknown timeframe %q", timeframe)
	}
	if _, err := s.ownedDraft(ctx, userID, id); err != nil {
		return nil, err
	}
	item := &models.TimeframeAnalysis{
		AnalysisID:  id,
		Timeframe:   tf,
		Probability: tda.DefaultScore,
		Strength:    tda.DefaultScore,
	}
	if in.Sentiment != nil && strings.TrimSpace(*in.Sentiment) != "" {
		sentiment, ok := tda.NormalizeSentiment(*in.Sentiment)
		if !ok {
			return nil, invalid("sentiment must be BULLISH, BEARISH or NEUTRAL")
		}
		item.Sentiment = sentiment
	} else {
		voted, err := s.voteTimeframe(ctx, id, tf)
		if err != nil {
			return nil, err
		}
		item.Sentiment = voted
	}
	if in.Probability != nil {
		item.Probability = tda.Clamp(*in.Probability)
	}
	if in.Strength != nil {
		item.Strength = tda.Clamp(*in.Strength)
	}
	if in.Notes != nil {
		item.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Data != nil {
		if !json.Valid(*in.Data) {
			return nil, invalid("data must be valid JSON")
		}
		item.Data = datatypes.JSON(*in.Data)
	}
	if err := s.Repo.UpsertTimeframeAnalysis(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TDAService) voteTimeframe(ctx context.Context, analysisID, tf string) (string, error) {
	answers, err := s.Repo.ListAnswers(ctx, analysisID, &tf)
	if err != nil {
		return "", err
	}
	if len(answers) == 0 {
		return tda.Neutral, nil
	}
	ids := make([]string, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.QuestionID)
	}
	questions, err := s.Repo.ListQuestionsByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	directional := make(map[string]bool, len(questions))
	for _, q := range questions {
		directional[q.ID] = q.Directional
	}
	votes := make([]string, 0, len(answers))
	for _, a := range answers {
		if !directional[a.QuestionID] {
			continue
		}
		v, err := tda.DecodeAnswer(a.Value)
		if err != nil {
			s.logger().Warn("skip undecodable answer", zap.String("answer_id", a.ID), zap.Error(err))
			continue
		}
		votes = append(votes, tda.Direction(v))
	}
	return tda.MajorityVote(votes), nil
}

type AnswerInput struct {
	QuestionID string          `json:"question_id" binding:"required"`
	Value      json.RawMessage `json:"value"`
}

// UpsertAnswers validates every value against its question before anything is
// written; one bad answer rejects the batch.
func (s *TDAService) UpsertAnswers(ctx context.Context, userID, id string, in []AnswerInput) ([]AnswerView, error) {
	if len(in) == 0 {
		return nil, invalid("answers are required")
	}
	if _, err := s.ownedDraft(ctx, userID, id); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(in))
	for _, a := range in {
		if strings.TrimSpace(a.QuestionID) == "" {
			return nil, invalid("question_id is required")
		}
		ids = append(ids, a.QuestionID)
	}
	questions, err := s.Repo.ListQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	rows := make([]models.Answer, 0, len(in))
	seen := map[string]int{}
	for _, a := range in {
		q, ok := byID[a.QuestionID]
		if !ok || !q.Active {
			return nil, invalid("question %s does not exist or is inactive", a.QuestionID)
		}
		spec, err := questionSpec(q)
		if err != nil {
			s.logger().Error("question row unreadable", zap.String("question_id", q.ID), zap.Error(err))
			return nil, err
		}
		value, err := tda.ParseAnswer(spec, a.Value)
		if err != nil {
			return nil, invalid("question %s: %v", a.QuestionID, err)
		}
		raw, err := tda.EncodeAnswer(value)
		if err != nil {
			return nil, err
		}
		row := models.Answer{
			AnalysisID: id,
			QuestionID: q.ID,
			Timeframe:  q.Timeframe,
			ValueType:  value.Kind(),
			Value:      datatypes.JSON(raw),
		}
		// last write wins for duplicates inside one request
		if i, dup := seen[q.ID]; dup {
			rows[i] = row
			continue
		}
		seen[q.ID] = len(rows)
		rows = append(rows, row)
	}
	if err := s.Repo.UpsertAnswers(ctx, rows); err != nil {
		return nil, err
	}
	return s.listAnswerViews(ctx, id, nil)
}

func (s *TDAService) ListAnswers(ctx context.Context, userID, id string, timeframe *string) ([]AnswerView, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if timeframe != nil {
		tf, ok := tda.NormalizeTimeframe(*timeframe)
		if !ok {
			return nil, invalid("unknown timeframe %q", *timeframe)
		}
		timeframe = &tf
	}
	return s.listAnswerViews(ctx, id, timeframe)
}

func (s *TDAService) listAnswerViews(ctx context.Context, id string, timeframe *string) ([]AnswerView, error) {
	rows, err := s.Repo.ListAnswers(ctx, id, timeframe)
	if err != nil {
		return nil, err
	}
	out := make([]AnswerView, 0, len(rows))
	for _, r := range rows {
		v, err := tda.DecodeAnswer(r.Value)
		if err != nil {
			s.logger().Warn("skip undecodable answer", zap.String("answer_id", r.ID), zap.Error(err))
			continue
		}
		out = append(out, AnswerView{
			ID:         r.ID,
			QuestionID: r.QuestionID,
			Timeframe:  r.Timeframe,
			Type:       v.Kind(),
			Value:      v,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return out, nil
}

func questionSpec(q models.Question) (tda.QuestionSpec, error) {
	spec := tda.QuestionSpec{Type: q.Type}
	if len(q.Options) > 0 {
		if err := json.Unmarshal(q.Options, &spec.Options); err != nil {
			return spec, fmt.Errorf("malformed options on question %s: %w", q.ID, err)
		}
	}
	return spec, nil
}
