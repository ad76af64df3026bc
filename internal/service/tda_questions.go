package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
	"tradejournal/internal/tda"
)

type QuestionInput struct {
	Timeframe   *string   `json:"timeframe"`
	Text        *string   `json:"text"`
	Type        *string   `json:"type"`
	Options     *[]string `json:"options"`
	Directional *bool     `json:"directional"`
	Required    *bool     `json:"required"`
	OrderIndex  *int      `json:"order_index"`
}

func (s *TDAService) ListQuestions(ctx context.Context, timeframe *string) ([]models.Question, error) {
	params := repository.ListQuestionsParams{}
	if timeframe != nil && strings.TrimSpace(*timeframe) != "" {
		tf, ok := tda.NormalizeTimeframe(*timeframe)
		if !ok {
			return nil, invalid("unknown timeframe %q", *timeframe)
		}
		params.Timeframe = &tf
	}
	return s.Repo.ListQuestions(ctx, params)
}

func (s *TDAService) CreateQuestion(ctx context.Context, in QuestionInput) (*models.Question, error) {
	if in.Timeframe == nil || in.Text == nil || in.Type == nil {
		return nil, invalid("timeframe, text and type are required")
	}
	item := &models.Question{Version: 1, Active: true}
	if err := applyQuestionInput(item, in); err != nil {
		return nil, err
	}
	if err := s.Repo.InsertQuestion(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuestion never edits in place: the current row is deactivated and a
// new version takes its place, so stored answers keep their original prompt.
func (s *TDAService) UpdateQuestion(ctx context.Context, id string, in QuestionInput) (*models.Question, error) {
	prev, err := s.Repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, notFound("question")
	}
	if !prev.Active {
		return nil, conflict("question %s is not the current version", id)
	}
	next := &models.Question{
		Timeframe:   prev.Timeframe,
		Text:        prev.Text,
		Type:        prev.Type,
		Options:     prev.Options,
		Directional: prev.Directional,
		Required:    prev.Required,
		OrderIndex:  prev.OrderIndex,
		Version:     prev.Version + 1,
		ParentID:    &prev.ID,
		Active:      true,
	}
	if err := applyQuestionInput(next, in); err != nil {
		return nil, err
	}
	if err := s.Repo.ReplaceQuestion(ctx, prev.ID, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, conflict("question %s was changed concurrently", id)
		}
		return nil, err
	}
	s.logger().Info("question versioned", zap.String("previous_id", prev.ID), zap.String("id", next.ID), zap.Int("version", next.Version))
	return next, nil
}

func (s *TDAService) DeactivateQuestion(ctx context.Context, id string) error {
	n, err := s.Repo.DeactivateQuestion(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("question")
	}
	return nil
}

func applyQuestionInput(item *models.Question, in QuestionInput) error {
	if in.Timeframe != nil {
		tf, ok := tda.NormalizeTimeframe(*in.Timeframe)
		if !ok {
			return invalid("unknown timeframe %q", *in.Timeframe)
		}
		item.Timeframe = tf
	}
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return invalid("text is required")
		}
		item.Text = text
	}
	if in.Type != nil {
		typ := strings.ToUpper(strings.TrimSpace(*in.Type))
		switch typ {
		case models.QuestionTypeText, models.QuestionTypeChoice, models.QuestionTypeRating,
			models.QuestionTypeBoolean, models.QuestionTypeAnnouncements:
		default:
			return invalid("unknown question type %q", *in.Type)
		}
		item.Type = typ
	}
	if in.Options != nil {
		opts := cleanTags(*in.Options)
		raw, err := json.Marshal(opts)
		if err != nil {
			return err
		}
		item.Options = datatypes.JSON(raw)
	}
	if in.Directional != nil {
		item.Directional = *in.Directional
	}
	if in.Required != nil {
		item.Required = *in.Required
	}
	if in.OrderIndex != nil {
		item.OrderIndex = *in.OrderIndex
	}
	if item.Type != models.QuestionTypeChoice {
		return nil
	}
	spec, err := questionSpec(*item)
	if err != nil {
		return err
	}
	if len(spec.Options) == 0 {
		return invalid("multiple choice questions need options")
	}
	return nil
}

func questionsFor(tf string) repository.ListQuestionsParams {
	return repository.ListQuestionsParams{Timeframe: &tf}
}
