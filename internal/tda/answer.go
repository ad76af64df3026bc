package tda

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	KindText          = "TEXT"
	KindChoice        = "MULTIPLE_CHOICE"
	KindRating        = "RATING"
	KindBoolean       = "BOOLEAN"
	KindAnnouncements = "ANNOUNCEMENTS"

	RatingMin = 1
	RatingMax = 5
)

var ErrInvalidAnswer = errors.New("invalid answer")

// AnswerValue is the closed set of answer shapes, one per question type.
type AnswerValue interface {
	Kind() string
	isAnswerValue()
}

type TextAnswer struct {
	Text string `json:"text"`
}

type ChoiceAnswer struct {
	Choice string `json:"choice"`
}

type RatingAnswer struct {
	Rating int `json:"rating"`
}

type BooleanAnswer struct {
	Value bool `json:"value"`
}

type AnnouncementsAnswer struct {
	Items []string `json:"items"`
}

func (TextAnswer) Kind() string          { return KindText }
func (ChoiceAnswer) Kind() string        { return KindChoice }
func (RatingAnswer) Kind() string        { return KindRating }
func (BooleanAnswer) Kind() string       { return KindBoolean }
func (AnnouncementsAnswer) Kind() string { return KindAnnouncements }

func (TextAnswer) isAnswerValue()          {}
func (ChoiceAnswer) isAnswerValue()        {}
func (RatingAnswer) isAnswerValue()        {}
func (BooleanAnswer) isAnswerValue()       {}
func (AnnouncementsAnswer) isAnswerValue() {}

// QuestionSpec is what answer validation needs to know about a question.
type QuestionSpec struct {
	Type    string
	Options []string
}

// ParseAnswer decodes a raw client value against the question's type.
// Text and choice accept a JSON string, rating an integer within
// [RatingMin, RatingMax], boolean a JSON bool and announcements a list of strings.
func ParseAnswer(q QuestionSpec, raw json.RawMessage) (AnswerValue, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidAnswer)
	}
	switch q.Type {
	case KindText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: text answer must be a string", ErrInvalidAnswer)
		}
		return TextAnswer{Text: strings.TrimSpace(s)}, nil
	case KindChoice:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: choice answer must be a string", ErrInvalidAnswer)
		}
		s = strings.TrimSpace(s)
		if len(q.Options) > 0 && !containsFold(q.Options, s) {
			return nil, fmt.Errorf("%w: %q is not one of the options", ErrInvalidAnswer, s)
		}
		return ChoiceAnswer{Choice: s}, nil
	case KindRating:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil || n != float64(int(n)) {
			return nil, fmt.Errorf("%w: rating must be an integer", ErrInvalidAnswer)
		}
		if int(n) < RatingMin || int(n) > RatingMax {
			return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidAnswer, RatingMin, RatingMax)
		}
		return RatingAnswer{Rating: int(n)}, nil
	case KindBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%w: boolean answer must be true or false", ErrInvalidAnswer)
		}
		return BooleanAnswer{Value: b}, nil
	case KindAnnouncements:
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: announcements answer must be a list of strings", ErrInvalidAnswer)
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if v := strings.TrimSpace(it); v != "" {
				out = append(out, v)
			}
		}
		return AnnouncementsAnswer{Items: out}, nil
	default:
		return nil, fmt.Errorf("%w: unknown question type %q", ErrInvalidAnswer, q.Type)
	}
}

type envelope struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// EncodeAnswer stores v as {"kind": ..., "value": ...}.
func EncodeAnswer(v AnswerValue) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil answer", ErrInvalidAnswer)
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: v.Kind(), Value: body})
}

func DecodeAnswer(raw []byte) (AnswerValue, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}
	var (
		out AnswerValue
		err error
	)
	switch env.Kind {
	case KindText:
		var v TextAnswer
		err = json.Unmarshal(env.Value, &v)
		out = v
	case KindChoice:
		var v ChoiceAnswer
		err = json.Unmarshal(env.Value, &v)
		out = v
	case KindRating:
		var v RatingAnswer
		err = json.Unmarshal(env.Value, &v)
		out = v
	case KindBoolean:
		var v BooleanAnswer
		err = json.Unmarshal(env.Value, &v)
		out = v
	case KindAnnouncements:
		var v AnnouncementsAnswer
		err = json.Unmarshal(env.Value, &v)
		out = v
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAnswer, env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}
	return out, nil
}

func containsFold(items []string, v string) bool {
	for _, it := range items {
		if strings.EqualFold(strings.TrimSpace(it), v) {
			return true
		}
	}
	return false
}
