package repository

import (
	"context"
	"errors"
	"time"

	"tradejournal/internal/models"
)

// ErrStale reports a guarded write whose row no longer matches the state
// the caller read.
var ErrStale = errors.New("repository: stale write")

// Owned rows are always addressed by (userID, id). A row that belongs to
// another user is reported exactly like a missing row: (nil, nil).

type ProfileRepository interface {
	EnsureProfile(ctx context.Context, item *models.Profile) (*models.Profile, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id string, updates map[string]any) error
	ListProfilesByFlag(ctx context.Context, column string) ([]models.Profile, error)
	SearchProfiles(ctx context.Context, params SearchProfilesParams) ([]models.Profile, error)
}

type TradeRepository interface {
	InsertTrade(ctx context.Context, item *models.Trade) error
	GetTrade(ctx context.Context, userID, id string) (*models.Trade, error)
	SaveTrade(ctx context.Context, item *models.Trade) error
	DeleteTrade(ctx context.Context, userID, id string) (int64, error)
	ListTrades(ctx context.Context, params ListTradesParams) ([]models.Trade, error)
	CountTrades(ctx context.Context, params ListTradesParams) (int64, error)
	ListAllTrades(ctx context.Context, userID string, from, to *time.Time) ([]models.Trade, error)
}

type AnalysisRepository interface {
	InsertAnalysis(ctx context.Context, item *models.Analysis, history *models.AnalysisHistory) error
	GetAnalysis(ctx context.Context, userID, id string) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, params ListAnalysesParams) ([]models.Analysis, error)
	CountAnalyses(ctx context.Context, params ListAnalysesParams) (int64, error)
	// SaveAnalysis persists item only while the stored status still equals
	// fromStatus, otherwise it returns ErrStale. When history is non-nil it is
	// appended in the same transaction.
	SaveAnalysis(ctx context.Context, item *models.Analysis, fromStatus string, history *models.AnalysisHistory) error
	ListAnalysisHistory(ctx context.Context, analysisID string) ([]models.AnalysisHistory, error)

	UpsertTimeframeAnalysis(ctx context.Context, item *models.TimeframeAnalysis) error
	ListTimeframeAnalyses(ctx context.Context, analysisID string) ([]models.TimeframeAnalysis, error)
	CountTimeframeAnalyses(ctx context.Context, analysisID string) (int64, error)

	UpsertAnswers(ctx context.Context, items []models.Answer) error
	ListAnswers(ctx context.Context, analysisID string, timeframe *string) ([]models.Answer, error)

	InsertScreenshot(ctx context.Context, item *models.Screenshot) error
	GetScreenshot(ctx context.Context, analysisID, id string) (*models.Screenshot, error)
	ListScreenshots(ctx context.Context, analysisID string) ([]models.Screenshot, error)
	DeleteScreenshot(ctx context.Context, analysisID, id string) (int64, error)

	InsertAnnouncement(ctx context.Context, item *models.Announcement) error
	ListAnnouncements(ctx context.Context, analysisID string) ([]models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, analysisID, id string) (int64, error)

	// Cascade steps, run one by one by the delete saga.
	DeleteScreenshotsByAnalysis(ctx context.Context, analysisID string) (int64, error)
	DeleteAnnouncementsByAnalysis(ctx context.Context, analysisID string) (int64, error)
	DeleteAnswersByAnalysis(ctx context.Context, analysisID string) (int64, error)
	DeleteTimeframeAnalysesByAnalysis(ctx context.Context, analysisID string) (int64, error)
	DeleteHistoryByAnalysis(ctx context.Context, analysisID string) (int64, error)
	DeleteAnalysis(ctx context.Context, userID, id string) (int64, error)
}

type QuestionRepository interface {
	ListQuestions(ctx context.Context, params ListQuestionsParams) ([]models.Question, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	ListQuestionsByIDs(ctx context.Context, ids []string) ([]models.Question, error)
	InsertQuestion(ctx context.Context, item *models.Question) error
	// ReplaceQuestion deactivates previousID and inserts next as its successor.
	ReplaceQuestion(ctx context.Context, previousID string, next *models.Question) error
	DeactivateQuestion(ctx context.Context, id string) (int64, error)
}

type MessageRepository interface {
	InsertMessage(ctx context.Context, item *models.Message) error
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
	ScanMessagesInvolving(ctx context.Context, userID string, batch int, fn func([]models.Message) error) error
	ListConversation(ctx context.Context, params ListConversationParams) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, receiverID, senderID string, at time.Time) (int64, error)
	SoftDeleteMessage(ctx context.Context, userID, id string) (int64, error)
}

// Repository is the full store used at wiring time.
type Repository interface {
	ProfileRepository
	TradeRepository
	AnalysisRepository
	QuestionRepository
	MessageRepository

	Ping(ctx context.Context) error
}

type SearchProfilesParams struct {
	Query     string
	ExcludeID string
	Limit     int
}

type ListTradesParams struct {
	UserID       string
	Limit        int
	Offset       int
	From         *time.Time
	To           *time.Time
	Status       *string
	CurrencyPair *string
	OrderBy      string
	Asc          *bool
}

type ListAnalysesParams struct {
	UserID       string
	Limit        int
	Offset       int
	Status       *string
	CurrencyPair *string
	OrderBy      string
	Asc          *bool
}

type ListQuestionsParams struct {
	Timeframe       *string
	IncludeInactive bool
}

type ListConversationParams struct {
	UserID       string
	Counterparty string
	Limit        int
	Offset       int
}
