package service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

const (
	maxMessageRunes   = 4000
	conversationBatch = 500
)

type MessagingRepository interface {
	repository.MessageRepository
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	SearchProfiles(ctx context.Context, params repository.SearchProfilesParams) ([]models.Profile, error)
}

type MessageService struct {
	Repo   MessagingRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *MessageService) Send(ctx context.Context, senderID, receiverID, content string) (*models.Message, error) {
	receiverID = strings.TrimSpace(receiverID)
	content = strings.TrimSpace(content)
	switch {
	case receiverID == "":
		return nil, invalid("receiver_id is required")
	case receiverID == senderID:
		return nil, invalid("cannot send a message to yourself")
	case content == "":
		return nil, invalid("content is required")
	case utf8.RuneCountInString(content) > maxMessageRunes:
		return nil, invalid("content exceeds %d characters", maxMessageRunes)
	}
	receiver, err := s.Repo.GetProfile(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, notFound("receiver")
	}
	item := &models.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if err := s.Repo.InsertMessage(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnread(ctx, userID)
}

type Conversation struct {
	UserID      string         `json:"user_id"`
	DisplayName string         `json:"display_name"`
	LastMessage models.Message `json:"last_message"`
	UnreadCount int            `json:"unread_count"`
}

// ListConversations groups every message the caller can see by counterpart.
// Rows arrive in batches of no particular time order, so the latest message
// per counterpart is picked by timestamp.
func (s *MessageService) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	index := map[string]int{}
	out := make([]Conversation, 0)
	err := s.Repo.ScanMessagesInvolving(ctx, userID, conversationBatch, func(batch []models.Message) error {
		for _, m := range batch {
			other := m.SenderID
			if other == userID {
				other = m.ReceiverID
			}
			i, ok := index[other]
			if !ok {
				i = len(out)
				index[other] = i
				out = append(out, Conversation{UserID: other, LastMessage: m})
			} else if newer(m, out[i].LastMessage) {
				out[i].LastMessage = m
			}
			if m.ReceiverID == userID && !m.IsRead {
				out[i].UnreadCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].LastMessage, out[j].LastMessage) })
	for i := range out {
		p, err := s.Repo.GetProfile(ctx, out[i].UserID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out[i].DisplayName = p.DisplayName
		}
	}
	return out, nil
}

func newer(a, b models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// GetConversation only reads; marking as read is MarkConversationRead.
func (s *MessageService) GetConversation(ctx context.Context, userID, counterpart string, limit, offset int) ([]models.Message, error) {
	if strings.TrimSpace(counterpart) == "" {
		return nil, invalid("user id is required")
	}
	return s.Repo.ListConversation(ctx, repository.ListConversationParams{
		UserID:       userID,
		Counterparty: counterpart,
		Limit:        limit,
		Offset:       offset,
	})
}

func (s *MessageService) MarkConversationRead(ctx context.Context, userID, counterpart string) (int64, error) {
	if strings.TrimSpace(counterpart) == "" {
		return 0, invalid("user id is required")
	}
	return s.Repo.MarkConversationRead(ctx, userID, counterpart, clock(s.Now).now())
}

func (s *MessageService) Delete(ctx context.Context, userID, id string) error {
	n, err := s.Repo.SoftDeleteMessage(ctx, userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("message")
	}
	return nil
}

type UserHit struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (s *MessageService) SearchUsers(ctx context.Context, userID, q string, limit int) ([]UserHit, error) {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		return []UserHit{}, nil
	}
	items, err := s.Repo.SearchProfiles(ctx, repository.SearchProfilesParams{Query: q, ExcludeID: userID, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]UserHit, 0, len(items))
	for _, p := range items {
		out = append(out, UserHit{ID: p.ID, DisplayName: p.DisplayName})
	}
	return out, nil
}
