package service

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradejournal/internal/models"
	"tradejournal/internal/tda"
)

const defaultMaxUpload = 10 << 20

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ScreenshotUpload struct {
	Timeframe string
	Caption   string
	Filename  string
	Body      []byte
}

// AddScreenshot stores the image object first and only then the row, so a row
// never points at a missing object.
func (s *TDAService) AddScreenshot(ctx context.Context, userID, id string, in ScreenshotUpload) (*models.Screenshot, error) {
	tf, ok := tda.NormalizeTimeframe(in.Timeframe)
	if !ok {
		return nil, invalid("unknown timeframe %q", in.Timeframe)
	}
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	if len(in.Body) == 0 {
		return nil, invalid("file is required")
	}
	if int64(len(in.Body)) > limit {
		return nil, invalid("file exceeds %d bytes", limit)
	}
	contentType := http.DetectContentType(in.Body)
	ext, ok := imageExt[contentType]
	if !ok {
		return nil, invalid("unsupported image type %s", contentType)
	}
	if _, err := s.ownedDraft(ctx, userID, id); err != nil {
		return nil, err
	}
	if s.Storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	objectPath := path.Join(userID, id, strings.ToLower(tf), uuid.NewString()+ext)
	if err := s.Storage.Upload(ctx, objectPath, contentType, in.Body); err != nil {
		return nil, fmt.Errorf("upload screenshot: %w", err)
	}
	item := &models.Screenshot{
		AnalysisID:  id,
		Timeframe:   tf,
		StoragePath: objectPath,
		URL:         s.Storage.PublicURL(objectPath),
		ContentType: contentType,
		SizeBytes:   int64(len(in.Body)),
		Caption:     strings.TrimSpace(in.Caption),
	}
	if err := s.Repo.InsertScreenshot(ctx, item); err != nil {
		if rmErr := s.Storage.Remove(ctx, []string{objectPath}); rmErr != nil {
			s.logger().Warn("orphaned screenshot object", zap.String("path", objectPath), zap.Error(rmErr))
		}
		return nil, err
	}
	return item, nil
}

func (s *TDAService) ListScreenshots(ctx context.Context, userID, id string) ([]models.Screenshot, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.Repo.ListScreenshots(ctx, id)
}

func (s *TDAService) DeleteScreenshot(ctx context.Context, userID, id, screenshotID string) error {
	if _, err := s.ownedDraft(ctx, userID, id); err != nil {
		return err
	}
	shot, err := s.Repo.GetScreenshot(ctx, id, screenshotID)
	if err != nil {
		return err
	}
	if shot == nil {
		return notFound("screenshot")
	}
	if _, err := s.Repo.DeleteScreenshot(ctx, id, screenshotID); err != nil {
		return err
	}
	if s.Storage != nil {
		if err := s.Storage.Remove(ctx, []string{shot.StoragePath}); err != nil {
			s.logger().Warn("remove screenshot object failed", zap.String("path", shot.StoragePath), zap.Error(err))
		}
	}
	return nil
}

type AnnouncementInput struct {
	Timeframe   string     `json:"timeframe" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Currency    string     `json:"currency"`
	Impact      string     `json:"impact"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Notes       string     `json:"notes"`
}

func (s *TDAService) AddAnnouncement(ctx context.Context, userID, id string, in AnnouncementInput) (*models.Announcement, error) {
	tf, ok := tda.NormalizeTimeframe(in.Timeframe)
	if !ok {
		return nil, invalid("unknown timeframe %q", in.Timeframe)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	impact := strings.ToUpper(strings.TrimSpace(in.Impact))
	switch impact {
	case "", "LOW", "MEDIUM", "HIGH":
	default:
		return nil, invalid("impact must be LOW, MEDIUM or HIGH")
	}
	if _, err := s.ownedDraft(ctx, userID, id); err != nil {
		return nil, err
	}
	item := &models.Announcement{
		AnalysisID:  id,
		Timeframe:   tf,
		Title:       title,
		Currency:    strings.ToUpper(strings.TrimSpace(in.Currency)),
		Impact:      impact,
		ScheduledAt: in.ScheduledAt,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if err := s.Repo.InsertAnnouncement(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TDAService) ListAnnouncements(ctx context.Context, userID, id string) ([]models.Announcement, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.Repo.ListAnnouncements(ctx, id)
}

func (s *TDAService) DeleteAnnouncement(ctx context.Context, userID, id, announcementID string) error {
	if _, err := s.ownedDraft(ctx, userID, id); err != nil {
		return err
	}
	n, err := s.Repo.DeleteAnnouncement(ctx, id, announcementID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("announcement")
	}
	return nil
}
