package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DeletionReport describes how far an analysis delete got.
type DeletionReport struct {
	AnalysisID    string   `json:"analysis_id"`
	Deleted       bool     `json:"deleted"`
	Completed     []string `json:"completed_steps"`
	Failed        string   `json:"failed_step,omitempty"`
	Error         string   `json:"error,omitempty"`
	StorageErrors []string `json:"storage_errors,omitempty"`
}

// ErrPartialDelete is returned together with a report when a step fails after
// earlier steps already removed data.
var ErrPartialDelete = errors.New("analysis delete stopped part way")

type deleteStep struct {
	name string
	run  func(ctx context.Context, analysisID string) (int64, error)
}

// DeleteAnalysis removes children leaf-first and the analysis last. Each step
// commits on its own; the first failing step stops the run and is reported.
// Storage objects are removed best-effort and never stop the run.
func (s *TDAService) DeleteAnalysis(ctx context.Context, userID, id string) (*DeletionReport, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	rep := &DeletionReport{AnalysisID: id, Completed: []string{}}
	log := s.logger().With(zap.String("analysis_id", id), zap.String("user_id", userID))

	shots, err := s.Repo.ListScreenshots(ctx, id)
	if err != nil {
		return s.failDelete(log, rep, "screenshot_objects", err)
	}
	if len(shots) > 0 && s.Storage != nil {
		paths := make([]string, 0, len(shots))
		for _, sh := range shots {
			paths = append(paths, sh.StoragePath)
		}
		if err := s.Storage.Remove(ctx, paths); err != nil {
			log.Warn("screenshot objects not removed", zap.Int("count", len(paths)), zap.Error(err))
			rep.StorageErrors = append(rep.StorageErrors, err.Error())
		}
	}
	rep.Completed = append(rep.Completed, "screenshot_objects")

	steps := []deleteStep{
		{"screenshots", s.Repo.DeleteScreenshotsByAnalysis},
		{"announcements", s.Repo.DeleteAnnouncementsByAnalysis},
		{"answers", s.Repo.DeleteAnswersByAnalysis},
		{"timeframe_analyses", s.Repo.DeleteTimeframeAnalysesByAnalysis},
		{"history", s.Repo.DeleteHistoryByAnalysis},
		{"analysis", func(ctx context.Context, analysisID string) (int64, error) {
			return s.Repo.DeleteAnalysis(ctx, userID, analysisID)
		}},
	}
	for _, step := range steps {
		n, err := step.run(ctx, id)
		if err != nil {
			return s.failDelete(log, rep, step.name, err)
		}
		log.Debug("delete step done", zap.String("step", step.name), zap.Int64("rows", n))
		rep.Completed = append(rep.Completed, step.name)
	}
	rep.Deleted = true
	log.Info("analysis deleted", zap.Int("storage_errors", len(rep.StorageErrors)))
	return rep, nil
}

func (s *TDAService) failDelete(log *zap.Logger, rep *DeletionReport, step string, err error) (*DeletionReport, error) {
	rep.Failed = step
	rep.Error = err.Error()
	log.Error("analysis delete stopped", zap.String("step", step), zap.Strings("completed", rep.Completed), zap.Error(err))
	return rep, fmt.Errorf("%w at %s: %v", ErrPartialDelete, step, err)
}
