package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/analysis/events"
	"github.com/studcheck/plagiarism-checker/internal/analysis/models"
	"github.com/studcheck/plagiarism-checker/internal/analysis/repository"
	"github.com/studcheck/plagiarism-checker/internal/analysis/service/integration"
	"github.com/studcheck/plagiarism-checker/pkg/hash"
)

type AnalysisService interface {
	Analyze(ctx context.Context, workID string) (*models.Report, error)
	ListReports(ctx context.Context, workID string) ([]models.Report, error)
	WordCloudPNG(ctx context.Context, workID string) ([]byte, error)
}

type analysisService struct {
	reportRepo    repository.ReportRepository
	storageClient integration.StorageClient
	fingerprinter hash.Fingerprinter
	renderer      integration.WordCloudRenderer
	publisher     events.Publisher
	logger        zerolog.Logger
}

func NewAnalysisService(
	reportRepo repository.ReportRepository,
	storageClient integration.StorageClient,
	fingerprinter hash.Fingerprinter,
	renderer integration.WordCloudRenderer,
	publisher events.Publisher,
	logger zerolog.Logger,
) AnalysisService {
	return &analysisService{
		reportRepo:    reportRepo,
		storageClient: storageClient,
		fingerprinter: fingerprinter,
		renderer:      renderer,
		publisher:     publisher,
		logger:        logger,
	}
}

// Analyze fetches the work's bytes, fingerprints them and records whether an
// earlier report for a different work carries the same fingerprint. The
// first work analyzed with given content is never marked duplicate; only
// later ones are. The lookup and the insert are deliberately not serialized
// across requests.
func (s *analysisService) Analyze(ctx context.Context, workID string) (*models.Report, error) {
	content, err := s.storageClient.GetFileContent(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch work content: %w", err)
	}

	fingerprint, err := s.fingerprinter.Fingerprint(content)
	if err != nil {
		return nil, fmt.Errorf("failed to compute fingerprint: %w", err)
	}

	existing, err := s.reportRepo.GetByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to look up fingerprint: %w", err)
	}

	var detail *string
	duplicate := false
	for _, prior := range existing {
		if prior.WorkID != workID {
			duplicate = true
			d := fmt.Sprintf("duplicate content found in work %s", prior.WorkID)
			detail = &d
			break
		}
	}

	report := &models.Report{
		ID:            uuid.New().String(),
		WorkID:        workID,
		DuplicateFlag: duplicate,
		Fingerprint:   fingerprint,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	event := models.AnalysisCompletedEvent{
		WorkID:        report.WorkID,
		ReportID:      report.ID,
		DuplicateFlag: report.DuplicateFlag,
		Fingerprint:   report.Fingerprint,
		CompletedAt:   report.CreatedAt,
	}
	if err := s.publisher.PublishAnalysisCompleted(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("work_id", workID).Msg("Failed to publish analysis completed event")
	}

	s.logger.Info().
		Str("work_id", workID).
		Str("report_id", report.ID).
		Bool("duplicate", duplicate).
		Str("fingerprint", fingerprint).
		Msg("Analysis completed")

	return report, nil
}

func (s *analysisService) ListReports(ctx context.Context, workID string) ([]models.Report, error) {
	reports, err := s.reportRepo.GetByWorkID(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}

	return reports, nil
}

func (s *analysisService) WordCloudPNG(ctx context.Context, workID string) ([]byte, error) {
	content, err := s.storageClient.GetFileContent(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch work content: %w", err)
	}

	freqs := wordFrequencies(string(content))
	if len(freqs) == 0 {
		return nil, ErrNotEnoughWords
	}

	spec := wordCloudSpec(topWords(freqs, maxCloudWords))

	img, err := s.renderer.Render(ctx, spec)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("work_id", workID).
		Int("words", len(freqs)).
		Int("png_size", len(img)).
		Msg("Word cloud generated")

	return img, nil
}
