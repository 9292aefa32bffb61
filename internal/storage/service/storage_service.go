package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/storage/models"
	"github.com/studcheck/plagiarism-checker/internal/storage/repository"
)

type StorageService interface {
	Store(ctx context.Context, fileName string, content []byte, submitterName, assignmentName string) (*models.Work, error)
	Fetch(ctx context.Context, workID string) ([]byte, *models.Work, error)
}

type storageService struct {
	workRepo repository.WorkRepository
	blobs    repository.BlobStorage
	logger   zerolog.Logger
}

func NewStorageService(workRepo repository.WorkRepository, blobs repository.BlobStorage, logger zerolog.Logger) StorageService {
	return &storageService{
		workRepo: workRepo,
		blobs:    blobs,
		logger:   logger,
	}
}

func (s *storageService) Store(ctx context.Context, fileName string, content []byte, submitterName, assignmentName string) (*models.Work, error) {
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}

	// Ключ не зависит от исходного имени файла, сохраняем только расширение.
	key := uuid.New().String() + strings.ToLower(filepath.Ext(fileName))

	// Сначала пишем байты, запись в БД только после успешной записи блоба.
	if err := s.blobs.Put(ctx, key, content); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	work := &models.Work{
		ID:             uuid.New().String(),
		SubmitterName:  submitterName,
		AssignmentName: assignmentName,
		StoragePath:    key,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.workRepo.Create(ctx, work); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Error().Err(delErr).Str("key", key).Msg("Failed to clean up blob after metadata failure")
		}
		return nil, fmt.Errorf("failed to save work: %w", err)
	}

	s.logger.Info().
		Str("work_id", work.ID).
		Str("submitter", submitterName).
		Str("assignment", assignmentName).
		Str("storage_path", key).
		Int("size", len(content)).
		Msg("Work stored")

	return work, nil
}

func (s *storageService) Fetch(ctx context.Context, workID string) ([]byte, *models.Work, error) {
	work, err := s.workRepo.GetByID(ctx, workID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get work: %w", err)
	}
	if work == nil {
		return nil, nil, ErrWorkNotFound
	}

	content, err := s.blobs.Get(ctx, work.StoragePath)
	if err != nil {
		if errors.Is(err, repository.ErrBlobNotFound) {
			return nil, nil, fmt.Errorf("%w: missing file %s", ErrWorkNotFound, work.StoragePath)
		}
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	return content, work, nil
}
