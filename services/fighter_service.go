package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/repositories"
	"github.com/almasbek/fightcard/storage"
)

type FighterService interface {
	Create(ctx context.Context, fighter *models.Fighter) (*models.Fighter, error)
	GetByID(ctx context.Context, id int) (*models.Fighter, error)
	List(ctx context.Context, search *string, limit, offset int) ([]*models.Fighter, error)
	Update(ctx context.Context, fighter *models.Fighter) (*models.Fighter, error)
	UploadPhoto(ctx context.Context, fighterID int, contentType string, file io.Reader) (string, error)
	Delete(ctx context.Context, id int) error
}

type fighterService struct {
	fighterRepo repositories.FighterRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewFighterService(fighterRepo repositories.FighterRepository, uploader storage.FileUploader, logger *slog.Logger) FighterService {
	return &fighterService{
		fighterRepo: fighterRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *fighterService) Create(ctx context.Context, fighter *models.Fighter) (*models.Fighter, error) {
	if fighter.Name == "" {
		return nil, fmt.Errorf("%w: fighter name is required", ErrValidationFailed)
	}
	if err := s.fighterRepo.Create(ctx, fighter); err != nil {
		return nil, err
	}
	return fighter, nil
}

func (s *fighterService) GetByID(ctx context.Context, id int) (*models.Fighter, error) {
	fighter, err := s.fighterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFighterNotFound) {
			return nil, ErrFighterNotFound
		}
		return nil, err
	}
	return fighter, nil
}

func (s *fighterService) List(ctx context.Context, search *string, limit, offset int) ([]*models.Fighter, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.fighterRepo.List(ctx, search, limit, offset)
}

func (s *fighterService) Update(ctx context.Context, fighter *models.Fighter) (*models.Fighter, error) {
	if fighter.Name == "" {
		return nil, fmt.Errorf("%w: fighter name is required", ErrValidationFailed)
	}
	if err := s.fighterRepo.Update(ctx, fighter); err != nil {
		if errors.Is(err, repositories.ErrFighterNotFound) {
			return nil, ErrFighterNotFound
		}
		return nil, err
	}
	return s.fighterRepo.GetByID(ctx, fighter.ID)
}

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadPhoto stores the image in object storage under a per-fighter key and
// saves the public URL. Re-uploading overwrites the previous photo because
// the key is derived from the fighter id, not the file name.
func (s *fighterService) UploadPhoto(ctx context.Context, fighterID int, contentType string, file io.Reader) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("%w: photo storage is not configured", ErrValidationFailed)
	}
	fighter, err := s.GetByID(ctx, fighterID)
	if err != nil {
		return "", err
	}

	ext, ok := photoExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported photo content type %q", ErrValidationFailed, contentType)
	}

	key := path.Join("fighters", fmt.Sprintf("%d%s", fighter.ID, ext))
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload fighter photo: %w", err)
	}

	photoURL := result.Location
	if err := s.fighterRepo.UpdatePhotoURL(ctx, fighter.ID, &photoURL); err != nil {
		return "", err
	}

	s.logger.Info("fighter photo uploaded",
		slog.Int("fighter_id", fighter.ID),
		slog.String("key", result.Key),
		slog.Time("at", time.Now().UTC()),
	)
	return photoURL, nil
}

func (s *fighterService) Delete(ctx context.Context, id int) error {
	if err := s.fighterRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrFighterNotFound) {
			return ErrFighterNotFound
		}
		return err
	}
	return nil
}
