package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"github.com/airneis/airneis-api/internal/apperr"
	"github.com/airneis/airneis-api/internal/config"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
)

// MediaService stores uploaded files on disk under random filenames and
// tracks their metadata in the database. The two are kept in step: a
// failed row write removes the file it was describing.
type MediaService struct {
	mediaRepo repository.MediaRepository
	cfg       config.MediaConfig
	logger    *slog.Logger
}

func NewMediaService(mediaRepo repository.MediaRepository, cfg config.MediaConfig, logger *slog.Logger) *MediaService {
	return &MediaService{mediaRepo: mediaRepo, cfg: cfg, logger: logger}
}

type MediaPage struct {
	Media      []model.Media
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// storeFile validates the upload and writes it to the upload directory
// under a fresh random filename.
func (s *MediaService) storeFile(fh *multipart.FileHeader) (filename, contentType string, err error) {
	if fh.Size > model.MediaMaxSize {
		return "", "", apperr.BadRequest("File is too large, max size is %dMB", model.MediaMaxSize/(1024*1024))
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// Sniff the real content type instead of trusting the client header.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType = http.DetectContentType(head)
	if contentType == "application/octet-stream" {
		// Inconclusive sniff, fall back to what the client declared.
		contentType = fh.Header.Get("Content-Type")
	}
	if !slices.Contains(model.MediaAllowedTypes, contentType) {
		return "", "", apperr.BadRequest("File type %s is not allowed", contentType)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	filename = uuid.NewString()
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, filename))
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return "", "", fmt.Errorf("write upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("write upload file: %w", err)
	}
	return filename, contentType, nil
}

func (s *MediaService) removeFile(filename string) {
	if err := os.Remove(filepath.Join(s.cfg.UploadDir, filename)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove media file", "filename", filename, "error", err)
	}
}

func (s *MediaService) Create(ctx context.Context, fh *multipart.FileHeader) (*model.Media, error) {
	filename, contentType, err := s.storeFile(fh)
	if err != nil {
		return nil, err
	}

	media := &model.Media{
		Name:     fh.Filename,
		Filename: filename,
		Type:     contentType,
		Size:     fh.Size,
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		s.removeFile(filename)
		return nil, err
	}
	return media, nil
}

// Serve resolves a stored file by its random filename and returns the
// metadata row plus the on-disk path.
func (s *MediaService) Serve(ctx context.Context, filename string) (*model.Media, string, error) {
	media, err := s.mediaRepo.GetByFilename(ctx, filename)
	if err != nil {
		return nil, "", err
	}
	if media == nil {
		return nil, "", apperr.NotFound("Media with hash %s not found", filename)
	}
	return media, filepath.Join(s.cfg.UploadDir, media.Filename), nil
}

func (s *MediaService) FindAll(ctx context.Context, query dto.QueryMediaFilters) (*MediaPage, error) {
	var types []string
	if query.Type == "image" {
		types = model.MediaAllowedTypes
	}

	count, err := s.mediaRepo.Count(ctx, query.Search, types)
	if err != nil {
		return nil, err
	}
	offset, totalPages, err := paginate(count, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.List(ctx, query.Search, types, query.Limit, offset)
	if err != nil {
		return nil, err
	}
	if media == nil {
		media = []model.Media{}
	}
	return &MediaPage{
		Media:      media,
		Page:       pageOrDefault(query.Page),
		Limit:      query.Limit,
		Total:      count,
		TotalPages: totalPages,
	}, nil
}

func (s *MediaService) FindOne(ctx context.Context, id int64) (*model.Media, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, apperr.NotFound("Media with id %d not found", id)
	}
	return media, nil
}

func (s *MediaService) UpdateProperties(ctx context.Context, id int64, req dto.UpdateMediaRequest) (*model.Media, error) {
	media, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		media.Name = *req.Name
	}

	affected, err := s.mediaRepo.Update(ctx, media)
	if err != nil {
		return nil, err
	}
	if affected != 1 {
		return nil, apperr.Internal("Failed to update media with id %d", id)
	}
	return media, nil
}

// UpdateFile replaces the stored file of an existing media row.
func (s *MediaService) UpdateFile(ctx context.Context, id int64, fh *multipart.FileHeader) (*model.Media, error) {
	media, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	filename, contentType, err := s.storeFile(fh)
	if err != nil {
		return nil, err
	}

	oldFilename := media.Filename
	media.Name = fh.Filename
	media.Filename = filename
	media.Type = contentType
	media.Size = fh.Size

	affected, err := s.mediaRepo.Update(ctx, media)
	if err != nil {
		s.removeFile(filename)
		return nil, err
	}
	if affected != 1 {
		s.removeFile(filename)
		return nil, apperr.Internal("Failed to update media with id %d", id)
	}

	s.removeFile(oldFilename)
	return media, nil
}

func (s *MediaService) Remove(ctx context.Context, id int64) error {
	media, err := s.FindOne(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.mediaRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected != 1 {
		return apperr.Internal("Failed to delete media with id %d", id)
	}

	s.removeFile(media.Filename)
	return nil
}
