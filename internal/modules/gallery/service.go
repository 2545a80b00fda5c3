package gallery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"photovault/internal/domain"
	"photovault/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const DefaultIngestConcurrency = 4

type Service struct {
	images      ImageRepository
	archive     ArchiveRepository
	notifs      Notifier
	ingestLimit int
}

func NewService(images ImageRepository, archive ArchiveRepository, notifs Notifier, ingestLimit int) *Service {
	if ingestLimit < 1 {
		ingestLimit = DefaultIngestConcurrency
	}
	return &Service{
		images:      images,
		archive:     archive,
		notifs:      notifs,
		ingestLimit: ingestLimit,
	}
}

// Ingest persists each file as an independent live row under one owner.
// Inserts are issued concurrently, bounded by the configured limit, and the
// call joins on all of them before returning. The first insert error fails
// the whole batch, but inserts already dispatched run to completion and
// stay durable — there is no multi-row transaction and no rollback. The
// returned slice is in completion order, not input order.
func (s *Service) Ingest(ctx context.Context, ownerID string, files []IngestFile) ([]domain.Image, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	batchID := uuid.NewString()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.ingestLimit)

	var mu sync.Mutex
	saved := make([]domain.Image, 0, len(files))

	for _, f := range files {
		g.Go(func() error {
			img := &domain.Image{
				Name:    f.Name,
				Data:    f.Data,
				OwnerID: ownerID,
			}
			if err := s.images.Create(gctx, img); err != nil {
				return fmt.Errorf("insert %q: %w", f.Name, err)
			}

			mu.Lock()
			saved = append(saved, *img)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("ingest batch=%s owner=%s files=%d committed=%d error=%q",
			batchID, ownerID, len(files), len(saved), err)
		return nil, fmt.Errorf("%w: %v", ErrIngestFailed, err)
	}

	log.Printf("ingest batch=%s owner=%s files=%d", batchID, ownerID, len(files))

	if s.notifs != nil {
		s.notifs.ImagesUploaded(ownerID, saved)
	}
	return saved, nil
}

// ListImages returns the owner's live images, newest upload first. Ties on
// upload time break by id descending so the ordering is stable.
func (s *Service) ListImages(ctx context.Context, ownerID string) ([]domain.Image, error) {
	return s.images.ListByOwner(ctx, ownerID)
}

// GetImage returns one live image scoped by id and owner.
func (s *Service) GetImage(ctx context.Context, id int64, ownerID string) (*domain.Image, error) {
	img, err := s.images.GetByID(ctx, id, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	return img, err
}

// ListArchive returns the owner's archived images, newest deletion first.
func (s *Service) ListArchive(ctx context.Context, ownerID string) ([]domain.ArchivedImage, error) {
	return s.archive.ListByOwner(ctx, ownerID)
}

// Archive moves a live image into the archive: fetch, insert into
// deleted_images, then remove from images. A failure on the insert leaves
// the image untouched in the live table. A failure on the removal leaves
// the row in BOTH tables — the photo is duplicated, never lost — and the
// caller sees ErrLiveRemove; retrying the delete or running the sweep tool
// completes the move.
func (s *Service) Archive(ctx context.Context, id int64, ownerID string) (*domain.ArchivedImage, error) {
	img, err := s.images.GetByID(ctx, id, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	arch := &domain.ArchivedImage{
		ID:         img.ID,
		Name:       img.Name,
		Data:       img.Data,
		OwnerID:    img.OwnerID,
		UploadedAt: img.UploadedAt,
		DeletedAt:  time.Now().UTC(),
	}

	if err := s.archive.Create(ctx, arch); err != nil {
		// An archived row with this id means an earlier delete got through
		// the insert and died before the removal; finish that move instead
		// of failing.
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrArchiveWrite, err)
		}
	}

	if err := s.images.Remove(ctx, id, ownerID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLiveRemove, err)
	}

	if s.notifs != nil {
		s.notifs.ImageArchived(ownerID, img.ID, img.Name)
	}
	return arch, nil
}

// Recover moves an archived image back into the live table, mirroring
// Archive step for step: fetch archived, insert into images with the
// original id, then remove from deleted_images.
func (s *Service) Recover(ctx context.Context, id int64, ownerID string) (*domain.Image, error) {
	arch, err := s.archive.GetByID(ctx, id, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	img := &domain.Image{
		ID:         arch.ID,
		Name:       arch.Name,
		Data:       arch.Data,
		OwnerID:    arch.OwnerID,
		UploadedAt: arch.UploadedAt,
	}

	if err := s.images.CreateWithID(ctx, img); err != nil {
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrRecoverWrite, err)
		}
	}

	if err := s.archive.Remove(ctx, id, ownerID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveRemove, err)
	}

	if s.notifs != nil {
		s.notifs.ImageRecovered(ownerID, img.ID, img.Name)
	}
	return img, nil
}
