package repository

import (
	"context"
	"fmt"

	"photovault/internal/domain"

	"gorm.io/gorm"
)

// ArchiveRepository is the persistence contract for archived images. It
// mirrors ImageRepository over the deleted_images table; archived rows are
// only ever written with the id carried over from the live row.
type ArchiveRepository interface {
	// Create inserts the archived row keeping the original image id.
	// Returns ErrDuplicateKey if that id is already archived.
	Create(ctx context.Context, img *domain.ArchivedImage) error
	GetByID(ctx context.Context, id int64, ownerID string) (*domain.ArchivedImage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.ArchivedImage, error)
	Remove(ctx context.Context, id int64, ownerID string) error
	// DuplicatedIDs returns ids present in both tables, i.e. rows caught in
	// the window between the two writes of an interrupted move.
	DuplicatedIDs(ctx context.Context) ([]int64, error)
}

type archiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) Create(ctx context.Context, img *domain.ArchivedImage) error {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: deleted_images id=%d", ErrDuplicateKey, img.ID)
		}
		return err
	}
	return nil
}

func (r *archiveRepository) GetByID(ctx context.Context, id int64, ownerID string) (*domain.ArchivedImage, error) {
	var img domain.ArchivedImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&img).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *archiveRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.ArchivedImage, error) {
	var images []domain.ArchivedImage
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("deleted_at DESC, id DESC").
		Find(&images).Error
	return images, err
}

func (r *archiveRepository) Remove(ctx context.Context, id int64, ownerID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.ArchivedImage{}).Error
}

func (r *archiveRepository) DuplicatedIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Table("deleted_images").
		Select("deleted_images.id").
		Joins("INNER JOIN images ON images.id = deleted_images.id").
		Order("deleted_images.id").
		Scan(&ids).Error
	return ids, err
}
