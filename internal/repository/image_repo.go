package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"photovault/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey reports a primary-key conflict on an insert that carries
// an explicit id. The move paths use it to detect that a previous,
// partially-failed move already wrote the destination row.
var ErrDuplicateKey = errors.New("duplicate key")

// ImageRepository is the persistence contract for live images. Every query
// that takes an owner id filters by it: a row belonging to another owner is
// indistinguishable from a missing row.
type ImageRepository interface {
	// Create inserts a new row; the store assigns the id.
	Create(ctx context.Context, img *domain.Image) error
	// CreateWithID inserts a row keeping its existing id (recover path).
	// Returns ErrDuplicateKey if the id is already present.
	CreateWithID(ctx context.Context, img *domain.Image) error
	GetByID(ctx context.Context, id int64, ownerID string) (*domain.Image, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Image, error)
	// Remove deletes the owner's row. Zero rows affected is not an error:
	// the row being gone is the state Remove exists to reach.
	Remove(ctx context.Context, id int64, ownerID string) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, img *domain.Image) error {
	img.ID = 0
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *imageRepository) CreateWithID(ctx context.Context, img *domain.Image) error {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: images id=%d", ErrDuplicateKey, img.ID)
		}
		return err
	}
	return nil
}

func (r *imageRepository) GetByID(ctx context.Context, id int64, ownerID string) (*domain.Image, error) {
	var img domain.Image
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&img).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Image, error) {
	var images []domain.Image
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC, id DESC").
		Find(&images).Error
	return images, err
}

func (r *imageRepository) Remove(ctx context.Context, id int64, ownerID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Image{}).Error
}

// isUniqueViolation recognises a unique/primary-key conflict on both
// backends the service runs against.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
