package gallery

import (
	"context"

	"photovault/internal/domain"
)

// ImageRepository is the slice of the live-image store the service uses.
type ImageRepository interface {
	Create(ctx context.Context, img *domain.Image) error
	CreateWithID(ctx context.Context, img *domain.Image) error
	GetByID(ctx context.Context, id int64, ownerID string) (*domain.Image, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Image, error)
	Remove(ctx context.Context, id int64, ownerID string) error
}

// ArchiveRepository is the slice of the archived-image store the service uses.
type ArchiveRepository interface {
	Create(ctx context.Context, img *domain.ArchivedImage) error
	GetByID(ctx context.Context, id int64, ownerID string) (*domain.ArchivedImage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.ArchivedImage, error)
	Remove(ctx context.Context, id int64, ownerID string) error
}

// Notifier pushes gallery lifecycle events to an owner's connected clients.
// Delivery is best effort; the service never fails an operation over it.
type Notifier interface {
	ImagesUploaded(ownerID string, images []domain.Image)
	ImageArchived(ownerID string, id int64, name string)
	ImageRecovered(ownerID string, id int64, name string)
}
