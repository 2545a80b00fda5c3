package gallery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"photovault/internal/domain"
	"photovault/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories

type MockImageRepository struct {
	mock.Mock

	nextID int64
	mu     sync.Mutex
	names  []string // names successfully inserted, in completion order
}

func (m *MockImageRepository) Create(ctx context.Context, img *domain.Image) error {
	args := m.Called(ctx, img)
	if args.Error(0) == nil {
		img.ID = atomic.AddInt64(&m.nextID, 1) // simulate DB insert
		m.mu.Lock()
		m.names = append(m.names, img.Name)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockImageRepository) CreateWithID(ctx context.Context, img *domain.Image) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockImageRepository) GetByID(ctx context.Context, id int64, ownerID string) (*domain.Image, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockImageRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Image, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Image), args.Error(1)
}

func (m *MockImageRepository) Remove(ctx context.Context, id int64, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockImageRepository) inserted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...)
}

type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Create(ctx context.Context, img *domain.ArchivedImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockArchiveRepository) GetByID(ctx context.Context, id int64, ownerID string) (*domain.ArchivedImage, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArchivedImage), args.Error(1)
}

func (m *MockArchiveRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.ArchivedImage, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ArchivedImage), args.Error(1)
}

func (m *MockArchiveRepository) Remove(ctx context.Context, id int64, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ImagesUploaded(ownerID string, images []domain.Image) {
	m.Called(ownerID, images)
}

func (m *MockNotifier) ImageArchived(ownerID string, id int64, name string) {
	m.Called(ownerID, id, name)
}

func (m *MockNotifier) ImageRecovered(ownerID string, id int64, name string) {
	m.Called(ownerID, id, name)
}

const testOwner = "alice@example.com"

func TestService_Ingest_Success(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockImages.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockImages, mockArchive, nil, 2)

	files := []IngestFile{
		{Name: "a.jpg", Data: []byte{0x01}},
		{Name: "b.jpg", Data: []byte{0x02}},
		{Name: "c.jpg", Data: []byte{0x03}},
	}

	saved, err := service.Ingest(context.Background(), testOwner, files)

	assert.NoError(t, err)
	assert.Len(t, saved, 3)
	for _, img := range saved {
		assert.NotZero(t, img.ID)
		assert.Equal(t, testOwner, img.OwnerID)
	}
	// one entry per input file, though not necessarily in input order
	names := make(map[string]bool)
	for _, img := range saved {
		names[img.Name] = true
	}
	assert.Equal(t, map[string]bool{"a.jpg": true, "b.jpg": true, "c.jpg": true}, names)
	mockImages.AssertNumberOfCalls(t, "Create", 3)
}

func TestService_Ingest_NoFiles(t *testing.T) {
	service := NewService(new(MockImageRepository), new(MockArchiveRepository), nil, 2)

	_, err := service.Ingest(context.Background(), testOwner, nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = service.Ingest(context.Background(), testOwner, []IngestFile{})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestService_Ingest_PartialFailure(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	boom := errors.New("insert exploded")
	mockImages.On("Create", mock.Anything, mock.MatchedBy(func(img *domain.Image) bool {
		return img.Name == "bad.jpg"
	})).Return(boom)
	mockImages.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockImages, mockArchive, nil, 4)

	files := []IngestFile{
		{Name: "good1.jpg", Data: []byte{0x01}},
		{Name: "bad.jpg", Data: []byte{0x02}},
		{Name: "good2.jpg", Data: []byte{0x03}},
	}

	_, err := service.Ingest(context.Background(), testOwner, files)

	assert.ErrorIs(t, err, ErrIngestFailed)
	// The documented non-atomicity: the failure report does not undo the
	// inserts that resolved.
	inserted := mockImages.inserted()
	assert.Contains(t, inserted, "good1.jpg")
	assert.Contains(t, inserted, "good2.jpg")
	assert.NotContains(t, inserted, "bad.jpg")
}

func TestService_Ingest_Notifies(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockNotifs := new(MockNotifier)

	mockImages.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockNotifs.On("ImagesUploaded", testOwner, mock.Anything).Return()

	service := NewService(mockImages, new(MockArchiveRepository), mockNotifs, 2)

	_, err := service.Ingest(context.Background(), testOwner, []IngestFile{{Name: "a.jpg", Data: []byte{1}}})

	assert.NoError(t, err)
	mockNotifs.AssertCalled(t, "ImagesUploaded", testOwner, mock.Anything)
}

func liveImage() *domain.Image {
	return &domain.Image{
		ID:         7,
		Name:       "cat.png",
		Data:       []byte{0xDE, 0xAD},
		OwnerID:    testOwner,
		UploadedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestService_Archive_Success(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	img := liveImage()
	mockImages.On("GetByID", mock.Anything, int64(7), testOwner).Return(img, nil)
	mockArchive.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockImages.On("Remove", mock.Anything, int64(7), testOwner).Return(nil)

	service := NewService(mockImages, mockArchive, nil, 2)

	arch, err := service.Archive(context.Background(), 7, testOwner)

	assert.NoError(t, err)
	assert.Equal(t, img.ID, arch.ID)
	assert.Equal(t, img.Name, arch.Name)
	assert.Equal(t, img.Data, arch.Data)
	assert.Equal(t, img.UploadedAt, arch.UploadedAt)
	assert.False(t, arch.DeletedAt.Before(arch.UploadedAt))
	mockImages.AssertCalled(t, "Remove", mock.Anything, int64(7), testOwner)
}

func TestService_Archive_NotFound(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockImages.On("GetByID", mock.Anything, int64(7), "mallory@example.com").
		Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockImages, mockArchive, nil, 2)

	_, err := service.Archive(context.Background(), 7, "mallory@example.com")

	assert.ErrorIs(t, err, ErrImageNotFound)
	mockArchive.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Archive_WriteFails_LeavesLiveUntouched(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockImages.On("GetByID", mock.Anything, int64(7), testOwner).Return(liveImage(), nil)
	mockArchive.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	service := NewService(mockImages, mockArchive, nil, 2)

	_, err := service.Archive(context.Background(), 7, testOwner)

	assert.ErrorIs(t, err, ErrArchiveWrite)
	mockImages.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Archive_RemoveFails_LeavesDuplicate(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockImages.On("GetByID", mock.Anything, int64(7), testOwner).Return(liveImage(), nil)
	mockArchive.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockImages.On("Remove", mock.Anything, int64(7), testOwner).Return(errors.New("connection reset"))

	service := NewService(mockImages, mockArchive, nil, 2)

	_, err := service.Archive(context.Background(), 7, testOwner)

	// The archive write stays in place: the image is now in both tables
	// and the error names the removal step.
	assert.ErrorIs(t, err, ErrLiveRemove)
	mockArchive.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Archive_RetryAfterPartialFailure_CompletesMove(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockImages.On("GetByID", mock.Anything, int64(7), testOwner).Return(liveImage(), nil)
	mockArchive.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateKey)
	mockImages.On("Remove", mock.Anything, int64(7), testOwner).Return(nil)

	service := NewService(mockImages, mockArchive, nil, 2)

	_, err := service.Archive(context.Background(), 7, testOwner)

	assert.NoError(t, err)
	mockImages.AssertCalled(t, "Remove", mock.Anything, int64(7), testOwner)
}

func archivedImage() *domain.ArchivedImage {
	return &domain.ArchivedImage{
		ID:         7,
		Name:       "cat.png",
		Data:       []byte{0xDE, 0xAD},
		OwnerID:    testOwner,
		UploadedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		DeletedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestService_Recover_Success(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	arch := archivedImage()
	mockArchive.On("GetByID", mock.Anything, int64(7), testOwner).Return(arch, nil)
	mockImages.On("CreateWithID", mock.Anything, mock.MatchedBy(func(img *domain.Image) bool {
		return img.ID == 7 && img.Name == "cat.png" && img.OwnerID == testOwner
	})).Return(nil)
	mockArchive.On("Remove", mock.Anything, int64(7), testOwner).Return(nil)

	service := NewService(mockImages, mockArchive, nil, 2)

	img, err := service.Recover(context.Background(), 7, testOwner)

	assert.NoError(t, err)
	assert.Equal(t, arch.ID, img.ID)
	assert.Equal(t, arch.Data, img.Data)
	assert.Equal(t, arch.UploadedAt, img.UploadedAt)
}

func TestService_Recover_NotFound(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockArchive.On("GetByID", mock.Anything, int64(7), testOwner).
		Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockImages, mockArchive, nil, 2)

	_, err := service.Recover(context.Background(), 7, testOwner)

	assert.ErrorIs(t, err, ErrImageNotFound)
	mockImages.AssertNotCalled(t, "CreateWithID", mock.Anything, mock.Anything)
}

func TestService_Recover_WriteFails_LeavesArchived(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockArchive.On("GetByID", mock.Anything, int64(7), testOwner).Return(archivedImage(), nil)
	mockImages.On("CreateWithID", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	service := NewService(mockImages, mockArchive, nil, 2)

	_, err := service.Recover(context.Background(), 7, testOwner)

	assert.ErrorIs(t, err, ErrRecoverWrite)
	mockArchive.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Recover_RemoveFails_LeavesDuplicate(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockArchive.On("GetByID", mock.Anything, int64(7), testOwner).Return(archivedImage(), nil)
	mockImages.On("CreateWithID", mock.Anything, mock.Anything).Return(nil)
	mockArchive.On("Remove", mock.Anything, int64(7), testOwner).Return(errors.New("connection reset"))

	service := NewService(mockImages, mockArchive, nil, 2)

	_, err := service.Recover(context.Background(), 7, testOwner)

	assert.ErrorIs(t, err, ErrArchiveRemove)
}

func TestService_Recover_RetryAfterPartialFailure_CompletesMove(t *testing.T) {
	mockImages := new(MockImageRepository)
	mockArchive := new(MockArchiveRepository)

	mockArchive.On("GetByID", mock.Anything, int64(7), testOwner).Return(archivedImage(), nil)
	mockImages.On("CreateWithID", mock.Anything, mock.Anything).Return(repository.ErrDuplicateKey)
	mockArchive.On("Remove", mock.Anything, int64(7), testOwner).Return(nil)

	service := NewService(mockImages, mockArchive, nil, 2)

	_, err := service.Recover(context.Background(), 7, testOwner)

	assert.NoError(t, err)
	mockArchive.AssertCalled(t, "Remove", mock.Anything, int64(7), testOwner)
}

func TestService_GetImage_NotFound(t *testing.T) {
	mockImages := new(MockImageRepository)

	mockImages.On("GetByID", mock.Anything, int64(404), testOwner).
		Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockImages, new(MockArchiveRepository), nil, 2)

	_, err := service.GetImage(context.Background(), 404, testOwner)
	assert.ErrorIs(t, err, ErrImageNotFound)
}
