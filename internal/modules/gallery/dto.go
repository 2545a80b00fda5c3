package gallery

import (
	"encoding/base64"
	"net/http"
	"time"

	"photovault/internal/domain"
)

// IngestFile is one in-memory upload: a name and an opaque payload.
type IngestFile struct {
	Name string
	Data []byte
}

type ImageResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"image_name"`
	URL  string `json:"image_url"`
}

type ArchivedImageResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"image_name"`
	URL       string    `json:"image_url"`
	DeletedAt time.Time `json:"deleted_at"`
}

func ToImageResponse(img domain.Image) ImageResponse {
	return ImageResponse{
		ID:   img.ID,
		Name: img.Name,
		URL:  dataURL(img.Data),
	}
}

func ToImageResponses(images []domain.Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, ToImageResponse(img))
	}
	return out
}

func ToArchivedImageResponse(img domain.ArchivedImage) ArchivedImageResponse {
	return ArchivedImageResponse{
		ID:        img.ID,
		Name:      img.Name,
		URL:       dataURL(img.Data),
		DeletedAt: img.DeletedAt,
	}
}

func ToArchivedImageResponses(images []domain.ArchivedImage) []ArchivedImageResponse {
	out := make([]ArchivedImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, ToArchivedImageResponse(img))
	}
	return out
}

// dataURL renders the payload as an inline data URL so clients can display
// it without a second fetch. The media type is sniffed from the bytes; the
// stored payload itself is never interpreted or modified.
func dataURL(data []byte) string {
	mimeType := http.DetectContentType(data)
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
