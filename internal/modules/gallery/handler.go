package gallery

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"photovault/internal/middleware"
	"photovault/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler exposes the image lifecycle over HTTP. The multipart field name
// for uploads is "images", matching the upstream client contract.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the gallery routes. The upload route resolves its
// owner from the multipart body; everything else requires the header gate,
// so it is registered on the protected group.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.POST("/images/upload", middleware.OwnerFromForm(), h.Upload)
	}
	if protected != nil {
		images := protected.Group("/images")
		{
			images.GET("", h.List)
			images.GET("/archive", h.ListArchive)
			images.GET("/:id", h.GetOne)
			images.DELETE("/:id", h.Delete)
			images.DELETE("/:id/recover", h.Recover)
		}
	}
}

func (h *Handler) Upload(c *gin.Context) {
	owner := middleware.Owner(c)

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILES", "No files were uploaded.")
		return
	}

	headers := form.File["images"]
	files := make([]IngestFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "NO_FILES", "Could not read uploaded file.")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "NO_FILES", "Could not read uploaded file.")
			return
		}
		files = append(files, IngestFile{Name: fh.Filename, Data: data})
	}

	images, err := h.service.Ingest(c.Request.Context(), owner, files)
	if err != nil {
		if errors.Is(err, ErrNoFiles) {
			response.Error(c, http.StatusBadRequest, "NO_FILES", "No files were uploaded.")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INGEST_FAILED", "Failed to store uploaded images; some may have been saved.")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"images": ToImageResponses(images)})
}

func (h *Handler) List(c *gin.Context) {
	owner := middleware.Owner(c)

	images, err := h.service.ListImages(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to fetch images.")
		return
	}

	response.Success(c, http.StatusOK, ToImageResponses(images))
}

func (h *Handler) GetOne(c *gin.Context) {
	owner := middleware.Owner(c)
	id, ok := imageID(c)
	if !ok {
		return
	}

	img, err := h.service.GetImage(c.Request.Context(), id, owner)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found.")
			return
		}
		response.Error(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to fetch image.")
		return
	}

	response.Success(c, http.StatusOK, ToImageResponse(*img))
}

func (h *Handler) ListArchive(c *gin.Context) {
	owner := middleware.Owner(c)

	images, err := h.service.ListArchive(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to fetch archived images.")
		return
	}

	response.Success(c, http.StatusOK, ToArchivedImageResponses(images))
}

func (h *Handler) Delete(c *gin.Context) {
	owner := middleware.Owner(c)
	id, ok := imageID(c)
	if !ok {
		return
	}

	if _, err := h.service.Archive(c.Request.Context(), id, owner); err != nil {
		switch {
		case errors.Is(err, ErrImageNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Photo not found.")
		case errors.Is(err, ErrArchiveWrite):
			response.Error(c, http.StatusInternalServerError, "ARCHIVE_WRITE_FAILED", "Failed to archive deleted photo.")
		case errors.Is(err, ErrLiveRemove):
			response.Error(c, http.StatusInternalServerError, "LIVE_REMOVE_FAILED", "Failed to delete photo.")
		default:
			response.Error(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete photo.")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Photo deleted and archived successfully."})
}

func (h *Handler) Recover(c *gin.Context) {
	owner := middleware.Owner(c)
	id, ok := imageID(c)
	if !ok {
		return
	}

	if _, err := h.service.Recover(c.Request.Context(), id, owner); err != nil {
		switch {
		case errors.Is(err, ErrImageNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Photo not found.")
		case errors.Is(err, ErrRecoverWrite):
			response.Error(c, http.StatusInternalServerError, "RECOVER_WRITE_FAILED", "Failed to recover photo.")
		case errors.Is(err, ErrArchiveRemove):
			response.Error(c, http.StatusInternalServerError, "ARCHIVE_REMOVE_FAILED", "Failed to delete from archive.")
		default:
			response.Error(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to recover photo.")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Photo recovered successfully."})
}

func imageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return 0, false
	}
	return id, true
}
