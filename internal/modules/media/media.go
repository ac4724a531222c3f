package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/pagination"
	"github.com/techpress/core/internal/pkg/response"
	"gorm.io/gorm"
)

// maxUploadSize caps a single upload at 16 MiB.
const maxUploadSize = 16 << 20

var allowedMimePrefixes = []string{"image/", "video/", "audio/", "application/pdf"}

type Service struct {
	db      *gorm.DB
	storage Storage
}

func NewService(db *gorm.DB, storage Storage) *Service {
	return &Service{db: db, storage: storage}
}

func allowedMime(mime string) bool {
	for _, p := range allowedMimePrefixes {
		if strings.HasPrefix(mime, p) {
			return true
		}
	}
	return false
}

// objectKey builds a collision-free storage key keeping the original
// extension: 2026/08/3f2a....png
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	now := time.Now()
	return fmt.Sprintf("%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
}

func (s *Service) Upload(c *gin.Context, header *multipart.FileHeader, altText string) (*models.MediaItemModel, error) {
	if header.Size > maxUploadSize {
		return nil, fmt.Errorf("file exceeds %d MiB limit", maxUploadSize>>20)
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadSize {
		return nil, fmt.Errorf("file exceeds %d MiB limit", maxUploadSize>>20)
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	if !allowedMime(mime) {
		return nil, fmt.Errorf("unsupported media type %q", mime)
	}

	key := objectKey(header.Filename)
	url, err := s.storage.Put(c.Request.Context(), key, data, mime)
	if err != nil {
		return nil, err
	}

	item := models.MediaItemModel{
		Filename: header.Filename,
		URL:      url,
		MimeType: mime,
		Size:     int64(len(data)),
		AltText:  altText,
	}
	return &item, s.db.Create(&item).Error
}

func (s *Service) List(q pagination.Query) ([]models.MediaItemModel, response.Pagination, error) {
	tx := s.db.Model(&models.MediaItemModel{}).Order("created_at DESC")
	var items []models.MediaItemModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) UpdateAltText(id, altText string) (*models.MediaItemModel, error) {
	var item models.MediaItemModel
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.db.Model(&item).Update("alt_text", altText).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) Delete(c *gin.Context, id string) error {
	var item models.MediaItemModel
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if key := storageKeyFromURL(item.URL); key != "" {
		_ = s.storage.Delete(c.Request.Context(), key)
	}
	return s.db.Delete(&item).Error
}

// storageKeyFromURL recovers the yyyy/mm/uuid.ext key from a stored URL.
func storageKeyFromURL(url string) string {
	const marker = "/uploads/"
	if idx := strings.Index(url, marker); idx >= 0 {
		return url[idx+len(marker):]
	}
	parts := strings.Split(strings.TrimPrefix(url, "https://"), "/")
	if len(parts) >= 4 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return ""
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/media", authMW)
	g.GET("", h.list)
	g.POST("", h.upload)
	g.PATCH("/:id", h.updateAltText)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, pag, err := h.svc.List(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file field is required")
		return
	}
	item, err := h.svc.Upload(c, header, c.PostForm("alt_text"))
	if err != nil {
		if strings.Contains(err.Error(), "unsupported media type") || strings.Contains(err.Error(), "limit") {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, item)
}

func (h *Handler) updateAltText(c *gin.Context) {
	var dto struct {
		AltText string `json:"alt_text"`
	}
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.svc.UpdateAltText(c.Param("id"), dto.AltText)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if item == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, item)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c, c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
