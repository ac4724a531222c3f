package layout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/modules/settings"
	"github.com/techpress/core/internal/pkg/response"
)

// Surface names accepted in routes.
const (
	SurfaceHomepage = "homepage"
	SurfaceFooter   = "footer"
)

type AddBlockDTO struct {
	Type     string          `json:"type" binding:"required"`
	Data     json.RawMessage `json:"data"`
	Position *int            `json:"position"`
	Enabled  *bool           `json:"enabled"`
}

type UpdateBlockDTO struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

type ToggleBlockDTO struct {
	Enabled bool `json:"enabled"`
}

type ReorderDTO struct {
	Order []string `json:"order" binding:"required"`
}

type SaveHomepageDTO struct {
	Blocks []models.Block `json:"blocks"`
}

type SaveFooterDTO struct {
	Column1 []models.Block `json:"column1"`
	Column2 []models.Block `json:"column2"`
	Column3 []models.Block `json:"column3"`
}

// Service edits the homepage and footer block surfaces stored in the site
// settings row. Every mutation validates the touched blocks before persisting.
type Service struct {
	settings *settings.Service
}

func NewService(settingsSvc *settings.Service) *Service {
	return &Service{settings: settingsSvc}
}

// surfaceRef identifies one editable block list: the homepage, or one footer
// column (0-2).
type surfaceRef struct {
	surface string
	column  int
}

func (s *Service) read(ref surfaceRef) ([]models.Block, *models.SiteSettingsModel, error) {
	m, err := s.settings.Get()
	if err != nil {
		return nil, nil, err
	}
	if ref.surface == SurfaceHomepage {
		return m.HomepageLayout, m, nil
	}
	cols := m.FooterConfig.Columns()
	if ref.column < 0 || ref.column >= len(cols) {
		return nil, nil, fmt.Errorf("footer column index %d out of range", ref.column)
	}
	return cols[ref.column], m, nil
}

func (s *Service) write(ref surfaceRef, m *models.SiteSettingsModel, blocks []models.Block) error {
	updated := *m
	if ref.surface == SurfaceHomepage {
		updated.HomepageLayout = blocks
	} else {
		fc := updated.FooterConfig
		if err := fc.SetColumn(ref.column, blocks); err != nil {
			return err
		}
		updated.FooterConfig = fc
	}
	_, err := s.settings.Replace(&updated)
	return err
}

func validateFor(ref surfaceRef, b models.Block) error {
	if ref.surface == SurfaceHomepage {
		return b.ValidateHomepage()
	}
	return b.ValidateFooter()
}

func (s *Service) AddBlock(ref surfaceRef, dto *AddBlockDTO) (models.Block, error) {
	blocks, m, err := s.read(ref)
	if err != nil {
		return models.Block{}, err
	}
	b := models.Block{
		ID:      newBlockID(),
		Type:    dto.Type,
		Enabled: dto.Enabled == nil || *dto.Enabled,
		Data:    dto.Data,
	}
	if err := validateFor(ref, b); err != nil {
		return models.Block{}, err
	}
	pos := -1
	if dto.Position != nil {
		pos = *dto.Position
	}
	return b, s.write(ref, m, insertBlock(blocks, b, pos))
}

func (s *Service) UpdateBlockData(ref surfaceRef, id string, data json.RawMessage) (*models.Block, error) {
	blocks, m, err := s.read(ref)
	if err != nil {
		return nil, err
	}
	idx := findBlock(blocks, id)
	if idx < 0 {
		return nil, nil
	}
	candidate := blocks[idx]
	candidate.Data = data
	if err := validateFor(ref, candidate); err != nil {
		return nil, err
	}
	updated, _ := updateBlockData(blocks, id, data)
	return &updated[idx], s.write(ref, m, updated)
}

func (s *Service) ToggleBlock(ref surfaceRef, id string, enabled bool) (*models.Block, error) {
	blocks, m, err := s.read(ref)
	if err != nil {
		return nil, err
	}
	updated, ok := toggleBlock(blocks, id, enabled)
	if !ok {
		return nil, nil
	}
	idx := findBlock(updated, id)
	return &updated[idx], s.write(ref, m, updated)
}

func (s *Service) RemoveBlock(ref surfaceRef, id string) (bool, error) {
	blocks, m, err := s.read(ref)
	if err != nil {
		return false, err
	}
	updated, ok := removeBlock(blocks, id)
	if !ok {
		return false, nil
	}
	return true, s.write(ref, m, updated)
}

func (s *Service) Reorder(ref surfaceRef, ids []string) ([]models.Block, error) {
	blocks, m, err := s.read(ref)
	if err != nil {
		return nil, err
	}
	updated, err := reorderBlocks(blocks, ids)
	if err != nil {
		return nil, err
	}
	return updated, s.write(ref, m, updated)
}

// SaveHomepage replaces the whole homepage layout. Blocks without an id get
// one assigned.
func (s *Service) SaveHomepage(blocks []models.Block) ([]models.Block, error) {
	for i := range blocks {
		if blocks[i].ID == "" {
			blocks[i].ID = newBlockID()
		}
		if err := blocks[i].ValidateHomepage(); err != nil {
			return nil, err
		}
	}
	m, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	return blocks, s.write(surfaceRef{surface: SurfaceHomepage}, m, blocks)
}

// SaveFooter replaces all three footer columns at once.
func (s *Service) SaveFooter(dto *SaveFooterDTO) (*models.FooterConfig, error) {
	cols := [][]models.Block{dto.Column1, dto.Column2, dto.Column3}
	for ci := range cols {
		for i := range cols[ci] {
			if cols[ci][i].ID == "" {
				cols[ci][i].ID = newBlockID()
			}
			if err := cols[ci][i].ValidateFooter(); err != nil {
				return nil, err
			}
		}
	}
	m, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	updated := *m
	updated.FooterConfig = models.FooterConfig{Column1: cols[0], Column2: cols[1], Column3: cols[2]}
	if _, err := s.settings.Replace(&updated); err != nil {
		return nil, err
	}
	return &updated.FooterConfig, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/layout", authMW)

	g.GET("/homepage", h.getHomepage)
	g.PUT("/homepage", h.saveHomepage)
	g.GET("/footer", h.getFooter)
	g.PUT("/footer", h.saveFooter)

	// per-block operations share one handler set; the surface segment is
	// "homepage" or "footer/<column>".
	for _, route := range []string{"/homepage", "/footer/:column"} {
		g.POST(route+"/blocks", h.addBlock)
		g.PATCH(route+"/blocks/:id", h.updateBlock)
		g.PATCH(route+"/blocks/:id/toggle", h.toggleBlock)
		g.DELETE(route+"/blocks/:id", h.removeBlock)
		g.PUT(route+"/order", h.reorder)
	}
}

func (h *Handler) refFrom(c *gin.Context) (surfaceRef, bool) {
	if strings.Contains(c.FullPath(), "/footer/") {
		col, err := strconv.Atoi(c.Param("column"))
		if err != nil || col < 1 || col > 3 {
			response.BadRequest(c, "footer column must be 1, 2 or 3")
			return surfaceRef{}, false
		}
		return surfaceRef{surface: SurfaceFooter, column: col - 1}, true
	}
	return surfaceRef{surface: SurfaceHomepage}, true
}

func (h *Handler) getHomepage(c *gin.Context) {
	blocks, _, err := h.svc.read(surfaceRef{surface: SurfaceHomepage})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if blocks == nil {
		blocks = []models.Block{}
	}
	response.OK(c, gin.H{"data": blocks})
}

func (h *Handler) getFooter(c *gin.Context) {
	m, err := h.svc.settings.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, m.FooterConfig)
}

func (h *Handler) saveHomepage(c *gin.Context) {
	var dto SaveHomepageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	blocks, err := h.svc.SaveHomepage(dto.Blocks)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, gin.H{"data": blocks})
}

func (h *Handler) saveFooter(c *gin.Context) {
	var dto SaveFooterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	fc, err := h.svc.SaveFooter(&dto)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, fc)
}

func (h *Handler) addBlock(c *gin.Context) {
	ref, ok := h.refFrom(c)
	if !ok {
		return
	}
	var dto AddBlockDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := h.svc.AddBlock(ref, &dto)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.Created(c, b)
}

func (h *Handler) updateBlock(c *gin.Context) {
	ref, ok := h.refFrom(c)
	if !ok {
		return
	}
	var dto UpdateBlockDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := h.svc.UpdateBlockData(ref, c.Param("id"), dto.Data)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	if b == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, b)
}

func (h *Handler) toggleBlock(c *gin.Context) {
	ref, ok := h.refFrom(c)
	if !ok {
		return
	}
	var dto ToggleBlockDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := h.svc.ToggleBlock(ref, c.Param("id"), dto.Enabled)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, b)
}

func (h *Handler) removeBlock(c *gin.Context) {
	ref, ok := h.refFrom(c)
	if !ok {
		return
	}
	found, err := h.svc.RemoveBlock(ref, c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}

func (h *Handler) reorder(c *gin.Context) {
	ref, ok := h.refFrom(c)
	if !ok {
		return
	}
	var dto ReorderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	blocks, err := h.svc.Reorder(ref, dto.Order)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, gin.H{"data": blocks})
}
