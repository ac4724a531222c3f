package settings

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/techpress/core/internal/models"
	"github.com/techpress/core/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service manages the singleton site settings row.
type Service struct {
	db *gorm.DB
	mu sync.RWMutex
	s  *models.SiteSettingsModel
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the current settings, loading from DB if not cached.
func (s *Service) Get() (*models.SiteSettingsModel, error) {
	s.mu.RLock()
	if s.s != nil {
		defer s.mu.RUnlock()
		return s.s, nil
	}
	s.mu.RUnlock()

	return s.load()
}

func (s *Service) load() (*models.SiteSettingsModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row models.SiteSettingsModel
	err := s.db.First(&row, "id = ?", models.SiteSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := defaultSettings()
		if err := s.persist(&defaults); err != nil {
			return nil, err
		}
		s.s = &defaults
		return s.s, nil
	}
	if err != nil {
		return nil, err
	}
	s.s = &row
	return s.s, nil
}

func defaultSettings() models.SiteSettingsModel {
	return models.SiteSettingsModel{
		ID:             models.SiteSettingsID,
		SiteName:       "Techpress",
		NavigationMenu: []models.NavItem{},
		HomepageLayout: models.HomepageLayout{},
	}
}

// Patch merges a partial JSON update into the current settings and persists
// the result. Nested objects merge key-wise, arrays replace as a whole.
func (s *Service) Patch(partial map[string]json.RawMessage) (*models.SiteSettingsModel, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	merged := map[string]interface{}{}
	if err := json.Unmarshal(currentJSON, &merged); err != nil {
		return nil, err
	}

	for k, v := range partial {
		if len(strings.TrimSpace(string(v))) == 0 {
			continue
		}
		var incoming interface{}
		if err := json.Unmarshal(v, &incoming); err != nil {
			return nil, err
		}
		if existing, ok := merged[k]; ok {
			merged[k] = deepMergeJSON(existing, incoming)
			continue
		}
		merged[k] = incoming
	}

	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	updated := defaultSettings()
	if err := json.Unmarshal(mergedJSON, &updated); err != nil {
		return nil, err
	}

	if err := validateSurfaces(&updated); err != nil {
		return nil, err
	}

	return s.Replace(&updated)
}

// Replace persists a full settings value and refreshes the cache. The cache
// only takes the new value after the upsert succeeds, so a failed write never
// serves state that would vanish on restart.
func (s *Service) Replace(updated *models.SiteSettingsModel) (*models.SiteSettingsModel, error) {
	updated.ID = models.SiteSettingsID

	if err := s.persist(updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.s = updated
	s.mu.Unlock()

	return updated, nil
}

func validateSurfaces(m *models.SiteSettingsModel) error {
	for _, b := range m.HomepageLayout {
		if err := b.ValidateHomepage(); err != nil {
			return err
		}
	}
	for _, col := range m.FooterConfig.Columns() {
		for _, b := range col {
			if err := b.ValidateFooter(); err != nil {
				return err
			}
		}
	}
	return nil
}

func deepMergeJSON(oldVal, newVal interface{}) interface{} {
	oldMap, oldIsMap := oldVal.(map[string]interface{})
	newMap, newIsMap := newVal.(map[string]interface{})
	if oldIsMap && newIsMap {
		out := make(map[string]interface{}, len(oldMap))
		for k, v := range oldMap {
			out[k] = v
		}
		for k, v := range newMap {
			if existing, ok := out[k]; ok {
				out[k] = deepMergeJSON(existing, v)
				continue
			}
			out[k] = v
		}
		return out
	}
	return newVal
}

func (s *Service) persist(m *models.SiteSettingsModel) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
}

// Invalidate clears the cache, forcing a DB reload on next Get.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s = nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/settings")

	g.GET("", h.getPublic)

	a := g.Group("", authMW)
	a.GET("/all", h.getAll)
	a.PATCH("", h.patch)
}

// getPublic returns the public-safe subset of the settings.
func (h *Handler) getPublic(c *gin.Context) {
	m, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"site_name":                m.SiteName,
		"site_description":         m.SiteDescription,
		"site_url":                 m.SiteURL,
		"navigation_menu":          m.NavigationMenu,
		"seo_title_template":       m.SeoTitleTemplate,
		"seo_description_template": m.SeoDescriptionTemplate,
		"cta":                      m.CTA,
	})
}

func (h *Handler) getAll(c *gin.Context) {
	m, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) patch(c *gin.Context) {
	var partial map[string]json.RawMessage
	if err := c.ShouldBindJSON(&partial); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.svc.Patch(partial)
	if err != nil {
		if strings.Contains(err.Error(), "block") {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, updated)
}
