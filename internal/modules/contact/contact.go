package contact

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	mailpkg "github.com/techpress/core/internal/pkg/mail"
	"github.com/techpress/core/internal/pkg/response"
	"go.uber.org/zap"
)

type ContactDTO struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Topic   string `json:"topic"`
	Message string `json:"message" binding:"required"`
}

// Service forwards contact form submissions to the site owner's mailbox.
type Service struct {
	mailer  mailpkg.Mailer
	ownerTo string
	log     *zap.Logger
}

func NewService(mailer mailpkg.Mailer, ownerTo string, log *zap.Logger) *Service {
	return &Service{mailer: mailer, ownerTo: ownerTo, log: log}
}

func (s *Service) Submit(dto *ContactDTO) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(dto.Email)); err != nil {
		return fmt.Errorf("invalid email address")
	}
	if s.ownerTo == "" {
		return fmt.Errorf("no contact recipient configured")
	}

	topic := dto.Topic
	if topic == "" {
		topic = "General"
	}
	html, err := mailpkg.RenderContactNotify(mailpkg.ContactNotifyData{
		Name:    dto.Name,
		Email:   dto.Email,
		Topic:   topic,
		Message: dto.Message,
	})
	if err != nil {
		return err
	}

	err = s.mailer.Send(mailpkg.Message{
		To:      []string{s.ownerTo},
		Subject: fmt.Sprintf("Contact: %s (from %s)", topic, dto.Name),
		HTML:    html,
	})
	if err != nil && s.log != nil {
		s.log.Warn("contact notification failed", zap.Error(err))
	}
	return err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.POST("/contact", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var dto ContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Submit(&dto); err != nil {
		if err.Error() == "invalid email address" {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"received": true})
}
