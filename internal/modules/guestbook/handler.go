package guestbook

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/guestbook/internal/middleware"
	"github.com/mx-space/guestbook/internal/modules/processing/markdown"
	"github.com/mx-space/guestbook/internal/pkg/response"
	"go.uber.org/zap"
)

const missingFieldsBody = "<h1>Missing author or message</h1>"

type writeForm struct {
	Author  string `form:"author"  json:"author"`
	Message string `form:"message" json:"message"`
}

// HandlerConfig carries the presentation settings of the routes.
type HandlerConfig struct {
	RedirectURL string
	Title       string
}

type Handler struct {
	svc    *Service
	cfg    HandlerConfig
	logger *zap.Logger
}

func NewHandler(svc *Service, cfg HandlerConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, cfg: cfg, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/view", h.view)
	rg.POST("/write", h.write)
}

func (h *Handler) view(c *gin.Context) {
	html, err := h.svc.View(c.Request.Context(), originOf(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if c.Query("standalone") == "1" {
		html = markdown.Document(html, markdown.DocumentOptions{Title: h.cfg.Title})
	}
	response.HTML(c, http.StatusOK, html)
}

func (h *Handler) write(c *gin.Context) {
	var form writeForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequestHTML(c, missingFieldsBody)
		return
	}
	err := h.svc.Write(c.Request.Context(), originOf(c), Entry{Author: form.Author, Message: form.Message})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.cfg.RedirectURL)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrValidation) {
		response.BadRequestHTML(c, missingFieldsBody)
		return
	}
	h.logger.Error("guestbook request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	response.InternalError(c)
}

func originOf(c *gin.Context) Origin {
	o := middleware.OriginFrom(c)
	return Origin{Identity: o.Identity, City: o.City, Country: o.Country}
}
