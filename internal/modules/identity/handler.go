package identity

import (
	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/middleware"
	"github.com/reconhq/recon-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/identity", authMW)
	g.GET("/mappings", h.listMine)
	g.POST("/refresh", h.refresh)
}

func (h *Handler) listMine(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	rows, page, err := h.svc.ListByUser(c, userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}

func (h *Handler) refresh(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if err := h.svc.Refresh(c.Request.Context(), userID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OKMsg(c, nil, "portal identity check completed")
}
