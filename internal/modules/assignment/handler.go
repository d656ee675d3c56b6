package assignment

import (
	"errors"

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
	g := rg.Group("/assignments", authMW)
	g.POST("", h.assign)
	g.GET("", h.list)
	g.GET("/mine", h.listMine)
	g.DELETE("/:id", h.delete)
}

type assignRequest struct {
	UserID            string   `json:"user_id" binding:"required"`
	GroupIDs          []string `json:"group_ids"`
	MasterCategoryIDs []string `json:"master_category_ids"`
}

func (h *Handler) assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rows, err := h.svc.Assign(AssignInput{
		UserID:            req.UserID,
		GroupIDs:          req.GroupIDs,
		MasterCategoryIDs: req.MasterCategoryIDs,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAssignment) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, rows)
}

func (h *Handler) list(c *gin.Context) {
	rows, page, err := h.svc.List(c)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}

func (h *Handler) listMine(c *gin.Context) {
	rows, err := h.svc.ListByUser(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
