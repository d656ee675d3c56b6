package distribution

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/middleware"
	"github.com/reconhq/recon-core/internal/pkg/response"
)

type Handler struct {
	dispatcher *Dispatcher
	ledger     *Ledger
}

func NewHandler(dispatcher *Dispatcher, ledger *Ledger) *Handler {
	return &Handler{dispatcher: dispatcher, ledger: ledger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/distribution", authMW)
	g.POST("/publish", h.publish)
	g.GET("/records", h.listRecords)
	g.GET("/records/:id", h.getRecord)
	g.GET("/posts/:id/records", h.listPostRecords)
}

type publishRequestDTO struct {
	PostID           string   `json:"post_id" binding:"required"`
	PortalID         string   `json:"portal_id"`
	MasterCategoryID string   `json:"master_category_id"`
	ExcludedPortals  []string `json:"excluded_portals"`
	Strategy         string   `json:"strategy"`
}

func (h *Handler) publish(c *gin.Context) {
	var req publishRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	results, err := h.dispatcher.Publish(c.Request.Context(), PublishInput{
		PostID:           req.PostID,
		PortalID:         req.PortalID,
		MasterCategoryID: req.MasterCategoryID,
		UserID:           middleware.CurrentUserID(c),
		ExcludedPortals:  req.ExcludedPortals,
		Strategy:         req.Strategy,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			response.NotFoundMsg(c, err.Error())
		case errors.Is(err, ErrNoSelector),
			errors.Is(err, ErrNoPortalsMapped),
			errors.Is(err, ErrNoDefaultMapping),
			errors.Is(err, ErrUnknownStrategy):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, results)
}

func (h *Handler) listRecords(c *gin.Context) {
	rows, page, err := h.ledger.List(c, c.Query("status"), c.Query("portal_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}

func (h *Handler) getRecord(c *gin.Context) {
	record, err := h.ledger.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if record == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, record)
}

func (h *Handler) listPostRecords(c *gin.Context) {
	rows, page, err := h.ledger.ListByPost(c, c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}
