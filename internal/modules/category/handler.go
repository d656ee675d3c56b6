package category

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/master-categories", authMW)
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)

	m := rg.Group("/mappings", authMW)
	m.POST("", h.createMappings)
	m.GET("", h.listMappings)
	m.DELETE("/:id", h.deleteMapping)
	m.POST("/:id/set-default", h.setDefault)

	groups := rg.Group("/groups", authMW)
	groups.POST("", h.createGroup)
	groups.GET("", h.listGroups)
	groups.GET("/:id", h.getGroup)
	groups.PUT("/:id", h.updateGroup)
	groups.DELETE("/:id", h.deleteGroup)
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.svc.Create(req.Name, req.Description)
	if err != nil {
		if errors.Is(err, ErrCategoryExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, category)
}

func (h *Handler) list(c *gin.Context) {
	rows, page, err := h.svc.List(c)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}

func (h *Handler) get(c *gin.Context) {
	category, err := h.svc.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if category == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, category)
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	category, err := h.svc.Update(c.Param("id"), updates)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if category == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, category)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

type createMappingsRequest struct {
	Mappings []MappingSpec `json:"mappings" binding:"required,min=1,dive"`
}

func (h *Handler) createMappings(c *gin.Context) {
	var req createMappingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	report, err := h.svc.CreateMappings(req.Mappings)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, report)
}

func (h *Handler) listMappings(c *gin.Context) {
	rows, page, err := h.svc.ListMappings(c)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}

func (h *Handler) deleteMapping(c *gin.Context) {
	if err := h.svc.DeleteMapping(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) setDefault(c *gin.Context) {
	mapping, err := h.svc.SetDefault(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrMappingNotFound) {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, mapping)
}

type createGroupRequest struct {
	Name              string   `json:"name" binding:"required"`
	MasterCategoryIDs []string `json:"master_category_ids"`
}

func (h *Handler) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	group, err := h.svc.CreateGroup(req.Name, req.MasterCategoryIDs)
	if err != nil {
		if errors.Is(err, ErrGroupExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, group)
}

func (h *Handler) listGroups(c *gin.Context) {
	rows, page, err := h.svc.ListGroups(c)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}

func (h *Handler) getGroup(c *gin.Context) {
	group, err := h.svc.GetGroup(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if group == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, group)
}

type updateGroupRequest struct {
	Name              *string  `json:"name"`
	MasterCategoryIDs []string `json:"master_category_ids"`
}

func (h *Handler) updateGroup(c *gin.Context) {
	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	group, err := h.svc.UpdateGroup(c.Param("id"), req.Name, req.MasterCategoryIDs)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if group == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, group)
}

func (h *Handler) deleteGroup(c *gin.Context) {
	if err := h.svc.DeleteGroup(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
