package portal

import (
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
	g := rg.Group("/portals", authMW)
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)

	cats := rg.Group("/portal-categories", authMW)
	cats.POST("", h.createCategory)
	cats.GET("", h.listCategories)
	cats.GET("/find", h.findCategory)
	cats.PUT("/:id", h.updateCategory)
	cats.DELETE("/:id", h.deleteCategory)

	prompts := rg.Group("/prompts", authMW)
	prompts.PUT("", h.setPrompt)
	prompts.GET("", h.listPrompts)
}

type createPortalRequest struct {
	Name      string `json:"name"       binding:"required"`
	BaseURL   string `json:"base_url"   binding:"required,url"`
	APIKey    string `json:"api_key"    binding:"required"`
	SecretKey string `json:"secret_key" binding:"required"`
	Domain    string `json:"domain"`
	Enabled   *bool  `json:"enabled"`
}

func (h *Handler) create(c *gin.Context) {
	var req createPortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	portal, err := h.svc.Create(CreatePortalInput{
		Name:      req.Name,
		BaseURL:   req.BaseURL,
		APIKey:    req.APIKey,
		SecretKey: req.SecretKey,
		Domain:    req.Domain,
		Enabled:   req.Enabled,
	})
	if err != nil {
		if err == ErrPortalExists {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, portal)
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
	portal, err := h.svc.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if portal == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, portal)
}

type updatePortalRequest struct {
	Name      *string `json:"name"`
	BaseURL   *string `json:"base_url"`
	APIKey    *string `json:"api_key"`
	SecretKey *string `json:"secret_key"`
	Domain    *string `json:"domain"`
	Enabled   *bool   `json:"enabled"`
}

func (h *Handler) update(c *gin.Context) {
	var req updatePortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.BaseURL != nil {
		updates["base_url"] = *req.BaseURL
	}
	if req.APIKey != nil {
		updates["api_key"] = *req.APIKey
	}
	if req.SecretKey != nil {
		updates["secret_key"] = *req.SecretKey
	}
	if req.Domain != nil {
		updates["domain"] = *req.Domain
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}

	portal, err := h.svc.Update(c.Param("id"), updates)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if portal == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, portal)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

type createCategoryRequest struct {
	PortalID   string  `json:"portal_id"   binding:"required"`
	Name       string  `json:"name"        binding:"required"`
	ExternalID string  `json:"external_id" binding:"required"`
	ParentID   *string `json:"parent_id"`
}

func (h *Handler) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.svc.CreateCategory(CreateCategoryInput{
		PortalID:   req.PortalID,
		Name:       req.Name,
		ExternalID: req.ExternalID,
		ParentID:   req.ParentID,
	})
	if err != nil {
		if err == ErrCategoryExists {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, category)
}

func (h *Handler) findCategory(c *gin.Context) {
	portalName := c.Query("portal")
	externalID := c.Query("external_id")
	if portalName == "" || externalID == "" {
		response.BadRequest(c, "portal and external_id are required")
		return
	}

	category, err := h.svc.FindCategory(portalName, externalID)
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

func (h *Handler) listCategories(c *gin.Context) {
	rows, page, err := h.svc.ListCategories(c)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}

type updateCategoryRequest struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parent_id"`
}

func (h *Handler) updateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ParentID != nil {
		updates["parent_id"] = *req.ParentID
	}

	category, err := h.svc.UpdateCategory(c.Param("id"), updates)
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

func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

type setPromptRequest struct {
	PortalID *string `json:"portal_id"`
	Text     string  `json:"text" binding:"required"`
	Enabled  *bool   `json:"enabled"`
}

func (h *Handler) setPrompt(c *gin.Context) {
	var req setPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	prompt, err := h.svc.SetPrompt(req.PortalID, req.Text, enabled)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, prompt)
}

func (h *Handler) listPrompts(c *gin.Context) {
	rows, page, err := h.svc.ListPrompts(c)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, page)
}
