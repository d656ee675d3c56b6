package post

import (
	"time"

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
	g := rg.Group("/posts", authMW)
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type createPostRequest struct {
	Title            string `json:"title"             binding:"required"`
	ShortDescription string `json:"short_description" binding:"required,max=300"`
	Content          string `json:"content"           binding:"required"`
	ImageURL         string `json:"image_url"`
	PostTag          string `json:"post_tag"`

	IsActive      *bool `json:"is_active"`
	LatestNews    *bool `json:"latest_news"`
	UpcomingEvent *bool `json:"upcoming_event"`
	HeadLines     *bool `json:"head_lines"`
	Articles      *bool `json:"articles"`
	Trending      *bool `json:"trending"`
	BreakingNews  *bool `json:"breaking_news"`
	Event         *bool `json:"event"`

	EventDate    *time.Time `json:"event_date"`
	EventEndDate *time.Time `json:"event_end_date"`
	ScheduleDate *time.Time `json:"schedule_date"`
	Counter      *int       `json:"counter"`
}

func (h *Handler) create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(CreateInput{
		CreatedByID:      middleware.CurrentUserID(c),
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Content:          req.Content,
		ImageURL:         req.ImageURL,
		PostTag:          req.PostTag,
		IsActive:         req.IsActive,
		LatestNews:       req.LatestNews,
		UpcomingEvent:    req.UpcomingEvent,
		HeadLines:        req.HeadLines,
		Articles:         req.Articles,
		Trending:         req.Trending,
		BreakingNews:     req.BreakingNews,
		Event:            req.Event,
		EventDate:        req.EventDate,
		EventEndDate:     req.EventEndDate,
		ScheduleDate:     req.ScheduleDate,
		Counter:          req.Counter,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, post)
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
	post, err := h.svc.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, post)
}

type updatePostRequest struct {
	Title            *string `json:"title"`
	ShortDescription *string `json:"short_description"`
	Content          *string `json:"content"`
	ImageURL         *string `json:"image_url"`
	PostTag          *string `json:"post_tag"`

	IsActive      *bool `json:"is_active"`
	LatestNews    *bool `json:"latest_news"`
	UpcomingEvent *bool `json:"upcoming_event"`
	HeadLines     *bool `json:"head_lines"`
	Articles      *bool `json:"articles"`
	Trending      *bool `json:"trending"`
	BreakingNews  *bool `json:"breaking_news"`
	Event         *bool `json:"event"`

	EventDate    *time.Time `json:"event_date"`
	EventEndDate *time.Time `json:"event_end_date"`
	ScheduleDate *time.Time `json:"schedule_date"`
	Counter      *int       `json:"counter"`
}

func (h *Handler) update(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ShortDescription != nil {
		updates["short_description"] = *req.ShortDescription
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.PostTag != nil {
		updates["post_tag"] = *req.PostTag
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.LatestNews != nil {
		updates["latest_news"] = *req.LatestNews
	}
	if req.UpcomingEvent != nil {
		updates["upcoming_event"] = *req.UpcomingEvent
	}
	if req.HeadLines != nil {
		updates["head_lines"] = *req.HeadLines
	}
	if req.Articles != nil {
		updates["articles"] = *req.Articles
	}
	if req.Trending != nil {
		updates["trending"] = *req.Trending
	}
	if req.BreakingNews != nil {
		updates["breaking_news"] = *req.BreakingNews
	}
	if req.Event != nil {
		updates["event"] = *req.Event
	}
	if req.EventDate != nil {
		updates["event_date"] = *req.EventDate
	}
	if req.EventEndDate != nil {
		updates["event_end_date"] = *req.EventEndDate
	}
	if req.ScheduleDate != nil {
		updates["schedule_date"] = *req.ScheduleDate
	}
	if req.Counter != nil {
		updates["counter"] = *req.Counter
	}

	post, err := h.svc.Update(c.Param("id"), updates)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, post)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
