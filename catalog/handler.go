package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/catalog/database/query"
	apperrors "github.com/kbukum/catalog/errors"
	"github.com/kbukum/catalog/server"
	"github.com/kbukum/catalog/validation"
)

// Handler serves the organization and product routes.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the catalog routes on r behind requireAuth.
func (h *Handler) RegisterRoutes(r gin.IRouter, requireAuth gin.HandlerFunc) {
	orgs := r.Group("/organizations", requireAuth)
	orgs.POST("", h.CreateOrganization)
	orgs.GET("", h.ListOrganizations)
	orgs.GET("/:id", h.GetOrganization)
	orgs.PUT("/:id", h.UpdateOrganization)
	orgs.DELETE("/:id", h.DeleteOrganization)

	products := r.Group("/products", requireAuth)
	products.POST("", h.CreateProduct)
	products.GET("", h.ListProducts)
	products.GET("/:id", h.GetProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	var in OrganizationInput
	if !bind(c, &in) {
		return
	}
	o, err := h.svc.CreateOrganization(c.Request.Context(), in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, o)
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	res, err := h.svc.ListOrganizations(c.Request.Context(), query.ParseFromRequest(c.Request, organizationQuery))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOKWithMeta(c, res.Data, server.MetaFrom(res.Pagination))
}

func (h *Handler) GetOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.svc.GetOrganization(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, o)
}

func (h *Handler) UpdateOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in OrganizationInput
	if !bind(c, &in) {
		return
	}
	o, err := h.svc.UpdateOrganization(c.Request.Context(), id, in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, o)
}

func (h *Handler) DeleteOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrganization(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in ProductInput
	if !bind(c, &in) {
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, p)
}

func (h *Handler) ListProducts(c *gin.Context) {
	res, err := h.svc.ListProducts(c.Request.Context(), query.ParseFromRequest(c.Request, productQuery))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOKWithMeta(c, res.Data, server.MetaFrom(res.Pagination))
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in ProductInput
	if !bind(c, &in) {
		return
	}
	p, err := h.svc.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		server.RespondWithError(c, apperrors.InvalidInput("id", "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		server.RespondWithError(c, apperrors.Validation("Request body must be a valid JSON object.").WithCause(err))
		return false
	}
	if err := validation.Validate(v); err != nil {
		server.RespondWithError(c, err)
		return false
	}
	return true
}
