package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/catalog/database/query"
	apperrors "github.com/kbukum/catalog/errors"
)

// DataResponse is the standard success envelope for resource endpoints.
type DataResponse struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries pagination metadata.
type Meta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// MetaFrom converts query pagination into response metadata.
func MetaFrom(p query.Pagination) *Meta {
	return &Meta{Page: p.Page, PageSize: p.PageSize, Total: p.Total, TotalPages: p.TotalPages}
}

// RespondWithError writes err as a structured error body. AppErrors keep
// their status; anything else becomes a 500 INTERNAL_ERROR. The original
// error is attached to the Gin context so the request logger records the cause.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	appErr := apperrors.Wrap(err)
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondOKWithMeta sends a 200 response with data and metadata.
func RespondOKWithMeta(c *gin.Context, data any, meta *Meta) {
	c.JSON(http.StatusOK, DataResponse{Data: data, Meta: meta})
}

// RespondCreated sends a 201 response wrapping data.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, DataResponse{Data: data})
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
