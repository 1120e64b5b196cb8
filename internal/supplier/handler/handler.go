package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnvold/parts-catalog-service/internal/apperr"
	"github.com/arnvold/parts-catalog-service/internal/supplier"
	"github.com/arnvold/parts-catalog-service/internal/supplier/dto"
	"github.com/arnvold/parts-catalog-service/pkg/logger"
)

type SupplierHandler struct {
	uc     supplier.UseCase
	logger logger.ZapLogger
}

func NewSupplierHandler(uc supplier.UseCase, log logger.ZapLogger) *SupplierHandler {
	return &SupplierHandler{uc: uc, logger: log}
}

func (h *SupplierHandler) Register(r gin.IRouter) {
	r.POST("/suppliers", h.Create)
	r.GET("/suppliers", h.List)
	r.GET("/suppliers/:id", h.Get)
	r.PUT("/suppliers/:id", h.Update)
	r.DELETE("/suppliers/:id", h.Delete)
}

func (h *SupplierHandler) respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	body := gin.H{"error": err.Error()}
	if field := apperr.FieldOf(err); field != "" {
		body["field"] = field
	}
	c.JSON(status, body)
}

type supplierRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Validation("body", "invalid request body"))
		return
	}

	s, err := h.uc.CreateSupplier(c.Request.Context(), &dto.CreateSupplierInput{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"supplier": s})
}

func (h *SupplierHandler) Get(c *gin.Context) {
	s, err := h.uc.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if s == nil {
		h.respondError(c, apperr.New(apperr.CodeNotFound, "supplier not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": s})
}

func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.uc.ListSuppliers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *SupplierHandler) Update(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Validation("body", "invalid request body"))
		return
	}

	s, err := h.uc.UpdateSupplier(c.Request.Context(), &dto.UpdateSupplierInput{
		ID:   c.Param("id"),
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": s})
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
