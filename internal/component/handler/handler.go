package handler

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnvold/parts-catalog-service/config"
	"github.com/arnvold/parts-catalog-service/internal/apperr"
	"github.com/arnvold/parts-catalog-service/internal/assoc"
	"github.com/arnvold/parts-catalog-service/internal/component"
	"github.com/arnvold/parts-catalog-service/internal/component/dto"
	"github.com/arnvold/parts-catalog-service/internal/model"
	"github.com/arnvold/parts-catalog-service/pkg/logger"
)

type ComponentHandler struct {
	uc      component.UseCase
	aliases aliasTable
	logger  logger.ZapLogger
}

func NewComponentHandler(uc component.UseCase, cfg config.UploadConfig, log logger.ZapLogger) *ComponentHandler {
	return &ComponentHandler{
		uc:      uc,
		aliases: newAliasTable(cfg),
		logger:  log,
	}
}

func (h *ComponentHandler) Register(r gin.IRouter) {
	r.POST("/components", h.Create)
	r.GET("/components", h.List)
	r.GET("/components/:id", h.Get)
	r.PUT("/components/:id", h.Update)
	r.DELETE("/components/:id", h.Delete)

	r.POST("/components/:id/variants", h.AddVariant)
	r.PUT("/components/:id/variants/colors", h.RecolorVariants)
	r.DELETE("/variants/:id", h.RemoveVariant)

	r.POST("/components/:id/pictures", h.UploadPicture)
	r.PUT("/components/:id/pictures/order", h.ReorderPictures)
	r.DELETE("/pictures/:id", h.DeletePicture)

	// Legacy upload: the component is addressed by product number in the
	// form body instead of the URL.
	r.POST("/pictures", h.LegacyUploadPicture)
}

func respondError(c *gin.Context, log logger.ZapLogger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	body := gin.H{"error": err.Error()}
	if field := apperr.FieldOf(err); field != "" {
		body["field"] = field
	}
	c.JSON(status, body)
}

type componentRequest struct {
	SupplierID    string           `json:"supplier_id"`
	ProductNumber string           `json:"product_number"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Properties    model.Properties `json:"properties"`
	Brands        []string         `json:"brands"`
	Categories    []string         `json:"categories"`
	Keywords      []string         `json:"keywords"`
}

func (r *componentRequest) associations() map[assoc.Kind][]string {
	if r.Brands == nil && r.Categories == nil && r.Keywords == nil {
		return nil
	}
	out := map[assoc.Kind][]string{}
	if r.Brands != nil {
		out[assoc.KindBrand] = r.Brands
	}
	if r.Categories != nil {
		out[assoc.KindCategory] = r.Categories
	}
	if r.Keywords != nil {
		out[assoc.KindKeyword] = r.Keywords
	}
	return out
}

func (h *ComponentHandler) Create(c *gin.Context) {
	var req componentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("body", "invalid request body"))
		return
	}

	created, err := h.uc.CreateComponent(c.Request.Context(), &dto.CreateComponentInput{
		SupplierID:    req.SupplierID,
		ProductNumber: req.ProductNumber,
		Name:          req.Name,
		Description:   req.Description,
		Properties:    req.Properties,
		Associations:  req.associations(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"component": created})
}

func (h *ComponentHandler) Get(c *gin.Context) {
	comp, err := h.uc.GetComponent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if comp == nil {
		respondError(c, h.logger, apperr.New(apperr.CodeNotFound, "component not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"component": comp})
}

func (h *ComponentHandler) List(c *gin.Context) {
	filters := &dto.ComponentFilters{
		SupplierID:    c.Query("supplier_id"),
		ProductNumber: c.Query("product_number"),
	}
	filters.Page, _ = strconv.Atoi(c.Query("page"))
	filters.PageSize, _ = strconv.Atoi(c.Query("page_size"))

	components, total, err := h.uc.ListComponents(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"components": components, "total": total})
}

func (h *ComponentHandler) Update(c *gin.Context) {
	var req componentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("body", "invalid request body"))
		return
	}

	updated, err := h.uc.UpdateComponent(c.Request.Context(), &dto.UpdateComponentInput{
		ID:            c.Param("id"),
		SupplierID:    req.SupplierID,
		ProductNumber: req.ProductNumber,
		Name:          req.Name,
		Description:   req.Description,
		Properties:    req.Properties,
		Associations:  req.associations(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"component": updated})
}

func (h *ComponentHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteComponent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ComponentHandler) AddVariant(c *gin.Context) {
	var req struct {
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("body", "invalid request body"))
		return
	}

	v, err := h.uc.AddVariant(c.Request.Context(), &dto.AddVariantInput{
		ComponentID: c.Param("id"),
		Color:       req.Color,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"variant": v})
}

func (h *ComponentHandler) RecolorVariants(c *gin.Context) {
	var req struct {
		Colors map[string]string `json:"colors"` // variant id -> new color
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Colors) == 0 {
		respondError(c, h.logger, apperr.Validation("colors", "a variant-to-color map is required"))
		return
	}

	err := h.uc.RecolorVariants(c.Request.Context(), &dto.RecolorVariantsInput{
		ComponentID: c.Param("id"),
		Colors:      req.Colors,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ComponentHandler) RemoveVariant(c *gin.Context) {
	if err := h.uc.RemoveVariant(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ComponentHandler) UploadPicture(c *gin.Context) {
	h.upload(c, c.Param("id"))
}

// LegacyUploadPicture serves the old form clients that address the component
// by product number. Ambiguity across suppliers cannot be resolved from the
// form alone and is rejected.
func (h *ComponentHandler) LegacyUploadPicture(c *gin.Context) {
	get := func(name string) (string, bool) { return c.GetPostForm(name) }
	productNumber := resolve(get, h.aliases.productNumber)
	if productNumber == "" {
		respondError(c, h.logger, apperr.Validation("product_number", "product number is required"))
		return
	}

	components, _, err := h.uc.ListComponents(c.Request.Context(), &dto.ComponentFilters{ProductNumber: productNumber})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	switch len(components) {
	case 0:
		respondError(c, h.logger, apperr.Newf(apperr.CodeNotFound, "no component with product number %q", productNumber))
	case 1:
		h.upload(c, components[0].ID)
	default:
		respondError(c, h.logger, apperr.Validation("product_number",
			"product number exists for several suppliers, upload via the component endpoint"))
	}
}

func (h *ComponentHandler) upload(c *gin.Context, componentID string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.logger, apperr.Validation("file", "image file is required"))
		return
	}

	get := func(name string) (string, bool) { return c.GetPostForm(name) }
	position := 0
	if raw := resolve(get, h.aliases.order); raw != "" {
		position, err = strconv.Atoi(raw)
		if err != nil {
			respondError(c, h.logger, apperr.Validation("order", "order must be a number"))
			return
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer f.Close()

	p, err := h.uc.UploadPicture(c.Request.Context(), &dto.UploadPictureInput{
		ComponentID: componentID,
		VariantID:   resolve(get, h.aliases.variant),
		Position:    position,
		Extension:   filepath.Ext(fileHeader.Filename),
		Data:        f,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"picture": p})
}

func (h *ComponentHandler) DeletePicture(c *gin.Context) {
	if err := h.uc.DeletePicture(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ComponentHandler) ReorderPictures(c *gin.Context) {
	var req struct {
		VariantID string `json:"variant_id"`
		Positions []struct {
			PictureID string `json:"picture_id"`
			Order     int    `json:"order"`
		} `json:"positions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Positions) == 0 {
		respondError(c, h.logger, apperr.Validation("positions", "a list of picture orders is required"))
		return
	}

	input := &dto.ReorderPicturesInput{
		ComponentID: c.Param("id"),
		VariantID:   req.VariantID,
	}
	for _, p := range req.Positions {
		input.Positions = append(input.Positions, dto.PicturePosition{
			PictureID: p.PictureID,
			Position:  p.Order,
		})
	}

	if err := h.uc.ReorderPictures(c.Request.Context(), input); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
