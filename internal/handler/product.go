package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/service"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	query := &dto.ProductListQuery{
		SortBy: c.QueryParam("sortBy"),
	}
	if raw := c.QueryParam("category"); raw != "" {
		query.Categories = strings.Split(raw, ",")
	}
	if raw := c.QueryParam("brand"); raw != "" {
		query.Brands = strings.Split(raw, ",")
	}

	products, err := h.productService.List(ctx, query)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.productService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, product)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.Search(ctx, c.Param("keyword"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.productService.Create(ctx, &req)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.productService.Update(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.productService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "Product deleted successfully", nil)
}
