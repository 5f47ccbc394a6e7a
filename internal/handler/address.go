package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-api/internal/apperr"
	"storefront-api/internal/dto"
	"storefront-api/internal/service"
)

type AddressHandler struct {
	addressService service.AddressService
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

func (h *AddressHandler) AddAddress(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddressRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	address, err := h.addressService.Add(ctx, &req)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, address)
}

func (h *AddressHandler) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Param("userId")
	if userID == "" {
		return apperr.Validation("user id is mandatory")
	}

	addresses, err := h.addressService.List(ctx, userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, addresses)
}

func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddressRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	req.UserID = c.Param("userId")
	if err := c.Validate(&req); err != nil {
		return err
	}

	address, err := h.addressService.Update(ctx, c.Param("userId"), c.Param("addressId"), &req)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, address)
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.addressService.Delete(ctx, c.Param("userId"), c.Param("addressId")); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, "Address deleted successfully", nil)
}
