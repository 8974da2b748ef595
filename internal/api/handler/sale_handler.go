package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/sales-management/internal/api/metrics"
	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

// SaleHandler handles HTTP requests for sales.
type SaleHandler struct {
	service ports.SaleService
}

func NewSaleHandler(service ports.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// Create handles POST /api/sales.
//
// A repeated request carrying the same Idempotency-Key returns the sale
// created by the first one with status 200 and Idempotent-Replayed: true.
//
// @Summary      Record a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Client-chosen key making retries safe"
// @Param        body             body      createSaleRequest  true   "Sale"
// @Success      201              {object}  domain.Sale
// @Success      200              {object}  domain.Sale  "Replayed from Idempotency-Key"
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      409              {object}  map[string]string  "Idempotency-Key in progress or stale"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createSaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID := req.UserID
	if userID == "" {
		userID = claims.SubjectID
	}

	res, err := h.service.CreateSale(c.Request().Context(), ports.CreateSaleInput{
		CustomerID:     req.CustomerID,
		UserID:         userID,
		Products:       toProducts(req.Products),
		TotalAmount:    req.TotalAmount,
		PaymentMethod:  req.PaymentMethod,
		Status:         req.Status,
		IdempotencyKey: strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey)),
	})
	if err != nil {
		return err
	}

	if res.Replayed {
		metrics.SalesIdempotentReplaysTotal.Inc()
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")
		return c.JSON(http.StatusOK, res.Sale)
	}

	metrics.SalesCreatedTotal.WithLabelValues(string(res.Sale.PaymentMethod), string(res.Sale.Status)).Inc()
	return c.JSON(http.StatusCreated, res.Sale)
}

// List handles GET /api/sales.
//
// @Summary      List sales
// @Description  Sales are sorted newest first. The date range is inclusive.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "Status"  Enums(pending, completed, cancelled)
// @Param        customerId  query     string  false  "Customer id"
// @Param        userId      query     string  false  "User id"
// @Param        startDate   query     string  false  "Earliest createdAt (YYYY-MM-DD or RFC 3339)"
// @Param        endDate     query     string  false  "Latest createdAt (YYYY-MM-DD or RFC 3339)"
// @Param        page        query     int     false  "Page (1-based)"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Success      200         {object}  salePage
// @Failure      400         {object}  map[string]string
// @Router       /api/sales [get]
func (h *SaleHandler) List(c echo.Context) error {
	var q listSalesQuery
	if err := c.Bind(&q); err != nil {
		return domain.NewError(domain.KindInvalidPayload, "Invalid query parameters", err)
	}
	filter, err := q.filter()
	if err != nil {
		return err
	}

	page, err := h.service.ListSales(c.Request().Context(), ports.SaleListFilter{
		Filter: filter,
		Page:   pageRequest(q.Page, q.Limit),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /api/sales/:id.
//
// @Summary      Get a sale with its customer
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale id"
// @Success      200  {object}  domain.SaleDetail
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      504  {object}  map[string]string
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c echo.Context) error {
	detail, err := h.service.GetSale(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Update handles PUT /api/sales/:id.
//
// @Summary      Update a sale
// @Description  A status change appends an entry to the status history.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Sale id"
// @Param        body  body      updateSaleRequest  true  "Fields to change"
// @Success      200   {object}  domain.Sale
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c echo.Context) error {
	var req updateSaleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sale, err := h.service.UpdateSale(c.Request().Context(), c.Param("id"), ports.UpdateSaleInput{
		CustomerID:    req.CustomerID,
		Products:      toProducts(req.Products),
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		StatusNotes:   req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sale)
}

// Delete handles DELETE /api/sales/:id.
//
// @Summary      Delete a sale
// @Tags         sales
// @Security     BearerAuth
// @Param        id   path  string  true  "Sale id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteSale(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ByCustomer handles GET /api/sales/customer/:customerId.
//
// @Summary      Sales of a customer
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        customerId  path     string  true  "Customer id"
// @Success      200         {array}  domain.Sale
// @Router       /api/sales/customer/{customerId} [get]
func (h *SaleHandler) ByCustomer(c echo.Context) error {
	sales, err := h.service.SalesByCustomer(c.Request().Context(), c.Param("customerId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sales)
}

// ByUser handles GET /api/sales/user/:userId.
//
// @Summary      Sales of a user
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path     string  true  "User id"
// @Success      200     {array}  domain.Sale
// @Router       /api/sales/user/{userId} [get]
func (h *SaleHandler) ByUser(c echo.Context) error {
	sales, err := h.service.SalesByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sales)
}
