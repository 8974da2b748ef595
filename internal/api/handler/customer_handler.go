package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salesdesk/sales-management/internal/api/metrics"
	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

// CustomerHandler handles HTTP requests for customers and their notes.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// Create handles POST /api/customers.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCustomerRequest  true  "Customer"
// @Success      201   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.service.CreateCustomer(c.Request().Context(), ports.CreateCustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Address: req.Address,
	})
	if err != nil {
		return err
	}

	metrics.CustomersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, customer)
}

// List handles GET /api/customers.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        name     query     string  false  "Exact name"
// @Param        email    query     string  false  "Exact email"
// @Param        company  query     string  false  "Exact company"
// @Param        phone    query     string  false  "Exact phone"
// @Param        sort     query     string  false  "Sort field, prefix with - for descending"
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200      {object}  customerPage
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	var q listCustomersQuery
	if err := c.Bind(&q); err != nil {
		return domain.NewError(domain.KindInvalidPayload, "Invalid query parameters", err)
	}

	page, err := h.service.ListCustomers(c.Request().Context(), ports.CustomerListFilter{
		Filter: domain.CustomerFilter{
			Name:    q.Name,
			Email:   q.Email,
			Company: q.Company,
			Phone:   q.Phone,
		},
		Sort: q.Sort,
		Page: pageRequest(q.Page, q.Limit),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Search handles GET /api/customers/search?query=.
//
// @Summary      Search customers
// @Description  Case-insensitive match on name, email or company. At most 10 results.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        query  query     string  true  "Search text"
// @Success      200    {array}   domain.Customer
// @Failure      400    {object}  map[string]string
// @Router       /api/customers/search [get]
func (h *CustomerHandler) Search(c echo.Context) error {
	customers, err := h.service.SearchCustomers(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Get handles GET /api/customers/:id.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  domain.Customer
// @Failure      404  {object}  map[string]string
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.service.GetCustomer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Update handles PUT /api/customers/:id.
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Customer id"
// @Param        body  body      updateCustomerRequest  true  "Fields to change"
// @Success      200   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	var req updateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.service.UpdateCustomer(c.Request().Context(), c.Param("id"), ports.UpdateCustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id.
//
// @Summary      Delete a customer
// @Tags         customers
// @Security     BearerAuth
// @Param        id   path  string  true  "Customer id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCustomer(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddNote handles POST /api/customers/:id/notes.
//
// @Summary      Add a note to a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Customer id"
// @Param        body  body      noteRequest  true  "Note"
// @Success      201   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/customers/{id}/notes [post]
func (h *CustomerHandler) AddNote(c echo.Context) error {
	var req noteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.service.AddNote(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

// UpdateNote handles PUT /api/customers/:id/notes/:noteId.
//
// @Summary      Update a customer note
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string       true  "Customer id"
// @Param        noteId  path      string       true  "Note id"
// @Param        body    body      noteRequest  true  "Note"
// @Success      200     {object}  domain.Customer
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/customers/{id}/notes/{noteId} [put]
func (h *CustomerHandler) UpdateNote(c echo.Context) error {
	var req noteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.service.UpdateNote(c.Request().Context(), c.Param("id"), c.Param("noteId"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteNote handles DELETE /api/customers/:id/notes/:noteId.
//
// @Summary      Delete a customer note
// @Tags         customers
// @Security     BearerAuth
// @Param        id      path  string  true  "Customer id"
// @Param        noteId  path  string  true  "Note id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/customers/{id}/notes/{noteId} [delete]
func (h *CustomerHandler) DeleteNote(c echo.Context) error {
	if err := h.service.DeleteNote(c.Request().Context(), c.Param("id"), c.Param("noteId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
