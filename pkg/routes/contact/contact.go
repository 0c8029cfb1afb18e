package contact

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/fern/pkg/faults"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/services"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// Register registers contact and lead routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.POST("", Create)
	g.GET("/leads", Leads)
	g.POST("/leads/:id/promote", Promote)
	g.PATCH("/:id", Update)
	g.DELETE("/:id", Delete)
}

// List returns a page of official contacts
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "contact_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	ctx, svc, err := ectoinject.GetContext[*services.ContactService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact service")
	}

	result, err := svc.ListOfficial(ctx, c.QueryParam("q"), page)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list contacts")
	}

	return c.JSON(http.StatusOK, result)
}

// Leads returns a page of potential contacts with fuzzy company matches
func Leads(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "contact_handler.Leads")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	ctx, svc, err := ectoinject.GetContext[*services.ContactService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact service")
	}

	result, err := svc.ListLeads(ctx, c.QueryParam("q"), page)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list leads")
	}

	return c.JSON(http.StatusOK, result)
}

// Promote turns a lead into an official contact
func Promote(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "contact_handler.Promote")
	defer span.End()

	leadID := c.Param("id")

	var req models.PromoteLeadRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*services.ContactService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact service")
	}

	contact, err := svc.PromoteLead(ctx, leadID, req.CompanyID)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to promote lead")
	}

	return c.JSON(http.StatusCreated, contact)
}

// Create creates a new official contact
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "contact_handler.Create")
	defer span.End()

	var req models.CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*services.ContactService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact service")
	}

	contact, err := svc.Create(ctx, req)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create contact")
	}

	return c.JSON(http.StatusCreated, contact)
}

// Update applies a partial update to a contact
func Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "contact_handler.Update")
	defer span.End()

	id := c.Param("id")

	var req models.UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*services.ContactService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact service")
	}

	contact, err := svc.Update(ctx, id, req)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update contact")
	}

	return c.JSON(http.StatusOK, contact)
}

// Delete removes a contact
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "contact_handler.Delete")
	defer span.End()

	id := c.Param("id")

	ctx, svc, err := ectoinject.GetContext[*services.ContactService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get contact service")
	}

	if err := svc.Delete(ctx, id); err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete contact")
	}

	return c.NoContent(http.StatusNoContent)
}
