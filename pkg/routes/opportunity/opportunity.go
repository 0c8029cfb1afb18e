package opportunity

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

// Register registers opportunity routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.GET("/stages", Stages)
	g.GET("/:id/children", Children)
	g.POST("", Create)
	g.PATCH("/:id", Update)
	g.DELETE("/:id", Delete)
	g.POST("/:id/contacts", Link)
	g.DELETE("/:id/contacts/:contactId", Unlink)
}

// List returns a page of opportunities with company joins
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "opportunity_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	ctx, svc, err := ectoinject.GetContext[*services.OpportunityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get opportunity service")
	}

	result, err := svc.List(ctx, c.QueryParam("q"), page)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list opportunities")
	}

	return c.JSON(http.StatusOK, result)
}

// Stages returns the stage board grouped by the configured stage list
func Stages(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "opportunity_handler.Stages")
	defer span.End()

	ctx, svc, err := ectoinject.GetContext[*services.OpportunityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get opportunity service")
	}

	board, err := svc.StageBoard(ctx)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to build stage board")
	}

	return c.JSON(http.StatusOK, board)
}

// Children returns the direct children of a parent opportunity
func Children(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "opportunity_handler.Children")
	defer span.End()

	id := c.Param("id")

	ctx, svc, err := ectoinject.GetContext[*services.OpportunityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get opportunity service")
	}

	children, err := svc.Children(ctx, id)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list children")
	}

	return c.JSON(http.StatusOK, children)
}

// Create creates a new opportunity
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "opportunity_handler.Create")
	defer span.End()

	var req models.CreateOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*services.OpportunityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get opportunity service")
	}

	opportunity, err := svc.Create(ctx, req)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create opportunity")
	}

	return c.JSON(http.StatusCreated, opportunity)
}

// Update applies a partial update, validating any new parent link
func Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "opportunity_handler.Update")
	defer span.End()

	id := c.Param("id")

	var req models.UpdateOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*services.OpportunityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get opportunity service")
	}

	opportunity, err := svc.Update(ctx, id, req)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update opportunity")
	}

	return c.JSON(http.StatusOK, opportunity)
}

// Delete removes an opportunity
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "opportunity_handler.Delete")
	defer span.End()

	id := c.Param("id")

	ctx, svc, err := ectoinject.GetContext[*services.OpportunityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get opportunity service")
	}

	if err := svc.Delete(ctx, id); err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete opportunity")
	}

	return c.NoContent(http.StatusNoContent)
}

// Link associates a contact with an opportunity
func Link(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "opportunity_handler.Link")
	defer span.End()

	id := c.Param("id")

	var req models.LinkContactRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*services.OpportunityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get opportunity service")
	}

	link, err := svc.LinkContact(ctx, id, req.ContactID)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to link contact")
	}

	return c.JSON(http.StatusCreated, link)
}

// Unlink deactivates the link between a contact and an opportunity
func Unlink(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "opportunity_handler.Unlink")
	defer span.End()

	id := c.Param("id")
	contactID := c.Param("contactId")

	ctx, svc, err := ectoinject.GetContext[*services.OpportunityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get opportunity service")
	}

	if err := svc.UnlinkContact(ctx, id, contactID); err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to unlink contact")
	}

	return c.NoContent(http.StatusNoContent)
}
