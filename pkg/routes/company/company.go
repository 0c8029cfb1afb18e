package company

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

// Register registers company routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.GET("/regions", Regions)
	g.GET("/:id", Get)
	g.POST("", Create)
	g.PATCH("/:id", Update)
	g.DELETE("/:id", Delete)
}

// List returns a page of companies matching the search query
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "company_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	ctx, svc, err := ectoinject.GetContext[*services.CompanyService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get company service")
	}

	result, err := svc.List(ctx, c.QueryParam("q"), page)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list companies")
	}

	return c.JSON(http.StatusOK, result)
}

// Regions returns companies grouped by the configured region list
func Regions(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "company_handler.Regions")
	defer span.End()

	ctx, svc, err := ectoinject.GetContext[*services.CompanyService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get company service")
	}

	groups, err := svc.GroupByRegion(ctx)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to group companies")
	}

	return c.JSON(http.StatusOK, groups)
}

// Get returns the cross-entity company detail view
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "company_handler.Get")
	defer span.End()

	id := c.Param("id")

	ctx, svc, err := ectoinject.GetContext[*services.CompanyService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get company service")
	}

	detail, err := svc.Get(ctx, id)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get company")
	}

	return c.JSON(http.StatusOK, detail)
}

// Create creates a new company
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "company_handler.Create")
	defer span.End()

	var req models.CreateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*services.CompanyService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get company service")
	}

	company, err := svc.Create(ctx, req)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create company")
	}

	return c.JSON(http.StatusCreated, company)
}

// Update applies a partial update to a company
func Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "company_handler.Update")
	defer span.End()

	id := c.Param("id")

	var req models.UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*services.CompanyService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get company service")
	}

	company, err := svc.Update(ctx, id, req)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update company")
	}

	return c.JSON(http.StatusOK, company)
}

// Delete removes a company
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "company_handler.Delete")
	defer span.End()

	id := c.Param("id")

	ctx, svc, err := ectoinject.GetContext[*services.CompanyService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get company service")
	}

	if err := svc.Delete(ctx, id); err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete company")
	}

	return c.NoContent(http.StatusNoContent)
}
