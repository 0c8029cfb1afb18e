package activity

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Ramsey-B/fern/pkg/faults"
	"github.com/Ramsey-B/fern/pkg/services"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/labstack/echo/v4"
)

// Register registers activity feed routes
func Register(g *echo.Group) {
	g.GET("", Recent)
}

// Recent returns a page of the merged activity feed
func Recent(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "activity_handler.Recent")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	ctx, svc, err := ectoinject.GetContext[*services.ActivityService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get activity service")
	}

	result, err := svc.Recent(ctx, page)
	if err != nil {
		if faults.IsFault(err) {
			return faults.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to build activity feed")
	}

	return c.JSON(http.StatusOK, result)
}
