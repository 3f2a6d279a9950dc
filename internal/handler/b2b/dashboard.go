package b2b

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/handler/view"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/internal/service/summary"
)

// maxDashboardDays bounds how many days one dashboard request may span
const maxDashboardDays = 366

type dashboardRow struct {
	Restaurant view.RestaurantName `json:"restaurant"`
	Summaries  []view.Summary      `json:"summaries"`
}

// Dashboard handles GET /dashboard
func (h *Handler) Dashboard(c echo.Context) error {
	req, err := schema.Bound[schema.DashboardRequest](c)
	if err != nil {
		return err
	}
	_, brandID, _, err := adminOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	from := summary.Day(req.TimeFrom.Time)
	to := summary.Day(req.TimeTo.Time).AddDate(0, 0, 1)
	if to.Sub(from).Hours()/24 > maxDashboardDays {
		return apperror.BadRequest("Dashboard range must not exceed 366 days")
	}

	brand, err := h.brands.FindByID(ctx, brandID)
	if err != nil {
		return err
	}
	restaurants, err := h.restaurants.ListInBrand(ctx, brandID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		ids = append(ids, r.ID)
	}

	summaries, err := h.dashboard.Range(ctx, ids, from, to)
	if err != nil {
		return err
	}

	data := make([]dashboardRow, 0, len(restaurants))
	for _, r := range restaurants {
		data = append(data, dashboardRow{
			Restaurant: view.RestaurantName{ID: r.ID, Name: r.Name},
			Summaries:  view.NewSummaries(summaries[r.ID]),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"brand": view.NewBrand(brand),
		"data":  data,
		"range": echo.Map{
			"timeFrom": req.TimeFrom.Time,
			"timeTo":   req.TimeTo.Time,
		},
	})
}
