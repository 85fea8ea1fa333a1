package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/obaptiste/dashboard-api/internal/application/report"
)

// DashboardHandler handles dashboard overview endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/cards", h.Cards)
		dashboard.GET("/revenue", h.Revenue)
	}
}

// Cards returns the dashboard card aggregates
func (h *DashboardHandler) Cards(c *gin.Context) {
	summary, err := h.dashboardService.CardSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Revenue returns the monthly revenue dataset for the chart
func (h *DashboardHandler) Revenue(c *gin.Context) {
	revenue, err := h.dashboardService.Revenue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, revenue)
}
