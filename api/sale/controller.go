/*
Package sale API layer - sale endpoints

Controllers translate HTTP to application service calls and back. They
never contain business rules: binding failures become 400s here, every
other failure is mapped from the error's code by the response package.
*/
package sale

import (
	"net/http"

	appsale "github.com/dschaly/developer-store-sales-api-sub000/application/sale"
	"github.com/dschaly/developer-store-sales-api-sub000/api/ctxutil"
	"github.com/dschaly/developer-store-sales-api-sub000/api/response"

	"github.com/gin-gonic/gin"
)

// ActorHeader identifies the operator performing the request. The admin
// gateway in front of this service sets it after authentication.
const ActorHeader = "X-Actor"

// Controller Sale HTTP controller
type Controller struct {
	service *appsale.ApplicationService
}

// NewController Create sale controller
func NewController(service *appsale.ApplicationService) *Controller {
	return &Controller{service: service}
}

// RegisterRoutes Register sale routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.POST("", c.CreateSale)
		sales.GET("", c.SearchSales)
		sales.GET("/:id", c.GetSale)
		sales.DELETE("/:id", c.CancelSale)
		sales.DELETE("/:id/lines/:lineId", c.CancelSaleLine)
	}
}

// CreateSale POST /api/v1/sales
func (c *Controller) CreateSale(ctx *gin.Context) {
	var req appsale.CreateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := c.service.CreateSale(ctxutil.WithRequestID(ctx), actor(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, result, "sale created")
}

// GetSale GET /api/v1/sales/:id
func (c *Controller) GetSale(ctx *gin.Context) {
	result, err := c.service.GetSale(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "sale retrieved")
}

// SearchSales GET /api/v1/sales
func (c *Controller) SearchSales(ctx *gin.Context) {
	var req appsale.SearchSalesRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	results, total, err := c.service.SearchSales(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	response.HandlePaginated(ctx, results, response.NewPagination(page, pageSize, total), "sales retrieved")
}

// CancelSale DELETE /api/v1/sales/:id
func (c *Controller) CancelSale(ctx *gin.Context) {
	result, err := c.service.CancelSale(ctxutil.WithRequestID(ctx), actor(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "sale cancelled")
}

// CancelSaleLine DELETE /api/v1/sales/:id/lines/:lineId
func (c *Controller) CancelSaleLine(ctx *gin.Context) {
	result, err := c.service.CancelSaleLine(ctxutil.WithRequestID(ctx), actor(ctx), ctx.Param("id"), ctx.Param("lineId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, result, "sale line cancelled")
}

func actor(ctx *gin.Context) string {
	if a := ctx.GetHeader(ActorHeader); a != "" {
		return a
	}
	return "system"
}

// normalizePage mirrors the application layer's paging defaults so the
// pagination block reflects what was actually queried.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
