package api

import (
	"github.com/gin-gonic/gin"

	"mtreview/app/review/service"
	"mtreview/common/dto"
	"mtreview/common/log"
	"mtreview/common/middleware"
	"mtreview/common/response"
)

func init() {
	routerAuth = append(routerAuth, assignmentRouter())
}

func assignmentRouter() RouterAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.GET("/api/v1/review/i/next", api.NextItem())
		g.GET("/api/v1/review/i/unassigned", api.UnassignedItems())
	}
}

// NextItem returns the worker's next unannotated item, or null when the
// queue in their language is exhausted.
func (api *ReviewAPI) NextItem() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		item, err := api.ReviewService.NextItem(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, item, "")
	}
}

func (api *ReviewAPI) UnassignedItems() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		items, total, err := api.ReviewService.UnassignedItems(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, items, total, page.PageIndex, page.PageSize, "")
	}
}
