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
	routerAuth = append(routerAuth, workItemRouter())
}

func workItemRouter() RouterAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.POST("/api/v1/review/i/create", api.CreateWorkItem())
		g.POST("/api/v1/review/i/bulk", api.BulkCreateWorkItems())
		g.POST("/api/v1/review/i/search", api.SearchWorkItems())
		g.GET("/api/v1/review/i/", api.GetWorkItem())
		g.DELETE("/api/v1/review/i/", api.DeactivateWorkItem())
		g.GET("/api/v1/review/i/counts", api.WorkItemCounts())
		g.GET("/api/v1/review/i/catalog", api.Catalog())
	}
}

func (api *ReviewAPI) CreateWorkItem() GinHandler {
	return func(c *gin.Context) {
		var req service.CreateWorkItemReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		item, err := api.ReviewService.CreateWorkItem(c.Request.Context(), p.ID, req)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, item, "")
	}
}

func (api *ReviewAPI) BulkCreateWorkItems() GinHandler {
	return func(c *gin.Context) {
		var reqs []service.CreateWorkItemReq
		if err := c.ShouldBindJSON(&reqs); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		resp, err := api.ReviewService.BulkCreateWorkItems(c.Request.Context(), p.ID, reqs)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, resp, "")
	}
}

func (api *ReviewAPI) SearchWorkItems() GinHandler {
	return func(c *gin.Context) {
		var req service.SearchWorkItemsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		items, total, err := api.ReviewService.SearchWorkItems(c.Request.Context(), req)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page := req.Pagination.Normalize()
		response.PageOK(c, items, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) GetWorkItem() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid work item id"))
			return
		}
		item, err := api.ReviewService.GetWorkItem(c.Request.Context(), id)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, item, "")
	}
}

func (api *ReviewAPI) DeactivateWorkItem() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid work item id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		if err := api.ReviewService.DeactivateWorkItem(c.Request.Context(), p.ID, id); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, nil, "work item deactivated")
	}
}

func (api *ReviewAPI) WorkItemCounts() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		counts, err := api.ReviewService.WorkItemCounts(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, counts, "")
	}
}

func (api *ReviewAPI) Catalog() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		items, total, err := api.ReviewService.ActiveItems(c.Request.Context(), c.Query("targetLanguage"), page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, items, total, page.PageIndex, page.PageSize, "")
	}
}
