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
	routerAuth = append(routerAuth, workerRouter())
}

func workerRouter() RouterAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.GET("/api/v1/review/w/me", api.Me())
		g.PUT("/api/v1/review/w/guidelines", api.MarkGuidelinesSeen())
		g.GET("/api/v1/review/w/languages", api.WorkerLanguages())
		g.POST("/api/v1/review/w/languages", api.ReplaceLanguages())
		g.GET("/api/v1/review/w/all", api.ListWorkers())
		g.PUT("/api/v1/review/w/evaluator", api.ToggleEvaluator())
		g.GET("/api/v1/review/w/stats", api.AdminStats())
	}
}

func (api *ReviewAPI) Me() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		worker, err := api.ReviewService.Me(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, worker, "")
	}
}

func (api *ReviewAPI) MarkGuidelinesSeen() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		worker, err := api.ReviewService.MarkGuidelinesSeen(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, worker, "")
	}
}

func (api *ReviewAPI) WorkerLanguages() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		languages, err := api.ReviewService.WorkerLanguages(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, languages, "")
	}
}

func (api *ReviewAPI) ReplaceLanguages() GinHandler {
	return func(c *gin.Context) {
		var languages []string
		if err := c.ShouldBindJSON(&languages); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		updated, err := api.ReviewService.ReplaceLanguages(c.Request.Context(), p.ID, languages)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, updated, "")
	}
}

func (api *ReviewAPI) ListWorkers() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		workers, total, err := api.ReviewService.ListWorkers(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, workers, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) ToggleEvaluator() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid worker id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		worker, err := api.ReviewService.ToggleEvaluator(c.Request.Context(), p.ID, id)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, worker, "")
	}
}

func (api *ReviewAPI) AdminStats() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		stats, err := api.ReviewService.AdminStatistics(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, stats, "")
	}
}
