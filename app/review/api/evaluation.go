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
	routerAuth = append(routerAuth, evaluationRouter())
}

func evaluationRouter() RouterAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.POST("/api/v1/review/e/submit", api.SubmitEvaluation())
		g.PUT("/api/v1/review/e/", api.UpdateEvaluation())
		g.GET("/api/v1/review/e/mine", api.MyEvaluations())
		g.GET("/api/v1/review/e/pending", api.PendingEvaluations())
		g.GET("/api/v1/review/e/stats", api.EvaluatorStats())
	}
}

func (api *ReviewAPI) SubmitEvaluation() GinHandler {
	return func(c *gin.Context) {
		var req service.SubmitEvaluationReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		evaluation, err := api.ReviewService.SubmitEvaluation(c.Request.Context(), p.ID, req)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, evaluation, "")
	}
}

func (api *ReviewAPI) UpdateEvaluation() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid evaluation id"))
			return
		}
		var patch service.EvaluationPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		evaluation, err := api.ReviewService.UpdateEvaluation(c.Request.Context(), p.ID, id, patch)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, evaluation, "")
	}
}

func (api *ReviewAPI) MyEvaluations() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		evaluations, total, err := api.ReviewService.MyEvaluations(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, evaluations, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) PendingEvaluations() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		annotations, total, err := api.ReviewService.PendingEvaluations(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, annotations, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) EvaluatorStats() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		stats, err := api.ReviewService.EvaluatorStatistics(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, stats, "")
	}
}
