package api

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/app/review/service"
	"mtreview/common/dto"
	"mtreview/common/log"
	"mtreview/common/middleware"
	"mtreview/common/response"
)

func init() {
	routerAuth = append(routerAuth, assessmentRouter())
}

func assessmentRouter() RouterAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.POST("/api/v1/review/q/assess", api.CreateAssessment())
		g.POST("/api/v1/review/q/batch", api.BatchAssess())
		g.PUT("/api/v1/review/q/", api.UpdateAssessment())
		g.GET("/api/v1/review/q/mine", api.MyAssessments())
		g.GET("/api/v1/review/q/pending", api.PendingAssessmentItems())
		g.GET("/api/v1/review/q/byitem", api.AssessmentByItem())
		g.GET("/api/v1/review/q/stats", api.AssessorStats())
		g.GET("/api/v1/review/q/all", api.AllAssessments())
	}
}

func (api *ReviewAPI) CreateAssessment() GinHandler {
	return func(c *gin.Context) {
		var req service.CreateAssessmentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		assessment, err := api.ReviewService.CreateAssessment(c.Request.Context(), p.ID, req)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, assessment, "")
	}
}

func (api *ReviewAPI) BatchAssess() GinHandler {
	return func(c *gin.Context) {
		var req struct {
			WorkItemIDs []primitive.ObjectID `json:"workItemIds"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		assessments, err := api.ReviewService.BatchAssess(c.Request.Context(), p.ID, req.WorkItemIDs)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, assessments, "")
	}
}

func (api *ReviewAPI) UpdateAssessment() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid assessment id"))
			return
		}
		var patch service.AssessmentPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		assessment, err := api.ReviewService.UpdateAssessment(c.Request.Context(), p.ID, id, patch)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, assessment, "")
	}
}

func (api *ReviewAPI) MyAssessments() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		assessments, total, err := api.ReviewService.MyAssessments(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, assessments, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) PendingAssessmentItems() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		items, total, err := api.ReviewService.PendingAssessmentItems(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, items, total, page.PageIndex, page.PageSize, "")
	}
}

// AssessmentByItem returns null rather than 404 when this evaluator has
// not assessed the item; the sheet view probes with it.
func (api *ReviewAPI) AssessmentByItem() GinHandler {
	return func(c *gin.Context) {
		itemID, err := QueryObjectID(c, "itemId")
		if err != nil {
			response.Error(c, service.Invalid("invalid work item id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		assessment, err := api.ReviewService.AssessmentByItem(c.Request.Context(), p.ID, itemID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, assessment, "")
	}
}

func (api *ReviewAPI) AssessorStats() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		stats, err := api.ReviewService.AssessorStatistics(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, stats, "")
	}
}

func (api *ReviewAPI) AllAssessments() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		assessments, total, err := api.ReviewService.AllAssessments(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, assessments, total, page.PageIndex, page.PageSize, "")
	}
}
