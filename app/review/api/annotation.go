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
	routerAuth = append(routerAuth, annotationRouter())
}

func annotationRouter() RouterAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.POST("/api/v1/review/a/submit", api.SubmitAnnotation())
		g.PUT("/api/v1/review/a/", api.UpdateAnnotation())
		g.DELETE("/api/v1/review/a/", api.DeleteAnnotation())
		g.GET("/api/v1/review/a/", api.GetAnnotation())
		g.GET("/api/v1/review/a/mine", api.MyAnnotations())
		g.GET("/api/v1/review/a/all", api.AllAnnotations())
		g.GET("/api/v1/review/a/byitem", api.AnnotationsByItem())
		g.GET("/api/v1/review/a/evaluations", api.AnnotationEvaluations())
	}
}

func (api *ReviewAPI) SubmitAnnotation() GinHandler {
	return func(c *gin.Context) {
		var req service.SubmitAnnotationReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		annotation, err := api.ReviewService.SubmitAnnotation(c.Request.Context(), p.ID, req)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, annotation, "")
	}
}

func (api *ReviewAPI) UpdateAnnotation() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid annotation id"))
			return
		}
		var patch service.AnnotationPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		annotation, err := api.ReviewService.UpdateAnnotation(c.Request.Context(), p.ID, id, patch)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, annotation, "")
	}
}

func (api *ReviewAPI) DeleteAnnotation() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid annotation id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		if err := api.ReviewService.DeleteAnnotation(c.Request.Context(), p.ID, id); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, nil, "annotation deleted")
	}
}

func (api *ReviewAPI) GetAnnotation() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid annotation id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		annotation, err := api.ReviewService.GetAnnotation(c.Request.Context(), p.ID, id)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, annotation, "")
	}
}

func (api *ReviewAPI) MyAnnotations() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		annotations, total, err := api.ReviewService.MyAnnotations(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, annotations, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) AllAnnotations() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		p := middleware.PrincipalFrom(c)
		annotations, total, err := api.ReviewService.AllAnnotations(c.Request.Context(), p.ID, page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, annotations, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) AnnotationsByItem() GinHandler {
	return func(c *gin.Context) {
		itemID, err := QueryObjectID(c, "itemId")
		if err != nil {
			response.Error(c, service.Invalid("invalid work item id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		annotations, total, err := api.ReviewService.AnnotationsByItem(c.Request.Context(), p.ID, itemID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.PageOK(c, annotations, total, 1, total, "")
	}
}

func (api *ReviewAPI) AnnotationEvaluations() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid annotation id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		evaluations, total, err := api.ReviewService.AnnotationEvaluations(c.Request.Context(), p.ID, id)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.PageOK(c, evaluations, total, 1, total, "")
	}
}
