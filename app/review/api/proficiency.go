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
	routerAuth = append(routerAuth, proficiencyRouter())
}

func proficiencyRouter() RouterAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.POST("/api/v1/review/p/questions", api.CreateQuestion())
		g.PUT("/api/v1/review/p/questions", api.UpdateQuestion())
		g.DELETE("/api/v1/review/p/questions", api.DeactivateQuestion())
		g.POST("/api/v1/review/p/questions/search", api.ListQuestions())
		g.GET("/api/v1/review/p/questions/public", api.PublicQuestions())
		g.POST("/api/v1/review/p/grade", api.GradeProficiency())
		g.GET("/api/v1/review/p/session", api.SessionAnswers())
	}
}

func (api *ReviewAPI) CreateQuestion() GinHandler {
	return func(c *gin.Context) {
		var req service.CreateQuestionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		question, err := api.ReviewService.CreateQuestion(c.Request.Context(), p.ID, req)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, question, "")
	}
}

func (api *ReviewAPI) UpdateQuestion() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid question id"))
			return
		}
		var patch service.QuestionPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		question, err := api.ReviewService.UpdateQuestion(c.Request.Context(), p.ID, id, patch)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, question, "")
	}
}

func (api *ReviewAPI) DeactivateQuestion() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid question id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		if err := api.ReviewService.DeactivateQuestion(c.Request.Context(), p.ID, id); err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, nil, "question deactivated")
	}
}

func (api *ReviewAPI) ListQuestions() GinHandler {
	return func(c *gin.Context) {
		var req service.ListQuestionsReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		questions, total, err := api.ReviewService.ListQuestions(c.Request.Context(), p.ID, req)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page := req.Pagination.Normalize()
		response.PageOK(c, questions, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) PublicQuestions() GinHandler {
	return func(c *gin.Context) {
		var page dto.Pagination
		if err := c.ShouldBindQuery(&page); err != nil {
			response.Error(c, service.Invalid("invalid pagination"))
			return
		}
		questions, total, err := api.ReviewService.PublicQuestions(c.Request.Context(), c.Query("language"), page)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		page = page.Normalize()
		response.PageOK(c, questions, total, page.PageIndex, page.PageSize, "")
	}
}

func (api *ReviewAPI) GradeProficiency() GinHandler {
	return func(c *gin.Context) {
		var req struct {
			SessionID string                      `json:"sessionId"`
			Answers   []service.ProficiencyAnswer `json:"answers"`
			Languages []string                    `json:"languages"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		result, err := api.ReviewService.GradeProficiency(c.Request.Context(), p.ID, req.SessionID, req.Answers, req.Languages)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, result, "")
	}
}

func (api *ReviewAPI) SessionAnswers() GinHandler {
	return func(c *gin.Context) {
		sessionID := c.Query("sessionId")
		if sessionID == "" {
			response.Error(c, service.Invalid("sessionId is required"))
			return
		}
		p := middleware.PrincipalFrom(c)
		answers, err := api.ReviewService.SessionAnswers(c.Request.Context(), p.ID, sessionID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, answers, "")
	}
}
