package api

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/app/review/model"
	"mtreview/app/review/service"
	"mtreview/common/log"
	"mtreview/common/middleware"
	"mtreview/common/response"
)

func init() {
	routerAuth = append(routerAuth, onboardingRouter())
}

func onboardingRouter() RouterAuth {
	return func(g *gin.RouterGroup, api *ReviewAPI) {
		g.POST("/api/v1/review/o/tests", api.CreateOnboardingTest())
		g.POST("/api/v1/review/o/submit", api.SubmitOnboardingTest())
		g.GET("/api/v1/review/o/mine", api.MyOnboardingTests())
		g.GET("/api/v1/review/o/", api.GetOnboardingTest())
	}
}

func (api *ReviewAPI) CreateOnboardingTest() GinHandler {
	return func(c *gin.Context) {
		var req struct {
			Language string `json:"language"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		test, err := api.ReviewService.CreateOnboardingTest(c.Request.Context(), p.ID, req.Language)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, test, "")
	}
}

func (api *ReviewAPI) SubmitOnboardingTest() GinHandler {
	return func(c *gin.Context) {
		var req struct {
			TestID  primitive.ObjectID        `json:"testId"`
			Answers []model.CalibrationAnswer `json:"answers"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, service.Invalid("invalid request body"))
			return
		}
		p := middleware.PrincipalFrom(c)
		result, err := api.ReviewService.GradeOnboardingTest(c.Request.Context(), p.ID, req.TestID, req.Answers)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, result, result.Message)
	}
}

func (api *ReviewAPI) MyOnboardingTests() GinHandler {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		tests, err := api.ReviewService.MyOnboardingTests(c.Request.Context(), p.ID)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, tests, "")
	}
}

func (api *ReviewAPI) GetOnboardingTest() GinHandler {
	return func(c *gin.Context) {
		id, err := QueryObjectID(c, "id")
		if err != nil {
			response.Error(c, service.Invalid("invalid test id"))
			return
		}
		p := middleware.PrincipalFrom(c)
		test, err := api.ReviewService.GetOnboardingTest(c.Request.Context(), p.ID, id)
		if err != nil {
			log.Logger().WithContext(c.Request.Context()).Error(err.Error())
			response.Error(c, err)
			return
		}
		response.OK(c, test, "")
	}
}
