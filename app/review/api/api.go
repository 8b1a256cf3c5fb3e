package api

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/app/review/service"
	"mtreview/common/middleware"
)

type (
	GinHandler   = func(c *gin.Context)
	RouterNoAuth = func(g *gin.RouterGroup, api *ReviewAPI)
	RouterAuth   = func(g *gin.RouterGroup, api *ReviewAPI)
)

type ReviewAPI struct {
	ReviewService *service.ReviewService
}

func NewReviewAPI(svc *service.ReviewService) *ReviewAPI {
	return &ReviewAPI{
		ReviewService: svc,
	}
}

var (
	routerNoAuth = make([]RouterNoAuth, 0)
	routerAuth   = make([]RouterAuth, 0)
)

func InitRouter(r *gin.Engine, api *ReviewAPI) {
	noAuth := r.Group("")
	for _, f := range routerNoAuth {
		f(noAuth, api)
	}
	auth := r.Group("")
	auth.Use(middleware.Auth())
	for _, f := range routerAuth {
		f(auth, api)
	}
}

// QueryObjectID reads a hex object id from the named query parameter.
func QueryObjectID(c *gin.Context, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Query(name))
}
