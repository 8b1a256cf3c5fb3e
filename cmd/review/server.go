package review

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"mtreview/app/review/api"
	"mtreview/app/review/service"
	"mtreview/common/log"
	"mtreview/common/middleware"
	ext "mtreview/config"
)

const ServiceName = "mtreview"

var (
	configYml string
	StartCmd  = &cobra.Command{
		Use:          "server",
		Short:        "Start API server",
		Example:      "mtreview server -c config/settings.yml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
)

func init() {
	StartCmd.PersistentFlags().StringVarP(&configYml, "config", "c", "config/settings.yml", "Start server with provided configuration file")
}

func run() error {
	_ = log.WithTracer(startingCtx, PackageName, "load configuration", func(ctx context.Context) error {
		if err := ext.Setup(configYml); err != nil {
			log.Logger().WithContext(ctx).Fatal(err)
		}
		return nil
	})

	var mongodbClient *mongo.Client
	_ = log.WithTracer(startingCtx, PackageName, "connect mongodb", func(ctx context.Context) error {
		cfg := ext.ExtConfig.Mongodb
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(cfg.DSN).
			SetRegistry(service.BsonRegistry().Build()))
		if err != nil {
			log.Logger().WithContext(ctx).Fatal(err)
		}
		mongodbClient = client
		return nil
	})

	var redisClient *redis.Client
	_ = log.WithTracer(startingCtx, PackageName, "connect redis", func(ctx context.Context) error {
		cfg := ext.ExtConfig.Redis
		if cfg.Dsn == "" {
			log.Logger().WithContext(ctx).Info("redis not configured, catalog cache disabled")
			return nil
		}
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Dsn,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			log.Logger().WithContext(ctx).Fatal(err)
		}
		return nil
	})

	assessor := service.NewAssessor(ext.ExtConfig.Assessor)
	svc := service.NewReviewService(mongodbClient, redisClient, assessor)

	_ = log.WithTracer(startingCtx, PackageName, "ensure indexes", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := svc.EnsureIndexes(ctx); err != nil {
			log.Logger().WithContext(ctx).Fatal(err)
		}
		return nil
	})

	reviewAPI := api.NewReviewAPI(svc)

	if ext.ExtConfig.Application.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	_ = log.WithTracer(startingCtx, PackageName, "init router", func(ctx context.Context) error {
		r.Use(gin.Recovery())
		r.Use(otelgin.Middleware(ServiceName))
		r.Use(middleware.RequestID())
		r.Use(middleware.Metrics())
		api.InitRouter(r, reviewAPI)
		return nil
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", ext.ExtConfig.Application.Host, ext.ExtConfig.Application.Port),
		Handler: r,
	}

	log.SafeGo(func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger().Fatal("listen: ", err)
		}
	}, log.WithName("http server"), log.PanicToExit())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	fmt.Printf("%s Shutdown Server ... \r\n", time.Now().Format("2006-01-02 15:04:05"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Logger().Fatal("Server Shutdown:", err)
	}
	log.Logger().Println("Server exiting")

	return nil
}
