package service

import (
	"context"
	"reflect"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mtreview/app/review/model"
	"mtreview/common/log"
	"mtreview/common/util"
	ext "mtreview/config"
)

type ReviewService struct {
	MongodbClient *mongo.Client
	MongodbDB     *mongo.Database

	// RedisClient is nil when no redis dsn is configured; the catalog is
	// then read straight from mongo.
	RedisClient *redis.Client

	Assessor *Assessor

	CollectionWorkers     *mongo.Collection
	CollectionWorkItems   *mongo.Collection
	CollectionAnnotations *mongo.Collection
	CollectionEvaluations *mongo.Collection
	CollectionAssessments *mongo.Collection
	CollectionTests       *mongo.Collection
	CollectionQuestions   *mongo.Collection
	CollectionAnswers     *mongo.Collection
}

func NewReviewService(mongodbClient *mongo.Client, redisClient *redis.Client, assessor *Assessor) *ReviewService {
	cfg := ext.ExtConfig.Mongodb
	db := mongodbClient.Database(cfg.ReviewDB)
	return &ReviewService{
		MongodbClient:         mongodbClient,
		MongodbDB:             db,
		RedisClient:           redisClient,
		Assessor:              assessor,
		CollectionWorkers:     db.Collection("workers"),
		CollectionWorkItems:   db.Collection("work_items"),
		CollectionAnnotations: db.Collection("annotations"),
		CollectionEvaluations: db.Collection("evaluations"),
		CollectionAssessments: db.Collection("quality_assessments"),
		CollectionTests:       db.Collection("onboarding_tests"),
		CollectionQuestions:   db.Collection("proficiency_questions"),
		CollectionAnswers:     db.Collection("question_answers"),
	}
}

// BsonRegistry wires the Datetime codec into the driver.
func BsonRegistry() *bsoncodec.RegistryBuilder {
	rb := bson.NewRegistryBuilder()
	codec := util.NewTimeCodec()
	t := reflect.TypeOf(util.Datetime{})
	rb.RegisterTypeEncoder(t, codec)
	rb.RegisterTypeDecoder(t, codec)
	return rb
}

// EnsureIndexes creates the unique indexes that backstop the
// check-then-insert paths: the existence checks in this package are
// advisory, the indexes are the invariant.
func (svc *ReviewService) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{svc.CollectionAnnotations, mongo.IndexModel{
			Keys:    bson.D{{Key: "workItemId", Value: 1}, {Key: "annotatorId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{svc.CollectionEvaluations, mongo.IndexModel{
			Keys:    bson.D{{Key: "annotationId", Value: 1}, {Key: "evaluatorId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{svc.CollectionAssessments, mongo.IndexModel{
			Keys:    bson.D{{Key: "workItemId", Value: 1}, {Key: "evaluatorId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		// One in_progress test per worker; finished tests accumulate.
		{svc.CollectionTests, mongo.IndexModel{
			Keys: bson.D{{Key: "workerId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": model.TestStatusInProgress}),
		}},
		{svc.CollectionAnswers, mongo.IndexModel{
			Keys: bson.D{{Key: "sessionId", Value: 1}},
		}},
		{svc.CollectionWorkItems, mongo.IndexModel{
			Keys: bson.D{{Key: "targetLanguage", Value: 1}, {Key: "active", Value: 1}},
		}},
	}
	for _, spec := range specs {
		if _, err := spec.coll.Indexes().CreateOne(ctx, spec.model); err != nil {
			log.Logger().WithContext(ctx).Error("create index: ", err.Error())
			return err
		}
	}
	return nil
}

func (svc *ReviewService) getWorker(ctx context.Context, id primitive.ObjectID) (model.Worker, error) {
	var worker model.Worker
	if err := svc.CollectionWorkers.FindOne(ctx, bson.M{"_id": id}).Decode(&worker); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.Worker{}, NotFound("worker not found")
		}
		log.Logger().WithContext(ctx).Error("get worker: ", err.Error())
		return model.Worker{}, ErrDatabase
	}
	return worker, nil
}

// checkOnboarded rejects workers that have not passed onboarding. Each
// non-completed status carries its own message.
func checkOnboarded(worker model.Worker) error {
	switch worker.OnboardingStatus {
	case model.OnboardingCompleted:
		return nil
	case model.OnboardingInProgress:
		return AccessDenied("finish your onboarding test before annotating")
	case model.OnboardingFailed:
		return AccessDenied("onboarding test not passed; retake it to unlock annotation")
	default: // pending
		return AccessDenied("complete the onboarding test before annotating")
	}
}

func (svc *ReviewService) onboardingGate(ctx context.Context, workerID primitive.ObjectID) (model.Worker, error) {
	worker, err := svc.getWorker(ctx, workerID)
	if err != nil {
		return model.Worker{}, err
	}
	if err := checkOnboarded(worker); err != nil {
		return model.Worker{}, err
	}
	return worker, nil
}

func (svc *ReviewService) requireEvaluator(ctx context.Context, workerID primitive.ObjectID) (model.Worker, error) {
	worker, err := svc.getWorker(ctx, workerID)
	if err != nil {
		return model.Worker{}, err
	}
	if !worker.IsEvaluator && !worker.IsAdmin {
		return model.Worker{}, AccessDenied("evaluator capability required")
	}
	return worker, nil
}
