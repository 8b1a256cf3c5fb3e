package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mtreview/app/review/model"
	"mtreview/common/dto"
	"mtreview/common/log"
)

func (svc *ReviewService) Me(ctx context.Context, workerID primitive.ObjectID) (model.Worker, error) {
	return svc.getWorker(ctx, workerID)
}

func (svc *ReviewService) WorkerLanguages(ctx context.Context, workerID primitive.ObjectID) ([]string, error) {
	worker, err := svc.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker.Languages == nil {
		return []string{}, nil
	}
	return worker.Languages, nil
}

// ReplaceLanguages swaps the worker's spoken-language list wholesale. The
// first entry becomes the preferred language driving item assignment.
func (svc *ReviewService) ReplaceLanguages(ctx context.Context, workerID primitive.ObjectID, languages []string) ([]string, error) {
	if _, err := svc.getWorker(ctx, workerID); err != nil {
		return nil, err
	}
	set := bson.M{"languages": languages}
	if len(languages) > 0 {
		set["preferredLanguage"] = languages[0]
	}
	if _, err := svc.CollectionWorkers.UpdateOne(ctx, bson.M{"_id": workerID}, bson.M{"$set": set}); err != nil {
		log.Logger().WithContext(ctx).Error("replace languages: ", err.Error())
		return nil, ErrDatabase
	}
	return languages, nil
}

func (svc *ReviewService) MarkGuidelinesSeen(ctx context.Context, workerID primitive.ObjectID) (model.Worker, error) {
	var worker model.Worker
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := svc.CollectionWorkers.FindOneAndUpdate(ctx, bson.M{"_id": workerID},
		bson.M{"$set": bson.M{"guidelinesSeen": true}}, opts).Decode(&worker)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return model.Worker{}, NotFound("worker not found")
		}
		log.Logger().WithContext(ctx).Error("mark guidelines seen: ", err.Error())
		return model.Worker{}, ErrDatabase
	}
	return worker, nil
}

func (svc *ReviewService) ListWorkers(ctx context.Context, adminID primitive.ObjectID, page dto.Pagination) ([]model.Worker, int, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cursor, err := svc.CollectionWorkers.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("list workers: ", err.Error())
		return nil, 0, ErrDatabase
	}
	var workers []model.Worker
	if err := cursor.All(ctx, &workers); err != nil {
		log.Logger().WithContext(ctx).Error("list workers: ", err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionWorkers.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Logger().WithContext(ctx).Error("list workers: ", err.Error())
		return nil, 0, ErrDatabase
	}
	return workers, int(count), nil
}

// ToggleEvaluator flips the evaluator capability on a worker account.
func (svc *ReviewService) ToggleEvaluator(ctx context.Context, adminID, workerID primitive.ObjectID) (model.Worker, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return model.Worker{}, err
	}
	worker, err := svc.getWorker(ctx, workerID)
	if err != nil {
		return model.Worker{}, err
	}
	var updated model.Worker
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = svc.CollectionWorkers.FindOneAndUpdate(ctx, bson.M{"_id": workerID},
		bson.M{"$set": bson.M{"isEvaluator": !worker.IsEvaluator}}, opts).Decode(&updated)
	if err != nil {
		log.Logger().WithContext(ctx).Error("toggle evaluator: ", err.Error())
		return model.Worker{}, ErrDatabase
	}
	return updated, nil
}
