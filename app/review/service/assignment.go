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

// annotatedItemIDs returns every work item the worker has already judged.
func (svc *ReviewService) annotatedItemIDs(ctx context.Context, workerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"workItemId": 1})
	cursor, err := svc.CollectionAnnotations.Find(ctx, bson.M{"annotatorId": workerID}, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("annotated item ids: ", err.Error())
		return nil, ErrDatabase
	}
	var rows []struct {
		WorkItemID primitive.ObjectID `bson:"workItemId"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		log.Logger().WithContext(ctx).Error("annotated item ids: ", err.Error())
		return nil, ErrDatabase
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, row := range rows {
		ids[i] = row.WorkItemID
	}
	return ids, nil
}

func unassignedFilter(worker model.Worker, seen []primitive.ObjectID) bson.M {
	filter := bson.M{
		"active":         true,
		"targetLanguage": worker.PreferredLanguage,
	}
	if len(seen) > 0 {
		filter["_id"] = bson.M{"$nin": seen}
	}
	return filter
}

// NextItem picks the first catalog item, in catalog order, that the worker
// has not yet annotated. Read-only: two parallel calls may hand the same
// item to two workers, the (item, worker) uniqueness key makes that fine.
// Returns nil when the worker has exhausted their language's catalog.
func (svc *ReviewService) NextItem(ctx context.Context, workerID primitive.ObjectID) (*model.WorkItem, error) {
	worker, err := svc.onboardingGate(ctx, workerID)
	if err != nil {
		return nil, err
	}
	seen, err := svc.annotatedItemIDs(ctx, workerID)
	if err != nil {
		return nil, err
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	var item model.WorkItem
	if err := svc.CollectionWorkItems.FindOne(ctx, unassignedFilter(worker, seen), opts).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		log.Logger().WithContext(ctx).Error("next item: ", err.Error())
		return nil, ErrDatabase
	}
	return &item, nil
}

// UnassignedItems is the batch variant of NextItem for the sheet view.
func (svc *ReviewService) UnassignedItems(ctx context.Context, workerID primitive.ObjectID, page dto.Pagination) ([]model.WorkItem, int, error) {
	worker, err := svc.onboardingGate(ctx, workerID)
	if err != nil {
		return nil, 0, err
	}
	seen, err := svc.annotatedItemIDs(ctx, workerID)
	if err != nil {
		return nil, 0, err
	}
	filter := unassignedFilter(worker, seen)
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cursor, err := svc.CollectionWorkItems.Find(ctx, filter, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("unassigned items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	var items []model.WorkItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Logger().WithContext(ctx).Error("unassigned items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionWorkItems.CountDocuments(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error("unassigned items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	return items, int(count), nil
}
