package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mtreview/app/review/model"
	"mtreview/common/log"
)

type AdminStats struct {
	TotalWorkers         int `json:"totalWorkers"`
	TotalWorkItems       int `json:"totalWorkItems"`
	TotalAnnotations     int `json:"totalAnnotations"`
	CompletedAnnotations int `json:"completedAnnotations"`
	ActiveWorkers        int `json:"activeWorkers"`
}

func (svc *ReviewService) AdminStatistics(ctx context.Context, adminID primitive.ObjectID) (AdminStats, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return AdminStats{}, err
	}
	var stats AdminStats
	type countSpec struct {
		coll   *mongo.Collection
		filter bson.M
		out    *int
	}
	for _, c := range []countSpec{
		{svc.CollectionWorkers, bson.M{}, &stats.TotalWorkers},
		{svc.CollectionWorkItems, bson.M{}, &stats.TotalWorkItems},
		{svc.CollectionAnnotations, bson.M{}, &stats.TotalAnnotations},
		{svc.CollectionAnnotations, bson.M{"status": model.AnnotationStatusCompleted}, &stats.CompletedAnnotations},
		{svc.CollectionWorkers, bson.M{"active": true}, &stats.ActiveWorkers},
	} {
		n, err := c.coll.CountDocuments(ctx, c.filter)
		if err != nil {
			log.Logger().WithContext(ctx).Error("admin stats: ", err.Error())
			return AdminStats{}, ErrDatabase
		}
		*c.out = int(n)
	}
	return stats, nil
}
