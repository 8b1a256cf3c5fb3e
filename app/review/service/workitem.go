package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mtreview/app/review/model"
	"mtreview/common/dto"
	"mtreview/common/log"
	"mtreview/common/util"
)

const (
	catalogVersionKey = "mtreview:catalog:ver"
	catalogCacheTTL   = 5 * time.Minute
)

func (svc *ReviewService) requireAdmin(ctx context.Context, workerID primitive.ObjectID) (model.Worker, error) {
	worker, err := svc.getWorker(ctx, workerID)
	if err != nil {
		return model.Worker{}, err
	}
	if !worker.IsAdmin {
		return model.Worker{}, AccessDenied("administrator capability required")
	}
	return worker, nil
}

type CreateWorkItemReq struct {
	SourceText     string `json:"sourceText"`
	TargetText     string `json:"targetText"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
	Domain         string `json:"domain"`
}

func (r CreateWorkItemReq) validate() error {
	if strings.TrimSpace(r.SourceText) == "" || strings.TrimSpace(r.TargetText) == "" {
		return Invalid("source and target text are required")
	}
	if r.SourceLanguage == "" || r.TargetLanguage == "" {
		return Invalid("source and target language are required")
	}
	return nil
}

func (r CreateWorkItemReq) toModel() model.WorkItem {
	return model.WorkItem{
		ID:             primitive.NewObjectID(),
		SourceText:     r.SourceText,
		TargetText:     r.TargetText,
		SourceLanguage: r.SourceLanguage,
		TargetLanguage: r.TargetLanguage,
		Domain:         r.Domain,
		Active:         true,
		CreatedAt:      util.Now(),
	}
}

func (svc *ReviewService) CreateWorkItem(ctx context.Context, adminID primitive.ObjectID, req CreateWorkItemReq) (model.WorkItem, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return model.WorkItem{}, err
	}
	if err := req.validate(); err != nil {
		return model.WorkItem{}, err
	}
	item := req.toModel()
	if _, err := svc.CollectionWorkItems.InsertOne(ctx, item); err != nil {
		log.Logger().WithContext(ctx).Error("create work item: ", err.Error())
		return model.WorkItem{}, ErrDatabase
	}
	svc.bumpCatalogVersion(ctx)
	return item, nil
}

type BulkCreateResp struct {
	UploadCount int `json:"uploadCount"`
}

func (svc *ReviewService) BulkCreateWorkItems(ctx context.Context, adminID primitive.ObjectID, reqs []CreateWorkItemReq) (BulkCreateResp, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return BulkCreateResp{}, err
	}
	if len(reqs) == 0 {
		return BulkCreateResp{}, Invalid("empty item batch")
	}
	data := make([]interface{}, len(reqs))
	for i, req := range reqs {
		if err := req.validate(); err != nil {
			return BulkCreateResp{}, err
		}
		data[i] = req.toModel()
	}
	result, err := svc.CollectionWorkItems.InsertMany(ctx, data)
	if err != nil {
		log.Logger().WithContext(ctx).Error("bulk create work items: ", err.Error())
		return BulkCreateResp{}, ErrDatabase
	}
	svc.bumpCatalogVersion(ctx)
	return BulkCreateResp{UploadCount: len(result.InsertedIDs)}, nil
}

type SearchWorkItemsReq struct {
	TargetLanguage  string `json:"targetLanguage" form:"targetLanguage"`
	SourceLanguage  string `json:"sourceLanguage" form:"sourceLanguage"`
	Domain          string `json:"domain" form:"domain"`
	IncludeInactive bool   `json:"includeInactive" form:"includeInactive"`
	dto.Pagination
}

func (svc *ReviewService) SearchWorkItems(ctx context.Context, req SearchWorkItemsReq) ([]model.WorkItem, int, error) {
	filter := bson.M{}
	if !req.IncludeInactive {
		filter["active"] = true
	}
	if req.TargetLanguage != "" {
		filter["targetLanguage"] = req.TargetLanguage
	}
	if req.SourceLanguage != "" {
		filter["sourceLanguage"] = req.SourceLanguage
	}
	if req.Domain != "" {
		filter["domain"] = req.Domain
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(req.Pagination.Skip()).
		SetLimit(req.Pagination.Limit())
	cursor, err := svc.CollectionWorkItems.Find(ctx, filter, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("search work items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	var items []model.WorkItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Logger().WithContext(ctx).Error("search work items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionWorkItems.CountDocuments(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error("search work items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	return items, int(count), nil
}

func (svc *ReviewService) findWorkItems(ctx context.Context, filter bson.M, page dto.Pagination) ([]model.WorkItem, int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cursor, err := svc.CollectionWorkItems.Find(ctx, filter, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find work items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	var items []model.WorkItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Logger().WithContext(ctx).Error("find work items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionWorkItems.CountDocuments(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find work items: ", err.Error())
		return nil, 0, ErrDatabase
	}
	return items, int(count), nil
}

func (svc *ReviewService) GetWorkItem(ctx context.Context, id primitive.ObjectID) (model.WorkItem, error) {
	var item model.WorkItem
	if err := svc.CollectionWorkItems.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.WorkItem{}, NotFound("work item not found")
		}
		log.Logger().WithContext(ctx).Error("get work item: ", err.Error())
		return model.WorkItem{}, ErrDatabase
	}
	return item, nil
}

// DeactivateWorkItem soft-deletes: annotations referencing the item stay.
func (svc *ReviewService) DeactivateWorkItem(ctx context.Context, adminID, id primitive.ObjectID) error {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	result, err := svc.CollectionWorkItems.UpdateByID(ctx, id, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		log.Logger().WithContext(ctx).Error("deactivate work item: ", err.Error())
		return ErrDatabase
	}
	if result.MatchedCount == 0 {
		return NotFound("work item not found")
	}
	svc.bumpCatalogVersion(ctx)
	return nil
}

// WorkItemCounts groups catalog size by target language; the "all" key is
// the grand total.
func (svc *ReviewService) WorkItemCounts(ctx context.Context, adminID primitive.ObjectID) (map[string]int64, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	cursor, err := svc.CollectionWorkItems.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$targetLanguage", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		log.Logger().WithContext(ctx).Error("work item counts: ", err.Error())
		return nil, ErrDatabase
	}
	var rows []struct {
		Language string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		log.Logger().WithContext(ctx).Error("work item counts: ", err.Error())
		return nil, ErrDatabase
	}
	counts := make(map[string]int64, len(rows)+1)
	var total int64
	for _, row := range rows {
		counts[row.Language] = row.Count
		total += row.Count
	}
	counts["all"] = total
	return counts, nil
}

// ActiveItems serves the worker-facing catalog page, through the redis
// cache when one is configured.
func (svc *ReviewService) ActiveItems(ctx context.Context, targetLanguage string, page dto.Pagination) ([]model.WorkItem, int, error) {
	if svc.RedisClient == nil {
		return svc.SearchWorkItems(ctx, SearchWorkItemsReq{TargetLanguage: targetLanguage, Pagination: page})
	}
	key := svc.catalogCacheKey(ctx, targetLanguage, page)
	if cached, err := svc.RedisClient.Get(ctx, key).Result(); err == nil {
		var entry catalogCacheEntry
		if json.Unmarshal([]byte(cached), &entry) == nil {
			return entry.Items, entry.Total, nil
		}
	} else if err != redis.Nil {
		log.Logger().WithContext(ctx).Warn("catalog cache get: ", err.Error())
	}
	items, total, err := svc.SearchWorkItems(ctx, SearchWorkItemsReq{TargetLanguage: targetLanguage, Pagination: page})
	if err != nil {
		return nil, 0, err
	}
	if payload, err := json.Marshal(catalogCacheEntry{Items: items, Total: total}); err == nil {
		if err := svc.RedisClient.Set(ctx, key, payload, catalogCacheTTL).Err(); err != nil {
			log.Logger().WithContext(ctx).Warn("catalog cache set: ", err.Error())
		}
	}
	return items, total, nil
}

type catalogCacheEntry struct {
	Items []model.WorkItem `json:"items"`
	Total int              `json:"total"`
}

// Cache keys carry a catalog version; admin writes bump the version so
// stale pages fall out instead of being hunted down.
func (svc *ReviewService) catalogCacheKey(ctx context.Context, lang string, page dto.Pagination) string {
	ver, err := svc.RedisClient.Get(ctx, catalogVersionKey).Int64()
	if err != nil && err != redis.Nil {
		log.Logger().WithContext(ctx).Warn("catalog version get: ", err.Error())
	}
	page = page.Normalize()
	return fmt.Sprintf("mtreview:catalog:%d:%s:%d:%d", ver, lang, page.PageIndex, page.PageSize)
}

func (svc *ReviewService) bumpCatalogVersion(ctx context.Context) {
	if svc.RedisClient == nil {
		return
	}
	if err := svc.RedisClient.Incr(ctx, catalogVersionKey).Err(); err != nil {
		log.Logger().WithContext(ctx).Warn("catalog version bump: ", err.Error())
	}
}
