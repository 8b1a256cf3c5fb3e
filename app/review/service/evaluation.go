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
	"mtreview/common/util"
)

type SubmitEvaluationReq struct {
	AnnotationID primitive.ObjectID `json:"annotationId"`

	AnnotationQualityScore *int `json:"annotationQualityScore"`
	AccuracyScore          *int `json:"accuracyScore"`
	CompletenessScore      *int `json:"completenessScore"`
	OverallScore           *int `json:"overallScore"`

	Feedback         string `json:"feedback"`
	EvaluationNotes  string `json:"evaluationNotes"`
	TimeSpentSeconds *int   `json:"timeSpentSeconds"`
}

func (r SubmitEvaluationReq) validate() error {
	if r.AnnotationID.IsZero() {
		return Invalid("annotationId is required")
	}
	for _, check := range []struct {
		name  string
		score *int
	}{
		{"annotationQualityScore", r.AnnotationQualityScore},
		{"accuracyScore", r.AccuracyScore},
		{"completenessScore", r.CompletenessScore},
		{"overallScore", r.OverallScore},
	} {
		if err := validateScale(check.name, check.score); err != nil {
			return err
		}
	}
	return nil
}

// SubmitEvaluation records an evaluator's review of a finished annotation
// and advances that annotation to reviewed. The transition is monotonic:
// a second evaluator finds it already reviewed and leaves it there.
func (svc *ReviewService) SubmitEvaluation(ctx context.Context, evaluatorID primitive.ObjectID, req SubmitEvaluationReq) (model.Evaluation, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return model.Evaluation{}, err
	}
	if err := req.validate(); err != nil {
		return model.Evaluation{}, err
	}

	var annotation model.Annotation
	if err := svc.CollectionAnnotations.FindOne(ctx, bson.M{"_id": req.AnnotationID}).Decode(&annotation); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.Evaluation{}, NotFound("annotation not found")
		}
		log.Logger().WithContext(ctx).Error("submit evaluation: ", err.Error())
		return model.Evaluation{}, ErrDatabase
	}
	if annotation.Status == model.AnnotationStatusInProgress {
		return model.Evaluation{}, Invalid("annotation is still in progress")
	}

	now := util.Now()
	evaluation := model.Evaluation{
		ID:                     primitive.NewObjectID(),
		AnnotationID:           req.AnnotationID,
		EvaluatorID:            evaluatorID,
		AnnotationQualityScore: req.AnnotationQualityScore,
		AccuracyScore:          req.AccuracyScore,
		CompletenessScore:      req.CompletenessScore,
		OverallScore:           req.OverallScore,
		Feedback:               req.Feedback,
		EvaluationNotes:        req.EvaluationNotes,
		TimeSpentSeconds:       req.TimeSpentSeconds,
		Status:                 model.EvaluationStatusCompleted,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if _, err := svc.CollectionEvaluations.InsertOne(ctx, evaluation); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Evaluation{}, Conflict("you have already evaluated this annotation")
		}
		log.Logger().WithContext(ctx).Error("submit evaluation: ", err.Error())
		return model.Evaluation{}, ErrDatabase
	}
	evaluationsSubmitted.Inc()

	// Conditional on completed so the reviewed state never regresses.
	_, err := svc.CollectionAnnotations.UpdateOne(ctx,
		bson.M{"_id": req.AnnotationID, "status": model.AnnotationStatusCompleted},
		bson.M{"$set": bson.M{"status": model.AnnotationStatusReviewed, "updatedAt": now}})
	if err != nil {
		log.Logger().WithContext(ctx).Error("submit evaluation: ", err.Error())
		return model.Evaluation{}, ErrDatabase
	}
	return evaluation, nil
}

type EvaluationPatch struct {
	AnnotationQualityScore *int `json:"annotationQualityScore"`
	AccuracyScore          *int `json:"accuracyScore"`
	CompletenessScore      *int `json:"completenessScore"`
	OverallScore           *int `json:"overallScore"`

	Feedback         *string `json:"feedback"`
	EvaluationNotes  *string `json:"evaluationNotes"`
	TimeSpentSeconds *int    `json:"timeSpentSeconds"`
}

func (p EvaluationPatch) validate() error {
	for _, check := range []struct {
		name  string
		score *int
	}{
		{"annotationQualityScore", p.AnnotationQualityScore},
		{"accuracyScore", p.AccuracyScore},
		{"completenessScore", p.CompletenessScore},
		{"overallScore", p.OverallScore},
	} {
		if err := validateScale(check.name, check.score); err != nil {
			return err
		}
	}
	return nil
}

func (svc *ReviewService) UpdateEvaluation(ctx context.Context, evaluatorID, evaluationID primitive.ObjectID, patch EvaluationPatch) (model.Evaluation, error) {
	if err := patch.validate(); err != nil {
		return model.Evaluation{}, err
	}
	set := bson.M{"updatedAt": util.Now()}
	setIfPresent(set, "annotationQualityScore", patch.AnnotationQualityScore)
	setIfPresent(set, "accuracyScore", patch.AccuracyScore)
	setIfPresent(set, "completenessScore", patch.CompletenessScore)
	setIfPresent(set, "overallScore", patch.OverallScore)
	setIfPresent(set, "feedback", patch.Feedback)
	setIfPresent(set, "evaluationNotes", patch.EvaluationNotes)
	setIfPresent(set, "timeSpentSeconds", patch.TimeSpentSeconds)

	filter := bson.M{"_id": evaluationID, "evaluatorId": evaluatorID}
	var updated model.Evaluation
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := svc.CollectionEvaluations.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.Evaluation{}, NotFound("evaluation not found")
		}
		log.Logger().WithContext(ctx).Error("update evaluation: ", err.Error())
		return model.Evaluation{}, ErrDatabase
	}
	return updated, nil
}

func (svc *ReviewService) findEvaluations(ctx context.Context, filter bson.M, page dto.Pagination) ([]model.Evaluation, int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cursor, err := svc.CollectionEvaluations.Find(ctx, filter, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find evaluations: ", err.Error())
		return nil, 0, ErrDatabase
	}
	var evaluations []model.Evaluation
	if err := cursor.All(ctx, &evaluations); err != nil {
		log.Logger().WithContext(ctx).Error("find evaluations: ", err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionEvaluations.CountDocuments(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find evaluations: ", err.Error())
		return nil, 0, ErrDatabase
	}
	return evaluations, int(count), nil
}

func (svc *ReviewService) MyEvaluations(ctx context.Context, evaluatorID primitive.ObjectID, page dto.Pagination) ([]model.Evaluation, int, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return nil, 0, err
	}
	return svc.findEvaluations(ctx, bson.M{"evaluatorId": evaluatorID}, page)
}

// AnnotationEvaluations lists everything recorded against one annotation.
// Divergent scores from different evaluators stand side by side; nothing
// merges or averages them.
func (svc *ReviewService) AnnotationEvaluations(ctx context.Context, callerID, annotationID primitive.ObjectID) ([]model.Evaluation, int, error) {
	if _, err := svc.requireEvaluator(ctx, callerID); err != nil {
		return nil, 0, err
	}
	return svc.findEvaluations(ctx, bson.M{"annotationId": annotationID}, dto.Pagination{PageSize: 100})
}

// evaluatedAnnotationIDs returns the annotation ids this evaluator has
// already covered.
func (svc *ReviewService) evaluatedAnnotationIDs(ctx context.Context, evaluatorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"annotationId": 1})
	cursor, err := svc.CollectionEvaluations.Find(ctx, bson.M{"evaluatorId": evaluatorID}, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("evaluated annotations: ", err.Error())
		return nil, ErrDatabase
	}
	var rows []struct {
		AnnotationID primitive.ObjectID `bson:"annotationId"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		log.Logger().WithContext(ctx).Error("evaluated annotations: ", err.Error())
		return nil, ErrDatabase
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.AnnotationID)
	}
	return ids, nil
}

// PendingEvaluations pages through finished annotations the evaluator has
// not covered yet. Their own annotations are excluded as well.
func (svc *ReviewService) PendingEvaluations(ctx context.Context, evaluatorID primitive.ObjectID, page dto.Pagination) ([]model.Annotation, int, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return nil, 0, err
	}
	covered, err := svc.evaluatedAnnotationIDs(ctx, evaluatorID)
	if err != nil {
		return nil, 0, err
	}
	filter := bson.M{
		"status":      bson.M{"$in": bson.A{model.AnnotationStatusCompleted, model.AnnotationStatusReviewed}},
		"annotatorId": bson.M{"$ne": evaluatorID},
	}
	if len(covered) > 0 {
		filter["_id"] = bson.M{"$nin": covered}
	}
	return svc.findAnnotations(ctx, filter, page)
}

type EvaluatorStats struct {
	TotalEvaluations     int      `json:"totalEvaluations"`
	CompletedEvaluations int      `json:"completedEvaluations"`
	PendingAnnotations   int      `json:"pendingAnnotations"`
	AvgTimeSpentSeconds  *float64 `json:"avgTimeSpentSeconds"`
}

func (svc *ReviewService) EvaluatorStatistics(ctx context.Context, evaluatorID primitive.ObjectID) (EvaluatorStats, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return EvaluatorStats{}, err
	}
	var stats EvaluatorStats

	total, err := svc.CollectionEvaluations.CountDocuments(ctx, bson.M{"evaluatorId": evaluatorID})
	if err != nil {
		log.Logger().WithContext(ctx).Error("evaluator stats: ", err.Error())
		return EvaluatorStats{}, ErrDatabase
	}
	stats.TotalEvaluations = int(total)

	completed, err := svc.CollectionEvaluations.CountDocuments(ctx,
		bson.M{"evaluatorId": evaluatorID, "status": model.EvaluationStatusCompleted})
	if err != nil {
		log.Logger().WithContext(ctx).Error("evaluator stats: ", err.Error())
		return EvaluatorStats{}, ErrDatabase
	}
	stats.CompletedEvaluations = int(completed)

	_, pending, err := svc.PendingEvaluations(ctx, evaluatorID, dto.Pagination{PageIndex: 1, PageSize: 1})
	if err != nil {
		return EvaluatorStats{}, err
	}
	stats.PendingAnnotations = pending

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"evaluatorId": evaluatorID, "timeSpentSeconds": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$timeSpentSeconds"}}}},
	}
	cursor, err := svc.CollectionEvaluations.Aggregate(ctx, pipeline)
	if err != nil {
		log.Logger().WithContext(ctx).Error("evaluator stats: ", err.Error())
		return EvaluatorStats{}, ErrDatabase
	}
	var rows []struct {
		Avg *float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		log.Logger().WithContext(ctx).Error("evaluator stats: ", err.Error())
		return EvaluatorStats{}, ErrDatabase
	}
	if len(rows) > 0 {
		stats.AvgTimeSpentSeconds = rows[0].Avg
	}
	return stats, nil
}
