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

// batchAssessLimit caps one BatchAssess call.
const batchAssessLimit = 10

type CreateAssessmentReq struct {
	WorkItemID primitive.ObjectID `json:"workItemId"`

	// Caller-supplied scores override the model's at creation time.
	FluencyScore  *float64 `json:"fluencyScore"`
	AdequacyScore *float64 `json:"adequacyScore"`
	OverallScore  *float64 `json:"overallScore"`

	TimeSpentSeconds *int   `json:"timeSpentSeconds"`
	HumanFeedback    string `json:"humanFeedback"`
	CorrectionNotes  string `json:"correctionNotes"`
}

func (svc *ReviewService) buildAssessment(item model.WorkItem, evaluatorID primitive.ObjectID) model.QualityAssessment {
	result := svc.Assessor.Assess(item)
	now := util.Now()
	return model.QualityAssessment{
		ID:                    primitive.NewObjectID(),
		WorkItemID:            item.ID,
		EvaluatorID:           evaluatorID,
		FluencyScore:          result.FluencyScore,
		AdequacyScore:         result.AdequacyScore,
		OverallScore:          result.OverallScore,
		SyntaxErrors:          result.SyntaxErrors,
		SemanticErrors:        result.SemanticErrors,
		Explanation:           result.Explanation,
		CorrectionSuggestions: result.CorrectionSuggestions,
		ModelConfidence:       result.ModelConfidence,
		ProcessingTimeMs:      result.ProcessingTimeMs,
		Status:                model.AssessmentStatusCompleted,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// CreateAssessment runs the simulated model over one work item and stores
// the result. Caller-supplied scores replace the model's; everything else
// (error lists, explanation, confidence) always comes from the model run.
func (svc *ReviewService) CreateAssessment(ctx context.Context, evaluatorID primitive.ObjectID, req CreateAssessmentReq) (model.QualityAssessment, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return model.QualityAssessment{}, err
	}
	if req.WorkItemID.IsZero() {
		return model.QualityAssessment{}, Invalid("workItemId is required")
	}
	item, err := svc.GetWorkItem(ctx, req.WorkItemID)
	if err != nil {
		return model.QualityAssessment{}, err
	}

	assessment := svc.buildAssessment(item, evaluatorID)
	if req.FluencyScore != nil {
		assessment.FluencyScore = *req.FluencyScore
	}
	if req.AdequacyScore != nil {
		assessment.AdequacyScore = *req.AdequacyScore
	}
	if req.OverallScore != nil {
		assessment.OverallScore = *req.OverallScore
	}
	assessment.TimeSpentSeconds = req.TimeSpentSeconds
	assessment.HumanFeedback = req.HumanFeedback
	assessment.CorrectionNotes = req.CorrectionNotes

	if _, err := svc.CollectionAssessments.InsertOne(ctx, assessment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.QualityAssessment{}, Conflict("you have already assessed this work item")
		}
		log.Logger().WithContext(ctx).Error("create assessment: ", err.Error())
		return model.QualityAssessment{}, ErrDatabase
	}
	assessmentsRun.Inc()
	return assessment, nil
}

// BatchAssess runs the model over up to ten items. Items already assessed
// by this evaluator, and ids that match nothing, are skipped without error.
func (svc *ReviewService) BatchAssess(ctx context.Context, evaluatorID primitive.ObjectID, itemIDs []primitive.ObjectID) ([]model.QualityAssessment, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return nil, err
	}
	if len(itemIDs) > batchAssessLimit {
		return nil, Invalid("batch size limited to %d work items", batchAssessLimit)
	}

	assessments := []model.QualityAssessment{}
	for _, itemID := range itemIDs {
		err := svc.CollectionAssessments.FindOne(ctx,
			bson.M{"workItemId": itemID, "evaluatorId": evaluatorID}).Err()
		if err == nil {
			continue
		}
		if err != mongo.ErrNoDocuments {
			log.Logger().WithContext(ctx).Error("batch assess: ", err.Error())
			return nil, ErrDatabase
		}

		var item model.WorkItem
		if err := svc.CollectionWorkItems.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			log.Logger().WithContext(ctx).Error("batch assess: ", err.Error())
			return nil, ErrDatabase
		}

		assessment := svc.buildAssessment(item, evaluatorID)
		if _, err := svc.CollectionAssessments.InsertOne(ctx, assessment); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			log.Logger().WithContext(ctx).Error("batch assess: ", err.Error())
			return nil, ErrDatabase
		}
		assessmentsRun.Inc()
		assessments = append(assessments, assessment)
	}
	return assessments, nil
}

// AssessmentPatch holds the human-override fields; the model's error lists
// and explanation are immutable after creation.
type AssessmentPatch struct {
	FluencyScore  *float64 `json:"fluencyScore"`
	AdequacyScore *float64 `json:"adequacyScore"`
	OverallScore  *float64 `json:"overallScore"`

	HumanFeedback    *string `json:"humanFeedback"`
	CorrectionNotes  *string `json:"correctionNotes"`
	TimeSpentSeconds *int    `json:"timeSpentSeconds"`
	Status           *string `json:"status"`
}

func (svc *ReviewService) UpdateAssessment(ctx context.Context, evaluatorID, assessmentID primitive.ObjectID, patch AssessmentPatch) (model.QualityAssessment, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return model.QualityAssessment{}, err
	}
	set := bson.M{"updatedAt": util.Now()}
	setIfPresent(set, "fluencyScore", patch.FluencyScore)
	setIfPresent(set, "adequacyScore", patch.AdequacyScore)
	setIfPresent(set, "overallScore", patch.OverallScore)
	setIfPresent(set, "humanFeedback", patch.HumanFeedback)
	setIfPresent(set, "correctionNotes", patch.CorrectionNotes)
	setIfPresent(set, "timeSpentSeconds", patch.TimeSpentSeconds)
	setIfPresent(set, "status", patch.Status)

	filter := bson.M{"_id": assessmentID, "evaluatorId": evaluatorID}
	var updated model.QualityAssessment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := svc.CollectionAssessments.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.QualityAssessment{}, NotFound("assessment not found")
		}
		log.Logger().WithContext(ctx).Error("update assessment: ", err.Error())
		return model.QualityAssessment{}, ErrDatabase
	}
	return updated, nil
}

// AssessmentByItem returns this evaluator's assessment of the item, or nil
// when none exists. Absence is a normal answer here, not an error.
func (svc *ReviewService) AssessmentByItem(ctx context.Context, evaluatorID, itemID primitive.ObjectID) (*model.QualityAssessment, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return nil, err
	}
	var assessment model.QualityAssessment
	filter := bson.M{"workItemId": itemID, "evaluatorId": evaluatorID}
	if err := svc.CollectionAssessments.FindOne(ctx, filter).Decode(&assessment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		log.Logger().WithContext(ctx).Error("assessment by item: ", err.Error())
		return nil, ErrDatabase
	}
	return &assessment, nil
}

func (svc *ReviewService) findAssessments(ctx context.Context, filter bson.M, page dto.Pagination) ([]model.QualityAssessment, int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cursor, err := svc.CollectionAssessments.Find(ctx, filter, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find assessments: ", err.Error())
		return nil, 0, ErrDatabase
	}
	var assessments []model.QualityAssessment
	if err := cursor.All(ctx, &assessments); err != nil {
		log.Logger().WithContext(ctx).Error("find assessments: ", err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionAssessments.CountDocuments(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find assessments: ", err.Error())
		return nil, 0, ErrDatabase
	}
	return assessments, int(count), nil
}

func (svc *ReviewService) MyAssessments(ctx context.Context, evaluatorID primitive.ObjectID, page dto.Pagination) ([]model.QualityAssessment, int, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return nil, 0, err
	}
	return svc.findAssessments(ctx, bson.M{"evaluatorId": evaluatorID}, page)
}

func (svc *ReviewService) AllAssessments(ctx context.Context, adminID primitive.ObjectID, page dto.Pagination) ([]model.QualityAssessment, int, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}
	return svc.findAssessments(ctx, bson.M{}, page)
}

// assessedItemIDs lists the work items this evaluator has already run the
// model over.
func (svc *ReviewService) assessedItemIDs(ctx context.Context, evaluatorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"workItemId": 1})
	cursor, err := svc.CollectionAssessments.Find(ctx, bson.M{"evaluatorId": evaluatorID}, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("assessed items: ", err.Error())
		return nil, ErrDatabase
	}
	var rows []struct {
		WorkItemID primitive.ObjectID `bson:"workItemId"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		log.Logger().WithContext(ctx).Error("assessed items: ", err.Error())
		return nil, ErrDatabase
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.WorkItemID)
	}
	return ids, nil
}

// PendingAssessmentItems pages through active items the evaluator has not
// assessed yet.
func (svc *ReviewService) PendingAssessmentItems(ctx context.Context, evaluatorID primitive.ObjectID, page dto.Pagination) ([]model.WorkItem, int, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return nil, 0, err
	}
	assessed, err := svc.assessedItemIDs(ctx, evaluatorID)
	if err != nil {
		return nil, 0, err
	}
	filter := bson.M{"active": true}
	if len(assessed) > 0 {
		filter["_id"] = bson.M{"$nin": assessed}
	}
	return svc.findWorkItems(ctx, filter, page)
}

type AssessorStats struct {
	TotalAssessments     int `json:"totalAssessments"`
	CompletedAssessments int `json:"completedAssessments"`
	PendingAssessments   int `json:"pendingAssessments"`

	AvgTimePerAssessment float64 `json:"avgTimePerAssessment"`
	AvgFluencyScore      float64 `json:"avgFluencyScore"`
	AvgAdequacyScore     float64 `json:"avgAdequacyScore"`
	AvgOverallScore      float64 `json:"avgOverallScore"`
	AvgModelConfidence   float64 `json:"avgModelConfidence"`

	TotalSyntaxErrors   int `json:"totalSyntaxErrors"`
	TotalSemanticErrors int `json:"totalSemanticErrors"`

	// Share of completed assessments the evaluator left untouched.
	HumanAgreementRate float64 `json:"humanAgreementRate"`
}

func (svc *ReviewService) AssessorStatistics(ctx context.Context, evaluatorID primitive.ObjectID) (AssessorStats, error) {
	if _, err := svc.requireEvaluator(ctx, evaluatorID); err != nil {
		return AssessorStats{}, err
	}
	stats := AssessorStats{HumanAgreementRate: 1.0}

	total, err := svc.CollectionAssessments.CountDocuments(ctx, bson.M{"evaluatorId": evaluatorID})
	if err != nil {
		log.Logger().WithContext(ctx).Error("assessor stats: ", err.Error())
		return AssessorStats{}, ErrDatabase
	}
	stats.TotalAssessments = int(total)

	_, pending, err := svc.PendingAssessmentItems(ctx, evaluatorID, dto.Pagination{PageIndex: 1, PageSize: 1})
	if err != nil {
		return AssessorStats{}, err
	}
	stats.PendingAssessments = pending

	cursor, err := svc.CollectionAssessments.Find(ctx,
		bson.M{"evaluatorId": evaluatorID, "status": model.AssessmentStatusCompleted})
	if err != nil {
		log.Logger().WithContext(ctx).Error("assessor stats: ", err.Error())
		return AssessorStats{}, ErrDatabase
	}
	var completed []model.QualityAssessment
	if err := cursor.All(ctx, &completed); err != nil {
		log.Logger().WithContext(ctx).Error("assessor stats: ", err.Error())
		return AssessorStats{}, ErrDatabase
	}
	stats.CompletedAssessments = len(completed)
	if len(completed) == 0 {
		return stats, nil
	}

	var fluency, adequacy, overall, confidence, timeSpent float64
	var timed, overrides int
	for _, a := range completed {
		fluency += a.FluencyScore
		adequacy += a.AdequacyScore
		overall += a.OverallScore
		confidence += a.ModelConfidence
		stats.TotalSyntaxErrors += len(a.SyntaxErrors)
		stats.TotalSemanticErrors += len(a.SemanticErrors)
		if a.TimeSpentSeconds != nil {
			timeSpent += float64(*a.TimeSpentSeconds)
			timed++
		}
		if a.Overridden() {
			overrides++
		}
	}
	n := float64(len(completed))
	stats.AvgFluencyScore = fluency / n
	stats.AvgAdequacyScore = adequacy / n
	stats.AvgOverallScore = overall / n
	stats.AvgModelConfidence = confidence / n
	if timed > 0 {
		stats.AvgTimePerAssessment = timeSpent / float64(timed)
	}
	stats.HumanAgreementRate = 1.0 - float64(overrides)/n
	return stats, nil
}
