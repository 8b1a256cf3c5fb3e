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

type highlightKey struct {
	start    int
	end      int
	textType string
	comment  string
}

// DedupHighlights drops later duplicates of (start, end, textType, comment),
// keeping first-seen order. Submitting the result again is a no-op.
func DedupHighlights(highlights []model.Highlight) []model.Highlight {
	if len(highlights) == 0 {
		return []model.Highlight{}
	}
	seen := make(map[highlightKey]struct{}, len(highlights))
	unique := make([]model.Highlight, 0, len(highlights))
	for _, h := range highlights {
		key := highlightKey{start: h.StartIndex, end: h.EndIndex, textType: h.TextType, comment: h.Comment}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, h)
	}
	return unique
}

func validateScale(name string, score *int) error {
	if score != nil && (*score < 1 || *score > 5) {
		return Invalid("%s must be between 1 and 5", name)
	}
	return nil
}

// setIfPresent is the shared partial-update merge: a nil pointer means the
// field was absent from the request and stays untouched.
func setIfPresent[T any](set bson.M, key string, value *T) {
	if value != nil {
		set[key] = *value
	}
}

type SubmitAnnotationReq struct {
	WorkItemID primitive.ObjectID `json:"workItemId"`

	FluencyScore   *int `json:"fluencyScore"`
	AdequacyScore  *int `json:"adequacyScore"`
	OverallQuality *int `json:"overallQuality"`

	ErrorsFound         string `json:"errorsFound"`
	SuggestedCorrection string `json:"suggestedCorrection"`
	Comments            string `json:"comments"`
	FinalForm           string `json:"finalForm"`

	VoiceRecordingURL      string `json:"voiceRecordingUrl"`
	VoiceRecordingDuration *int   `json:"voiceRecordingDuration"`

	TimeSpentSeconds *int              `json:"timeSpentSeconds"`
	Highlights       []model.Highlight `json:"highlights"`
}

func (r SubmitAnnotationReq) validate() error {
	if r.WorkItemID.IsZero() {
		return Invalid("workItemId is required")
	}
	for _, check := range []struct {
		name  string
		score *int
	}{
		{"fluencyScore", r.FluencyScore},
		{"adequacyScore", r.AdequacyScore},
		{"overallQuality", r.OverallQuality},
	} {
		if err := validateScale(check.name, check.score); err != nil {
			return err
		}
	}
	return nil
}

// SubmitAnnotation records the worker's judgment. Highlights are embedded
// in the document, so the record and its highlight set become visible
// together or not at all. The unique index turns a concurrent duplicate
// into Conflict regardless of the advisory pre-check races.
func (svc *ReviewService) SubmitAnnotation(ctx context.Context, workerID primitive.ObjectID, req SubmitAnnotationReq) (model.Annotation, error) {
	if _, err := svc.onboardingGate(ctx, workerID); err != nil {
		return model.Annotation{}, err
	}
	if err := req.validate(); err != nil {
		return model.Annotation{}, err
	}
	if _, err := svc.GetWorkItem(ctx, req.WorkItemID); err != nil {
		return model.Annotation{}, err
	}

	now := util.Now()
	annotation := model.Annotation{
		ID:                     primitive.NewObjectID(),
		WorkItemID:             req.WorkItemID,
		AnnotatorID:            workerID,
		FluencyScore:           req.FluencyScore,
		AdequacyScore:          req.AdequacyScore,
		OverallQuality:         req.OverallQuality,
		ErrorsFound:            req.ErrorsFound,
		SuggestedCorrection:    req.SuggestedCorrection,
		Comments:               req.Comments,
		FinalForm:              req.FinalForm,
		VoiceRecordingURL:      req.VoiceRecordingURL,
		VoiceRecordingDuration: req.VoiceRecordingDuration,
		TimeSpentSeconds:       req.TimeSpentSeconds,
		Status:                 model.AnnotationStatusCompleted,
		Highlights:             DedupHighlights(req.Highlights),
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if _, err := svc.CollectionAnnotations.InsertOne(ctx, annotation); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Annotation{}, Conflict("you have already annotated this work item")
		}
		log.Logger().WithContext(ctx).Error("submit annotation: ", err.Error())
		return model.Annotation{}, ErrDatabase
	}
	annotationsSubmitted.Inc()
	return annotation, nil
}

// AnnotationPatch carries partial updates: nil fields stay untouched. A
// non-nil Highlights fully replaces the stored set after dedup.
type AnnotationPatch struct {
	FluencyScore   *int `json:"fluencyScore"`
	AdequacyScore  *int `json:"adequacyScore"`
	OverallQuality *int `json:"overallQuality"`

	ErrorsFound         *string `json:"errorsFound"`
	SuggestedCorrection *string `json:"suggestedCorrection"`
	Comments            *string `json:"comments"`
	FinalForm           *string `json:"finalForm"`

	VoiceRecordingURL      *string `json:"voiceRecordingUrl"`
	VoiceRecordingDuration *int    `json:"voiceRecordingDuration"`

	TimeSpentSeconds *int               `json:"timeSpentSeconds"`
	Highlights       *[]model.Highlight `json:"highlights"`
}

func (p AnnotationPatch) validate() error {
	for _, check := range []struct {
		name  string
		score *int
	}{
		{"fluencyScore", p.FluencyScore},
		{"adequacyScore", p.AdequacyScore},
		{"overallQuality", p.OverallQuality},
	} {
		if err := validateScale(check.name, check.score); err != nil {
			return err
		}
	}
	return nil
}

// UpdateAnnotation applies a partial update. Only the owning worker may
// update; an unowned id reads as NotFound.
func (svc *ReviewService) UpdateAnnotation(ctx context.Context, workerID, annotationID primitive.ObjectID, patch AnnotationPatch) (model.Annotation, error) {
	if err := patch.validate(); err != nil {
		return model.Annotation{}, err
	}
	set := bson.M{"updatedAt": util.Now()}
	setIfPresent(set, "fluencyScore", patch.FluencyScore)
	setIfPresent(set, "adequacyScore", patch.AdequacyScore)
	setIfPresent(set, "overallQuality", patch.OverallQuality)
	setIfPresent(set, "errorsFound", patch.ErrorsFound)
	setIfPresent(set, "suggestedCorrection", patch.SuggestedCorrection)
	setIfPresent(set, "comments", patch.Comments)
	setIfPresent(set, "finalForm", patch.FinalForm)
	setIfPresent(set, "voiceRecordingUrl", patch.VoiceRecordingURL)
	setIfPresent(set, "voiceRecordingDuration", patch.VoiceRecordingDuration)
	setIfPresent(set, "timeSpentSeconds", patch.TimeSpentSeconds)
	if patch.Highlights != nil {
		set["highlights"] = DedupHighlights(*patch.Highlights)
	}

	filter := bson.M{"_id": annotationID, "annotatorId": workerID}
	var updated model.Annotation
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := svc.CollectionAnnotations.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.Annotation{}, NotFound("annotation not found")
		}
		log.Logger().WithContext(ctx).Error("update annotation: ", err.Error())
		return model.Annotation{}, ErrDatabase
	}
	return updated, nil
}

// DeleteAnnotation removes the annotation and every evaluation referencing
// it in one transaction; the embedded highlights go with the document.
func (svc *ReviewService) DeleteAnnotation(ctx context.Context, workerID, annotationID primitive.ObjectID) error {
	filter := bson.M{"_id": annotationID, "annotatorId": workerID}
	if err := svc.CollectionAnnotations.FindOne(ctx, filter).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return NotFound("annotation not found")
		}
		log.Logger().WithContext(ctx).Error("delete annotation: ", err.Error())
		return ErrDatabase
	}

	session, err := svc.MongodbClient.StartSession()
	if err != nil {
		log.Logger().WithContext(ctx).Error("delete annotation: ", err.Error())
		return ErrDatabase
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := svc.CollectionEvaluations.DeleteMany(sc, bson.M{"annotationId": annotationID}); err != nil {
			return nil, err
		}
		if _, err := svc.CollectionAnnotations.DeleteOne(sc, filter); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		log.Logger().WithContext(ctx).Error("delete annotation: ", err.Error())
		return ErrDatabase
	}
	return nil
}

func (svc *ReviewService) GetAnnotation(ctx context.Context, workerID, annotationID primitive.ObjectID) (model.Annotation, error) {
	var annotation model.Annotation
	filter := bson.M{"_id": annotationID, "annotatorId": workerID}
	if err := svc.CollectionAnnotations.FindOne(ctx, filter).Decode(&annotation); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.Annotation{}, NotFound("annotation not found")
		}
		log.Logger().WithContext(ctx).Error("get annotation: ", err.Error())
		return model.Annotation{}, ErrDatabase
	}
	return annotation, nil
}

func (svc *ReviewService) findAnnotations(ctx context.Context, filter bson.M, page dto.Pagination) ([]model.Annotation, int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cursor, err := svc.CollectionAnnotations.Find(ctx, filter, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find annotations: ", err.Error())
		return nil, 0, ErrDatabase
	}
	var annotations []model.Annotation
	if err := cursor.All(ctx, &annotations); err != nil {
		log.Logger().WithContext(ctx).Error("find annotations: ", err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionAnnotations.CountDocuments(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find annotations: ", err.Error())
		return nil, 0, ErrDatabase
	}
	return annotations, int(count), nil
}

func (svc *ReviewService) MyAnnotations(ctx context.Context, workerID primitive.ObjectID, page dto.Pagination) ([]model.Annotation, int, error) {
	return svc.findAnnotations(ctx, bson.M{"annotatorId": workerID}, page)
}

func (svc *ReviewService) AllAnnotations(ctx context.Context, adminID primitive.ObjectID, page dto.Pagination) ([]model.Annotation, int, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}
	return svc.findAnnotations(ctx, bson.M{}, page)
}

func (svc *ReviewService) AnnotationsByItem(ctx context.Context, adminID, itemID primitive.ObjectID) ([]model.Annotation, int, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}
	return svc.findAnnotations(ctx, bson.M{"workItemId": itemID}, dto.Pagination{PageSize: 100})
}
