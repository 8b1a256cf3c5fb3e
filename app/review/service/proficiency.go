package service

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mtreview/app/review/model"
	"mtreview/common/dto"
	"mtreview/common/log"
	"mtreview/common/util"
)

type CreateQuestionReq struct {
	Language      string   `json:"language"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

func (r CreateQuestionReq) validate() error {
	if r.Language == "" {
		return Invalid("language is required")
	}
	if r.Question == "" {
		return Invalid("question text is required")
	}
	if len(r.Options) < 2 {
		return Invalid("at least two options are required")
	}
	if r.CorrectOption < 0 || r.CorrectOption >= len(r.Options) {
		return Invalid("correctOption must index into options")
	}
	return nil
}

func (svc *ReviewService) CreateQuestion(ctx context.Context, adminID primitive.ObjectID, req CreateQuestionReq) (model.ProficiencyQuestion, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return model.ProficiencyQuestion{}, err
	}
	if err := req.validate(); err != nil {
		return model.ProficiencyQuestion{}, err
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = model.DifficultyBasic
	}
	now := util.Now()
	question := model.ProficiencyQuestion{
		ID:            primitive.NewObjectID(),
		Language:      req.Language,
		Type:          req.Type,
		Question:      req.Question,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
		Difficulty:    difficulty,
		Active:        true,
		CreatedBy:     &adminID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := svc.CollectionQuestions.InsertOne(ctx, question); err != nil {
		log.Logger().WithContext(ctx).Error("create question: ", err.Error())
		return model.ProficiencyQuestion{}, ErrDatabase
	}
	return question, nil
}

type QuestionPatch struct {
	Language      *string   `json:"language"`
	Type          *string   `json:"type"`
	Question      *string   `json:"question"`
	Options       *[]string `json:"options"`
	CorrectOption *int      `json:"correctOption"`
	Explanation   *string   `json:"explanation"`
	Difficulty    *string   `json:"difficulty"`
	Active        *bool     `json:"active"`
}

func (svc *ReviewService) UpdateQuestion(ctx context.Context, adminID, questionID primitive.ObjectID, patch QuestionPatch) (model.ProficiencyQuestion, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return model.ProficiencyQuestion{}, err
	}
	set := bson.M{"updatedAt": util.Now()}
	setIfPresent(set, "language", patch.Language)
	setIfPresent(set, "type", patch.Type)
	setIfPresent(set, "question", patch.Question)
	setIfPresent(set, "options", patch.Options)
	setIfPresent(set, "correctOption", patch.CorrectOption)
	setIfPresent(set, "explanation", patch.Explanation)
	setIfPresent(set, "difficulty", patch.Difficulty)
	setIfPresent(set, "active", patch.Active)

	var updated model.ProficiencyQuestion
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := svc.CollectionQuestions.FindOneAndUpdate(ctx, bson.M{"_id": questionID}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.ProficiencyQuestion{}, NotFound("question not found")
		}
		log.Logger().WithContext(ctx).Error("update question: ", err.Error())
		return model.ProficiencyQuestion{}, ErrDatabase
	}
	if updated.CorrectOption < 0 || updated.CorrectOption >= len(updated.Options) {
		return model.ProficiencyQuestion{}, Invalid("correctOption must index into options")
	}
	return updated, nil
}

func (svc *ReviewService) DeactivateQuestion(ctx context.Context, adminID, questionID primitive.ObjectID) error {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	result, err := svc.CollectionQuestions.UpdateOne(ctx, bson.M{"_id": questionID},
		bson.M{"$set": bson.M{"active": false, "updatedAt": util.Now()}})
	if err != nil {
		log.Logger().WithContext(ctx).Error("deactivate question: ", err.Error())
		return ErrDatabase
	}
	if result.MatchedCount == 0 {
		return NotFound("question not found")
	}
	return nil
}

type ListQuestionsReq struct {
	Language        string `json:"language" form:"language"`
	Type            string `json:"type" form:"type"`
	Difficulty      string `json:"difficulty" form:"difficulty"`
	IncludeInactive bool   `json:"includeInactive" form:"includeInactive"`
	dto.Pagination
}

func (r ListQuestionsReq) filter() bson.M {
	filter := bson.M{}
	if !r.IncludeInactive {
		filter["active"] = true
	}
	if r.Language != "" {
		filter["language"] = r.Language
	}
	if r.Type != "" {
		filter["type"] = r.Type
	}
	if r.Difficulty != "" {
		filter["difficulty"] = r.Difficulty
	}
	return filter
}

func (svc *ReviewService) ListQuestions(ctx context.Context, adminID primitive.ObjectID, req ListQuestionsReq) ([]model.ProficiencyQuestion, int, error) {
	if _, err := svc.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}
	return svc.findQuestions(ctx, req.filter(), req.Pagination)
}

// PublicQuestions is the worker-facing listing: active questions only,
// answer keys stripped.
func (svc *ReviewService) PublicQuestions(ctx context.Context, language string, page dto.Pagination) ([]model.PublicQuestion, int, error) {
	filter := bson.M{"active": true}
	if language != "" {
		filter["language"] = language
	}
	questions, count, err := svc.findQuestions(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	public := make([]model.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return public, count, nil
}

func (svc *ReviewService) findQuestions(ctx context.Context, filter bson.M, page dto.Pagination) ([]model.ProficiencyQuestion, int, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cursor, err := svc.CollectionQuestions.Find(ctx, filter, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find questions: ", err.Error())
		return nil, 0, ErrDatabase
	}
	var questions []model.ProficiencyQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		log.Logger().WithContext(ctx).Error("find questions: ", err.Error())
		return nil, 0, ErrDatabase
	}
	count, err := svc.CollectionQuestions.CountDocuments(ctx, filter)
	if err != nil {
		log.Logger().WithContext(ctx).Error("find questions: ", err.Error())
		return nil, 0, ErrDatabase
	}
	return questions, int(count), nil
}

// ProficiencyAnswer is one submitted choice.
type ProficiencyAnswer struct {
	QuestionID     primitive.ObjectID `json:"questionId"`
	SelectedOption int                `json:"selectedOption"`
}

// LanguageBreakdown summarizes one language within a sitting.
type LanguageBreakdown struct {
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Score   float64 `json:"score"`
}

type ProficiencyResult struct {
	TotalQuestions int                          `json:"totalQuestions"`
	CorrectAnswers int                          `json:"correctAnswers"`
	Score          float64                      `json:"score"`
	Passed         bool                         `json:"passed"`
	ByLanguage     map[string]LanguageBreakdown `json:"byLanguage"`
	SessionID      string                       `json:"sessionId"`
}

// tallyProficiency scores a sitting against the known questions. Answers
// to unknown question ids stay in the denominator but can never count as
// correct. Every language in languages gets a breakdown entry even when
// no answered question belongs to it, so a claimed language with nothing
// answered reports a zero score rather than being absent.
func tallyProficiency(answers []ProficiencyAnswer, byID map[primitive.ObjectID]model.ProficiencyQuestion, languages []string) ProficiencyResult {
	var correct int
	perLanguage := make(map[string]*LanguageBreakdown)
	for _, a := range answers {
		question, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		breakdown := perLanguage[question.Language]
		if breakdown == nil {
			breakdown = &LanguageBreakdown{}
			perLanguage[question.Language] = breakdown
		}
		breakdown.Total++
		if a.SelectedOption == question.CorrectOption {
			correct++
			breakdown.Correct++
		}
	}

	byLanguage := make(map[string]LanguageBreakdown, len(languages))
	for _, lang := range languages {
		byLanguage[lang] = LanguageBreakdown{}
	}
	for lang, breakdown := range perLanguage {
		entry := *breakdown
		if entry.Total > 0 {
			entry.Score = float64(entry.Correct) / float64(entry.Total) * 100
		}
		byLanguage[lang] = entry
	}

	var score float64
	if len(answers) > 0 {
		score = float64(correct) / float64(len(answers)) * 100
	}
	return ProficiencyResult{
		TotalQuestions: len(answers),
		CorrectAnswers: correct,
		Score:          score,
		Passed:         score >= onboardingPassScore,
		ByLanguage:     byLanguage,
	}
}

// GradeProficiency grades a multiple-choice sitting, appends the audit
// rows, and settles the worker's onboarding status on the same 70 percent
// bar as the calibration test.
func (svc *ReviewService) GradeProficiency(ctx context.Context, workerID primitive.ObjectID, sessionID string, answers []ProficiencyAnswer, languages []string) (ProficiencyResult, error) {
	if _, err := svc.getWorker(ctx, workerID); err != nil {
		return ProficiencyResult{}, err
	}
	if len(answers) == 0 {
		return ProficiencyResult{}, Invalid("at least one answer is required")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ids := make([]primitive.ObjectID, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.QuestionID)
	}
	cursor, err := svc.CollectionQuestions.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Logger().WithContext(ctx).Error("grade proficiency: ", err.Error())
		return ProficiencyResult{}, ErrDatabase
	}
	var questions []model.ProficiencyQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		log.Logger().WithContext(ctx).Error("grade proficiency: ", err.Error())
		return ProficiencyResult{}, ErrDatabase
	}
	byID := make(map[primitive.ObjectID]model.ProficiencyQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	now := util.Now()
	rows := make([]interface{}, 0, len(answers))
	for _, a := range answers {
		question, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		rows = append(rows, model.QuestionAnswer{
			ID:             primitive.NewObjectID(),
			WorkerID:       workerID,
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
			IsCorrect:      a.SelectedOption == question.CorrectOption,
			SessionID:      sessionID,
			AnsweredAt:     now,
		})
	}
	if len(rows) > 0 {
		if _, err := svc.CollectionAnswers.InsertMany(ctx, rows); err != nil {
			log.Logger().WithContext(ctx).Error("grade proficiency: ", err.Error())
			return ProficiencyResult{}, ErrDatabase
		}
	}

	result := tallyProficiency(answers, byID, languages)
	result.SessionID = sessionID

	workerSet := bson.M{"onboardingScore": result.Score}
	if result.Passed {
		workerSet["onboardingStatus"] = model.OnboardingCompleted
		workerSet["onboardedAt"] = now
	} else {
		workerSet["onboardingStatus"] = model.OnboardingFailed
	}
	if _, err := svc.CollectionWorkers.UpdateOne(ctx, bson.M{"_id": workerID}, bson.M{"$set": workerSet}); err != nil {
		log.Logger().WithContext(ctx).Error("grade proficiency: ", err.Error())
		return ProficiencyResult{}, ErrDatabase
	}

	return result, nil
}

// SessionAnswers returns one sitting's audit rows, newest last.
func (svc *ReviewService) SessionAnswers(ctx context.Context, workerID primitive.ObjectID, sessionID string) ([]model.QuestionAnswer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := svc.CollectionAnswers.Find(ctx, bson.M{"workerId": workerID, "sessionId": sessionID}, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("session answers: ", err.Error())
		return nil, ErrDatabase
	}
	var answers []model.QuestionAnswer
	if err := cursor.All(ctx, &answers); err != nil {
		log.Logger().WithContext(ctx).Error("session answers: ", err.Error())
		return nil, ErrDatabase
	}
	return answers, nil
}
