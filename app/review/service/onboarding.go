package service

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mtreview/app/review/model"
	"mtreview/common/log"
	"mtreview/common/util"
)

const onboardingPassScore = 70.0

// calibrationBank is the static question set handed to every new test.
// Answer keys never leave the server; the JSON tags on the question type
// strip them.
var calibrationBank = []model.CalibrationQuestion{
	{
		ID:              "1",
		SourceText:      "The weather is beautiful today.",
		TargetText:      "Ang panahon ay maganda ngayon.",
		SourceLanguage:  "English",
		TargetLanguage:  "Tagalog",
		CorrectFluency:  5,
		CorrectAdequacy: 5,
		ErrorCategories: []string{},
		Explanation:     "This is an excellent translation with perfect fluency and adequacy. No errors present.",
	},
	{
		ID:              "2",
		SourceText:      "I will go to the hospital tomorrow.",
		TargetText:      "Ako ay pupunta sa ospital bukas.",
		SourceLanguage:  "English",
		TargetLanguage:  "Tagalog",
		CorrectFluency:  4,
		CorrectAdequacy: 5,
		ErrorCategories: []string{model.ErrorCategoryMinorStylistic},
		Explanation:     "Good translation with complete meaning preserved. Minor stylistic issue - could be more natural as 'Pupunta ako sa ospital bukas.'",
	},
	{
		ID:              "3",
		SourceText:      "She plays the piano very well.",
		TargetText:      "Siya ay naglalaro ng piano nang napakahusay.",
		SourceLanguage:  "English",
		TargetLanguage:  "Tagalog",
		CorrectFluency:  2,
		CorrectAdequacy: 3,
		ErrorCategories: []string{model.ErrorCategoryMinorSemantic, model.ErrorCategoryMajorSemantic},
		Explanation:     "Incorrect verb choice - 'naglalaro' (playing games) instead of 'tumutugtog' (playing instrument). This affects both fluency and adequacy.",
	},
}

// CreateOnboardingTest hands out a fresh calibration test, or the open one
// when the worker already has a test in progress. The partial unique index
// on (workerId, status=in_progress) backstops concurrent creates.
func (svc *ReviewService) CreateOnboardingTest(ctx context.Context, workerID primitive.ObjectID, language string) (model.OnboardingTest, error) {
	if _, err := svc.getWorker(ctx, workerID); err != nil {
		return model.OnboardingTest{}, err
	}

	var existing model.OnboardingTest
	filter := bson.M{"workerId": workerID, "status": model.TestStatusInProgress}
	err := svc.CollectionTests.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		return existing, nil
	}
	if err != mongo.ErrNoDocuments {
		log.Logger().WithContext(ctx).Error("create onboarding test: ", err.Error())
		return model.OnboardingTest{}, ErrDatabase
	}

	test := model.OnboardingTest{
		ID:        primitive.NewObjectID(),
		WorkerID:  workerID,
		Language:  language,
		Questions: calibrationBank,
		Status:    model.TestStatusInProgress,
		StartedAt: util.Now(),
	}
	if _, err := svc.CollectionTests.InsertOne(ctx, test); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the race; the winner's test is the one to hand out.
			if derr := svc.CollectionTests.FindOne(ctx, filter).Decode(&existing); derr == nil {
				return existing, nil
			}
			return model.OnboardingTest{}, Conflict("onboarding test is already in progress")
		}
		log.Logger().WithContext(ctx).Error("create onboarding test: ", err.Error())
		return model.OnboardingTest{}, ErrDatabase
	}

	_, err = svc.CollectionWorkers.UpdateOne(ctx,
		bson.M{"_id": workerID, "onboardingStatus": model.OnboardingPending},
		bson.M{"$set": bson.M{"onboardingStatus": model.OnboardingInProgress}})
	if err != nil {
		log.Logger().WithContext(ctx).Error("create onboarding test: ", err.Error())
		return model.OnboardingTest{}, ErrDatabase
	}
	return test, nil
}

// GradeResult is what a submission gets back.
type GradeResult struct {
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
	Status  string  `json:"status"`
	Message string  `json:"message"`
}

// gradeQuestion scores one answered question out of 20: up to 5 each for
// the fluency and adequacy estimates, up to 10 for error identification.
func gradeQuestion(q model.CalibrationQuestion, a model.CalibrationAnswer) float64 {
	fluency := math.Max(0, 5-math.Abs(float64(a.FluencyScore-q.CorrectFluency)))
	adequacy := math.Max(0, 5-math.Abs(float64(a.AdequacyScore-q.CorrectAdequacy)))

	var errorScore float64
	if len(q.ErrorCategories) == 0 && len(a.IdentifiedErrors) == 0 {
		errorScore = 10
	} else if len(q.ErrorCategories) > 0 {
		expected := make(map[string]struct{}, len(q.ErrorCategories))
		for _, e := range q.ErrorCategories {
			expected[e] = struct{}{}
		}
		var hits, falsePositives int
		seen := make(map[string]struct{}, len(a.IdentifiedErrors))
		for _, e := range a.IdentifiedErrors {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			if _, ok := expected[e]; ok {
				hits++
			} else {
				falsePositives++
			}
		}
		errorScore = math.Max(0, float64(hits)/float64(len(q.ErrorCategories))*10-float64(falsePositives)*2)
	}
	return fluency + adequacy + errorScore
}

// GradeOnboardingTest scores a submission and settles both the test and
// the worker's onboarding status. Skipped questions drop out of the
// denominator rather than counting as zero.
func (svc *ReviewService) GradeOnboardingTest(ctx context.Context, workerID, testID primitive.ObjectID, answers []model.CalibrationAnswer) (GradeResult, error) {
	var test model.OnboardingTest
	filter := bson.M{"_id": testID, "workerId": workerID}
	if err := svc.CollectionTests.FindOne(ctx, filter).Decode(&test); err != nil {
		if err == mongo.ErrNoDocuments {
			return GradeResult{}, NotFound("onboarding test not found")
		}
		log.Logger().WithContext(ctx).Error("grade onboarding test: ", err.Error())
		return GradeResult{}, ErrDatabase
	}
	if test.Status != model.TestStatusInProgress {
		return GradeResult{}, Conflict("onboarding test already completed")
	}

	byQuestion := make(map[string]model.CalibrationAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	var earned, maximum float64
	for _, q := range test.Questions {
		a, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		maximum += 20
		earned += gradeQuestion(q, a)
	}

	var score float64
	if maximum > 0 {
		score = earned / maximum * 100
	}
	passed := score >= onboardingPassScore

	status := model.TestStatusFailed
	if passed {
		status = model.TestStatusCompleted
	}
	now := util.Now()
	detail := model.ScoreDetail{PointsEarned: earned, PointsMax: maximum, Percentage: score}
	update := bson.M{"$set": bson.M{
		"answers":     answers,
		"score":       score,
		"detail":      detail,
		"status":      status,
		"completedAt": now,
	}}
	// Guard on in_progress so two racing submissions cannot both settle.
	result, err := svc.CollectionTests.UpdateOne(ctx,
		bson.M{"_id": testID, "workerId": workerID, "status": model.TestStatusInProgress}, update)
	if err != nil {
		log.Logger().WithContext(ctx).Error("grade onboarding test: ", err.Error())
		return GradeResult{}, ErrDatabase
	}
	if result.MatchedCount == 0 {
		return GradeResult{}, Conflict("onboarding test already completed")
	}

	workerSet := bson.M{"onboardingScore": score}
	if passed {
		workerSet["onboardingStatus"] = model.OnboardingCompleted
		workerSet["onboardedAt"] = now
	} else {
		workerSet["onboardingStatus"] = model.OnboardingFailed
	}
	if _, err := svc.CollectionWorkers.UpdateOne(ctx, bson.M{"_id": workerID}, bson.M{"$set": workerSet}); err != nil {
		log.Logger().WithContext(ctx).Error("grade onboarding test: ", err.Error())
		return GradeResult{}, ErrDatabase
	}

	message := "Please review the guidelines and try again."
	if passed {
		message = "Congratulations! You passed the onboarding test."
	}
	return GradeResult{Score: score, Passed: passed, Status: status, Message: message}, nil
}

func (svc *ReviewService) MyOnboardingTests(ctx context.Context, workerID primitive.ObjectID) ([]model.OnboardingTest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	cursor, err := svc.CollectionTests.Find(ctx, bson.M{"workerId": workerID}, opts)
	if err != nil {
		log.Logger().WithContext(ctx).Error("my onboarding tests: ", err.Error())
		return nil, ErrDatabase
	}
	var tests []model.OnboardingTest
	if err := cursor.All(ctx, &tests); err != nil {
		log.Logger().WithContext(ctx).Error("my onboarding tests: ", err.Error())
		return nil, ErrDatabase
	}
	return tests, nil
}

func (svc *ReviewService) GetOnboardingTest(ctx context.Context, workerID, testID primitive.ObjectID) (model.OnboardingTest, error) {
	var test model.OnboardingTest
	filter := bson.M{"_id": testID, "workerId": workerID}
	if err := svc.CollectionTests.FindOne(ctx, filter).Decode(&test); err != nil {
		if err == mongo.ErrNoDocuments {
			return model.OnboardingTest{}, NotFound("onboarding test not found")
		}
		log.Logger().WithContext(ctx).Error("get onboarding test: ", err.Error())
		return model.OnboardingTest{}, ErrDatabase
	}
	return test, nil
}
