package submissions

import (
	"context"
	"testing"
	"time"

	"formbridge-service/internal/app/config"
	"formbridge-service/internal/app/models"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/exceptions"
	"formbridge-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeQuestionnaireResponseClient struct {
	created []*fhir_dto.QuestionnaireResponse
	updated []*fhir_dto.QuestionnaireResponse
	deleted []string
	found   []string
}

func (f *fakeQuestionnaireResponseClient) CreateQuestionnaireResponse(ctx context.Context, qr *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error) {
	stored := *qr
	stored.ID = "qr-1"
	f.created = append(f.created, &stored)
	return &stored, nil
}

func (f *fakeQuestionnaireResponseClient) UpdateQuestionnaireResponse(ctx context.Context, qr *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error) {
	stored := *qr
	f.updated = append(f.updated, &stored)
	return &stored, nil
}

func (f *fakeQuestionnaireResponseClient) FindQuestionnaireResponseByID(ctx context.Context, id string) (*fhir_dto.QuestionnaireResponse, error) {
	f.found = append(f.found, id)
	return &fhir_dto.QuestionnaireResponse{ID: id}, nil
}

func (f *fakeQuestionnaireResponseClient) DeleteQuestionnaireResponseByID(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSubmissionRepository struct {
	inserted  []*models.Submission
	updated   []*models.Submission
	findCalls int
}

func (f *fakeSubmissionRepository) InsertSubmission(ctx context.Context, submission *models.Submission) error {
	f.inserted = append(f.inserted, submission)
	return nil
}

func (f *fakeSubmissionRepository) FindSubmissionByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	f.findCalls++
	for _, submission := range f.inserted {
		if submission.SubmissionID == submissionID {
			return submission, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissionRepository) UpdateSubmission(ctx context.Context, submission *models.Submission) error {
	f.updated = append(f.updated, submission)
	return nil
}

type fakeRedisRepository struct {
	entries map[string]string
}

func (f *fakeRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.entries == nil {
		f.entries = make(map[string]string)
	}
	f.entries[key] = string(data)
	return nil
}

func (f *fakeRedisRepository) SetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	if _, exists := f.entries[key]; exists {
		return false, nil
	}
	return true, f.Set(ctx, key, value, exp)
}

func (f *fakeRedisRepository) Get(ctx context.Context, key string) (string, error) {
	return f.entries[key], nil
}

func (f *fakeRedisRepository) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

type fakeStorageService struct {
	objects map[string][]byte
}

func (f *fakeStorageService) ArchiveRawPayload(ctx context.Context, objectName string, payload []byte) error {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[objectName] = payload
	return nil
}

func testConfig(strict bool, mode string) *config.InternalConfig {
	return &config.InternalConfig{
		App: config.App{
			StrictValidation:   strict,
			ConverterMode:      mode,
			ArchiveRawPayloads: true,
		},
	}
}

func validSubmission() *requests.CreateSubmission {
	return &requests.CreateSubmission{
		FormID:    "test-form-123",
		PatientID: "patient-456",
		Timestamp: "2025-09-13T10:00:00Z",
		Answers: []requests.QuestionAnswerItem{
			{QuestionID: "patient-age", QuestionText: "Age?", Answer: requests.NewNumberAnswer(45)},
			{QuestionID: "patient-gender", QuestionText: "Gender?", Answer: requests.NewStringAnswer("Female")},
			{QuestionID: "current-bmi", QuestionText: "BMI?", Answer: requests.NewNumberAnswer(32.5)},
			{QuestionID: "current-weight", QuestionText: "Weight?", Answer: requests.NewNumberAnswer(89.4)},
			{QuestionID: "comorbidities", QuestionText: "Comorbidities?", Answer: requests.NewStringListAnswer([]string{"Hypertension"})},
			{QuestionID: "previous-weight-loss-medications", QuestionText: "Previous medications?", Answer: requests.NewStringListAnswer([]string{"Orlistat"})},
		},
	}
}

func TestSubmissionUsecase_ProcessSubmission(t *testing.T) {
	t.Run("valid submission is converted, stored and audited", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		repository := &fakeSubmissionRepository{}
		storage := &fakeStorageService{}
		usecase := NewSubmissionUsecase(fhirClient, repository, storage, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		response, err := usecase.ProcessSubmission(context.Background(), validSubmission())

		assert.NoError(t, err)
		assert.NotEmpty(t, response.SubmissionID)
		assert.Equal(t, constvars.SubmissionStatusAccepted, response.Status)
		assert.Equal(t, "qr-1", response.QuestionnaireResponseID)

		assert.Len(t, fhirClient.created, 1)
		created := fhirClient.created[0]
		assert.Equal(t, "Questionnaire/test-form-123", created.Questionnaire)
		assert.Equal(t, "Patient/patient-456", created.Subject.Reference)
		assert.Len(t, created.Item, 6)

		assert.Len(t, repository.inserted, 1)
		audit := repository.inserted[0]
		assert.Equal(t, constvars.SubmissionStatusAccepted, audit.Status)
		assert.Equal(t, "qr-1", audit.QuestionnaireResponseID)
		assert.NotEmpty(t, audit.ArchivedObjectName)

		assert.Len(t, storage.objects, 1)
	})

	t.Run("strict mode rejects incomplete submissions", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		repository := &fakeSubmissionRepository{}
		usecase := NewSubmissionUsecase(fhirClient, repository, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		request := validSubmission()
		request.Answers = request.Answers[:2]

		response, err := usecase.ProcessSubmission(context.Background(), request)

		assert.Nil(t, response)
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)

		assert.Empty(t, fhirClient.created)
		assert.Len(t, repository.inserted, 1)
		audit := repository.inserted[0]
		assert.Equal(t, constvars.SubmissionStatusRejected, audit.Status)
		assert.NotEmpty(t, audit.ValidationErrors)
	})

	t.Run("lenient mode converts despite validation problems", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		repository := &fakeSubmissionRepository{}
		usecase := NewSubmissionUsecase(fhirClient, repository, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(false, constvars.ConverterModeGeneric), zap.NewNop())

		request := validSubmission()
		request.Answers = request.Answers[:2]

		response, err := usecase.ProcessSubmission(context.Background(), request)

		assert.NoError(t, err)
		assert.Equal(t, constvars.SubmissionStatusAccepted, response.Status)
		assert.Len(t, fhirClient.created, 1)
	})

	t.Run("schema mode enriches choices with codings", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		usecase := NewSubmissionUsecase(fhirClient, &fakeSubmissionRepository{}, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeSchema), zap.NewNop())

		_, err := usecase.ProcessSubmission(context.Background(), validSubmission())

		assert.NoError(t, err)
		created := fhirClient.created[0]
		var comorbidities *fhir_dto.QuestionnaireResponseItem
		for index := range created.Item {
			if created.Item[index].LinkID == "comorbidities" {
				comorbidities = &created.Item[index]
			}
		}
		assert.NotNil(t, comorbidities)
		assert.Len(t, comorbidities.Answer, 1)
		assert.NotNil(t, comorbidities.Answer[0].ValueCoding)
		assert.Equal(t, constvars.TerminologySystemSNOMED, comorbidities.Answer[0].ValueCoding.System)
		assert.Equal(t, "38341003", comorbidities.Answer[0].ValueCoding.Code)
	})
}

func TestSubmissionUsecase_PreviewSubmission(t *testing.T) {
	t.Run("preview converts without side effects", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		repository := &fakeSubmissionRepository{}
		storage := &fakeStorageService{}
		usecase := NewSubmissionUsecase(fhirClient, repository, storage, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		response, err := usecase.PreviewSubmission(context.Background(), validSubmission())

		assert.NoError(t, err)
		assert.NotNil(t, response.QuestionnaireResponse)
		assert.Equal(t, constvars.ResourceQuestionnaireResponse, response.QuestionnaireResponse.ResourceType)
		assert.Len(t, response.QuestionnaireResponse.Item, 6)

		assert.Empty(t, fhirClient.created)
		assert.Empty(t, repository.inserted)
		assert.Empty(t, storage.objects)
	})

	t.Run("strict preview reports the same validation problems", func(t *testing.T) {
		usecase := NewSubmissionUsecase(&fakeQuestionnaireResponseClient{}, &fakeSubmissionRepository{}, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		response, err := usecase.PreviewSubmission(context.Background(), &requests.CreateSubmission{
			FormID:    "test-form-123",
			PatientID: "patient-456",
			Timestamp: "2025-09-13T10:00:00Z",
			Answers:   []requests.QuestionAnswerItem{},
		})

		assert.Nil(t, response)
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)
	})
}

func TestSubmissionUsecase_FindSubmissionByID(t *testing.T) {
	repository := &fakeSubmissionRepository{}
	usecase := NewSubmissionUsecase(&fakeQuestionnaireResponseClient{}, repository, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

	t.Run("returns the audit document", func(t *testing.T) {
		response, err := usecase.ProcessSubmission(context.Background(), validSubmission())
		assert.NoError(t, err)

		found, err := usecase.FindSubmissionByID(context.Background(), response.SubmissionID)

		assert.NoError(t, err)
		assert.Equal(t, response.SubmissionID, found.SubmissionID)
		assert.Equal(t, constvars.SubmissionStatusAccepted, found.Status)
	})

	t.Run("unknown id yields not found", func(t *testing.T) {
		found, err := usecase.FindSubmissionByID(context.Background(), "missing")

		assert.Nil(t, found)
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("repeated lookups are served from the cache", func(t *testing.T) {
		repository := &fakeSubmissionRepository{}
		usecase := NewSubmissionUsecase(&fakeQuestionnaireResponseClient{}, repository, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		response, err := usecase.ProcessSubmission(context.Background(), validSubmission())
		assert.NoError(t, err)

		first, err := usecase.FindSubmissionByID(context.Background(), response.SubmissionID)
		assert.NoError(t, err)
		mongoLookups := repository.findCalls

		second, err := usecase.FindSubmissionByID(context.Background(), response.SubmissionID)
		assert.NoError(t, err)
		assert.Equal(t, mongoLookups, repository.findCalls)
		assert.Equal(t, first.SubmissionID, second.SubmissionID)
		assert.Equal(t, first.Status, second.Status)
	})
}

func TestSubmissionUsecase_AmendSubmission(t *testing.T) {
	t.Run("amend replaces the stored questionnaire response in place", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		repository := &fakeSubmissionRepository{}
		redis := &fakeRedisRepository{}
		usecase := NewSubmissionUsecase(fhirClient, repository, &fakeStorageService{}, redis, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		created, err := usecase.ProcessSubmission(context.Background(), validSubmission())
		assert.NoError(t, err)

		amendment := validSubmission()
		amendment.Answers[0].Answer = requests.NewNumberAnswer(46)

		response, err := usecase.AmendSubmission(context.Background(), created.SubmissionID, amendment)

		assert.NoError(t, err)
		assert.Equal(t, created.SubmissionID, response.SubmissionID)
		assert.Equal(t, created.QuestionnaireResponseID, response.QuestionnaireResponseID)

		assert.Equal(t, []string{"qr-1"}, fhirClient.found)
		assert.Len(t, fhirClient.updated, 1)
		updated := fhirClient.updated[0]
		assert.Equal(t, "qr-1", updated.ID)
		assert.Equal(t, constvars.FhirQuestionnaireResponseStatusAmended, updated.Status)
		assert.NotNil(t, updated.Item[0].Answer[0].ValueInteger)
		assert.Equal(t, 46, *updated.Item[0].Answer[0].ValueInteger)

		assert.Len(t, repository.updated, 1)
		assert.Equal(t, constvars.SubmissionStatusAccepted, repository.updated[0].Status)
	})

	t.Run("amend invalidates the cached audit document", func(t *testing.T) {
		repository := &fakeSubmissionRepository{}
		redis := &fakeRedisRepository{}
		usecase := NewSubmissionUsecase(&fakeQuestionnaireResponseClient{}, repository, &fakeStorageService{}, redis, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		created, err := usecase.ProcessSubmission(context.Background(), validSubmission())
		assert.NoError(t, err)

		_, err = usecase.FindSubmissionByID(context.Background(), created.SubmissionID)
		assert.NoError(t, err)
		assert.Contains(t, redis.entries, constvars.RedisKeySubmissionAuditPrefix+created.SubmissionID)

		_, err = usecase.AmendSubmission(context.Background(), created.SubmissionID, validSubmission())
		assert.NoError(t, err)
		assert.NotContains(t, redis.entries, constvars.RedisKeySubmissionAuditPrefix+created.SubmissionID)
	})

	t.Run("unknown submission yields not found", func(t *testing.T) {
		usecase := NewSubmissionUsecase(&fakeQuestionnaireResponseClient{}, &fakeSubmissionRepository{}, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		response, err := usecase.AmendSubmission(context.Background(), "missing", validSubmission())

		assert.Nil(t, response)
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("rejected submission cannot be amended", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		repository := &fakeSubmissionRepository{}
		usecase := NewSubmissionUsecase(fhirClient, repository, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		incomplete := validSubmission()
		incomplete.Answers = incomplete.Answers[:2]
		_, err := usecase.ProcessSubmission(context.Background(), incomplete)
		assert.Error(t, err)
		rejectedID := repository.inserted[0].SubmissionID

		response, err := usecase.AmendSubmission(context.Background(), rejectedID, validSubmission())

		assert.Nil(t, response)
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)
		assert.Empty(t, fhirClient.updated)
	})

	t.Run("strict validation applies to amendments", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		usecase := NewSubmissionUsecase(fhirClient, &fakeSubmissionRepository{}, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		created, err := usecase.ProcessSubmission(context.Background(), validSubmission())
		assert.NoError(t, err)

		amendment := validSubmission()
		amendment.Answers = amendment.Answers[:2]

		response, err := usecase.AmendSubmission(context.Background(), created.SubmissionID, amendment)

		assert.Nil(t, response)
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)
		assert.Empty(t, fhirClient.updated)
	})
}

func TestSubmissionUsecase_RetractSubmission(t *testing.T) {
	t.Run("retract deletes the questionnaire response and marks the audit", func(t *testing.T) {
		fhirClient := &fakeQuestionnaireResponseClient{}
		repository := &fakeSubmissionRepository{}
		usecase := NewSubmissionUsecase(fhirClient, repository, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		created, err := usecase.ProcessSubmission(context.Background(), validSubmission())
		assert.NoError(t, err)

		response, err := usecase.RetractSubmission(context.Background(), created.SubmissionID)

		assert.NoError(t, err)
		assert.Equal(t, constvars.SubmissionStatusRetracted, response.Status)
		assert.Equal(t, []string{"qr-1"}, fhirClient.deleted)
		assert.Len(t, repository.updated, 1)
		assert.Equal(t, constvars.SubmissionStatusRetracted, repository.updated[0].Status)
	})

	t.Run("unknown submission yields not found", func(t *testing.T) {
		usecase := NewSubmissionUsecase(&fakeQuestionnaireResponseClient{}, &fakeSubmissionRepository{}, &fakeStorageService{}, &fakeRedisRepository{}, testConfig(true, constvars.ConverterModeGeneric), zap.NewNop())

		response, err := usecase.RetractSubmission(context.Background(), "missing")

		assert.Nil(t, response)
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}
