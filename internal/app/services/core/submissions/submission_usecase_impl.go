package submissions

import (
	"context"
	"fmt"
	"formbridge-service/internal/app/config"
	"formbridge-service/internal/app/contracts"
	"formbridge-service/internal/app/models"
	"formbridge-service/internal/app/services/core/conversions"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/dto/responses"
	"formbridge-service/internal/pkg/exceptions"
	"formbridge-service/internal/pkg/fhir_dto"
	"formbridge-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Cached audit documents expire on their own; amend and retract also
// invalidate eagerly so a stale status never outlives an update.
const submissionCacheExpiration = 15 * time.Minute

type submissionUsecase struct {
	QuestionnaireResponseFhirClient contracts.QuestionnaireResponseFhirClient
	SubmissionRepository            contracts.SubmissionRepository
	StorageService                  contracts.StorageService
	RedisRepository                 contracts.RedisRepository
	InternalConfig                  *config.InternalConfig
	Log                             *zap.Logger

	validator *conversions.ItemValidator
	converter conversions.ItemConverter
	assembler *conversions.ResponseAssembler
}

// NewSubmissionUsecase wires the conversion engine according to the
// configured converter mode and hands back the orchestrator shared by the
// HTTP controller and the queue consumer.
func NewSubmissionUsecase(
	questionnaireResponseFhirClient contracts.QuestionnaireResponseFhirClient,
	submissionRepository contracts.SubmissionRepository,
	storageService contracts.StorageService,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) SubmissionUsecase {
	table := conversions.NewCodingTable()
	formatter := conversions.NewAnswerFormatter(table)

	var converter conversions.ItemConverter
	if internalConfig.App.ConverterMode == constvars.ConverterModeSchema {
		converter = conversions.NewSchemaItemConverter(formatter, table)
	} else {
		converter = conversions.NewGenericItemConverter(formatter)
	}

	return &submissionUsecase{
		QuestionnaireResponseFhirClient: questionnaireResponseFhirClient,
		SubmissionRepository:            submissionRepository,
		StorageService:                  storageService,
		RedisRepository:                 redisRepository,
		InternalConfig:                  internalConfig,
		Log:                             logger,
		validator:                       conversions.NewItemValidator(conversions.DefaultRequiredQuestionIDs),
		converter:                       converter,
		assembler:                       conversions.NewResponseAssembler(),
	}
}

// ProcessSubmission runs the full pipeline: archive the raw payload,
// validate, convert, store on the FHIR server and record the audit document.
// Rejections are recorded too, so a rejected submission stays queryable.
func (uc *submissionUsecase) ProcessSubmission(ctx context.Context, request *requests.CreateSubmission) (*responses.Submission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	submissionID := utils.GenerateSubmissionID()
	uc.Log.Info("submissionUsecase.ProcessSubmission called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubmissionIDKey, submissionID),
		zap.String(constvars.LoggingFormIDKey, request.FormID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	archivedObjectName := uc.archiveRawPayload(ctx, submissionID, request)

	if result := uc.validator.Validate(request.Answers); !result.IsValid {
		if uc.InternalConfig.App.StrictValidation {
			uc.recordAudit(ctx, &models.Submission{
				SubmissionID:       submissionID,
				MessageID:          request.MessageID,
				FormID:             request.FormID,
				PatientID:          request.PatientID,
				Source:             request.Source,
				Status:             constvars.SubmissionStatusRejected,
				ValidationErrors:   result.Errors,
				ArchivedObjectName: archivedObjectName,
			})
			return nil, exceptions.ErrSubmissionValidation(result.Errors)
		}
		uc.Log.Warn("submissionUsecase.ProcessSubmission proceeding despite validation problems",
			zap.String(constvars.LoggingSubmissionIDKey, submissionID),
			zap.Strings("validation_errors", result.Errors),
		)
	}

	questionnaireResponse := uc.convert(request)
	created, err := uc.QuestionnaireResponseFhirClient.CreateQuestionnaireResponse(ctx, questionnaireResponse)
	if err != nil {
		return nil, err
	}

	uc.recordAudit(ctx, &models.Submission{
		SubmissionID:            submissionID,
		MessageID:               request.MessageID,
		FormID:                  request.FormID,
		PatientID:               request.PatientID,
		Source:                  request.Source,
		Status:                  constvars.SubmissionStatusAccepted,
		QuestionnaireResponseID: created.ID,
		ArchivedObjectName:      archivedObjectName,
	})

	uc.Log.Info("submissionUsecase.ProcessSubmission succeeded",
		zap.String(constvars.LoggingSubmissionIDKey, submissionID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, created.ID),
	)

	return &responses.Submission{
		SubmissionID:            submissionID,
		Status:                  constvars.SubmissionStatusAccepted,
		QuestionnaireResponseID: created.ID,
	}, nil
}

// PreviewSubmission converts without touching the FHIR server, mongo or the
// archive bucket. Strict validation still applies so a preview reports the
// same problems a real submission would.
func (uc *submissionUsecase) PreviewSubmission(ctx context.Context, request *requests.CreateSubmission) (*responses.PreviewSubmission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("submissionUsecase.PreviewSubmission called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingFormIDKey, request.FormID),
	)

	if result := uc.validator.Validate(request.Answers); !result.IsValid && uc.InternalConfig.App.StrictValidation {
		return nil, exceptions.ErrSubmissionValidation(result.Errors)
	}

	return &responses.PreviewSubmission{
		QuestionnaireResponse: uc.convert(request),
	}, nil
}

// AmendSubmission re-converts a corrected payload and replaces the stored
// questionnaire response in place, keeping the original submission id and
// resource id stable for downstream consumers.
func (uc *submissionUsecase) AmendSubmission(ctx context.Context, submissionID string, request *requests.CreateSubmission) (*responses.Submission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("submissionUsecase.AmendSubmission called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubmissionIDKey, submissionID),
	)

	audit, err := uc.SubmissionRepository.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if audit == nil {
		return nil, exceptions.ErrSubmissionNotFound(nil)
	}
	if audit.QuestionnaireResponseID == "" {
		return nil, exceptions.ErrSubmissionNotAmendable(nil)
	}

	if result := uc.validator.Validate(request.Answers); !result.IsValid && uc.InternalConfig.App.StrictValidation {
		return nil, exceptions.ErrSubmissionValidation(result.Errors)
	}

	if _, err := uc.QuestionnaireResponseFhirClient.FindQuestionnaireResponseByID(ctx, audit.QuestionnaireResponseID); err != nil {
		return nil, err
	}

	if request.Status == "" {
		request.Status = constvars.FhirQuestionnaireResponseStatusAmended
	}
	questionnaireResponse := uc.convert(request)
	questionnaireResponse.ID = audit.QuestionnaireResponseID
	updated, err := uc.QuestionnaireResponseFhirClient.UpdateQuestionnaireResponse(ctx, questionnaireResponse)
	if err != nil {
		return nil, err
	}

	audit.FormID = request.FormID
	audit.PatientID = request.PatientID
	audit.Source = request.Source
	audit.Status = constvars.SubmissionStatusAccepted
	audit.ValidationErrors = nil
	if err := uc.SubmissionRepository.UpdateSubmission(ctx, audit); err != nil {
		return nil, err
	}
	uc.invalidateCachedSubmission(ctx, submissionID)

	uc.Log.Info("submissionUsecase.AmendSubmission succeeded",
		zap.String(constvars.LoggingSubmissionIDKey, submissionID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, updated.ID),
	)

	return &responses.Submission{
		SubmissionID:            submissionID,
		Status:                  constvars.SubmissionStatusAccepted,
		QuestionnaireResponseID: updated.ID,
	}, nil
}

// RetractSubmission deletes the stored questionnaire response and marks the
// audit document retracted. The audit keeps the resource id for traceability.
func (uc *submissionUsecase) RetractSubmission(ctx context.Context, submissionID string) (*responses.Submission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("submissionUsecase.RetractSubmission called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubmissionIDKey, submissionID),
	)

	audit, err := uc.SubmissionRepository.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if audit == nil {
		return nil, exceptions.ErrSubmissionNotFound(nil)
	}

	if audit.QuestionnaireResponseID != "" {
		if err := uc.QuestionnaireResponseFhirClient.DeleteQuestionnaireResponseByID(ctx, audit.QuestionnaireResponseID); err != nil {
			return nil, err
		}
	}

	audit.Status = constvars.SubmissionStatusRetracted
	if err := uc.SubmissionRepository.UpdateSubmission(ctx, audit); err != nil {
		return nil, err
	}
	uc.invalidateCachedSubmission(ctx, submissionID)

	uc.Log.Info("submissionUsecase.RetractSubmission succeeded",
		zap.String(constvars.LoggingSubmissionIDKey, submissionID),
	)

	return &responses.Submission{
		SubmissionID: submissionID,
		Status:       constvars.SubmissionStatusRetracted,
	}, nil
}

func (uc *submissionUsecase) FindSubmissionByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("submissionUsecase.FindSubmissionByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubmissionIDKey, submissionID),
	)

	if cached := uc.cachedSubmission(ctx, submissionID); cached != nil {
		return cached, nil
	}

	submission, err := uc.SubmissionRepository.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, exceptions.ErrSubmissionNotFound(nil)
	}

	if err := uc.RedisRepository.Set(ctx, constvars.RedisKeySubmissionAuditPrefix+submissionID, submission, submissionCacheExpiration); err != nil {
		uc.Log.Warn("submissionUsecase.FindSubmissionByID error caching audit document",
			zap.String(constvars.LoggingSubmissionIDKey, submissionID),
			zap.Error(err),
		)
	}
	return submission, nil
}

// cachedSubmission is best-effort; any cache problem falls back to mongo.
func (uc *submissionUsecase) cachedSubmission(ctx context.Context, submissionID string) *models.Submission {
	data, err := uc.RedisRepository.Get(ctx, constvars.RedisKeySubmissionAuditPrefix+submissionID)
	if err != nil || data == "" {
		return nil
	}

	submission := new(models.Submission)
	if err := json.Unmarshal([]byte(data), submission); err != nil {
		uc.Log.Warn("submissionUsecase.cachedSubmission error unmarshaling cached audit document",
			zap.String(constvars.LoggingSubmissionIDKey, submissionID),
			zap.Error(err),
		)
		return nil
	}
	return submission
}

func (uc *submissionUsecase) invalidateCachedSubmission(ctx context.Context, submissionID string) {
	if err := uc.RedisRepository.Delete(ctx, constvars.RedisKeySubmissionAuditPrefix+submissionID); err != nil {
		uc.Log.Warn("submissionUsecase error invalidating cached audit document",
			zap.String(constvars.LoggingSubmissionIDKey, submissionID),
			zap.Error(err),
		)
	}
}

func (uc *submissionUsecase) convert(request *requests.CreateSubmission) *fhir_dto.QuestionnaireResponse {
	items := make([]fhir_dto.QuestionnaireResponseItem, 0, len(request.Answers))
	for _, answer := range request.Answers {
		items = append(items, uc.converter.Convert(answer))
	}
	response := uc.assembler.Assemble(items, request.Metadata())
	return &response
}

// archiveRawPayload best-effort stores the inbound body. Archive failures
// never block conversion; they are logged and the audit document simply
// carries no object name.
func (uc *submissionUsecase) archiveRawPayload(ctx context.Context, submissionID string, request *requests.CreateSubmission) string {
	if !uc.InternalConfig.App.ArchiveRawPayloads {
		return ""
	}

	payload, err := json.Marshal(request)
	if err != nil {
		uc.Log.Error("submissionUsecase.archiveRawPayload error marshaling payload",
			zap.String(constvars.LoggingSubmissionIDKey, submissionID),
			zap.Error(err),
		)
		return ""
	}

	objectName := fmt.Sprintf("submissions/%s/%s.json", time.Now().UTC().Format("2006/01/02"), submissionID)
	if err := uc.StorageService.ArchiveRawPayload(ctx, objectName, payload); err != nil {
		uc.Log.Error("submissionUsecase.archiveRawPayload error storing payload",
			zap.String(constvars.LoggingSubmissionIDKey, submissionID),
			zap.Error(err),
		)
		return ""
	}
	return objectName
}

func (uc *submissionUsecase) recordAudit(ctx context.Context, submission *models.Submission) {
	now := time.Now().UTC()
	submission.CreatedAt = now
	submission.UpdatedAt = now
	if err := uc.SubmissionRepository.InsertSubmission(ctx, submission); err != nil {
		uc.Log.Error("submissionUsecase.recordAudit error inserting audit document",
			zap.String(constvars.LoggingSubmissionIDKey, submission.SubmissionID),
			zap.Error(err),
		)
	}
}
