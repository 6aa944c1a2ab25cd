package submissions

import (
	"context"
	"encoding/json"
	"formbridge-service/internal/app/config"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/dto/requests"
	"formbridge-service/internal/pkg/dto/responses"
	"formbridge-service/internal/pkg/exceptions"
	"formbridge-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SubmissionController struct {
	Log               *zap.Logger
	SubmissionUsecase SubmissionUsecase
	QueuePublisher    SubmissionQueuePublisher
	RequestTimeout    time.Duration
}

func NewSubmissionController(logger *zap.Logger, submissionUsecase SubmissionUsecase, queuePublisher SubmissionQueuePublisher, internalConfig *config.InternalConfig) *SubmissionController {
	return &SubmissionController{
		Log:               logger,
		SubmissionUsecase: submissionUsecase,
		QueuePublisher:    queuePublisher,
		RequestTimeout:    time.Duration(internalConfig.App.RequestTimeoutInSeconds) * time.Second,
	}
}

func (ctrl *SubmissionController) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreateSubmission)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	response, err := ctrl.SubmissionUsecase.ProcessSubmission(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateSubmissionSuccessMessage, response)
}

func (ctrl *SubmissionController) PreviewSubmission(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreateSubmission)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	response, err := ctrl.SubmissionUsecase.PreviewSubmission(ctx, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PreviewSubmissionSuccessMessage, response)
}

// EnqueueSubmission validates the envelope and hands the payload to the
// queue instead of processing it inline. A message id is minted when the
// caller does not supply one, so the consumer can deduplicate redeliveries.
func (ctrl *SubmissionController) EnqueueSubmission(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreateSubmission)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	if request.MessageID == "" {
		request.MessageID = utils.GenerateMessageID()
	}

	body, err := json.Marshal(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotMarshalJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	if err := ctrl.QueuePublisher.Publish(ctx, body); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.EnqueueSubmissionSuccessMessage, &responses.EnqueueSubmission{
		MessageID: request.MessageID,
	})
}

func (ctrl *SubmissionController) AmendSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, constvars.URLParamSubmissionID)

	request := new(requests.CreateSubmission)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	response, err := ctrl.SubmissionUsecase.AmendSubmission(ctx, submissionID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AmendSubmissionSuccessMessage, response)
}

func (ctrl *SubmissionController) RetractSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, constvars.URLParamSubmissionID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	response, err := ctrl.SubmissionUsecase.RetractSubmission(ctx, submissionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RetractSubmissionSuccessMessage, response)
}

func (ctrl *SubmissionController) FindSubmissionByID(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, constvars.URLParamSubmissionID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	response, err := ctrl.SubmissionUsecase.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindSubmissionSuccessMessage, response)
}
