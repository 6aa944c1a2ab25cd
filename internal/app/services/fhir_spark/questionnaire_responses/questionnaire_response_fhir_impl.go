package questionnaire_responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"formbridge-service/internal/app/contracts"
	"formbridge-service/internal/app/services/shared/tokenmanager"
	"formbridge-service/internal/pkg/constvars"
	"formbridge-service/internal/pkg/exceptions"
	"formbridge-service/internal/pkg/fhir_dto"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	questionnaireResponseFhirClientInstance contracts.QuestionnaireResponseFhirClient
	onceQuestionnaireResponseFhirClient     sync.Once
)

type questionnaireResponseFhirClient struct {
	BaseUrl    string
	HttpClient *http.Client
	Limiter    *rate.Limiter
	Tokens     *tokenmanager.TokenManager
	Log        *zap.Logger
}

func NewQuestionnaireResponseFhirClient(baseUrl string, requestsPerSecond float64, tokens *tokenmanager.TokenManager, logger *zap.Logger) contracts.QuestionnaireResponseFhirClient {
	onceQuestionnaireResponseFhirClient.Do(func() {
		client := &questionnaireResponseFhirClient{
			BaseUrl:    fmt.Sprintf("%s/%s", baseUrl, constvars.ResourceQuestionnaireResponse),
			HttpClient: &http.Client{},
			Limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
			Tokens:     tokens,
			Log:        logger,
		}
		questionnaireResponseFhirClientInstance = client
	})
	return questionnaireResponseFhirClientInstance
}

// newRequest waits for a rate-limiter slot, then builds the request with the
// FHIR content type and a fresh bearer token.
func (c *questionnaireResponseFhirClient) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrFHIRThrottle(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	token, err := c.Tokens.BearerToken()
	if err != nil {
		return nil, err
	}
	req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+token)
	return req, nil
}

func (c *questionnaireResponseFhirClient) CreateQuestionnaireResponse(ctx context.Context, questionnaireResponse *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("questionnaireResponseFhirClient.CreateQuestionnaireResponse called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	requestJSON, err := json.Marshal(questionnaireResponse)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.CreateQuestionnaireResponse error marshaling JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := c.newRequest(ctx, constvars.MethodPost, c.BaseUrl, bytes.NewBuffer(requestJSON))
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.CreateQuestionnaireResponse error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.CreateQuestionnaireResponse error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusCreated && resp.StatusCode != constvars.StatusOK {
		return nil, c.decodeOutcome(resp, requestID, "CreateQuestionnaireResponse", exceptions.ErrCreateFHIRResource)
	}

	created := new(fhir_dto.QuestionnaireResponse)
	err = json.NewDecoder(resp.Body).Decode(created)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.CreateQuestionnaireResponse error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceQuestionnaireResponse)
	}

	c.Log.Info("questionnaireResponseFhirClient.CreateQuestionnaireResponse succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, created.ID),
	)
	return created, nil
}

func (c *questionnaireResponseFhirClient) UpdateQuestionnaireResponse(ctx context.Context, questionnaireResponse *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("questionnaireResponseFhirClient.UpdateQuestionnaireResponse called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, questionnaireResponse.ID),
	)

	requestJSON, err := json.Marshal(questionnaireResponse)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.UpdateQuestionnaireResponse error marshaling JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := c.newRequest(ctx, constvars.MethodPut, fmt.Sprintf("%s/%s", c.BaseUrl, questionnaireResponse.ID), bytes.NewBuffer(requestJSON))
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.UpdateQuestionnaireResponse error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.UpdateQuestionnaireResponse error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, c.decodeOutcome(resp, requestID, "UpdateQuestionnaireResponse", exceptions.ErrUpdateFHIRResource)
	}

	updated := new(fhir_dto.QuestionnaireResponse)
	err = json.NewDecoder(resp.Body).Decode(updated)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.UpdateQuestionnaireResponse error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceQuestionnaireResponse)
	}

	c.Log.Info("questionnaireResponseFhirClient.UpdateQuestionnaireResponse succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, updated.ID),
	)
	return updated, nil
}

func (c *questionnaireResponseFhirClient) FindQuestionnaireResponseByID(ctx context.Context, questionnaireResponseID string) (*fhir_dto.QuestionnaireResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("questionnaireResponseFhirClient.FindQuestionnaireResponseByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, questionnaireResponseID),
	)

	req, err := c.newRequest(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, questionnaireResponseID), nil)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.FindQuestionnaireResponseByID error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.FindQuestionnaireResponseByID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, c.decodeOutcome(resp, requestID, "FindQuestionnaireResponseByID", exceptions.ErrGetFHIRResource)
	}

	qr := new(fhir_dto.QuestionnaireResponse)
	err = json.NewDecoder(resp.Body).Decode(qr)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.FindQuestionnaireResponseByID error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceQuestionnaireResponse)
	}

	c.Log.Info("questionnaireResponseFhirClient.FindQuestionnaireResponseByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, qr.ID),
	)
	return qr, nil
}

func (c *questionnaireResponseFhirClient) DeleteQuestionnaireResponseByID(ctx context.Context, questionnaireResponseID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("questionnaireResponseFhirClient.DeleteQuestionnaireResponseByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, questionnaireResponseID),
	)

	req, err := c.newRequest(ctx, constvars.MethodDelete, fmt.Sprintf("%s/%s", c.BaseUrl, questionnaireResponseID), nil)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.DeleteQuestionnaireResponseByID error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient.DeleteQuestionnaireResponseByID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusNoContent {
		return c.decodeOutcome(resp, requestID, "DeleteQuestionnaireResponseByID", exceptions.ErrDeleteFHIRResource)
	}

	c.Log.Info("questionnaireResponseFhirClient.DeleteQuestionnaireResponseByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireResponseIDKey, questionnaireResponseID),
	)
	return nil
}

// decodeOutcome reads a non-success response, surfacing the first
// OperationOutcome diagnostic when the store provides one.
func (c *questionnaireResponseFhirClient) decodeOutcome(resp *http.Response, requestID, operation string, buildErr func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Error("questionnaireResponseFhirClient."+operation+" error reading response body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return buildErr(err, constvars.ResourceQuestionnaireResponse)
	}

	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		fhirErrorIssue := errors.New(outcome.Issue[0].Diagnostics)
		c.Log.Error("questionnaireResponseFhirClient."+operation+" FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(fhirErrorIssue),
		)
		return buildErr(fhirErrorIssue, constvars.ResourceQuestionnaireResponse)
	}

	return buildErr(fmt.Errorf("unexpected status code: %d", resp.StatusCode), constvars.ResourceQuestionnaireResponse)
}
