package subscriptions

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
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	subscriptionFhirClientInstance contracts.SubscriptionFhirClient
	onceSubscriptionFhirClient     sync.Once
)

type subscriptionFhirClient struct {
	BaseUrl    string
	HttpClient *http.Client
	Limiter    *rate.Limiter
	Tokens     *tokenmanager.TokenManager
	Log        *zap.Logger
}

func NewSubscriptionFhirClient(baseUrl string, requestsPerSecond float64, tokens *tokenmanager.TokenManager, logger *zap.Logger) contracts.SubscriptionFhirClient {
	onceSubscriptionFhirClient.Do(func() {
		client := &subscriptionFhirClient{
			BaseUrl:    fmt.Sprintf("%s/%s", baseUrl, constvars.ResourceSubscription),
			HttpClient: &http.Client{},
			Limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
			Tokens:     tokens,
			Log:        logger,
		}
		subscriptionFhirClientInstance = client
	})
	return subscriptionFhirClientInstance
}

func (c *subscriptionFhirClient) newRequest(ctx context.Context, method, requestUrl string, body io.Reader) (*http.Request, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrFHIRThrottle(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestUrl, body)
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

// FindSubscriptionByCriteria searches for a subscription watching the given
// criteria. A nil result with a nil error means no match exists.
func (c *subscriptionFhirClient) FindSubscriptionByCriteria(ctx context.Context, criteria string) (*fhir_dto.Subscription, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("subscriptionFhirClient.FindSubscriptionByCriteria called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	searchUrl := fmt.Sprintf("%s?criteria=%s", c.BaseUrl, url.QueryEscape(criteria))
	req, err := c.newRequest(ctx, constvars.MethodGet, searchUrl, nil)
	if err != nil {
		c.Log.Error("subscriptionFhirClient.FindSubscriptionByCriteria error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.Log.Error("subscriptionFhirClient.FindSubscriptionByCriteria error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, c.decodeOutcome(resp, requestID, "FindSubscriptionByCriteria", exceptions.ErrSearchFHIRResource)
	}

	bundle := new(fhir_dto.Bundle)
	err = json.NewDecoder(resp.Body).Decode(bundle)
	if err != nil {
		c.Log.Error("subscriptionFhirClient.FindSubscriptionByCriteria error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSubscription)
	}

	if len(bundle.Entry) == 0 {
		return nil, nil
	}
	subscription := bundle.Entry[0].Resource
	return &subscription, nil
}

func (c *subscriptionFhirClient) CreateSubscription(ctx context.Context, subscription *fhir_dto.Subscription) (*fhir_dto.Subscription, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("subscriptionFhirClient.CreateSubscription called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	requestJSON, err := json.Marshal(subscription)
	if err != nil {
		c.Log.Error("subscriptionFhirClient.CreateSubscription error marshaling JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := c.newRequest(ctx, constvars.MethodPost, c.BaseUrl, bytes.NewBuffer(requestJSON))
	if err != nil {
		c.Log.Error("subscriptionFhirClient.CreateSubscription error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.Log.Error("subscriptionFhirClient.CreateSubscription error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusCreated && resp.StatusCode != constvars.StatusOK {
		return nil, c.decodeOutcome(resp, requestID, "CreateSubscription", exceptions.ErrCreateFHIRResource)
	}

	created := new(fhir_dto.Subscription)
	err = json.NewDecoder(resp.Body).Decode(created)
	if err != nil {
		c.Log.Error("subscriptionFhirClient.CreateSubscription error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceSubscription)
	}

	c.Log.Info("subscriptionFhirClient.CreateSubscription succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubscriptionIDKey, created.ID),
	)
	return created, nil
}

// EnsureSubscription makes subscription provisioning idempotent across
// restarts: an existing subscription for the criteria is reused, otherwise a
// rest-hook subscription pointing at endpoint is created.
func (c *subscriptionFhirClient) EnsureSubscription(ctx context.Context, criteria, endpoint string) (*fhir_dto.Subscription, error) {
	existing, err := c.FindSubscriptionByCriteria(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		c.Log.Info("subscriptionFhirClient.EnsureSubscription reusing existing subscription",
			zap.String(constvars.LoggingSubscriptionIDKey, existing.ID),
		)
		return existing, nil
	}

	return c.CreateSubscription(ctx, &fhir_dto.Subscription{
		ResourceType: constvars.ResourceSubscription,
		Status:       constvars.FhirSubscriptionStatusRequested,
		Reason:       "Notify downstream systems about converted questionnaire submissions",
		Criteria:     criteria,
		Channel: fhir_dto.SubscriptionChannel{
			Type:     constvars.FhirSubscriptionChannelRestHook,
			Endpoint: endpoint,
			Payload:  constvars.MIMEApplicationFHIRJSON,
		},
	})
}

func (c *subscriptionFhirClient) decodeOutcome(resp *http.Response, requestID, operation string, buildErr func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Error("subscriptionFhirClient."+operation+" error reading response body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return buildErr(err, constvars.ResourceSubscription)
	}

	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		fhirErrorIssue := errors.New(outcome.Issue[0].Diagnostics)
		c.Log.Error("subscriptionFhirClient."+operation+" FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(fhirErrorIssue),
		)
		return buildErr(fhirErrorIssue, constvars.ResourceSubscription)
	}

	return buildErr(fmt.Errorf("unexpected status code: %d", resp.StatusCode), constvars.ResourceSubscription)
}
