package contracts

import (
	"context"
	"formbridge-service/internal/pkg/fhir_dto"
)

type SubscriptionFhirClient interface {
	FindSubscriptionByCriteria(ctx context.Context, criteria string) (*fhir_dto.Subscription, error)
	CreateSubscription(ctx context.Context, subscription *fhir_dto.Subscription) (*fhir_dto.Subscription, error)
	EnsureSubscription(ctx context.Context, criteria, endpoint string) (*fhir_dto.Subscription, error)
}
