package fhir_dto

type Subscription struct {
	ResourceType string              `json:"resourceType"`
	ID           string              `json:"id,omitempty"`
	Status       string              `json:"status,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	Criteria     string              `json:"criteria,omitempty"`
	Channel      SubscriptionChannel `json:"channel,omitempty"`
}

type SubscriptionChannel struct {
	Type     string   `json:"type,omitempty"`
	Endpoint string   `json:"endpoint,omitempty"`
	Payload  string   `json:"payload,omitempty"`
	Header   []string `json:"header,omitempty"`
}

// Bundle is the minimal search-result shape the subscription client needs.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type,omitempty"`
	Total        int           `json:"total"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleEntry struct {
	FullURL  string       `json:"fullUrl,omitempty"`
	Resource Subscription `json:"resource,omitempty"`
}
