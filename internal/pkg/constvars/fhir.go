package constvars

const (
	ResourcePatient               = "Patient"
	ResourcePractitioner          = "Practitioner"
	ResourceEncounter             = "Encounter"
	ResourceQuestionnaire         = "Questionnaire"
	ResourceQuestionnaireResponse = "QuestionnaireResponse"
	ResourceSubscription          = "Subscription"
)

const (
	FhirQuestionnaireResponseStatusInProgress     = "in-progress"
	FhirQuestionnaireResponseStatusCompleted      = "completed"
	FhirQuestionnaireResponseStatusAmended        = "amended"
	FhirQuestionnaireResponseStatusEnteredInError = "entered-in-error"
	FhirQuestionnaireResponseStatusStopped        = "stopped"
)

const (
	FhirSubscriptionStatusRequested = "requested"
	FhirSubscriptionStatusActive    = "active"
	FhirSubscriptionChannelRestHook = "rest-hook"
)

// SDC profile carried on every assembled QuestionnaireResponse.
const FhirSDCQuestionnaireResponseProfile = "http://hl7.org/fhir/uv/sdc/StructureDefinition/sdc-questionnaireresponse"

const (
	TerminologySystemAdministrativeGender = "http://hl7.org/fhir/administrative-gender"
	TerminologySystemSNOMED               = "http://snomed.info/sct"
	TerminologySystemRxNorm               = "http://www.nlm.nih.gov/research/umls/rxnorm"
)
