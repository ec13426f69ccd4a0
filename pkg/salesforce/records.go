package salesforce

// Account represents a Salesforce Account record. The __c fields come from
// the optional enrichment package and may be absent in a given org.
type Account struct {
	ID                string  `json:"Id"`
	Name              string  `json:"Name"`
	Website           string  `json:"Website"`
	Industry          string  `json:"Industry"`
	NumberOfEmployees int     `json:"NumberOfEmployees"`
	AnnualRevenue     float64 `json:"AnnualRevenue"`
	Type              string  `json:"Type"`
	LastActivityDate  string  `json:"LastActivityDate"`

	IntentScore   *float64 `json:"Intent_Score__c,omitempty"`
	ProfileFit    string   `json:"Profile_Fit__c,omitempty"`
	GrowthPct     *float64 `json:"Growth_Rate__c,omitempty"`
	FundingSignal string   `json:"Funding_Signal__c,omitempty"`
	TierOverride  string   `json:"Tier_Override__c,omitempty"`
}

// AccountBasicFields are the standard Account fields present in every org.
var AccountBasicFields = []string{
	"Id", "Name", "Website", "Industry",
	"NumberOfEmployees", "AnnualRevenue", "Type", "LastActivityDate",
}

// AccountEnrichmentFields are the optional custom fields the enriched fetch
// adds on top of AccountBasicFields.
var AccountEnrichmentFields = []string{
	"Intent_Score__c", "Profile_Fit__c", "Growth_Rate__c",
	"Funding_Signal__c", "Tier_Override__c",
}

// RelatedAccount is the parent Account relationship. Relationship selects
// like Account.Name come back as a nested object, not a dotted key.
type RelatedAccount struct {
	Name string `json:"Name"`
}

// Opportunity represents a Salesforce Opportunity record. The __c fields
// come from the optional MEDDPICC qualification package.
type Opportunity struct {
	ID                   string          `json:"Id"`
	Name                 string          `json:"Name"`
	AccountID            string          `json:"AccountId"`
	Account              *RelatedAccount `json:"Account,omitempty"`
	Amount               float64         `json:"Amount"`
	StageName            string          `json:"StageName"`
	Probability          float64         `json:"Probability"`
	ForecastCategoryName string          `json:"ForecastCategoryName"`
	Type                 string          `json:"Type"`
	CloseDate            string          `json:"CloseDate"`
	NextStep             string          `json:"NextStep"`
	Description          string          `json:"Description"`
	LastStageChangeDate  string          `json:"LastStageChangeDate"`

	EconomicBuyer    *string `json:"Economic_Buyer__c,omitempty"`
	Champion         *string `json:"Champion__c,omitempty"`
	DecisionCriteria *string `json:"Decision_Criteria__c,omitempty"`
	CompetitionNotes *string `json:"Competition__c,omitempty"`
	PainArticulation *string `json:"Identified_Pain__c,omitempty"`
}

// OpportunityBasicFields are the standard Opportunity fields present in
// every org.
var OpportunityBasicFields = []string{
	"Id", "Name", "AccountId", "Account.Name", "Amount", "StageName",
	"Probability", "ForecastCategoryName", "Type", "CloseDate", "NextStep",
	"Description", "LastStageChangeDate",
}

// OpportunityQualificationFields are the optional MEDDPICC custom fields the
// enriched fetch adds on top of OpportunityBasicFields.
var OpportunityQualificationFields = []string{
	"Economic_Buyer__c", "Champion__c", "Decision_Criteria__c",
	"Competition__c", "Identified_Pain__c",
}
