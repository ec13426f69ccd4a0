package quota

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/pkg/salesforce"
)

// SalesforceSource implements Source against the org's User records and
// ForecastingQuota objects.
type SalesforceSource struct {
	client salesforce.Client
}

// NewSalesforceSource creates a SalesforceSource.
func NewSalesforceSource(client salesforce.Client) *SalesforceSource {
	return &SalesforceSource{client: client}
}

func (s *SalesforceSource) NativeQuota(ctx context.Context, subjectID, fieldName string) (float64, error) {
	if fieldName == "" {
		return 0, nil
	}

	soql := salesforce.NewQuery("User").
		Select("Id", fieldName).
		Where("Id", salesforce.OpEq, subjectID).
		Limit(1).
		Build()

	var rows []map[string]any
	if err := s.client.Query(ctx, soql, &rows); err != nil {
		return 0, eris.Wrap(err, fmt.Sprintf("quota: native field %s", fieldName))
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return numericField(rows[0], fieldName), nil
}

func (s *SalesforceSource) PeriodQuota(ctx context.Context, subjectID string, p model.Period) (float64, error) {
	soql := salesforce.NewQuery("ForecastingQuota").
		Select("Id", "QuotaAmount", "StartDate").
		Where("QuotaOwnerId", salesforce.OpEq, subjectID).
		Where("StartDate", salesforce.OpGte, salesforce.Date(p.Start)).
		Where("StartDate", salesforce.OpLte, salesforce.Date(p.End)).
		Build()

	var rows []map[string]any
	if err := s.client.Query(ctx, soql, &rows); err != nil {
		return 0, eris.Wrap(err, "quota: forecasting quota")
	}

	var total float64
	for _, row := range rows {
		total += numericField(row, "QuotaAmount")
	}
	return total, nil
}

// numericField reads a numeric column from a decoded record, tolerating the
// float/int/absent variants the JSON decoding produces.
func numericField(row map[string]any, name string) float64 {
	switch v := row[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
