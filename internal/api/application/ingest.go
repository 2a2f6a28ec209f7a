package application

import (
	"bytes"
	"encoding/json"
	"fmt"

	metricsdomain "holostream/internal/metrics/domain"
	"holostream/internal/shared/validation"
	"holostream/pkg/utils"
)

// ParseIngest decodes and validates a whole ingest batch. Nothing is
// returned unless every dispatched entry is valid. Entries whose type is
// neither gauge nor counter are skipped.
func ParseIngest(body []byte) ([]metricsdomain.Metric, error) {
	var req IngestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, validation.NewValidationError(map[string]string{"body": "body must be a JSON object"}, "ingest")
	}

	raw := bytes.TrimSpace(req.Metrics)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, validation.NewValidationError(map[string]string{"metrics": "'metrics' must be an array"}, "ingest")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, validation.NewValidationError(map[string]string{"metrics": "'metrics' must be an array"}, "ingest")
	}

	problems := make(map[string]string)
	metrics := make([]metricsdomain.Metric, 0, len(entries))
	for i, entry := range entries {
		field := fmt.Sprintf("metrics[%d]", i)

		var in IngestMetric
		if err := json.Unmarshal(entry, &in); err != nil {
			problems[field] = "entry must be an object with string labels"
			continue
		}

		kind := metricsdomain.Kind(in.Type)
		if kind != metricsdomain.KindGauge && kind != metricsdomain.KindCounter {
			continue
		}

		if err := utils.CheckName(in.Name); err != nil {
			problems[field+".name"] = err.Error()
		}
		if err := utils.CheckLabels(in.Labels); err != nil {
			problems[field+".labels"] = err.Error()
		}
		if in.Value == nil {
			problems[field+".value"] = "'value' must be a number"
		} else if kind == metricsdomain.KindCounter && *in.Value < 0 {
			problems[field+".value"] = metricsdomain.ErrNegativeDelta.Error()
		}
		if len(problems) > 0 {
			continue
		}

		metrics = append(metrics, metricsdomain.Metric{
			Name:   in.Name,
			Kind:   kind,
			Value:  *in.Value,
			Labels: in.Labels,
			Help:   in.Help,
		})
	}

	if len(problems) > 0 {
		return nil, validation.NewValidationError(problems, "ingest")
	}
	return metrics, nil
}
