package domain

import "strings"

// Metric selects the user-user similarity function.
type Metric string

const (
	MetricCosine  Metric = "cosine"
	MetricPearson Metric = "pearson"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricCosine:
		return MetricCosine, nil
	case MetricPearson:
		return MetricPearson, nil
	}
	return "", &ConfigError{Field: "metric", Value: s, Reason: "must be cosine or pearson"}
}

func (m Metric) Valid() bool {
	return m == MetricCosine || m == MetricPearson
}

func (m Metric) String() string {
	return string(m)
}
