package output

import (
	"encoding/json"

	"github.com/namelens/namesmith/internal/core"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) FormatCandidates(candidates []core.NameCandidate) (string, error) {
	if candidates == nil {
		candidates = []core.NameCandidate{}
	}
	return f.marshal(candidates)
}

func (f *JSONFormatter) FormatDomains(results []*core.DomainAvailabilityResult) (string, error) {
	if results == nil {
		results = []*core.DomainAvailabilityResult{}
	}
	return f.marshal(results)
}

func (f *JSONFormatter) FormatScores(reports []ScoreReport) (string, error) {
	if reports == nil {
		reports = []ScoreReport{}
	}
	return f.marshal(reports)
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
