package pair

import (
	stdjson "encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// The meta block written into exported configs, pinning the evaluation
// engine version the format tracks.
const (
	engineMetaKey     = "great_expectations.__version__"
	engineMetaVersion = "0.3.0"
)

// ExpectationsConfig is the interchange format shared with the evaluation
// engine: snake_case keys, kwargs as structured values. Exports from the
// server produce it and suite/checkpoint imports consume it.
type ExpectationsConfig struct {
	DatasetName  *string                  `json:"dataset_name"`
	Meta         map[string]any           `json:"meta,omitempty"`
	Expectations []ExpectationConfigEntry `json:"expectations"`
}

// ExpectationConfigEntry is one expectation in an expectations config.
type ExpectationConfigEntry struct {
	ExpectationType string         `json:"expectation_type"`
	Kwargs          map[string]any `json:"kwargs"`
}

// ParseExpectationsConfig reads an expectations config document.
func ParseExpectationsConfig(raw []byte) (*ExpectationsConfig, error) {
	var cfg ExpectationsConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, ErrInvalidArgument.MsgErr("could not parse expectations config", err)
	}
	return &cfg, nil
}

// AsJSONString renders the config with sorted keys and two-space
// indentation, the layout the evaluation engine writes itself. Rendering
// goes through encoding/json: jsoniter's MarshalIndent does not compound
// the indent for nested containers.
func (cfg ExpectationsConfig) AsJSONString() (string, error) {
	doc := map[string]any{
		"dataset_name": cfg.DatasetName,
		"expectations": cfg.Expectations,
	}
	if cfg.Meta != nil {
		doc["meta"] = cfg.Meta
	}
	out, err := stdjson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", ErrInvalidArgument.MsgErr("could not render expectations config", err)
	}
	return string(out), nil
}

// expectationInputs converts the config's entries into create inputs,
// serializing each kwargs value back to a JSON string.
func (cfg ExpectationsConfig) expectationInputs() ([]ExpectationInput, error) {
	inputs := make([]ExpectationInput, 0, len(cfg.Expectations))
	for _, e := range cfg.Expectations {
		kwargs, err := json.Marshal(e.Kwargs)
		if err != nil {
			return nil, ErrInvalidArgument.MsgErr("could not encode expectation kwargs", err)
		}
		inputs = append(inputs, ExpectationInput{
			ExpectationType:   e.ExpectationType,
			ExpectationKwargs: string(kwargs),
		})
	}
	return inputs, nil
}

// expectationEntries converts stored expectations back into config entries,
// parsing the kwargs JSON and skipping deactivated expectations unless
// includeInactive is set.
func expectationEntries(expectations []Expectation, includeInactive bool) ([]ExpectationConfigEntry, error) {
	entries := make([]ExpectationConfigEntry, 0, len(expectations))
	for _, e := range expectations {
		if !includeInactive && !e.IsActivated {
			continue
		}
		var kwargs map[string]any
		if e.ExpectationKwargs != "" {
			if err := json.Unmarshal([]byte(e.ExpectationKwargs), &kwargs); err != nil {
				return nil, ErrRemote.MsgErr("stored expectation kwargs are not valid JSON", err)
			}
		}
		entries = append(entries, ExpectationConfigEntry{
			ExpectationType: e.ExpectationType,
			Kwargs:          kwargs,
		})
	}
	return entries, nil
}
