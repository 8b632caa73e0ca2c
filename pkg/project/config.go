package project

import (
	"fmt"
	"os"

	"fiberops-assistant-be/pkg/sheets"

	"gopkg.in/yaml.v3"
)

const (
	FieldSupervisor     = "supervisor"
	FieldFootageTotal   = "footage_total"
	FieldStatus         = "status"
	FieldStartDate      = "start_date"
	FieldCompletionDate = "completion_date"
	FieldCost           = "cost"
	FieldArea           = "area"
	FieldHouseholds     = "households"
)

// SheetSpec is one allow-listed roster sheet and the market used when the identifier header
// does not name one.
type SheetSpec struct {
	Name   string `yaml:"name"`
	Market string `yaml:"market"`
}

// Rules drives the aggregator. Alias lists are normalized header keys.
type Rules struct {
	Sheets []SheetSpec `yaml:"sheets"`

	IdentifierMarker     string `yaml:"identifier_marker"`
	IdentifierDefaultKey string `yaml:"identifier_default_key"`
	RemainingMarker      string `yaml:"remaining_marker"`
	RemainingDefaultKey  string `yaml:"remaining_default_key"`

	ExcludedPhrases []string `yaml:"excluded_phrases"`

	Fields []sheets.FieldAliases `yaml:"-"`
}

func DefaultRules() Rules {
	return Rules{
		Sheets: []SheetSpec{
			{Name: "Active Projects", Market: DefaultMarket},
			{Name: "Residential", Market: "Residential"},
			{Name: "Commercial", Market: "Commercial"},
			{Name: "Rural", Market: "Rural"},
		},
		IdentifierMarker:     "NTP Number",
		IdentifierDefaultKey: "NTP Number",
		RemainingMarker:      "footage remaining",
		RemainingDefaultKey:  "Footage Remaining",
		ExcludedPhrases: []string{
			"repairs",
			"sent to biz ops",
			"splicing projects",
			"maintenance projects",
		},
		Fields: []sheets.FieldAliases{
			{Field: FieldSupervisor, Aliases: []string{"assigned supervisor", "supervisor", "construction supervisor", "cm", "owner"}},
			{Field: FieldFootageTotal, Aliases: []string{"footage ug", "ug footage", "total footage", "footage", "total ug"}},
			{Field: FieldStatus, Aliases: []string{"status", "project status", "construction status"}},
			{Field: FieldStartDate, Aliases: []string{"start date", "ntp date", "date received", "received"}},
			{Field: FieldCompletionDate, Aliases: []string{"completion date", "complete date", "est completion", "due date"}},
			{Field: FieldCost, Aliases: []string{"cost", "total cost", "budget", "estimated cost"}},
			{Field: FieldArea, Aliases: []string{"area", "city", "county", "region"}},
			{Field: FieldHouseholds, Aliases: []string{"households", "hh", "homes passed", "passings"}},
		},
	}
}

// fileRules is the YAML overlay shape; Fields are keyed by canonical name.
type fileRules struct {
	Rules  `yaml:",inline"`
	Fields map[string][]string `yaml:"fields"`
}

// LoadRules overlays the YAML file at path onto the defaults. Empty path returns defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	overlay := fileRules{Rules: rules}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Rules{}, fmt.Errorf("parse rules file: %w", err)
	}

	merged := overlay.Rules
	merged.ExcludedPhrases = normalizeAll(merged.ExcludedPhrases)
	merged.Fields = rules.Fields
	for i, fa := range merged.Fields {
		if aliases, ok := overlay.Fields[fa.Field]; ok && len(aliases) > 0 {
			merged.Fields[i].Aliases = normalizeAll(aliases)
		}
	}
	if len(merged.Sheets) == 0 {
		return Rules{}, fmt.Errorf("rules file %s lists no sheets", path)
	}
	return merged, nil
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = sheets.NormalizeHeader(s)
	}
	return out
}
