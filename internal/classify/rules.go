package classify

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// Sector is one top-level entry of the classification rule table. Sectors
// and their industries are matched in declaration order so tie-breaking is
// reproducible; never load them into a map.
type Sector struct {
	Name       string     `yaml:"name"`
	Keywords   []string   `yaml:"keywords"`
	Industries []Industry `yaml:"industries"`
}

// Industry maps a keyword list to a SIC code within a sector.
type Industry struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	SICCode  string   `yaml:"sic_code"`
	SICText  string   `yaml:"sic_text"`
}

type ruleTable struct {
	Sectors []Sector `yaml:"sectors"`
}

// loadRules parses the embedded rule table.
func loadRules() ([]Sector, error) {
	var table ruleTable
	if err := yaml.Unmarshal(rulesYAML, &table); err != nil {
		return nil, eris.Wrap(err, "classify: parse rule table")
	}
	if len(table.Sectors) == 0 {
		return nil, eris.New("classify: rule table has no sectors")
	}
	for _, s := range table.Sectors {
		if len(s.Industries) == 0 {
			return nil, eris.Errorf("classify: sector %q has no industries", s.Name)
		}
	}
	return table.Sectors, nil
}
