package types

import (
	"fmt"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/kconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// RuleSet is the repository specific deviation from upstream plus the
// values the derived config must end up with.
type RuleSet struct {
	Overrides []kconfig.Override `yaml:"overrides"`
	Expect    []kconfig.Override `yaml:"expect,omitempty"`
}

// DefaultRuleSet enables Landlock and pins the LSM order.
func DefaultRuleSet() RuleSet {
	lsm := `"` + constants.ExpectedLSM + `"`
	return RuleSet{
		Overrides: []kconfig.Override{
			kconfig.Set("CONFIG_SECURITY", "y"),
			kconfig.Set("CONFIG_SECURITY_LANDLOCK", "y").After("CONFIG_SECURITY"),
			kconfig.Set("CONFIG_LSM", lsm),
		},
		Expect: []kconfig.Override{
			kconfig.Set("CONFIG_LSM", lsm),
		},
	}
}

// LoadRuleSet reads a yaml rule file. An empty path yields DefaultRuleSet.
func LoadRuleSet(fs afero.Fs, path string) (RuleSet, error) {
	if path == "" {
		return DefaultRuleSet(), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("error reading overrides: %v", err)
	}

	var rs RuleSet
	if err := yaml.UnmarshalStrict(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("error overrides %s: %v", path, err)
	}

	for i, o := range rs.Overrides {
		if err := o.Validate(); err != nil {
			return RuleSet{}, fmt.Errorf("error overrides %s: rule %d %v", path, i+1, err)
		}
	}
	for i, o := range rs.Expect {
		if err := o.Validate(); err != nil {
			return RuleSet{}, fmt.Errorf("error overrides %s: expectation %d %v", path, i+1, err)
		}
	}
	return rs, nil
}
