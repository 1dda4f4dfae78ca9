package params

import (
	"fmt"
	"strings"
)

// ParseVarMod parses the CLI form "unimod_id,mass,residues"
// (e.g. "35,15.994915,M") into a Modification.
func ParseVarMod(s string) (Modification, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Modification{}, fmt.Errorf("invalid var-mod %q: expected unimod_id,mass,residues", s)
	}
	return Modification{
		UniModID:  strings.TrimSpace(parts[0]),
		MassDelta: strings.TrimSpace(parts[1]),
		Residues:  strings.TrimSpace(parts[2]),
	}, nil
}

// ParseVarMods parses a list of CLI var-mod strings.
func ParseVarMods(specs []string) ([]Modification, error) {
	mods := make([]Modification, 0, len(specs))
	for _, s := range specs {
		m, err := ParseVarMod(s)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// EngineArg renders the modification in the engine's --var-mod syntax.
func (m Modification) EngineArg() string {
	return fmt.Sprintf("UniMod:%s,%s,%s", m.UniModID, m.MassDelta, m.Residues)
}
