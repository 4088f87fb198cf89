package hp

import (
	"log"
)

// SweepParam names a config field and the list of values to try for it.
type SweepParam struct {
	Name   string
	Values []string
}

// Sweep expands a base config into one entry per combination of the given
// parameter values, i.e. the full cross product. The first entry has every
// parameter at its first value. Bad field names or values give a *FieldError
// and no partial result.
func Sweep(conf Config, params []SweepParam) ([]Config, error) {
	for _, p := range params {
		if len(p.Values) == 0 {
			return nil, &FieldError{Field: p.Name, Reason: "no values to sweep"}
		}
		var err error
		if conf, err = setField(conf, p.Name, p.Values[0]); err != nil {
			return nil, err
		}
	}
	list, err := permute(conf, params, len(params)-1, []Config{conf})
	if err != nil {
		return nil, err
	}
	log.Printf("sweep: %s cases=%d\n", conf.ExpName, len(list))
	return list, nil
}

func permute(conf Config, params []SweepParam, n int, list []Config) ([]Config, error) {
	if n < 0 {
		return list, nil
	}
	var err error
	for i, val := range params[n].Values {
		if i > 0 {
			if conf, err = setField(conf, params[n].Name, val); err != nil {
				return nil, err
			}
			list = append(list, conf)
		}
		if list, err = permute(conf, params, n-1, list); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func setField(c Config, name, val string) (Config, error) {
	return c.Apply(map[string]string{name: val})
}
