package grove

import (
	"github.com/pbanos/grove/dataset"
)

/*
Impute takes a slice of examples and replaces in place every missing
value (dataset.MissingValue) with the most frequent known value of its
attribute across all the examples. When several values share the
highest frequency, the one that reached it first, scanning the examples
in order, wins. Attributes without any known value keep their missing
values, and Class is never imputed.

It returns the values used for each attribute that had at least one
known value.
*/
func Impute(examples []dataset.Example) map[string]string {
	tallies := make(map[string]*dataset.Tally)
	for _, e := range examples {
		for a, v := range e {
			if a == dataset.ClassKey {
				continue
			}
			t, ok := tallies[a]
			if !ok {
				t = dataset.NewTally()
				tallies[a] = t
			}
			if v != dataset.MissingValue {
				t.Add(v)
			}
		}
	}
	modes := make(map[string]string, len(tallies))
	for a, t := range tallies {
		if m, ok := t.Mode(); ok {
			modes[a] = m
		}
	}
	for _, e := range examples {
		for a, v := range e {
			if v != dataset.MissingValue || a == dataset.ClassKey {
				continue
			}
			if m, ok := modes[a]; ok {
				e[a] = m
			}
		}
	}
	return modes
}
