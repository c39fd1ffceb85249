package ai

import "fmt"

// ValidateStructure checks that a parsed-but-untyped analysis object carries
// the required top-level and per-dimension fields with sane types. The check
// is advisory: callers decide whether a failing report gates the pipeline or
// merely logs, since normalization is total either way.
func ValidateStructure(v any) (bool, []string) {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return false, []string{"payload is not an object"}
	}
	var problems []string
	for _, name := range []string{"matchScore", "dimensionAnalysis", "ageAnalysis", "developmentAdvice"} {
		if _, present := field(m, name); !present {
			problems = append(problems, "missing field: "+name)
		}
	}
	if v, present := field(m, "matchScore"); present {
		n, numeric := toNumber(v)
		switch {
		case !numeric:
			problems = append(problems, "matchScore is not numeric")
		case n < 0 || n > 100:
			problems = append(problems, fmt.Sprintf("matchScore out of range: %v", v))
		}
	}
	if v, present := field(m, "dimensionAnalysis"); present {
		dims, isMap := v.(map[string]any)
		if !isMap {
			problems = append(problems, "dimensionAnalysis is not an object")
		} else {
			for dim := range dimensionAliases {
				dv, found := dimensionField(dims, dim)
				if !found {
					problems = append(problems, "missing dimension: "+dim)
					continue
				}
				problems = append(problems, validateDimension(dim, dv)...)
			}
		}
	}
	if v, present := field(m, "ageAnalysis"); present {
		if _, isMap := v.(map[string]any); !isMap {
			problems = append(problems, "ageAnalysis is not an object")
		}
	}
	if v, present := field(m, "developmentAdvice"); present {
		if _, isMap := v.(map[string]any); !isMap {
			problems = append(problems, "developmentAdvice is not an object")
		}
	}
	return len(problems) == 0, problems
}

func validateDimension(dim string, v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return []string{"dimension is not an object: " + dim}
	}
	var problems []string
	if sv, present := field(m, "score"); !present {
		problems = append(problems, "dimension missing score: "+dim)
	} else if n, numeric := toNumber(sv); !numeric || n < 0 || n > 100 {
		problems = append(problems, "dimension score invalid: "+dim)
	}
	for _, name := range []string{"strengths", "challenges"} {
		av, present := field(m, name)
		if !present {
			problems = append(problems, "dimension missing "+name+": "+dim)
			continue
		}
		if _, isArr := av.([]any); !isArr {
			problems = append(problems, "dimension "+name+" is not an array: "+dim)
		}
	}
	return problems
}
