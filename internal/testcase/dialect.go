package testcase

// Dialect is the URI of the JSON Schema specification version that governs
// how a case's schemas are interpreted.
type Dialect string

// Well-known dialects.
const (
	Draft202012 Dialect = "https://json-schema.org/draft/2020-12/schema"
	Draft201909 Dialect = "https://json-schema.org/draft/2019-09/schema"
	Draft7      Dialect = "http://json-schema.org/draft-07/schema#"
	Draft6      Dialect = "http://json-schema.org/draft-06/schema#"
	Draft4      Dialect = "http://json-schema.org/draft-04/schema#"
	Draft3      Dialect = "http://json-schema.org/draft-03/schema#"
)

var shortNames = map[Dialect]string{
	Draft202012: "2020-12",
	Draft201909: "2019-09",
	Draft7:      "7",
	Draft6:      "6",
	Draft4:      "4",
	Draft3:      "3",
}

// ShortName returns a compact name such as "2020-12", or the URI itself for
// dialects it does not know.
func (d Dialect) ShortName() string {
	if name, ok := shortNames[d]; ok {
		return name
	}
	return string(d)
}

// DialectNamed resolves a short name or URI to a Dialect.
func DialectNamed(name string) (Dialect, bool) {
	for d, short := range shortNames {
		if short == name || string(d) == name {
			return d, true
		}
	}
	return "", false
}

// Known reports whether d is one of the well-known dialects.
func (d Dialect) Known() bool {
	_, ok := shortNames[d]
	return ok
}
