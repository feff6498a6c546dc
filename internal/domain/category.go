package domain

// Fixed production category tables. Unknown labels resolve to empty
// codes: the record is still processed and fails path construction
// later instead of aborting the batch.
var catAbrev = map[string]string{
	"Lavagem de Dinheiro": "LD",
	"Crime":               "CR",
	"Fraude":              "FF",
	"Empresarial":         "SE",
	"Ambiental":           "SA",
}

var catPrefix = map[string]string{
	"LD": "N",
	"CR": "C",
	"FF": "N",
	"SE": "E",
	"SA": "A",
}

// Categories lists the known CATEGORIA labels in report order.
func Categories() []string {
	return []string{
		"Lavagem de Dinheiro",
		"Crime",
		"Fraude",
		"Empresarial",
		"Ambiental",
	}
}

// ResolveCategory maps a CATEGORIA label to its two-letter code and
// one-letter path prefix. Both are empty for unrecognized labels.
func ResolveCategory(label string) (abrev, prefix string) {
	abrev = catAbrev[label]
	return abrev, catPrefix[abrev]
}

// Classification carries the downstream labels derived from a record's
// category. Nil labels mean the category has no mapping; mentions are
// still published with NULL classification.
type Classification struct {
	SuspicionType *string
	InfoType      *string
}

type classEntry struct {
	suspicion string
	info      string
}

var categoryMapping = map[string]classEntry{
	"Lavagem de Dinheiro": {"Lavagem de Dinheiro", "DTECFLEX"},
	"Crime":               {"Crimes", "DTECCRIM"},
	"Fraude":              {"Fraude Financeira", "DTECFLEX"},
	"Empresarial":         {"Saúde Empresarial", "DTECEMP"},
	"Ambiental":           {"SocioAmbiental", "DTECAMB"},
}

// Classify returns the (suspicion type, information type) labels for a
// category label.
func Classify(label string) Classification {
	entry, ok := categoryMapping[label]
	if !ok {
		return Classification{}
	}
	return Classification{
		SuspicionType: &entry.suspicion,
		InfoType:      &entry.info,
	}
}
