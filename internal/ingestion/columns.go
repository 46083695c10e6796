package ingestion

// Recognized column headers in a Screaming Frog internal export. Address
// and Status Code are required; the rest improve output when present.
const (
	ColAddress      = "Address"
	ColStatusCode   = "Status Code"
	ColIndexability = "Indexability"
	ColTitle        = "Title 1"
	ColDescription  = "Meta Description 1"
	ColH1           = "H1-1"
)

var (
	requiredColumns = []string{ColAddress, ColStatusCode}
	optionalColumns = []string{ColIndexability, ColTitle, ColDescription, ColH1}
)

// ColumnInfo describes which columns the export carried.
type ColumnInfo struct {
	Total           int      `json:"total_columns"`
	RequiredPresent []string `json:"required_present"`
	OptionalPresent []string `json:"optional_present"`
	OptionalMissing []string `json:"optional_missing,omitempty"`
	Additional      []string `json:"additional_columns,omitempty"`
}

// classifyColumns splits a header row into required, recognized-optional and
// ignored columns, and reports which required ones are absent.
func classifyColumns(header []string) (ColumnInfo, []string) {
	present := make(map[string]bool, len(header))
	info := ColumnInfo{Total: len(header)}

	for _, col := range header {
		present[col] = true
		switch {
		case contains(requiredColumns, col):
			info.RequiredPresent = append(info.RequiredPresent, col)
		case contains(optionalColumns, col):
			info.OptionalPresent = append(info.OptionalPresent, col)
		default:
			info.Additional = append(info.Additional, col)
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	for _, col := range optionalColumns {
		if !present[col] {
			info.OptionalMissing = append(info.OptionalMissing, col)
		}
	}
	return info, missing
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
