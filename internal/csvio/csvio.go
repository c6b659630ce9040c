package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"showprep-backend/internal/dimension"
	"showprep-backend/internal/model"
	"showprep-backend/internal/status"
	"showprep-backend/internal/validate"
)

// ExportHeaders is the canonical column order used by the template and export.
var ExportHeaders = []string{
	"id", "department", "caseType", "defaultContents", "owner",
	"location", "status", "notes", "lengthIn", "widthIn", "heightIn",
}

// headerAliases maps normalized (lowercase, space-stripped) header cells to
// canonical column names. Sheets exported from spreadsheets arrive with all
// kinds of casing and spacing.
var headerAliases = map[string]string{
	"id":              "id",
	"caseid":          "id",
	"case":            "id",
	"department":      "department",
	"dept":            "department",
	"casetype":        "caseType",
	"type":            "caseType",
	"defaultcontents": "defaultContents",
	"contents":        "defaultContents",
	"owner":           "owner",
	"ownerlabel":      "owner",
	"location":        "location",
	"currentlocation": "location",
	"status":          "status",
	"currentstatus":   "status",
	"notes":           "notes",
	"note":            "notes",
	"lengthin":        "lengthIn",
	"length":          "lengthIn",
	"l":               "lengthIn",
	"widthin":         "widthIn",
	"width":           "widthIn",
	"w":               "widthIn",
	"heightin":        "heightIn",
	"height":          "heightIn",
	"h":               "heightIn",
}

// RowError reports a single rejected import row. Line is 1-based and counts
// the header, matching what the operator sees in their spreadsheet.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Template returns a CSV template with the canonical header and one example row.
func Template() string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(ExportHeaders)
	_ = w.Write([]string{
		"AUD-001", "Audio", "Amp Rack", "2x QSC PLD, power distro", "M. Reyes",
		"Shop", status.LabelInShop, "", "30", "24", "40",
	})
	w.Flush()
	return b.String()
}

// Export writes all cases as CSV in the canonical column order. Status is
// exported as its human-facing label; dimensions as bare inch values.
func Export(w io.Writer, cases []model.Case) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeaders); err != nil {
		return err
	}
	for _, c := range cases {
		row := []string{
			c.ID,
			c.Department,
			c.CaseType,
			c.DefaultContents,
			deref(c.OwnerLabel),
			c.CurrentLocation,
			status.Decode(status.Code(c.CurrentStatus)),
			deref(c.Notes),
			formatAxis(c.LengthIn),
			formatAxis(c.WidthIn),
			formatAxis(c.HeightIn),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseImport reads a CSV stream into cases. Rows that fail validation are
// reported individually; valid rows are still returned so the caller can
// import the good ones. A malformed header or unreadable stream is a
// whole-file error.
func ParseImport(r io.Reader) ([]model.Case, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("could not read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	seen := map[string]bool{}
	for i, cell := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cell), " ", ""))
		if canonical, ok := headerAliases[key]; ok && !seen[canonical] {
			columns[i] = canonical
			seen[canonical] = true
		}
	}
	for _, required := range []string{"id", "department", "caseType", "defaultContents"} {
		if !seen[required] {
			return nil, nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	var cases []model.Case
	var rowErrors []RowError
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: err.Error()})
			continue
		}

		fields := map[string]string{}
		empty := true
		for i, cell := range record {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			value := validate.Normalize(cell)
			fields[columns[i]] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}

		c, err := buildCase(fields)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: err.Error()})
			continue
		}
		cases = append(cases, c)
	}

	return cases, rowErrors, nil
}

func buildCase(fields map[string]string) (model.Case, error) {
	id := strings.ToUpper(fields["id"])
	if err := validate.CaseID(id); err != nil {
		return model.Case{}, err
	}
	if err := validate.Department(fields["department"]); err != nil {
		return model.Case{}, err
	}
	if err := validate.RequiredText("Case type", fields["caseType"], 80); err != nil {
		return model.Case{}, err
	}
	if err := validate.RequiredText("Default contents", fields["defaultContents"], 500); err != nil {
		return model.Case{}, err
	}
	if err := validate.OptionalText("Owner", fields["owner"], 80); err != nil {
		return model.Case{}, err
	}
	if err := validate.OptionalText("Location", fields["location"], 80); err != nil {
		return model.Case{}, err
	}
	if err := validate.OptionalText("Notes", fields["notes"], 400); err != nil {
		return model.Case{}, err
	}

	code, err := parseStatus(fields["status"])
	if err != nil {
		return model.Case{}, err
	}

	location := fields["location"]
	if location == "" {
		location = "Shop"
	}

	c := model.Case{
		ID:              id,
		Department:      fields["department"],
		CaseType:        fields["caseType"],
		DefaultContents: fields["defaultContents"],
		CurrentStatus:   string(code),
		CurrentLocation: location,
		OwnerLabel:      optional(fields["owner"]),
		Notes:           optional(fields["notes"]),
	}

	for _, axis := range []struct {
		name string
		dest **float64
	}{
		{"lengthIn", &c.LengthIn},
		{"widthIn", &c.WidthIn},
		{"heightIn", &c.HeightIn},
	} {
		v, err := dimension.Parse(fields[axis.name])
		if err != nil {
			return model.Case{}, err
		}
		*axis.dest = v
	}

	return c, nil
}

// parseStatus accepts either a human-facing label or a raw internal code.
// Blank means the case starts in the shop.
func parseStatus(value string) (status.Code, error) {
	if value == "" {
		return status.CodeInShop, nil
	}
	if code, err := status.Encode(value); err == nil {
		return code, nil
	}
	if status.ValidCode(value) {
		return status.Code(value), nil
	}
	return "", fmt.Errorf("unknown status: %q", value)
}

func formatAxis(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
