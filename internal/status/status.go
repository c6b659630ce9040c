package status

import "fmt"

// Code is the internal representation of a case status, as stored on the
// projection and in the event log.
type Code string

const (
	CodeInShop          Code = "IN_SHOP"
	CodePacking         Code = "PACKING"
	CodePacked          Code = "PACKED"
	CodeStagedDock      Code = "STAGED_DOCK"
	CodeLoaded          Code = "LOADED"
	CodeArrivedUnloaded Code = "ARRIVED_UNLOADED"
	CodeReturning       Code = "RETURNING"
	CodeBackInShop      Code = "BACK_IN_SHOP"
	CodeIssue           Code = "ISSUE"
)

const (
	LabelInShop          = "In Shop"
	LabelPacking         = "Packing"
	LabelPacked          = "Packed"
	LabelStagedDock      = "Staged (Dock)"
	LabelLoaded          = "Loaded"
	LabelArrivedUnloaded = "Arrived / Unloaded"
	LabelReturning       = "Returning"
	LabelBackInShop      = "Back in Shop"
	LabelIssue           = "Issue"
)

var labelToCode = map[string]Code{
	LabelInShop:          CodeInShop,
	LabelPacking:         CodePacking,
	LabelPacked:          CodePacked,
	LabelStagedDock:      CodeStagedDock,
	LabelLoaded:          CodeLoaded,
	LabelArrivedUnloaded: CodeArrivedUnloaded,
	LabelReturning:       CodeReturning,
	LabelBackInShop:      CodeBackInShop,
	LabelIssue:           CodeIssue,
}

var codeToLabel = map[Code]string{
	CodeInShop:          LabelInShop,
	CodePacking:         LabelPacking,
	CodePacked:          LabelPacked,
	CodeStagedDock:      LabelStagedDock,
	CodeLoaded:          LabelLoaded,
	CodeArrivedUnloaded: LabelArrivedUnloaded,
	CodeReturning:       LabelReturning,
	CodeBackInShop:      LabelBackInShop,
	CodeIssue:           LabelIssue,
}

// Encode maps a human-facing status label to its internal code. An
// unrecognized label is a caller error; validate before persisting.
func Encode(label string) (Code, error) {
	code, ok := labelToCode[label]
	if !ok {
		return "", fmt.Errorf("unknown status label: %q", label)
	}
	return code, nil
}

// Decode maps an internal code back to its label. Unknown codes fall back to
// "In Shop" rather than failing; rows predating a vocabulary change must still
// render.
func Decode(code Code) string {
	if label, ok := codeToLabel[code]; ok {
		return label
	}
	return LabelInShop
}

// ValidCode reports whether s is one of the nine internal codes. Used by CSV
// import, which accepts raw codes as well as labels.
func ValidCode(s string) bool {
	_, ok := codeToLabel[Code(s)]
	return ok
}

// Labels returns the nine labels in pipeline order.
func Labels() []string {
	return []string{
		LabelInShop,
		LabelPacking,
		LabelPacked,
		LabelStagedDock,
		LabelLoaded,
		LabelArrivedUnloaded,
		LabelReturning,
		LabelBackInShop,
		LabelIssue,
	}
}
