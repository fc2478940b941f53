package types

// Language is an ISO 639-1 style language code attached to an issue
// description
type Language string

// WorkingLanguage is the canonical language all translated descriptions are
// normalized into
const WorkingLanguage Language = "en"

// String returns the string representation of the language code
func (l Language) String() string {
	return string(l)
}
