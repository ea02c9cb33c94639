package ops

// Level distinguishes the three notification states.
type Level int

const (
	None Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "none"
	}
}

// Notification is the single user-visible status line. Exactly one level
// holds at a time; Text is empty when Level is None.
type Notification struct {
	Level Level
	Text  string
}

// IsZero reports whether nothing is being shown.
func (n Notification) IsZero() bool {
	return n.Level == None
}

func successNote(text string) Notification { return Notification{Level: Success, Text: text} }
func errorNote(text string) Notification   { return Notification{Level: Error, Text: text} }
