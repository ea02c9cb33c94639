package ops

// Kind names a user-triggered operation against one app.
type Kind int

const (
	Ingest Kind = iota
	Analyze
	Delete
	TopicModel
)

// Kinds lists every operation kind in display order.
var Kinds = []Kind{Ingest, Analyze, Delete, TopicModel}

func (k Kind) String() string {
	switch k {
	case Ingest:
		return "ingest"
	case Analyze:
		return "analyze"
	case Delete:
		return "delete"
	case TopicModel:
		return "topic-model"
	default:
		return "unknown"
	}
}

// Label is the human-facing name shown next to a busy spinner.
func (k Kind) Label() string {
	switch k {
	case Ingest:
		return "Collecting reviews"
	case Analyze:
		return "Analyzing reviews"
	case Delete:
		return "Deleting app"
	case TopicModel:
		return "Extracting topics"
	default:
		return "Working"
	}
}

// ParseKind maps a command-line name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) successText() string {
	switch k {
	case Ingest:
		return "Collected app info and reviews."
	case Analyze:
		return "Review analysis complete."
	case Delete:
		return "App deleted."
	case TopicModel:
		return "Topic modeling complete."
	default:
		return "Done."
	}
}

func (k Kind) fallbackText() string {
	switch k {
	case Ingest:
		return "Failed to collect reviews."
	case Analyze:
		return "Failed to analyze reviews."
	case Delete:
		return "Failed to delete app."
	case TopicModel:
		return "Topic modeling failed."
	default:
		return "Operation failed."
	}
}
