package dialog

import "github.com/m3rciful/linkbot/links"

// Kind classifies the outcome of processing one user message.
type Kind int

const (
	// KindReprompt means the input was rejected; the session is unchanged
	// and the same question is asked again with an error annotation.
	KindReprompt Kind = iota
	// KindAdvance means the session moved to another state (forwards or
	// backwards) and carries that state's prompt.
	KindAdvance
	// KindTerminal means the questionnaire finished; Links holds the
	// composed output and the session has been discarded.
	KindTerminal
)

// Result is what the transport layer renders back to the user.
type Result struct {
	Kind      Kind
	State     State
	Messages  []string
	Options   []string
	AllowBack bool
	// App names the catalog entry the finished session used; set only on
	// terminal results so a restart can preselect it.
	App   string
	Links *links.Set
}
