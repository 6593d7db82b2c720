// Package session holds the page search state.
package session

// State is the page search state.
type State int

const (
	// NotSearched shows the placeholder.
	NotSearched State = iota
	// Searched shows the result list.
	Searched
)

// Advance returns the state after a search action. It never moves back.
func (s State) Advance(searchClicked bool) State {
	if searchClicked {
		return Searched
	}
	return s
}

// String returns the state name.
func (s State) String() string {
	if s == Searched {
		return "searched"
	}
	return "not_searched"
}
