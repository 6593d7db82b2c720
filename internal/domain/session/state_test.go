package session

import "testing"

func TestAdvance(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		clicked bool
		want    State
	}{
		{"stay idle", NotSearched, false, NotSearched},
		{"search", NotSearched, true, Searched},
		{"stay searched", Searched, false, Searched},
		{"search again", Searched, true, Searched},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.Advance(tc.clicked); got != tc.want {
				t.Errorf("Advance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if NotSearched.String() != "not_searched" || Searched.String() != "searched" {
		t.Error("unexpected state names")
	}
}
