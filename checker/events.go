package checker

import "github.com/lukemcguire/zombiecheck/result"

// Event reports progress after each completed link, in completion order.
type Event struct {
	Link     string        // The link just completed
	Status   result.Status // Its status (zero value in list-only mode)
	Checked  int           // Links completed so far
	Problems int           // Problem results reported so far
}
