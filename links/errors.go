package links

import "fmt"

// DuplicateAssignmentError indicates a variable path was assigned to two
// links of one message.
type DuplicateAssignmentError struct {
	Message  string
	Variable string
	First    string
	Second   string
}

func (e DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("variable %s assigned to links %s and %s of message %s",
		e.Variable, e.First, e.Second, e.Message)
}

func (e DuplicateAssignmentError) Is(target error) bool {
	_, ok := target.(DuplicateAssignmentError)
	return ok
}

// RateMismatchError indicates a link rate that does not divide its message's
// rate.
type RateMismatchError struct {
	Message     string
	Link        string
	LinkRate    int
	MessageRate int
}

func (e RateMismatchError) Error() string {
	return fmt.Sprintf("link %s rate %d does not divide message %s rate %d",
		e.Link, e.LinkRate, e.Message, e.MessageRate)
}

func (e RateMismatchError) Is(target error) bool {
	_, ok := target.(RateMismatchError)
	return ok
}
