package dataset

import "fmt"

// Error represents an error related with a collection of examples
type Error string

/*
ErrEmptyDataset is the error returned when an operation that needs
at least one example (growing a tree, measuring accuracy, pruning)
is given none.
*/
const ErrEmptyDataset = Error("empty dataset")

func (e Error) Error() string {
	return string(e)
}

/*
MissingAttributeError is the error returned when an example lacks
an attribute it is expected to have, such as the Class label or the
attribute a tree node splits on.
*/
type MissingAttributeError struct {
	Attribute string
}

func (mae *MissingAttributeError) Error() string {
	return fmt.Sprintf("example lacks attribute %q", mae.Attribute)
}
