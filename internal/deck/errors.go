package deck

import "errors"

var (
	// ErrMalformedDeck means the deck page is missing the structural
	// markers the parser depends on. User-correctable, fatal for the
	// run.
	ErrMalformedDeck = errors.New("cannot read card entries from deck page")

	// ErrEmptyDeck means no card in the input list could be resolved.
	ErrEmptyDeck = errors.New("deck resolved to no cards")

	// ErrCommanderNotFound means a named commander could not be
	// resolved. A commander reference implies author intent, so it is
	// never silently dropped.
	ErrCommanderNotFound = errors.New("commander could not be resolved")
)
