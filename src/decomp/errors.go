package decomp

import "errors"

var (
	// ErrVariableFamilyCollision means a formulation tried to declare a
	// variable family twice, or two families whose names overlap.
	ErrVariableFamilyCollision = errors.New("decomp: variable family name collision")
	ErrInvalidKRange           = errors.New("decomp: invalid range of k")
	ErrUnknownMode             = errors.New("decomp: unknown decomposition mode")
	// ErrBrokenPath means the solver returned edge selections that do not
	// form a source-to-sink walk.
	ErrBrokenPath = errors.New("decomp: selected edges do not form a path")
)
