package cpf

import "errors"

var (
	// ErrBadStopAt indicates a stop-at string that is neither NOSE, FULL nor
	// a numeric lambda target.
	ErrBadStopAt = errors.New("cpf: stop-at must be NOSE, FULL or a numeric lambda")
	// ErrBadParameterization indicates an unrecognized parameterization name.
	ErrBadParameterization = errors.New("cpf: parameterization must be natural, arc or pseudo")
	// ErrBadOptions indicates an invalid option value.
	ErrBadOptions = errors.New("cpf: invalid options")
)
