package domain

const (
	// DefaultNameSuffix is appended to the concatenated state names of a permutation
	// to form the wrapper type name (e.g. "MiddleOn" + "State").
	DefaultNameSuffix = "State"

	// WrappedFieldName is the field of every wrapper holding the wrapped entity.
	WrappedFieldName = "wrapped"

	// ConstructorParamName is the parameter name of every wrapper constructor.
	ConstructorParamName = "entity"

	// NoSuccessor marks a member whose result is a plain value.
	NoSuccessor = -1
)
