package base

const (
	// CanUseJSONMode indicates the provider can constrain output to JSON.
	CanUseJSONMode string = "can-use-json-mode"
	// CanUseSystemInstruction indicates the provider accepts a dedicated system instruction.
	CanUseSystemInstruction string = "can-use-system-instruction"
)
