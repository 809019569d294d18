package output

// VerbosityLevel controls output detail.
type VerbosityLevel int

const (
	// VerbosityDefault shows clean results only (no progress, no statistics).
	VerbosityDefault VerbosityLevel = iota
	// VerbosityVerbose adds statistics and summary info.
	VerbosityVerbose
	// VerbosityDebug adds timestamps and diagnostic messages.
	VerbosityDebug
)

// Phase names one stage of a script's load -> validate -> walk -> permute
// pipeline (spec.md §6's CLI surface: every subcommand runs a subset of
// these in order). Logger.Phase tags its Progress/timing pair with one of
// these instead of a freehand string, so StartTiming/PrintTimingSummary
// report a name consistent across the validate, run and permute commands.
type Phase string

const (
	PhaseLoad     Phase = "load"
	PhaseValidate Phase = "validate"
	PhaseWalk     Phase = "walk"
	PhasePermute  Phase = "permute"
)
