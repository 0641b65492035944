package pipeline

const (
	// StatusIdle indicates a stage that has not started yet.
	StatusIdle = "idle"
	// StatusRunning indicates a stage that is actively executing.
	StatusRunning = "running"
	// StatusDone marks a successfully finished stage.
	StatusDone = "done"
	// StatusError marks a stage that reported a failure.
	StatusError = "error"
)

// Lane stage names, matching the markers emitted by the job server.
const (
	StageCollector = "collector"
	StageExtractor = "extractor"
	StageVerifierA = "verifier-a"
	StageVerifierB = "verifier-b"
	StageVerifierC = "verifier-c"
	StageArbiter   = "arbiter"
)

// Macro phases tracked on the shared stage board, in pipeline order.
const (
	PhaseScout     = "scout"
	PhaseCollector = "collector"
	PhaseExtractor = "extractor"
	PhaseVerifier  = "verifier"
	PhaseArbiter   = "arbiter"
	PhaseShortlist = "shortlist"
)

// Current-stage sentinels used when no lane stage is active.
const (
	CurrentQueued   = "queued"
	CurrentComplete = "complete"
)

var laneStages = []string{
	StageCollector,
	StageExtractor,
	StageVerifierA,
	StageVerifierB,
	StageVerifierC,
	StageArbiter,
}

var macroPhases = []string{
	PhaseScout,
	PhaseCollector,
	PhaseExtractor,
	PhaseVerifier,
	PhaseArbiter,
	PhaseShortlist,
}

// LaneStages returns the closed set of per-bid stage names in pipeline order.
func LaneStages() []string {
	return append([]string(nil), laneStages...)
}

// MacroPhases returns the stage-board phase names in pipeline order.
func MacroPhases() []string {
	return append([]string(nil), macroPhases...)
}

// KnownStage reports whether name belongs to the closed lane stage set.
func KnownStage(name string) bool {
	for _, stage := range laneStages {
		if stage == name {
			return true
		}
	}
	return false
}

// KnownPhase reports whether name is one of the macro phases.
func KnownPhase(name string) bool {
	for _, phase := range macroPhases {
		if phase == name {
			return true
		}
	}
	return false
}

// JobKind identifies one of the four job types the server runs.
type JobKind string

const (
	JobScan      JobKind = "scan"
	JobFetch     JobKind = "fetch"
	JobEvaluate  JobKind = "evaluate"
	JobShortlist JobKind = "shortlist"
)

// MacroPhaseFor maps a lane stage name to the macro phase it contributes to.
// The three verifiers collapse into the single verifier phase.
func MacroPhaseFor(stage string) (string, bool) {
	switch stage {
	case StageCollector:
		return PhaseCollector, true
	case StageExtractor:
		return PhaseExtractor, true
	case StageVerifierA, StageVerifierB, StageVerifierC:
		return PhaseVerifier, true
	case StageArbiter:
		return PhaseArbiter, true
	default:
		return "", false
	}
}
