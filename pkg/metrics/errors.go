package metrics

import "errors"

// ErrUnknownStage is returned when totals are published for a stage other
// than StageInitial, StageBalanced or StageFinal.
var ErrUnknownStage = errors.New("unknown metrics stage")
