package selection

import "github.com/temirov/flat/internal/types"

// Model holds the state of an interactive selection session.
type Model struct {
	candidates []types.CandidateFile
	cursor     int
	offset     int
	confirmed  bool
	cancelled  bool
}

// NewModel copies candidates into a new model with the cursor on the first entry.
func NewModel(candidates []types.CandidateFile) *Model {
	return &Model{candidates: append([]types.CandidateFile(nil), candidates...)}
}

// Cursor returns the index of the highlighted candidate.
func (model *Model) Cursor() int {
	return model.cursor
}

// Candidates returns the current candidate state.
func (model *Model) Candidates() []types.CandidateFile {
	return append([]types.CandidateFile(nil), model.candidates...)
}

// Done reports whether the session was confirmed or cancelled.
func (model *Model) Done() bool {
	return model.confirmed || model.cancelled
}

// Cancelled reports whether the user aborted the session.
func (model *Model) Cancelled() bool {
	return model.cancelled
}

// IncludedCount returns the number of candidates currently marked as included.
func (model *Model) IncludedCount() int {
	return len(types.IncludedPaths(model.candidates))
}

// Handle applies one key to the model.
func (model *Model) Handle(key Key) {
	if model.Done() {
		return
	}
	switch key {
	case KeyUp:
		model.MoveCursor(-1)
	case KeyDown:
		model.MoveCursor(1)
	case KeyToggle:
		model.Toggle()
	case KeyToggleAll:
		model.ToggleAll()
	case KeyConfirm:
		model.confirmed = true
	case KeyCancel:
		model.cancelled = true
	}
}

// MoveCursor moves the cursor by delta, clamped to the candidate range.
func (model *Model) MoveCursor(delta int) {
	if len(model.candidates) == 0 {
		return
	}
	model.cursor += delta
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor >= len(model.candidates) {
		model.cursor = len(model.candidates) - 1
	}
}

// Toggle flips the highlighted candidate.
func (model *Model) Toggle() {
	if len(model.candidates) == 0 {
		return
	}
	model.candidates[model.cursor].Included = !model.candidates[model.cursor].Included
}

// ToggleAll excludes every candidate when all are included and includes every candidate otherwise.
func (model *Model) ToggleAll() {
	includeAll := model.IncludedCount() != len(model.candidates)
	for index := range model.candidates {
		model.candidates[index].Included = includeAll
	}
}

// visibleRange returns the half-open window of candidates that fits in height rows
// and keeps the cursor visible.
func (model *Model) visibleRange(height int) (int, int) {
	if height <= 0 || height >= len(model.candidates) {
		model.offset = 0
		return 0, len(model.candidates)
	}
	if model.cursor < model.offset {
		model.offset = model.cursor
	}
	if model.cursor >= model.offset+height {
		model.offset = model.cursor - height + 1
	}
	return model.offset, model.offset + height
}
