// Package form holds the prediction form's state machine: raw input values,
// touched tracking, validation, the submission lifecycle, and the bounded
// history of recent predictions. It is presentation-agnostic; rendering and
// transport live elsewhere.
package form

import "time"

// FailureMessage is the single user-facing text for any submission failure.
// The cause (transport, status, body shape) is never distinguished to the
// user; it belongs in logs.
const FailureMessage = "Unable to get prediction."

// timestampLayout renders history timestamps for humans.
const timestampLayout = "Jan 2, 2006 3:04:05 PM"

// State is the form controller's entire mutable state. All transitions are
// methods and run on a single goroutine (the UI event loop), so there is no
// locking.
type State struct {
	inputs     map[string]string
	touched    map[string]bool
	pending    map[string]string
	result     *float64
	errMsg     string
	loading    bool
	history    []HistoryEntry
	historyCap int
}

// New returns an idle State with empty inputs. historyCap bounds the
// recent-predictions list; values below 1 fall back to DefaultHistoryCap.
func New(historyCap int) *State {
	if historyCap < 1 {
		historyCap = DefaultHistoryCap
	}
	return &State{
		inputs:     emptyInputs(),
		touched:    make(map[string]bool),
		historyCap: historyCap,
	}
}

func emptyInputs() map[string]string {
	m := make(map[string]string, len(fieldOrder))
	for _, f := range fieldOrder {
		m[f] = ""
	}
	return m
}

// Value returns the raw string currently held for a field.
func (s *State) Value(field string) string { return s.inputs[field] }

// Touched reports whether the user has interacted with the field.
func (s *State) Touched(field string) bool { return s.touched[field] }

// Loading reports whether a submission is in flight.
func (s *State) Loading() bool { return s.loading }

// Result returns the last successful calorie estimate, if any.
func (s *State) Result() (float64, bool) {
	if s.result == nil {
		return 0, false
	}
	return *s.result, true
}

// ErrorMessage returns the last submission failure text, or "".
func (s *State) ErrorMessage() string { return s.errMsg }

// History returns the recent predictions, newest first. The slice is never
// mutated in place; callers may hold on to it across transitions.
func (s *State) History() []HistoryEntry { return s.history }

// Errors recomputes validation for every field, touched or not. Only valid
// fields are absent from the map.
func (s *State) Errors() map[string]string {
	errs := make(map[string]string, len(fieldOrder))
	for _, f := range fieldOrder {
		if msg := Validate(f, s.inputs[f]); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

// VisibleError returns the field's validation message only once the field
// has been touched; untouched fields never surface errors.
func (s *State) VisibleError(field string) string {
	if !s.touched[field] {
		return ""
	}
	return Validate(field, s.inputs[field])
}

// HasErrors reports whether any field currently fails validation,
// regardless of touched state.
func (s *State) HasErrors() bool {
	for _, f := range fieldOrder {
		if Validate(f, s.inputs[f]) != "" {
			return true
		}
	}
	return false
}

// SetField records an edit: the new raw value, the field marked touched,
// and any previously shown outcome (result or failure text) cleared.
// History survives edits.
func (s *State) SetField(field, value string) {
	s.inputs[field] = value
	s.touched[field] = true
	s.errMsg = ""
	s.result = nil
}

// Blur marks a field touched without changing anything else, so its
// validation message becomes visible.
func (s *State) Blur(field string) {
	s.touched[field] = true
}

// Reset clears inputs, touched flags, result, and failure text. History is
// not cleared.
func (s *State) Reset() {
	s.inputs = emptyInputs()
	s.touched = make(map[string]bool)
	s.result = nil
	s.errMsg = ""
}

// BeginSubmit starts a submission attempt. It forces every field touched so
// all validation messages become visible, then gates on validation: when any
// field is invalid it returns false and result, failure text, and loading
// stay exactly as they were. Otherwise it enters the loading state with the
// previous outcome cleared and snapshots the inputs, so the eventual history
// entry records the values as submitted even if fields change while the
// request is in flight. The caller must follow up with exactly one
// ApplySuccess or ApplyFailure.
func (s *State) BeginSubmit() bool {
	for _, f := range fieldOrder {
		s.touched[f] = true
	}
	if s.HasErrors() {
		return false
	}
	snap := make(map[string]string, len(fieldOrder))
	for _, f := range fieldOrder {
		snap[f] = s.inputs[f]
	}
	s.pending = snap
	s.loading = true
	s.result = nil
	s.errMsg = ""
	return true
}

// ApplySuccess completes a submission: records the estimate, prepends a
// history snapshot of the inputs as submitted, truncates history to its cap,
// and leaves the loading state.
func (s *State) ApplySuccess(calories float64, now time.Time) {
	snap := s.pending
	if snap == nil {
		snap = s.inputs
	}
	s.result = &calories
	s.history = pushHistory(s.history, HistoryEntry{
		Age:       snap[FieldAge],
		Duration:  snap[FieldDuration],
		HeartRate: snap[FieldHeartRate],
		BodyTemp:  snap[FieldBodyTemp],
		Calories:  calories,
		When:      now.Format(timestampLayout),
	}, s.historyCap)
	s.pending = nil
	s.loading = false
}

// ApplyFailure completes a submission with the generic failure text and
// leaves the loading state. History keeps whatever it held; the result was
// already cleared when the submission began.
func (s *State) ApplyFailure() {
	s.errMsg = FailureMessage
	s.pending = nil
	s.loading = false
}
