package analytics

import (
	"errors"
	"fmt"
)

// PieView is the state of the sales profile drill-down
type PieView string

const (
	PieViewBinary   PieView = "binary"
	PieViewServices PieView = "services"
	PieViewProducts PieView = "products"
)

// IsValid checks if the PieView is a valid enum value
func (pv PieView) IsValid() bool {
	switch pv {
	case PieViewBinary, PieViewServices, PieViewProducts:
		return true
	}
	return false
}

// ErrInvalidTransition signals a drill-down move the state machine forbids
var ErrInvalidTransition = errors.New("invalid sales profile transition")

// SelectSlice drills from the binary view into the detail of the selected
// bucket. Only the binary view allows selection, and only into the two
// detail views.
func SelectSlice(current, selected PieView) (PieView, error) {
	if current != PieViewBinary {
		return current, fmt.Errorf("%w: select from %q", ErrInvalidTransition, current)
	}
	if selected != PieViewServices && selected != PieViewProducts {
		return current, fmt.Errorf("%w: select %q", ErrInvalidTransition, selected)
	}
	return selected, nil
}

// GoBack returns from a detail view to the binary view
func GoBack(current PieView) (PieView, error) {
	if current != PieViewServices && current != PieViewProducts {
		return current, fmt.Errorf("%w: back from %q", ErrInvalidTransition, current)
	}
	return PieViewBinary, nil
}
