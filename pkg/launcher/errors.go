package launcher

import "errors"

var (
	// ErrCancelled is returned when the user presses ESC or picks nothing
	ErrCancelled = errors.New("cancelled by user")

	// ErrNoLauncher is returned when the requested launcher can't be used
	ErrNoLauncher = errors.New("no launcher available")
)

// IsCancelled checks whether err comes from the user cancelling
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
