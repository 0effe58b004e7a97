package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which only the focused pane
	// is shown.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the description column.
	LayoutWideWidth = 120
)

// Timing constants.
const (
	// DefaultUIInterval is how often the view re-reads the store snapshot.
	DefaultUIInterval = time.Second
)

// Toast limits.
const (
	// MaxVisibleToasts caps the toast stack; older toasts scroll off.
	MaxVisibleToasts = 3

	// ToastBuffer is how many notifications may queue before new ones are
	// dropped.
	ToastBuffer = 16
)
