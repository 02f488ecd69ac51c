package lumina

import "errors"

// Lookup failures returned by DockingManager mutations. Out-of-range values
// (ratios, tab indices) are clamped rather than rejected, so these are the
// only errors the docking tree produces besides ErrTreeTooDeep.
var (
	ErrPanelNotFound     = errors.New("panel not found")
	ErrTabNotFound       = errors.New("tabs node not found")
	ErrSplitNotFound     = errors.New("split node not found")
	ErrNodeNotFound      = errors.New("node not found")
	ErrWidgetNotFound    = errors.New("widget not found")
	ErrTreeTooDeep       = errors.New("layout tree too deep")
	ErrUnsupportedFormat = errors.New("unsupported layout format")
)
