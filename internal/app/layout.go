// layout.go centralizes the terminal layout calculations for the two-pane UI.
//
// The tree pane sits on the left and the preview pane fills the rest. The
// footer reserves one or two rows depending on how much of it fits.
package app

// LayoutDimensions holds all calculated layout dimensions for the UI.
type LayoutDimensions struct {
	LeftWidth      int // width allocated to the tree pane (including border/padding)
	RightWidth     int // width allocated to the preview pane
	ContentHeight  int // terminal height minus footer
	ViewportWidth  int // usable width inside the preview pane
	ViewportHeight int // usable height inside the preview pane, below its header
}

// calculateLayout computes all UI dimensions based on terminal size.
//
// The tree pane is the smaller of DefaultTreeWidth and
// width / TreeWidthDivider, so narrow terminals keep room for the preview.
func (m *Model) calculateLayout() LayoutDimensions {
	leftWidth := min(DefaultTreeWidth, m.width/TreeWidthDivider)
	rightWidth := max(0, m.width-leftWidth)
	contentHeight := max(0, m.height-m.footerHeightForWidth(m.width))

	viewportWidth := max(0, rightWidth-previewPane.GetHorizontalFrameSize())
	viewportHeight := max(0, contentHeight-previewPane.GetVerticalFrameSize()-1)

	return LayoutDimensions{
		LeftWidth:      leftWidth,
		RightWidth:     rightWidth,
		ContentHeight:  contentHeight,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	}
}

// footerHeightForWidth prefers FooterMinRows and grows to FooterMaxRows when
// the footer segments do not fit.
func (m *Model) footerHeightForWidth(width int) int {
	_, fit := m.buildStatusRows(width, FooterMinRows)
	if fit {
		return FooterMinRows
	}
	return FooterMaxRows
}

func (m *Model) applyLayout(layout LayoutDimensions) {
	m.viewport.Width = layout.ViewportWidth
	m.viewport.Height = layout.ViewportHeight
}
