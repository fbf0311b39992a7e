package app

// moveCursor shifts the selection and applies the preview rules when it
// actually moved.
func (m *Model) moveCursor(delta int) {
	if m.session.MoveCursor(delta) {
		m.syncSelection()
	}
	m.adjustTreeOffset()
}

func (m *Model) setCursor(index int) {
	if m.session.SetCursor(index) {
		m.syncSelection()
	}
	m.adjustTreeOffset()
}

// afterRowsChanged runs after expand, collapse, filter or refresh changed
// the rows. The row under the cursor may now be a different entry.
func (m *Model) afterRowsChanged() {
	m.adjustTreeOffset()
	m.syncSelection()
}

// syncSelection applies the selection-change preview rules.
func (m *Model) syncSelection() {
	if err := m.session.SelectionChanged(m.previewOnSelect); err != nil {
		key, _ := m.session.SelectedLeafKey()
		m.setStatusError("Reveal failed: "+firstLine(err.Error()), err, "key", key)
	}
}

// treeVisibleRows is how many rows fit below the tree header.
func (m *Model) treeVisibleRows() int {
	return max(0, m.leftHeight-paneStyle.GetVerticalFrameSize()-1)
}

// adjustTreeOffset scrolls the tree so the cursor remains visible.
func (m *Model) adjustTreeOffset() {
	visibleHeight := m.treeVisibleRows()
	if visibleHeight == 0 {
		m.treeOffset = 0
		return
	}

	cursor := m.session.Cursor()
	if cursor < m.treeOffset {
		m.treeOffset = cursor
	}
	if cursor >= m.treeOffset+visibleHeight {
		m.treeOffset = cursor - visibleHeight + 1
	}
	maxOffset := max(0, len(m.session.Rows())-visibleHeight)
	m.treeOffset = clamp(m.treeOffset, 0, maxOffset)
}
