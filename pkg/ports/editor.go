package ports

// TextEditor is the editing buffer behind a free-text answer.
// Implementations own cursor handling and wrapping; the dialog only reads and seeds text.
type TextEditor interface {
	// SetText replaces the buffer and moves the cursor to the end.
	SetText(text string)
	// InsertString inserts text at the cursor.
	InsertString(text string)
	// DeleteBackward removes the character before the cursor.
	DeleteBackward()
	// Text returns the raw buffer contents.
	Text() string
	// Cursor returns the cursor row and column within the buffer.
	Cursor() (row, col int)
	// DesiredHeight returns the number of rows the buffer needs at width.
	DesiredHeight(width int) int
	// Render draws the buffer at width and height.
	Render(width, height int) string
}
