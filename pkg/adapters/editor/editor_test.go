package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/crossroads/pkg/adapters/editor"
)

func TestTextarea_Editing(t *testing.T) {
	e := editor.New()
	assert.Equal(t, "", e.Text())

	e.SetText("draft")
	e.InsertString(" two")
	assert.Equal(t, "draft two", e.Text())

	e.DeleteBackward()
	e.DeleteBackward()
	assert.Equal(t, "draft t", e.Text())

	row, col := e.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 7, col)
}

func TestTextarea_DesiredHeight(t *testing.T) {
	e := editor.New()
	assert.Equal(t, 1, e.DesiredHeight(10))

	e.SetText("0123456789abc")
	assert.Equal(t, 2, e.DesiredHeight(10))
	assert.Equal(t, 1, e.DesiredHeight(80))
	assert.Equal(t, 13, e.DesiredHeight(0))
}

func TestTextarea_Render(t *testing.T) {
	e := editor.New()
	e.SetText("hello")
	assert.Contains(t, e.Render(40, 1), "hello")
}
