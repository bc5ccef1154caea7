package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

type termTheme struct {
	fyne.Theme

	fontSize   float32
	background color.Color
}

func newTermTheme(background color.Color) *termTheme {
	return &termTheme{
		Theme:      fyne.CurrentApp().Settings().Theme(),
		fontSize:   12,
		background: background,
	}
}

// Color paints the window with the terminal's default background so the grid has no border.
func (t *termTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if n == theme.ColorNameBackground && t.background != nil {
		return t.background
	}
	return t.Theme.Color(n, theme.VariantDark)
}

func (t *termTheme) Size(n fyne.ThemeSizeName) float32 {
	if n == theme.SizeNameText {
		return t.fontSize
	}

	return t.Theme.Size(n)
}

func (t *termTheme) Font(style fyne.TextStyle) fyne.Resource {
	style.Monospace = true
	return t.Theme.Font(style)
}
