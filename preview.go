package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/chrisuehlinger/tdollar/ui"
)

// preview renders the markup with Fyne and blocks until the window closes.
func preview(markupFile, stylesFile string) error {
	a := app.New()
	_, root, err := buildTree(ui.NewHost(), markupFile, stylesFile)
	if err != nil {
		return err
	}
	n, ok := root.El().(*ui.Node)
	if !ok {
		return fmt.Errorf("preview: root is not a fyne node")
	}
	w := a.NewWindow("tdollar - " + markupFile)
	w.SetContent(n.CanvasObject())
	w.Resize(fyne.NewSize(480, 640))
	w.ShowAndRun()
	return nil
}
