//go:build gui

package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/metcalfc/tale/internal/generate"
	"github.com/metcalfc/tale/internal/state"
	"github.com/metcalfc/tale/internal/story"
)

const frontEnd = "desktop"

const (
	promptHint    = "Describe the detective, the crime, or the setting to start your story..."
	noContentText = "No story content available."
	finalPageText = "This is the final page of the story."
)

// window holds the widgets; all state lives in the controller and every
// widget is refreshed from its View on each event.
type window struct {
	s *session

	prompt   *widget.Entry
	begin    *widget.Button
	errLabel *widget.Label

	progress *widget.ProgressBarInfinite

	title  *widget.Label
	page   *widget.Label
	status *widget.Label
	prev   *widget.Button
	next   *widget.Button
	home   *widget.Button

	idleView    *fyne.Container
	loadingView *fyne.Container
	readingView *fyne.Container
}

func newWindow(ctx context.Context, s *session) *window {
	w := &window{s: s}

	w.prompt = widget.NewMultiLineEntry()
	w.prompt.SetPlaceHolder(promptHint)
	w.prompt.SetMinRowsVisible(4)
	w.prompt.Wrapping = fyne.TextWrapWord
	w.prompt.SetText(s.prompt)

	w.errLabel = widget.NewLabel("")
	w.errLabel.Importance = widget.DangerImportance
	w.errLabel.Wrapping = fyne.TextWrapWord

	w.begin = widget.NewButton("Begin the Mystery", func() { w.submit(ctx) })
	w.begin.Importance = widget.HighImportance
	w.prompt.OnChanged = func(string) { w.render(s.ctrl.View()) }

	heading := widget.NewLabelWithStyle("AI Crime Novel Generator", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	w.idleView = container.NewVBox(
		heading,
		widget.NewLabelWithStyle("Set the Scene", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		w.prompt,
		w.begin,
		w.errLabel,
	)

	w.progress = widget.NewProgressBarInfinite()
	cancel := widget.NewButton("Cancel", func() { s.ctrl.Reset() })
	w.loadingView = container.NewVBox(
		widget.NewLabelWithStyle("Writing your story...", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		w.progress,
		cancel,
	)

	w.title = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	w.title.Wrapping = fyne.TextWrapWord
	w.page = widget.NewLabel("")
	w.page.Wrapping = fyne.TextWrapWord
	w.status = widget.NewLabel("")
	w.prev = widget.NewButton("Previous Page", func() { s.ctrl.Previous() })
	w.next = widget.NewButton("Next Page", func() { s.ctrl.Next() })
	w.home = widget.NewButton("Back to Start", func() {
		s.ctrl.Reset()
		w.prompt.SetText("")
	})
	w.readingView = container.NewBorder(
		w.title,
		container.NewHBox(w.status, layout.NewSpacer(), w.prev, w.next, w.home),
		nil, nil,
		container.NewVScroll(w.page),
	)

	s.ctrl.Subscribe(func(ev state.Event) { w.render(ev.View) })
	return w
}

// submit starts generation on a goroutine and hands the result back to the
// UI goroutine, so the controller is only touched from there.
func (w *window) submit(ctx context.Context) {
	prompt := w.prompt.Text
	ticket, err := w.s.ctrl.Start(prompt)
	if err != nil {
		w.s.log.Debug("Prompt not submitted", zap.Error(err))
		return
	}
	go func() {
		text, err := w.s.client.Generate(ctx, prompt)
		fyne.Do(func() {
			if err != nil {
				err = w.s.ctrl.Failed(ticket, err)
			} else {
				err = w.s.ctrl.Succeeded(ticket, story.NewDocument(text))
			}
			if err != nil {
				w.s.log.Debug("Generation result not applied", zap.Error(err))
			}
		})
	}()
}

func (w *window) render(v state.View) {
	w.idleView.Hide()
	w.loadingView.Hide()
	w.readingView.Hide()
	w.progress.Stop()

	switch v.Phase {
	case state.Idle:
		if v.Err != nil {
			w.errLabel.SetText(generate.UserMessage(v.Err))
			w.errLabel.Show()
		} else {
			w.errLabel.Hide()
		}
		if !promptReady(w.prompt.Text) {
			w.begin.Disable()
		} else {
			w.begin.Enable()
		}
		w.idleView.Show()

	case state.Loading:
		w.begin.Disable()
		w.progress.Start()
		w.loadingView.Show()

	case state.Reading:
		w.title.SetText(v.Title)
		if v.Title == "" {
			w.title.Hide()
		} else {
			w.title.Show()
		}
		text := v.PageText
		if v.Blank() {
			text = noContentText
		}
		if v.IsLastPage {
			text += "\n\n" + finalPageText
		}
		w.page.SetText(text)
		w.status.SetText(fmt.Sprintf("Page %d of %d", v.Index+1, v.Total))
		showIf(w.prev, v.CanPrevious)
		showIf(w.next, v.CanNext)
		showIf(w.home, v.IsLastPage)
		w.readingView.Show()
	}
}

func showIf(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

func runReader(ctx context.Context, s *session) error {
	a := app.New()
	win := a.NewWindow("tale - Story Reader")

	w := newWindow(ctx, s)
	win.SetContent(container.NewPadded(container.NewStack(w.idleView, w.loadingView, w.readingView)))

	win.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if s.ctrl.Phase() != state.Reading {
			return
		}
		switch key.Name {
		case fyne.KeyRight, fyne.KeySpace:
			s.ctrl.Next()
		case fyne.KeyLeft:
			s.ctrl.Previous()
		case fyne.KeyEscape, fyne.KeyHome:
			s.ctrl.Reset()
			w.prompt.SetText("")
		}
	})

	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	w.render(s.ctrl.View())
	if s.prompt != "" {
		w.submit(ctx)
	}

	win.Resize(fyne.NewSize(800, 600))
	win.ShowAndRun()
	return nil
}
