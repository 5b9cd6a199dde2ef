// Command notecheck-desktop is a small window for checking one banknote at a time:
// upload a photo, press Detect and read the verdict.
package main

import (
	"context"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/rs/zerolog/log"

	"github.com/jtejido/notecheck"
	"github.com/jtejido/notecheck/config"
	"github.com/jtejido/notecheck/logging"
)

func main() {
	if err := config.LoadConfig(config.Find("")); err != nil {
		log.Warn().Err(err).Msg("failed to load config, using defaults")
		config.LoadDefaultConfig()
	}
	sink, err := logging.Setup(os.Stderr)
	if err != nil {
		log.Warn().Err(err).Msg("failed to set up logging")
	} else {
		defer sink.Close()
	}

	a := app.NewWithID("com.github.jtejido.notecheck")
	w := a.NewWindow("Fake Currency Detection")
	w.Resize(fyne.NewSize(800, 500))

	sess, err := newSession()
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		d := dialog.NewError(err, w)
		d.SetOnClosed(a.Quit)
		d.Show()
		w.ShowAndRun()
		return
	}

	u := newUI(w, sess, config.Config.Currency)
	w.SetContent(u.build())
	w.SetMaster()
	w.ShowAndRun()
}

func newSession() (*notecheck.Session, error) {
	cfg := config.Config
	templates, err := notecheck.LoadTemplates(context.Background(), cfg.TemplateDir,
		notecheck.WithExtensions(cfg.Extensions...),
		notecheck.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, err
	}
	r, err := notecheck.ParseInterpolation(cfg.Interpolation)
	if err != nil {
		return nil, err
	}
	return notecheck.NewSession(templates,
		notecheck.WithThreshold(cfg.Threshold),
		notecheck.WithMatcher(notecheck.NewMatcher(notecheck.WithInterpolation(r))),
	)
}
