package main

import (
	"errors"
	"image"
	"image/color"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/jtejido/notecheck"
	"github.com/jtejido/notecheck/config"
)

var (
	inputSize    = fyne.NewSize(280, 180)
	templateSize = fyne.NewSize(160, 100)

	colorNeutral = color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	colorReal    = color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	colorFake    = color.NRGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
)

const (
	promptUpload = "Upload an image and click Detect"
	promptDetect = "Image uploaded. Click Detect."
)

type ui struct {
	window   fyne.Window
	session  *notecheck.Session
	currency string

	input    *canvas.Image
	template *canvas.Image
	result   *canvas.Text
}

func newUI(w fyne.Window, sess *notecheck.Session, currency string) *ui {
	return &ui{window: w, session: sess, currency: currency}
}

func (u *ui) build() fyne.CanvasObject {
	u.input = preview(inputSize)
	u.template = preview(templateSize)
	u.result = canvas.NewText(promptUpload, colorNeutral)
	u.result.TextSize = 16
	u.result.Alignment = fyne.TextAlignCenter

	title := canvas.NewText("Fake Currency Detection System", theme.Color(theme.ColorNameForeground))
	title.TextSize = 22
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	upload := widget.NewButtonWithIcon("Upload Image", theme.FolderOpenIcon(), u.upload)
	detect := widget.NewButtonWithIcon("Detect Fake", theme.SearchIcon(), u.detect)
	detect.Importance = widget.HighImportance

	images := container.NewHBox(
		widget.NewCard("Input Currency Image", "", container.NewCenter(u.input)),
		widget.NewCard("Matched Template Note", "", container.NewCenter(u.template)),
	)

	return container.NewVBox(
		title,
		container.NewCenter(images),
		u.result,
		container.NewCenter(container.NewHBox(upload, detect)),
	)
}

func preview(size fyne.Size) *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	img.SetMinSize(size)
	return img
}

func (u *ui) upload() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.window)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		if err := u.load(r.URI().Name(), r); err != nil {
			log.Warn().Err(err).Str("image", r.URI().String()).Msg("upload failed")
			dialog.ShowInformation("Error", "Failed to load image. Please select a valid image file.", u.window)
		}
	}, u.window)
	d.SetFilter(storage.NewExtensionFileFilter(acceptedExtensions()))
	d.Show()
}

// load replaces the session input with the image read from r. The previews only change
// once the image decoded.
func (u *ui) load(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := u.session.UploadImageBytes(name, data); err != nil {
		return err
	}

	u.input.Image = thumbnail(u.session.Input().Gray(), inputSize)
	u.input.Refresh()
	u.template.Image = nil
	u.template.Refresh()
	u.setResult(promptDetect, colorNeutral)
	return nil
}

func (u *ui) detect() {
	res, err := u.session.Match()
	if err != nil {
		if errors.Is(err, notecheck.ErrInvalidState) {
			dialog.ShowInformation("Error", "Please upload an input image first.", u.window)
			return
		}
		dialog.ShowError(err, u.window)
		return
	}
	v := notecheck.Classify(res, u.session.Threshold())
	log.Info().Str("image", u.session.InputName()).Object("verdict", v).Msg("detected")

	u.template.Image = thumbnail(res.Template.Image.Gray(), templateSize)
	u.template.Refresh()
	u.setResult(resultText(v, u.currency))
}

func (u *ui) setResult(text string, c color.Color) {
	u.result.Text = text
	u.result.Color = c
	u.result.Refresh()
}

// resultText is the verdict line and its color.
func resultText(v notecheck.Verdict, currency string) (string, color.Color) {
	if v.IsLikelyGenuine {
		return v.Message(currency), colorReal
	}
	return v.Message(currency), colorFake
}

func thumbnail(img image.Image, size fyne.Size) image.Image {
	return imaging.Resize(img, int(size.Width), int(size.Height), imaging.Lanczos)
}

func acceptedExtensions() []string {
	return append([]string(nil), config.Config.Extensions...)
}
