package ui

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"

	appErrors "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// showError reports a failed action in a blocking dialog. Only the AppError
// message and detail are shown; anything else gets a generic line.
func showError(win fyne.Window, err error) {
	if err == nil {
		return
	}

	slog.Warn("Action failed", slog.String("error", err.Error()))

	dialog.ShowError(errors.New(appErrors.UserMessage(err)), win)
}

func showInfo(win fyne.Window, title, message string) {
	dialog.ShowInformation(title, message, win)
}

// saveTo runs write against w and closes it. A failed close is reported
// because some storage backends only flush on close.
func saveTo(w io.WriteCloser, write func(io.Writer) error) error {
	if err := write(w); err != nil {
		_ = w.Close()

		return err
	}

	return w.Close()
}

// decodable reports whether data is an image the window can draw.
func decodable(data []byte) bool {
	_, _, err := image.DecodeConfig(bytes.NewReader(data))

	return err == nil
}
