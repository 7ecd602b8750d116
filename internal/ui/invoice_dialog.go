package ui

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	appErrors "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils/response"
)

var lineColumns = []string{"Product", "Quantity", "Unit price", "Line total", "Description"}

// showInvoiceDialog fetches the order fresh and shows its lines. Read-only
// mode hides the status and PDF actions.
func showInvoiceDialog(win fyne.Window, svc service.OrderService, id int64, readOnly bool, onChanged func()) {
	details, err := svc.Details(context.Background(), id)
	if err != nil {
		showError(win, err)

		return
	}

	order := details.Order

	badge := widget.NewLabel("Unpaid")
	badge.Importance = widget.WarningImportance
	if order.IsPaid() {
		badge.SetText("Paid")
		badge.Importance = widget.SuccessImportance
	}

	header := container.NewHBox(
		widget.NewLabel(fmt.Sprintf("Customer: %s", response.PlainText(order.ClientName))),
		widget.NewLabel(fmt.Sprintf("Date: %s", order.DisplayDate())),
		layout.NewSpacer(),
		badge,
	)

	total := widget.NewLabelWithStyle("Total: "+details.Total, fyne.TextAlignTrailing, fyne.TextStyle{Bold: true})

	var d *dialog.CustomDialog

	closeButton := widget.NewButton("Close", func() { d.Hide() })
	actions := []fyne.CanvasObject{layout.NewSpacer()}

	if !readOnly {
		setStatus := func(status models.OrderStatus) {
			if err := svc.SetStatus(context.Background(), id, status); err != nil {
				showError(win, err)

				return
			}

			d.Hide()

			if onChanged != nil {
				onChanged()
			}
		}

		actions = append(actions,
			widget.NewButtonWithIcon("Mark paid", theme.ConfirmIcon(), func() { setStatus(models.OrderStatusPaid) }),
			widget.NewButtonWithIcon("Mark unpaid", theme.CancelIcon(), func() { setStatus(models.OrderStatusPending) }),
			widget.NewButtonWithIcon("Download PDF", theme.DownloadIcon(), func() { downloadInvoice(win, svc, id) }),
		)
	}

	actions = append(actions, closeButton)

	content := container.NewBorder(
		header,
		container.NewVBox(total, container.NewHBox(actions...)),
		nil, nil,
		linesTable(details.Lines),
	)

	title := fmt.Sprintf("Invoice #%d", order.ID)
	if readOnly {
		title = fmt.Sprintf("Items of invoice #%d", order.ID)
	}

	d = dialog.NewCustomWithoutButtons(title, content, win)
	d.Resize(fyne.NewSize(720, 460))
	d.Show()
}

func linesTable(lines []service.InvoiceLine) *widget.Table {
	table := widget.NewTable(
		func() (int, int) { return len(lines), len(lineColumns) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(lineCell(lines[id.Row], id.Col))
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject { return widget.NewLabel("") }
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		o.(*widget.Label).SetText(lineColumns[id.Col])
	}

	table.SetColumnWidth(0, 200)
	table.SetColumnWidth(4, 200)

	return table
}

func lineCell(line service.InvoiceLine, col int) string {
	switch col {
	case 0:
		return line.ProductName
	case 1:
		return fmt.Sprint(line.Quantity)
	case 2:
		return line.UnitPrice.StringFixed(2)
	case 3:
		return line.LineTotal.StringFixed(2)
	case 4:
		return line.Description
	}

	return ""
}

// downloadInvoice asks for a save location only after the PDF bytes arrived
// and writes them unchanged.
func downloadInvoice(win fyne.Window, svc service.OrderService, id int64) {
	data, err := svc.InvoicePDF(context.Background(), id)
	if err != nil {
		showError(win, err)

		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			showError(win, appErrors.UserInputError("Could not open the destination").WithError(err))

			return
		}

		if writer == nil {
			return
		}

		err = saveTo(writer, func(w io.Writer) error {
			_, err := w.Write(data)

			return err
		})
		if err != nil {
			showError(win, appErrors.InternalError("Failed to save the invoice").WithDetail(err.Error()).WithError(err))

			return
		}

		showInfo(win, "Invoice saved", writer.URI().Path())
	}, win)

	save.SetFileName(fmt.Sprintf("invoice_%d.pdf", id))
	save.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	save.Show()
}
