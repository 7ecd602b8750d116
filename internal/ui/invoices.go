package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils/response"
)

var invoiceColumns = []string{"ID", "Customer", "Date", "Total", "Status", "Actions"}

const actionsColumn = 5

var statusOptions = map[string]service.StatusFilter{
	"All":    service.StatusAll,
	"Paid":   service.StatusPaid,
	"Unpaid": service.StatusUnpaid,
}

type invoicesPage struct {
	win     fyne.Window
	svc     service.OrderService
	rows    []models.Order
	table   *widget.Table
	content fyne.CanvasObject
}

func newInvoicesPage(win fyne.Window, svc service.OrderService) *invoicesPage {
	p := &invoicesPage{win: win, svc: svc}

	search := widget.NewEntry()
	search.SetPlaceHolder("Search by invoice number or customer")
	search.OnChanged = func(text string) {
		p.svc.SetQuery(text)
		p.render()
	}

	status := widget.NewSelect([]string{"All", "Paid", "Unpaid"}, func(label string) {
		p.svc.SetStatusFilter(statusOptions[label])
		p.render()
	})
	status.SetSelected("All")

	refresh := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), p.reload)

	p.table = widget.NewTable(
		func() (int, int) { return len(p.rows), len(invoiceColumns) },
		newInvoiceCell,
		p.updateCell,
	)
	p.table.ShowHeaderRow = true
	p.table.CreateHeader = func() fyne.CanvasObject { return widget.NewLabel("") }
	p.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		o.(*widget.Label).SetText(invoiceColumns[id.Col])
	}
	// a tap on a row stands in for the double-click of desktop tables
	p.table.OnSelected = func(id widget.TableCellID) {
		p.table.UnselectAll()

		if id.Row < 0 || id.Row >= len(p.rows) || id.Col == actionsColumn {
			return
		}

		showInvoiceDialog(p.win, p.svc, p.rows[id.Row].ID, true, nil)
	}

	p.table.SetColumnWidth(0, 60)
	p.table.SetColumnWidth(1, 180)
	p.table.SetColumnWidth(2, 140)
	p.table.SetColumnWidth(3, 90)
	p.table.SetColumnWidth(4, 80)
	p.table.SetColumnWidth(actionsColumn, 380)

	top := container.NewBorder(nil, nil, nil, container.NewHBox(widget.NewLabel("Status:"), status, refresh), search)
	p.content = container.NewBorder(top, nil, nil, nil, p.table)

	return p
}

func (p *invoicesPage) Content() fyne.CanvasObject {
	return p.content
}

func (p *invoicesPage) OnEnter() {
	p.reload()
}

func (p *invoicesPage) reload() {
	if err := p.svc.Reload(context.Background()); err != nil {
		showError(p.win, err)
	}

	p.render()
}

func (p *invoicesPage) render() {
	p.rows = p.svc.Filtered()

	if p.table != nil {
		p.table.Refresh()
	}
}

func newInvoiceCell() fyne.CanvasObject {
	actions := container.NewHBox(
		widget.NewButtonWithIcon("Open", theme.InfoIcon(), nil),
		widget.NewButtonWithIcon("", theme.MediaReplayIcon(), nil),
		widget.NewButtonWithIcon("PDF", theme.DownloadIcon(), nil),
		widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
	)

	return container.NewStack(widget.NewLabel(""), actions)
}

func (p *invoicesPage) updateCell(id widget.TableCellID, o fyne.CanvasObject) {
	cell := o.(*fyne.Container)
	label := cell.Objects[0].(*widget.Label)
	actions := cell.Objects[1].(*fyne.Container)

	if id.Row >= len(p.rows) {
		return
	}

	order := p.rows[id.Row]

	if id.Col != actionsColumn {
		actions.Hide()
		label.Show()
		label.SetText(invoiceCell(order, id.Col))

		return
	}

	label.Hide()
	actions.Show()

	open := actions.Objects[0].(*widget.Button)
	toggle := actions.Objects[1].(*widget.Button)
	pdf := actions.Objects[2].(*widget.Button)
	remove := actions.Objects[3].(*widget.Button)

	open.OnTapped = func() { showInvoiceDialog(p.win, p.svc, order.ID, false, p.reload) }

	if order.IsPaid() {
		toggle.SetText("Mark unpaid")
	} else {
		toggle.SetText("Mark paid")
	}
	toggle.OnTapped = func() { p.toggle(order) }

	pdf.OnTapped = func() { downloadInvoice(p.win, p.svc, order.ID) }
	remove.OnTapped = func() { p.confirmDelete(order) }
}

func invoiceCell(order models.Order, col int) string {
	switch col {
	case 0:
		return fmt.Sprint(order.ID)
	case 1:
		return response.PlainText(order.ClientName)
	case 2:
		return order.DisplayDate()
	case 3:
		return order.TotalText()
	case 4:
		if order.IsPaid() {
			return "Paid"
		}

		return "Unpaid"
	}

	return ""
}

func (p *invoicesPage) toggle(order models.Order) {
	if _, err := p.svc.ToggleStatus(context.Background(), order); err != nil {
		showError(p.win, err)

		return
	}

	p.reload()
}

func (p *invoicesPage) confirmDelete(order models.Order) {
	message := fmt.Sprintf("Delete invoice #%d?", order.ID)

	dialog.ShowConfirm("Delete invoice", message, func(confirmed bool) {
		if !confirmed {
			return
		}

		deleted, err := p.svc.Delete(context.Background(), order.ID)
		if err != nil {
			showError(p.win, err)

			return
		}

		if !deleted {
			showInfo(p.win, "Delete invoice", "The server did not confirm the deletion.")
		}

		p.reload()
	}, p.win)
}
