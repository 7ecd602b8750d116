package ui

import (
	"context"
	"fmt"
	"image/color"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	appErrors "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/errors"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils/response"
)

var stockColumns = []string{"ID", "Name", "Category", "Price", "Quantity", "Minimum", "Updated"}

var lowStockColor = color.NRGBA{R: 0xff, G: 0x5a, B: 0x5a, A: 0x40}

var stockFilters = map[string]service.StockFilter{
	"All":          service.StockAll,
	"Low quantity": service.StockLow,
	"Unavailable":  service.StockUnavailable,
}

type stockPage struct {
	win      fyne.Window
	svc      service.StockService
	rows     []models.Product
	selected int64
	table    *widget.Table
	content  fyne.CanvasObject
}

func newStockPage(win fyne.Window, svc service.StockService) *stockPage {
	p := &stockPage{win: win, svc: svc}

	search := widget.NewEntry()
	search.SetPlaceHolder("Search by id, name or category")
	search.OnChanged = func(text string) {
		p.svc.SetQuery(text)
		p.render()
	}

	filter := widget.NewSelect([]string{"All", "Low quantity", "Unavailable"}, func(label string) {
		p.svc.SetFilter(stockFilters[label])
		p.render()
	})
	filter.SetSelected("All")

	p.table = widget.NewTable(
		func() (int, int) { return len(p.rows), len(stockColumns) },
		func() fyne.CanvasObject {
			return container.NewStack(canvas.NewRectangle(color.Transparent), widget.NewLabel(""))
		},
		p.updateCell,
	)
	p.table.ShowHeaderRow = true
	p.table.CreateHeader = func() fyne.CanvasObject { return widget.NewLabel("") }
	p.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		o.(*widget.Label).SetText(stockColumns[id.Col])
	}
	p.table.OnSelected = func(id widget.TableCellID) {
		if id.Row >= 0 && id.Row < len(p.rows) {
			p.selected = p.rows[id.Row].ID
		}
	}
	p.table.OnUnselected = func(widget.TableCellID) { p.selected = 0 }
	p.table.SetColumnWidth(1, 200)
	p.table.SetColumnWidth(6, 150)

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Increase", theme.ContentAddIcon(), func() { p.promptChange(true) }),
		widget.NewButtonWithIcon("Decrease", theme.ContentRemoveIcon(), func() { p.promptChange(false) }),
		widget.NewButtonWithIcon("Set minimum", theme.WarningIcon(), p.promptMinimum),
		widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), p.export),
		widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), p.reload),
	)

	top := container.NewVBox(
		container.NewBorder(nil, nil, nil, container.NewHBox(widget.NewLabel("Show:"), filter), search),
		toolbar,
	)
	p.content = container.NewBorder(top, nil, nil, nil, p.table)

	return p
}

func (p *stockPage) Content() fyne.CanvasObject {
	return p.content
}

func (p *stockPage) OnEnter() {
	p.reload()
}

func (p *stockPage) reload() {
	if err := p.svc.Reload(context.Background()); err != nil {
		showError(p.win, err)
	}

	p.render()
}

func (p *stockPage) render() {
	p.rows = p.svc.Filtered()

	if p.table != nil {
		p.table.UnselectAll()
		p.table.Refresh()
	}
}

func (p *stockPage) updateCell(id widget.TableCellID, o fyne.CanvasObject) {
	cell := o.(*fyne.Container)
	background := cell.Objects[0].(*canvas.Rectangle)
	label := cell.Objects[1].(*widget.Label)

	if id.Row >= len(p.rows) {
		return
	}

	product := p.rows[id.Row]

	background.FillColor = color.Transparent
	if product.IsLowStock() {
		background.FillColor = lowStockColor
	}
	background.Refresh()

	label.SetText(stockCell(product, id.Col))
}

func stockCell(p models.Product, col int) string {
	switch col {
	case 0:
		return fmt.Sprint(p.ID)
	case 1:
		return response.PlainText(p.Name)
	case 2:
		return response.PlainText(p.Category)
	case 3:
		return p.Price.StringFixed(2)
	case 4:
		return fmt.Sprint(p.Stock)
	case 5:
		return fmt.Sprint(p.MinStock)
	case 6:
		return models.FormatDate(p.UpdatedAt)
	}

	return ""
}

func (p *stockPage) requireSelection() bool {
	if p.selected == 0 {
		showError(p.win, appErrors.UserInputError("No product selected").WithDetail("Select a row in the table first"))

		return false
	}

	return true
}

// promptAmount asks for a whole number and hands it to apply.
func (p *stockPage) promptAmount(title, label string, apply func(int) error) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("0")

	dialog.ShowForm(title, "Apply", "Cancel", []*widget.FormItem{widget.NewFormItem(label, entry)}, func(confirmed bool) {
		if !confirmed {
			return
		}

		amount, err := service.ParseAmount(entry.Text)
		if err != nil {
			showError(p.win, err)

			return
		}

		if err := apply(amount); err != nil {
			showError(p.win, err)

			return
		}

		p.reload()
	}, p.win)
}

func (p *stockPage) promptChange(increase bool) {
	if !p.requireSelection() {
		return
	}

	id := p.selected
	title := "Decrease quantity"
	if increase {
		title = "Increase quantity"
	}

	p.promptAmount(title, "Quantity", func(amount int) error {
		var err error
		if increase {
			_, err = p.svc.Increase(context.Background(), id, amount)
		} else {
			_, err = p.svc.Decrease(context.Background(), id, amount)
		}

		return err
	})
}

func (p *stockPage) promptMinimum() {
	if !p.requireSelection() {
		return
	}

	id := p.selected

	p.promptAmount("Set minimum", "Minimum", func(amount int) error {
		_, err := p.svc.SetMinimum(context.Background(), id, amount)

		return err
	})
}

func (p *stockPage) export() {
	rows := p.rows

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			showError(p.win, appErrors.UserInputError("Could not open the destination").WithError(err))

			return
		}

		if writer == nil {
			return
		}

		err = saveTo(writer, func(w io.Writer) error {
			return p.svc.Export(w, rows)
		})
		if err != nil {
			if _, ok := appErrors.IsAppError(err); !ok {
				err = appErrors.InternalError("Failed to export stock").WithDetail(err.Error()).WithError(err)
			}
			showError(p.win, err)

			return
		}

		showInfo(p.win, "Stock exported", writer.URI().Path())
	}, p.win)

	save.SetFileName("stock.xlsx")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".xlsx"}))
	save.Show()
}
