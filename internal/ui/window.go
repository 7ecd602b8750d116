package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/config"
	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
)

const (
	pageHome     = "Home"
	pageProducts = "Products"
	pageInvoices = "Invoices"
	pageStock    = "Stock"
)

var pageOrder = []string{pageHome, pageProducts, pageInvoices, pageStock}

type page interface {
	Content() fyne.CanvasObject
	// OnEnter runs every time the page is selected in the sidebar.
	OnEnter()
}

type Services struct {
	Home     service.HomeService
	Products service.ProductService
	Orders   service.OrderService
	Stock    service.StockService
}

// Window is the admin shell: a sidebar selecting one page of a stack.
type Window struct {
	win     fyne.Window
	pages   map[string]page
	sidebar *widget.List
	current string
}

func NewWindow(a fyne.App, cfg *config.Config, svc Services) *Window {
	win := a.NewWindow("Market admin")
	win.Resize(fyne.NewSize(cfg.UI.Width, cfg.UI.Height))

	w := &Window{
		win: win,
		pages: map[string]page{
			pageHome:     newHomePage(win, svc.Home),
			pageProducts: newProductsPage(win, svc.Products),
			pageInvoices: newInvoicesPage(win, svc.Orders),
			pageStock:    newStockPage(win, svc.Stock),
		},
	}

	objects := make([]fyne.CanvasObject, 0, len(pageOrder))
	for _, name := range pageOrder {
		content := w.pages[name].Content()
		content.Hide()
		objects = append(objects, content)
	}

	w.sidebar = widget.NewList(
		func() int { return len(pageOrder) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(pageOrder[id]) },
	)
	w.sidebar.OnSelected = func(id widget.ListItemID) { w.Show(pageOrder[id]) }

	split := container.NewHSplit(w.sidebar, container.NewStack(objects...))
	split.Offset = 0.16

	win.SetContent(split)

	return w
}

// Show makes name the visible page and lets it reload.
func (w *Window) Show(name string) {
	p, ok := w.pages[name]
	if !ok {
		return
	}

	for n, other := range w.pages {
		if n != name {
			other.Content().Hide()
		}
	}

	p.Content().Show()
	w.current = name
	p.OnEnter()
}

func (w *Window) Current() string {
	return w.current
}

// Start selects the Home page. Call it once the window is visible.
func (w *Window) Start() {
	w.sidebar.Select(0)
}

func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}
