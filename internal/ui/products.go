package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/utils/response"
)

var (
	cardSize  = fyne.NewSize(240, 330)
	imageSize = fyne.NewSize(200, 140)
)

type productsPage struct {
	win      fyne.Window
	svc      service.ProductService
	category *widget.Select
	grid     *fyne.Container
	content  fyne.CanvasObject
	loaded   bool
}

func newProductsPage(win fyne.Window, svc service.ProductService) *productsPage {
	p := &productsPage{
		win:  win,
		svc:  svc,
		grid: container.NewGridWrap(cardSize),
	}

	options := append([]string{service.AllCategories}, svc.Categories()...)
	p.category = widget.NewSelect(options, func(category string) {
		p.svc.SetCategoryFilter(category)
		p.render()
	})
	p.category.SetSelected(service.AllCategories)

	add := widget.NewButtonWithIcon("Add product", theme.ContentAddIcon(), func() {
		showProductForm(p.win, p.svc, nil, p.reload)
	})
	add.Importance = widget.HighImportance
	refresh := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), p.reload)

	top := container.NewHBox(add, widget.NewLabel("Category:"), p.category, refresh)
	p.content = container.NewBorder(top, nil, nil, nil, container.NewVScroll(p.grid))

	return p
}

func (p *productsPage) Content() fyne.CanvasObject {
	return p.content
}

func (p *productsPage) OnEnter() {
	if !p.loaded {
		p.reload()
	}
}

func (p *productsPage) reload() {
	if err := p.svc.Reload(context.Background()); err != nil {
		showError(p.win, err)
	} else {
		p.loaded = true
	}

	p.render()
}

func (p *productsPage) render() {
	p.grid.RemoveAll()

	for _, product := range p.svc.Filtered() {
		p.grid.Add(p.card(product))
	}

	p.grid.Refresh()
}

func (p *productsPage) card(product models.Product) fyne.CanvasObject {
	details := widget.NewLabel(fmt.Sprintf("Price: %s\nCategory: %s\nStock: %d",
		product.Price.StringFixed(2), response.PlainText(product.Category), product.Stock))
	details.Wrapping = fyne.TextWrapWord

	edit := widget.NewButtonWithIcon("Edit", theme.DocumentCreateIcon(), func() {
		showProductForm(p.win, p.svc, &product, p.reload)
	})
	remove := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		p.confirmDelete(product)
	})
	remove.Importance = widget.DangerImportance

	body := container.NewBorder(p.image(product), container.NewGridWithColumns(2, edit, remove), nil, nil, details)

	return widget.NewCard(response.PlainText(product.Name), "", body)
}

// image blocks until the picture is fetched; any failure shows a placeholder.
func (p *productsPage) image(product models.Product) fyne.CanvasObject {
	placeholder := container.NewCenter(widget.NewLabel("No image"))

	data, err := p.svc.Image(context.Background(), product)
	if err != nil || !decodable(data) {
		return container.NewGridWrap(imageSize, placeholder)
	}

	img := canvas.NewImageFromResource(fyne.NewStaticResource(fmt.Sprintf("product-%d", product.ID), data))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(imageSize)

	return img
}

func (p *productsPage) confirmDelete(product models.Product) {
	message := fmt.Sprintf("Delete %q?", response.PlainText(product.Name))

	dialog.ShowConfirm("Delete product", message, func(confirmed bool) {
		if !confirmed {
			return
		}

		deleted, err := p.svc.Delete(context.Background(), product.ID)
		if err != nil {
			showError(p.win, err)

			return
		}

		if !deleted {
			showInfo(p.win, "Delete product", "The server did not confirm the deletion.")
		}

		p.reload()
	}, p.win)
}
