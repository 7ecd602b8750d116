package ui

import (
	"context"
	"path/filepath"
	"slices"

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
)

var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// productForm is the create/edit dialog. It stays open until a save succeeds.
type productForm struct {
	win         fyne.Window
	svc         service.ProductService
	existing    *models.Product
	onSaved     func()
	name        *widget.Entry
	price       *widget.Entry
	description *widget.Entry
	category    *widget.Select
	imagePath   string
	imageLabel  *widget.Label
	errorLabel  *widget.Label
	dialog      *dialog.CustomDialog
}

func showProductForm(win fyne.Window, svc service.ProductService, existing *models.Product, onSaved func()) {
	newProductForm(win, svc, existing, onSaved).dialog.Show()
}

func newProductForm(win fyne.Window, svc service.ProductService, existing *models.Product, onSaved func()) *productForm {
	f := &productForm{
		win:         win,
		svc:         svc,
		existing:    existing,
		onSaved:     onSaved,
		name:        widget.NewEntry(),
		price:       widget.NewEntry(),
		description: widget.NewMultiLineEntry(),
		imageLabel:  widget.NewLabel("No image selected"),
		errorLabel:  widget.NewLabel(""),
	}

	values := service.ProductForm{}
	if existing != nil {
		values = service.FormFromProduct(*existing)
	}

	categories := slices.Clone(svc.Categories())
	if values.Category != "" && !slices.Contains(categories, values.Category) {
		categories = append(categories, values.Category)
	}
	if values.Category == "" && len(categories) > 0 {
		values.Category = categories[0]
	}

	f.category = widget.NewSelect(categories, nil)
	f.category.SetSelected(values.Category)
	f.name.SetText(values.Name)
	f.price.SetText(values.Price)
	f.description.SetText(values.Description)
	f.description.SetMinRowsVisible(3)

	f.errorLabel.Wrapping = fyne.TextWrapWord
	f.errorLabel.Importance = widget.DangerImportance
	f.errorLabel.Hide()

	pick := widget.NewButtonWithIcon("Choose image", theme.FolderOpenIcon(), f.pickImage)

	form := widget.NewForm(
		widget.NewFormItem("Name", f.name),
		widget.NewFormItem("Price", f.price),
		widget.NewFormItem("Category", f.category),
		widget.NewFormItem("Description", f.description),
		widget.NewFormItem("Image", container.NewBorder(nil, nil, nil, pick, f.imageLabel)),
	)

	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), f.submit)
	save.Importance = widget.HighImportance
	cancel := widget.NewButton("Cancel", func() { f.dialog.Hide() })

	buttons := container.NewHBox(layout.NewSpacer(), cancel, save)
	content := container.NewBorder(nil, container.NewVBox(f.errorLabel, buttons), nil, nil, form)

	title := "Add product"
	if existing != nil {
		title = "Edit product"
	}

	f.dialog = dialog.NewCustomWithoutButtons(title, content, win)
	f.dialog.Resize(fyne.NewSize(480, 440))

	return f
}

func (f *productForm) pickImage() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			showError(f.win, appErrors.UserInputError("Could not open the image").WithError(err))

			return
		}

		if reader == nil {
			return
		}

		// only the path is kept; the file is read again when the form is saved
		f.imagePath = reader.URI().Path()
		_ = reader.Close()

		f.imageLabel.SetText(filepath.Base(f.imagePath))
	}, f.win)

	open.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	open.Show()
}

func (f *productForm) values() service.ProductForm {
	return service.ProductForm{
		Name:        f.name.Text,
		Price:       f.price.Text,
		Description: f.description.Text,
		Category:    f.category.Selected,
		ImagePath:   f.imagePath,
	}
}

func (f *productForm) submit() {
	if _, err := f.svc.Save(context.Background(), f.existing, f.values()); err != nil {
		f.errorLabel.SetText(appErrors.UserMessage(err))
		f.errorLabel.Show()

		showError(f.win, err)

		return
	}

	f.dialog.Hide()

	if f.onSaved != nil {
		f.onSaved()
	}
}
