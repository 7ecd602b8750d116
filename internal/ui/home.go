package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	service "github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/services"
)

type homePage struct {
	win      fyne.Window
	svc      service.HomeService
	health   *widget.Label
	products *widget.Label
	lowStock *widget.Label
	unpaid   *widget.Label
	problems *widget.Label
	content  fyne.CanvasObject
}

func newHomePage(win fyne.Window, svc service.HomeService) *homePage {
	p := &homePage{
		win:      win,
		svc:      svc,
		health:   widget.NewLabel("-"),
		products: widget.NewLabel("-"),
		lowStock: widget.NewLabel("-"),
		unpaid:   widget.NewLabel("-"),
		problems: widget.NewLabel(""),
	}
	p.problems.Wrapping = fyne.TextWrapWord
	p.problems.Importance = widget.DangerImportance

	refresh := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), p.refresh)

	p.content = container.NewVBox(
		widget.NewLabelWithStyle("Market admin", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("API", p.health),
			widget.NewFormItem("Products", p.products),
			widget.NewFormItem("Low stock", p.lowStock),
			widget.NewFormItem("Unpaid invoices", p.unpaid),
		),
		p.problems,
		container.NewHBox(refresh),
	)

	return p
}

func (p *homePage) Content() fyne.CanvasObject {
	return p.content
}

func (p *homePage) OnEnter() {
	p.refresh()
}

func (p *homePage) refresh() {
	summary := p.svc.Summary(context.Background())

	switch {
	case summary.Health.Status == "":
		p.health.SetText("-")
	case summary.Health.OK():
		p.health.SetText("Reachable")
		p.health.Importance = widget.SuccessImportance
	default:
		p.health.SetText(summary.Health.Status)
		p.health.Importance = widget.DangerImportance
	}
	p.health.Refresh()

	p.products.SetText(count(summary.Products))
	p.lowStock.SetText(count(summary.LowStock))
	p.unpaid.SetText(count(summary.Unpaid))

	problems := append([]string{}, summary.Problems...)
	failures := make([]string, 0, len(summary.Health.Failures))
	for name, failure := range summary.Health.Failures {
		failures = append(failures, fmt.Sprintf("%s: %s", name, failure))
	}
	sort.Strings(failures)
	problems = append(problems, failures...)

	p.problems.SetText(strings.Join(problems, "\n"))

	if len(summary.Problems) > 0 {
		dialog.ShowError(errors.New(strings.Join(summary.Problems, "\n\n")), p.win)
	}
}

func count(n int) string {
	if n < 0 {
		return "unavailable"
	}

	return fmt.Sprint(n)
}
