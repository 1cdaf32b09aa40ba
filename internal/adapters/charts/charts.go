// Package charts renders feed statistics as a standalone HTML page
package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Series is one labelled bar chart
type Series struct {
	Title  string
	Name   string
	Labels []string
	Values []int
}

func bar(s Series) *charts.Bar {
	b := charts.NewBar()
	b.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: s.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
	)

	data := make([]opts.BarData, 0, len(s.Values))
	for _, v := range s.Values {
		data = append(data, opts.BarData{Value: v})
	}
	b.SetXAxis(s.Labels).AddSeries(s.Name, data)
	return b
}

// Render writes a page with one bar chart per non-empty series
func Render(w io.Writer, title string, series ...Series) error {
	page := components.NewPage()
	page.PageTitle = title

	added := 0
	for _, s := range series {
		if len(s.Labels) == 0 {
			continue
		}
		page.AddCharts(bar(s))
		added++
	}
	if added == 0 {
		return fmt.Errorf("nothing to chart")
	}
	return page.Render(w)
}

// WriteFile renders the page into path
func WriteFile(path, title string, series ...Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := Render(f, title, series...); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
