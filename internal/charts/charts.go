// Package charts builds the three study figures with go-echarts: the scaled
// plant attribute bars, the temperature comparison, and the combined sunlight
// and rainfall comparison.
package charts

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/chrissnell/plantclimate/internal/catalog"
	"github.com/chrissnell/plantclimate/internal/climate"
)

// Figure names, as used in preview routes
const (
	FigurePlants      = "plants"
	FigureTemperature = "temperature"
	FigureSunRain     = "sun-rain"
)

// Figures lists every figure name in page order
var Figures = []string{FigurePlants, FigureTemperature, FigureSunRain}

const (
	barWidthPx  = 1000
	lineWidthPx = 1200
	heightPx    = 600

	absorptionScale = 100
	growthScale     = 1000
)

// Charter is implemented by every go-echarts chart
type Charter interface {
	components.Charter
	Render(w io.Writer) error
}

func initOpts(title string, widthPx int) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     fmt.Sprintf("%dpx", widthPx),
		Height:    fmt.Sprintf("%dpx", heightPx),
	})
}

// PlantChart is a grouped bar chart of the four plant attributes. Absorption
// and growth rates are scaled so all four groups share one axis.
func PlantChart(plants []catalog.PlantRecord) *charts.Bar {
	const title = "Plant Data: Rates and Coefficients (Adjusted Scales)"

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title, barWidthPx),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Plant Names", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Values (Scaled)"}),
	)

	bar.SetXAxis(catalog.Names(plants))
	bar.AddSeries(fmt.Sprintf("Absorption Rate (x%d)", absorptionScale), barData(catalog.Column(plants, catalog.Absorption), absorptionScale))
	bar.AddSeries(fmt.Sprintf("Growth Rate (x%d)", growthScale), barData(catalog.Column(plants, catalog.Growth), growthScale))
	bar.AddSeries("Isolation Rate", barData(catalog.Column(plants, catalog.Isolation), 1))
	bar.AddSeries("Thermal Coefficient", barData(catalog.Column(plants, catalog.Thermal), 1))

	return bar
}

// TemperatureChart plots one temperature line per climate over day index
func TemperatureChart(ds *climate.Dataset) *charts.Line {
	const title = "Temperature Comparison Across Climates"

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(title, lineWidthPx),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle(ds, climate.Temperature)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "40"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Days", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Temperature (°C)"}),
	)

	line.SetXAxis(dayAxis(ds.Days()))
	for _, c := range ds.Climates {
		line.AddSeries(c.Climate+" Temperature", lineData(c.Temperature), hideSymbols())
	}

	return line
}

// SunRainChart overlays a solid sunlight line and a dashed rainfall line for
// every climate.
func SunRainChart(ds *climate.Dataset) *charts.Line {
	const title = "Sunlight and Rainfall Comparison Across Climates"

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(title, lineWidthPx),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "40"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Days", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Rates (Sunlight in hours / Rainfall in mm)"}),
	)

	line.SetXAxis(dayAxis(ds.Days()))
	for _, c := range ds.Climates {
		line.AddSeries(c.Climate+" Sunlight (hours)", lineData(c.Sunlight),
			hideSymbols(), charts.WithLineStyleOpts(opts.LineStyle{Type: "solid"}))
		line.AddSeries(c.Climate+" Rainfall (mm)", lineData(c.Rainfall),
			hideSymbols(), charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
	}

	return line
}

// Build returns the named figure
func Build(name string, plants []catalog.PlantRecord, ds *climate.Dataset) (Charter, error) {
	switch name {
	case FigurePlants:
		return PlantChart(plants), nil
	case FigureTemperature:
		return TemperatureChart(ds), nil
	case FigureSunRain:
		return SunRainChart(ds), nil
	}
	return nil, fmt.Errorf("unknown figure %q", name)
}

// Render writes the named figure as a standalone HTML document
func Render(w io.Writer, name string, plants []catalog.PlantRecord, ds *climate.Dataset) error {
	chart, err := Build(name, plants, ds)
	if err != nil {
		return err
	}
	return chart.Render(w)
}

// RenderPage writes all three figures to a single HTML page
func RenderPage(w io.Writer, plants []catalog.PlantRecord, ds *climate.Dataset) error {
	page := components.NewPage()
	page.PageTitle = "Plant and Climate Data"
	page.AddCharts(
		PlantChart(plants),
		TemperatureChart(ds),
		SunRainChart(ds),
	)
	return page.Render(w)
}

// Series options only apply to series that already exist, so they are
// passed to every AddSeries call.
func hideSymbols() charts.SeriesOpts {
	return charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)})
}

func barData(values []float64, scale float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: round(v*scale, 4)}
	}
	return data
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: round(v, 2)}
	}
	return data
}

// Days are labeled from 1
func dayAxis(days int) []int {
	axis := make([]int, days)
	for i := range axis {
		axis[i] = i + 1
	}
	return axis
}

func subtitle(ds *climate.Dataset, q climate.Quantity) string {
	parts := make([]string, 0, len(ds.Climates))
	for _, c := range ds.Climates {
		s := climate.Summarize(c.Get(q))
		parts = append(parts, fmt.Sprintf("%s mean %.1f %s", c.Climate, s.Mean, q.Unit()))
	}
	return strings.Join(parts, " | ")
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
