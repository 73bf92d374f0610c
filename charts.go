package ensemblecast

import (
	"io"
	"os"

	"github.com/ensemblecast/ensemblecast/timeseries"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineForecast generates an echart line chart for a forecast result plotting
// the observed history along with the forecasted, upper, lower values over
// the extrapolated periods.
func LineForecast(series *timeseries.Series, res *ForecastResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: res.Method,
			},
		),
	)

	horizon := len(res.Forecasts)
	periods := make([]int, 0, series.Len()+horizon)
	periods = append(periods, series.Periods...)
	periods = append(periods, series.NextPeriods(horizon)...)

	lineDataActual := make([]opts.LineData, 0, len(periods))
	lineDataForecast := make([]opts.LineData, 0, len(periods))
	lineDataUpper := make([]opts.LineData, 0, len(periods))
	lineDataLower := make([]opts.LineData, 0, len(periods))

	for i := 0; i < series.Len(); i++ {
		lineDataActual = append(lineDataActual, opts.LineData{Value: series.Values[i]})
		lineDataForecast = append(lineDataForecast, opts.LineData{})
		lineDataUpper = append(lineDataUpper, opts.LineData{})
		lineDataLower = append(lineDataLower, opts.LineData{})
	}
	for i := 0; i < horizon; i++ {
		lineDataActual = append(lineDataActual, opts.LineData{})
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: res.Forecasts[i]})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: res.UpperBounds[i]})
		lineDataLower = append(lineDataLower, opts.LineData{Value: res.LowerBounds[i]})
	}

	line.SetXAxis(periods).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// PlotForecast renders the forecast chart to an html file at the given path.
func PlotForecast(path string, series *timeseries.Series, res *ForecastResult) error {
	page := components.NewPage()
	page.AddCharts(
		LineForecast(series, res),
	)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return page.Render(io.MultiWriter(file))
}
