package dashboard

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"equitydash/internal/models"
	"equitydash/internal/table"
)

const (
	chartWidth  = "1200px"
	chartHeight = "600px"
	dateLayout  = "2006-01-02"
)

func initOpts() opts.Initialization {
	return opts.Initialization{
		Width:  chartWidth,
		Height: chartHeight,
		Theme:  types.ThemeVintage,
	}
}

// klineChart renders the OHLC candles for the trailing window.
func klineChart(ticker string, bars []models.PriceBar) *charts.Kline {
	kline := charts.NewKLine()

	xAxis := make([]string, 0, len(bars))
	yAxis := make([]opts.KlineData, 0, len(bars))
	for _, b := range bars {
		xAxis = append(xAxis, b.Date.Format(dateLayout))
		// echarts candle order: open, close, low, high
		yAxis = append(yAxis, opts.KlineData{Value: [4]float64{b.Open, b.Close, b.Low, b.High}})
	}

	kline.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title:    ticker,
			Subtitle: "Weekly OHLC",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)

	kline.SetXAxis(xAxis).AddSeries("price", yAxis)
	return kline
}

// priceChart renders close/low/high lines with the diluted EPS on a
// second axis. EPS is quarterly, so it is carried forward to each price
// date after its report.
func priceChart(ticker string, bars []models.PriceBar, fin *table.Record) *charts.Line {
	line := charts.NewLine()

	xAxis := make([]string, 0, len(bars))
	closeData := make([]opts.LineData, 0, len(bars))
	lowData := make([]opts.LineData, 0, len(bars))
	highData := make([]opts.LineData, 0, len(bars))
	for _, b := range bars {
		xAxis = append(xAxis, b.Date.Format(dateLayout))
		closeData = append(closeData, opts.LineData{Value: b.Close})
		lowData = append(lowData, opts.LineData{Value: b.Low})
		highData = append(highData, opts.LineData{Value: b.High})
	}

	epsDates, epsValues := metricSeries(fin, "Diluted EPS")
	epsData := make([]opts.LineData, 0, len(bars))
	for _, b := range bars {
		day := b.Date.Format(dateLayout)
		var latest interface{}
		for i, d := range epsDates {
			if d <= day {
				latest = epsValues[i]
			}
		}
		epsData = append(epsData, opts.LineData{Value: latest})
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title:    ticker,
			Subtitle: "Price range with diluted EPS",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "$",
			Scale: opts.Bool(true),
		}),
	)
	line.ExtendYAxis(opts.YAxis{
		Name:  "EPS",
		Type:  "value",
		Scale: opts.Bool(true),
	})

	line.SetXAxis(xAxis).
		AddSeries("Close", closeData).
		AddSeries("Low", lowData).
		AddSeries("High", highData).
		AddSeries("EPS", epsData, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
	return line
}

// volumeChart renders traded volume per bar.
func volumeChart(bars []models.PriceBar) *charts.Bar {
	bar := charts.NewBar()

	xAxis := make([]string, 0, len(bars))
	data := make([]opts.BarData, 0, len(bars))
	for _, b := range bars {
		xAxis = append(xAxis, b.Date.Format(dateLayout))
		data = append(data, opts.BarData{Value: b.Volume})
	}

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: "Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	bar.SetXAxis(xAxis).AddSeries("Volume", data)
	return bar
}

// profitChart renders the quarterly profit breakdown bars.
func profitChart(fin *table.Record) *charts.Bar {
	return metricBars("Profit Breakdown", fin,
		"Gross Profit", "Free Cash Flow", "Operating Income", "Net Income")
}

// revenueChart renders revenue and net income with the earnings ratio
// on a second axis.
func revenueChart(fin *table.Record) *charts.Bar {
	bar := metricBars("Revenue Breakdown", fin, "Total Revenue", "Net Income")
	overlayRatio(bar, fin, "Earnings %")
	return bar
}

// debtEquityChart renders debt against equity with the leverage ratio
// on a second axis.
func debtEquityChart(fin *table.Record) *charts.Bar {
	bar := metricBars("Debt & Equity", fin,
		"Total Debt", "Total Equity Gross Minority Interest")
	overlayRatio(bar, fin, "Debt to Equity")
	return bar
}

// buybacksChart renders the magnitude of stock repurchases; the raw
// metric is negative cash flow.
func buybacksChart(fin *table.Record) *charts.Bar {
	bar := charts.NewBar()

	dates, values := metricSeries(fin, "Repurchase Of Capital Stock")
	data := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		data = append(data, opts.BarData{Value: math.Abs(v)})
	}

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: "Stock Buybacks"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	bar.SetXAxis(dates).AddSeries("Buybacks", data)
	return bar
}

// dividendsChart renders the per-share dividend payments.
func dividendsChart(events []models.DividendEvent) *charts.Bar {
	bar := charts.NewBar()

	xAxis := make([]string, 0, len(events))
	data := make([]opts.BarData, 0, len(events))
	for _, e := range events {
		xAxis = append(xAxis, e.Date.Format(dateLayout))
		data = append(data, opts.BarData{Value: e.Amount})
	}

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: "Dividends"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	bar.SetXAxis(xAxis).AddSeries("Dividends", data)
	return bar
}

// metricBars builds a grouped bar chart over the record's distinct
// dates, one series per metric. Quarters a metric never reported leave
// a gap rather than a zero bar.
func metricBars(title string, fin *table.Record, metrics ...string) *charts.Bar {
	bar := charts.NewBar()

	dates := distinctDates(fin)
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	bar.SetXAxis(dates)

	for _, metric := range metrics {
		byDate := metricByDate(fin, metric)
		data := make([]opts.BarData, 0, len(dates))
		for _, d := range dates {
			if v, ok := byDate[d]; ok {
				data = append(data, opts.BarData{Value: v})
			} else {
				data = append(data, opts.BarData{Value: nil})
			}
		}
		bar.AddSeries(metric, data)
	}
	return bar
}

// overlayRatio adds a percentage line on a second axis of a bar chart.
func overlayRatio(bar *charts.Bar, fin *table.Record, metric string) {
	bar.ExtendYAxis(opts.YAxis{
		Name:  metric,
		Type:  "value",
		Scale: opts.Bool(true),
	})

	dates := distinctDates(fin)
	byDate := metricByDate(fin, metric)
	data := make([]opts.LineData, 0, len(dates))
	for _, d := range dates {
		if v, ok := byDate[d]; ok {
			data = append(data, opts.LineData{Value: v})
		} else {
			data = append(data, opts.LineData{Value: nil})
		}
	}

	line := charts.NewLine()
	line.SetXAxis(dates).
		AddSeries(metric, data, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
	bar.Overlap(line)
}

// metricSeries returns the (date, value) pairs of rows where the metric
// is present, in record order.
func metricSeries(fin *table.Record, metric string) ([]string, []float64) {
	var dates []string
	var values []float64
	for i := 0; i < fin.NumRows(); i++ {
		v, ok := fin.Cell(i, metric).Float()
		if !ok {
			continue
		}
		d := fin.Cell(i, "Date").String()
		if d == "" {
			continue
		}
		dates = append(dates, d)
		values = append(values, v)
	}
	return dates, values
}

func metricByDate(fin *table.Record, metric string) map[string]float64 {
	dates, values := metricSeries(fin, metric)
	out := make(map[string]float64, len(dates))
	for i, d := range dates {
		out[d] = values[i]
	}
	return out
}

func distinctDates(fin *table.Record) []string {
	var dates []string
	seen := make(map[string]struct{})
	for i := 0; i < fin.NumRows(); i++ {
		d := fin.Cell(i, "Date").String()
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	return dates
}
