package dashboard

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/gobx/statscollector/internal/runstats"
)

// Fixed asset names the dashboard surface is keyed by.
const (
	AssetRateCard      = "total_rate.html"
	AssetTimeSeries    = "perf_over_time.html"
	AssetVersionBars   = "perf_by_version.html"
	assetDirPerm       = 0o750
	assetFilePerm      = 0o640
	rateCardTitle      = "Estimated total rate"
	timeSeriesTitle    = "Performance over time"
	versionBarsTitle   = "Performance by app version"
	cardTemplateSource = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family:sans-serif;background:#ffffff;margin:0">
<div style="display:flex;flex-direction:column;align-items:center;justify-content:center;height:300px">
<div style="font-size:40px;font-weight:bold;color:#0f172a">{{.Value}}</div>
<div style="font-size:15px;color:#475569;margin-top:12px">{{.Caption}}</div>
</div>
</body>
</html>
`
)

var cardTemplate = template.Must(template.New("card").Parse(cardTemplateSource))

// cardData feeds the stat-card template for both real values and
// placeholders: a placeholder is a card whose Value is the title and whose
// Caption is the placeholder message.
type cardData struct {
	Title   string
	Value   string
	Caption string
}

// Asset is one generated dashboard file and its size in bytes.
type Asset struct {
	Name string
	Size int64
}

// WriteAssets recomputes every projection from the ordered samples and
// writes the three chart assets under dir. It returns the bundle listing in
// fixed asset order.
func WriteAssets(dir string, samples []runstats.RunSample) ([]Asset, error) {
	mkErr := os.MkdirAll(dir, assetDirPerm)
	if mkErr != nil {
		return nil, fmt.Errorf("create output directory: %w", mkErr)
	}

	summary := runstats.Summarize(samples)
	series := runstats.BuildTimeSeries(samples)
	bars := runstats.BuildVersionBars(runstats.ByVersion(samples), len(samples) > 0)

	assets := make([]Asset, 0, 3)

	for _, a := range []struct {
		name   string
		render func(io.Writer) error
	}{
		{AssetRateCard, func(w io.Writer) error { return renderRateCard(w, runstats.BuildRateCard(summary)) }},
		{AssetTimeSeries, func(w io.Writer) error { return renderTimeSeries(w, series) }},
		{AssetVersionBars, func(w io.Writer) error { return renderVersionBars(w, bars) }},
	} {
		size, err := writeAsset(dir, a.name, a.render)
		if err != nil {
			return nil, err
		}

		assets = append(assets, Asset{Name: a.name, Size: size})
	}

	return assets, nil
}

func writeAsset(dir, name string, render func(io.Writer) error) (int64, error) {
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, assetFilePerm)
	if err != nil {
		return 0, fmt.Errorf("create asset %s: %w", name, err)
	}

	renderErr := render(f)
	closeErr := f.Close()

	if renderErr != nil {
		return 0, fmt.Errorf("render asset %s: %w", name, renderErr)
	}

	if closeErr != nil {
		return 0, fmt.Errorf("close asset %s: %w", name, closeErr)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat asset %s: %w", name, err)
	}

	return info.Size(), nil
}

func renderRateCard(w io.Writer, card runstats.RateCard) error {
	data := cardData{Title: rateCardTitle, Value: card.Value, Caption: card.Caption}
	if card.Placeholder != "" {
		data.Value = rateCardTitle
		data.Caption = card.Placeholder
	}

	return cardTemplate.Execute(w, data)
}

func renderTimeSeries(w io.Writer, series runstats.TimeSeries) error {
	if series.Placeholder != "" {
		return cardTemplate.Execute(w, cardData{
			Title:   timeSeriesTitle,
			Value:   timeSeriesTitle,
			Caption: series.Placeholder,
		})
	}

	return newTimeSeriesChart(series).Render(w)
}

func renderVersionBars(w io.Writer, bars runstats.VersionBars) error {
	if bars.Placeholder != "" {
		return cardTemplate.Execute(w, cardData{
			Title:   versionBarsTitle,
			Value:   versionBarsTitle,
			Caption: bars.Placeholder,
		})
	}

	return newVersionBarChart(bars).Render(w)
}
