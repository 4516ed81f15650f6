package report

import (
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradelog/metrics"
)

var orgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"label":  func(m metrics.Metric) string { return metricLabels[m] },
	"value":  func(r metrics.Result, m metrics.Metric) float64 { return r.Value(m) },
	"format": formatMetric,
	"undef":  func(r metrics.Result, m metrics.Metric) bool { return r.Undefined(m) },
	"tier":   func(t map[metrics.Metric]metrics.Tier, m metrics.Metric) metrics.Tier { return t[m] },
}

var orgTemplate = template.Must(template.New("metrics").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders s as an Org-mode entry.
func WriteOrg(w io.Writer, s Summary) error {
	return orgTemplate.Execute(w, struct {
		Summary
		AllMetrics []metrics.Metric
	}{s, metrics.AllMetrics})
}

const OrgTemplate = `* METRICS: {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
{{- if .Source}}
:SOURCE:      {{.Source}}
{{- end}}
:FIRST_CLOSE: {{.Metrics.FirstClose.Format "2006-01-02"}}
:LAST_CLOSE:  {{.Metrics.LastClose.Format "2006-01-02"}}
:TRADES:      {{.Metrics.TradeCount}}
:WINS:        {{.Metrics.WinCount}}
:LOSSES:      {{.Metrics.LossCount}}
:WIN_RATE:    {{printf "%.2f" .Metrics.WinRate}}
:TOTAL:       {{printf "%.2f" .Metrics.TotalProfit}}
:MAX_DD:      {{printf "%.2f" .Metrics.MaxDrawdown}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Indicators
| Metric      | Value      | Tier    |
|-------------+------------+---------|
{{- $r := .Metrics}}{{$t := .Tiers}}
{{- range .AllMetrics}}
| {{label .}} | {{if undef $r .}}n/a{{else}}{{format . (value $r .)}}{{end}} | {{tier $t .}} |
{{- end}}

** Performance Summary
- Total Profit:     *{{printf "%.2f" .Metrics.TotalProfit}}*
- Average Win:      *{{printf "%.2f" .Metrics.AverageWin}}*
- Average Loss:     *{{printf "%.2f" .Metrics.AverageLoss}}*
- Std Dev:          *{{printf "%.2f" .Metrics.StdDev}}*
- Annual Return:    *{{printf "%.2f" .Metrics.AnnualReturn}}*
{{- if .Warnings}}

** Warnings
{{- range .Warnings}}
- {{.Message}}
{{- end}}
{{- end}}
`
