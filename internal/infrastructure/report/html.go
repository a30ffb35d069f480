package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

// HTMLRenderer собирает автономный HTML-документ отчёта миссии.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer создаёт генератор отчётов.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: template.Must(template.New("report").Parse(reportTemplate))}
}

type reportRow struct {
	Index      int
	ClassName  string
	Severity   entity.Severity
	Confidence int
	Timestamp  string
	FrameURI   template.URL // data-URI аннотированного кадра, пустой если кадра нет
}

type reportData struct {
	Mission     entity.Mission
	GeneratedAt string
	Summary     entity.MissionSummary
	Rows        []reportRow
}

// Render выполняет шаблон по журналу аномалий и метаданным миссии.
func (r *HTMLRenderer) Render(events []entity.AnomalyEvent, mission entity.Mission) ([]byte, error) {
	rows := make([]reportRow, 0, len(events))
	for i, e := range events {
		row := reportRow{
			Index:      i + 1,
			ClassName:  strings.ReplaceAll(e.ClassName, "_", " "),
			Severity:   entity.SeverityOf(e.ClassName),
			Confidence: int(math.Round(e.Confidence * 100)),
			Timestamp:  e.Timestamp,
		}
		if len(e.FrameBytes) > 0 {
			row.FrameURI = template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(e.FrameBytes))
		}
		rows = append(rows, row)
	}

	data := reportData{
		Mission:     mission,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Summary:     entity.Summarize(events),
		Rows:        rows,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>NautiCAI Inspection Report — {{.Mission.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #102a43; }
h1 { border-bottom: 2px solid #102a43; padding-bottom: 0.3em; }
table { border-collapse: collapse; width: 100%; margin-top: 1em; }
th, td { border: 1px solid #9fb3c8; padding: 0.5em; text-align: left; vertical-align: top; }
.sev-CRITICAL { color: #b00020; font-weight: bold; }
.sev-WARNING { color: #b36b00; font-weight: bold; }
.sev-NORMAL { color: #1b7a43; }
img.frame { max-width: 320px; display: block; }
</style>
</head>
<body>
<h1>NautiCAI Inspection Report</h1>
<p>
Mission: <strong>{{.Mission.Name}}</strong><br>
Vessel/ROV: {{.Mission.VesselID}}<br>
Location: {{.Mission.Location}}<br>
Operator: {{.Mission.Operator}}<br>
Generated: {{.GeneratedAt}}
</p>
<p>
Detections: total={{.Summary.Total}}, critical={{.Summary.Critical}}, warnings={{.Summary.Warnings}}, normal={{.Summary.Normal}}
</p>
{{if .Rows}}
<table>
<tr><th>#</th><th>Class</th><th>Severity</th><th>Confidence</th><th>Timestamp</th><th>Frame</th></tr>
{{range .Rows}}
<tr>
<td>{{.Index}}</td>
<td>{{.ClassName}}</td>
<td class="sev-{{.Severity}}">{{.Severity}}</td>
<td>{{.Confidence}}%</td>
<td>{{.Timestamp}}</td>
<td>{{if .FrameURI}}<img class="frame" src="{{.FrameURI}}" alt="annotated frame">{{else}}&mdash;{{end}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No anomalies were logged during this mission.</p>
{{end}}
</body>
</html>
`

var _ port.ReportRenderer = (*HTMLRenderer)(nil)
