package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/induction-hob/internal/logic"
	"github.com/sweeney/induction-hob/internal/status"
)

// sensorLayout places the nine sensors on a 3x3 grid, center in the middle.
var sensorLayout = [3][3]int{
	{1, 2, 3},
	{8, 0, 4},
	{7, 6, 5},
}

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s logic.State) string {
		if s == "" {
			return "UNKNOWN"
		}
		return string(s)
	},
	"grid": func(r logic.Reading) [3][3]float64 {
		var g [3][3]float64
		for i, row := range sensorLayout {
			for j, idx := range row {
				g[i][j] = r[idx]
			}
		}
		return g
	},
	"heat": func(temp float64) template.CSS {
		// 22°C pale, 260°C deep red.
		f := (temp - 22) / (260 - 22)
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		return template.CSS(fmt.Sprintf("rgb(255,%d,%d)", 235-int(f*200), 220-int(f*220)))
	},
	"temp": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"seconds": func(d time.Duration) string {
		return d.Round(time.Second).String()
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Induction Hob</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.hazard { color: red; font-weight: bold; }
.idle { color: #888; }
.active { color: green; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
table.grid { width: auto; }
table.grid td { width: 5em; height: 3em; text-align: center; border: 1px solid #ccc; }
</style>
</head>
<body>
<h1>Induction Hob</h1>

<h2>Session</h2>
<table>
<tr><th>State</th><td id="state" class="{{if .Hob.State.Hazard}}hazard{{else if .Hob.State.Active}}active{{else}}idle{{end}}">{{stateOrUnknown .Hob.State}}</td></tr>
<tr><th>Recipe</th><td>{{if .Hob.Recipe.ID}}{{.Hob.Recipe.Name}} ({{.Hob.Recipe.ID}}, {{temp .Hob.Recipe.TargetTemperature}}°C){{else}}none{{end}}</td></tr>
<tr><th>Power</th><td id="power">{{.Hob.Power}} / 10</td></tr>
<tr><th>Remaining</th><td>{{seconds .Hob.Remaining}}</td></tr>
{{if eq .Hob.State "RESERVED"}}<tr><th>Heating at</th><td>{{.Hob.ReservationStart.Format "15:04:05"}} (ready {{.Hob.ReservationTarget.Format "15:04"}})</td></tr>{{end}}
<tr><th>Ingredients</th><td>{{if .Hob.IngredientsAdded}}added{{else}}not yet{{end}}</td></tr>
{{if eq .Hob.State "COMPLETE"}}<tr><th>Auto-off</th><td>{{.Hob.AutoOffCounter}} ticks unattended</td></tr>{{end}}
</table>

<h2>Sensors</h2>
<table class="grid">
{{range grid .Hob.Sensors}}<tr>{{range .}}<td style="background: {{heat .}}">{{temp .}}</td>{{end}}</tr>
{{end}}</table>
<table>
<tr><th>Center</th><td id="center">{{temp .Hob.CenterTemp}}°C</td></tr>
<tr><th>Legacy sensor</th><td>{{temp .Hob.LegacyTemp}}°C</td></tr>
<tr><th>Vibration</th><td>{{temp .Hob.Vibration}}</td></tr>
<tr><th>Heat uniformity</th><td>{{temp .Hob.HeatUniformity}}%</td></tr>
<tr><th>Cooking type</th><td>{{.Hob.CookingType}}</td></tr>
<tr><th>Vessel</th><td>{{.Hob.Vessel.Material}}, {{.Hob.Vessel.Size}}, {{.Hob.Vessel.Alignment}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Hob.Tick}} ({{.SkippedTicks}} skipped)</td></tr>
<tr><th>Tick period</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Seed</th><td>{{.Config.Seed}}</td></tr>
<tr><th>GPIO</th><td>{{if .Config.GPIO}}enabled{{else}}disabled{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
