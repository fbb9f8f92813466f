package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/grid-sync/internal/status"
)

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
	"hz": func(f float64) string {
		return fmt.Sprintf("%.3f Hz", f)
	},
	"deg": func(f float64) string {
		return fmt.Sprintf("%.1f°", f)
	},
	"pct": func(f float64) string {
		return fmt.Sprintf("%.0f%%", f*100)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Grid Sync</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.active { color: green; font-weight: bold; }
.returning { color: orange; }
.idle { color: #888; }
.locked { color: green; font-weight: bold; }
.unlocked { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Grid Sync</h1>

<h2>Players</h2>
<table>
<tr><th></th><th>State</th><th>Frequency</th><th>Angle</th></tr>
<tr><th>Player 1</th>
<td class="{{if eq .P1.State "ACTIVE"}}active{{else if eq .P1.State "RETURNING"}}returning{{else}}idle{{end}}">{{.P1.State}}</td>
<td>{{hz .P1.Frequency}}</td><td>{{deg .P1.AngleDeg}}</td></tr>
<tr><th>Player 2</th>
<td class="{{if eq .P2.State "ACTIVE"}}active{{else if eq .P2.State "RETURNING"}}returning{{else}}idle{{end}}">{{.P2.State}}</td>
<td>{{hz .P2.Frequency}}</td><td>{{deg .P2.AngleDeg}}</td></tr>
</table>

<h2>Synchronization</h2>
<table>
<tr><th>Lock</th><td class="{{if .Locked}}locked{{else}}unlocked{{end}}">{{if .Locked}}LOCKED{{else}}unlocked{{end}}</td></tr>
<tr><th>Progress</th><td>{{pct .SyncProgress}}</td></tr>
<tr><th>Difficulty</th><td>{{.Config.Difficulty}}</td></tr>
</table>

<h2>Session Counts</h2>
<table>
<tr><th>P1 sessions</th><td>{{.Counts.SessionsP1}}</td></tr>
<tr><th>P2 sessions</th><td>{{.Counts.SessionsP2}}</td></tr>
<tr><th>Locks</th><td>{{.Counts.Locks}}</td></tr>
<tr><th>Resets</th><td>{{.Counts.Resets}}</td></tr>
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
<tr><th>Frame Rate</th><td>{{.Config.FPS}} fps</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/display">Display</a> · <a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
