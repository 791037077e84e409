package report

import (
	"encoding/json"
	"html/template"
	"io"
)

// htmlData feeds the dashboard template.
type htmlData struct {
	Summary
	Modules []ModuleItem

	// Chart Data
	ChartLabelsJSON    template.JS
	ChartNeededJSON    template.JS
	ChartAvailableJSON template.JS
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Storage Plan v{{.Version}}</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root { --bg: #050505; --text: #F8FAFC; --dim: #94A3B8; --ok: #00FF99; --warn: #F59E0B; --danger: #FF3366; }
        body { background: var(--bg); color: var(--text); font-family: sans-serif; padding: 40px; }
        table { border-collapse: collapse; width: 100%; margin-bottom: 24px; }
        th, td { border-bottom: 1px solid rgba(255,255,255,0.1); padding: 6px 10px; text-align: left; }
        .success { color: var(--ok); } .warning { color: var(--warn); } .danger { color: var(--danger); }
    </style>
</head>
<body>
    <h1>Storage Plan</h1>
    <p>Retention {{.Retention.InputHours}}h input / {{.Retention.OutputHours}}h output. Workforce {{printf "%.0f" .Workforce.Allocated}} / {{printf "%.0f" .Workforce.Total}}.</p>
    <canvas id="cargo" height="80"></canvas>
    {{range .Groups}}
    <h2 class="{{.Status}}">{{.CargoType}}: {{printf "%.0f" .TotalVolume}} needed, {{printf "%.0f" .AvailableVolume}} available</h2>
    <table>
        <tr><th>Ware</th><th>Direction</th><th>Per Hour</th><th>Buffered Volume</th></tr>
        {{range .WareRows}}<tr><td>{{.WareName}}</td><td>{{.Direction}}</td><td>{{printf "%.1f" .HourlyAmount}}</td><td>{{printf "%.0f" .TotalVolume}}</td></tr>
        {{end}}
    </table>
    {{end}}
    {{if .Modules}}
    <h2>Recommended Modules</h2>
    <table>
        <tr><th>Cargo</th><th>Module</th><th>Count</th><th>Total Capacity</th></tr>
        {{range .Modules}}<tr><td>{{.CargoType}}</td><td>{{.ModuleName}}</td><td>{{.Count}}</td><td>{{printf "%.0f" .TotalCapacity}}</td></tr>
        {{end}}
    </table>
    {{end}}
    <script>
        const labels = {{.ChartLabelsJSON}};
        new Chart(document.getElementById('cargo'), {
            type: 'bar',
            data: { labels: labels, datasets: [
                { label: 'Needed', data: {{.ChartNeededJSON}} },
                { label: 'Available', data: {{.ChartAvailableJSON}} }
            ] }
        });
    </script>
</body>
</html>
`

var dashboard = template.Must(template.New("plan").Parse(htmlTemplate))

// WriteHTML renders a standalone dashboard page.
func WriteHTML(w io.Writer, s Summary) error {
	labels := make([]string, 0, len(s.Groups))
	needed := make([]float64, 0, len(s.Groups))
	available := make([]float64, 0, len(s.Groups))
	for _, g := range s.Groups {
		labels = append(labels, string(g.CargoType))
		needed = append(needed, g.TotalVolume)
		available = append(available, g.AvailableVolume)
	}

	data := htmlData{Summary: s, Modules: extractModules(s)}
	var err error
	if data.ChartLabelsJSON, err = jsValue(labels); err != nil {
		return err
	}
	if data.ChartNeededJSON, err = jsValue(needed); err != nil {
		return err
	}
	if data.ChartAvailableJSON, err = jsValue(available); err != nil {
		return err
	}
	return dashboard.Execute(w, data)
}

// jsValue marshals v for inlining in a script block. json.Marshal escapes
// <, > and & so the result cannot close the script element.
func jsValue(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
