package web

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Mortgage Calculator</title>
<style>
body { font-family: sans-serif; max-width: 44rem; margin: 2rem auto; }
.filter-item { margin-bottom: 1rem; }
.filter-item label { display: inline-block; width: 9rem; font-weight: bold; }
.button-group { display: flex; gap: 1.5rem; margin-top: 1.5rem; }
.scenario-button_active { background: #a6e3a1; }
.saved-values { font-size: 0.9rem; padding-left: 1rem; }
.error { color: #b00020; }
</style>
</head>
<body>
<h2>Mortgage Calculator</h2>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<div class="filters">
{{range .Filters}}
  <form class="filter-item" method="post" action="/filters/{{.ID}}">
    <label for="filter-{{.ID}}">{{.Name}}:</label>
    {{if eq .Kind "choice"}}
    {{$cur := .Value}}
    <select id="filter-{{.ID}}" name="value" onchange="this.form.submit()">
      <option value="">Select an option</option>
      {{range .Options}}<option value="{{.}}"{{if eq . $cur}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    {{else}}
    <input id="filter-{{.ID}}" type="range" name="value" min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Value}}" onchange="this.form.submit()">
    <span>{{.Value}}</span>
    {{end}}
    <noscript><button type="submit">Set</button></noscript>
  </form>
{{end}}
</div>
<div class="button-group">
{{range .Slots}}
  <div class="scenario-container">
    <form method="post" action="/slots/{{.ID}}">
      <button type="submit" class="{{if .Filled}}scenario-button_active{{else}}scenario-button{{end}}">{{.Label}}</button>
    </form>
    {{if .Items}}<ul class="saved-values">{{range .Items}}<li>{{.Name}}: {{.Value}}</li>{{end}}</ul>{{end}}
  </div>
{{end}}
</div>
<form class="clear-button-container" method="post" action="/scenarios/clear">
  <button type="submit" class="clear-scenarios-button">Clear scenarios</button>
</form>
</body>
</html>
`
