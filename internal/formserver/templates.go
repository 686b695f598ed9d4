package formserver

import "html/template"

// formData feeds the form page. Success is set after a stored submission,
// Errors after a rejected one.
type formData struct {
	Success bool
	Saved   string
	Errors  []string
	Values  formValues
}

type formValues struct {
	Category string
	Item     string
	Quantity string
}

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Grocery Item Form</title>
  <style>
    body { font-family: sans-serif; max-width: 32rem; margin: 2rem auto; }
    label { display: block; margin-top: 1rem; }
    input { width: 100%; padding: .4rem; }
    .submit-btn { margin-top: 1.5rem; padding: .5rem 1.5rem; }
    #successMessage { background: #e6f4ea; padding: 1rem; }
    .errors { background: #fdecea; padding: 1rem; }
  </style>
</head>
<body>
  <h1>Grocery Item Form</h1>
{{- if .Success}}
  <div id="successMessage">Submission Successful: {{.Saved}}</div>
{{- end}}
{{- if .Errors}}
  <ul class="errors">
  {{- range .Errors}}
    <li>{{.}}</li>
  {{- end}}
  </ul>
{{- end}}
  <form method="post" action="/submit">
    <label for="category">Category</label>
    <input id="category" name="category" type="text" value="{{.Values.Category}}" required>
    <label for="item">Item</label>
    <input id="item" name="item" type="text" value="{{.Values.Item}}" required>
    <label for="quantity">Quantity</label>
    <input id="quantity" name="quantity" type="number" min="1" value="{{.Values.Quantity}}" required>
    <button class="submit-btn" type="submit">Submit</button>
  </form>
</body>
</html>
`))
