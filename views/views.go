// Package views renders HTML pages as pure functions of a view model.
// Templates never mutate their input and go through html/template, so any
// characters in stored titles or content are escaped on output.
package views

import (
	"fmt"
	"html/template"
	"strings"
	"textshelf/core"
)

type (
	// IndexData drives the combined index/reader page.
	IndexData struct {
		All     []core.Text
		Current *core.Text
		Error   string
	}

	// AddData echoes the submitted form together with an inline error.
	AddData struct {
		Title   string
		Content string
		Error   string
	}
)

const indexHTML = `
<form method="GET">
    <input type=text name=title placeholder="Text title" />
    <input type=submit value=read />
</form>
<form method="GET" action="/text/add">
    <input type=text name=title placeholder="Text title" /> <br>
    <textarea name=content placeholder="Text content!" ></textarea> <br>
    <input type=submit value=write/rewrite />
</form>
<div>{{if .Error}}<h1 style="color:red;">{{.Error}}</h1>{{end}}</div>
<div>{{if .Current}}<h1>{{.Current.Title}}</h1>
{{.Current.Content}}{{else}}What do you want read?{{end}}</div>
<ul>{{range .All}}<li>{{.Title}}</li>
{{end}}</ul>
`

const addHTML = `
{{if .Error}}<h1 style="color:red;">{{.Error}}</h1>{{end}}
<form method="GET" action="/text/add">
    <input type=text name=title value="{{.Title}}" placeholder="Text title" /> <br>
    <textarea name=content placeholder="Text content!" >{{.Content}}</textarea> <br>
    <input type=submit value=write/rewrite />
</form>
<a href="/text">Back to texts</a>
`

const redirectHTML = `<meta http-equiv="refresh" content="0; url=/text" />`

var (
	indexTmpl = template.Must(template.New("index").Parse(indexHTML))
	addTmpl   = template.Must(template.New("add").Parse(addHTML))
)

// IndexPage renders the reader page: both forms, the inline error block,
// the currently opened text (or an invitation to pick one) and the list of
// all stored titles.
func IndexPage(data IndexData) (string, error) {
	var b strings.Builder
	if err := indexTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render index page: %w", err)
	}
	return b.String(), nil
}

// AddPage renders the create form again with the submitted values and the
// inline error, so the visitor can correct the submission.
func AddPage(data AddData) (string, error) {
	var b strings.Builder
	if err := addTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render add page: %w", err)
	}
	return b.String(), nil
}

// RedirectPage is the stub served after a successful create; it sends the
// browser straight back to the reader page.
func RedirectPage() string {
	return redirectHTML
}
