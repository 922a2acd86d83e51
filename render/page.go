package render

import (
	"html/template"
	"io"

	"metasearch/search"
)

const cardsPerRow = 2

// Form targets. A page submits follow-up queries to the route that served it.
const (
	SearchAction = "/"
	ImagesAction = "/images"
)

type card struct {
	search.SearchResult
	ShowSourceName bool
	PodcastThumb   bool
}

type pageData struct {
	Action string
	Topic  string
	Rows   [][]card
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// Render writes the results page for topic with a form submitting to action.
// An empty topic yields the bare search form.
func Render(w io.Writer, action, topic string, results []search.SearchResult) error {
	if action == "" {
		action = SearchAction
	}
	return pageTemplate.Execute(w, pageData{
		Action: action,
		Topic:  topic,
		Rows:   rows(results),
	})
}

func rows(results []search.SearchResult) [][]card {
	var out [][]card
	for i := 0; i < len(results); i += cardsPerRow {
		end := min(i+cardsPerRow, len(results))
		row := make([]card, 0, cardsPerRow)
		for _, r := range results[i:end] {
			row = append(row, newCard(r))
		}
		out = append(out, row)
	}
	return out
}

func newCard(r search.SearchResult) card {
	if !r.HasThumbnail() {
		r.Thumbnail = ""
	}
	return card{
		SearchResult:   r,
		ShowSourceName: r.Source != search.VectorImage,
		PodcastThumb:   r.Source == search.Podcast,
	}
}

const pageHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
{{- if .Topic}}
  <title>Metasearch: {{.Topic}}</title>
{{- else}}
  <title>Search</title>
{{- end}}
  <style>
    .row { display: flex; flex-flow: row wrap; }
    .rowchild { border: 1px solid #555555; border-radius: 10px; padding: 10px; flex: 1 1 45%; max-width: 45%; min-width: 300px; margin: 10px; }
    .linkhead { font-size: larger; }
    .actualquery { font-size: smaller; }
    .snippet { margin: 10px auto; padding: 0px 15px; font-style: italic; }
    .imagecontainer { max-width: 90%; max-height: 400px; }
    .imagecontainer img { max-width: 100%; max-height: 400px; margin: auto; }
    .imagecontainer img.podcast { max-width: 200px; max-height: 200px; }
  </style>
</head>
<body>
  <form action="{{.Action}}" method="get">
    <input type="text" name="query" placeholder="Search" value="{{.Topic}}" style="width: 80%; padding: 10px;">
    <button type="submit" id="submit" style="width: 15%; padding: 10px;">Search</button>
  </form>
{{- if .Topic}}
  <h1>Search: {{.Topic}}</h1>
{{- range .Rows}}
  <div class="row">
{{- range .}}
    <div class="rowchild">
      <div class="linkhead"><a href="{{.URL}}">{{if .Title}}{{.Title}}{{else}}Link{{end}}</a></div>
{{- if .Subsource}}
      <div>Source: <a href="{{.SubsourceURL}}">{{.Subsource}}</a>{{if .ShowSourceName}} <i>({{.Source}})</i>{{end}}</div>
{{- else}}
      <div>Source: <i>{{.Source}}</i></div>
{{- end}}
      <div class="actualquery">Actual query: <i>{{.Query}}</i></div>
{{- if .Snippet}}
      <div class="snippet">{{.Snippet}}</div>
{{- end}}
{{- if .Thumbnail}}
      <div class="imagecontainer"><a href="{{.Thumbnail}}"><img class="{{if .PodcastThumb}}podcast{{else}}photo{{end}}" src="{{.Thumbnail}}" /></a></div>
{{- end}}
    </div>
{{- end}}
  </div>
{{- end}}
{{- end}}
</body>
</html>
`
