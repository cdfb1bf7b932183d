package http

import (
	"html/template"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// The human-facing listing page. Add-on fields are free text supplied by
// third-party authors, so they are stripped of markup before rendering on
// top of the template's own escaping.

var infoSanitizer = bluemonday.StrictPolicy()

var infoTemplate = template.Must(template.New("info").Parse(`<!DOCTYPE html>
<html lang="en">
    <head>
        <title>Add-ons - WebThings Gateway</title>
        <style>
            html, body {
                background-color: #5d9bc7;
                color: white;
                font-family: 'Open Sans', sans-serif;
                font-size: 10px;
                padding: 2rem;
                text-align: center;
            }

            h1 {
                font-family: 'Zilla Slab', 'Open Sans', sans-serif;
            }

            ul {
                list-style-type: none;
            }

            li {
                background-color: #5288af;
                padding: 2rem;
                margin: 1rem auto;
                border-radius: 0.5rem;
                text-align: left;
                width: 60rem;
            }

            .addon-name {
                display: block;
                font-size: 1.8rem;
                padding-bottom: 0.5rem;
            }

            .addon-description {
                display: block;
                font-size: 1.8rem;
                color: #ddd;
                padding-bottom: 0.5rem;
            }

            .addon-author {
                font-size: 1.4rem;
                font-style: italic;
                color: #ddd;
            }

            a:link,
            a:visited,
            a:hover,
            a:active {
                color: white;
            }
        </style>
    </head>
    <body>
        <h1>WebThings Gateway Add-ons</h1>
        <ul>
        {{range .}}
            <li>
                <span class="addon-name">{{.Name}}</span>
                <span class="addon-description">{{.Description}}</span>
                <span class="addon-author">by <a href="{{.Homepage}}">{{.Author}}</a></span>
            </li>
        {{end}}
        </ul>
    </body>
</html>
`))

type infoEntry struct {
	Name        string
	Description string
	Author      string
	Homepage    string
}

// Info renders an HTML listing of every add-on in the current catalog,
// sorted by display name.
func (h *Handlers) Info(c *gin.Context) {
	var entries []infoEntry

	if snap := h.store.Current(); snap != nil {
		addons := snap.Addons()
		entries = make([]infoEntry, 0, len(addons))
		for _, addon := range addons {
			entries = append(entries, infoEntry{
				Name:        infoSanitizer.Sanitize(addon.Name),
				Description: infoSanitizer.Sanitize(addon.Description),
				Author:      infoSanitizer.Sanitize(addon.Author),
				Homepage:    addon.HomepageURL,
			})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := infoTemplate.Execute(c.Writer, entries); err != nil {
		h.logger.Error("Failed to render info page", zap.Error(err))
	}
}
