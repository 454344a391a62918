// Package texts holds the two controller handlers of the app: the
// index/reader page and the create form target.
package texts

import (
	"errors"
	"net/http"
	"textshelf/core"
	"textshelf/middleware"
	"textshelf/views"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

const (
	errTooManyViews  = "Too many articles reviewed."
	errMissingFields = "Need fill the form fields."
	errTitleExists   = "Title already exist."
)

// viewLimit is compared against the counter before the increment for the
// current request, so a visitor gets four successful views in total.
const viewLimit = 3

// HandleIndex serves the reader page. Opening a text is gated on the
// session view counter; the title listing is rendered regardless of the
// gate. A view that actually finds a text counts against the session.
func HandleIndex(store core.TextStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := middleware.SessionFrom(r.Context())
		title := r.URL.Query().Get("title")

		var data views.IndexData
		if session.ViewedPages > viewLimit {
			data.Error = errTooManyViews
		} else if title != "" {
			current, err := store.FindByTitle(r.Context(), title)
			switch {
			case err == nil:
				data.Current = current
			case !errors.Is(err, core.ErrTextNotFound):
				logrus.WithField("title", title).WithError(err).Error("Failed to retrieve text")
				http.Error(w, "Failed to retrieve text", http.StatusInternalServerError)
				return
			}
		}

		all, err := store.ListAll(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to list texts")
			http.Error(w, "Failed to list texts", http.StatusInternalServerError)
			return
		}
		data.All = all

		if data.Current != nil {
			session.ViewedPages++
		}

		page, err := views.IndexPage(data)
		if err != nil {
			logrus.WithError(err).Error("Failed to render index page")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}
		render.HTML(w, r, page)
	}
}

// HandleAdd creates a new text from the GET-submitted form. The backend
// is create-only: a title, once taken, is never overwritten, even though
// the form button says write/rewrite. Errors re-render the form, success
// redirects back to the reader page.
func HandleAdd(store core.TextStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		title := query.Get("title")
		content := query.Get("content")

		data := views.AddData{Title: title, Content: content}

		if title == "" || content == "" {
			data.Error = errMissingFields
			renderAdd(w, r, data)
			return
		}

		err := store.Insert(r.Context(), &core.Text{Title: title, Content: content})
		switch {
		case err == nil:
			render.HTML(w, r, views.RedirectPage())
		case errors.Is(err, core.ErrTitleExists):
			data.Error = errTitleExists
			renderAdd(w, r, data)
		default:
			logrus.WithField("title", title).WithError(err).Error("Failed to create text")
			http.Error(w, "Failed to create text", http.StatusInternalServerError)
		}
	}
}

func renderAdd(w http.ResponseWriter, r *http.Request, data views.AddData) {
	page, err := views.AddPage(data)
	if err != nil {
		logrus.WithError(err).Error("Failed to render add page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	render.HTML(w, r, page)
}
