// internal/web/web.go
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"renaissance-story/internal/common/errors"
	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/story"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const (
	actionNext = "next"
	actionBack = "back"
)

type pageData struct {
	Chapter        story.Chapter
	Step           story.FormStep
	OnForm         bool
	IsFinalStep    bool
	Required       bool
	TotalSteps     int
	Progress       float64
	StatusProgress float64
	SubmitLabel    string
	ThankYou       string
}

type catalogue struct {
	Chapters  []story.Chapter  `json:"chapters"`
	FormSteps []story.FormStep `json:"formSteps"`
	Form      formCopy         `json:"form"`
}

type formCopy struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	SubmitLabel string `json:"submitLabel"`
}

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{logger: log.WithFields(map[string]interface{}{"component": "web"})}
}

// Routes mounts the story pages, the catalogue API and the embedded assets.
func (h *Handler) Routes(r chi.Router) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	r.Get("/", h.home)
	r.Get("/chapters/{index}", h.chapter)
	r.Post("/chapters/{index}/nav", h.navigate)
	r.Get("/api/chapters", h.catalogue)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.render(w, story.NewNavigator())
}

func (h *Handler) chapter(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	q.Set("chapter", strconv.Itoa(index))
	h.render(w, story.FromQuery(q))
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	q.Set("chapter", strconv.Itoa(index))
	if step := r.PostForm.Get("step"); step != "" {
		q.Set("step", step)
	}
	nav := story.FromQuery(q)

	switch r.PostForm.Get("action") {
	case actionNext:
		nav.Next()
	case actionBack:
		nav.Back()
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, Location(nav), http.StatusSeeOther)
}

func (h *Handler) catalogue(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, catalogue{
		Chapters:  story.Chapters(),
		FormSteps: story.FormSteps(),
		Form: formCopy{
			Title:       story.FormTitle,
			Subtitle:    story.FormSubtitle,
			SubmitLabel: story.SubmitLabel,
		},
	})
}

// Location is the page URL for a navigator state.
func Location(nav *story.Navigator) string {
	loc := fmt.Sprintf("/chapters/%d", nav.Chapter())
	if nav.OnForm() {
		loc += "?step=" + strconv.Itoa(nav.FormStep())
	}
	return loc
}

func (h *Handler) render(w http.ResponseWriter, nav *story.Navigator) {
	step := story.FormStepAt(nav.FormStep())
	data := pageData{
		Chapter:        story.ChapterAt(nav.Chapter()),
		Step:           step,
		OnForm:         nav.OnForm(),
		IsFinalStep:    nav.IsFinalStep(),
		Required:       step.Field == "name" || step.Field == "email",
		TotalSteps:     story.TotalFormSteps,
		Progress:       nav.Progress(),
		StatusProgress: nav.StatusProgress(),
		SubmitLabel:    story.SubmitLabel,
		ThankYou:       story.ThankYou,
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "chapter", data); err != nil {
		h.logger.Error("render failed", map[string]interface{}{
			"chapter": nav.Chapter(),
			"error":   err,
		})
		http.Error(w, "Unexpected server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
