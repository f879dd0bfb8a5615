package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/format"
	"github.com/punchamoorthee/bankdash/internal/nav"
	"github.com/punchamoorthee/bankdash/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"dashboard", "accounts", "transactions", "details", "transfer", "error"}

var funcs = template.FuncMap{
	"currency":     format.Currency,
	"date":         format.Date,
	"longDate":     format.LongDate,
	"dateTime":     format.DateTime,
	"typeLabel":    format.TypeLabel,
	"signed":       format.SignedAmount,
	"describe":     format.Description,
	"displayName":  format.DisplayName,
	"outflow":      func(t domain.TxType) bool { return t.Outflow() },
	"detailsPath":  func(id int64) string { return nav.AccountDetails(id).Path() },
	"transferPath": func(id int64) string { return nav.Transfer(id).Path() },
	"ttl":          func() int64 { return service.SuccessNoticeTTL.Milliseconds() },
	"closeAfter":   func() int64 { return service.CreatedNoticeTTL.Milliseconds() },
}

// parsePages builds one template set per page: the shared layout and
// partials plus that page's "content".
func parsePages() (map[string]*template.Template, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

type pageData struct {
	Shell     nav.Shell
	Menu      []nav.MenuItem
	RequestID string
	Data      any
}

type errorData struct {
	Message string
	Retry   string
}

func (h *Handler) shell(r *http.Request) nav.Shell {
	s := nav.New().Go(nav.ParsePath(r.URL.Path))
	if r.URL.Query().Get("menu") == "1" {
		s = s.ToggleMenu()
	}
	return s
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, page string, data any) {
	t, ok := h.pages[page]
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "unknown page "+page)
		return
	}
	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", pageData{
		Shell:     h.shell(r),
		Menu:      nav.Menu,
		RequestID: RequestID(r.Context()),
		Data:      data,
	})
	if err != nil {
		h.log.Error("render failed", zap.String("page", page), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	buf.WriteTo(w)
}

// renderFailure shows the full-page error with a retry link back to the request.
func (h *Handler) renderFailure(w http.ResponseWriter, r *http.Request, code int, msg string) {
	retry := ""
	if r.Method == http.MethodGet {
		retry = r.URL.RequestURI()
	}
	h.render(w, r, code, "error", errorData{Message: msg, Retry: retry})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
