package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"carteira/internal/cache"
	"carteira/internal/core"
	"carteira/internal/insight"
	"carteira/internal/ledger"
	"carteira/internal/session"
	"carteira/internal/storage"
	"carteira/internal/view"
)

// Handler-side user messages; the edit session carries its own.
const (
	msgVanished        = "Transação não encontrada; talvez já tenha sido removida."
	msgSettingsSaved   = "Configurações salvas com sucesso!"
	msgSettingsWarning = "Preferências aplicadas, mas não foi possível gravar no armazenamento."
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Tab      string
		Settings view.Settings
	}{
		Tab:      view.NormalizeTab(r.URL.Query().Get("tab")),
		Settings: view.BuildSettings(s.store.Snapshot()),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	key := cache.Key(view.TabDashboard, s.store.Revision())
	if body, found := s.viewCache.Get(key); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "key", key)
		_, _ = w.Write(body)
		return
	}

	d := view.BuildDashboard(s.store.Snapshot())
	labels, _ := json.Marshal(d.Chart.Labels)
	values, _ := json.Marshal(d.Chart.Values)
	data := struct {
		view.Dashboard
		ChartLabels string
		ChartValues string
	}{Dashboard: d, ChartLabels: string(labels), ChartValues: string(values)}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html")
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	s.viewCache.Set(key, buf.Bytes())
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	f := parseFilter(r)
	data := view.BuildTransactions(s.store.Snapshot(), f)

	if err := s.templates.ExecuteTemplate(w, "transactions.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "transactions.html")
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// parseFilter reads the list filter controls. Malformed values behave
// like unset controls instead of failing the request.
func parseFilter(r *http.Request) core.Filter {
	q := r.URL.Query()
	f := core.Filter{Text: strings.TrimSpace(q.Get("text"))}

	if v := strings.TrimSpace(q.Get("date")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			f.Date = d
		}
	}
	if k := core.Kind(strings.TrimSpace(q.Get("kind"))); k.Valid() {
		f.Kind = k
	}
	return f
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := view.BuildSettings(s.store.Snapshot())
	if err := s.templates.ExecuteTemplate(w, "settings.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "settings.html")
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// formView is the data for the transaction modal form.
type formView struct {
	Draft      core.Transaction
	IsEditing  bool
	Categories []core.Category
	Methods    []core.Method
}

func newFormView(draft core.Transaction, editing bool) formView {
	return formView{
		Draft:      draft,
		IsEditing:  editing,
		Categories: []core.Category{core.CategoryFood, core.CategoryClothing, core.CategoryTransport, core.CategoryOther},
		Methods:    []core.Method{core.MethodCash, core.MethodPix, core.MethodCard},
	}
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, data formView) {
	if err := s.templates.ExecuteTemplate(w, "transaction_form.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "transaction_form.html")
	}
}

func (s *Server) handleTransactionForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	var id int64
	if v := strings.TrimSpace(r.URL.Query().Get("id")); v != "" {
		id, _ = strconv.ParseInt(v, 10, 64)
	}

	c := session.NewController(s.store, newHXNotifier())
	draft := c.Open(id)
	s.renderForm(w, r, newFormView(draft, c.IsEditing()))
}

func (s *Server) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var id int64
	if v := strings.TrimSpace(r.Form.Get("id")); v != "" {
		id, _ = strconv.ParseInt(v, 10, 64)
	}

	draft := core.Transaction{
		Kind:     core.Kind(strings.TrimSpace(r.Form.Get("type"))),
		Method:   core.Method(strings.TrimSpace(r.Form.Get("paymentMethod"))),
		Category: core.Category(strings.TrimSpace(r.Form.Get("category"))),
	}
	// Unparseable amounts and dates stay zero so the draft is rejected
	// with the same message as missing fields.
	if cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("value"))); err == nil {
		draft.Amount = core.Money{Cents: cents}
	}
	if d, err := core.ParseDate(strings.TrimSpace(r.Form.Get("date"))); err == nil {
		draft.Date = d
	}

	notifier := newHXNotifier()
	c := session.NewController(s.store, notifier)
	c.Open(id)

	if id != 0 && !c.IsEditing() {
		// The edit target vanished between opening the form and saving.
		notifier.Error(msgVanished)
		notifier.Trigger("modal:close", true)
		notifier.Trigger("ledger:changed", true)
		notifier.Flush(w)
		w.WriteHeader(http.StatusOK)
		return
	}

	_, err := c.Submit(r.Context(), draft)

	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		// Re-render the form with the rejected draft. htmx only swaps
		// 2xx responses, so this must go out as a 200.
		notifier.Flush(w)
		s.renderForm(w, r, newFormView(draft, c.IsEditing()))
		return
	case errors.Is(err, ledger.ErrNotFound):
		notifier.Trigger("modal:close", true)
		notifier.Trigger("ledger:changed", true)
		notifier.Flush(w)
		w.WriteHeader(http.StatusOK)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Transaction submit failed", "error", err, "id", id)
		notifier.Flush(w)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	notifier.Trigger("modal:close", true)
	notifier.Trigger("ledger:changed", true)
	notifier.Flush(w)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	notifier := newHXNotifier()
	c := session.NewController(s.store, notifier)
	if err := c.Delete(r.Context(), id); err != nil && !errors.Is(err, ledger.ErrNotFound) {
		slog.ErrorContext(r.Context(), "Transaction delete failed", "error", err, "id", id)
		notifier.Flush(w)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	notifier.Trigger("ledger:changed", true)
	notifier.Flush(w)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	settings := core.Settings{
		Theme:    strings.TrimSpace(r.Form.Get("theme")),
		UserName: strings.TrimSpace(r.Form.Get("userName")),
	}

	notifier := newHXNotifier()
	err := s.store.UpdateSettings(r.Context(), settings)

	var perr *storage.PersistenceError
	switch {
	case errors.As(err, &perr):
		notifier.Error(msgSettingsWarning)
	case err != nil:
		slog.ErrorContext(r.Context(), "Settings update failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	default:
		notifier.Success(msgSettingsSaved)
	}

	applied := s.store.Settings()
	notifier.Trigger("theme:changed", applied.Theme)
	notifier.Flush(w)

	data := view.Settings{Theme: applied.Theme, UserName: applied.UserName}
	if err := s.templates.ExecuteTemplate(w, "settings.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "settings.html")
	}
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if s.insights == nil || !s.insights.Enabled() {
		_, _ = w.Write([]byte(`<div class="insight-placeholder">Análise inteligente não está configurada.</div>`))
		return
	}

	txs := core.SortByDateDesc(s.store.All())
	html, err := s.insights.Generate(r.Context(), txs)

	var rerr *insight.RemoteServiceError
	switch {
	case errors.Is(err, insight.ErrNoTransactions):
		_, _ = w.Write([]byte(`<div class="insight-placeholder">Adicione transações para receber uma análise.</div>`))
		return
	case errors.As(err, &rerr):
		slog.ErrorContext(r.Context(), "Insight generation failed", "error", err)
		_, _ = w.Write([]byte(`<div class="insight-error">Não foi possível gerar a análise agora. Tente novamente mais tarde.</div>`))
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Insight generation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := struct{ Insight template.HTML }{Insight: template.HTML(html)}
	if err := s.templates.ExecuteTemplate(w, "insight.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "insight.html")
	}
}
