package api

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/listing"
	"github.com/punchamoorthee/bankdash/internal/logging"
	"github.com/punchamoorthee/bankdash/internal/nav"
	"github.com/punchamoorthee/bankdash/internal/service"
	"github.com/punchamoorthee/bankdash/internal/store"
	"github.com/punchamoorthee/bankdash/internal/views"
)

type Handler struct {
	store *store.Store
	pages map[string]*template.Template
	log   *zap.Logger
	now   func() time.Time
}

func NewHandler(s *store.Store, log *logging.Logger) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{store: s, pages: pages, log: log.Logger, now: time.Now}, nil
}

// Routes wires every dashboard page plus health and metrics.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(withRequestID, withRecovery(h.log), withAccessLog(h.log))

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheckHandler).Methods(http.MethodGet)

	r.HandleFunc("/", h.DashboardHandler).Methods(http.MethodGet)
	r.HandleFunc("/accounts", h.AccountsHandler).Methods(http.MethodGet)
	r.HandleFunc("/accounts", h.CreateAccountHandler).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id:[0-9]+}", h.AccountDetailsHandler).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}/freeze", h.FreezeHandler).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id:[0-9]+}/unfreeze", h.UnfreezeHandler).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id:[0-9]+}/statement", h.StatementHandler).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}/interest", h.InterestHandler).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}/transfer", h.TransferFormHandler).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}/transfer", h.TransferHandler).Methods(http.MethodPost)
	r.HandleFunc("/transactions", h.TransactionsHandler).Methods(http.MethodGet)
	r.HandleFunc("/transfer", h.TransferFormHandler).Methods(http.MethodGet)
	r.HandleFunc("/transfer", h.TransferHandler).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, nav.ParsePath(req.URL.Path).Path(), http.StatusFound)
	})
	return r
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type dashboardData struct {
	View  *views.Dashboard
	Stats views.DashboardStats
}

func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	v := views.NewDashboard(h.store)
	if err := v.Load(r.Context()); err != nil {
		h.upstreamFailed(r, "dashboard", err)
		h.renderFailure(w, r, http.StatusBadGateway, v.Err)
		return
	}
	h.render(w, r, http.StatusOK, "dashboard", dashboardData{View: v, Stats: v.Stats()})
}

type accountsData struct {
	*views.AccountsPage
	Form  service.AccountFormState
	Types []domain.AccountType
	Sorts []listing.AccountSort
}

func (h *Handler) accountsPage(r *http.Request) *views.AccountsPage {
	q := r.URL.Query()
	p := views.NewAccountsPage(h.store)
	p.Query = listing.AccountQuery{
		Search: q.Get("q"),
		Type:   filterValue(q.Get("type")),
		Sort:   listing.ParseAccountSort(q.Get("sort")),
	}
	p.Form.Clock = h.now
	return p
}

func (h *Handler) renderAccounts(w http.ResponseWriter, r *http.Request, code int, p *views.AccountsPage) {
	h.render(w, r, code, "accounts", accountsData{
		AccountsPage: p,
		Form:         p.Form.State(),
		Types:        domain.AccountTypes,
		Sorts:        listing.AccountSorts,
	})
}

func (h *Handler) AccountsHandler(w http.ResponseWriter, r *http.Request) {
	p := h.accountsPage(r)
	if err := p.Load(r.Context()); err != nil {
		h.upstreamFailed(r, "accounts", err)
		h.renderFailure(w, r, http.StatusBadGateway, p.Err)
		return
	}
	if r.URL.Query().Get("new") == "1" {
		p.Form.Open()
	}
	h.renderAccounts(w, r, http.StatusOK, p)
}

func (h *Handler) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed form body")
		return
	}
	p := h.accountsPage(r)
	if err := p.Load(r.Context()); err != nil {
		h.upstreamFailed(r, "accounts", err)
		h.renderFailure(w, r, http.StatusBadGateway, p.Err)
		return
	}

	p.Form.Open()
	p.Form.Fill(service.AccountInput{
		Holder:  r.PostForm.Get("holder"),
		Type:    r.PostForm.Get("type"),
		Balance: r.PostForm.Get("balance"),
	})
	acc, err := p.Create(r.Context())
	switch {
	case err == nil:
		h.log.Info("account created", zap.Int64("account_id", acc.ID), zap.String("request_id", RequestID(r.Context())))
		h.renderAccounts(w, r, http.StatusCreated, p)
	case service.IsValidation(err):
		h.renderAccounts(w, r, http.StatusUnprocessableEntity, p)
	default:
		h.upstreamFailed(r, "create account", err)
		h.renderAccounts(w, r, http.StatusBadGateway, p)
	}
}

type detailsData struct {
	View          *views.AccountDetails
	Document      *domain.Document
	DocumentTitle string
}

func (h *Handler) loadDetails(w http.ResponseWriter, r *http.Request) (*views.AccountDetails, bool) {
	id, err := pathID(r)
	if err != nil {
		http.Redirect(w, r, nav.Dashboard().Path(), http.StatusFound)
		return nil, false
	}
	v := views.NewAccountDetails(h.store, id)
	if err := v.Load(r.Context()); err != nil {
		if v.NotFound {
			h.renderFailure(w, r, http.StatusNotFound, "Account not found")
			return nil, false
		}
		h.upstreamFailed(r, "account details", err)
		h.renderFailure(w, r, http.StatusBadGateway, v.Err)
		return nil, false
	}
	return v, true
}

func (h *Handler) AccountDetailsHandler(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadDetails(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "details", detailsData{View: v})
}

func (h *Handler) FreezeHandler(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, (*views.AccountDetails).Freeze)
}

func (h *Handler) UnfreezeHandler(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, (*views.AccountDetails).Unfreeze)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, action func(*views.AccountDetails, context.Context) error) {
	v, ok := h.loadDetails(w, r)
	if !ok {
		return
	}
	if err := action(v, r.Context()); err != nil {
		h.upstreamFailed(r, "status change", err)
		h.render(w, r, http.StatusBadGateway, "details", detailsData{View: v})
		return
	}
	http.Redirect(w, r, nav.AccountDetails(v.ID).Path(), http.StatusSeeOther)
}

func (h *Handler) StatementHandler(w http.ResponseWriter, r *http.Request) {
	h.showDocument(w, r, "Account Statement", (*views.AccountDetails).Statement)
}

func (h *Handler) InterestHandler(w http.ResponseWriter, r *http.Request) {
	h.showDocument(w, r, "Interest Calculation", (*views.AccountDetails).Interest)
}

func (h *Handler) showDocument(w http.ResponseWriter, r *http.Request, title string, fetch func(*views.AccountDetails, context.Context) (domain.Document, error)) {
	v, ok := h.loadDetails(w, r)
	if !ok {
		return
	}
	doc, err := fetch(v, r.Context())
	if err != nil {
		h.upstreamFailed(r, title, err)
		h.render(w, r, http.StatusBadGateway, "details", detailsData{View: v})
		return
	}
	h.render(w, r, http.StatusOK, "details", detailsData{View: v, Document: &doc, DocumentTitle: title})
}

type transactionsData struct {
	*views.TransactionsPage
	Types []domain.TxType
	Sorts []listing.TransactionSort
}

func (h *Handler) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := views.NewTransactionsPage(h.store)
	p.Query = listing.TransactionQuery{
		Search:  q.Get("q"),
		Type:    filterValue(q.Get("type")),
		Account: filterValue(q.Get("account")),
		Sort:    listing.ParseTransactionSort(q.Get("sort")),
	}
	if err := p.Load(r.Context()); err != nil {
		h.upstreamFailed(r, "transactions", err)
		h.renderFailure(w, r, http.StatusBadGateway, p.Err)
		return
	}
	h.render(w, r, http.StatusOK, "transactions", transactionsData{
		TransactionsPage: p,
		Types:            domain.TxTypes,
		Sorts:            listing.TransactionSorts,
	})
}

type transferData struct {
	Form    service.TransferState
	Heading string
	Notice  string
	Action  string
}

func (h *Handler) transferPage(w http.ResponseWriter, r *http.Request) *views.TransferPage {
	var from int64
	if _, ok := mux.Vars(r)["id"]; ok {
		id, err := pathID(r)
		if err != nil {
			http.Redirect(w, r, nav.Transfer(0).Path(), http.StatusFound)
			return nil
		}
		from = id
	}
	p := views.NewTransferPage(h.store, from)
	p.Form.Clock = h.now
	if err := p.Load(r.Context()); err != nil {
		// The form shows its own load error; the page still renders.
		h.upstreamFailed(r, "transfer accounts", err)
	}
	return p
}

func (h *Handler) renderTransfer(w http.ResponseWriter, r *http.Request, code int, p *views.TransferPage) {
	st := p.Form.State()
	data := transferData{Form: st, Heading: p.Heading(), Action: r.URL.Path}
	if st.NoticeVisible(h.now()) {
		data.Notice = st.Notice
	}
	h.render(w, r, code, "transfer", data)
}

func (h *Handler) TransferFormHandler(w http.ResponseWriter, r *http.Request) {
	p := h.transferPage(w, r)
	if p == nil {
		return
	}
	h.renderTransfer(w, r, http.StatusOK, p)
}

func (h *Handler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed form body")
		return
	}
	p := h.transferPage(w, r)
	if p == nil {
		return
	}
	p.Form.Fill(service.TransferInput{
		Source:      r.PostForm.Get("from"),
		Destination: r.PostForm.Get("to"),
		Amount:      r.PostForm.Get("amount"),
		Description: r.PostForm.Get("description"),
	})

	err := p.Form.Submit(r.Context())
	switch {
	case err == nil:
		h.log.Info("transfer completed", zap.String("request_id", RequestID(r.Context())))
		h.renderTransfer(w, r, http.StatusOK, p)
	case service.IsValidation(err):
		h.renderTransfer(w, r, http.StatusUnprocessableEntity, p)
	default:
		h.upstreamFailed(r, "transfer", err)
		code := http.StatusBadGateway
		var apiErr *bankapi.Error
		if errors.As(err, &apiErr) && apiErr.Client() {
			code = http.StatusUnprocessableEntity
		}
		h.renderTransfer(w, r, code, p)
	}
}

func (h *Handler) upstreamFailed(r *http.Request, what string, err error) {
	h.log.Warn("upstream call failed",
		zap.String("request_id", RequestID(r.Context())),
		zap.String("operation", what),
		zap.Error(err),
	)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid account id")
	}
	return id, nil
}

func filterValue(v string) string {
	if v == "" {
		return listing.All
	}
	return v
}
