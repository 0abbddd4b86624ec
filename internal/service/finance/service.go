package finance

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/repository"
	"github.com/odonto/admin-api/internal/service/event"
	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/format"
)

const (
	CreatedMessage = "Lançamento registrado!"
	DeletedMessage = "Lançamento removido."

	defaultMethod   = "Pix"
	defaultCategory = "Consulta"
)

// PendingSource supplies transactions recorded this session that a reload
// may not have returned yet.
type PendingSource interface {
	PendingTransactions() []*model.Transaction
	DropPending(txID string)
}

type Service interface {
	// Summary lists the period's transactions and totals. filter narrows
	// the list only.
	Summary(ctx context.Context, period model.Period, filter model.TransactionFilter) (*model.FinanceSummary, error)
	Create(ctx context.Context, req *model.TransactionRequest) (*model.Transaction, error)
	Delete(ctx context.Context, id string) error
}

type Config struct {
	Now      func() time.Time
	Location *time.Location
}

type service struct {
	repo    repository.TransactionRepository
	pending PendingSource
	events  *event.EventService
	logger  zerolog.Logger
	now     func() time.Time
	loc     *time.Location
}

func NewService(store repository.Store, pending PendingSource, events *event.EventService, logger zerolog.Logger, cfg Config) Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &service{
		repo:    store.Transactions(),
		pending: pending,
		events:  events,
		logger:  logger,
		now:     cfg.Now,
		loc:     cfg.Location,
	}
}

// PeriodStart is the first day of the window ending today: the Sunday of the
// current week, the 1st of the month or January 1st.
func PeriodStart(period model.Period, today time.Time) (time.Time, error) {
	y, m, d := today.Date()
	switch period {
	case model.PeriodWeek:
		return time.Date(y, m, d-int(today.Weekday()), 0, 0, 0, 0, today.Location()), nil
	case model.PeriodMonth, "":
		return time.Date(y, m, 1, 0, 0, 0, 0, today.Location()), nil
	case model.PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, today.Location()), nil
	default:
		return time.Time{}, errors.Validation("Período inválido.")
	}
}

func (s *service) Summary(ctx context.Context, period model.Period, filter model.TransactionFilter) (*model.FinanceSummary, error) {
	if period == "" {
		period = model.PeriodMonth
	}
	if filter == "" {
		filter = model.FilterAll
	}
	switch filter {
	case model.FilterAll, model.FilterIncome, model.FilterExpense:
	default:
		return nil, errors.Validation("Filtro inválido.")
	}

	today := s.now().In(s.loc)
	start, err := PeriodStart(period, today)
	if err != nil {
		return nil, err
	}
	from, to := start.Format(format.DateLayout), today.Format(format.DateLayout)

	stored, err := s.repo.ListRange(ctx, from, to)
	if err != nil {
		return nil, errors.Persistence("Erro ao carregar lançamentos: ", err)
	}
	all := s.merge(stored, from, to)

	sum := &model.FinanceSummary{
		Period:       period,
		Filter:       string(filter),
		From:         from,
		To:           to,
		Transactions: make([]*model.Transaction, 0, len(all)),
	}
	for _, tx := range all {
		switch tx.Type {
		case model.TransactionIncome:
			sum.TotalIncome += tx.Value
		case model.TransactionExpense:
			sum.TotalExpense += tx.Value
		}
		if filter == model.FilterAll || string(tx.Type) == string(filter) {
			sum.Transactions = append(sum.Transactions, tx)
		}
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpense
	sum.Formatted.TotalIncome = format.Currency(sum.TotalIncome)
	sum.Formatted.TotalExpense = format.Currency(sum.TotalExpense)
	sum.Formatted.Balance = format.Currency(sum.Balance)
	return sum, nil
}

// merge puts session transactions inside [from, to] in front of the stored
// ones, skipping ids the store already returned, then orders by date desc.
func (s *service) merge(stored []*model.Transaction, from, to string) []*model.Transaction {
	if s.pending == nil {
		return stored
	}
	seen := make(map[string]bool, len(stored))
	for _, tx := range stored {
		seen[tx.ID] = true
	}
	var out []*model.Transaction
	for _, tx := range s.pending.PendingTransactions() {
		if !seen[tx.ID] && tx.Date >= from && tx.Date <= to {
			seen[tx.ID] = true
			out = append(out, tx)
		}
	}
	out = append(out, stored...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func (s *service) Create(ctx context.Context, req *model.TransactionRequest) (*model.Transaction, error) {
	tx := &model.Transaction{
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
		Value:       req.Value,
		Date:        req.Date,
		Method:      req.Method,
		Category:    req.Category,
	}
	if tx.Description == "" || tx.Value == 0 {
		return nil, errors.Validation("Preencha descrição e valor.")
	}
	if tx.Type == "" {
		tx.Type = model.TransactionIncome
	}
	if tx.Type != model.TransactionIncome && tx.Type != model.TransactionExpense {
		return nil, errors.Validation("Tipo inválido.")
	}
	if tx.Method == "" {
		tx.Method = defaultMethod
	}
	if tx.Category == "" {
		tx.Category = defaultCategory
	}
	if tx.Date == "" {
		tx.Date = s.now().In(s.loc).Format(format.DateLayout)
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		s.logger.Error().Err(err).Msg("failed to create transaction")
		return nil, errors.Persistence("Erro: ", err)
	}
	s.logger.Info().
		Str("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Float64("value", tx.Value).
		Msg("transaction created")
	s.events.Emit(ctx, model.CollectionTransactions, model.ChangeInsert, tx.ID)
	return tx, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return errors.NotFound("lançamento", err)
		}
		s.logger.Error().Err(err).Str("transaction_id", id).Msg("failed to delete transaction")
		return errors.Persistence("Erro: ", err)
	}
	if s.pending != nil {
		s.pending.DropPending(id)
	}
	s.events.Emit(ctx, model.CollectionTransactions, model.ChangeDelete, id)
	return nil
}
