package accounting

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]map[string]*entity.Account // companyID -> code -> cuenta
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]map[string]*entity.Account)}
}

func (r *memAccountRepo) Create(a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCode, ok := r.accounts[a.CompanyID]
	if !ok {
		byCode = make(map[string]*entity.Account)
		r.accounts[a.CompanyID] = byCode
	}
	if _, exists := byCode[a.Code]; exists {
		return domain.ErrDuplicate
	}
	cp := *a
	byCode[a.Code] = &cp
	return nil
}

func (r *memAccountRepo) GetByCode(companyID, code string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[companyID][code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAccountRepo) ListByCompany(companyID string) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Account
	for _, a := range r.accounts[companyID] {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memAccountRepo) Update(a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.CompanyID][a.Code]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.accounts[a.CompanyID][a.Code] = &cp
	return nil
}

type memJournalRepo struct {
	mu      sync.Mutex
	entries map[string]*entity.JournalEntry
	failing bool
}

func newMemJournalRepo() *memJournalRepo {
	return &memJournalRepo{entries: make(map[string]*entity.JournalEntry)}
}

func (r *memJournalRepo) Create(e *entity.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return fmt.Errorf("fallo forzado de persistencia")
	}
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *memJournalRepo) GetByID(id string) (*entity.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memJournalRepo) GetLines(entryID string) ([]*entity.JournalLine, error) {
	e, err := r.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.JournalLine, len(e.Lines))
	for i := range e.Lines {
		out[i] = &e.Lines[i]
	}
	return out, nil
}

func (r *memJournalRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.JournalEntry
	for _, e := range r.entries {
		if e.CompanyID == companyID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
