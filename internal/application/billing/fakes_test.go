package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// Dobles en memoria de los puertos de persistencia y de los WS del SRI.

type memDocumentRepo struct {
	mu        sync.Mutex
	docs      map[string]*entity.Document
	details   map[string][]*entity.DocumentDetail
	failOn    string // "create" | "update" fuerza error
	updateLog []string
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{
		docs:    make(map[string]*entity.Document),
		details: make(map[string][]*entity.DocumentDetail),
	}
}

func (r *memDocumentRepo) Create(doc *entity.Document, details []*entity.DocumentDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "create" {
		return fmt.Errorf("fallo forzado de persistencia")
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	r.details[doc.ID] = details
	return nil
}

func (r *memDocumentRepo) UpdateStatus(doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "update" {
		return fmt.Errorf("fallo forzado de persistencia")
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	r.updateLog = append(r.updateLog, doc.Estado)
	return nil
}

func (r *memDocumentRepo) GetByID(id string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memDocumentRepo) GetByClaveAcceso(clave string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ClaveAcceso == clave {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memDocumentRepo) GetDetails(documentID string) ([]*entity.DocumentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.details[documentID], nil
}

func (r *memDocumentRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Document
	for _, d := range r.docs {
		if d.CompanyID == companyID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memCompanyRepo struct {
	companies map[string]*entity.Company
}

func (r *memCompanyRepo) Create(c *entity.Company) error { r.companies[c.ID] = c; return nil }
func (r *memCompanyRepo) Update(c *entity.Company) error { r.companies[c.ID] = c; return nil }

func (r *memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *memCompanyRepo) GetByRUC(ruc string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.RUC == ruc {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memCompanyRepo) List(limit, offset int) ([]*entity.Company, error) { return nil, nil }

type memCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (r *memCustomerRepo) Create(c *entity.Customer) error { r.customers[c.ID] = c; return nil }

func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *memCustomerRepo) GetByCompanyAndIdentification(companyID, ident string) (*entity.Customer, error) {
	return nil, domain.ErrNotFound
}

func (r *memCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

type memSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (r *memSupplierRepo) Create(s *entity.Supplier) error { r.suppliers[s.ID] = s; return nil }

func (r *memSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *memSupplierRepo) GetByCompanyAndIdentification(companyID, ident string) (*entity.Supplier, error) {
	return nil, domain.ErrNotFound
}

func (r *memSupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	return nil, domain.ErrNotFound
}

func (r *memProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

// Dobles de los puertos SRI.

type fakeXMLBuilder struct{ err error }

func (f *fakeXMLBuilder) Build(_ context.Context, doc *entity.Document, _ []*entity.DocumentDetail, _ *entity.Company) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("<factura id=\"comprobante\">" + doc.ClaveAcceso + "</factura>"), nil
}

type fakeSigner struct{ err error }

func (f *fakeSigner) Sign(_ context.Context, xmlDoc []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append(xmlDoc, []byte("<ds:Signature/>")...), nil
}

type fakeSubmitter struct {
	mu        sync.Mutex
	failTimes int // primeras n llamadas fallan con ErrTransport
	calls     int
	result    *ReceptionResult
	err       error // error fijo no-transporte
}

func (f *fakeSubmitter) Submit(_ context.Context, _ []byte) (*ReceptionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.calls <= f.failTimes {
		return nil, fmt.Errorf("%w: timeout de recepción", domain.ErrTransport)
	}
	if f.result != nil {
		return f.result, nil
	}
	return &ReceptionResult{Estado: recepcionRecibida}, nil
}

type fakeAuthorizer struct {
	result *AuthorizationResult
	err    error
}

func (f *fakeAuthorizer) Authorize(_ context.Context, _ string) (*AuthorizationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakePurchasePoster struct {
	mu     sync.Mutex
	posted []string
	err    error
}

func (f *fakePurchasePoster) PostPurchase(_ context.Context, doc *entity.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.posted = append(f.posted, doc.ID)
	return nil
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
