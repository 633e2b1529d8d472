package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// ProductRepository define el puerto de lectura de productos.
// El motor de facturación solo consume referencias; el catálogo se administra fuera.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
}
