package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL.
// Create usa el TxRunner: el comprobante y sus detalles entran juntos o no entran.
type DocumentRepo struct {
	q  Querier
	tx *TxRunner
}

// NewDocumentRepository construye el adaptador.
func NewDocumentRepository(q Querier, tx *TxRunner) *DocumentRepo {
	return &DocumentRepo{q: q, tx: tx}
}

const documentColumns = `id, company_id, tipo, establecimiento, punto_emision, secuencial,
	fecha_emision, clave_acceso, estado, customer_id, supplier_id,
	total_sin_impuestos, total_descuento, total_impuestos, importe_total,
	xml_firmado, numero_autorizacion, fecha_autorizacion, mensajes_sri,
	created_at, updated_at`

// Create persiste cabecera y detalles en una sola transacción.
func (r *DocumentRepo) Create(doc *entity.Document, details []*entity.DocumentDetail) error {
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	return r.tx.Run(context.Background(), func(q Querier) error {
		query := `
			INSERT INTO documents (` + documentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
		_, err := q.Exec(context.Background(), query,
			doc.ID, doc.CompanyID, doc.Tipo, doc.Establecimiento, doc.PuntoEmision, doc.Secuencial,
			doc.FechaEmision, doc.ClaveAcceso, doc.Estado,
			nullIfEmpty(doc.CustomerID), nullIfEmpty(doc.SupplierID),
			doc.TotalSinImpuestos, doc.TotalDescuento, doc.TotalImpuestos, doc.ImporteTotal,
			nullIfEmpty(doc.XMLFirmado), nullIfEmpty(doc.NumeroAutorizacion),
			doc.FechaAutorizacion, nullIfEmpty(doc.MensajesSRI),
			doc.CreatedAt, doc.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				// La clave de acceso o el secuencial ya existen: con el
				// incremento atómico esto no debería ocurrir jamás.
				return fmt.Errorf("%w: %s", domain.ErrSequenceConflict, err)
			}
			return fmt.Errorf("insert document: %w", err)
		}

		detailQuery := `
			INSERT INTO document_details (id, document_id, product_id, description,
			                              quantity, unit_price, discount, tarifa_codigo, subtotal, tax_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		for _, d := range details {
			if _, err := q.Exec(context.Background(), detailQuery,
				d.ID, d.DocumentID, d.ProductID, d.Description,
				d.Quantity, d.UnitPrice, d.Discount, d.TarifaCodigo, d.Subtotal, d.TaxValue,
			); err != nil {
				return fmt.Errorf("insert document detail: %w", err)
			}
		}
		return nil
	})
}

// UpdateStatus persiste los campos mutables del ciclo SRI.
// Los campos fiscales (tipo, secuencial, clave, totales) jamás se actualizan.
func (r *DocumentRepo) UpdateStatus(doc *entity.Document) error {
	doc.UpdatedAt = time.Now()
	query := `
		UPDATE documents
		SET estado              = $2,
		    xml_firmado         = $3,
		    numero_autorizacion = $4,
		    fecha_autorizacion  = $5,
		    mensajes_sri        = $6,
		    updated_at          = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Estado,
		nullIfEmpty(doc.XMLFirmado), nullIfEmpty(doc.NumeroAutorizacion),
		doc.FechaAutorizacion, nullIfEmpty(doc.MensajesSRI),
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: comprobante %s", domain.ErrNotFound, doc.ID)
	}
	return nil
}

// GetByID obtiene un comprobante por ID.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByClaveAcceso obtiene un comprobante por su clave de acceso.
func (r *DocumentRepo) GetByClaveAcceso(claveAcceso string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE clave_acceso = $1`
	return r.scanOne(query, claveAcceso)
}

// GetDetails obtiene las líneas de detalle del comprobante.
func (r *DocumentRepo) GetDetails(documentID string) ([]*entity.DocumentDetail, error) {
	query := `
		SELECT id, document_id, product_id, description, quantity, unit_price,
		       discount, tarifa_codigo, subtotal, tax_value
		FROM document_details WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document details: %w", err)
	}
	defer rows.Close()

	var list []*entity.DocumentDetail
	for rows.Next() {
		var d entity.DocumentDetail
		if err := rows.Scan(&d.ID, &d.DocumentID, &d.ProductID, &d.Description,
			&d.Quantity, &d.UnitPrice, &d.Discount, &d.TarifaCodigo, &d.Subtotal, &d.TaxValue); err != nil {
			return nil, fmt.Errorf("scan document detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListByCompany devuelve los comprobantes de la empresa paginados.
func (r *DocumentRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := scanDocument(rows.Scan, &d); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func (r *DocumentRepo) scanOne(query string, arg any) (*entity.Document, error) {
	var d entity.Document
	row := r.q.QueryRow(context.Background(), query, arg)
	if err := scanDocument(row.Scan, &d); err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: comprobante", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

func scanDocument(scan func(...any) error, d *entity.Document) error {
	var customerID, supplierID, xmlFirmado, numeroAutorizacion, mensajes *string
	err := scan(
		&d.ID, &d.CompanyID, &d.Tipo, &d.Establecimiento, &d.PuntoEmision, &d.Secuencial,
		&d.FechaEmision, &d.ClaveAcceso, &d.Estado, &customerID, &supplierID,
		&d.TotalSinImpuestos, &d.TotalDescuento, &d.TotalImpuestos, &d.ImporteTotal,
		&xmlFirmado, &numeroAutorizacion, &d.FechaAutorizacion, &mensajes,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	d.CustomerID = deref(customerID)
	d.SupplierID = deref(supplierID)
	d.XMLFirmado = deref(xmlFirmado)
	d.NumeroAutorizacion = deref(numeroAutorizacion)
	d.MensajesSRI = deref(mensajes)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
