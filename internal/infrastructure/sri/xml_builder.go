package sri

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// Versión del esquema offline del SRI que genera este builder.
const schemaVersion = "1.1.0"

// ComprobanteElementID es el valor del atributo id del elemento raíz; la
// Reference de la firma XAdES apunta a él.
const ComprobanteElementID = "comprobante"

// XMLBuilderService construye el XML del comprobante según la Ficha Técnica
// del SRI (esquema offline v1.1.0, sin firma). Resuelve comprador/proveedor y
// el código principal de cada línea contra los repositorios.
type XMLBuilderService struct {
	customers repository.CustomerRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	tarifas   pkgsri.TarifaTable
}

// NewXMLBuilderService construye el servicio.
func NewXMLBuilderService(
	customers repository.CustomerRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	tarifas pkgsri.TarifaTable,
) *XMLBuilderService {
	return &XMLBuilderService{
		customers: customers,
		suppliers: suppliers,
		products:  products,
		tarifas:   tarifas,
	}
}

// Build genera el []byte del comprobante. El elemento raíz depende del tipo
// (factura, liquidacionCompra, notaCredito, notaDebito) y lleva id="comprobante"
// para que el firmador pueda referenciarlo.
func (s *XMLBuilderService) Build(ctx context.Context, doc *entity.Document, details []*entity.DocumentDetail, company *entity.Company) ([]byte, error) {
	if doc == nil || company == nil {
		return nil, fmt.Errorf("sri: faltan comprobante o empresa para construir el XML")
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("sri: comprobante %s sin líneas de detalle", doc.ID)
	}

	rootName := pkgsri.DocumentRootName(doc.Tipo)
	infoName, err := infoElementName(doc.Tipo)
	if err != nil {
		return nil, err
	}

	cp, err := s.resolveCounterparty(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: rootName},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "id"}, Value: ComprobanteElementID},
			{Name: xml.Name{Local: "version"}, Value: schemaVersion},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	if err := s.writeInfoTributaria(enc, doc, company); err != nil {
		return nil, err
	}
	if err := s.writeInfoFiscal(enc, infoName, doc, details, company, cp); err != nil {
		return nil, err
	}
	if err := s.writeDetalles(enc, details); err != nil {
		return nil, err
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("sri: serializar comprobante %s: %w", doc.ID, err)
	}
	return buf.Bytes(), nil
}

func (s *XMLBuilderService) resolveCounterparty(doc *entity.Document) (counterparty, error) {
	if esDeProveedor(doc.Tipo) {
		sup, err := s.suppliers.GetByID(doc.SupplierID)
		if err != nil {
			return counterparty{}, fmt.Errorf("resolver proveedor de %s: %w", doc.ID, err)
		}
		return fromSupplier(sup), nil
	}
	cust, err := s.customers.GetByID(doc.CustomerID)
	if err != nil {
		return counterparty{}, fmt.Errorf("resolver comprador de %s: %w", doc.ID, err)
	}
	return fromCustomer(cust), nil
}

// writeInfoTributaria emite el bloque común a todos los comprobantes.
func (s *XMLBuilderService) writeInfoTributaria(enc *xml.Encoder, doc *entity.Document, company *entity.Company) error {
	start := xml.StartElement{Name: xml.Name{Local: "infoTributaria"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	writeEl(enc, "ambiente", company.Ambiente)
	writeEl(enc, "tipoEmision", pkgsri.EmisionNormal)
	writeEl(enc, "razonSocial", company.Name)
	if company.TradeName != "" {
		writeEl(enc, "nombreComercial", company.TradeName)
	}
	writeEl(enc, "ruc", company.RUC)
	writeEl(enc, "claveAcceso", doc.ClaveAcceso)
	writeEl(enc, "codDoc", doc.Tipo)
	writeEl(enc, "estab", doc.Establecimiento)
	writeEl(enc, "ptoEmi", doc.PuntoEmision)
	writeEl(enc, "secuencial", doc.Secuencial)
	writeEl(enc, "dirMatriz", company.Address)
	return enc.EncodeToken(start.End())
}

// writeInfoFiscal emite infoFactura/infoLiquidacionCompra/... con totales y
// datos del comprador o proveedor según el tipo.
func (s *XMLBuilderService) writeInfoFiscal(enc *xml.Encoder, infoName string, doc *entity.Document, details []*entity.DocumentDetail, company *entity.Company, cp counterparty) error {
	start := xml.StartElement{Name: xml.Name{Local: infoName}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	writeEl(enc, "fechaEmision", doc.FechaEmision.Format("02/01/2006"))
	if company.Address != "" {
		writeEl(enc, "dirEstablecimiento", company.Address)
	}

	if esDeProveedor(doc.Tipo) {
		writeEl(enc, "tipoIdentificacionProveedor", cp.TipoIdentificacion)
		writeEl(enc, "razonSocialProveedor", cp.RazonSocial)
		writeEl(enc, "identificacionProveedor", cp.Identificacion)
		if cp.Direccion != "" {
			writeEl(enc, "direccionProveedor", cp.Direccion)
		}
	} else {
		writeEl(enc, "tipoIdentificacionComprador", cp.TipoIdentificacion)
		writeEl(enc, "razonSocialComprador", cp.RazonSocial)
		writeEl(enc, "identificacionComprador", cp.Identificacion)
	}

	writeEl(enc, "totalSinImpuestos", doc.TotalSinImpuestos.StringFixed(2))
	writeEl(enc, "totalDescuento", doc.TotalDescuento.StringFixed(2))

	if err := s.writeTotalConImpuestos(enc, details); err != nil {
		return err
	}

	if doc.Tipo == pkgsri.DocFactura {
		writeEl(enc, "propina", "0.00")
	}
	writeEl(enc, "importeTotal", doc.ImporteTotal.StringFixed(2))
	writeEl(enc, "moneda", "DOLAR")
	return enc.EncodeToken(start.End())
}

// bucket acumulado por codigoPorcentaje para totalConImpuestos.
type taxBucket struct {
	codigo string
	base   decimal.Decimal
	valor  decimal.Decimal
}

func (s *XMLBuilderService) writeTotalConImpuestos(enc *xml.Encoder, details []*entity.DocumentDetail) error {
	byCodigo := make(map[string]*taxBucket)
	for _, d := range details {
		b, ok := byCodigo[d.TarifaCodigo]
		if !ok {
			b = &taxBucket{codigo: d.TarifaCodigo}
			byCodigo[d.TarifaCodigo] = b
		}
		b.base = b.base.Add(d.Subtotal)
		b.valor = b.valor.Add(d.TaxValue)
	}
	buckets := make([]*taxBucket, 0, len(byCodigo))
	for _, b := range byCodigo {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].codigo < buckets[j].codigo })

	start := xml.StartElement{Name: xml.Name{Local: "totalConImpuestos"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, b := range buckets {
		ti := xml.StartElement{Name: xml.Name{Local: "totalImpuesto"}}
		if err := enc.EncodeToken(ti); err != nil {
			return err
		}
		writeEl(enc, "codigo", pkgsri.CodigoImpuestoIVA)
		writeEl(enc, "codigoPorcentaje", b.codigo)
		writeEl(enc, "baseImponible", b.base.StringFixed(2))
		writeEl(enc, "valor", b.valor.StringFixed(2))
		if err := enc.EncodeToken(ti.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func (s *XMLBuilderService) writeDetalles(enc *xml.Encoder, details []*entity.DocumentDetail) error {
	start := xml.StartElement{Name: xml.Name{Local: "detalles"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, d := range details {
		det := xml.StartElement{Name: xml.Name{Local: "detalle"}}
		if err := enc.EncodeToken(det); err != nil {
			return err
		}
		writeEl(enc, "codigoPrincipal", s.codigoPrincipal(d))
		writeEl(enc, "descripcion", d.Description)
		writeEl(enc, "cantidad", d.Quantity.StringFixed(6))
		writeEl(enc, "precioUnitario", d.UnitPrice.StringFixed(6))
		writeEl(enc, "descuento", d.Discount.StringFixed(2))
		writeEl(enc, "precioTotalSinImpuesto", d.Subtotal.StringFixed(2))

		imps := xml.StartElement{Name: xml.Name{Local: "impuestos"}}
		if err := enc.EncodeToken(imps); err != nil {
			return err
		}
		imp := xml.StartElement{Name: xml.Name{Local: "impuesto"}}
		if err := enc.EncodeToken(imp); err != nil {
			return err
		}
		writeEl(enc, "codigo", pkgsri.CodigoImpuestoIVA)
		writeEl(enc, "codigoPorcentaje", d.TarifaCodigo)
		tarifa, _ := s.tarifas.Porcentaje(d.TarifaCodigo)
		writeEl(enc, "tarifa", tarifa.StringFixed(2))
		writeEl(enc, "baseImponible", d.Subtotal.StringFixed(2))
		writeEl(enc, "valor", d.TaxValue.StringFixed(2))
		if err := enc.EncodeToken(imp.End()); err != nil {
			return err
		}
		if err := enc.EncodeToken(imps.End()); err != nil {
			return err
		}
		if err := enc.EncodeToken(det.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// codigoPrincipal resuelve el SKU del producto de la línea; si el producto ya
// no existe se usa el ID como código para no abortar la emisión.
func (s *XMLBuilderService) codigoPrincipal(d *entity.DocumentDetail) string {
	p, err := s.products.GetByID(d.ProductID)
	if err != nil || p.SKU == "" {
		return d.ProductID
	}
	return p.SKU
}

// writeEl emite <name>value</name>. Los errores del encoder reaparecen en Flush.
func writeEl(enc *xml.Encoder, name, value string) {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	_ = enc.EncodeToken(el)
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(el.End())
}
