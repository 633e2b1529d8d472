// Package pdf implementa la generación del RIDE (Representación Impresa del
// Documento Electrónico) según la Ficha Técnica del SRI.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUC  │  Tipo + N° Comprobante       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLAVE DE ACCESO (código de barras + texto)                 │
//	│  EMISOR: Dirección matriz / ambiente                        │
//	│  COMPRADOR/PROVEEDOR: Nombre + identificación               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Desc. | Subtotal      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / IVA / VALOR TOTAL          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER SRI: N° autorización + fecha + leyenda legal        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// RIDEGenerator implementa billing.RIDEGenerator usando Maroto v2. Resuelve el
// comprador o proveedor contra los repositorios, igual que el builder XML.
type RIDEGenerator struct {
	customers repository.CustomerRepository
	suppliers repository.SupplierRepository
}

var _ billing.RIDEGenerator = (*RIDEGenerator)(nil)

// NewRIDEGenerator construye el generador.
func NewRIDEGenerator(customers repository.CustomerRepository, suppliers repository.SupplierRepository) *RIDEGenerator {
	return &RIDEGenerator{customers: customers, suppliers: suppliers}
}

// Generate genera el PDF del RIDE y devuelve sus bytes.
func (g *RIDEGenerator) Generate(_ context.Context, doc *entity.Document, details []*entity.DocumentDetail, company *entity.Company) ([]byte, error) {
	if doc == nil || company == nil {
		return nil, fmt.Errorf("pdf: faltan comprobante o empresa")
	}
	counterName, counterID, err := g.resolveCounterparty(doc)
	if err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(tituloComprobante(doc.Tipo)+" "+numeroComprobante(doc), true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(claveAccesoRows(doc)...)
	m.AddRows(emisorRow(company))
	m.AddRows(counterpartyRow(doc.Tipo, counterName, counterID))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(details) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(sriFooterRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar RIDE: %w", err)
	}
	return out.GetBytes(), nil
}

func (g *RIDEGenerator) resolveCounterparty(doc *entity.Document) (name, identification string, err error) {
	if doc.Tipo == pkgsri.DocLiquidacionCompra || doc.Tipo == pkgsri.DocRetencion {
		sup, serr := g.suppliers.GetByID(doc.SupplierID)
		if serr != nil {
			return "", "", fmt.Errorf("pdf: resolver proveedor: %w", serr)
		}
		return sup.Name, sup.Identification, nil
	}
	cust, cerr := g.customers.GetByID(doc.CustomerID)
	if cerr != nil {
		return "", "", fmt.Errorf("pdf: resolver comprador: %w", cerr)
	}
	return cust.Name, cust.Identification, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + RUC (izq) y tipo + número de comprobante (der).
func headerRow(doc *entity.Document, company *entity.Company) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+company.RUC, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(tituloComprobante(doc.Tipo), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("No. "+numeroComprobante(doc), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha emisión: "+doc.FechaEmision.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// claveAccesoRows: código de barras Code 128 + clave en texto.
func claveAccesoRows(doc *entity.Document) []core.Row {
	return []core.Row{
		row.New(14).Add(col.New(12).Add(
			code.NewBar(doc.ClaveAcceso, props.Barcode{
				Percent: 90,
				Center:  true,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(doc.ClaveAcceso, props.Text{
				Size: 7.5, Align: align.Center, Color: colorGray, Top: 0.5,
			}),
		)),
	}
}

// emisorRow: datos del emisor y ambiente.
func emisorRow(company *entity.Company) core.Row {
	ambiente := "PRUEBAS"
	if company.Ambiente == pkgsri.AmbienteProduccion {
		ambiente = "PRODUCCIÓN"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección matriz: %s   |   Ambiente: %s   |   Emisión: NORMAL",
				nonEmpty(company.Address, "—"), ambiente,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// counterpartyRow: comprador o proveedor según el tipo de comprobante.
func counterpartyRow(tipo, name, identification string) core.Row {
	titulo := "COMPRADOR / ADQUIRIENTE"
	if tipo == pkgsri.DocLiquidacionCompra || tipo == pkgsri.DocRetencion {
		titulo = "PROVEEDOR"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Identificación: "+identification, props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("P. Unitario", 2, align.Right),
		h("Dcto.", 1, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea de detalle.
func tableDetailRows(details []*entity.DocumentDetail) []core.Row {
	result := make([]core.Row, 0, len(details))
	for _, d := range details {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				d.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				d.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+d.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				d.Discount.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+d.Subtotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(doc *entity.Document) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(32).Add(
		col.New(3), // espacio izquierdo
		col.New(3).Add(
			label("Subtotal sin impuestos:"),
			label("Descuento:"),
			label("IVA:"),
			grandLabel("VALOR TOTAL:"),
		),
		col.New(3).Add(
			value("$"+doc.TotalSinImpuestos.StringFixed(2)),
			value("$"+doc.TotalDescuento.StringFixed(2)),
			value("$"+doc.TotalImpuestos.StringFixed(2)),
			grandValue("$"+doc.ImporteTotal.StringFixed(2)),
		),
		col.New(3), // espacio derecho
	)
}

// sriFooterRows: número y fecha de autorización + leyenda legal.
func sriFooterRows(doc *entity.Document) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN ELECTRÓNICA SRI", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if doc.NumeroAutorizacion != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Número de autorización:", props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)))
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(doc.NumeroAutorizacion, props.Text{
				Size: 7, Color: colorGray, Top: 0.5, Left: 2,
			}),
		)))
		if doc.FechaAutorizacion != nil {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New("Fecha de autorización: "+doc.FechaAutorizacion.Format("02/01/2006 15:04:05"), props.Text{
					Size: 7, Color: colorGray, Top: 0.5, Left: 2,
				}),
			)))
		}
	} else {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("COMPROBANTE SIN AUTORIZAR — estado: "+doc.Estado, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento generado conforme a la Ficha Técnica de Comprobantes "+
				"Electrónicos del SRI (esquema offline). "+
				"Conserve este documento como soporte tributario.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func tituloComprobante(tipo string) string {
	switch tipo {
	case pkgsri.DocFactura:
		return "FACTURA"
	case pkgsri.DocLiquidacionCompra:
		return "LIQUIDACIÓN DE COMPRA"
	case pkgsri.DocNotaCredito:
		return "NOTA DE CRÉDITO"
	case pkgsri.DocNotaDebito:
		return "NOTA DE DÉBITO"
	case pkgsri.DocGuiaRemision:
		return "GUÍA DE REMISIÓN"
	case pkgsri.DocRetencion:
		return "COMPROBANTE DE RETENCIÓN"
	default:
		return "COMPROBANTE"
	}
}

func numeroComprobante(doc *entity.Document) string {
	return doc.Establecimiento + "-" + doc.PuntoEmision + "-" + doc.Secuencial
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
