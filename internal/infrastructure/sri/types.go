// Package sri contiene los adaptadores hacia los servicios del SRI:
// construcción del XML del comprobante (esquema offline v1.1.0), firma
// XAdES-BES y clientes SOAP de recepción y autorización.
package sri

import (
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// counterparty agrupa los datos del comprador o proveedor que van en el XML.
type counterparty struct {
	RazonSocial        string
	TipoIdentificacion string
	Identificacion     string
	Direccion          string
}

// esDeProveedor informa si el tipo de comprobante lleva bloque de proveedor
// en lugar de comprador (liquidaciones de compra y retenciones).
func esDeProveedor(codDoc string) bool {
	return codDoc == pkgsri.DocLiquidacionCompra || codDoc == pkgsri.DocRetencion
}

// infoElementName devuelve el nombre del elemento de información fiscal por
// tipo de comprobante (infoFactura, infoLiquidacionCompra, ...).
func infoElementName(codDoc string) (string, error) {
	switch codDoc {
	case pkgsri.DocFactura:
		return "infoFactura", nil
	case pkgsri.DocLiquidacionCompra:
		return "infoLiquidacionCompra", nil
	case pkgsri.DocNotaCredito:
		return "infoNotaCredito", nil
	case pkgsri.DocNotaDebito:
		return "infoNotaDebito", nil
	default:
		return "", fmt.Errorf("sri: tipo de comprobante %q sin esquema XML soportado", codDoc)
	}
}

func fromCustomer(c *entity.Customer) counterparty {
	return counterparty{
		RazonSocial:        c.Name,
		TipoIdentificacion: c.IdentificationType,
		Identificacion:     c.Identification,
		Direccion:          c.Address,
	}
}

func fromSupplier(s *entity.Supplier) counterparty {
	return counterparty{
		RazonSocial:        s.Name,
		TipoIdentificacion: s.IdentificationType,
		Identificacion:     s.Identification,
		Direccion:          s.Address,
	}
}
