package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	domainsri "github.com/jhoicas/Facturacion-api/internal/domain/sri"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

// Estados de respuesta de los WS del SRI.
const (
	recepcionRecibida     = "RECIBIDA"
	autorizacionAprobada  = "AUTORIZADO"
	autorizacionRechazo   = "NO AUTORIZADO"
	autorizacionEnProceso = "EN PROCESO"
)

const processTimeout = 2 * time.Minute

// SRIOrchestrator conduce un comprobante por el ciclo
// BORRADOR -> GENERADO -> FIRMADO -> ENVIADO -> AUTORIZADO | DEVUELTO.
//
// Cada avance de estado pasa por la máquina de transiciones del dominio y se
// persiste de inmediato: si el proceso muere a mitad de ciclo, Process o
// Reconcile retoman desde el último estado guardado. Los fallos de transporte
// con el SRI se reintentan con backoff exponencial y dejan el comprobante en
// ENVIADO; una devolución del SRI es terminal.
type SRIOrchestrator struct {
	documents  repository.DocumentRepository
	companies  repository.CompanyRepository
	xmlBuilder XMLBuilder
	signer     DocumentSigner
	submitter  Submitter
	authorizer Authorizer
	purchases  PurchasePoster
	maxRetries uint64
	logger     zerolog.Logger
}

// NewSRIOrchestrator construye el orquestador. purchases puede ser nil si la
// contabilización automática de compras está deshabilitada.
func NewSRIOrchestrator(
	documents repository.DocumentRepository,
	companies repository.CompanyRepository,
	xmlBuilder XMLBuilder,
	signer DocumentSigner,
	submitter Submitter,
	authorizer Authorizer,
	purchases PurchasePoster,
	maxRetries int,
	logger zerolog.Logger,
) *SRIOrchestrator {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SRIOrchestrator{
		documents:  documents,
		companies:  companies,
		xmlBuilder: xmlBuilder,
		signer:     signer,
		submitter:  submitter,
		authorizer: authorizer,
		purchases:  purchases,
		maxRetries: uint64(maxRetries),
		logger:     logger,
	}
}

// ProcessAsync lanza Process en segundo plano con su propio timeout. El error
// se registra; el estado persistido del comprobante queda siempre consistente
// para un Reconcile posterior.
func (o *SRIOrchestrator) ProcessAsync(documentID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		if err := o.Process(ctx, documentID); err != nil {
			o.logger.Error().Err(err).Str("document_id", documentID).Msg("ciclo SRI interrumpido")
		}
	}()
}

// Process avanza el comprobante desde su estado actual hasta donde el SRI lo
// permita. Es idempotente: invocarlo sobre un comprobante terminal no hace nada.
func (o *SRIOrchestrator) Process(ctx context.Context, documentID string) error {
	doc, err := o.documents.GetByID(documentID)
	if err != nil {
		return fmt.Errorf("cargar comprobante %s: %w", documentID, err)
	}
	if doc.EsTerminal() {
		return nil
	}

	company, err := o.companies.GetByID(doc.CompanyID)
	if err != nil {
		return fmt.Errorf("cargar empresa %s: %w", doc.CompanyID, err)
	}

	signedXML := []byte(doc.XMLFirmado)

	if doc.Estado == entity.EstadoBorrador || doc.Estado == entity.EstadoGenerado {
		signedXML, err = o.generateAndSign(ctx, doc, company)
		if err != nil {
			return err
		}
	}

	if doc.Estado == entity.EstadoFirmado {
		if err := o.advance(doc, domainsri.EventoEnviar); err != nil {
			return err
		}
		if err := o.submitWithRetry(ctx, doc, signedXML); err != nil {
			return err
		}
	}

	if doc.Estado == entity.EstadoEnviado {
		return o.resolveAuthorization(ctx, doc)
	}
	return nil
}

// Reconcile vuelve a consultar la autorización de un comprobante ENVIADO.
// Pensado para cron o reintento manual tras un corte prolongado del SRI.
func (o *SRIOrchestrator) Reconcile(ctx context.Context, documentID string) error {
	doc, err := o.documents.GetByID(documentID)
	if err != nil {
		return fmt.Errorf("cargar comprobante %s: %w", documentID, err)
	}
	if doc.EsTerminal() {
		return nil
	}
	if doc.Estado != entity.EstadoEnviado {
		return fmt.Errorf("%w: reconciliar exige estado ENVIADO, el comprobante está en %s", domain.ErrConflict, doc.Estado)
	}
	return o.resolveAuthorization(ctx, doc)
}

// generateAndSign construye el XML, lo firma y deja el comprobante en FIRMADO.
// Un fallo de firma es fatal (certificado inválido/ausente): el comprobante
// queda en GENERADO con el motivo en MensajesSRI.
func (o *SRIOrchestrator) generateAndSign(ctx context.Context, doc *entity.Document, company *entity.Company) ([]byte, error) {
	details, err := o.documents.GetDetails(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("cargar detalles de %s: %w", doc.ID, err)
	}

	xmlDoc, err := o.xmlBuilder.Build(ctx, doc, details, company)
	if err != nil {
		return nil, fmt.Errorf("construir XML de %s: %w", doc.ID, err)
	}
	if doc.Estado == entity.EstadoBorrador {
		if err := o.advance(doc, domainsri.EventoGenerar); err != nil {
			return nil, err
		}
	}

	signedXML, err := o.signer.Sign(ctx, xmlDoc)
	if err != nil {
		doc.MensajesSRI = fmt.Sprintf("firma fallida: %s", err)
		if uerr := o.documents.UpdateStatus(doc); uerr != nil {
			o.logger.Error().Err(uerr).Str("document_id", doc.ID).Msg("no se pudo persistir el fallo de firma")
		}
		return nil, fmt.Errorf("firmar comprobante %s: %w", doc.ID, err)
	}

	doc.XMLFirmado = string(signedXML)
	if err := o.advance(doc, domainsri.EventoFirmar); err != nil {
		return nil, err
	}
	return signedXML, nil
}

// submitWithRetry envía el XML firmado al WS de recepción. Solo los fallos de
// transporte se reintentan; una respuesta DEVUELTA del SRI es definitiva.
func (o *SRIOrchestrator) submitWithRetry(ctx context.Context, doc *entity.Document, signedXML []byte) error {
	var result *ReceptionResult

	operation := func() error {
		r, err := o.submitter.Submit(ctx, signedXML)
		if err != nil {
			if errors.Is(err, domain.ErrTransport) {
				if _, terr := domainsri.Transition(doc.Estado, domainsri.EventoErrorTransporte); terr != nil {
					return backoff.Permanent(terr)
				}
				o.logger.Warn().Err(err).Str("document_id", doc.ID).Msg("fallo de transporte con el SRI, se reintenta")
				return err
			}
			return backoff.Permanent(err)
		}
		result = r
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), o.maxRetries)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		// Reintentos agotados: el comprobante queda en ENVIADO a la espera
		// de un Reconcile; el número y la clave de acceso no se tocan.
		doc.MensajesSRI = fmt.Sprintf("recepción sin respuesta: %s", err)
		if uerr := o.documents.UpdateStatus(doc); uerr != nil {
			o.logger.Error().Err(uerr).Str("document_id", doc.ID).Msg("no se pudo persistir el fallo de recepción")
		}
		return fmt.Errorf("enviar comprobante %s: %w", doc.ID, err)
	}

	if result.Estado != recepcionRecibida {
		return o.devolver(doc, result.Mensajes)
	}
	return nil
}

// resolveAuthorization consulta la autorización y cierra el ciclo.
func (o *SRIOrchestrator) resolveAuthorization(ctx context.Context, doc *entity.Document) error {
	auth, err := o.authorizer.Authorize(ctx, doc.ClaveAcceso)
	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			// Sigue en ENVIADO; Reconcile lo retomará.
			o.logger.Warn().Err(err).Str("document_id", doc.ID).Msg("consulta de autorización sin respuesta")
			return nil
		}
		return fmt.Errorf("consultar autorización de %s: %w", doc.ID, err)
	}

	switch auth.Estado {
	case autorizacionAprobada:
		doc.NumeroAutorizacion = auth.NumeroAutorizacion
		doc.FechaAutorizacion = auth.FechaAutorizacion
		doc.MensajesSRI = ""
		if err := o.advance(doc, domainsri.EventoAutorizar); err != nil {
			return err
		}
		o.logger.Info().
			Str("document_id", doc.ID).
			Str("numero_autorizacion", doc.NumeroAutorizacion).
			Msg("comprobante autorizado")
		o.postPurchaseIfApplies(ctx, doc)
		return nil

	case autorizacionEnProceso:
		o.logger.Info().Str("document_id", doc.ID).Msg("autorización en proceso, se reconsultará")
		return nil

	default:
		return o.devolver(doc, auth.Mensajes)
	}
}

// devolver marca el comprobante como DEVUELTO (terminal). El emisor debe
// corregir y emitir un comprobante nuevo con secuencial y clave frescos.
func (o *SRIOrchestrator) devolver(doc *entity.Document, mensajes []string) error {
	doc.MensajesSRI = strings.Join(mensajes, "; ")
	if err := o.advance(doc, domainsri.EventoDevolver); err != nil {
		return err
	}
	o.logger.Warn().
		Str("document_id", doc.ID).
		Str("mensajes", doc.MensajesSRI).
		Msg("comprobante devuelto por el SRI")
	return fmt.Errorf("%w: %s", domain.ErrAuthorityRejected, doc.MensajesSRI)
}

// postPurchaseIfApplies contabiliza el asiento de una liquidación de compra
// autorizada. Un fallo contable se registra pero no revierte la autorización:
// el SRI ya emitió el número y ese hecho es inmutable.
func (o *SRIOrchestrator) postPurchaseIfApplies(ctx context.Context, doc *entity.Document) {
	if o.purchases == nil || doc.Tipo != pkgsri.DocLiquidacionCompra {
		return
	}
	if err := o.purchases.PostPurchase(ctx, doc); err != nil {
		o.logger.Error().Err(err).
			Str("document_id", doc.ID).
			Msg("liquidación autorizada sin asiento: contabilizar manualmente")
	}
}

// advance aplica la transición en el dominio y la persiste.
func (o *SRIOrchestrator) advance(doc *entity.Document, ev domainsri.Evento) error {
	next, err := domainsri.Transition(doc.Estado, ev)
	if err != nil {
		return err
	}
	doc.Estado = next
	if err := o.documents.UpdateStatus(doc); err != nil {
		return fmt.Errorf("persistir estado %s de %s: %w", next, doc.ID, err)
	}
	return nil
}
