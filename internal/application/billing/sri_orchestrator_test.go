package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

type orchestratorFixture struct {
	orch      *SRIOrchestrator
	documents *memDocumentRepo
	submitter *fakeSubmitter
	auth      *fakeAuthorizer
	purchases *fakePurchasePoster
	signer    *fakeSigner
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	companies := &memCompanyRepo{companies: map[string]*entity.Company{
		"co-1": {ID: "co-1", RUC: "1790016919001", Ambiente: pkgsri.AmbientePruebas},
	}}
	documents := newMemDocumentRepo()

	now := time.Now()
	fx := &orchestratorFixture{
		documents: documents,
		submitter: &fakeSubmitter{},
		auth: &fakeAuthorizer{result: &AuthorizationResult{
			Estado:             autorizacionAprobada,
			NumeroAutorizacion: "3108202601179001691900120010010000000011234567813",
			FechaAutorizacion:  &now,
		}},
		purchases: &fakePurchasePoster{},
		signer:    &fakeSigner{},
	}
	fx.orch = NewSRIOrchestrator(
		documents, companies,
		&fakeXMLBuilder{}, fx.signer, fx.submitter, fx.auth, fx.purchases,
		3, zerolog.Nop(),
	)
	return fx
}

func seedDocument(t *testing.T, r *memDocumentRepo, tipo string) *entity.Document {
	t.Helper()
	doc := &entity.Document{
		ID:              "doc-1",
		CompanyID:       "co-1",
		Tipo:            tipo,
		Establecimiento: "001",
		PuntoEmision:    "001",
		Secuencial:      "000000001",
		ClaveAcceso:     "3108202601179001691900110010010000000011234567819",
		Estado:          entity.EstadoBorrador,
		FechaEmision:    time.Now(),
	}
	require.NoError(t, r.Create(doc, []*entity.DocumentDetail{{ID: "det-1", DocumentID: "doc-1"}}))
	return doc
}

func TestProcess_CicloFelizHastaAutorizado(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)

	require.NoError(t, fx.orch.Process(context.Background(), "doc-1"))

	doc, err := fx.documents.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoAutorizado, doc.Estado)
	assert.NotEmpty(t, doc.NumeroAutorizacion)
	assert.NotNil(t, doc.FechaAutorizacion)
	assert.Contains(t, doc.XMLFirmado, "ds:Signature")

	// Cada transición quedó persistida en orden
	assert.Equal(t, []string{
		entity.EstadoGenerado,
		entity.EstadoFirmado,
		entity.EstadoEnviado,
		entity.EstadoAutorizado,
	}, fx.documents.updateLog)
}

func TestProcess_TerminalEsIdempotente(t *testing.T) {
	fx := newOrchestratorFixture(t)
	doc := seedDocument(t, fx.documents, pkgsri.DocFactura)
	doc.Estado = entity.EstadoAutorizado
	require.NoError(t, fx.documents.UpdateStatus(doc))
	fx.documents.updateLog = nil

	require.NoError(t, fx.orch.Process(context.Background(), "doc-1"))
	assert.Empty(t, fx.documents.updateLog, "un comprobante terminal no se toca")
	assert.Equal(t, 0, fx.submitter.calls)
}

func TestProcess_FalloDeFirmaDejaGenerado(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)
	fx.signer.err = fmt.Errorf("certificado expirado")

	err := fx.orch.Process(context.Background(), "doc-1")
	require.Error(t, err)

	doc, _ := fx.documents.GetByID("doc-1")
	assert.Equal(t, entity.EstadoGenerado, doc.Estado)
	assert.Contains(t, doc.MensajesSRI, "certificado expirado")
	assert.Equal(t, 0, fx.submitter.calls, "sin firma no hay envío")
}

func TestProcess_TransporteSeReintenta(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)
	fx.submitter.failTimes = 2 // dos timeouts, el tercero responde

	require.NoError(t, fx.orch.Process(context.Background(), "doc-1"))

	doc, _ := fx.documents.GetByID("doc-1")
	assert.Equal(t, entity.EstadoAutorizado, doc.Estado)
	assert.Equal(t, 3, fx.submitter.calls)
}

func TestProcess_ReintentosAgotadosQuedaEnviado(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)
	fx.submitter.failTimes = 100 // nunca responde

	err := fx.orch.Process(context.Background(), "doc-1")
	require.Error(t, err)

	doc, _ := fx.documents.GetByID("doc-1")
	assert.Equal(t, entity.EstadoEnviado, doc.Estado, "a la espera de Reconcile, sin regenerar nada")
	assert.Contains(t, doc.MensajesSRI, "recepción sin respuesta")
	assert.Equal(t, 4, fx.submitter.calls, "intento inicial + maxRetries")
}

func TestProcess_RecepcionDevuelta(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)
	fx.submitter.result = &ReceptionResult{
		Estado:   "DEVUELTA",
		Mensajes: []string{"ERROR 45: clave de acceso registrada"},
	}

	err := fx.orch.Process(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrAuthorityRejected)

	doc, _ := fx.documents.GetByID("doc-1")
	assert.Equal(t, entity.EstadoDevuelto, doc.Estado)
	assert.Contains(t, doc.MensajesSRI, "ERROR 45")
}

func TestProcess_AutorizacionRechazada(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)
	fx.auth.result = &AuthorizationResult{
		Estado:   autorizacionRechazo,
		Mensajes: []string{"ERROR 58: RUC del emisor no autorizado"},
	}

	err := fx.orch.Process(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrAuthorityRejected)

	doc, _ := fx.documents.GetByID("doc-1")
	assert.Equal(t, entity.EstadoDevuelto, doc.Estado)
	assert.Contains(t, doc.MensajesSRI, "ERROR 58")
}

func TestProcess_AutorizacionEnProcesoQuedaEnviado(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)
	fx.auth.result = &AuthorizationResult{Estado: autorizacionEnProceso}

	require.NoError(t, fx.orch.Process(context.Background(), "doc-1"))

	doc, _ := fx.documents.GetByID("doc-1")
	assert.Equal(t, entity.EstadoEnviado, doc.Estado)
}

func TestReconcile_CierraUnEnviado(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)
	fx.auth.result = &AuthorizationResult{Estado: autorizacionEnProceso}

	require.NoError(t, fx.orch.Process(context.Background(), "doc-1"))

	// El SRI terminó de procesar
	now := time.Now()
	fx.auth.result = &AuthorizationResult{
		Estado:             autorizacionAprobada,
		NumeroAutorizacion: "autorizacion-tardia",
		FechaAutorizacion:  &now,
	}
	require.NoError(t, fx.orch.Reconcile(context.Background(), "doc-1"))

	doc, _ := fx.documents.GetByID("doc-1")
	assert.Equal(t, entity.EstadoAutorizado, doc.Estado)
	assert.Equal(t, "autorizacion-tardia", doc.NumeroAutorizacion)
}

func TestReconcile_ExigeEstadoEnviado(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)

	err := fx.orch.Reconcile(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProcess_LiquidacionAutorizadaContabiliza(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocLiquidacionCompra)

	require.NoError(t, fx.orch.Process(context.Background(), "doc-1"))
	assert.Equal(t, []string{"doc-1"}, fx.purchases.posted)
}

func TestProcess_FacturaNoContabilizaCompras(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocFactura)

	require.NoError(t, fx.orch.Process(context.Background(), "doc-1"))
	assert.Empty(t, fx.purchases.posted)
}

func TestProcess_FalloContableNoRevierteAutorizacion(t *testing.T) {
	fx := newOrchestratorFixture(t)
	seedDocument(t, fx.documents, pkgsri.DocLiquidacionCompra)
	fx.purchases.err = fmt.Errorf("cuenta de compras inexistente")

	require.NoError(t, fx.orch.Process(context.Background(), "doc-1"))

	doc, _ := fx.documents.GetByID("doc-1")
	assert.Equal(t, entity.EstadoAutorizado, doc.Estado, "la autorización del SRI es un hecho inmutable")
}
