package worker

// Notifies the store administrator when a sale leaves a product at or below
// its minimum stock.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/19kjuan/invetario-proyecto/internal/infra"
	"github.com/19kjuan/invetario-proyecto/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AlertaStockWorker struct {
	productoRepo repository.ProductoRepository
	mailer       *infra.Mailer
	destinatario string
}

func NewAlertaStockWorker(productoRepo repository.ProductoRepository, mailer *infra.Mailer, destinatario string) *AlertaStockWorker {
	return &AlertaStockWorker{productoRepo: productoRepo, mailer: mailer, destinatario: destinatario}
}

func (w *AlertaStockWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AlertaStockJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}

	productoID, err := uuid.Parse(payload.ProductoID)
	if err != nil {
		log.Error().Str("producto_id", payload.ProductoID).Msg("alerta_worker: invalid producto_id")
		return
	}

	p, err := w.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		log.Error().Err(err).Str("producto_id", payload.ProductoID).Msg("alerta_worker: producto not found")
		return
	}

	// The product may have been restocked between enqueue and processing.
	if !p.NecesitaReponer() {
		log.Debug().Str("codigo", p.Codigo).Msg("alerta_worker: stock ya repuesto, alerta omitida")
		return
	}

	log.Warn().
		Str("codigo", p.Codigo).
		Str("nombre", p.Nombre).
		Int("stock", p.Stock).
		Int("stock_minimo", p.StockMinimo).
		Msg("producto con stock bajo")

	if w.mailer == nil || w.destinatario == "" {
		return
	}

	subject := fmt.Sprintf("Stock bajo: %s", p.Nombre)
	body := fmt.Sprintf(
		"El producto %s (%s) quedó con %d unidades (mínimo configurado: %d). Conviene reponer.",
		p.Nombre, p.Codigo, p.Stock, p.StockMinimo,
	)
	if err := w.mailer.Send(w.destinatario, subject, body, ""); err != nil {
		log.Error().Err(err).Str("codigo", p.Codigo).Msg("alerta_worker: email failed")
	}
}
