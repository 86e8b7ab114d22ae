package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PredictionsPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "palpiteiro_predictions_placed_total",
		Help: "Palpites aceitos (débito efetivado)",
	})
	PredictionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palpiteiro_predictions_rejected_total",
		Help: "Palpites recusados por motivo",
	}, []string{"reason"})

	PurchasesRequested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "palpiteiro_credit_purchases_requested_total",
		Help: "Solicitações de compra de créditos registradas",
	})
	TransactionsDecided = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palpiteiro_credit_transactions_decided_total",
		Help: "Transações de crédito aprovadas/rejeitadas",
	}, []string{"status"})

	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palpiteiro_events_published_total",
		Help: "Eventos publicados no Kafka",
	}, []string{"topic"})
	EventsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palpiteiro_events_failed_total",
		Help: "Falhas ao publicar ou processar eventos",
	}, []string{"topic"})

	PredictionsResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palpiteiro_predictions_resolved_total",
		Help: "Palpites resolvidos por resultado",
	}, []string{"status"})

	NotificationsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "palpiteiro_notifications_delivered_total",
		Help: "Mensagens entregues em conexões WebSocket",
	})
	WSConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "palpiteiro_ws_connections",
		Help: "Conexões WebSocket abertas",
	})
)

// MustRegister registra os coletores usados pelo serviço no registry padrão
func MustRegister(cs ...prometheus.Collector) {
	prometheus.MustRegister(cs...)
}

// CatalogCacheLookups conta leituras do cache do catálogo (hit/miss)
var CatalogCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "palpiteiro_catalog_cache_lookups_total",
	Help: "Leituras do cache do catálogo por resultado",
}, []string{"result"})
