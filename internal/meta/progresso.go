package meta

import (
	"time"

	"github.com/VorticeComercial/api-metas/internal/venda"
)

// Status derivados do ciclo de vida de uma meta. Nunca são persistidos;
// decorrem das datas e do progresso no momento da consulta.
const (
	StatusFutura    string = "futura"
	StatusVencida   string = "vencida"
	StatusConcluida string = "concluida"
	StatusAtiva     string = "ativa"
)

// MetricaDoTipo traduz o tipo de meta para a métrica de fatos correspondente.
// O segundo retorno indica meta de conversão, que é percentual e não somável.
func MetricaDoTipo(tipo string) (venda.Metrica, bool) {
	switch tipo {
	case TipoPropostas:
		return venda.MetricaPropostas, false
	case TipoVendas:
		return venda.MetricaConvertidas, false
	case TipoFaturamento:
		return venda.MetricaFaturamento, false
	case TipoConversao:
		return venda.MetricaConvertidas, true
	}
	return venda.MetricaPropostas, false
}

// StatusDaMeta deriva o status do ciclo de vida da meta.
func StatusDaMeta(inicio, fim time.Time, percentual float64, agora time.Time) string {
	switch {
	case agora.Before(inicio):
		return StatusFutura
	case agora.After(fim) && percentual < 100:
		return StatusVencida
	case agora.After(fim):
		return StatusConcluida
	}
	return StatusAtiva
}
