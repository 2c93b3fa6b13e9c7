package meta

import (
	"testing"
	"time"

	"github.com/VorticeComercial/api-metas/internal/venda"
)

func TestStatusDaMeta(t *testing.T) {
	inicio := dia(2025, time.June, 1)
	fim := dia(2025, time.June, 30)

	casos := []struct {
		nome       string
		agora      time.Time
		percentual float64
		esperado   string
	}{
		{"antes do início", dia(2025, time.May, 10), 0, StatusFutura},
		{"em andamento", dia(2025, time.June, 15), 40, StatusAtiva},
		{"encerrada incompleta", dia(2025, time.July, 10), 99.9, StatusVencida},
		{"encerrada completa", dia(2025, time.July, 10), 100, StatusConcluida},
	}
	for _, c := range casos {
		if got := StatusDaMeta(inicio, fim, c.percentual, c.agora); got != c.esperado {
			t.Errorf("%s: status = %q, esperado %q", c.nome, got, c.esperado)
		}
	}
}

func TestMetricaDoTipo(t *testing.T) {
	casos := []struct {
		tipo      string
		metrica   venda.Metrica
		conversao bool
	}{
		{TipoPropostas, venda.MetricaPropostas, false},
		{TipoVendas, venda.MetricaConvertidas, false},
		{TipoFaturamento, venda.MetricaFaturamento, false},
		{TipoConversao, venda.MetricaConvertidas, true},
	}
	for _, c := range casos {
		metrica, conversao := MetricaDoTipo(c.tipo)
		if metrica != c.metrica || conversao != c.conversao {
			t.Errorf("tipo %s: (%v, %v), esperado (%v, %v)", c.tipo, metrica, conversao, c.metrica, c.conversao)
		}
	}
}
