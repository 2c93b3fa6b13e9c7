package venda

import (
	"time"

	"gorm.io/gorm"
)

// Progresso é o resultado do cálculo de avanço de uma meta sobre os fatos.
type Progresso struct {
	Alcancado  int64   // centi-unidades (centavos, contagem ×100 ou centi-percentual)
	Percentual float64 // 0..100
}

// Calculadora computa o progresso de metas a partir dos fatos de venda.
type Calculadora struct {
	Propostas Repository
}

func NewCalculadora(repo Repository) *Calculadora {
	return &Calculadora{Propostas: repo}
}

// CalcularAlcancado agrega o fato correspondente à métrica para o conjunto de
// membros. Para conversão, o alcançado é o centi-percentual de propostas
// convertidas sobre propostas totais no período.
func (c *Calculadora) CalcularAlcancado(db *gorm.DB, membroIDs []uint, metrica Metrica, conversao bool, inicio, fim time.Time) (int64, error) {
	if conversao {
		propostas, err := c.Propostas.AgregarFatos(db, membroIDs, inicio, fim, MetricaPropostas)
		if err != nil {
			return 0, err
		}
		if propostas == 0 {
			return 0, nil
		}
		convertidas, err := c.Propostas.AgregarFatos(db, membroIDs, inicio, fim, MetricaConvertidas)
		if err != nil {
			return 0, err
		}
		// ambas em contagem ×100; percentual com duas casas = ×100 de novo
		return convertidas * 10000 / propostas, nil
	}
	return c.Propostas.AgregarFatos(db, membroIDs, inicio, fim, metrica)
}

// CalcularProgresso intersecta o período da meta com o período consultado,
// agrega o alcançado e devolve o percentual limitado a 100.
func (c *Calculadora) CalcularProgresso(db *gorm.DB, membroIDs []uint, metrica Metrica, conversao bool, alvo int64, metaInicio, metaFim, consultaInicio, consultaFim time.Time) (Progresso, error) {
	inicio, fim, ok := IntersecaoPeriodos(metaInicio, metaFim, consultaInicio, consultaFim)
	if !ok {
		return Progresso{}, nil
	}
	alcancado, err := c.CalcularAlcancado(db, membroIDs, metrica, conversao, inicio, fim)
	if err != nil {
		return Progresso{}, err
	}
	return Progresso{
		Alcancado:  alcancado,
		Percentual: PercentualProgresso(alcancado, alvo),
	}, nil
}

// PercentualProgresso devolve min(alcancado/alvo*100, 100); alvo não positivo
// resulta em 0.
func PercentualProgresso(alcancado, alvo int64) float64 {
	if alvo <= 0 {
		return 0
	}
	p := float64(alcancado) / float64(alvo) * 100
	if p > 100 {
		return 100
	}
	return p
}

// IntersecaoPeriodos devolve a interseção de dois intervalos fechados de
// datas; ok é falso quando não há interseção.
func IntersecaoPeriodos(aInicio, aFim, bInicio, bFim time.Time) (time.Time, time.Time, bool) {
	inicio := aInicio
	if bInicio.After(inicio) {
		inicio = bInicio
	}
	fim := aFim
	if bFim.Before(fim) {
		fim = bFim
	}
	if inicio.After(fim) {
		return time.Time{}, time.Time{}, false
	}
	return inicio, fim, true
}
