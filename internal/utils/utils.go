package utils

import (
	"math"
	"time"
)

const formatoData = "2006-01-02"

// ParseData interpreta datas no formato aceito pela API (AAAA-MM-DD).
func ParseData(s string) (time.Time, error) {
	return time.Parse(formatoData, s)
}

// CentavosDeReais converte um valor em reais vindo do JSON para centavos
// inteiros. Toda a aritmética de metas acontece em centavos.
func CentavosDeReais(v float64) int64 {
	return int64(math.Round(v * 100))
}

// ReaisDeCentavos converte centavos inteiros de volta para reais no JSON.
func ReaisDeCentavos(c int64) float64 {
	return float64(c) / 100
}

// InicioDoMes trunca a data para o primeiro dia do mês, em UTC.
func InicioDoMes(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ProximoMes retorna o primeiro dia do mês seguinte, em UTC.
func ProximoMes(t time.Time) time.Time {
	return InicioDoMes(t).AddDate(0, 1, 0)
}
