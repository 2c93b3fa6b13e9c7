package venda

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func abrirBanco(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("erro ao abrir banco de teste: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("erro no migrate: %v", err)
	}
	return db
}

func dia(ano int, mes time.Month, d int) time.Time {
	return time.Date(ano, mes, d, 0, 0, 0, 0, time.UTC)
}

func criarProposta(t *testing.T, db *gorm.DB, vendedorID uint, valor int64, status string, data time.Time) {
	t.Helper()
	p := Proposta{VendedorID: vendedorID, Valor: valor, Status: status, Data: data}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("erro ao criar proposta: %v", err)
	}
}

func TestAgregarFatos(t *testing.T) {
	db := abrirBanco(t)
	repo := NewRepository()
	ini, fim := dia(2025, time.January, 1), dia(2025, time.January, 31)

	criarProposta(t, db, 1, 10000, StatusConvertida, dia(2025, time.January, 5))
	criarProposta(t, db, 1, 20000, StatusAberta, dia(2025, time.January, 10))
	criarProposta(t, db, 2, 30000, StatusConvertida, dia(2025, time.January, 15))
	// Suspensa nunca conta como convertida nem entra no faturamento.
	criarProposta(t, db, 2, 99900, StatusSuspensa, dia(2025, time.January, 20))
	// Fora do período e fora do conjunto de membros.
	criarProposta(t, db, 1, 5000, StatusConvertida, dia(2025, time.February, 2))
	criarProposta(t, db, 7, 7000, StatusConvertida, dia(2025, time.January, 8))

	membros := []uint{1, 2}

	propostas, err := repo.AgregarFatos(db, membros, ini, fim, MetricaPropostas)
	if err != nil {
		t.Fatal(err)
	}
	if propostas != 400 { // 4 propostas ×100
		t.Errorf("propostas = %d, esperadas 400", propostas)
	}

	convertidas, err := repo.AgregarFatos(db, membros, ini, fim, MetricaConvertidas)
	if err != nil {
		t.Fatal(err)
	}
	if convertidas != 200 { // 2 convertidas ×100
		t.Errorf("convertidas = %d, esperadas 200", convertidas)
	}

	faturamento, err := repo.AgregarFatos(db, membros, ini, fim, MetricaFaturamento)
	if err != nil {
		t.Fatal(err)
	}
	if faturamento != 40000 { // 100.00 + 300.00, suspensa fora
		t.Errorf("faturamento = %d, esperados 40000", faturamento)
	}

	vazio, err := repo.AgregarFatos(db, nil, ini, fim, MetricaFaturamento)
	if err != nil {
		t.Fatal(err)
	}
	if vazio != 0 {
		t.Errorf("conjunto vazio de membros deve agregar 0, veio %d", vazio)
	}
}

func TestCalcularAlcancado_Conversao(t *testing.T) {
	db := abrirBanco(t)
	c := NewCalculadora(NewRepository())
	ini, fim := dia(2025, time.January, 1), dia(2025, time.January, 31)

	criarProposta(t, db, 1, 10000, StatusConvertida, dia(2025, time.January, 5))
	criarProposta(t, db, 1, 10000, StatusAberta, dia(2025, time.January, 6))
	criarProposta(t, db, 1, 10000, StatusAberta, dia(2025, time.January, 7))
	criarProposta(t, db, 1, 10000, StatusSuspensa, dia(2025, time.January, 8))

	alcancado, err := c.CalcularAlcancado(db, []uint{1}, MetricaConvertidas, true, ini, fim)
	if err != nil {
		t.Fatal(err)
	}
	// 1 convertida em 4 propostas = 25.00% = 2500 centi-percentuais
	if alcancado != 2500 {
		t.Errorf("conversão = %d, esperados 2500", alcancado)
	}

	semFatos, err := c.CalcularAlcancado(db, []uint{42}, MetricaConvertidas, true, ini, fim)
	if err != nil {
		t.Fatal(err)
	}
	if semFatos != 0 {
		t.Errorf("sem propostas a conversão deve ser 0, veio %d", semFatos)
	}
}

func TestPercentualProgresso_Limitado(t *testing.T) {
	// alcançado 150, alvo 100: limita em exatamente 100
	if p := PercentualProgresso(15000, 10000); p != 100 {
		t.Errorf("percentual = %v, esperado exatamente 100", p)
	}
	if p := PercentualProgresso(5000, 10000); p != 50 {
		t.Errorf("percentual = %v, esperado 50", p)
	}
	if p := PercentualProgresso(5000, 0); p != 0 {
		t.Errorf("alvo zero deve resultar em 0, veio %v", p)
	}
}

func TestIntersecaoPeriodos(t *testing.T) {
	a1, a2 := dia(2025, time.January, 1), dia(2025, time.January, 31)
	b1, b2 := dia(2025, time.January, 15), dia(2025, time.February, 15)

	ini, fim, ok := IntersecaoPeriodos(a1, a2, b1, b2)
	if !ok {
		t.Fatal("períodos sobrepostos deveriam ter interseção")
	}
	if !ini.Equal(b1) || !fim.Equal(a2) {
		t.Errorf("interseção = [%v, %v], esperada [%v, %v]", ini, fim, b1, a2)
	}

	if _, _, ok := IntersecaoPeriodos(a1, a2, dia(2025, time.March, 1), dia(2025, time.March, 31)); ok {
		t.Error("períodos disjuntos não têm interseção")
	}
}

func TestCalcularProgresso_IntersectaComPeriodoDaMeta(t *testing.T) {
	db := abrirBanco(t)
	c := NewCalculadora(NewRepository())

	// Fatos em janeiro e fevereiro; a meta cobre só janeiro.
	criarProposta(t, db, 1, 10000, StatusConvertida, dia(2025, time.January, 10))
	criarProposta(t, db, 1, 20000, StatusConvertida, dia(2025, time.February, 10))

	prog, err := c.CalcularProgresso(db, []uint{1}, MetricaFaturamento, false, 20000,
		dia(2025, time.January, 1), dia(2025, time.January, 31),
		dia(2025, time.January, 1), dia(2025, time.February, 28))
	if err != nil {
		t.Fatal(err)
	}
	if prog.Alcancado != 10000 {
		t.Errorf("alcançado = %d, só o fato de janeiro conta (10000)", prog.Alcancado)
	}
	if prog.Percentual != 50 {
		t.Errorf("percentual = %v, esperado 50", prog.Percentual)
	}

	// Consulta totalmente fora do período da meta: progresso zero.
	prog, err = c.CalcularProgresso(db, []uint{1}, MetricaFaturamento, false, 20000,
		dia(2025, time.January, 1), dia(2025, time.January, 31),
		dia(2025, time.March, 1), dia(2025, time.March, 31))
	if err != nil {
		t.Fatal(err)
	}
	if prog.Alcancado != 0 || prog.Percentual != 0 {
		t.Errorf("sem interseção o progresso deve ser zero, veio %+v", prog)
	}
}
