package meta

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/VorticeComercial/api-metas/internal/apperrors"
	"github.com/VorticeComercial/api-metas/internal/equipe"
	"gorm.io/gorm"
)

// Métodos de distribuição reportados no resumo.
const (
	MetodoIgualitaria string = "igualitaria"
	MetodoManual      string = "manual"
	MetodoReplicada   string = "replicada"
)

// Servico implementa a distribuição de metas de equipe e as operações de
// gestão de metas, sempre com as invariantes de sobreposição e duplicidade.
type Servico struct {
	DB      *gorm.DB
	Metas   Repository
	Equipes *equipe.Resolver
}

func NewServico(db *gorm.DB, metas Repository, equipes *equipe.Resolver) *Servico {
	return &Servico{DB: db, Metas: metas, Equipes: equipes}
}

// ItemDistribuicaoManual é a fatia de meta atribuída pelo chamador a um membro.
type ItemDistribuicaoManual struct {
	MembroID uint
	Valor    int64 // centavos
}

// PedidoDistribuicao descreve uma meta de equipe a distribuir.
type PedidoDistribuicao struct {
	LiderID            uint
	Tipo               string
	ValorAlvo          int64 // centavos
	Inicio             time.Time
	Fim                time.Time
	CriadoPorID        uint
	DistribuicaoManual []ItemDistribuicaoManual // vazio = divisão igualitária
}

// ResumoDistribuicao resume o resultado devolvido ao chamador.
type ResumoDistribuicao struct {
	Metodo            string `json:"metodo"`
	MetaTotal         int64  `json:"-"`
	TotalDistribuido  int64  `json:"-"`
	QuantidadeMembros int    `json:"quantidadeMembros"`
}

// ResultadoDistribuicao carrega a meta de equipe gravada, as metas
// individuais geradas e o resumo.
type ResultadoDistribuicao struct {
	MetaEquipe MetaEquipe
	Individual []MetaIndividual
	Resumo     ResumoDistribuicao
}

type fatia struct {
	membroID uint
	valor    int64
}

// DistribuirMetaEquipe grava a meta agregada do líder e uma meta individual
// por membro resolvido, tudo em uma única transação. Qualquer falha depois da
// abertura da transação desfaz todas as gravações.
func (s *Servico) DistribuirMetaEquipe(req PedidoDistribuicao) (*ResultadoDistribuicao, error) {
	if !EhTipoValido(req.Tipo) {
		return nil, apperrors.Validacao("tipo de meta desconhecido: " + req.Tipo)
	}
	if req.ValorAlvo <= 0 {
		return nil, apperrors.Validacao("valor da meta deve ser positivo")
	}
	if req.Inicio.After(req.Fim) {
		return nil, apperrors.Validacao("data inicial posterior à data final")
	}

	sobreposta, err := s.Metas.ExisteMetaEquipeSobreposta(s.DB, req.LiderID, req.Tipo, req.Inicio, req.Fim, 0)
	if err != nil {
		return nil, err
	}
	if sobreposta {
		return nil, apperrors.Conflito("já existe meta de equipe para este período")
	}

	var resultado *ResultadoDistribuicao
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		me := MetaEquipe{
			LiderID:     req.LiderID,
			Tipo:        req.Tipo,
			ValorAlvo:   req.ValorAlvo,
			Inicio:      req.Inicio,
			Fim:         req.Fim,
			CriadoPorID: req.CriadoPorID,
			Distribuida: true,
		}
		if err := s.Metas.CriarMetaEquipe(tx, &me); err != nil {
			return err
		}

		fatias, metodo, err := s.resolverFatias(tx, req)
		if err != nil {
			return err
		}

		individuais := make([]MetaIndividual, 0, len(fatias))
		var totalDistribuido int64
		for _, f := range fatias {
			duplicada, err := s.Metas.ExisteMetaIndividualNoMes(tx, f.membroID, req.LiderID, req.Tipo, req.Inicio)
			if err != nil {
				return err
			}
			if duplicada {
				return apperrors.Conflito(fmt.Sprintf("membro %d já possui meta deste tipo no mês", f.membroID))
			}

			liderID := req.LiderID
			mi := MetaIndividual{
				MembroID:     f.membroID,
				SupervisorID: &liderID,
				Tipo:         req.Tipo,
				ValorAlvo:    f.valor,
				Inicio:       req.Inicio,
				Fim:          req.Fim,
				CriadoPorID:  req.CriadoPorID,
			}
			if err := s.Metas.CriarMetaIndividual(tx, &mi); err != nil {
				if EhViolacaoDeUnicidade(err) {
					return apperrors.Conflito(fmt.Sprintf("meta do membro %d gravada concorrentemente", f.membroID))
				}
				return err
			}
			individuais = append(individuais, mi)
			totalDistribuido += f.valor
		}

		if metodo == MetodoReplicada {
			// Meta de conversão não é somável entre membros: o resumo reporta
			// o próprio alvo replicado.
			totalDistribuido = req.ValorAlvo
		}

		resultado = &ResultadoDistribuicao{
			MetaEquipe: me,
			Individual: individuais,
			Resumo: ResumoDistribuicao{
				Metodo:            metodo,
				MetaTotal:         req.ValorAlvo,
				TotalDistribuido:  totalDistribuido,
				QuantidadeMembros: len(fatias),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// resolverFatias determina quem recebe meta e quanto, conforme o tipo e a
// presença de distribuição manual.
func (s *Servico) resolverFatias(tx *gorm.DB, req PedidoDistribuicao) ([]fatia, string, error) {
	// Meta de conversão: nada de rateio, o mesmo alvo vale para toda a
	// hierarquia, prepostos de representantes premium incluídos.
	if req.Tipo == TipoConversao {
		ids, err := s.Equipes.ResolverHierarquiaIDs(tx, req.LiderID)
		if err != nil {
			return nil, "", err
		}
		if len(ids) == 0 {
			return nil, "", apperrors.Validacao("líder não possui membros de equipe")
		}
		fatias := make([]fatia, 0, len(ids))
		for _, id := range ids {
			fatias = append(fatias, fatia{membroID: id, valor: req.ValorAlvo})
		}
		return fatias, MetodoReplicada, nil
	}

	if len(req.DistribuicaoManual) > 0 {
		fatias, err := s.validarDistribuicaoManual(tx, req)
		if err != nil {
			return nil, "", err
		}
		return fatias, MetodoManual, nil
	}

	// Divisão igualitária considera apenas a equipe direta; a expansão para
	// prepostos vale só para conversão e para validação manual.
	diretos, err := s.Equipes.ResolverEquipeDireta(tx, req.LiderID)
	if err != nil {
		return nil, "", err
	}
	if len(diretos) == 0 {
		return nil, "", apperrors.Validacao("líder não possui membros de equipe")
	}

	n := int64(len(diretos))
	cota := req.ValorAlvo / n
	resto := req.ValorAlvo - cota*n

	fatias := make([]fatia, 0, len(diretos))
	for i, m := range diretos {
		valor := cota
		if i == 0 {
			// O primeiro membro absorve o resto da divisão: a soma das fatias
			// fecha exatamente no alvo.
			valor = cota + resto
		}
		fatias = append(fatias, fatia{membroID: m.ID, valor: valor})
	}
	return fatias, MetodoIgualitaria, nil
}

// validarDistribuicaoManual mescla entradas duplicadas somando os valores e
// valida cada membro contra a equipe resolvida do líder.
func (s *Servico) validarDistribuicaoManual(tx *gorm.DB, req PedidoDistribuicao) ([]fatia, error) {
	somas := make(map[uint]int64)
	ordem := make([]uint, 0, len(req.DistribuicaoManual))
	for _, item := range req.DistribuicaoManual {
		if item.Valor <= 0 {
			return nil, apperrors.Validacao(fmt.Sprintf("valor inválido para o membro %d", item.MembroID))
		}
		if _, visto := somas[item.MembroID]; !visto {
			ordem = append(ordem, item.MembroID)
		}
		somas[item.MembroID] += item.Valor
	}

	permitidos, err := s.Equipes.MembrosPermitidosParaDistribuicao(tx, req.LiderID)
	if err != nil {
		return nil, err
	}

	var invalidos []string
	for _, id := range ordem {
		if _, ok := permitidos[id]; !ok {
			invalidos = append(invalidos, fmt.Sprintf("%d", id))
		}
	}
	if len(invalidos) > 0 {
		sort.Strings(invalidos)
		return nil, apperrors.Validacao("membros fora da equipe ou inativos: " + strings.Join(invalidos, ", "))
	}

	fatias := make([]fatia, 0, len(ordem))
	for _, id := range ordem {
		fatias = append(fatias, fatia{membroID: id, valor: somas[id]})
	}
	return fatias, nil
}

// CriarMetaIndividualAvulsa grava uma meta individual definida diretamente,
// sem líder, validando a sobreposição de intervalo fechado.
func (s *Servico) CriarMetaIndividualAvulsa(m *MetaIndividual) error {
	if !EhTipoValido(m.Tipo) {
		return apperrors.Validacao("tipo de meta desconhecido: " + m.Tipo)
	}
	if m.ValorAlvo <= 0 {
		return apperrors.Validacao("valor da meta deve ser positivo")
	}
	if m.Inicio.After(m.Fim) {
		return apperrors.Validacao("data inicial posterior à data final")
	}

	sobreposta, err := s.Metas.ExisteMetaIndividualSobreposta(s.DB, m.MembroID, m.SupervisorID, m.Tipo, m.Inicio, m.Fim, 0)
	if err != nil {
		return err
	}
	if sobreposta {
		return apperrors.Conflito("membro já possui meta deste tipo no período")
	}

	if err := s.Metas.CriarMetaIndividual(s.DB, m); err != nil {
		if EhViolacaoDeUnicidade(err) {
			return apperrors.Conflito("meta gravada concorrentemente para o mesmo período")
		}
		return err
	}
	return nil
}

// AtualizarMetaEquipe altera valor e período de uma meta de equipe,
// revalidando a sobreposição sem contar a própria linha.
func (s *Servico) AtualizarMetaEquipe(id uint, valorAlvo int64, inicio, fim time.Time) (*MetaEquipe, error) {
	m, err := s.Metas.BuscarMetaEquipePorID(s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NaoEncontrado("meta de equipe não encontrada")
		}
		return nil, err
	}

	if valorAlvo <= 0 {
		return nil, apperrors.Validacao("valor da meta deve ser positivo")
	}
	if inicio.After(fim) {
		return nil, apperrors.Validacao("data inicial posterior à data final")
	}

	sobreposta, err := s.Metas.ExisteMetaEquipeSobreposta(s.DB, m.LiderID, m.Tipo, inicio, fim, m.ID)
	if err != nil {
		return nil, err
	}
	if sobreposta {
		return nil, apperrors.Conflito("já existe meta de equipe para este período")
	}

	m.ValorAlvo = valorAlvo
	m.Inicio = inicio
	m.Fim = fim
	if err := s.Metas.AtualizarMetaEquipe(s.DB, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AtualizarMetaIndividual altera valor e período de uma meta individual,
// revalidando a sobreposição para o mesmo (membro, líder, tipo) sem contar a
// própria linha.
func (s *Servico) AtualizarMetaIndividual(id uint, valorAlvo int64, inicio, fim time.Time) (*MetaIndividual, error) {
	m, err := s.Metas.BuscarMetaIndividualPorID(s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NaoEncontrado("meta individual não encontrada")
		}
		return nil, err
	}

	if valorAlvo <= 0 {
		return nil, apperrors.Validacao("valor da meta deve ser positivo")
	}
	if inicio.After(fim) {
		return nil, apperrors.Validacao("data inicial posterior à data final")
	}

	sobreposta, err := s.Metas.ExisteMetaIndividualSobreposta(s.DB, m.MembroID, m.SupervisorID, m.Tipo, inicio, fim, m.ID)
	if err != nil {
		return nil, err
	}
	if sobreposta {
		return nil, apperrors.Conflito("membro já possui meta deste tipo no período")
	}

	m.ValorAlvo = valorAlvo
	m.Inicio = inicio
	m.Fim = fim
	if err := s.Metas.AtualizarMetaIndividual(s.DB, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeletarMetaEquipe remove a meta e as individuais derivadas dela.
func (s *Servico) DeletarMetaEquipe(id uint) error {
	m, err := s.Metas.BuscarMetaEquipePorID(s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NaoEncontrado("meta de equipe não encontrada")
		}
		return err
	}
	return s.Metas.DeletarMetaEquipe(s.DB, m)
}

// DeletarMetaIndividual remove uma meta individual pelo ID.
func (s *Servico) DeletarMetaIndividual(id uint) error {
	if _, err := s.Metas.BuscarMetaIndividualPorID(s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NaoEncontrado("meta individual não encontrada")
		}
		return err
	}
	return s.Metas.DeletarMetaIndividual(s.DB, id)
}
