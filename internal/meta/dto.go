package meta

import (
	"github.com/VorticeComercial/api-metas/internal/utils"
)

type ItemDistribuicaoManualRequest struct {
	MembroID uint    `json:"membroId"`
	Valor    float64 `json:"valor"`
}

type DistribuirMetaRequest struct {
	LiderID            uint                            `json:"liderId"`
	Tipo               string                          `json:"tipo"`
	Valor              float64                         `json:"valor"`
	Inicio             string                          `json:"inicio"`
	Fim                string                          `json:"fim"`
	DistribuicaoManual []ItemDistribuicaoManualRequest `json:"distribuicaoManual"`
}

type CriarMetaIndividualRequest struct {
	MembroID uint    `json:"membroId"`
	Tipo     string  `json:"tipo"`
	Valor    float64 `json:"valor"`
	Inicio   string  `json:"inicio"`
	Fim      string  `json:"fim"`
}

type AtualizarMetaRequest struct {
	Valor  float64 `json:"valor"`
	Inicio string  `json:"inicio"`
	Fim    string  `json:"fim"`
}

// Respostas expõem os valores em reais; o armazenamento é em centavos.

type MetaEquipeResponse struct {
	MetaEquipe
	Valor float64 `json:"valor"`
}

func ParaMetaEquipeResponse(m MetaEquipe) MetaEquipeResponse {
	return MetaEquipeResponse{MetaEquipe: m, Valor: utils.ReaisDeCentavos(m.ValorAlvo)}
}

type MetaIndividualResponse struct {
	MetaIndividual
	Valor float64 `json:"valor"`
}

func ParaMetaIndividualResponse(m MetaIndividual) MetaIndividualResponse {
	return MetaIndividualResponse{MetaIndividual: m, Valor: utils.ReaisDeCentavos(m.ValorAlvo)}
}

type ResumoDistribuicaoResponse struct {
	Metodo            string  `json:"metodo"`
	MetaTotal         float64 `json:"metaTotal"`
	TotalDistribuido  float64 `json:"totalDistribuido"`
	QuantidadeMembros int     `json:"quantidadeMembros"`
}

type DistribuicaoResponse struct {
	MetaEquipe MetaEquipeResponse         `json:"metaEquipe"`
	Individual []MetaIndividualResponse   `json:"metasIndividuais"`
	Resumo     ResumoDistribuicaoResponse `json:"resumo"`
}

func ParaDistribuicaoResponse(res *ResultadoDistribuicao) DistribuicaoResponse {
	individuais := make([]MetaIndividualResponse, 0, len(res.Individual))
	for _, mi := range res.Individual {
		individuais = append(individuais, ParaMetaIndividualResponse(mi))
	}
	return DistribuicaoResponse{
		MetaEquipe: ParaMetaEquipeResponse(res.MetaEquipe),
		Individual: individuais,
		Resumo: ResumoDistribuicaoResponse{
			Metodo:            res.Resumo.Metodo,
			MetaTotal:         utils.ReaisDeCentavos(res.Resumo.MetaTotal),
			TotalDistribuido:  utils.ReaisDeCentavos(res.Resumo.TotalDistribuido),
			QuantidadeMembros: res.Resumo.QuantidadeMembros,
		},
	}
}

// MetaComProgressoResponse junta uma meta ao progresso calculado sobre os
// fatos e ao status derivado.
type MetaComProgressoResponse struct {
	Meta       interface{} `json:"meta"`
	Alcancado  float64     `json:"alcancado"`
	Percentual float64     `json:"percentual"`
	Status     string      `json:"status"`
}

// AcompanhamentoEquipeResponse agrega o acompanhamento das metas de equipe
// de um líder com o tamanho da hierarquia considerada no cálculo.
type AcompanhamentoEquipeResponse struct {
	QuantidadeMembros int                        `json:"quantidadeMembros"`
	Metas             []MetaComProgressoResponse `json:"metas"`
}

// PeriodosResponse agrupa as metas de um usuário como líder e como membro.
type PeriodosResponse struct {
	MetasEquipe     []MetaEquipeResponse     `json:"metasEquipe"`
	MetasIndividual []MetaIndividualResponse `json:"metasIndividuais"`
}
