package meta

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/VorticeComercial/api-metas/internal/apperrors"
	"github.com/VorticeComercial/api-metas/internal/autenticacao"
	"github.com/VorticeComercial/api-metas/internal/utils"
	"github.com/VorticeComercial/api-metas/internal/venda"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB          *gorm.DB
	Servico     *Servico
	Metas       Repository
	Calculadora *venda.Calculadora
}

func NewHandler(db *gorm.DB, servico *Servico, calculadora *venda.Calculadora) *Handler {
	return &Handler{
		DB:          db,
		Servico:     servico,
		Metas:       servico.Metas,
		Calculadora: calculadora,
	}
}

// DistribuirMetaEquipe cria a meta agregada do líder e distribui as metas
// individuais em uma transação
func (h *Handler) DistribuirMetaEquipe(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(autenticacao.CtxUsuarioID).(uint)

	var req DistribuirMetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	inicio, err := utils.ParseData(req.Inicio)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("data inicial inválida, use AAAA-MM-DD"))
		return
	}
	fim, err := utils.ParseData(req.Fim)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("data final inválida, use AAAA-MM-DD"))
		return
	}

	pedido := PedidoDistribuicao{
		LiderID:     req.LiderID,
		Tipo:        req.Tipo,
		ValorAlvo:   utils.CentavosDeReais(req.Valor),
		Inicio:      inicio,
		Fim:         fim,
		CriadoPorID: userID,
	}
	for _, item := range req.DistribuicaoManual {
		pedido.DistribuicaoManual = append(pedido.DistribuicaoManual, ItemDistribuicaoManual{
			MembroID: item.MembroID,
			Valor:    utils.CentavosDeReais(item.Valor),
		})
	}

	resultado, err := h.Servico.DistribuirMetaEquipe(pedido)
	if err != nil {
		apperrors.Responder(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ParaDistribuicaoResponse(resultado))
}

// CriarMetaIndividual registra uma meta individual avulsa, sem líder
func (h *Handler) CriarMetaIndividual(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(autenticacao.CtxUsuarioID).(uint)

	var req CriarMetaIndividualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	inicio, err := utils.ParseData(req.Inicio)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("data inicial inválida, use AAAA-MM-DD"))
		return
	}
	fim, err := utils.ParseData(req.Fim)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("data final inválida, use AAAA-MM-DD"))
		return
	}

	m := MetaIndividual{
		MembroID:    req.MembroID,
		Tipo:        req.Tipo,
		ValorAlvo:   utils.CentavosDeReais(req.Valor),
		Inicio:      inicio,
		Fim:         fim,
		CriadoPorID: userID,
	}
	if err := h.Servico.CriarMetaIndividualAvulsa(&m); err != nil {
		apperrors.Responder(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ParaMetaIndividualResponse(m))
}

func (h *Handler) lerAtualizacao(w http.ResponseWriter, r *http.Request) (uint, int64, time.Time, time.Time, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return 0, 0, time.Time{}, time.Time{}, false
	}

	var req AtualizarMetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return 0, 0, time.Time{}, time.Time{}, false
	}
	inicio, err := utils.ParseData(req.Inicio)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("data inicial inválida, use AAAA-MM-DD"))
		return 0, 0, time.Time{}, time.Time{}, false
	}
	fim, err := utils.ParseData(req.Fim)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("data final inválida, use AAAA-MM-DD"))
		return 0, 0, time.Time{}, time.Time{}, false
	}
	return uint(id), utils.CentavosDeReais(req.Valor), inicio, fim, true
}

// AtualizarMetaEquipe altera valor e período de uma meta de equipe
func (h *Handler) AtualizarMetaEquipe(w http.ResponseWriter, r *http.Request) {
	id, valor, inicio, fim, ok := h.lerAtualizacao(w, r)
	if !ok {
		return
	}
	m, err := h.Servico.AtualizarMetaEquipe(id, valor, inicio, fim)
	if err != nil {
		apperrors.Responder(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ParaMetaEquipeResponse(*m))
}

// AtualizarMetaIndividual altera valor e período de uma meta individual
func (h *Handler) AtualizarMetaIndividual(w http.ResponseWriter, r *http.Request) {
	id, valor, inicio, fim, ok := h.lerAtualizacao(w, r)
	if !ok {
		return
	}
	m, err := h.Servico.AtualizarMetaIndividual(id, valor, inicio, fim)
	if err != nil {
		apperrors.Responder(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ParaMetaIndividualResponse(*m))
}

// DeletarMetaEquipe remove a meta do líder e as individuais derivadas
func (h *Handler) DeletarMetaEquipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Servico.DeletarMetaEquipe(uint(id)); err != nil {
		apperrors.Responder(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("meta de equipe excluída com sucesso"))
}

// DeletarMetaIndividual remove uma meta individual
func (h *Handler) DeletarMetaIndividual(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Servico.DeletarMetaIndividual(uint(id)); err != nil {
		apperrors.Responder(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("meta individual excluída com sucesso"))
}

// ListarPeriodos retorna as metas de um usuário como líder e como membro
func (h *Handler) ListarPeriodos(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	equipe, err := h.Metas.ListarMetasEquipePorLider(h.DB, uint(id))
	if err != nil {
		http.Error(w, "erro ao listar metas de equipe", http.StatusInternalServerError)
		return
	}
	individuais, err := h.Metas.ListarMetasIndividuaisPorMembro(h.DB, uint(id))
	if err != nil {
		http.Error(w, "erro ao listar metas individuais", http.StatusInternalServerError)
		return
	}

	resp := PeriodosResponse{
		MetasEquipe:     make([]MetaEquipeResponse, 0, len(equipe)),
		MetasIndividual: make([]MetaIndividualResponse, 0, len(individuais)),
	}
	for _, m := range equipe {
		resp.MetasEquipe = append(resp.MetasEquipe, ParaMetaEquipeResponse(m))
	}
	for _, m := range individuais {
		resp.MetasIndividual = append(resp.MetasIndividual, ParaMetaIndividualResponse(m))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// lerIntervaloConsulta lê inicio/fim da query string; ausentes, a consulta
// cobre o período da própria meta.
func lerIntervaloConsulta(r *http.Request) (time.Time, time.Time, bool, error) {
	ini := r.URL.Query().Get("inicio")
	fim := r.URL.Query().Get("fim")
	if ini == "" || fim == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	tIni, err := utils.ParseData(ini)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	tFim, err := utils.ParseData(fim)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return tIni, tFim, true, nil
}

// MetasDistribuidasPorLider retorna as metas individuais geradas pelas
// distribuições de um líder
func (h *Handler) MetasDistribuidasPorLider(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	metas, err := h.Metas.ListarMetasIndividuaisPorSupervisor(h.DB, uint(id))
	if err != nil {
		http.Error(w, "erro ao listar metas distribuídas", http.StatusInternalServerError)
		return
	}
	resp := make([]MetaIndividualResponse, 0, len(metas))
	for _, m := range metas {
		resp = append(resp, ParaMetaIndividualResponse(m))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// AcompanhamentoMembro retorna as metas individuais de um membro com o
// progresso calculado sobre seus próprios fatos
func (h *Handler) AcompanhamentoMembro(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	consultaIni, consultaFim, temIntervalo, err := lerIntervaloConsulta(r)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("intervalo inválido, use AAAA-MM-DD"))
		return
	}

	metas, err := h.Metas.ListarMetasIndividuaisPorMembro(h.DB, uint(id))
	if err != nil {
		http.Error(w, "erro ao listar metas individuais", http.StatusInternalServerError)
		return
	}

	agora := time.Now()
	resp := make([]MetaComProgressoResponse, 0, len(metas))
	for _, m := range metas {
		metrica, conversao := MetricaDoTipo(m.Tipo)
		ini, fim := m.Inicio, m.Fim
		if temIntervalo {
			ini, fim = consultaIni, consultaFim
		}
		prog, err := h.Calculadora.CalcularProgresso(h.DB, []uint{m.MembroID}, metrica, conversao,
			m.ValorAlvo, m.Inicio, m.Fim, ini, fim)
		if err != nil {
			http.Error(w, "erro ao calcular progresso", http.StatusInternalServerError)
			return
		}
		resp = append(resp, MetaComProgressoResponse{
			Meta:       ParaMetaIndividualResponse(m),
			Alcancado:  utils.ReaisDeCentavos(prog.Alcancado),
			Percentual: prog.Percentual,
			Status:     StatusDaMeta(m.Inicio, m.Fim, prog.Percentual, agora),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// MetasEquipeComProgresso retorna as metas de equipe de um líder com o
// progresso agregado sobre toda a hierarquia resolvida
func (h *Handler) MetasEquipeComProgresso(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	consultaIni, consultaFim, temIntervalo, err := lerIntervaloConsulta(r)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("intervalo inválido, use AAAA-MM-DD"))
		return
	}

	metas, err := h.Metas.ListarMetasEquipePorLider(h.DB, uint(id))
	if err != nil {
		http.Error(w, "erro ao listar metas de equipe", http.StatusInternalServerError)
		return
	}
	membroIDs, err := h.Servico.Equipes.ResolverHierarquiaIDs(h.DB, uint(id))
	if err != nil {
		http.Error(w, "erro ao resolver hierarquia", http.StatusInternalServerError)
		return
	}

	agora := time.Now()
	resp := AcompanhamentoEquipeResponse{
		QuantidadeMembros: len(membroIDs),
		Metas:             make([]MetaComProgressoResponse, 0, len(metas)),
	}
	for _, m := range metas {
		metrica, conversao := MetricaDoTipo(m.Tipo)
		ini, fim := m.Inicio, m.Fim
		if temIntervalo {
			ini, fim = consultaIni, consultaFim
		}
		prog, err := h.Calculadora.CalcularProgresso(h.DB, membroIDs, metrica, conversao,
			m.ValorAlvo, m.Inicio, m.Fim, ini, fim)
		if err != nil {
			http.Error(w, "erro ao calcular progresso", http.StatusInternalServerError)
			return
		}
		resp.Metas = append(resp.Metas, MetaComProgressoResponse{
			Meta:       ParaMetaEquipeResponse(m),
			Alcancado:  utils.ReaisDeCentavos(prog.Alcancado),
			Percentual: prog.Percentual,
			Status:     StatusDaMeta(m.Inicio, m.Fim, prog.Percentual, agora),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
