package venda

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/VorticeComercial/api-metas/internal/apperrors"
	"github.com/VorticeComercial/api-metas/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type criarPropostaRequest struct {
	VendedorID uint    `json:"vendedorId"`
	Cliente    string  `json:"cliente"`
	Valor      float64 `json:"valor"`
	Status     string  `json:"status"`
	Data       string  `json:"data"`
}

type propostaResponse struct {
	Proposta
	ValorReais float64 `json:"valor"`
}

func paraResponse(p Proposta) propostaResponse {
	return propostaResponse{Proposta: p, ValorReais: utils.ReaisDeCentavos(p.Valor)}
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

// CriarProposta registra um fato de venda de um vendedor
func (h *Handler) CriarProposta(w http.ResponseWriter, r *http.Request) {
	var req criarPropostaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = StatusAberta
	}
	if !EhStatusValido(status) {
		apperrors.Responder(w, apperrors.Validacao("status desconhecido: "+status))
		return
	}
	data, err := utils.ParseData(req.Data)
	if err != nil {
		apperrors.Responder(w, apperrors.Validacao("data inválida, use AAAA-MM-DD"))
		return
	}

	p := Proposta{
		VendedorID: req.VendedorID,
		Cliente:    req.Cliente,
		Valor:      utils.CentavosDeReais(req.Valor),
		Status:     status,
		Data:       data,
	}
	if err := h.Repository.Salvar(h.DB, &p); err != nil {
		http.Error(w, "erro ao salvar proposta", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(paraResponse(p))
}

// ListarPorVendedor lista as propostas de um vendedor
func (h *Handler) ListarPorVendedor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	list, err := h.Repository.ListarPorVendedor(h.DB, uint(id))
	if err != nil {
		http.Error(w, "erro ao listar propostas", http.StatusInternalServerError)
		return
	}
	resp := make([]propostaResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, paraResponse(p))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// AtualizarStatus muda o status de uma proposta (aberta, convertida, suspensa)
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if !EhStatusValido(req.Status) {
		apperrors.Responder(w, apperrors.Validacao("status desconhecido: "+req.Status))
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		apperrors.Responder(w, apperrors.NaoEncontrado("proposta não encontrada"))
		return
	}
	p.Status = req.Status
	if err := h.Repository.Atualizar(h.DB, p); err != nil {
		http.Error(w, "erro ao atualizar proposta", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(paraResponse(*p))
}

// DeletarProposta remove uma proposta
func (h *Handler) DeletarProposta(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao excluir proposta", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("proposta excluída com sucesso"))
}
