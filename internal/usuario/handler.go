package usuario

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/VorticeComercial/api-metas/internal/apperrors"
	"github.com/VorticeComercial/api-metas/internal/autenticacao"
	"github.com/VorticeComercial/api-metas/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
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

// Login gera um JWT para credenciais válidas
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.BuscarPorEmail(h.DB, req.Email)
	if err != nil || !u.Ativo {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}
	if !utils.CheckSenha(u.Senha, req.Senha) {
		http.Error(w, "senha incorreta", http.StatusUnauthorized)
		return
	}

	token, err := autenticacao.GerarToken(u.ID, u.Perfil)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// CriarUsuario cadastra um novo usuário da força de vendas
func (h *Handler) CriarUsuario(w http.ResponseWriter, r *http.Request) {
	var req CriarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if !EhPerfilValido(req.Perfil) {
		apperrors.Responder(w, apperrors.Validacao("perfil desconhecido: "+req.Perfil))
		return
	}

	hash, err := utils.HashSenha(req.Senha)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	u := Usuario{
		Nome:         req.Nome,
		Sobrenome:    req.Sobrenome,
		Email:        req.Email,
		Senha:        hash,
		Perfil:       req.Perfil,
		Ativo:        true,
		SupervisorID: req.SupervisorID,
	}
	if err := h.Repository.Salvar(h.DB, &u); err != nil {
		apperrors.Responder(w, apperrors.Conflito("e-mail já cadastrado"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

// ListarUsuarios retorna todos os usuários com seus vínculos de equipe
func (h *Handler) ListarUsuarios(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar usuários", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// BuscarPorID retorna um usuário pelo ID
func (h *Handler) BuscarUsuarioPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		apperrors.Responder(w, apperrors.NaoEncontrado("usuário não encontrado"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// AtualizarUsuario altera dados de um usuário existente
func (h *Handler) AtualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var req AtualizarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Perfil != nil && !EhPerfilValido(*req.Perfil) {
		apperrors.Responder(w, apperrors.Validacao("perfil desconhecido: "+*req.Perfil))
		return
	}

	if err := h.Repository.Atualizar(h.DB, uint(id), &req); err != nil {
		apperrors.Responder(w, apperrors.NaoEncontrado("usuário não encontrado"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("usuário atualizado com sucesso"))
}

// DeletarUsuario remove um usuário e seus vínculos de equipe
func (h *Handler) DeletarUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao excluir usuário", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("usuário excluído com sucesso"))
}

// DefinirEquipe substitui a equipe direta de um líder
func (h *Handler) DefinirEquipe(w http.ResponseWriter, r *http.Request) {
	liderID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	lider, err := h.Repository.BuscarPorID(h.DB, uint(liderID))
	if err != nil {
		apperrors.Responder(w, apperrors.NaoEncontrado("líder não encontrado"))
		return
	}
	if !EhPerfilLider(lider.Perfil) {
		apperrors.Responder(w, apperrors.Validacao("perfil "+lider.Perfil+" não pode liderar equipe"))
		return
	}

	var req DefinirEquipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	membros, err := h.Repository.ListarAtivosPorIDs(h.DB, req.MembroIDs)
	if err != nil {
		http.Error(w, "erro ao validar membros", http.StatusInternalServerError)
		return
	}
	if len(membros) != len(req.MembroIDs) {
		apperrors.Responder(w, apperrors.Validacao("lista contém membros inexistentes ou inativos"))
		return
	}

	if err := h.Repository.DefinirEquipe(h.DB, uint(liderID), req.MembroIDs); err != nil {
		http.Error(w, "erro ao definir equipe", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("equipe atualizada com sucesso"))
}

// Me retorna o usuário logado
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(autenticacao.CtxUsuarioID).(uint)

	u, err := h.Repository.BuscarPorID(h.DB, userID)
	if err != nil {
		http.Error(w, "usuário não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}
