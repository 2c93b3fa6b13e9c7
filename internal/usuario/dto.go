package usuario

type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type CriarUsuarioRequest struct {
	Nome         string `json:"nome"`
	Sobrenome    string `json:"sobrenome"`
	Email        string `json:"email"`
	Senha        string `json:"senha"`
	Perfil       string `json:"perfil"`
	SupervisorID *uint  `json:"supervisorId"`
}

type AtualizarUsuarioRequest struct {
	Nome         *string `json:"nome"`
	Sobrenome    *string `json:"sobrenome"`
	Email        *string `json:"email"`
	Perfil       *string `json:"perfil"`
	Ativo        *bool   `json:"ativo"`
	SupervisorID *uint   `json:"supervisorId"`
}

type DefinirEquipeRequest struct {
	MembroIDs []uint `json:"membroIds"`
}
