package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"botilleria/internal/apierror"
	"botilleria/internal/dto"
	"botilleria/internal/model"
	"botilleria/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// OperadorService hydrates the operator of this terminal from a token issued
// by the backend login. The token is signed with the backend's key, so it is
// decoded without verification here and validated by calling the backend.
type OperadorService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.OperadorResponse, error)
	// Actual returns the operator logged in at this terminal or a NO_AUTORIZADO error.
	Actual(ctx context.Context) (*model.Operador, error)
	Logout(ctx context.Context) error
}

type operadorService struct {
	api      API
	repo     repository.OperadorRepository
	terminal string
	now      func() time.Time
}

func NewOperadorService(api API, repo repository.OperadorRepository, terminal string) OperadorService {
	return &operadorService{api: api, repo: repo, terminal: terminal, now: time.Now}
}

// operadorClaims mirrors the claims the backend puts in its access tokens.
// user_id is numeric on some deployments, hence any.
type operadorClaims struct {
	UserID   any    `json:"user_id"`
	Nombre   string `json:"nombre"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}

const msgSesionExpirada = "sesión expirada, ingrese nuevamente"

func (s *operadorService) Login(ctx context.Context, req dto.LoginRequest) (*dto.OperadorResponse, error) {
	claims := &operadorClaims{}
	if _, _, err := jwt.NewParser(jwt.WithJSONNumber()).ParseUnverified(req.Token, claims); err != nil {
		return nil, apierror.NoAutorizado("token inválido")
	}
	if claims.UserID == nil {
		return nil, apierror.NoAutorizado("token mal formado")
	}
	op := model.Operador{
		UsuarioID:   fmt.Sprint(claims.UserID),
		Nombre:      claims.Nombre,
		Rol:         claims.Rol,
		Token:       req.Token,
		Terminal:    s.terminal,
		HidratadoEn: s.now(),
	}
	if op.Nombre == "" {
		op.Nombre = claims.Username
	}
	if claims.ExpiresAt != nil {
		op.ExpiraEn = claims.ExpiresAt.Time
	}
	if !op.Vigente(s.now()) {
		return nil, apierror.NoAutorizado(msgSesionExpirada)
	}

	// The backend is the one that can vouch for the signature.
	if err := s.api.Online(ctx, op.Token, op.Terminal); err != nil {
		return nil, err
	}
	if err := s.repo.Guardar(ctx, op); err != nil {
		return nil, err
	}
	log.Info().Str("usuario", op.Nombre).Str("rol", op.Rol).Str("terminal", op.Terminal).Msg("operador ingresó")
	return operadorToDTO(op), nil
}

func (s *operadorService) Actual(ctx context.Context) (*model.Operador, error) {
	op, err := s.repo.Obtener(ctx, s.terminal)
	if errors.Is(err, repository.ErrSinOperador) {
		return nil, apierror.NoAutorizado("no hay operador en esta terminal")
	}
	if err != nil {
		return nil, err
	}
	if !op.Vigente(s.now()) {
		_ = s.repo.Borrar(ctx, s.terminal)
		return nil, apierror.NoAutorizado(msgSesionExpirada)
	}
	return op, nil
}

func (s *operadorService) Logout(ctx context.Context) error {
	return s.repo.Borrar(ctx, s.terminal)
}

func operadorToDTO(op model.Operador) *dto.OperadorResponse {
	out := &dto.OperadorResponse{
		UsuarioID: op.UsuarioID,
		Nombre:    op.Nombre,
		Rol:       op.Rol,
		Terminal:  op.Terminal,
	}
	if !op.ExpiraEn.IsZero() {
		out.ExpiraEn = op.ExpiraEn.Format(time.RFC3339)
	}
	return out
}

// OperadorDTO renders the operator for the API.
func OperadorDTO(op model.Operador) *dto.OperadorResponse { return operadorToDTO(op) }
