package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/TallerPos-api/internal/application/apptest"
	"github.com/jhoicas/TallerPos-api/internal/application/auth"
	"github.com/jhoicas/TallerPos-api/internal/application/dto"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/TallerPos-api/pkg/jwt"
)

// fakeUserRepo fake mínimo del puerto de usuarios (solo lo usa este paquete).
type fakeUserRepo struct {
	users map[string]*entity.User // por email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := f.users[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	c := *u
	f.users[u.Email] = &c
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := f.users[email]; ok {
		c := *u
		return &c, nil
	}
	return nil, domain.ErrUserNotFound
}

var testJWT = auth.JWTConfig{Secret: "secret-de-test", ExpMinutes: 60, Issuer: "tallerpos-test"}

func newAuthUC(t *testing.T) (*auth.UseCase, *fakeUserRepo) {
	t.Helper()
	w := apptest.NewWorld()
	w.SeedStore("store-a", "Sucursal Centro")
	users := newFakeUserRepo()
	return auth.NewUseCase(users, w.Stores, testJWT), users
}

func register(t *testing.T, uc *auth.UseCase, email, password, role string) *dto.UserResponse {
	t.Helper()
	user, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		StoreID:  "store-a",
		Email:    email,
		Password: password,
		Name:     "Usuario de Prueba",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterUser_HasheaPasswordYAsignaRol(t *testing.T) {
	uc, users := newAuthUC(t)

	user := register(t, uc, "tecnico@taller.co", "clave-segura-123", "")
	assert.Equal(t, entity.RoleTechnician, user.Role, "sin rol explícito se asigna technician")
	assert.Equal(t, "active", user.Status)

	saved := users.users["tecnico@taller.co"]
	require.NotNil(t, saved)
	assert.NotEqual(t, "clave-segura-123", saved.PasswordHash, "el password nunca se guarda en claro")
}

func TestRegisterUser_EmailDuplicado_RetornaError(t *testing.T) {
	uc, _ := newAuthUC(t)
	register(t, uc, "admin@taller.co", "clave-123", entity.RoleAdmin)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		StoreID:  "store-a",
		Email:    "admin@taller.co",
		Password: "otra-clave",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_RolInvalido_RetornaInvalidInput(t *testing.T) {
	uc, _ := newAuthUC(t)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		StoreID:  "store-a",
		Email:    "x@taller.co",
		Password: "clave-123",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_SucursalInexistente_RetornaNotFound(t *testing.T) {
	uc, _ := newAuthUC(t)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		StoreID:  "store-fantasma",
		Email:    "x@taller.co",
		Password: "clave-123",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_CredencialesValidas_EmiteJWTConClaims(t *testing.T) {
	uc, _ := newAuthUC(t)
	created := register(t, uc, "manager@taller.co", "clave-123", entity.RoleManager)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "manager@taller.co",
		Password: "clave-123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, created.ID, resp.User.ID)

	userID, storeID, role, err := pkgjwt.Parse(testJWT.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, "store-a", storeID)
	assert.Equal(t, entity.RoleManager, role)
}

func TestLogin_PasswordIncorrecto_RetornaUnauthorized(t *testing.T) {
	uc, _ := newAuthUC(t)
	register(t, uc, "manager@taller.co", "clave-123", entity.RoleManager)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "manager@taller.co",
		Password: "clave-equivocada",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente_RetornaUserNotFound(t *testing.T) {
	uc, _ := newAuthUC(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@taller.co",
		Password: "clave-123",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo_RetornaForbidden(t *testing.T) {
	uc, users := newAuthUC(t)
	register(t, uc, "ex@taller.co", "clave-123", entity.RoleTechnician)
	users.users["ex@taller.co"].Status = "disabled"

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ex@taller.co",
		Password: "clave-123",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
