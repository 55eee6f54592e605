package usecase

import (
	"context"
	"net/http"
	"testing"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_IssuesToken(t *testing.T) {
	userRepo := new(userRepoMock)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "hanako@example.com").Return(nil, repo.ErrUserNotFound)
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		u.ID = 7
		return u.Email == "hanako@example.com" && u.Role == model.RoleUser && u.IsActive
	})).Return(nil)

	uc := NewAuthUsecase(userRepo, "test-secret")
	uc.now = fixedNow

	out, err := uc.Register(ctx, RegisterInput{
		Name:     "山田 花子",
		Email:    "Hanako@Example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.User.ID)
	assert.Equal(t, "USER", out.User.Role)

	//トークンにsubとroleが入っている
	token, err := jwt.Parse(out.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(fixedNow))
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "7", claims["sub"])
	assert.Equal(t, "USER", claims["role"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(userRepoMock)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "hanako@example.com").Return(&model.User{ID: 1}, nil)

	uc := NewAuthUsecase(userRepo, "test-secret")
	_, err := uc.Register(ctx, RegisterInput{Name: "花子", Email: "hanako@example.com", Password: "password123"})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestRegister_ShortPassword(t *testing.T) {
	uc := NewAuthUsecase(new(userRepoMock), "test-secret")
	_, err := uc.Register(context.Background(), RegisterInput{Name: "花子", Email: "hanako@example.com", Password: "short"})

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestLogin_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	userRepo := new(userRepoMock)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "hanako@example.com").Return(&model.User{
		ID: 7, Email: "hanako@example.com", PasswordHash: string(hash),
		Role: model.RoleUser, IsActive: true,
	}, nil)
	userRepo.On("UpdateLastLogin", ctx, int64(7), fixedNow()).Return(nil)

	uc := NewAuthUsecase(userRepo, "test-secret")
	uc.now = fixedNow

	out, err := uc.Login(ctx, LoginInput{Email: "hanako@example.com", Password: "password123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	userRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	userRepo := new(userRepoMock)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "hanako@example.com").Return(&model.User{
		ID: 7, PasswordHash: string(hash), IsActive: true,
	}, nil)

	uc := NewAuthUsecase(userRepo, "test-secret")
	_, err := uc.Login(ctx, LoginInput{Email: "hanako@example.com", Password: "wrong"})

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	userRepo := new(userRepoMock)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, repo.ErrUserNotFound)

	uc := NewAuthUsecase(userRepo, "test-secret")
	_, err := uc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever"})

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Equal(t, "invalid email or password", he.Message)
}

func TestLogin_DisabledAccount(t *testing.T) {
	userRepo := new(userRepoMock)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "hanako@example.com").Return(&model.User{
		ID: 7, IsActive: false,
	}, nil)

	uc := NewAuthUsecase(userRepo, "test-secret")
	_, err := uc.Login(ctx, LoginInput{Email: "hanako@example.com", Password: "password123"})

	he, _ := AsHTTPError(err)
	assert.Equal(t, http.StatusForbidden, he.Status)
}
