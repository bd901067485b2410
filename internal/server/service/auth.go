package service

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-stocks-api/internal/shared/errors"
)

// Сообщения об ошибках регистрации и логина.
const (
	MsgLoginIncomplete    = "Request body invalid - email and password are required"
	MsgLoginFailed        = "Incorrect email or password"
	MsgRegisterIncomplete = "Request body incomplete - email and password needed"
	MsgRegisterInvalid    = "Request body invalid. Only alphanumeric and common symbols may be used. The length must be between 1 and 72."
	MsgUserExists         = "User already exists!"
	MsgUserCreated        = "User created"
)

// credentialRe — печатные ASCII-символы, от 1 до 72 штук.
// 72 байта — предел, который учитывает bcrypt.
var credentialRe = regexp.MustCompile(`^[ -~]{1,72}$`)

// dummyPassword хэшируется один раз и сравнивается при логине с неизвестным email,
// чтобы время ответа не выдавало, есть ли такой пользователь.
const dummyPassword = "stocks-api-dummy-password"

// AuthService реализует регистрацию и логин.
//
// Email сравнивается как есть, без приведения регистра.
type AuthService struct {
	users  UsersRepo
	hasher crypto.PasswordHasher
	tokens *crypto.TokenManager

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService создаёт AuthService.
func NewAuthService(users UsersRepo, hasher crypto.PasswordHasher, tokens *crypto.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register регистрирует нового пользователя.
//
// Ошибки:
//   - ErrInvalidInput, если поле пустое или содержит недопустимые символы;
//   - ErrAlreadyExists, если email уже занят (в том числе при гонке двух регистраций);
//   - ErrInternal при ошибке хэширования или БД.
func (s *AuthService) Register(ctx context.Context, email, password string) (uuid.UUID, error) {
	if email == "" || password == "" {
		return uuid.Nil, serr.New(serr.ErrInvalidInput, MsgRegisterIncomplete)
	}
	if !credentialRe.MatchString(email) || !credentialRe.MatchString(password) {
		return uuid.Nil, serr.New(serr.ErrInvalidInput, MsgRegisterInvalid)
	}

	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, serr.New(serr.ErrAlreadyExists, MsgUserExists)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return uuid.Nil, errors.Join(serr.ErrInternal, err)
	}

	id, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return uuid.Nil, serr.New(serr.ErrAlreadyExists, MsgUserExists)
		}
		return uuid.Nil, err
	}
	return id, nil
}

// Login проверяет учётные данные и выдаёт access-токен.
//
// Неизвестный email и неверный пароль дают одну и ту же ошибку ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (crypto.IssuedToken, error) {
	if email == "" || password == "" {
		return crypto.IssuedToken{}, serr.New(serr.ErrInvalidInput, MsgLoginIncomplete)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			s.compareDummy(password)
			return crypto.IssuedToken{}, serr.New(serr.ErrInvalidCredentials, MsgLoginFailed)
		}
		return crypto.IssuedToken{}, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return crypto.IssuedToken{}, errors.Join(serr.ErrInternal, err)
	}
	if !ok {
		return crypto.IssuedToken{}, serr.New(serr.ErrInvalidCredentials, MsgLoginFailed)
	}

	tok, err := s.tokens.Issue(user.Email)
	if err != nil {
		return crypto.IssuedToken{}, errors.Join(serr.ErrInternal, err)
	}
	return tok, nil
}

// compareDummy тратит на проверку пароля столько же времени, сколько для существующего пользователя.
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}
