// Методы клиента для регистрации и входа.
package api

// Credentials — тело запросов /user/register и /user/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse описывает ответ сервера при успешной регистрации.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResponse описывает ответ сервера при успешном входе.
//
// ExpiresIn — срок жизни токена в секундах.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// Register выполняет регистрацию пользователя на сервере.
func (c *Client) Register(email, password string) (RegisterResponse, error) {
	var resp RegisterResponse
	err := c.PostJSON("/user/register", Credentials{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Login выполняет вход пользователя и получает access-токен.
func (c *Client) Login(email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.PostJSON("/user/login", Credentials{Email: email, Password: password}, &resp, "")
	return resp, err
}
