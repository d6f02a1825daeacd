package auth

// LoginRequest represents a login request. Field names follow the wire
// contract of the login form ("passwd", not "password").
type LoginRequest struct {
	Email  string `json:"email"`
	Passwd string `json:"passwd"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}
