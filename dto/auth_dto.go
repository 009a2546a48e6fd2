package dto

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Response is the envelope every endpoint replies with.
type Response struct {
	Code   int `json:"code"`
	Result any `json:"result"`
}

type UserProfile struct {
	Account string `json:"account"`
	Name    string `json:"name"`
}
