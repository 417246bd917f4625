package models

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the login response
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// Ping is the backend health response
type Ping struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
