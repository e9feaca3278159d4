package types

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the register/login failure envelope the frontend expects.
type AuthResult struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Token        string    `json:"token"`
	Expiration   time.Time `json:"expiration"`
	RefreshToken string    `json:"refreshToken"`
}

type BotConfigRequest struct {
	AppName string `json:"appName"`
	Config1 string `json:"config1"`
	Config2 string `json:"config2"`
	Config3 string `json:"config3"`
}

type BotConfigResponse struct {
	ID        string    `json:"id"`
	AppName   string    `json:"appName"`
	Config1   string    `json:"config1"`
	Config2   string    `json:"config2"`
	Config3   string    `json:"config3"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DetectIntentRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
