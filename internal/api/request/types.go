package request

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SaveGameRequest is the request body the game client posts after a match
type SaveGameRequest struct {
	GameMode      string `json:"game_mode"`
	Winner        int    `json:"winner"`
	Player1Nation string `json:"player1_nation"`
	Player2ID     *int64 `json:"player2_id,omitempty"`
	Player2Nation string `json:"player2_nation"`
}
