package dto

type ProfileResponse struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Salary   *float64 `json:"salary"`
}
