package dto

// UserOutput is the public view of an account. The password hash never
// leaves the service.
type UserOutput struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
