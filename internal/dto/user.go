package dto

// SignupRequest is the JSON body for POST /users/signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// LoginRequest is the JSON body for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the JSON body for PUT /users/:id. Nil fields keep
// their current values.
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=120"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8,max=64"`
}

// CheckEmailRequest is the JSON body for POST /users/check-email.
type CheckEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyCodeRequest is the JSON body for POST /users/verify-code.
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResetPasswordRequest is the JSON body for POST /users/reset-password.
type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// UserResponse is returned wherever user info is needed (e.g. after login).
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
