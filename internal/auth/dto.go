package auth

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (d LoginDTO) Validate() error {
	return validate.Struct(d)
}

type SignUpDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

func (d SignUpDTO) Validate() error {
	return validate.Struct(d)
}

type UpdatePasswordDTO struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (d UpdatePasswordDTO) Validate() error {
	return validate.Struct(d)
}

type ResetPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

func (d ResetPasswordDTO) Validate() error {
	return validate.Struct(d)
}

type RedeemResetDTO struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (d RedeemResetDTO) Validate() error {
	return validate.Struct(d)
}
