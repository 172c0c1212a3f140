package form

// Field names as they appear in submitted forms.
const (
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldRememberMe           = "remember_me"
	FieldName                 = "name"
	FieldPasswordConfirmation = "password_confirmation"
	FieldTerms                = "terms"
	FieldNewPassword          = "new_password"
	FieldConfirmNewPassword   = "confirm_new_password"
)

// Messages shared by several schemas.
const (
	MsgInvalidEmail      = "Invalid email address."
	MsgPasswordsMismatch = "Passwords don't match."
)

// Minimum password lengths per page.
const (
	LoginPasswordMin = 6
	ResetPasswordMin = 8
)

// LoginSchema validates the sign-in form.
func LoginSchema() *Schema {
	return NewSchema(
		Email(FieldEmail),
		MinLength(FieldPassword, "Password", LoginPasswordMin),
	)
}

// RegisterSchema validates the sign-up form.
func RegisterSchema() *Schema {
	return NewSchema(
		Required(FieldName, "Name is required."),
		Email(FieldEmail),
		MinLength(FieldPassword, "Password", ResetPasswordMin),
		Matches(FieldPasswordConfirmation, FieldPassword, MsgPasswordsMismatch),
		Checked(FieldTerms, "You must accept the Terms of Service."),
	)
}

// ForgotPasswordSchema validates the reset-link request form.
func ForgotPasswordSchema() *Schema {
	return NewSchema(Email(FieldEmail))
}

// ResetPasswordSchema validates the new-password form.
func ResetPasswordSchema() *Schema {
	return NewSchema(
		MinLength(FieldNewPassword, "Password", ResetPasswordMin),
		Matches(FieldConfirmNewPassword, FieldNewPassword, MsgPasswordsMismatch),
	)
}
