package model

// RegisterParams holds the fields of a self-service registration.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned by successful API registration and login.
type AuthResult struct {
	Token string
	User  User
}
