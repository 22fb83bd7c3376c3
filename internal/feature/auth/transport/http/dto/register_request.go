// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterReq represents the request body for the /register endpoint.
// It uses Gin's binding tags for validation; label names the field in error messages.
// maxbytes=72 is bcrypt's input limit.
type RegisterReq struct {
	FirstName string `json:"firstName" binding:"notblank,min=2,max=50" label:"First name"`
	LastName  string `json:"lastName" binding:"notblank,min=2,max=50" label:"Last name"`
	Email     string `json:"email" binding:"notblank,email" label:"Email"`
	Password  string `json:"password" binding:"notblank,min=8,max=100,maxbytes=72" label:"Password"`
}
