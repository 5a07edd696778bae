package entity

// User is the narrow view of the user collaborator this service consumes.
// Profile fields live in another service and are out of scope here.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	IsGatewayConnected bool   `json:"is_gateway_connected"`
}
