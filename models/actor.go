package models

// Role is a closed set of actor roles. Human roles are resolved once at the
// request boundary; RoleGateway is reserved for verified webhook deliveries.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
	RoleGateway  Role = "GATEWAY"
)

// Actor identifies who is requesting a state change.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// GatewayActor is the synthetic actor attached to webhook-origin requests.
func GatewayActor() Actor {
	return Actor{ID: "payment-gateway", Role: RoleGateway}
}
